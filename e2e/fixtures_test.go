//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var desktopFixtures = map[string]string{
	"google-chrome.desktop": `[Desktop Entry]
Type=Application
Name=Google Chrome
GenericName=Web Browser
Keywords=browser;internet;
Exec=/usr/bin/google-chrome-stable %U
`,
	"firefox.desktop": `[Desktop Entry]
Type=Application
Name=Firefox
GenericName=Web Browser
Keywords=browser;web;
Exec=firefox %u
`,
	"gimp.desktop": `[Desktop Entry]
Type=Application
Name=GNU Image Manipulation Program
Comment=Create images and edit photographs
Keywords=graphics;paint;
Exec=gimp-2.10 %U
`,
	"helper.desktop": `[Desktop Entry]
Type=Application
Name=Hidden Helper
NoDisplay=true
Exec=helper
`,
}

// CreateTestWorkspace creates a temporary home directory for one app run
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// CreateDesktopDir writes the fixture .desktop files and returns the directory
func (tf *TUITestFramework) CreateDesktopDir() (string, error) {
	if tf.workspace == "" {
		return "", fmt.Errorf("workspace not created")
	}

	dir := filepath.Join(tf.workspace, "applications")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	for name, content := range desktopFixtures {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			return "", err
		}
	}
	return dir, nil
}

// StartLauncher prepares a workspace and starts the TUI on the fixture catalog
func (tf *TUITestFramework) StartLauncher(extraArgs ...string) error {
	if _, err := tf.CreateTestWorkspace(); err != nil {
		return err
	}
	dir, err := tf.CreateDesktopDir()
	if err != nil {
		return err
	}
	args := append([]string{"--desktop-dir", dir, "--no-path"}, extraArgs...)
	return tf.StartApp(args...)
}

// Mark returns the current output position
func (tf *TUITestFramework) Mark() int {
	tf.t.Helper()
	return len(tf.Snapshot())
}

// SeePlainSince waits for text to appear in output written after mark
func (tf *TUITestFramework) SeePlainSince(mark int, text string) bool {
	tf.t.Helper()
	return tf.WaitFor(func(s string) bool {
		if mark > len(s) {
			mark = 0
		}
		return strings.Contains(ansiRe.ReplaceAllString(s[mark:], ""), text)
	}, 3*time.Second)
}

// isolatedEnv is the environment for one-shot CLI runs inside a workspace
func isolatedEnv(workspace string) []string {
	return append(os.Environ(),
		"HOME="+workspace,
		"XDG_CONFIG_HOME="+filepath.Join(workspace, "config"),
		"XDG_STATE_HOME="+filepath.Join(workspace, "state"),
		"XDG_DATA_HOME="+filepath.Join(workspace, "data"),
		"XDG_DATA_DIRS="+filepath.Join(workspace, "shared"),
	)
}
