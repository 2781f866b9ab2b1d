//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// SKYLAUNCH_E2E_BIN points at a prebuilt binary and skips the build step
const prebuiltEnv = "SKYLAUNCH_E2E_BIN"

func TestMain(m *testing.M) {
	os.Exit(runSuite(m))
}

func runSuite(m *testing.M) int {
	if prebuilt := os.Getenv(prebuiltEnv); prebuilt != "" {
		abs, err := filepath.Abs(prebuilt)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad %s: %v\n", prebuiltEnv, err)
			return 1
		}
		binPath = abs
		return m.Run()
	}

	buildDir, err := os.MkdirTemp("", "skylaunch-e2e-")
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create build dir: %v\n", err)
		return 1
	}
	defer os.RemoveAll(buildDir)

	root, err := filepath.Abs("..")
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot resolve module root: %v\n", err)
		return 1
	}

	binPath = filepath.Join(buildDir, "skylaunch")
	build := exec.Command("go", "build", "-o", binPath, ".")
	build.Dir = root
	if out, err := build.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "go build in %s failed: %v\n%s", root, err, out)
		return 1
	}

	return m.Run()
}
