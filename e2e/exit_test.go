//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestApplicationExit(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	err := tf.StartLauncher()
	require.NoError(t, err, "Failed to start app")

	// Wait for TUI to initialize and render
	require.True(t, tf.Ready(), "Should render the catalog")

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	// Esc on an empty query quits
	t.Logf("Sending Esc to quit application...")
	require.NoError(t, tf.ClearOrQuit())

	select {
	case exitErr := <-done:
		if exitErr == nil {
			t.Logf("Process exited cleanly with Esc")
		} else {
			t.Logf("Process exited with Esc (exit code: %v)", exitErr)
		}
		return
	case <-time.After(1500 * time.Millisecond):
		t.Logf("Esc didn't work within 1.5 seconds, using Ctrl+C")
		tf.SendCtrlC()
	}

	select {
	case exitErr := <-done:
		t.Errorf("Esc did not quit, Ctrl+C did (exit code: %v)", exitErr)
	case <-time.After(750 * time.Millisecond):
		t.Error("Application did not exit within total timeout")
		tf.DumpTailOnFail(t, "exit-failure", 4096)
		tf.SendCtrlC()
	}
}

func TestApplicationExitWithCtrlC(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartLauncher(), "Failed to start app")
	require.True(t, tf.Ready(), "Should render the catalog")

	// A typed query does not block Ctrl+C
	require.NoError(t, tf.Type("fire"))

	done := make(chan error, 1)
	go func() {
		done <- tf.cmd.Wait()
	}()

	require.NoError(t, tf.Quit())

	select {
	case <-done:
		t.Logf("Process exited after Ctrl+C")
	case <-time.After(2 * time.Second):
		t.Fatal("app did not exit after Ctrl+C")
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartLauncher(), "Failed to start app")
	require.True(t, tf.Ready(), "Should render the catalog")

	second := NewTUITest(t)
	second.workspace = tf.workspace
	defer func() {
		second.workspace = "" // owned by tf
		second.Cleanup()
	}()
	require.NoError(t, second.StartApp("--no-path"))

	require.True(t, second.OutputContainsPlain("another skylaunch instance is running", 3*time.Second),
		"second instance should report the lock")
}
