package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagDesktopDirs []string
	flagNoPath      bool

	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:          "skylaunch",
	Short:        "Keyboard-driven application launcher for the terminal",
	SilenceUsage: true,
	Long: `Skylaunch indexes desktop applications, executables on $PATH and a few
builtin commands, and lets you fuzzy-search and launch them from a TUI.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
	// Logs go to a file so they never mix with the TUI or command output
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		closeLog = setupLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringSliceVar(&flagDesktopDirs, "desktop-dir", nil, "Scan these .desktop directories instead of the configured ones")
	rootCmd.PersistentFlags().BoolVar(&flagNoPath, "no-path", false, "Do not index executables on $PATH")
}

// Execute is called by main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
