// Package main provides the tasks binary: a terminal task tracker with a
// full-screen UI and scriptable subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	logLevel   string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Personal task tracker",
		Long: `tasks keeps a personal list of tasks with priorities and due dates.

Run without arguments to open the interactive dashboard, or use the
subcommands to script it.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	cmd.AddCommand(
		listCmd(flags),
		addCmd(flags),
		editCmd(flags),
		doneCmd(flags),
		rmCmd(flags),
		statsCmd(flags),
		signupCmd(flags),
		loginCmd(flags),
		logoutCmd(flags),
		whoamiCmd(flags),
		avatarCmd(flags),
		configCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "tasks %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return cmd
}
