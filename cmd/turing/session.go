package main

import (
	"os"
	"strconv"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stepwise runs",
	Long:  `Start, advance, inspect and remove persistent sessions. The file store keeps them in <dir>/.turing/sessions.`,
}

var sessionStartCmd = &cobra.Command{
	Use:   "start <machine> [input]",
	Short: "Start a session and print its ID",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var input string
		if len(args) == 2 {
			input = args[1]
		}
		return cli.StartSession(cmd.Context(), withSessionFlags(cmd, options(cmd)), args[0], input, os.Stdout)
	},
}

var sessionStepCmd = &cobra.Command{
	Use:   "step <session-id> [count]",
	Short: "Apply up to count transitions (default 1)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n := 1
		if len(args) == 2 {
			var err error
			if n, err = strconv.Atoi(args[1]); err != nil {
				return err
			}
		}
		return cli.StepSession(cmd.Context(), withSessionFlags(cmd, options(cmd)), args[0], n, os.Stdout)
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:     "inspect <session-id>",
	Aliases: []string{"show"},
	Short:   "Inspect the state of a session",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ShowSession(cmd.Context(), withSessionFlags(cmd, options(cmd)), args[0], os.Stdout)
	},
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.ListSessions(cmd.Context(), withSessionFlags(cmd, options(cmd)), os.Stdout)
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Remove a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.DeleteSession(cmd.Context(), withSessionFlags(cmd, options(cmd)), args[0], os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	for _, c := range []*cobra.Command{sessionStartCmd, sessionStepCmd, sessionInspectCmd, sessionLsCmd, sessionRmCmd} {
		sessionFlags(c)
		sessionCmd.AddCommand(c)
	}
}
