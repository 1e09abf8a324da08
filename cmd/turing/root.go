package main

import (
	"fmt"
	"os"

	"github.com/aretw0/turing/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing runs deterministic single-tape Turing machines",
	Long: `Turing loads machine descriptions (YAML or JSON) from a directory and
runs them on input strings, step by step or to completion.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing machine files")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("max-steps", cli.DefaultMaxSteps, "Abort runs after this many steps (negative for no limit)")
	rootCmd.PersistentFlags().Bool("permissive", false, "Skip cross-reference checks; on duplicate rules the last one wins")
	rootCmd.PersistentFlags().String("sep", "", "Input symbol separator (default: one symbol per character)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON output")
}

// options reads the global flags shared by every command.
func options(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.Dir, _ = flags.GetString("dir")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.MaxSteps, _ = flags.GetInt("max-steps")
	opts.Permissive, _ = flags.GetBool("permissive")
	opts.Sep, _ = flags.GetString("sep")
	opts.Quiet, _ = flags.GetBool("quiet")
	opts.JSON, _ = flags.GetBool("json")
	return opts
}

// sessionFlags adds the session store flags to cmd.
func sessionFlags(cmd *cobra.Command) {
	cmd.Flags().String("store", "file", "Session store: file, memory or redis (sealed with TURING_SESSION_KEY when set)")
	cmd.Flags().String("redis-addr", "", "Redis address for the redis store (password from TURING_REDIS_PASSWORD)")
}

func withSessionFlags(cmd *cobra.Command, opts cli.Options) cli.Options {
	opts.Store, _ = cmd.Flags().GetString("store")
	opts.RedisAddr, _ = cmd.Flags().GetString("redis-addr")
	opts.RedisPass = os.Getenv("TURING_REDIS_PASSWORD")
	opts.SessionKey = os.Getenv("TURING_SESSION_KEY")
	return opts
}
