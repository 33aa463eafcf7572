package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

// app is the shared per-invocation wiring, built by the root command before
// any subcommand runs.
var app *App

var rootCmd = &cobra.Command{
	Use:   "wallix-ssh [search-term]",
	Short: "Wallix bastion connection manager",
	Long: `wallix-ssh discovers, filters and connects to machines managed by a
Wallix bastion, keeping a local inventory cache so day-to-day lookups
never wait on the API.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// A bare positional argument is a search; no argument at all
		// shows the recent-connections view.
		if len(args) == 1 {
			return runSearch(cmd, args)
		}
		return runHistory(cmd, args)
	},
}

// Execute runs the CLI. Errors are reported kubectl-style and decide the
// exit code here, nothing deeper in the stack ever exits.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	addSessionFlags(rootCmd)
	addFilterFlags(rootCmd)
}
