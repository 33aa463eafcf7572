package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/internal/inventory"
	"github.com/PAPAMICA/wallix-ssh/internal/launcher"
	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

var connectCmd = &cobra.Command{
	Use:     "connect <machine>",
	Aliases: []string{"c"},
	Short:   "Connect to a machine by exact name",
	Args:    cobra.ExactArgs(1),
	RunE:    runConnect,
}

func runConnect(cmd *cobra.Command, args []string) error {
	name := args[0]

	if flagForceRefresh {
		if err := app.ensureAuth(); err != nil {
			return err
		}
	}
	machine, err := app.Manager.Find(name, flagForceRefresh)
	if errors.Is(err, inventory.ErrMachineNotFound) && !flagForceRefresh {
		printer.PrintWarning("Machine '" + name + "' not found in cache")
		if !promptYes("Force cache refresh and try again?", true) {
			return err
		}
		if authErr := app.ensureAuth(); authErr != nil {
			return authErr
		}
		machine, err = app.Manager.Find(name, true)
	}
	if err != nil {
		return err
	}

	return app.connect(machine, launcher.Options{
		Interactive: flagInteractive,
		NoDeploy:    flagNoDeploy,
	})
}

func init() {
	addSessionFlags(connectCmd)
	connectCmd.Flags().BoolVarP(&flagForceRefresh, "force-refresh", "f", false, "Refresh the cache before resolving the machine")
}
