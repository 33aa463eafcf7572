package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

// Past this count the refresh summary stops listing individual machines.
const newMachinesTableLimit = 10

var refreshCmd = &cobra.Command{
	Use:     "refresh",
	Aliases: []string{"f"},
	Short:   "Force a cache refresh from the bastion",
	Args:    cobra.NoArgs,
	RunE:    runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	if err := app.ensureAuth(); err != nil {
		return err
	}

	result, err := app.Manager.RefreshCache()
	if err != nil {
		return err
	}
	printer.PrintSuccess(fmt.Sprintf("Cache refreshed (%d machines)", len(result.Snapshot.Machines)))

	if len(result.Added) == 0 {
		return nil
	}
	if len(result.Added) > newMachinesTableLimit {
		printer.PrintInfo(fmt.Sprintf("%d new machines added", len(result.Added)))
		return nil
	}
	printer.PrintTitle("New machines added")
	return printer.MachineTable(os.Stdout, result.Added, false)
}
