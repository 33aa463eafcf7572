package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/internal/launcher"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

var searchCmd = &cobra.Command{
	Use:     "search [term]",
	Aliases: []string{"s"},
	Short:   "Search machines and connect to one",
	Long: `Searches the inventory by free text and filters, then offers to connect.
A single hit connects after confirmation; multiple hits present a numbered
pick list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	term := ""
	if len(args) == 1 {
		term = args[0]
	}
	criteria, err := buildCriteria(term)
	if err != nil {
		return err
	}

	if flagForceRefresh {
		if err := app.ensureAuth(); err != nil {
			return err
		}
	}
	machines, err := app.Manager.ListMachines(criteria, flagForceRefresh)
	if err != nil {
		return err
	}

	if len(machines) == 0 {
		printer.PrintInfo("No machines found")
		// A miss against a week-old cache often just means the machine
		// is new; offer to refetch once.
		if flagForceRefresh || !promptYes("Force cache refresh and try again?", true) {
			return nil
		}
		if err := app.ensureAuth(); err != nil {
			return err
		}
		machines, err = app.Manager.ListMachines(criteria, true)
		if err != nil {
			return err
		}
		if len(machines) == 0 {
			printer.PrintInfo("No machines found after refresh")
			return nil
		}
	}

	return pickAndConnect(machines)
}

// pickAndConnect shows the results and turns a selection into a session.
func pickAndConnect(machines []models.Machine) error {
	opts := launcher.Options{Interactive: flagInteractive, NoDeploy: flagNoDeploy}

	printer.PrintTitle("Search results")
	if len(machines) == 1 {
		if err := printer.MachineTable(os.Stdout, machines, false); err != nil {
			return err
		}
		if !promptYes("Connect to "+machines[0].Name+"?", true) {
			return nil
		}
		return app.connect(machines[0], opts)
	}

	if err := printer.MachineTable(os.Stdout, machines, true); err != nil {
		return err
	}
	printer.PrintInfo("Enter the number of the machine to connect to")
	idx, ok := promptIndex(len(machines))
	if !ok {
		return nil
	}
	return app.connect(machines[idx], opts)
}

func init() {
	addFilterFlags(searchCmd)
	addSessionFlags(searchCmd)
}
