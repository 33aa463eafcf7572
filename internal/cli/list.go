package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

var listOutputFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List machines from the bastion inventory",
	Long:  `Lists the machines known to the bastion, served from the local cache when fresh.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria("")
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

	switch printer.OutputType(listOutputFormat) {
	case printer.OutputTypeJSON:
		return printer.PrintJSON(os.Stdout, machines)
	case printer.OutputTypeYAML:
		return printer.PrintYAML(os.Stdout, machines)
	default:
		if len(machines) == 0 {
			printer.PrintInfo("No machines found")
			return nil
		}
		printer.PrintTitle("Available machines")
		return printer.MachineTable(os.Stdout, machines, false)
	}
}

func init() {
	addFilterFlags(listCmd)
	listCmd.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "Output format (table, json, yaml)")
}
