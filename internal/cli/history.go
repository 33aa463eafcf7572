package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/internal/launcher"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:     "history",
	Aliases: []string{"h"},
	Short:   "Show recent connections and reconnect",
	Long: `Shows the most recent connection per machine, most recent first, and
offers to reconnect. This is also what running wallix-ssh with no
arguments displays.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	names := app.Manager.RecentMachines(historyLimit)
	if len(names) == 0 {
		printer.PrintInfo("No connection history available")
		return nil
	}

	// Resolve history names against the current inventory so the pick
	// list shows live data; machines that left the inventory are shown
	// from the ledger only and cannot be picked.
	entries := latestEntries(names, app.Manager.RecentHistory(0))

	printer.PrintTitle("Recent connections")
	if err := printer.HistoryTable(os.Stdout, entries); err != nil {
		return err
	}
	printer.PrintInfo("Enter the number of the machine to connect to")
	idx, ok := promptIndex(len(entries))
	if !ok {
		return nil
	}

	machine, err := app.Manager.Find(entries[idx].Machine, false)
	if err != nil {
		return err
	}
	return app.connect(machine, launcher.Options{
		Interactive: flagInteractive,
		NoDeploy:    flagNoDeploy,
	})
}

// latestEntries keeps, for each name in order, its most recent ledger entry.
func latestEntries(names []string, all []models.HistoryEntry) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(names))
	for _, name := range names {
		for _, e := range all {
			if e.Machine == name {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "Maximum entries to show (0 = all retained)")
	addSessionFlags(historyCmd)
}
