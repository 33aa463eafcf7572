package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PAPAMICA/wallix-ssh/internal/inventory"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
	"github.com/PAPAMICA/wallix-ssh/pkg/printer"
)

var (
	updateDescription string
	updateTags        string
)

var updateCmd = &cobra.Command{
	Use:     "update <machine>",
	Aliases: []string{"u"},
	Short:   "Update a machine's description and tags on the bastion",
	Long: `Pushes a new description and/or tag set to the bastion, then syncs the
local cache. The cache is only touched after the bastion confirms the
change.`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func runUpdate(cmd *cobra.Command, args []string) error {
	req := models.UpdateRequest{Machine: args[0]}
	if cmd.Flags().Changed("description") {
		req.Description = &updateDescription
	}
	if updateTags != "" {
		tags, err := models.ParseTagPairs(updateTags)
		if err != nil {
			return fmt.Errorf("%w: %v", inventory.ErrInvalidUpdateRequest, err)
		}
		req.Tags = tags
	}
	// Shape check before prompting for credentials.
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", inventory.ErrInvalidUpdateRequest, err)
	}

	if err := app.ensureAuth(); err != nil {
		return err
	}

	outcome, err := app.Manager.ApplyUpdate(req)
	if err != nil {
		return err
	}
	switch outcome.State {
	case inventory.CacheSynced:
		printer.PrintSuccess(fmt.Sprintf("Machine '%s' updated", req.Machine))
	case inventory.CacheSyncFailed:
		printer.PrintSuccess(fmt.Sprintf("Machine '%s' updated on the bastion", req.Machine))
		printer.PrintWarning(fmt.Sprintf("local cache could not be updated (%v); it will reconcile on the next refresh", outcome.Warning))
	}
	return nil
}

func init() {
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "New description for the machine")
	updateCmd.Flags().StringVar(&updateTags, "tags", "", "New tags in key1:value1,key2:value2 format")
}
