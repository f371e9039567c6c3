package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/graph-actions/internal/actions"
	"github.com/custodia-labs/graph-actions/internal/graphclient"
	"github.com/custodia-labs/graph-actions/internal/logger"
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List the registered action catalog",
	RunE:  runActions,
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}

// runActions lists the catalog without touching credentials; no Graph call
// is made, so placeholder client settings are fine.
func runActions(cmd *cobra.Command, _ []string) error {
	log := logger.New("error", verbose)
	registry, err := actions.BuildRegistry(graphclient.New(), actions.Config{
		Mailbox: "me",
		Version: version,
	}, log)
	if err != nil {
		return err
	}
	for _, name := range registry.Names() {
		action, err := registry.Resolve(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-28s %-10s %s\n", action.Name, action.Category, action.Description)
	}
	return nil
}
