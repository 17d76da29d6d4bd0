// Package collectioncmder provides commands for managing document collections.
package collectioncmder

import (
	"github.com/spf13/cobra"
)

const collectionLongDesc string = `Manage document collections in the shared store.

Collections group related documents for search. Collection names are
sanitized before use, so names that differ only in spaces, dashes, dots,
or other separator characters refer to the same collection.

Use subcommands to add, remove, or list collections:
  satchel collection add <name>       Create a collection
  satchel collection remove <name>    Delete a collection and its documents
  satchel collection list             List all collections

Examples:
  satchel collection add research-papers
  satchel collection remove research-papers
  satchel collection list`

const collectionShortDesc string = "Manage document collections"

func NewCollectionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "collection",
		Aliases: []string{"col"},
		Short:   collectionShortDesc,
		Long:    collectionLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
