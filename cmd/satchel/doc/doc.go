// Package doccmder provides commands for managing documents in a collection.
package doccmder

import (
	"github.com/spf13/cobra"
)

const docLongDesc string = `Manage documents in a collection.

Documents are identified by URI within their collection. On add, the body,
summary, and metadata are embedded so the document becomes searchable.

Use subcommands to add, remove, or fetch documents:
  satchel doc add       Add a document to a collection
  satchel doc remove    Remove a document by URI
  satchel doc get       Fetch a document by URI

Examples:
  satchel doc add -c notes -u file:///notes/ideas.md -b "Body text" -s "Short summary"
  satchel doc get -c notes -u file:///notes/ideas.md
  satchel doc remove -c notes -u file:///notes/ideas.md`

const docShortDesc string = "Manage documents"

func NewDocCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doc",
		Short: docShortDesc,
		Long:  docLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newGetCmd())

	return cmd
}
