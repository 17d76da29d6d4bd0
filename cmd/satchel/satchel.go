// Package satchelcmder
package satchelcmder

import (
	collectioncmder "github.com/satchelworks/satchel/cmd/satchel/collection"
	configcmder "github.com/satchelworks/satchel/cmd/satchel/config"
	doccmder "github.com/satchelworks/satchel/cmd/satchel/doc"
	searchcmder "github.com/satchelworks/satchel/cmd/satchel/search"
	servecmder "github.com/satchelworks/satchel/cmd/satchel/serve"
	versioncmder "github.com/satchelworks/satchel/cmd/version"
	"github.com/spf13/cobra"
)

const satchelLongDesc string = `Satchel is a shared semantic document store for agents.

The store lives as a single database file in an S3 bucket, so any number of
stateless clients can read and write the same collections. Every command
synchronizes against the remote copy before and after it runs.

Common commands:
  satchel serve                 Run the API and MCP servers
  satchel collection add        Create a collection
  satchel doc add               Add a document to a collection
  satchel search                Find relevant documents`

const satchelShortDesc string = "Satchel - Shared Semantic Document Store"

func NewSatchelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "satchel",
		Short: satchelShortDesc,
		Long:  satchelLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory containing config.toml (default: ./.satchel or ~/.satchel)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(collectioncmder.NewCollectionCmd())
	cmd.AddCommand(doccmder.NewDocCmd())
	cmd.AddCommand(searchcmder.NewSearchCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
