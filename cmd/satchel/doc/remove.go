package doccmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchelworks/satchel/pkg/cliui"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
)

const removeLongDesc string = `Remove a document from a collection by URI.

Removing a URI that does not exist is not an error; the store ends up in
the same state either way.

Examples:
  satchel doc remove -c notes -u file:///notes/ideas.md`

const removeShortDesc string = "Remove a document by URI"

func newRemoveCmd() *cobra.Command {
	var collection, uri string

	cmd := &cobra.Command{
		Use:     "remove",
		Aliases: []string{"rm"},
		Short:   removeShortDesc,
		Long:    removeLongDesc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runRemove(collection, uri, configDir, debug)
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection to remove the document from (required)")
	cmd.Flags().StringVarP(&uri, "uri", "u", "", "URI of the document to remove (required)")

	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func runRemove(collection, uri, configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	service, err := satchel.BuildFromDir(configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	err = cliui.Step(os.Stdout, fmt.Sprintf("Removing document %q", uri), func() error {
		return service.RemoveDocument(context.Background(), collection, uri)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Document %s removed from %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(uri),
		cliui.ValueStyle.Render(collection),
	)
	return nil
}
