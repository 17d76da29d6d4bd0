package doccmder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satchelworks/satchel/pkg/cliui"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
)

const getLongDesc string = `Fetch a document from a collection by URI.

By default the document is pretty-printed with the body rendered as
markdown. Use --json to print the raw document as JSON instead.

Examples:
  satchel doc get -c notes -u file:///notes/ideas.md
  satchel doc get -c notes -u file:///notes/ideas.md --json`

const getShortDesc string = "Fetch a document by URI"

func newGetCmd() *cobra.Command {
	var collection, uri string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: getShortDesc,
		Long:  getLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runGet(collection, uri, configDir, asJSON, debug)
		},
	}

	cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection to fetch the document from (required)")
	cmd.Flags().StringVarP(&uri, "uri", "u", "", "URI of the document to fetch (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw document as JSON")

	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func runGet(collection, uri, configDir string, asJSON, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	service, err := satchel.BuildFromDir(configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	doc, err := service.GetDocument(context.Background(), collection, uri)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %q not found in collection %q", uri, collection)
	}

	if asJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Printf("\n  %s %s\n", cliui.KeyStyle.Render("URI:"), cliui.ValueStyle.Render(doc.URI))
	if doc.Title != "" {
		fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Title:"), cliui.ValueStyle.Render(doc.Title))
	}
	if doc.Summary != "" {
		fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Summary:"), cliui.ValueStyle.Render(doc.Summary))
	}
	if len(doc.Metadata) > 0 {
		meta, err := json.Marshal(doc.Metadata)
		if err != nil {
			return err
		}
		fmt.Printf("  %s %s\n", cliui.KeyStyle.Render("Metadata:"), cliui.DimStyle.Render(string(meta)))
	}

	if doc.Body != "" {
		rendered, err := cliui.RenderMarkdown(doc.Body)
		if err != nil {
			// fall back to the raw body if the terminal renderer fails
			rendered = doc.Body
		}
		fmt.Printf("\n%s\n", rendered)
	} else {
		fmt.Println()
	}

	return nil
}
