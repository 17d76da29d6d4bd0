package doccmder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchelworks/satchel/pkg/cliui"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
	"github.com/satchelworks/satchel/pkg/store"
)

type addCommander struct {
	collection string
	uri        string
	title      string
	body       string
	bodyFile   string
	summary    string
	metadata   string
	chunkID    int

	configDir string
	debug     bool
}

const addLongDesc string = `Add a document to a collection.

The body can be passed inline with --body or read from a file with
--body-file. Metadata is a JSON object string. The URI must be unique
within the collection.

Examples:
  satchel doc add -c notes -u file:///notes/ideas.md -b "Body text"
  satchel doc add -c notes -u file:///notes/ideas.md --body-file ideas.md \
      --title "Ideas" --summary "Half-formed project ideas" \
      --metadata '{"author":"sam","tags":["ideas"]}'`

const addShortDesc string = "Add a document to a collection"

func newAddCmd() *cobra.Command {
	cmder := &addCommander{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: addShortDesc,
		Long:  addLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.collection, "collection", "c", "", "Collection to add the document to (required)")
	cmd.Flags().StringVarP(&cmder.uri, "uri", "u", "", "Unique document URI (required)")
	cmd.Flags().StringVarP(&cmder.title, "title", "t", "", "Document title")
	cmd.Flags().StringVarP(&cmder.body, "body", "b", "", "Document body text")
	cmd.Flags().StringVar(&cmder.bodyFile, "body-file", "", "Read the document body from a file")
	cmd.Flags().StringVarP(&cmder.summary, "summary", "s", "", "Short summary of the document")
	cmd.Flags().StringVarP(&cmder.metadata, "metadata", "m", "", "Document metadata as a JSON object")
	cmd.Flags().IntVar(&cmder.chunkID, "chunk-id", 0, "Chunk index when the document is split into parts")

	_ = cmd.MarkFlagRequired("collection")
	_ = cmd.MarkFlagRequired("uri")

	return cmd
}

func (c *addCommander) run() error {
	log := logger.NewLogger(c.debug)
	defer func() { _ = log.Sync() }()

	body := c.body
	if c.bodyFile != "" {
		if body != "" {
			return fmt.Errorf("cannot use both --body and --body-file")
		}
		data, err := os.ReadFile(c.bodyFile)
		if err != nil {
			return fmt.Errorf("reading body file: %w", err)
		}
		body = string(data)
	}

	var metadata map[string]any
	if c.metadata != "" {
		if err := json.Unmarshal([]byte(c.metadata), &metadata); err != nil {
			return fmt.Errorf("parsing metadata: %w", err)
		}
	}

	service, err := satchel.BuildFromDir(c.configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	doc := store.Document{
		URI:      c.uri,
		Title:    c.title,
		Body:     body,
		Summary:  c.summary,
		Metadata: metadata,
		ChunkID:  c.chunkID,
	}

	err = cliui.Step(os.Stdout, fmt.Sprintf("Adding document %q", c.uri), func() error {
		return service.AddDocument(context.Background(), c.collection, doc)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Document %s added to %s\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(c.uri),
		cliui.ValueStyle.Render(c.collection),
	)
	return nil
}
