// Package searchcmder provides the search command for semantic search over documents.
package searchcmder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
	"github.com/satchelworks/satchel/pkg/utils"
)

var (
	rankStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	uriStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type searchCommander struct {
	collection string
	query      string
	limit      int
	minScore   float64
	quiet      bool
	asJSON     bool

	configDir string
	debug     bool
	logger    *zap.Logger
}

const searchLongDesc string = `Search a collection for relevant documents.

Embeds the query text and scores every document in the collection across
its body, summary, and metadata. Results are printed most relevant first.

Use --quiet to output only document URIs, one per line, for piping into
other commands. Use --json for machine-readable output.

Examples:
  satchel search -c notes "how to configure logging"
  satchel search -c research-papers "retrieval augmented generation" --limit 3
  satchel search -c notes "error handling" --min-score 1.5
  satchel search -c notes "charm CLI" --quiet`

const searchShortDesc string = "Search a collection for relevant documents"

func NewSearchCmd() *cobra.Command {
	cmder := &searchCommander{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: searchShortDesc,
		Long:  searchLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.query = args[0]
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			if !cmd.Flags().Changed("limit") {
				cmder.limit = 0
			}
			if !cmd.Flags().Changed("min-score") {
				cmder.minScore = -1
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.collection, "collection", "c", "", "Collection to search (required)")
	cmd.Flags().IntVarP(&cmder.limit, "limit", "k", 10, "Maximum number of results to return")
	cmd.Flags().Float64Var(&cmder.minScore, "min-score", 0.01, "Minimum relevance score for a result")
	cmd.Flags().BoolVarP(&cmder.quiet, "quiet", "q", false, "Output only document URIs, one per line (for piping)")
	cmd.Flags().BoolVar(&cmder.asJSON, "json", false, "Print results as JSON")

	_ = cmd.MarkFlagRequired("collection")

	return cmd
}

func (c *searchCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	service, err := satchel.BuildFromDir(c.configDir, c.logger)
	if err != nil {
		return err
	}
	defer service.Close()

	results, err := service.Search(context.Background(), c.collection, c.query, c.limit, c.minScore)
	if err != nil {
		return err
	}

	if c.asJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		if !c.quiet {
			fmt.Println("No results found.")
		}
		return nil
	}

	if c.quiet {
		for _, doc := range results {
			fmt.Println(doc.URI)
		}
		return nil
	}

	fmt.Printf("\n%s %s %s\n\n",
		headerStyle.Render("Search Results for:"),
		uriStyle.Render(fmt.Sprintf("%q", c.query)),
		dimStyle.Render(fmt.Sprintf("in %s", c.collection)),
	)

	for i, doc := range results {
		score := 0.0
		if doc.Score != nil {
			score = *doc.Score
		}

		fmt.Printf("%s %s %s\n",
			rankStyle.Render(fmt.Sprintf("%d.", i+1)),
			uriStyle.Render(doc.URI),
			scoreStyle.Render(fmt.Sprintf("(score: %.3f)", score)),
		)

		if doc.Title != "" {
			fmt.Printf("   %s\n", titleStyle.Render(doc.Title))
		}

		preview := doc.Summary
		if preview == "" {
			preview = doc.Body
		}
		if preview != "" {
			fmt.Printf("   %s\n", previewStyle.Render(utils.Truncate(preview, 120)))
		}

		fmt.Println()
	}

	fmt.Printf("%s\n", dimStyle.Render(fmt.Sprintf("%d result(s)", len(results))))
	return nil
}
