package collectioncmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satchelworks/satchel/pkg/cliui"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
)

const listLongDesc string = `List all collections in the shared store.

Examples:
  satchel collection list`

const listShortDesc string = "List all collections"

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   listShortDesc,
		Long:    listLongDesc,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runList(configDir, debug)
		},
	}

	return cmd
}

func runList(configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	service, err := satchel.BuildFromDir(configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	names, err := service.ListCollections(context.Background())
	if err != nil {
		return err
	}

	if len(names) == 0 {
		fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render("No collections."))
		return nil
	}

	fmt.Println()
	for _, name := range names {
		fmt.Printf("  %s\n", cliui.ValueStyle.Render(name))
	}
	fmt.Printf("\n  %s\n\n", cliui.DimStyle.Render(fmt.Sprintf("%d collection(s)", len(names))))
	return nil
}
