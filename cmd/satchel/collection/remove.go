package collectioncmder

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/satchelworks/satchel/pkg/cliui"
	"github.com/satchelworks/satchel/pkg/logger"
	"github.com/satchelworks/satchel/pkg/satchel"
)

const removeLongDesc string = `Delete a collection and all of its documents.

Downloads the shared database, drops the collection, and publishes the
result back. Fails if the collection does not exist.

Examples:
  satchel collection remove research-papers`

const removeShortDesc string = "Delete a collection and its documents"

func newRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   removeShortDesc,
		Long:    removeLongDesc,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runRemove(args[0], configDir, debug)
		},
	}

	return cmd
}

func runRemove(name, configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	service, err := satchel.BuildFromDir(configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	err = cliui.Step(os.Stdout, fmt.Sprintf("Removing collection %q", name), func() error {
		return service.RemoveCollection(context.Background(), name)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Collection %s removed\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(name),
	)
	return nil
}
