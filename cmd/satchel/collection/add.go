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

const addLongDesc string = `Create a collection in the shared store.

Downloads the shared database, creates the collection, and publishes the
result back. Fails if a collection with the same (sanitized) name already
exists, or if another writer published a change mid-operation.

Examples:
  satchel collection add research-papers
  satchel collection add "Meeting Notes"`

const addShortDesc string = "Create a collection"

func newAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: addShortDesc,
		Long:  addLongDesc,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runAdd(args[0], configDir, debug)
		},
	}

	return cmd
}

func runAdd(name, configDir string, debug bool) error {
	log := logger.NewLogger(debug)
	defer func() { _ = log.Sync() }()

	service, err := satchel.BuildFromDir(configDir, log)
	if err != nil {
		return err
	}
	defer service.Close()

	err = cliui.Step(os.Stdout, fmt.Sprintf("Creating collection %q", name), func() error {
		return service.AddCollection(context.Background(), name)
	})
	if err != nil {
		return err
	}

	fmt.Printf("\n  %s Collection %s created\n\n",
		cliui.SuccessMark,
		cliui.KeyStyle.Render(name),
	)
	return nil
}
