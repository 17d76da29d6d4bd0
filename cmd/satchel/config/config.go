// Package configcmder provides the config command for managing persistent
// satchel configuration stored in the .satchel/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent satchel configuration.

Configuration is stored as config.toml in the .satchel/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.remote_key,
  s3.endpoint, s3.region, s3.bucket, s3.access_key, s3.secret_key, s3.use_ssl,
  api.listen,
  embedding.provider, embedding.target, embedding.model, embedding.api_key,
  embedding.dimensions,
  search.limit, search.min_score

Use subcommands to get, set, or list configuration values:
  satchel config set <key> <value>    Set a configuration value
  satchel config get <key>            Get a configuration value
  satchel config list                 List all configuration values

Examples:
  satchel config set s3.bucket my-team-bucket
  satchel config set embedding.model nomic-embed-text
  satchel config get storage.remote_key
  satchel config list`

const configShortDesc string = "Manage persistent satchel configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
