package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/xivshade/internal/config"
	"github.com/thoreinstein/xivshade/internal/errors"
)

var configInitForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the xivshade configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file with all defaults filled in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFile
		if path == "" {
			path = config.DefaultConfigPath()
		}

		if err := config.WriteDefault(path, configInitForce); err != nil {
			return errors.NewUserError(err, "pass --force to overwrite")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			fmt.Fprintln(cmd.OutOrStdout(), configFile)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), config.DefaultConfigPath())
		return nil
	},
}
