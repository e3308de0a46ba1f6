package commands

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/xivshade/internal/detect"
	"github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/paths"
)

func init() {
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show where FFXIV was found",
	Long: `Detect runs environment resolution and prints the target without
installing anything. Resolution order: FFXIV_PATH/WINE_PREFIX
environment variables, then Steam's library manifests, then XLCore's
launcher.ini. The first strategy that finds a usable install wins.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := paths.ResolveHome()
		if err != nil {
			return errors.NewSystemError(err, "set $HOME and retry")
		}

		target, err := detect.Detect(slog.Default(), detect.DefaultResolvers(home))
		if err != nil {
			return errors.NewUserError(err,
				"export FFXIV_PATH (the game directory) and WINE_PREFIX to point at your install")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("source:"), target.Source)
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("game:  "), target.GamePath)
		fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("prefix:"), target.WinePrefix)
		if target.ProtonPrefix != "" {
			fmt.Fprintf(out, "%s %s\n", color.New(color.Bold).Sprint("proton:"), target.ProtonPrefix)
		}
		return nil
	},
}
