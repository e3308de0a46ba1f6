package commands

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/xivshade/internal/backup"
	"github.com/thoreinstein/xivshade/internal/detect"
	"github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/paths"
	"github.com/thoreinstein/xivshade/internal/pipeline"
	"github.com/thoreinstein/xivshade/internal/steps"
)

var installDryRun bool

func init() {
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false,
		"show the step plan without changing anything")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install ReShade and GPosingway into the game",
	Long: `Install runs the full pipeline: prerequisite checks, ReShade via the
reshade-steam-proton script, native d3dcompiler DLLs, the GPosingway
collection with its presets and shaders, the optional iMMERSE and
METEOR packs, and the ReShade.ini wiring.

Steps whose work is already done are skipped, so re-running after a
GPosingway update or a failed attempt is cheap and safe.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, installDryRun)
	},
}

func runInstall(cmd *cobra.Command, dryRun bool) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found FFXIV via %s\n", env.Target.Source)
	fmt.Fprintf(out, "  game dir: %s\n", env.Target.GamePath)
	fmt.Fprintf(out, "  prefix:   %s\n\n", env.Target.WinePrefix)

	all := steps.All()

	if dryRun {
		report := pipeline.Plan(env, all)
		renderPlan(cmd, report)
		return nil
	}

	report := pipeline.Run(env, all)
	renderReport(cmd, report)

	if report.Failed() {
		return errors.NewExitError(errors.New("installation did not complete"), errors.ExitUser)
	}

	printLaunchInstructions(cmd, env.Target)
	return nil
}

// buildEnv resolves the target and assembles the pipeline environment.
func buildEnv() (*pipeline.Env, error) {
	log := slog.Default()

	home, err := paths.ResolveHome()
	if err != nil {
		return nil, errors.NewSystemError(err, "set $HOME and retry")
	}

	target, err := detect.Detect(log, detect.DefaultResolvers(home))
	if err != nil {
		return nil, errors.NewUserError(err,
			"export FFXIV_PATH (the game directory) and WINE_PREFIX to point at your install")
	}

	backupDir := paths.BackupDir(cfg.WorkDir)
	if err := paths.EnsureDir(backupDir, 0); err != nil {
		return nil, errors.NewSystemError(err, "check permissions on the working directory")
	}

	return &pipeline.Env{
		Target:  target,
		Config:  cfg,
		Log:     log,
		Backups: backup.NewManager(backupDir),
	}, nil
}

func renderReport(cmd *cobra.Command, report *pipeline.Report) {
	out := cmd.OutOrStdout()

	for _, res := range report.Results {
		switch res.Outcome {
		case pipeline.OutcomeCompleted:
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✓"), res.Name)
		case pipeline.OutcomeSkipped:
			fmt.Fprintf(out, "%s %s %s\n", color.YellowString("-"), res.Name,
				color.New(color.Faint).Sprint("(already done)"))
		case pipeline.OutcomeFailed:
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("✗"), res.Name, res.Err)
		}
	}

	if n := len(report.Backups); n > 0 {
		fmt.Fprintf(out, "\n%d file(s) backed up; run 'xivshade backup list' to inspect.\n", n)
	}
}

func renderPlan(cmd *cobra.Command, report *pipeline.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Plan (no changes made):")

	for _, res := range report.Results {
		switch res.Outcome {
		case pipeline.OutcomeSkipped:
			fmt.Fprintf(out, "%s %s %s\n", color.YellowString("-"), res.Name,
				color.New(color.Faint).Sprint("(already done)"))
		case pipeline.OutcomeFailed:
			fmt.Fprintf(out, "%s %s: %v\n", color.RedString("✗"), res.Name, res.Err)
		default:
			fmt.Fprintf(out, "%s %s\n", color.GreenString("*"), res.Name)
		}
	}
}

// dllOverrides makes Wine load the installed native DLLs: both d3dcompiler
// versions (Wine falls back to _43 for some shaders) and the dxgi injector.
const dllOverrides = "d3dcompiler_43=n,b;d3dcompiler_47=n,b;dxgi=n,b"

// xlcoreOverrides omits dxgi: XLCore injects it itself.
const xlcoreOverrides = "d3dcompiler_43=n,b;d3dcompiler_47=n,b"

// printLaunchInstructions tells the user how to make Wine load the installed
// DLLs, worded for the launcher that owns the game.
func printLaunchInstructions(cmd *cobra.Command, target *detect.Target) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\n%s\n", color.New(color.Bold).Sprint("Installation complete."))

	switch target.Source {
	case detect.SourceSteam:
		fmt.Fprintln(out, "Set the game's launch options in Steam (Properties > General):")
		fmt.Fprintf(out, "  WINEDLLOVERRIDES=%q %%command%%\n", dllOverrides)
	case detect.SourceXLCore:
		fmt.Fprintln(out, "In XLCore settings (Wine tab), set Extra WINEDLLOVERRIDES to:")
		fmt.Fprintf(out, "  %s\n", xlcoreOverrides)
		fmt.Fprintln(out, "If using Managed Proton, pick a GE-Proton version (not Wine-XIV-Staging).")
	default:
		fmt.Fprintln(out, "Export before launching the game:")
		fmt.Fprintf(out, "  export WINEDLLOVERRIDES=%q\n", dllOverrides)
	}

	fmt.Fprintln(out, "\nIn game, press Shift+F2 to open the ReShade overlay and pick a preset.")
}
