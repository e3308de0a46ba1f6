package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/xivshade/internal/backup"
	"github.com/thoreinstein/xivshade/internal/errors"
	"github.com/thoreinstein/xivshade/internal/paths"
)

var pruneKeep int

func init() {
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupPruneCmd.Flags().IntVar(&pruneKeep, "keep", 0,
		"number of runs to keep (default: backup_retention from config)")
	backupCmd.AddCommand(backupPruneCmd)
	rootCmd.AddCommand(backupCmd)
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration backups",
	Long: `Every installer run backs up each configuration file before its first
mutation. Backups are grouped by run and kept under the working
directory; these commands list, restore, and prune them.`,
}

// backupManager opens the manager over the configured backup directory.
func backupManager() *backup.Manager {
	return backup.NewManager(paths.BackupDir(cfg.WorkDir))
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List backup runs, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		runs, err := backupManager().List()
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				fmt.Fprintln(out, "No backups found.")
				return nil
			}
			return errors.NewSystemError(err, "check the backup directory")
		}

		for _, run := range runs {
			fmt.Fprintf(out, "%s  %s  %d file(s)\n",
				color.CyanString(run.ID),
				run.CreatedAt.Format("2006-01-02 15:04:05"),
				len(run.Records))
			for _, rec := range run.Records {
				if rec.Skipped {
					fmt.Fprintf(out, "    %s %s\n",
						color.New(color.Faint).Sprint("(did not exist)"), rec.OriginalPath)
					continue
				}
				fmt.Fprintf(out, "    %s\n", rec.OriginalPath)
			}
		}
		return nil
	},
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore [RUN-ID]",
	Short: "Restore every file from a backup run",
	Long: `Restore copies each backed-up file of a run over its original
location. With no RUN-ID an interactive picker opens over the
available runs. Restoring fails loudly when a backup file has been
deleted; nothing is silently skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr := backupManager()

		runID, err := resolveRunID(mgr, args)
		if err != nil {
			return err
		}

		if err := mgr.RestoreRun(runID); err != nil {
			return errors.NewUserError(err, "run 'xivshade backup list' to see intact runs")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Restored run %s.\n", runID)
		return nil
	},
}

// resolveRunID picks the run to restore: the argument when given, otherwise
// an interactive fuzzy-finder over all runs.
func resolveRunID(mgr *backup.Manager, args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	runs, err := mgr.List()
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return "", errors.NewUserError(err, "run the installer first")
		}
		return "", errors.NewSystemError(err, "check the backup directory")
	}

	idx, err := fuzzyfinder.Find(runs, func(i int) string {
		return fmt.Sprintf("%s  %s  %d file(s)",
			runs[i].ID, runs[i].CreatedAt.Format("2006-01-02 15:04:05"), len(runs[i].Records))
	})
	if err != nil {
		return "", errors.NewUserError(err, "pass the run ID directly: xivshade backup restore <RUN-ID>")
	}
	return runs[idx].ID, nil
}

var backupPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old backup runs beyond the retention count",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep := pruneKeep
		if keep <= 0 {
			keep = cfg.BackupRetention
		}
		if keep <= 0 {
			keep = backup.DefaultRetentionCount
		}

		if err := backupManager().Prune(keep); err != nil {
			return errors.NewSystemError(err, "check the backup directory")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Pruned backups; keeping the %d most recent run(s).\n", keep)
		return nil
	},
}
