// Package pipeline executes an ordered sequence of idempotent installation
// steps against a resolved installation target.
//
// Each step declares a precondition check, the files it will mutate, an
// action, and a postcondition verification. The runner backs up every
// to-be-mutated file before the action runs and halts the whole pipeline on
// the first failure: later steps are allowed to assume earlier steps
// succeeded. There is no retry; re-invoking the installer wholesale is cheap
// because satisfied checks skip completed work.
package pipeline

import (
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/xivshade/internal/backup"
	"github.com/thoreinstein/xivshade/internal/config"
	"github.com/thoreinstein/xivshade/internal/detect"
	xserrors "github.com/thoreinstein/xivshade/internal/errors"
)

// Outcome is the result of one step.
type Outcome string

const (
	// OutcomeSkipped means the step's check found its work already done.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeCompleted means the step ran and verified successfully.
	OutcomeCompleted Outcome = "completed"

	// OutcomeFailed means the step failed; no later step was attempted.
	OutcomeFailed Outcome = "failed"
)

// Env carries everything steps need. It is assembled once per run.
type Env struct {
	// Target is the resolved, validated installation. Immutable.
	Target *detect.Target

	// Config holds the effective installer configuration.
	Config *config.Config

	// Log receives step progress.
	Log *slog.Logger

	// Backups protects files before mutation.
	Backups *backup.Manager
}

// Step is a named, ordered unit of installation work.
type Step interface {
	// Name identifies the step in reports and logs.
	Name() string

	// Check reports whether the step's work is already done.
	Check(env *Env) (bool, error)

	// Mutates lists the files the step will modify, so they can be backed
	// up before Apply runs. Paths that do not exist yet are fine; absence
	// is recorded, not protected.
	Mutates(env *Env) []string

	// Apply performs the installation work.
	Apply(env *Env) error

	// Verify confirms the work succeeded. Called after Apply.
	Verify(env *Env) error
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name    string
	Outcome Outcome
	Err     error
}

// Report is the ordered account of a pipeline run. It is returned regardless
// of overall success so callers can say precisely what happened.
type Report struct {
	Results []StepResult

	// Backups lists every backup record created during the run.
	Backups []backup.Record
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFailed {
			return true
		}
	}
	return false
}

// Run executes steps in declared order, halting at the first failure.
func Run(env *Env, steps []Step) *Report {
	report := &Report{}

	for _, step := range steps {
		log := env.Log.With("step", step.Name())

		done, err := step.Check(env)
		if err != nil {
			log.Error("precondition check failed", "error", err)
			report.Results = append(report.Results, StepResult{
				Name:    step.Name(),
				Outcome: OutcomeFailed,
				Err:     err,
			})
			break
		}
		if done {
			log.Debug("already satisfied")
			report.Results = append(report.Results, StepResult{
				Name:    step.Name(),
				Outcome: OutcomeSkipped,
			})
			continue
		}

		// Every file the step will touch gets its protective backup before
		// the action runs. A backup failure halts here; mutating without
		// the backup is never allowed.
		if err := backupMutations(env, step); err != nil {
			log.Error("backup failed", "error", err)
			report.Results = append(report.Results, StepResult{
				Name:    step.Name(),
				Outcome: OutcomeFailed,
				Err:     err,
			})
			break
		}

		log.Info("running")
		if err := step.Apply(env); err != nil {
			log.Error("failed", "error", err)
			report.Results = append(report.Results, StepResult{
				Name:    step.Name(),
				Outcome: OutcomeFailed,
				Err:     err,
			})
			break
		}

		if err := step.Verify(env); err != nil {
			if !errors.Is(err, xserrors.ErrVerificationFailed) {
				err = errors.Wrapf(xserrors.ErrVerificationFailed, "%v", err)
			}
			log.Error("verification failed", "error", err)
			report.Results = append(report.Results, StepResult{
				Name:    step.Name(),
				Outcome: OutcomeFailed,
				Err:     err,
			})
			break
		}

		log.Debug("completed")
		report.Results = append(report.Results, StepResult{
			Name:    step.Name(),
			Outcome: OutcomeCompleted,
		})
	}

	if env.Backups != nil {
		report.Backups = env.Backups.Records()
	}
	return report
}

// Plan evaluates every step's check without applying anything, for dry runs.
// Steps whose checks are satisfied report Skipped; the rest carry an empty
// outcome, meaning they would run.
func Plan(env *Env, steps []Step) *Report {
	report := &Report{}

	for _, step := range steps {
		res := StepResult{Name: step.Name()}
		done, err := step.Check(env)
		switch {
		case err != nil:
			res.Outcome = OutcomeFailed
			res.Err = err
		case done:
			res.Outcome = OutcomeSkipped
		}
		report.Results = append(report.Results, res)
	}

	return report
}

func backupMutations(env *Env, step Step) error {
	for _, path := range step.Mutates(env) {
		if _, err := env.Backups.BackupIfNeeded(path); err != nil {
			return errors.Wrapf(err, "backing up %s", path)
		}
	}
	return nil
}
