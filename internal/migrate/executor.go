package migrate

import (
	"io"
	"log"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/prototype-kit/kit/internal/project"
)

// MigrateLogName is the rotating log written into the project root during a
// migration run.
const MigrateLogName = "migrate.log"

// Execute applies the plan to the project strictly in order. detected is the
// version the plan was selected for. On the first failure the remaining steps
// never run; the effects of completed steps stay on disk. There is no
// rollback - every step is individually idempotent and the preflight check
// guarantees a clean tree, so a failed run's diff equals exactly the
// completed steps' effect and can be discarded with git.
func Execute(p *project.Project, detected string, plan Plan, logw io.Writer) *Report {
	logger := log.New(logw, "", log.LstdFlags)

	report := &Report{
		DetectedVersion: detected,
		TargetVersion:   ToolVersion,
	}
	logger.Printf("migrating %s: detected %s, target %s, %d step(s)",
		p.Root, report.DetectedVersion, report.TargetVersion, len(plan))

	for _, step := range plan {
		changed, err := step.Apply(p)
		result := StepResult{
			Name:        step.Name,
			Description: step.Description,
			Changed:     changed,
		}
		if err != nil {
			result.Err = &StepError{Step: step.Description, Cause: err}
			report.Results = append(report.Results, result)
			logger.Printf("step %s failed: %v", step.Name, err)
			return report
		}
		report.Results = append(report.Results, result)
		if len(changed) == 0 {
			logger.Printf("step %s: no changes", step.Name)
		} else {
			logger.Printf("step %s: %s", step.Name, strings.Join(changed, ", "))
		}
	}

	logger.Printf("migration complete: %d file(s) changed", len(report.ChangedFiles()))
	return report
}

// Run loads the project at root, detects its version from the manifest,
// computes its plan and executes it, logging to migrate.log in the project
// root. Returns the run report and the first step failure, if any.
func Run(root string) (*Report, error) {
	return RunFrom(root, "")
}

// RunFrom is Run with the detected version supplied by the caller. The
// bootstrap install rewrites the manifest's kit entry to the target version
// before stage two starts, so stage two must select its plan against the
// version captured before that install, not against a fresh read. An empty
// detected falls back to manifest detection.
func RunFrom(root, detected string) (*Report, error) {
	p, err := project.Load(root)
	if err != nil {
		return nil, err
	}
	if detected == "" {
		detected = p.DetectedVersion()
	}

	logw := &lumberjack.Logger{
		Filename:   filepath.Join(p.Root, MigrateLogName),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}
	defer func() { _ = logw.Close() }()

	plan := PlanFor(detected)
	report := Execute(p, detected, plan, logw)

	if failed := report.Failed(); failed != nil {
		return report, failed.Err
	}
	return report, nil
}
