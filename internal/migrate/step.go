// Package migrate is the project migration engine: a statically ordered
// catalogue of version-scoped steps, a selector that filters them against a
// project's detected kit version, and an executor that applies them strictly
// in order, failing closed on the first error.
package migrate

import (
	"fmt"

	"github.com/prototype-kit/kit/internal/project"
)

// CurrentVersion is the kit version whose conventions this build's migration
// steps establish. The bootstrapper guarantees that the steps that actually
// run come from the copy installed in the target project, so this constant
// always describes the code it sits next to.
const CurrentVersion = "13.6.2"

// ToolVersion is CurrentVersion in canonical semver form.
const ToolVersion = "v" + CurrentVersion

// Step is one immutable, idempotent unit of migration. A step applies when
// the project's detected version predates IntroducedIn - the version whose
// conventions the step establishes. Steps communicate only through the file
// system: no step may observe another's execution beyond the files it wrote.
type Step struct {
	Name         string
	Description  string
	IntroducedIn string // canonical "vX.Y.Z"

	// Apply performs the transformation and returns the project-relative
	// paths it changed. Applying twice must yield the same file content as
	// applying once.
	Apply func(p *project.Project) ([]string, error)
}

// Plan is the ordered, filtered sequence of steps selected for one run.
// Computed fresh from on-disk state each invocation, never persisted.
type Plan []Step

// StepResult is the outcome of running one step.
type StepResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Changed     []string `json:"changed,omitempty"`
	Err         error    `json:"-"`
}

// Report accumulates step results for one migration run.
type Report struct {
	DetectedVersion string       `json:"detected_version"`
	TargetVersion   string       `json:"target_version"`
	Results         []StepResult `json:"results"`
}

// Failed returns the failing result, or nil if every executed step succeeded.
func (r *Report) Failed() *StepResult {
	for i := range r.Results {
		if r.Results[i].Err != nil {
			return &r.Results[i]
		}
	}
	return nil
}

// ChangedFiles returns every file changed during the run, in step order.
func (r *Report) ChangedFiles() []string {
	var files []string
	seen := map[string]bool{}
	for _, res := range r.Results {
		for _, f := range res.Changed {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}
	return files
}

// StepError marks a failed migration step. Prior steps' effects remain on
// disk; the wrapped cause names the file or operation that went wrong.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step %q failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Cause }
