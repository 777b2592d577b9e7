// Package preflight gates the migration engine: it verifies the target
// directory is a recognized project starting from a known-clean state before
// any file is touched.
package preflight

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/prototype-kit/kit/internal/project"
)

// Result is the outcome of the preflight checks. When OK is false, Reasons
// holds one human-readable blocking reason per failed check.
type Result struct {
	OK      bool     `json:"ok"`
	Reasons []string `json:"reasons,omitempty"`
}

// Error is a failed preflight as an error value. Zero side effects have
// occurred when it is returned.
type Error struct {
	Reasons []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("preflight failed: %s", strings.Join(e.Reasons, "; "))
}

// Err returns the result as an *Error, or nil when the checks passed.
func (r *Result) Err() error {
	if r.OK {
		return nil
	}
	return &Error{Reasons: r.Reasons}
}

// Check runs the preflight checks against the project at root:
//
//  1. the directory is a previously created project, meaning package.json
//     exists and declares at least one dependency;
//  2. when the project is under git, the working tree is clean, so a failed
//     migration can be discarded by reverting local changes.
//
// The git check cannot be overridden. A project without version control
// skips it.
func Check(root string) Result {
	p, err := project.Load(root)
	if err != nil {
		return Result{Reasons: []string{err.Error()}}
	}

	var reasons []string

	if !p.HasManifest() {
		reasons = append(reasons,
			fmt.Sprintf("%s has no %s, so it does not look like a prototype project", p.Root, project.ManifestName))
	} else if p.DependencyCount() == 0 {
		reasons = append(reasons,
			fmt.Sprintf("%s declares no dependencies, so it does not look like a prototype project", project.ManifestName))
	}

	if p.IsGitRepo() {
		if reason := dirtyTreeReason(p.Root); reason != "" {
			reasons = append(reasons, reason)
		}
	}

	return Result{OK: len(reasons) == 0, Reasons: reasons}
}

// dirtyTreeReason returns a blocking reason when the git working tree at
// root has uncommitted changes, or when its state cannot be determined. An
// unreadable tree blocks too: migration must never start from unknown state.
func dirtyTreeReason(root string) string {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return fmt.Sprintf("unable to check git status: %v", err)
	}

	status := strings.TrimSpace(string(out))
	if status == "" {
		return ""
	}

	// A short sample of dirty paths is enough to point the user at the
	// problem.
	lines := strings.Split(status, "\n")
	const maxLines = 8
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	return fmt.Sprintf("git working tree has uncommitted changes, commit or stash them first:\n  %s",
		strings.Join(lines, "\n  "))
}
