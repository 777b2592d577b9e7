// Package bootstrap pins the migration logic to the kit version installed in
// the target project. Stage one resolves and installs the target version,
// then re-invokes the command through the installed copy; stage two is that
// copy running the actual migration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/prototype-kit/kit/internal/project"
	"github.com/prototype-kit/kit/internal/utils"
)

// StageTwoToken is the sentinel passed on the internal stage-two flag. The
// flag is hidden from help output, and the value is checked on entry, so a
// user-issued command cannot accidentally land in stage two.
const StageTwoToken = "kit-migrate-stage-two-b7e4f1"

// InstalledBinaryPath is the project-relative path of the kit executable the
// target version ships.
const InstalledBinaryPath = "node_modules/govuk-prototype-kit/bin/kit"

// TargetSpec names the exact dependency build whose migration logic must
// run. Range is an npm version expression; after EnsureInstalled the
// installed copy is the single version it resolved to.
type TargetSpec struct {
	Package string
	Range   string
}

// String renders the spec as an npm install argument.
func (s TargetSpec) String() string {
	if s.Range == "" {
		return s.Package
	}
	return s.Package + "@" + s.Range
}

// Error is a failed bootstrap: dependency resolution, installation, or the
// stage-two process itself. Never retried; stage one surfaces it and stops.
type Error struct {
	Op    string
	Cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bootstrap %s failed: %v", e.Op, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Resolve builds the target spec for a migration of the project at root.
// An empty requested range means latest.
func Resolve(requested string) TargetSpec {
	if requested == "" {
		requested = "latest"
	}
	return TargetSpec{Package: project.KitPackage, Range: requested}
}

// EnsureInstalled installs the target spec into the project's dependency
// tree and waits for npm to finish. npm's cosmetic warn/notice chatter is
// filtered out of the user-facing stream; real errors pass through and any
// non-zero npm exit is fatal.
func EnsureInstalled(ctx context.Context, root string, spec TargetSpec) error {
	cmd := exec.CommandContext(ctx, "npm", "install", "--save-exact", spec.String()) // #nosec G204 - spec is built from a known package name
	cmd.Dir = root
	filter := NewNoiseFilter(os.Stderr)
	cmd.Stdout = os.Stdout
	cmd.Stderr = filter

	err := cmd.Run()
	_ = filter.Flush()
	if err != nil {
		return &Error{Op: fmt.Sprintf("installing %s", spec), Cause: err}
	}
	return nil
}

// InstalledVersion reads the exact version of the kit copy present in the
// project's node_modules. This, not the invoking binary's version, is the
// version whose migration steps will run.
func InstalledVersion(root string) (string, error) {
	manifest := filepath.Join(root, "node_modules", project.KitPackage, project.ManifestName)
	data, err := os.ReadFile(manifest) // #nosec G304 - path rooted in project dir
	if err != nil {
		return "", &Error{Op: "reading installed kit version", Cause: err}
	}

	version := gjson.GetBytes(data, "version").String()
	if version == "" {
		return "", &Error{Op: "reading installed kit version",
			Cause: fmt.Errorf("%s has no version field", manifest)}
	}
	return version, nil
}

// HandoffOptions is the state stage one must carry across the process
// boundary: the project version detected before the install rewrote the
// manifest, and the output mode of the invoking command.
type HandoffOptions struct {
	DetectedVersion string
	JSON            bool
}

// Handoff re-invokes migrate through the kit binary installed in the
// project, marking the invocation as stage two. It blocks until the child
// exits and returns the child's exit code, which the caller must propagate
// verbatim. There is no timeout and no retry; a failed stage two surfaces
// immediately.
func Handoff(ctx context.Context, root string, opts HandoffOptions) (int, error) {
	root = utils.CanonicalizePath(root)
	bin := filepath.Join(root, filepath.FromSlash(InstalledBinaryPath))
	if !utils.FileExists(bin) {
		return 1, &Error{Op: "locating installed kit",
			Cause: fmt.Errorf("%s not found, run the install step first", bin)}
	}

	args := []string{"migrate", "--internal-stage-two", StageTwoToken}
	if opts.DetectedVersion != "" {
		args = append(args, "--detected-version", opts.DetectedVersion)
	}
	if opts.JSON {
		args = append(args, "--json")
	}
	args = append(args, root)

	cmd := exec.CommandContext(ctx, bin, args...) // #nosec G204 - bin is rooted in the project dir
	cmd.Dir = root
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), &Error{Op: "stage two", Cause: err}
	}
	return 1, &Error{Op: "starting stage two", Cause: err}
}

// ValidToken reports whether a stage-two invocation carries the real
// sentinel.
func ValidToken(token string) bool {
	return token == StageTwoToken
}
