// Package kit provides a minimal public API for driving the prototype kit
// programmatically: project discovery, the preflight checks, and the
// migration entry points the CLI is built on.
//
// Most automation should shell out to the kit binary. This package exports
// only what a Go-based wrapper needs to scaffold or upgrade projects without
// going through the command layer.
package kit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/prototype-kit/kit/internal/bootstrap"
	"github.com/prototype-kit/kit/internal/migrate"
	"github.com/prototype-kit/kit/internal/preflight"
	"github.com/prototype-kit/kit/internal/project"
	"github.com/prototype-kit/kit/internal/scaffold"
	"github.com/prototype-kit/kit/internal/utils"
)

// Version is the kit version this binary ships, a bare semantic triple.
const Version = migrate.CurrentVersion

// Core types re-exported for extensions.
type (
	Project         = project.Project
	Step            = migrate.Step
	Plan            = migrate.Plan
	Report          = migrate.Report
	StepResult      = migrate.StepResult
	PreflightResult = preflight.Result
	TargetSpec      = bootstrap.TargetSpec
	ScaffoldOptions = scaffold.Options
)

// FindProjectRoot walks up from dir looking for a directory with a
// package.json. Returns empty string if none is found.
func FindProjectRoot(dir string) string {
	dir = utils.CanonicalizePath(dir)
	for {
		if utils.FileExists(filepath.Join(dir, project.ManifestName)) {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// IsKitProject reports whether root is a prototype project: it has a
// manifest that declares the kit as a dependency.
func IsKitProject(root string) bool {
	p, err := project.Load(root)
	if err != nil {
		return false
	}
	return p.HasManifest() && p.DependencyVersion(project.KitPackage) != ""
}

// PreflightChecks verifies that root is migratable. On failure the returned
// result carries the blocking reasons; no files have been touched.
func PreflightChecks(root string) PreflightResult {
	return preflight.Check(root)
}

// PrepareMigration resolves the target kit version and installs it into the
// project's dependency tree so its migration logic can run. requested is an
// npm version expression; empty means latest.
func PrepareMigration(ctx context.Context, root, requested string) error {
	spec := bootstrap.Resolve(requested)
	return bootstrap.EnsureInstalled(ctx, root, spec)
}

// Migrate runs the selector and executor against the project at root,
// assuming bootstrap already happened, and returns the run report. The
// error, if any, describes the first failing step; earlier steps' effects
// remain on disk.
func Migrate(root string) (*Report, error) {
	return migrate.Run(root)
}

// MigrateFrom is Migrate with the project's pre-install version supplied by
// the caller. The bootstrap install pins the manifest's kit entry to the
// target version, so a stage-two run must plan against the version captured
// before that install. Empty detected falls back to manifest detection.
func MigrateFrom(root, detected string) (*Report, error) {
	return migrate.RunFrom(root, detected)
}

// Scaffold writes a fresh project into dir from the embedded starter
// templates.
func Scaffold(dir string, opts ScaffoldOptions) error {
	return scaffold.Generate(dir, opts)
}

// DetectedVersion reports the kit version the project at root was built
// against, in canonical "vX.Y.Z" form.
func DetectedVersion(root string) (string, error) {
	p, err := project.Load(root)
	if err != nil {
		return "", err
	}
	return p.DetectedVersion(), nil
}

// Getwd returns the current directory's project root, or the current
// directory itself when no project is found.
func Getwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root := FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}
