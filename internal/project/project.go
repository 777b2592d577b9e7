// Package project models a previously scaffolded prototype directory: its
// manifest, its well-known files, and the kit version it was built against.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/mod/semver"

	"github.com/prototype-kit/kit/internal/utils"
)

// KitPackage is the npm package that carries the kit inside a project.
const KitPackage = "govuk-prototype-kit"

// ManifestName is the dependency manifest every project must have.
const ManifestName = "package.json"

// OldestKnownVersion is assumed when a project declares no parseable kit
// version. Missing version data must bias toward doing more migration work,
// never less.
const OldestKnownVersion = "v0.0.0"

// Well-known file locations, relative to the project root.
const (
	LegacyConfigFile = "app/config.js"
	ConfigFile       = "app/config.json"
	RoutesFile       = "app/routes.js"
	FiltersFile      = "app/filters.js"
	ScriptsFile      = "app/assets/javascripts/application.js"
	StylesFile       = "app/assets/sass/application.scss"
	LayoutFile       = "app/views/layout.html"
)

// Project is a prototype working directory. It is loaded fresh from disk each
// run; migration steps mutate it only through the file system.
type Project struct {
	Root     string
	Manifest []byte // raw package.json, nil if absent
}

// Load reads the project at root. A missing manifest is not an error here;
// preflight decides whether that is fatal.
func Load(root string) (*Project, error) {
	root = utils.CanonicalizePath(root)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading project directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", root)
	}

	p := &Project{Root: root}

	data, err := os.ReadFile(p.Path(ManifestName)) // #nosec G304 - path rooted in project dir
	if err == nil {
		p.Manifest = data
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading %s: %w", ManifestName, err)
	}

	return p, nil
}

// Path returns the absolute path of a project-relative file.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Rel converts an absolute path under the root back to project-relative form.
func (p *Project) Rel(abs string) string {
	rel, err := filepath.Rel(p.Root, abs)
	if err != nil {
		return abs
	}
	return filepath.ToSlash(rel)
}

// HasManifest reports whether package.json was present at load time.
func (p *Project) HasManifest() bool {
	return p.Manifest != nil
}

// HasFile reports whether a project-relative file currently exists on disk.
// Steps re-check disk state rather than trusting load-time snapshots, since
// earlier steps may have rewritten files.
func (p *Project) HasFile(rel string) bool {
	return utils.FileExists(p.Path(rel))
}

// IsGitRepo reports whether the project root is version controlled.
func (p *Project) IsGitRepo() bool {
	info, err := os.Stat(filepath.Join(p.Root, ".git"))
	// .git is a file in worktrees, a directory otherwise
	return err == nil && (info.IsDir() || info.Mode().IsRegular())
}

// DependencyVersion returns the declared range for pkg from dependencies,
// falling back to devDependencies. Empty string if absent.
func (p *Project) DependencyVersion(pkg string) string {
	if p.Manifest == nil {
		return ""
	}
	if v := gjson.GetBytes(p.Manifest, "dependencies."+pkg); v.Exists() {
		return v.String()
	}
	if v := gjson.GetBytes(p.Manifest, "devDependencies."+pkg); v.Exists() {
		return v.String()
	}
	return ""
}

// DependencyCount returns the number of entries in the dependencies map.
func (p *Project) DependencyCount() int {
	if p.Manifest == nil {
		return 0
	}
	return len(gjson.GetBytes(p.Manifest, "dependencies").Map())
}

// Name returns the manifest's name field, empty if absent.
func (p *Project) Name() string {
	if p.Manifest == nil {
		return ""
	}
	return gjson.GetBytes(p.Manifest, "name").String()
}

// DetectedVersion infers the kit version the project was built against, as a
// canonical "vX.Y.Z" string. An absent or unparseable declaration yields
// OldestKnownVersion so that no migration step is skipped by a false negative.
func (p *Project) DetectedVersion() string {
	declared := p.DependencyVersion(KitPackage)
	v := CanonicalVersion(declared)
	if v == "" {
		return OldestKnownVersion
	}
	return v
}

// ReloadManifest re-reads package.json after a step rewrote it.
func (p *Project) ReloadManifest() error {
	data, err := os.ReadFile(p.Path(ManifestName)) // #nosec G304 - path rooted in project dir
	if err != nil {
		return fmt.Errorf("re-reading %s: %w", ManifestName, err)
	}
	p.Manifest = data
	return nil
}

// CanonicalVersion strips npm range operators from a declared dependency
// version and returns a valid "v"-prefixed semver string, or "" if the
// declaration does not pin a recognizable version.
func CanonicalVersion(declared string) string {
	s := strings.TrimSpace(declared)
	s = strings.TrimLeft(s, "^~=v ")
	if s == "" {
		return ""
	}
	v := "v" + s
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
