package migrate

import (
	"fmt"
	"os"

	"github.com/prototype-kit/kit/internal/project"
	"github.com/prototype-kit/kit/internal/transform"
)

// steps is the complete catalogue of known migrations, ordered ascending by
// IntroducedIn. The ordering is the sole place sequencing is decided: later
// steps may assume earlier ones already ran. Keep it auditable - new steps
// are appended in version order, never discovered dynamically.
var steps = Plan{
	{
		Name:         "config",
		Description:  "convert app/config.js to declarative app/config.json",
		IntroducedIn: "v13.0.0",
		Apply:        applyConfig,
	},
	{
		Name:         "routes",
		Description:  "rewrite app/routes.js to the public kit API",
		IntroducedIn: "v13.0.0",
		Apply:        applyRoutes,
	},
	{
		Name:         "filters",
		Description:  "rewrite app/filters.js to the public kit API",
		IntroducedIn: "v13.0.0",
		Apply:        applyFilters,
	},
	{
		Name:         "assets",
		Description:  "update documentation headers in application.js and application.scss",
		IntroducedIn: "v13.0.0",
		Apply:        applyAssets,
	},
	{
		Name:         "layout",
		Description:  "point app/views/layout.html at the branded kit layout",
		IntroducedIn: "v13.0.0",
		Apply:        applyLayout,
	},
	{
		Name:         "scripts",
		Description:  "merge baseline run scripts into package.json",
		IntroducedIn: "v13.0.0",
		Apply:        applyScripts,
	},
	{
		Name:         "plugins",
		Description:  "normalize plugin dependencies in package.json",
		IntroducedIn: "v13.2.0",
		Apply:        applyPlugins,
	},
}

// Registry returns the full ordered step catalogue.
func Registry() Plan {
	out := make(Plan, len(steps))
	copy(out, steps)
	return out
}

func applyConfig(p *project.Project) ([]string, error) {
	if !p.HasFile(project.LegacyConfigFile) {
		return nil, nil
	}

	legacy, err := os.ReadFile(p.Path(project.LegacyConfigFile)) // #nosec G304 - path rooted in project dir
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", project.LegacyConfigFile, err)
	}

	out, err := transform.ConvertConfig(legacy, p.Name())
	if err != nil {
		return nil, err
	}

	if err := writeFileSync(p.Path(project.ConfigFile), out); err != nil {
		return nil, err
	}
	if err := os.Remove(p.Path(project.LegacyConfigFile)); err != nil {
		return nil, fmt.Errorf("removing %s: %w", project.LegacyConfigFile, err)
	}

	return []string{project.ConfigFile, project.LegacyConfigFile}, nil
}

func applyRoutes(p *project.Project) ([]string, error) {
	return rewriteFile(p, project.RoutesFile, transform.Routes)
}

func applyFilters(p *project.Project) ([]string, error) {
	return rewriteFile(p, project.FiltersFile, transform.Filters)
}

func applyAssets(p *project.Project) ([]string, error) {
	changed, err := rewriteFile(p, project.ScriptsFile, transform.ApplicationJS)
	if err != nil {
		return changed, err
	}
	scss, err := rewriteFile(p, project.StylesFile, transform.ApplicationSCSS)
	return append(changed, scss...), err
}

func applyLayout(p *project.Project) ([]string, error) {
	return rewriteFile(p, project.LayoutFile, transform.Layout)
}

func applyScripts(p *project.Project) ([]string, error) {
	return rewriteManifest(p, transform.MergeScripts)
}

func applyPlugins(p *project.Project) ([]string, error) {
	return rewriteManifest(p, func(manifest []byte) ([]byte, bool, error) {
		return transform.NormalizeDependencies(manifest, CurrentVersion)
	})
}

// rewriteFile applies a pure content transform to one well-known file. A
// missing file is not an error - the project simply never had it.
func rewriteFile(p *project.Project, rel string, fn func([]byte) ([]byte, bool)) ([]string, error) {
	if !p.HasFile(rel) {
		return nil, nil
	}

	in, err := os.ReadFile(p.Path(rel)) // #nosec G304 - path rooted in project dir
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	out, changed := fn(in)
	if !changed {
		return nil, nil
	}

	if err := writeFileSync(p.Path(rel), out); err != nil {
		return nil, err
	}
	return []string{rel}, nil
}

func rewriteManifest(p *project.Project, fn func([]byte) ([]byte, bool, error)) ([]string, error) {
	in, err := os.ReadFile(p.Path(project.ManifestName)) // #nosec G304 - path rooted in project dir
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", project.ManifestName, err)
	}

	out, changed, err := fn(in)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}

	if err := writeFileSync(p.Path(project.ManifestName), out); err != nil {
		return nil, err
	}
	if err := p.ReloadManifest(); err != nil {
		return nil, err
	}
	return []string{project.ManifestName}, nil
}

// writeFileSync writes content and flushes it to stable storage before
// returning. Later steps may read files written by earlier ones, so a step's
// writes must be durable before the next step starts.
func writeFileSync(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644) // #nosec G302 G304 - project files are world-readable
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return f.Close()
}
