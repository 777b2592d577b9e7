// Package scaffold provisions new prototype projects from the embedded
// starter templates. The starter files are the canonical current-version
// files, the same content the migration transformers converge on.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

//go:embed all:templates templates.yaml
var content embed.FS

// Template describes one embedded starter tree.
type Template struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Dir         string `yaml:"dir"`
}

type descriptor struct {
	Templates []Template `yaml:"templates"`
}

// Templates lists the available starters from the embedded descriptor.
func Templates() ([]Template, error) {
	data, err := content.ReadFile("templates.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading template descriptor: %w", err)
	}

	var d descriptor
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parsing template descriptor: %w", err)
	}
	if len(d.Templates) == 0 {
		return nil, fmt.Errorf("template descriptor lists no templates")
	}
	return d.Templates, nil
}

// Find returns the named template. Empty name means the default starter.
func Find(name string) (Template, error) {
	templates, err := Templates()
	if err != nil {
		return Template{}, err
	}
	if name == "" {
		name = "default"
	}
	for _, t := range templates {
		if t.Name == name {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("unknown template %q", name)
}

// Options customizes a generated project.
type Options struct {
	ServiceName string // shown in the header, defaults to "Your service name"
	Port        int    // defaults to the template's port
	Template    string // starter name, defaults to "default"
}

// Generate writes a fresh project into dir, which must be empty or absent.
// The embedded tree is copied as-is, then the manifest name and the service
// configuration are set from the options.
func Generate(dir string, opts Options) error {
	tmpl, err := Find(opts.Template)
	if err != nil {
		return err
	}

	if err := ensureEmpty(dir); err != nil {
		return err
	}

	err = fs.WalkDir(content, tmpl.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(tmpl.Dir, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dir, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}
		data, err := content.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading embedded %s: %w", path, err)
		}
		return os.WriteFile(target, data, 0644) // #nosec G306 - project files are world-readable
	})
	if err != nil {
		return fmt.Errorf("writing starter files: %w", err)
	}

	return applyOptions(dir, opts)
}

// applyOptions sets the service name, package name and port inside the
// freshly written tree.
func applyOptions(dir string, opts Options) error {
	if opts.ServiceName != "" {
		if err := setJSONField(filepath.Join(dir, "package.json"), "name", slug(opts.ServiceName)); err != nil {
			return err
		}
		if err := setJSONField(filepath.Join(dir, "app", "config.json"), "serviceName", opts.ServiceName); err != nil {
			return err
		}
	}
	if opts.Port != 0 {
		if err := setJSONField(filepath.Join(dir, "app", "config.json"), "port", opts.Port); err != nil {
			return err
		}
	}
	return nil
}

func setJSONField(path, key string, value interface{}) error {
	data, err := os.ReadFile(path) // #nosec G304 - path rooted in the new project dir
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	out, err := sjson.SetBytes(data, key, value)
	if err != nil {
		return fmt.Errorf("setting %s in %s: %w", key, path, err)
	}
	return os.WriteFile(path, out, 0644) // #nosec G306 - project files are world-readable
}

// ensureEmpty accepts a missing directory or an existing empty one.
func ensureEmpty(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0750)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%s is not empty, refusing to scaffold over existing files", dir)
	}
	return nil
}

// slug turns a service name into an npm-safe package name.
func slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}), "-")
	if s == "" {
		return "prototype"
	}
	return s
}
