package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/prototype-kit/kit/internal/migrate"
	"github.com/prototype-kit/kit/internal/testutil/fixtures"
)

func TestTemplates(t *testing.T) {
	templates, err := Templates()
	if err != nil {
		t.Fatalf("Templates() failed: %v", err)
	}
	if len(templates) == 0 {
		t.Fatal("Templates() returned none")
	}
	if templates[0].Name != "default" {
		t.Errorf("first template = %q, want default", templates[0].Name)
	}
}

func TestFindUnknownTemplate(t *testing.T) {
	if _, err := Find("does-not-exist"); err == nil {
		t.Fatal("Find() succeeded for an unknown template")
	}
}

func TestGenerate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "juggling-licence")

	err := Generate(dir, Options{ServiceName: "Apply for a juggling licence", Port: 3025})
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	for _, rel := range []string{
		"package.json",
		".gitignore",
		"app/config.json",
		"app/routes.js",
		"app/filters.js",
		"app/assets/javascripts/application.js",
		"app/assets/sass/application.scss",
		"app/views/layout.html",
		"app/views/index.html",
	} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	manifest := fixtures.ReadFile(t, dir, "package.json")
	if got := gjson.Get(manifest, "name").String(); got != "apply-for-a-juggling-licence" {
		t.Errorf("package name = %q, want apply-for-a-juggling-licence", got)
	}

	config := fixtures.ReadFile(t, dir, "app/config.json")
	if got := gjson.Get(config, "serviceName").String(); got != "Apply for a juggling licence" {
		t.Errorf("serviceName = %q", got)
	}
	if got := gjson.Get(config, "port").Int(); got != 3025 {
		t.Errorf("port = %d, want 3025", got)
	}
}

func TestGenerateRefusesNonEmptyDir(t *testing.T) {
	dir := t.TempDir()
	fixtures.WriteFile(t, dir, "existing.txt", "do not clobber\n")

	if err := Generate(dir, Options{}); err == nil {
		t.Fatal("Generate() scaffolded over a non-empty directory")
	}
	if got := fixtures.ReadFile(t, dir, "existing.txt"); got != "do not clobber\n" {
		t.Errorf("existing file modified: %q", got)
	}
}

// A fresh project is already at the target version: the migration engine
// must have nothing to do.
func TestGeneratedProjectNeedsNoMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fresh")
	if err := Generate(dir, Options{ServiceName: "Fresh prototype"}); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	before := fixtures.Snapshot(t, dir)

	report, err := migrate.Run(dir)
	if err != nil {
		t.Fatalf("Run() failed on a fresh project: %v", err)
	}
	if files := report.ChangedFiles(); len(files) != 0 {
		t.Errorf("migration changed a fresh project: %v", files)
	}

	after := fixtures.Snapshot(t, dir)
	delete(after, migrate.MigrateLogName)
	if len(before) != len(after) {
		t.Errorf("file count changed: %d -> %d", len(before), len(after))
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Apply for a juggling licence", "apply-for-a-juggling-licence"},
		{"  Mixed   CASE  name ", "mixed-case-name"},
		{"service (beta)", "service-beta"},
		{"", "prototype"},
		{"!!!", "prototype"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
