package bootstrap

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/prototype-kit/kit/internal/testutil/fixtures"
	"github.com/prototype-kit/kit/internal/utils"
)

func TestResolve(t *testing.T) {
	spec := Resolve("")
	if spec.Package != "govuk-prototype-kit" || spec.Range != "latest" {
		t.Errorf("Resolve(\"\") = %+v, want govuk-prototype-kit@latest", spec)
	}

	spec = Resolve("13.6.2")
	if got, want := spec.String(), "govuk-prototype-kit@13.6.2"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestValidToken(t *testing.T) {
	if !ValidToken(StageTwoToken) {
		t.Error("ValidToken rejected the real sentinel")
	}
	for _, token := range []string{"", "stage-two", StageTwoToken + "x"} {
		if ValidToken(token) {
			t.Errorf("ValidToken(%q) = true, want false", token)
		}
	}
}

func TestInstalledVersion(t *testing.T) {
	root := t.TempDir()
	fixtures.WriteFile(t, root, "node_modules/govuk-prototype-kit/package.json",
		`{"name": "govuk-prototype-kit", "version": "13.6.2"}`)

	got, err := InstalledVersion(root)
	if err != nil {
		t.Fatalf("InstalledVersion() failed: %v", err)
	}
	if got != "13.6.2" {
		t.Errorf("InstalledVersion() = %q, want 13.6.2", got)
	}
}

func TestInstalledVersionMissing(t *testing.T) {
	_, err := InstalledVersion(t.TempDir())
	if err == nil {
		t.Fatal("InstalledVersion() succeeded with no installed kit")
	}
	var bErr *Error
	if !errors.As(err, &bErr) {
		t.Errorf("error is %T, want *Error", err)
	}
}

func TestInstalledVersionNoVersionField(t *testing.T) {
	root := t.TempDir()
	fixtures.WriteFile(t, root, "node_modules/govuk-prototype-kit/package.json",
		`{"name": "govuk-prototype-kit"}`)

	if _, err := InstalledVersion(root); err == nil {
		t.Fatal("InstalledVersion() succeeded on a manifest without a version field")
	}
}

func TestHandoffPropagatesExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}
	root := t.TempDir()
	installFakeKit(t, root, "#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args.txt\"\nexit 7\n")

	code, err := Handoff(context.Background(), root, HandoffOptions{DetectedVersion: "v12.3.0"})
	if code != 7 {
		t.Errorf("Handoff() exit code = %d, want 7", code)
	}
	var bErr *Error
	if !errors.As(err, &bErr) {
		t.Fatalf("Handoff() error is %T, want *Error", err)
	}

	// Stage two received exactly: the subcommand, the sentinel flag, the
	// pre-install version and the resolved project root.
	args := strings.TrimSpace(fixtures.ReadFile(t, root, "node_modules/govuk-prototype-kit/bin/args.txt"))
	want := "migrate --internal-stage-two " + StageTwoToken +
		" --detected-version v12.3.0 " + utils.CanonicalizePath(root)
	if args != want {
		t.Errorf("stage two args = %q, want %q", args, want)
	}
}

func TestHandoffForwardsJSONMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}
	root := t.TempDir()
	installFakeKit(t, root, "#!/bin/sh\necho \"$@\" > \"$(dirname \"$0\")/args.txt\"\nexit 0\n")

	if _, err := Handoff(context.Background(), root,
		HandoffOptions{DetectedVersion: "v12.3.0", JSON: true}); err != nil {
		t.Fatalf("Handoff() failed: %v", err)
	}

	args := strings.TrimSpace(fixtures.ReadFile(t, root, "node_modules/govuk-prototype-kit/bin/args.txt"))
	want := "migrate --internal-stage-two " + StageTwoToken +
		" --detected-version v12.3.0 --json " + utils.CanonicalizePath(root)
	if args != want {
		t.Errorf("stage two args = %q, want %q", args, want)
	}
}

func TestHandoffSuccess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake binary")
	}
	root := t.TempDir()
	installFakeKit(t, root, "#!/bin/sh\nexit 0\n")

	code, err := Handoff(context.Background(), root, HandoffOptions{})
	if err != nil {
		t.Fatalf("Handoff() failed: %v", err)
	}
	if code != 0 {
		t.Errorf("Handoff() exit code = %d, want 0", code)
	}
}

func TestHandoffMissingBinary(t *testing.T) {
	code, err := Handoff(context.Background(), t.TempDir(), HandoffOptions{})
	if err == nil {
		t.Fatal("Handoff() succeeded with no installed kit")
	}
	if code == 0 {
		t.Error("Handoff() exit code = 0, want non-zero")
	}
}

func TestNoiseFilterDropsNpmChatter(t *testing.T) {
	var out strings.Builder
	f := NewNoiseFilter(&out)

	lines := []string{
		"npm warn deprecated something@1.0.0\n",
		"added 12 packages\n",
		"npm notice new minor version available\n",
		"npm ERR! code E404\n",
	}
	for _, line := range lines {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	want := "added 12 packages\nnpm ERR! code E404\n"
	if out.String() != want {
		t.Errorf("filtered output = %q, want %q", out.String(), want)
	}
}

func TestNoiseFilterSplitWrites(t *testing.T) {
	var out strings.Builder
	f := NewNoiseFilter(&out)

	// One noise line and one real line, delivered in arbitrary chunks
	input := "npm warn old lockfile\nreal output\n"
	for _, chunk := range []string{input[:7], input[7:25], input[25:]} {
		if _, err := f.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if out.String() != "real output\n" {
		t.Errorf("filtered output = %q, want %q", out.String(), "real output\n")
	}
}

func TestNoiseFilterFlush(t *testing.T) {
	var out strings.Builder
	f := NewNoiseFilter(&out)

	if _, err := f.Write([]byte("trailing without newline")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if out.String() != "" {
		t.Errorf("incomplete line forwarded early: %q", out.String())
	}
	if err := f.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if out.String() != "trailing without newline" {
		t.Errorf("Flush() output = %q, want the buffered line", out.String())
	}
}

// installFakeKit writes an executable stand-in for the installed kit binary.
func installFakeKit(t *testing.T, root, script string) {
	t.Helper()
	rel := "node_modules/govuk-prototype-kit/bin/kit"
	fixtures.WriteFile(t, root, rel, script)
	if err := os.Chmod(filepath.Join(root, filepath.FromSlash(rel)), 0700); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
}
