package transform

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// baselineScripts are the run scripts every current project carries. Merged
// into the manifest only where absent - user-defined scripts are never
// clobbered.
var baselineScripts = []struct{ name, command string }{
	{"dev", "govuk-prototype-kit dev"},
	{"serve", "govuk-prototype-kit serve"},
	{"start", "govuk-prototype-kit start"},
}

// requiredDependencies are added during normalization when absent. Existing
// declarations keep their version ranges.
var requiredDependencies = map[string]string{
	"@govuk-prototype-kit/step-by-step": "^1.0.0",
	"govuk-frontend":                    "^4.3.1",
	"jquery":                            "^3.6.4",
	"notifications-node-client":         "^5.1.0",
}

// obsoleteDependencies were direct dependencies of old scaffolds that the
// kit package itself now provides. They are removed during normalization;
// anything not listed here is treated as user-added and preserved.
var obsoleteDependencies = []string{
	"basic-auth",
	"body-parser",
	"express",
	"express-session",
	"govuk-elements-sass",
	"govuk_frontend_toolkit",
	"govuk_template_jinja",
	"nunjucks",
}

// MergeScripts folds the baseline run scripts into the manifest. Only
// missing entries are added, so a project that overrode "start" keeps its
// override. The rest of the manifest is untouched.
func MergeScripts(manifest []byte) ([]byte, bool, error) {
	out := manifest
	var err error

	for _, s := range baselineScripts {
		if gjson.GetBytes(out, "scripts."+s.name).Exists() {
			continue
		}
		out, err = sjson.SetBytes(out, "scripts."+s.name, s.command)
		if err != nil {
			return nil, false, fmt.Errorf("adding script %q: %w", s.name, err)
		}
	}

	return out, !bytes.Equal(out, manifest), nil
}

// NormalizeDependencies rewrites the manifest's dependency map for the
// target kit version: required packages are added, obsolete kit-internal
// packages are dropped, the kit itself is pinned to kitVersion, and the
// resulting keys are emitted in alphabetical order. Entries this function
// does not know about - user-added dependencies - keep their exact versions.
// Only the dependencies object is replaced; the rest of the document is
// preserved as-is. kitVersion is a bare semantic triple such as "13.6.2".
func NormalizeDependencies(manifest []byte, kitVersion string) ([]byte, bool, error) {
	deps := map[string]string{}
	for name, ver := range gjson.GetBytes(manifest, "dependencies").Map() {
		deps[name] = ver.String()
	}

	for _, name := range obsoleteDependencies {
		delete(deps, name)
	}
	for name, ver := range requiredDependencies {
		if _, ok := deps[name]; !ok {
			deps[name] = ver
		}
	}
	deps["govuk-prototype-kit"] = "^" + strings.TrimPrefix(kitVersion, "v")

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var raw bytes.Buffer
	raw.WriteString("{\n")
	for i, name := range names {
		fmt.Fprintf(&raw, "    %q: %q", name, deps[name])
		if i < len(names)-1 {
			raw.WriteString(",")
		}
		raw.WriteString("\n")
	}
	raw.WriteString("  }")

	out, err := sjson.SetRawBytes(manifest, "dependencies", raw.Bytes())
	if err != nil {
		return nil, false, fmt.Errorf("rewriting dependencies: %w", err)
	}

	return out, !bytes.Equal(out, manifest), nil
}
