package transform

import "regexp"

// BrandedLayout is the base layout current projects extend.
const BrandedLayout = "govuk-prototype-kit/layouts/govuk-branded.njk"

var extendsPattern = regexp.MustCompile(`\{%\s*extends\s*["']([^"']+)["']\s*%\}`)

// Layout names shipped by old scaffolds. A template extending anything else
// is a user customization and is left alone.
var legacyLayouts = map[string]bool{
	"layout.html":           true,
	"layout_unbranded.html": true,
	"govuk_template.html":   true,
}

// Layout rewrites the extends declaration of a view to reference the current
// branded base layout. Only the declaration itself changes; every other line
// of the template is preserved.
func Layout(in []byte) ([]byte, bool) {
	changed := false
	out := extendsPattern.ReplaceAllFunc(in, func(match []byte) []byte {
		target := extendsPattern.FindSubmatch(match)[1]
		if !legacyLayouts[string(target)] {
			return match
		}
		changed = true
		return []byte(`{% extends "` + BrandedLayout + `" %}`)
	})

	if !changed {
		return in, false
	}
	return out, true
}
