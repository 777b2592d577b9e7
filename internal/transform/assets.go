package transform

import (
	"bytes"
	"strings"
)

// ScriptHeader is the canonical top of app/assets/javascripts/application.js.
const ScriptHeader = `//
// For guidance on how to add JavaScript see:
// https://prototype-kit.service.gov.uk/docs/adding-css-javascript-and-images
//

window.GOVUKPrototypeKit.documentReady(() => {
  // Add JavaScript here
})
`

const scriptMarker = "GOVUKPrototypeKit.documentReady"

// Whole blocks from old application.js scaffolds, removed only on exact
// match so user edits inside a block keep the whole block intact.
var legacyScriptBlocks = []string{
	"/* global $ */",
	`// Warn about using the kit in production
if (window.console && window.console.info) {
  window.console.info('GOV.UK Prototype Kit - do not use for production')
}`,
	`$(document).ready(function () {
  window.GOVUKFrontend.initAll()
})`,
}

// ApplicationJS rewrites the header of a legacy application.js to point at
// current documentation and the kit's documentReady entry point. User
// scripting below the boilerplate is untouched.
func ApplicationJS(in []byte) ([]byte, bool) {
	if bytes.Contains(in, []byte(scriptMarker)) {
		return in, false
	}

	body := string(in)
	for _, block := range legacyScriptBlocks {
		body = strings.ReplaceAll(body, block, "")
	}
	body = strings.Trim(string(collapseBlankRuns([]byte(body))), "\n")

	if body == "" {
		return []byte(ScriptHeader), true
	}
	return []byte(ScriptHeader + "\n" + body + "\n"), true
}

// StyleHeader is the canonical top of app/assets/sass/application.scss.
const StyleHeader = `//
// For guidance on how to add CSS and SCSS see:
// https://prototype-kit.service.gov.uk/docs/adding-css-javascript-and-images
//
`

// Individual lines from old application.scss scaffolds. The kit now provides
// these settings and imports itself, so they are dropped wholesale; anything
// else in the stylesheet is user-authored and kept.
var legacyStyleLines = map[string]bool{
	"// global styles for <a> and <p> tags":                                                          true,
	"$govuk-global-styles: true;":                                                                    true,
	"$govuk-new-link-styles: true;":                                                                  true,
	"// We can't mount GOV.UK Frontend's assets at root as it can conflict with the static route.":   true,
	"$govuk-assets-path: '/govuk/assets/';":                                                          true,
	"// Import GOV.UK Frontend and any extension styles if extensions have been configured":          true,
	`@import "lib/extensions/extensions";`:                                                           true,
	"// Patterns that aren't in Frontend":                                                            true,
	`@import "patterns/step-by-step-navigation";`:                                                    true,
	`@import "patterns/task-list";`:                                                                  true,
	`@import "patterns/related-items";`:                                                              true,
	"// Add extra styles here":                                                                       true,
	"// Add extra styles here, or re-organise the Sass files in whichever way makes most sense to you": true,
}

// ApplicationSCSS rewrites the header of a legacy application.scss. User
// style rules are preserved below the new documentation header.
func ApplicationSCSS(in []byte) ([]byte, bool) {
	if bytes.HasPrefix(in, []byte(StyleHeader)) {
		return in, false
	}

	lines := strings.Split(string(in), "\n")
	var kept []string
	for _, line := range lines {
		if legacyStyleLines[strings.TrimSpace(line)] {
			continue
		}
		kept = append(kept, line)
	}

	body := strings.Trim(string(collapseBlankRuns([]byte(strings.Join(kept, "\n")))), "\n")
	if body == "" {
		return []byte(StyleHeader), true
	}
	return []byte(StyleHeader + "\n" + body + "\n"), true
}
