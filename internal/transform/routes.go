package transform

import (
	"bytes"
	"regexp"
	"strings"
)

// RoutesHeader is the canonical top of app/routes.js in current projects: a
// documentation pointer, the public kit import, the public router setup call
// and a placeholder for user routes.
const RoutesHeader = `//
// For guidance on how to create routes see:
// https://prototype-kit.service.gov.uk/docs/create-routes
//

const govukPrototypeKit = require('govuk-prototype-kit')
const router = govukPrototypeKit.requests.setupRouter()

// Add your routes here
`

const routesMarker = "govukPrototypeKit.requests.setupRouter()"

// Boilerplate shipped by old scaffolds: direct express access plus the
// module.exports wiring the new kit no longer needs.
var legacyRouteLines = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(const|var|let)\s+express\s*=\s*require\(['"]express['"]\)\s*;?\s*$`),
	regexp.MustCompile(`^\s*(const|var|let)\s+router\s*=\s*express\.Router\(\)\s*;?\s*$`),
	regexp.MustCompile(`^\s*module\.exports\s*=\s*router\s*;?\s*$`),
	regexp.MustCompile(`^\s*//\s*Add your routes here - above the module\.exports line\s*$`),
}

// Routes rewrites a legacy app/routes.js to the public extension-point
// syntax. Only the known boilerplate lines are removed; user comments and
// route handlers survive verbatim below the new header.
func Routes(in []byte) ([]byte, bool) {
	if bytes.Contains(in, []byte(routesMarker)) {
		return in, false
	}

	body := stripMatchingLines(in, legacyRouteLines)
	body = collapseBlankRuns(body)
	body = bytes.Trim(body, "\n")

	if len(body) == 0 {
		return []byte(RoutesHeader), true
	}

	out := RoutesHeader + "\n" + string(body) + "\n"
	return []byte(out), true
}

// FiltersHeader is the canonical top of app/filters.js in current projects.
const FiltersHeader = `//
// For guidance on how to create filters see:
// https://prototype-kit.service.gov.uk/docs/filters
//

const govukPrototypeKit = require('govuk-prototype-kit')
const addFilter = govukPrototypeKit.views.addFilter

// Add your filters here
`

const filtersMarker = "govukPrototypeKit.views.addFilter"

var legacyFilterLines = []*regexp.Regexp{
	regexp.MustCompile(`^\s*module\.exports\s*=\s*function\s*\(env\)\s*\{\s*$`),
	regexp.MustCompile(`^\s*(const|var|let)\s+filters\s*=\s*\{\s*\}\s*;?\s*$`),
	regexp.MustCompile(`^\s*return\s+filters\s*;?\s*$`),
}

// Comment blocks from the old filters template, identified by distinctive
// phrases rather than full text so lightly reflowed copies still match.
var legacyFilterCommentMarkers = []string{
	"Instantiate object used to store",
	"add your methods to the filters obj",
	"keep the following line to return your filters",
}

// Filters rewrites a legacy app/filters.js, unwrapping the old
// module.exports function and keeping any user-defined filters. User code
// written inside the wrapper loses one level of indentation so it sits
// naturally at top level under the new header.
func Filters(in []byte) ([]byte, bool) {
	if bytes.Contains(in, []byte(filtersMarker)) {
		return in, false
	}

	lines := strings.Split(string(in), "\n")
	var kept []string
	for i := 0; i < len(lines); i++ {
		line := lines[i]

		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/*") {
			block := []string{line}
			for !strings.Contains(lines[i], "*/") && i+1 < len(lines) {
				i++
				block = append(block, lines[i])
			}
			if isLegacyFilterComment(block) {
				continue
			}
			kept = append(kept, block...)
			continue
		}

		if matchesAny(line, legacyFilterLines) {
			continue
		}
		kept = append(kept, line)
	}

	// Drop the closing brace of the removed module.exports wrapper: the last
	// non-blank line when it is a lone "}".
	for i := len(kept) - 1; i >= 0; i-- {
		if strings.TrimSpace(kept[i]) == "" {
			continue
		}
		if strings.TrimSpace(kept[i]) == "}" {
			kept = append(kept[:i], kept[i+1:]...)
		}
		break
	}

	for i, line := range kept {
		kept[i] = strings.TrimPrefix(line, "  ")
	}

	body := strings.Trim(string(collapseBlankRuns([]byte(strings.Join(kept, "\n")))), "\n")
	if body == "" {
		return []byte(FiltersHeader), true
	}
	return []byte(FiltersHeader + "\n" + body + "\n"), true
}

func isLegacyFilterComment(block []string) bool {
	joined := strings.Join(block, "\n")
	for _, marker := range legacyFilterCommentMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}

func matchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
