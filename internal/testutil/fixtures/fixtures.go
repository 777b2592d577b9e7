// Package fixtures builds realistic legacy prototype projects for tests.
package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// LegacyManifest is a v12-era package.json: the acceptance scenario's
// starting point.
const LegacyManifest = `{
  "name": "migrate-test-prototype",
  "version": "1.0.0",
  "dependencies": {
    "govuk-frontend": "^4.3.1",
    "govuk-prototype-kit": "^12.3.0"
  },
  "scripts": {
    "start": "node start.js"
  }
}`

// LegacyConfigJS is the old executable configuration.
const LegacyConfigJS = `// Use this file to change prototype configuration.

module.exports = {
  // Service name used in header. Eg: 'Renew your passport'
  serviceName: 'Migrate test prototype',

  // Default port that prototype runs on
  port: 3010,

  // Enable or disable password protection on production
  useAuth: 'true'
}
`

// LegacyRoutesJS is the old direct-express routes file.
const LegacyRoutesJS = `const express = require('express')
const router = express.Router()

// Add your routes here - above the module.exports line

module.exports = router
`

// LegacyFiltersJS is the old module.exports filter wrapper.
const LegacyFiltersJS = `module.exports = function (env) {
  /**
   * Instantiate object used to store the methods registered as a
   * 'filter' (of the same name) within nunjucks. You can override
   * gov.uk core filters by creating filter methods of the same name.
   * @type {Object}
   */
  var filters = {}

  /* ------------------------------------------------------------------
    keep the following line to return your filters to the app
  ------------------------------------------------------------------ */
  return filters
}
`

// LegacyApplicationJS is the old jQuery-based application script.
const LegacyApplicationJS = `/* global $ */

// Warn about using the kit in production
if (window.console && window.console.info) {
  window.console.info('GOV.UK Prototype Kit - do not use for production')
}

$(document).ready(function () {
  window.GOVUKFrontend.initAll()
})
`

// LegacyApplicationSCSS is the old stylesheet header plus one user rule.
const LegacyApplicationSCSS = `// global styles for <a> and <p> tags
$govuk-global-styles: true;

// Add extra styles here

.app-custom {
  color: red;
}
`

// LegacyLayoutHTML is a view extending the old unbranded layout.
const LegacyLayoutHTML = `{% extends "layout_unbranded.html" %}

{% block content %}
<h1 class="govuk-heading-xl">Migrate test prototype</h1>
{% endblock %}
`

// LegacyProject writes a complete v12-style prototype into a fresh temp
// directory and returns its root.
func LegacyProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"package.json":                          LegacyManifest,
		"app/config.js":                         LegacyConfigJS,
		"app/routes.js":                         LegacyRoutesJS,
		"app/filters.js":                        LegacyFiltersJS,
		"app/assets/javascripts/application.js": LegacyApplicationJS,
		"app/assets/sass/application.scss":      LegacyApplicationSCSS,
		"app/views/layout.html":                 LegacyLayoutHTML,
		"app/views/index.html":                  "{% extends \"layout.html\" %}\n",
	}
	for rel, content := range files {
		WriteFile(t, root, rel, content)
	}

	return root
}

// WriteFile writes a project-relative file, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// ReadFile reads a project-relative file.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel))) // #nosec G304 - test fixture path
	if err != nil {
		t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// Snapshot captures the content of every file under root, keyed by
// project-relative path. Used for whole-tree idempotence comparisons.
func Snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	snap := map[string]string{}

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		data, err := os.ReadFile(path) // #nosec G304 - test fixture path
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", root, err)
	}

	return snap
}
