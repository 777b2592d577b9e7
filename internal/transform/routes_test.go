package transform

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const legacyRoutes = `const express = require('express')
const router = express.Router()

// Add your routes here - above the module.exports line

module.exports = router
`

func TestRoutesRewritesPristineLegacyFile(t *testing.T) {
	got, changed := Routes([]byte(legacyRoutes))
	if !changed {
		t.Fatal("Routes() changed = false, want true")
	}
	if diff := cmp.Diff(RoutesHeader, string(got)); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRoutesPreservesUserContent(t *testing.T) {
	in := `const express = require('express')
const router = express.Router()

// Add your routes here - above the module.exports line

// Branching question
router.post('/juggling-balls-answer', function (req, res) {
  var howMany = req.session.data['how-many-balls']
  if (howMany === '3 or more') {
    res.redirect('/juggling-trick')
  } else {
    res.redirect('/ineligible')
  }
})

module.exports = router
`
	want := RoutesHeader + `
// Branching question
router.post('/juggling-balls-answer', function (req, res) {
  var howMany = req.session.data['how-many-balls']
  if (howMany === '3 or more') {
    res.redirect('/juggling-trick')
  } else {
    res.redirect('/ineligible')
  }
})
`

	got, changed := Routes([]byte(in))
	if !changed {
		t.Fatal("Routes() changed = false, want true")
	}
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRoutesIdempotent(t *testing.T) {
	once, changed := Routes([]byte(legacyRoutes))
	if !changed {
		t.Fatal("first Routes() changed = false, want true")
	}

	twice, changed := Routes(once)
	if changed {
		t.Error("second Routes() changed = true, want false")
	}
	if string(twice) != string(once) {
		t.Errorf("second Routes() altered content:\n%s", cmp.Diff(string(once), string(twice)))
	}
}

func TestRoutesVarStyleBoilerplate(t *testing.T) {
	in := "var express = require('express');\nvar router = express.Router();\n\nrouter.get('/start', handler)\n\nmodule.exports = router;\n"
	got, changed := Routes([]byte(in))
	if !changed {
		t.Fatal("Routes() changed = false, want true")
	}
	want := RoutesHeader + "\nrouter.get('/start', handler)\n"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Routes() mismatch (-want +got):\n%s", diff)
	}
}

const legacyFilters = `module.exports = function (env) {
  /**
   * Instantiate object used to store the methods registered as a
   * 'filter' (of the same name) within nunjucks. You can override
   * gov.uk core filters by creating filter methods of the same name.
   * @type {Object}
   */
  var filters = {}

  /* ------------------------------------------------------------------
    add your methods to the filters obj below this comment block:
    @example:

    filters.sayHi = function(name) {
        return 'Hi ' + name + '!'
    }

  ------------------------------------------------------------------ */

  /* ------------------------------------------------------------------
    keep the following line to return your filters to the app
  ------------------------------------------------------------------ */
  return filters
}
`

func TestFiltersRewritesPristineLegacyFile(t *testing.T) {
	got, changed := Filters([]byte(legacyFilters))
	if !changed {
		t.Fatal("Filters() changed = false, want true")
	}
	if diff := cmp.Diff(FiltersHeader, string(got)); diff != "" {
		t.Errorf("Filters() mismatch (-want +got):\n%s", diff)
	}
}

func TestFiltersPreservesUserFilters(t *testing.T) {
	in := `module.exports = function (env) {
  /**
   * Instantiate object used to store the methods registered as a
   * 'filter' (of the same name) within nunjucks. You can override
   * gov.uk core filters by creating filter methods of the same name.
   * @type {Object}
   */
  var filters = {}

  // Shout a value back at the user
  filters.shout = function (value) {
    return String(value).toUpperCase() + '!'
  }

  /* ------------------------------------------------------------------
    keep the following line to return your filters to the app
  ------------------------------------------------------------------ */
  return filters
}
`
	want := FiltersHeader + `
// Shout a value back at the user
filters.shout = function (value) {
  return String(value).toUpperCase() + '!'
}
`

	got, changed := Filters([]byte(in))
	if !changed {
		t.Fatal("Filters() changed = false, want true")
	}
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Filters() mismatch (-want +got):\n%s", diff)
	}
}

func TestFiltersIdempotent(t *testing.T) {
	once, _ := Filters([]byte(legacyFilters))
	twice, changed := Filters(once)
	if changed {
		t.Error("second Filters() changed = true, want false")
	}
	if string(twice) != string(once) {
		t.Errorf("second Filters() altered content:\n%s", cmp.Diff(string(once), string(twice)))
	}
}

func TestFiltersKeepsUserCommentBlocks(t *testing.T) {
	in := `module.exports = function (env) {
  var filters = {}

  /* currency formatting is shared with the summary page */
  filters.currency = function (n) {
    return '£' + n
  }

  return filters
}
`
	got, changed := Filters([]byte(in))
	if !changed {
		t.Fatal("Filters() changed = false, want true")
	}
	want := FiltersHeader + `
/* currency formatting is shared with the summary page */
filters.currency = function (n) {
  return '£' + n
}
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Filters() mismatch (-want +got):\n%s", diff)
	}
}
