package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCookiePatternsKeyedStructure(t *testing.T) {
	techs := parseTechs(t, `{
		"Example": {"cookies": {"_gid": "", "_ga": ""}, "cats": [10], "description": "web analytics"},
		"Plain": {"cats": [1]}
	}`)

	records := BuildCookiePatterns(techs, defaultClassifier())
	require.Len(t, records, 2)

	assert.Equal(t, "_ga", records[0].Pattern)
	assert.Equal(t, "_gid", records[1].Pattern)
	for _, rec := range records {
		assert.Equal(t, "Example", rec.Technology)
		assert.Equal(t, 2, rec.ThreatLevel)
		assert.Equal(t, []int{10}, rec.Categories)
		assert.Equal(t, "web analytics", rec.Description)
	}
}

func TestBuildCookiePatternsSingleString(t *testing.T) {
	techs := parseTechs(t, `{
		"Legacy": {"cookies": "tracker=1", "cats": [52]}
	}`)

	records := BuildCookiePatterns(techs, defaultClassifier())
	require.Len(t, records, 1)
	assert.Equal(t, "tracker=1", records[0].Pattern)
	assert.Equal(t, 1, records[0].ThreatLevel)
}

func TestBuildCookiePatternsCoverNonPrivacyTechnologies(t *testing.T) {
	techs := parseTechs(t, `{
		"Framework": {"cookies": {"session": ""}, "cats": [1]}
	}`)

	records := BuildCookiePatterns(techs, defaultClassifier())
	require.Len(t, records, 1)
	assert.Equal(t, "Framework", records[0].Technology)
	assert.Zero(t, records[0].ThreatLevel)
}

func TestBuildCookiePatternsSortedByTechnologyName(t *testing.T) {
	techs := parseTechs(t, `{
		"Beta": {"cookies": {"b": ""}},
		"Alpha": {"cookies": {"a": ""}}
	}`)

	records := BuildCookiePatterns(techs, defaultClassifier())
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].Technology)
	assert.Equal(t, "Beta", records[1].Technology)
}

func TestBuildJSPatterns(t *testing.T) {
	techs := parseTechs(t, `{
		"Analytics": {"js": {"gtag": "", "ga\\.create": ""}, "cats": [10]},
		"Quiet": {"cats": [10]}
	}`)

	records := BuildJSPatterns(techs, defaultClassifier())
	require.Len(t, records, 2)
	assert.Equal(t, `ga\.create`, records[0].Pattern)
	assert.Equal(t, "gtag", records[1].Pattern)
}

func TestBuildNetworkPatternsSkipsPlainDOMSelectors(t *testing.T) {
	techs := parseTechs(t, `{
		"Widget": {"dom": ["a[href]", "https://example.com/x"], "cats": [10]}
	}`)

	records := BuildNetworkPatterns(techs, defaultClassifier())
	require.Len(t, records, 1)
	assert.Equal(t, "https://example.com/x", records[0].Pattern)
	assert.Equal(t, "dom", records[0].Source)
	assert.Equal(t, "example.com", records[0].Domain)
}

func TestBuildNetworkPatternsKeepsObjectDOMClauses(t *testing.T) {
	techs := parseTechs(t, `{
		"Fingerprinter": {"dom": {"#fp": {"exists": ""}}, "cats": [83]}
	}`)

	records := BuildNetworkPatterns(techs, defaultClassifier())
	require.Len(t, records, 1)
	assert.Equal(t, `{"#fp":{"exists":""}}`, records[0].Pattern)
	assert.Equal(t, "dom", records[0].Source)
	assert.Empty(t, records[0].Domain)
	assert.Equal(t, 3, records[0].ThreatLevel)
}

func TestBuildNetworkPatternsSourceOrder(t *testing.T) {
	techs := parseTechs(t, `{
		"Tracker": {
			"scriptSrc": "https://cdn.tracker.io/t.js",
			"xhr": "collect\\.tracker\\.io",
			"dom": "https://widget.tracker.io",
			"cats": [36]
		}
	}`)

	records := BuildNetworkPatterns(techs, defaultClassifier())
	require.Len(t, records, 3)

	assert.Equal(t, "scriptSrc", records[0].Source)
	assert.Equal(t, "tracker.io", records[0].Domain)
	assert.Equal(t, "xhr", records[1].Source)
	assert.Empty(t, records[1].Domain)
	assert.Equal(t, "dom", records[2].Source)
	assert.Equal(t, "tracker.io", records[2].Domain)
}

func TestBuildNetworkPatternsListOrderPreserved(t *testing.T) {
	techs := parseTechs(t, `{
		"Multi": {"scriptSrc": ["b\\.js", "a\\.js"], "cats": [10]}
	}`)

	records := BuildNetworkPatterns(techs, defaultClassifier())
	require.Len(t, records, 2)
	assert.Equal(t, `b\.js`, records[0].Pattern)
	assert.Equal(t, `a\.js`, records[1].Pattern)
}

func TestBuildNetworkPatternsSkipsEmptyValues(t *testing.T) {
	techs := parseTechs(t, `{
		"Sparse": {"scriptSrc": "", "cats": [10]}
	}`)

	records := BuildNetworkPatterns(techs, defaultClassifier())
	assert.Empty(t, records)
	assert.NotNil(t, records)
}

func TestRegistrableDomain(t *testing.T) {
	assert.Equal(t, "example.com", registrableDomain("https://cdn.example.com/x.js"))
	assert.Equal(t, "example.co.uk", registrableDomain("https://a.b.example.co.uk/y"))
	assert.Empty(t, registrableDomain(`tracker\.example\.com`))
	assert.Empty(t, registrableDomain("https://"))
}

func TestLintPatternsCountsUncompilableRegexes(t *testing.T) {
	good := []PatternRecord{{Pattern: `ga\.create`}, {Pattern: "gtag"}}
	bad := []PatternRecord{{Pattern: "(["}}

	assert.Zero(t, LintPatterns(good))
	assert.Equal(t, 1, LintPatterns(good, bad))
}
