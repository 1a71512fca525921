package dataset

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"

	"github.com/kavinsood/tanuki/internal/classify"
	"github.com/kavinsood/tanuki/internal/wappalyzer"
)

// PatternRecord is one detection pattern extracted from a cookie or
// JavaScript signature field.
type PatternRecord struct {
	Technology  string `json:"technology"`
	Pattern     string `json:"pattern"`
	ThreatLevel int    `json:"threatLevel"`
	Categories  []int  `json:"categories"`
	Description string `json:"description"`
}

// NetworkPattern is one network-observable detection pattern, tagged
// with the signal source it came from. Domain is set when the pattern
// is a literal URL whose registrable domain can be derived.
type NetworkPattern struct {
	Technology  string `json:"technology"`
	Pattern     string `json:"pattern"`
	Source      string `json:"source"`
	Domain      string `json:"domain,omitempty"`
	ThreatLevel int    `json:"threatLevel"`
	Categories  []int  `json:"categories"`
	Description string `json:"description"`
}

// BuildCookiePatterns emits one record per cookie-signature pattern for
// every technology carrying a cookie field.
func BuildCookiePatterns(techs map[string]wappalyzer.Technology, cls *classify.Classifier) []PatternRecord {
	return buildPatternRecords(techs, cls, func(t wappalyzer.Technology) interface{} { return t.Cookies })
}

// BuildJSPatterns is the cookie generator keyed on the JavaScript
// signature field instead.
func BuildJSPatterns(techs map[string]wappalyzer.Technology, cls *classify.Classifier) []PatternRecord {
	return buildPatternRecords(techs, cls, func(t wappalyzer.Technology) interface{} { return t.JS })
}

func buildPatternRecords(techs map[string]wappalyzer.Technology, cls *classify.Classifier, field func(wappalyzer.Technology) interface{}) []PatternRecord {
	records := make([]PatternRecord, 0)
	for _, name := range sortedNames(techs) {
		t := techs[name]
		for _, pattern := range signaturePatterns(field(t)) {
			records = append(records, PatternRecord{
				Technology:  name,
				Pattern:     pattern,
				ThreatLevel: cls.ThreatLevel(t.Cats),
				Categories:  intsOrEmpty(t.Cats),
				Description: t.Description,
			})
		}
	}
	return records
}

// signaturePatterns extracts the pattern strings from a signature
// field: the keys of a keyed structure, the string itself for a single
// unkeyed matcher, or the string elements of a list. Keys are sorted so
// records derive deterministically.
func signaturePatterns(field interface{}) []string {
	switch v := field.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []interface{}:
		var patterns []string
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				patterns = append(patterns, s)
			}
		}
		return patterns
	default:
		return nil
	}
}

// BuildNetworkPatterns collects script-source, XHR and DOM signals as
// network-observable patterns. Non-string values are serialized to
// compact JSON rather than dropped. Plain-string DOM values without an
// "http" substring are CSS-selector style signatures rather than
// network-observable ones and are excluded; object-shaped DOM values
// are kept regardless of content.
func BuildNetworkPatterns(techs map[string]wappalyzer.Technology, cls *classify.Classifier) []NetworkPattern {
	records := make([]NetworkPattern, 0)
	for _, name := range sortedNames(techs) {
		t := techs[name]
		sources := []struct {
			tag   string
			field interface{}
		}{
			{"scriptSrc", t.ScriptSrc},
			{"xhr", t.XHR},
			{"dom", t.DOM},
		}
		for _, src := range sources {
			for _, value := range patternValues(src.field) {
				if s, ok := value.(string); ok && src.tag == "dom" && !strings.Contains(s, "http") {
					continue
				}
				pattern := stringifyPattern(value)
				if pattern == "" {
					continue
				}
				records = append(records, NetworkPattern{
					Technology:  name,
					Pattern:     pattern,
					Source:      src.tag,
					Domain:      registrableDomain(pattern),
					ThreatLevel: cls.ThreatLevel(t.Cats),
					Categories:  intsOrEmpty(t.Cats),
					Description: t.Description,
				})
			}
		}
	}
	return records
}

// patternValues coerces a signal field to the list of values it holds.
func patternValues(field interface{}) []interface{} {
	switch v := field.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	default:
		return []interface{}{v}
	}
}

func stringifyPattern(value interface{}) string {
	if s, ok := value.(string); ok {
		return s
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

// registrableDomain derives the registrable domain from a pattern that
// is a literal absolute URL. Regex-style patterns fail URL parsing or
// carry no hostname and yield an empty string.
func registrableDomain(pattern string) string {
	if !strings.HasPrefix(pattern, "http") {
		return ""
	}
	u, err := url.Parse(pattern)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	domain, err := publicsuffix.Domain(u.Hostname())
	if err != nil {
		return ""
	}
	return domain
}
