// Package classify scores technologies against the configured
// privacy category sets. Everything here is a pure function of its
// inputs; no I/O, no shared state.
package classify

import "github.com/kavinsood/tanuki/internal/wappalyzer"

// Threat levels. Precedence when a technology spans sets is fixed:
// high beats medium beats privacy.
const (
	ThreatNone   = 0
	ThreatLow    = 1
	ThreatMedium = 2
	ThreatHigh   = 3
)

// Classifier holds the three configured category-ID sets.
type Classifier struct {
	privacy    map[int]struct{}
	highRisk   map[int]struct{}
	mediumRisk map[int]struct{}
}

// New builds a Classifier from the configured ID lists. Duplicates are
// collapsed; the high and medium sets are conventionally subsets of the
// privacy set but that is not enforced.
func New(privacy, highRisk, mediumRisk []int) *Classifier {
	return &Classifier{
		privacy:    toSet(privacy),
		highRisk:   toSet(highRisk),
		mediumRisk: toSet(mediumRisk),
	}
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// IsPrivacy reports whether any of the category IDs is in the privacy
// set.
func (c *Classifier) IsPrivacy(catIDs []int) bool {
	for _, id := range catIDs {
		if _, ok := c.privacy[id]; ok {
			return true
		}
	}
	return false
}

// ThreatLevel scores a category-ID list: 3 if any ID is high-risk,
// else 2 if any is medium-risk, else 1 if any is in the privacy set,
// else 0. Order of the input list does not matter.
func (c *Classifier) ThreatLevel(catIDs []int) int {
	for _, id := range catIDs {
		if _, ok := c.highRisk[id]; ok {
			return ThreatHigh
		}
	}
	for _, id := range catIDs {
		if _, ok := c.mediumRisk[id]; ok {
			return ThreatMedium
		}
	}
	if c.IsPrivacy(catIDs) {
		return ThreatLow
	}
	return ThreatNone
}

// RiskLevel maps a threat level to its label, thresholds at 1, 2 and 3.
func RiskLevel(threat int) string {
	switch {
	case threat >= ThreatHigh:
		return "high"
	case threat >= ThreatMedium:
		return "medium"
	case threat >= ThreatLow:
		return "low"
	default:
		return "none"
	}
}

// DetectionTags is the full detection-method vocabulary, in the order
// tags are emitted and reported.
var DetectionTags = []string{"cookies", "javascript", "network", "dom", "headers"}

// DetectionMethods tags the signal types a technology can be detected
// by. Tags are presence-based and not mutually exclusive; the order is
// fixed so output is deterministic.
func DetectionMethods(t wappalyzer.Technology) []string {
	var methods []string
	if t.Cookies != nil {
		methods = append(methods, "cookies")
	}
	if t.JS != nil {
		methods = append(methods, "javascript")
	}
	if t.ScriptSrc != nil || t.XHR != nil {
		methods = append(methods, "network")
	}
	if t.DOM != nil || t.HTML != nil {
		methods = append(methods, "dom")
	}
	if t.Headers != nil {
		methods = append(methods, "headers")
	}
	return methods
}
