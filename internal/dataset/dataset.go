// Package dataset holds the generators that reshape the merged
// technology mapping into the output datasets. Each generator is a pure
// fold over its inputs; technologies are visited in sorted-name order
// so output ordering is deterministic run to run.
package dataset

import (
	"fmt"
	"sort"

	"github.com/kavinsood/tanuki/internal/classify"
	"github.com/kavinsood/tanuki/internal/wappalyzer"
)

// PrivacyTechnology is one scored entry in the privacy technology list.
type PrivacyTechnology struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Categories       []int    `json:"categories"`
	CategoryNames    []string `json:"categoryNames"`
	ThreatLevel      int      `json:"threatLevel"`
	RiskLevel        string   `json:"riskLevel"`
	DetectionMethods []string `json:"detectionMethods"`
	Cookies          []string `json:"cookies"`
	Website          string   `json:"website"`
	Pricing          []string `json:"pricing,omitempty"`
	SaaS             bool     `json:"saas"`
}

// BuildPrivacyList derives the scored privacy technology list: every
// technology whose numeric category IDs intersect the privacy set,
// sorted descending by threat level with ties keeping input order.
// Technologies whose cats field is missing or not a list are skipped
// and tallied in the second return value.
func BuildPrivacyList(techs map[string]wappalyzer.Technology, cats map[int]wappalyzer.Category, cls *classify.Classifier) ([]PrivacyTechnology, int) {
	list := make([]PrivacyTechnology, 0)
	invalid := 0
	for _, name := range sortedNames(techs) {
		t := techs[name]
		if !t.CatsListed {
			invalid++
			continue
		}
		if !cls.IsPrivacy(t.Cats) {
			continue
		}
		threat := cls.ThreatLevel(t.Cats)
		methods := classify.DetectionMethods(t)
		if methods == nil {
			methods = []string{}
		}
		cookieNames := signaturePatterns(t.Cookies)
		if cookieNames == nil {
			cookieNames = []string{}
		}
		list = append(list, PrivacyTechnology{
			Name:             name,
			Description:      t.Description,
			Categories:       t.Cats,
			CategoryNames:    categoryNames(t.Cats, cats),
			ThreatLevel:      threat,
			RiskLevel:        classify.RiskLevel(threat),
			DetectionMethods: methods,
			Cookies:          cookieNames,
			Website:          t.Website,
			Pricing:          t.Pricing,
			SaaS:             t.SaaS,
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ThreatLevel > list[j].ThreatLevel
	})
	return list, invalid
}

// categoryNames resolves IDs against the category map, rendering
// unresolvable ones as a placeholder instead of dropping them.
func categoryNames(ids []int, cats map[int]wappalyzer.Category) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if c, ok := cats[id]; ok && c.Name != "" {
			names = append(names, c.Name)
		} else {
			names = append(names, fmt.Sprintf("Unknown(%d)", id))
		}
	}
	return names
}

func sortedNames(techs map[string]wappalyzer.Technology) []string {
	names := make([]string, 0, len(techs))
	for name := range techs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func intsOrEmpty(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	return ids
}
