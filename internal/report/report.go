// Package report aggregates the privacy technology list into a summary
// structure and renders it as Markdown.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/kavinsood/tanuki/internal/classify"
	"github.com/kavinsood/tanuki/internal/dataset"
)

// topLimit caps the threat table at the head of the sorted list.
const topLimit = 20

var riskLabels = []string{"high", "medium", "low"}

// Summary is the machine-readable report persisted alongside the
// datasets. All numbers are derived from the privacy technology list;
// the Markdown rendering must agree with them.
type Summary struct {
	Generated           string         `json:"generated"`
	TotalTechnologies   int            `json:"totalTechnologies"`
	PrivacyTechnologies int            `json:"privacyTechnologies"`
	PrivacyPercentage   float64        `json:"privacyPercentage"`
	RiskDistribution    map[string]int `json:"riskDistribution"`
	CategoryCounts      map[string]int `json:"categoryCounts"`
	DetectionCoverage   map[string]int `json:"detectionCoverage"`
	TopThreats          []TopThreat    `json:"topThreats"`
}

// TopThreat is one row of the top-N table.
type TopThreat struct {
	Name        string   `json:"name"`
	ThreatLevel int      `json:"threatLevel"`
	RiskLevel   string   `json:"riskLevel"`
	Categories  []string `json:"categories"`
}

// Build folds the privacy technology list into a Summary. The list is
// expected to be sorted descending by threat level already; the top
// threats are simply its head.
func Build(totalTechnologies int, list []dataset.PrivacyTechnology) Summary {
	s := Summary{
		Generated:           time.Now().UTC().Format(time.RFC3339),
		TotalTechnologies:   totalTechnologies,
		PrivacyTechnologies: len(list),
		RiskDistribution:    make(map[string]int, len(riskLabels)),
		CategoryCounts:      make(map[string]int),
		DetectionCoverage:   make(map[string]int, len(classify.DetectionTags)),
		TopThreats:          make([]TopThreat, 0, topLimit),
	}
	for _, label := range riskLabels {
		s.RiskDistribution[label] = 0
	}
	for _, tag := range classify.DetectionTags {
		s.DetectionCoverage[tag] = 0
	}
	if totalTechnologies > 0 {
		ratio := float64(len(list)) / float64(totalTechnologies) * 100
		s.PrivacyPercentage = math.Round(ratio*10) / 10
	}

	for i, entry := range list {
		s.RiskDistribution[entry.RiskLevel]++
		for _, name := range entry.CategoryNames {
			s.CategoryCounts[name]++
		}
		for _, tag := range entry.DetectionMethods {
			s.DetectionCoverage[tag]++
		}
		if i < topLimit {
			s.TopThreats = append(s.TopThreats, TopThreat{
				Name:        entry.Name,
				ThreatLevel: entry.ThreatLevel,
				RiskLevel:   entry.RiskLevel,
				Categories:  entry.CategoryNames,
			})
		}
	}
	return s
}

// RenderMarkdown turns a Summary into the fixed-section report written
// next to the JSON outputs.
func RenderMarkdown(s Summary) string {
	var sb strings.Builder

	sb.WriteString("# Privacy Technology Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", s.Generated))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- Total technologies: %d\n", s.TotalTechnologies))
	sb.WriteString(fmt.Sprintf("- Privacy-related technologies: %d (%.1f%%)\n\n", s.PrivacyTechnologies, s.PrivacyPercentage))

	sb.WriteString("## Risk Distribution\n\n")
	for _, label := range riskLabels {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", label, s.RiskDistribution[label]))
	}
	sb.WriteString("\n")

	sb.WriteString("## Category Breakdown\n\n")
	for _, c := range sortedCategoryCounts(s.CategoryCounts) {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", c.name, c.count))
	}
	sb.WriteString("\n")

	sb.WriteString("## Detection Coverage\n\n")
	for _, tag := range classify.DetectionTags {
		sb.WriteString(fmt.Sprintf("- %s: %d\n", tag, s.DetectionCoverage[tag]))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("## Top %d Threats\n\n", topLimit))
	sb.WriteString("| # | Technology | Threat | Risk | Categories |\n")
	sb.WriteString("|---|------------|--------|------|------------|\n")
	for i, t := range s.TopThreats {
		sb.WriteString(fmt.Sprintf("| %d | %s | %d | %s | %s |\n",
			i+1, t.Name, t.ThreatLevel, t.RiskLevel, strings.Join(t.Categories, ", ")))
	}

	return sb.String()
}

type categoryCount struct {
	name  string
	count int
}

// sortedCategoryCounts orders the breakdown descending by count, ties
// broken by name.
func sortedCategoryCounts(counts map[string]int) []categoryCount {
	out := make([]categoryCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, categoryCount{name: name, count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].name < out[j].name
	})
	return out
}
