package dataset

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/kavinsood/tanuki/internal/classify"
	"github.com/kavinsood/tanuki/internal/wappalyzer"
)

// ExtensionTechnology is the reduced form of a privacy technology kept
// in the extension database.
type ExtensionTechnology struct {
	Cats        []int       `json:"cats"`
	Description string      `json:"description,omitempty"`
	ThreatLevel int         `json:"threatLevel"`
	Cookies     interface{} `json:"cookies,omitempty"`
	JS          interface{} `json:"js,omitempty"`
	ScriptSrc   interface{} `json:"scriptSrc,omitempty"`
	XHR         interface{} `json:"xhr,omitempty"`
	DOM         interface{} `json:"dom,omitempty"`
	Headers     interface{} `json:"headers,omitempty"`
	SaaS        bool        `json:"saas,omitempty"`
	Pricing     []string    `json:"pricing,omitempty"`
}

// ExtensionDatabase is the size-reduced database embedded in a
// resource-constrained consumer: privacy categories and privacy
// technologies only, keyed the same way as the source data.
type ExtensionDatabase struct {
	Categories   map[string]string              `json:"categories"`
	Technologies map[string]ExtensionTechnology `json:"technologies"`
}

// BuildExtensionDatabase reduces the full database to what an extension
// needs to match and score at runtime. Technology membership matches
// the privacy technology list exactly, threat levels included.
func BuildExtensionDatabase(techs map[string]wappalyzer.Technology, cats map[int]wappalyzer.Category, cls *classify.Classifier) ExtensionDatabase {
	db := ExtensionDatabase{
		Categories:   make(map[string]string),
		Technologies: make(map[string]ExtensionTechnology),
	}
	for id, cat := range cats {
		if cls.IsPrivacy([]int{id}) {
			db.Categories[strconv.Itoa(id)] = cat.Name
		}
	}
	for name, t := range techs {
		if !t.CatsListed || !cls.IsPrivacy(t.Cats) {
			continue
		}
		db.Technologies[name] = ExtensionTechnology{
			Cats:        t.Cats,
			Description: t.Description,
			ThreatLevel: cls.ThreatLevel(t.Cats),
			Cookies:     t.Cookies,
			JS:          t.JS,
			ScriptSrc:   t.ScriptSrc,
			XHR:         t.XHR,
			DOM:         t.DOM,
			Headers:     t.Headers,
			SaaS:        t.SaaS,
			Pricing:     t.Pricing,
		}
	}
	return db
}

// Metadata describes one generation run.
type Metadata struct {
	TotalTechnologies   int    `json:"totalTechnologies"`
	PrivacyTechnologies int    `json:"privacyTechnologies"`
	Generated           string `json:"generated"`
	Version             string `json:"version"`
}

// CompleteDatabase is the unreduced passthrough of everything fetched,
// plus run metadata.
type CompleteDatabase struct {
	Categories   map[string]json.RawMessage `json:"categories"`
	Groups       map[string]json.RawMessage `json:"groups"`
	Technologies map[string]json.RawMessage `json:"technologies"`
	Metadata     Metadata                   `json:"metadata"`
}

// BuildCompleteDatabase bundles the raw fetched documents with run
// metadata. The generation timestamp is UTC RFC3339.
func BuildCompleteDatabase(categories, groups, technologies map[string]json.RawMessage, totalCount, privacyCount int, version string) CompleteDatabase {
	return CompleteDatabase{
		Categories:   categories,
		Groups:       groups,
		Technologies: technologies,
		Metadata: Metadata{
			TotalTechnologies:   totalCount,
			PrivacyTechnologies: privacyCount,
			Generated:           time.Now().UTC().Format(time.RFC3339),
			Version:             version,
		},
	}
}
