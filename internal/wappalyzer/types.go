package wappalyzer

import (
	"encoding/json"
	"fmt"
)

// Technology is one record from a technology bucket file, parsed
// defensively. The upstream data is hand-maintained JSON where almost
// every field may be a string, a list, or a map depending on the entry,
// so scalar fields are extracted with type checks and the detection
// signal fields keep their raw decoded shape for the generators to
// inspect.
type Technology struct {
	Name        string
	Cats        []int
	CatsListed  bool // cats field was present and list-shaped
	Description string
	Website     string
	SaaS        bool
	Pricing     []string

	// Detection signal fields, nil when absent.
	Cookies   interface{}
	JS        interface{}
	ScriptSrc interface{}
	XHR       interface{}
	DOM       interface{}
	HTML      interface{}
	Headers   interface{}
}

// Category is one entry from categories.json. The source keys entries
// by the decimal string form of the ID.
type Category struct {
	ID     int
	Name   string
	Groups []int
}

// ParseTechnologies converts a merged bucket mapping into typed
// records. Entries whose value is not a JSON object are skipped and
// tallied in the second return value.
func ParseTechnologies(raw map[string]json.RawMessage) (map[string]Technology, int) {
	techs := make(map[string]Technology, len(raw))
	skipped := 0
	for name, msg := range raw {
		var fields map[string]interface{}
		if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
			skipped++
			continue
		}
		techs[name] = parseTechnology(name, fields)
	}
	return techs, skipped
}

func parseTechnology(name string, fields map[string]interface{}) Technology {
	t := Technology{Name: name}

	if v, ok := fields["cats"]; ok {
		if list, ok := v.([]interface{}); ok {
			t.CatsListed = true
			for _, item := range list {
				if f, ok := item.(float64); ok {
					t.Cats = append(t.Cats, int(f))
				}
			}
		}
	}
	if v, ok := fields["description"].(string); ok {
		t.Description = v
	}
	if v, ok := fields["website"].(string); ok {
		t.Website = v
	}
	if v, ok := fields["saas"].(bool); ok {
		t.SaaS = v
	}
	if v, ok := fields["pricing"].([]interface{}); ok {
		for _, item := range v {
			if s, ok := item.(string); ok {
				t.Pricing = append(t.Pricing, s)
			}
		}
	}

	t.Cookies = fields["cookies"]
	t.JS = fields["js"]
	t.ScriptSrc = fields["scriptSrc"]
	t.XHR = fields["xhr"]
	t.DOM = fields["dom"]
	t.HTML = fields["html"]
	t.Headers = fields["headers"]

	return t
}

// ParseCategories converts the categories.json object into an ID-keyed
// map. Entries with non-numeric keys or non-object values are skipped.
func ParseCategories(raw map[string]json.RawMessage) map[int]Category {
	cats := make(map[int]Category, len(raw))
	for key, msg := range raw {
		var id int
		if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
			continue
		}
		var fields map[string]interface{}
		if err := json.Unmarshal(msg, &fields); err != nil || fields == nil {
			continue
		}
		c := Category{ID: id}
		if v, ok := fields["name"].(string); ok {
			c.Name = v
		}
		if v, ok := fields["groups"].([]interface{}); ok {
			for _, item := range v {
				if f, ok := item.(float64); ok {
					c.Groups = append(c.Groups, int(f))
				}
			}
		}
		cats[id] = c
	}
	return cats
}
