// Package output persists generated datasets under the configured
// output directory.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// File names written by a run.
const (
	PrivacyTechnologiesFile = "privacy-technologies.json"
	CookiePatternsFile      = "cookie-patterns.json"
	JavaScriptPatternsFile  = "javascript-patterns.json"
	NetworkPatternsFile     = "network-patterns.json"
	CompleteDatabaseFile    = "complete-database.json"
	ExtensionDatabaseFile   = "extension-database.json"
	SummaryReportFile       = "summary-report.json"
	ReportFile              = "REPORT.md"
)

// Writer writes whole files into one output directory. Each write is a
// single whole-file write; nothing is cleaned up on failure.
type Writer struct {
	dir string
}

// NewWriter creates the output directory, parents included, and returns
// a Writer rooted there.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// WriteJSON marshals v with two-space indentation and writes it to name
// under the output directory, ending with a newline.
func (w *Writer) WriteJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", name, err)
	}
	return w.write(name, append(data, '\n'))
}

// WriteText writes text verbatim to name under the output directory.
func (w *Writer) WriteText(name, text string) error {
	return w.write(name, []byte(text))
}

func (w *Writer) write(name string, data []byte) error {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
