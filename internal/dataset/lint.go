package dataset

import "regexp"

// LintPatterns compiles every emitted pattern the way a runtime
// consumer would, case-insensitively, and returns how many fail. Lint
// is advisory only; failing patterns stay in their dataset.
func LintPatterns(lists ...[]PatternRecord) int {
	invalid := 0
	for _, list := range lists {
		for _, rec := range list {
			if _, err := regexp.Compile("(?i)" + rec.Pattern); err != nil {
				invalid++
			}
		}
	}
	return invalid
}
