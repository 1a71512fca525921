package wappalyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/kavinsood/tanuki/internal/logger"
)

// bucketChars enumerates the per-letter technology files upstream,
// "a".json through "z".json plus the "_".json catch-all.
const bucketChars = "abcdefghijklmnopqrstuvwxyz_"

func bucketNames() []string {
	names := make([]string, 0, len(bucketChars))
	for _, c := range bucketChars {
		names = append(names, string(c))
	}
	return names
}

// FetchAllTechnologies fetches every technology bucket concurrently and
// merges the results into one flat mapping, last write wins on key
// collision. A bucket that exhausts its retries contributes nothing;
// the second return value counts such buckets. Partial data beats total
// failure here, so this never returns an error.
func (c *Client) FetchAllTechnologies(ctx context.Context, baseURL string) (map[string]json.RawMessage, int) {
	buckets := bucketNames()
	merged := make(map[string]json.RawMessage)
	failed := 0

	bar := progressbar.NewOptions(len(buckets),
		progressbar.OptionSetDescription("Fetching technology buckets"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetVisibility(progressVisible()),
		progressbar.OptionFullWidth(),
	)

	var wg sync.WaitGroup
	var mu sync.Mutex
	for _, bucket := range buckets {
		wg.Add(1)
		go func(bucket string) {
			defer wg.Done()
			url := fmt.Sprintf("%s/technologies/%s.json", baseURL, bucket)
			data, err := c.FetchJSON(ctx, url)

			mu.Lock()
			if err != nil {
				logger.Warnf("Technology bucket %q failed, continuing without it: %v", bucket, err)
				failed++
			} else {
				for name, raw := range data {
					merged[name] = raw
				}
			}
			mu.Unlock()
			_ = bar.Add(1)
		}(bucket)
	}
	wg.Wait()

	return merged, failed
}

func progressVisible() bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv("TANUKI_NO_PROGRESS")))
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
