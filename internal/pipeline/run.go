// Package pipeline wires the stages of a generation run together:
// fetch, validate, classify, generate, report, persist.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kavinsood/tanuki/internal/classify"
	"github.com/kavinsood/tanuki/internal/config"
	"github.com/kavinsood/tanuki/internal/dataset"
	"github.com/kavinsood/tanuki/internal/logger"
	"github.com/kavinsood/tanuki/internal/output"
	"github.com/kavinsood/tanuki/internal/report"
	"github.com/kavinsood/tanuki/internal/version"
	"github.com/kavinsood/tanuki/internal/wappalyzer"
)

// Run executes one full generation run against cfg. Categories, groups
// and the 27 technology buckets are fetched concurrently; a failed
// bucket degrades to an empty contribution while categories and groups
// are required. Everything downstream of the fetch is a pure transform,
// persisted sequentially at the end.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	client := wappalyzer.NewClient(cfg.Timeout(), cfg.Retries, cfg.UserAgent)

	var (
		categories    map[string]json.RawMessage
		groups        map[string]json.RawMessage
		technologies  map[string]json.RawMessage
		failedBuckets int
	)

	var wg sync.WaitGroup

	type fetchResult struct {
		kind string // "categories", "groups", "technologies"
		err  error
	}
	errChan := make(chan fetchResult, 3)

	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		categories, err = client.FetchJSON(ctx, fmt.Sprintf("%s/categories.json", cfg.BaseURL))
		errChan <- fetchResult{kind: "categories", err: err}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		var err error
		groups, err = client.FetchJSON(ctx, fmt.Sprintf("%s/groups.json", cfg.BaseURL))
		errChan <- fetchResult{kind: "groups", err: err}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		technologies, failedBuckets = client.FetchAllTechnologies(ctx, cfg.BaseURL)
		errChan <- fetchResult{kind: "technologies", err: nil}
	}()

	wg.Wait()
	close(errChan)

	for res := range errChan {
		if res.err != nil {
			return fmt.Errorf("required %s fetch: %w", res.kind, res.err)
		}
	}

	if failedBuckets > 0 {
		logger.Warnf("%d technology buckets could not be downloaded", failedBuckets)
	}
	if len(technologies) == 0 {
		return errors.New("no technologies were loaded after aggregation")
	}

	techs, skipped := wappalyzer.ParseTechnologies(technologies)
	if skipped > 0 {
		logger.Warnf("Skipped %d non-object technology records", skipped)
	}
	cats := wappalyzer.ParseCategories(categories)
	logger.Infof("Loaded %d technologies and %d categories", len(techs), len(cats))

	cls := classify.New(cfg.PrivacyCategories, cfg.HighRiskCategories, cfg.MediumRiskCategories)

	privacyList, invalid := dataset.BuildPrivacyList(techs, cats, cls)
	if invalid > 0 {
		logger.Warnf("Skipped %d technologies with missing or malformed category data", invalid)
	}
	cookiePatterns := dataset.BuildCookiePatterns(techs, cls)
	jsPatterns := dataset.BuildJSPatterns(techs, cls)
	networkPatterns := dataset.BuildNetworkPatterns(techs, cls)
	extensionDB := dataset.BuildExtensionDatabase(techs, cats, cls)
	completeDB := dataset.BuildCompleteDatabase(categories, groups, technologies, len(techs), len(privacyList), version.Version)

	if bad := dataset.LintPatterns(cookiePatterns, jsPatterns); bad > 0 {
		logger.Warnf("%d detection patterns do not compile as regular expressions", bad)
	}

	summary := report.Build(len(techs), privacyList)

	w, err := output.NewWriter(cfg.OutputDir)
	if err != nil {
		return err
	}
	files := []struct {
		name string
		v    interface{}
	}{
		{output.PrivacyTechnologiesFile, privacyList},
		{output.CookiePatternsFile, cookiePatterns},
		{output.JavaScriptPatternsFile, jsPatterns},
		{output.NetworkPatternsFile, networkPatterns},
		{output.CompleteDatabaseFile, completeDB},
		{output.ExtensionDatabaseFile, extensionDB},
		{output.SummaryReportFile, summary},
	}
	for _, f := range files {
		if err := w.WriteJSON(f.name, f.v); err != nil {
			return err
		}
		logger.Debugf("Wrote %s", f.name)
	}
	if err := w.WriteText(output.ReportFile, report.RenderMarkdown(summary)); err != nil {
		return err
	}

	logger.Infof("Wrote %d files to %s (%d privacy technologies) in %s",
		len(files)+1, cfg.OutputDir, len(privacyList), time.Since(start).Round(time.Millisecond))
	return nil
}
