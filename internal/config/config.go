package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/kavinsood/tanuki/internal/logger"
	"github.com/kavinsood/tanuki/internal/version"
)

// DefaultPath is where Load looks for a config file when no --config
// flag is given.
const DefaultPath = "tanuki.json"

const defaultBaseURL = "https://raw.githubusercontent.com/enthec/webappanalyzer/main/src"

// Config carries every knob the pipeline reads. Values are immutable
// once Load returns; components receive the struct explicitly instead
// of reading ambient state.
type Config struct {
	BaseURL              string `json:"baseUrl"`
	OutputDir            string `json:"outputDir"`
	Retries              int    `json:"retries"`
	TimeoutMS            int    `json:"timeout"`
	UserAgent            string `json:"userAgent"`
	PrivacyCategories    []int  `json:"privacyCategories"`
	HighRiskCategories   []int  `json:"highRiskCategories"`
	MediumRiskCategories []int  `json:"mediumRiskCategories"`
}

// Defaults returns the built-in configuration. The category sets mark
// the slice of the upstream taxonomy that is privacy-relevant: analytics,
// advertising, tag managers, retargeting, fingerprinting and the like.
func Defaults() *Config {
	return &Config{
		BaseURL:              defaultBaseURL,
		OutputDir:            "output",
		Retries:              3,
		TimeoutMS:            30000,
		UserAgent:            fmt.Sprintf("tanuki/%s (+https://github.com/kavinsood/tanuki)", version.Version),
		PrivacyCategories:    []int{10, 32, 36, 41, 42, 52, 53, 76, 77, 83, 86, 88, 97},
		HighRiskCategories:   []int{36, 77, 83, 86, 88},
		MediumRiskCategories: []int{10, 32, 42, 53, 97},
	}
}

// Load reads the JSON config file at path and merges it over the
// defaults, field by field. A missing or unparseable file is never an
// error; the defaults are returned and a warning is logged. Malformed
// values for the three validated fields (baseUrl, outputDir,
// privacyCategories) zero the field so Validate catches them; malformed
// values elsewhere keep the default.
func Load(path string) *Config {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warnf("Could not read config file %s, using defaults: %v", path, err)
		return cfg
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warnf("Invalid config file %s, using defaults: %v", path, err)
		return cfg
	}
	cfg.mergeRaw(raw)
	return cfg
}

func (cfg *Config) mergeRaw(raw map[string]json.RawMessage) {
	for key, msg := range raw {
		switch key {
		case "baseUrl":
			if err := json.Unmarshal(msg, &cfg.BaseURL); err != nil {
				logger.Warnf("Config field baseUrl is malformed: %v", err)
				cfg.BaseURL = ""
			}
		case "outputDir":
			if err := json.Unmarshal(msg, &cfg.OutputDir); err != nil {
				logger.Warnf("Config field outputDir is malformed: %v", err)
				cfg.OutputDir = ""
			}
		case "privacyCategories":
			var ids []int
			if err := json.Unmarshal(msg, &ids); err != nil {
				logger.Warnf("Config field privacyCategories is malformed: %v", err)
				cfg.PrivacyCategories = nil
			} else {
				cfg.PrivacyCategories = ids
			}
		case "highRiskCategories":
			var ids []int
			if err := json.Unmarshal(msg, &ids); err != nil {
				logger.Warnf("Config field highRiskCategories is malformed, keeping default: %v", err)
			} else {
				cfg.HighRiskCategories = ids
			}
		case "mediumRiskCategories":
			var ids []int
			if err := json.Unmarshal(msg, &ids); err != nil {
				logger.Warnf("Config field mediumRiskCategories is malformed, keeping default: %v", err)
			} else {
				cfg.MediumRiskCategories = ids
			}
		case "retries":
			var n int
			if err := json.Unmarshal(msg, &n); err != nil || n <= 0 {
				logger.Warnf("Config field retries is malformed, keeping default %d", cfg.Retries)
			} else {
				cfg.Retries = n
			}
		case "timeout":
			var ms int
			if err := json.Unmarshal(msg, &ms); err != nil || ms <= 0 {
				logger.Warnf("Config field timeout is malformed, keeping default %d", cfg.TimeoutMS)
			} else {
				cfg.TimeoutMS = ms
			}
		case "userAgent":
			var ua string
			if err := json.Unmarshal(msg, &ua); err != nil || ua == "" {
				logger.Warnf("Config field userAgent is malformed, keeping default")
			} else {
				cfg.UserAgent = ua
			}
		default:
			logger.Warnf("Unknown config field %q ignored", key)
		}
	}
}

// Validate fails fast on the errors that must abort the run before any
// network activity.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("baseUrl is missing or empty")
	}
	if cfg.OutputDir == "" {
		return fmt.Errorf("outputDir is missing or empty")
	}
	if len(cfg.PrivacyCategories) == 0 {
		return fmt.Errorf("privacyCategories is missing or empty")
	}
	return nil
}

// Timeout returns the per-attempt fetch deadline.
func (cfg *Config) Timeout() time.Duration {
	return time.Duration(cfg.TimeoutMS) * time.Millisecond
}
