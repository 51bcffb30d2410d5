package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort     = 5726
	defaultLogLevel = "warn"
	defaultWorkers  = 1
)

// TestCase describes a single comparison of an expected attribute tree
// with a found attribute tree
type TestCase struct {
	ID           string `yaml:"id" json:"id"`
	Description  string `yaml:"desc,omitempty" json:"desc,omitempty"`
	ExpectedFile string `yaml:"expectedFile,omitempty" json:"expectedFile,omitempty"`
	FoundFile    string `yaml:"foundFile,omitempty" json:"foundFile,omitempty"`
	// Expected and Found hold inline attribute documents and take
	// precedence over the files
	Expected string `yaml:"expected,omitempty" json:"expected,omitempty"`
	Found    string `yaml:"found,omitempty" json:"found,omitempty"`

	// Dir is the directory of the file the case was declared in
	Dir string `yaml:"-" json:"-"`
}

// ResolvePath resolves a path relative to the declaring file
func (c *TestCase) ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || c.Dir == "" {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// SuiteConfig represents the root configuration of an automated run
type SuiteConfig struct {
	CaseSensitive *bool      `yaml:"caseSensitive,omitempty"`
	LogLevel      string     `yaml:"loglevel,omitempty"`
	Workers       int        `yaml:"workers,omitempty"`
	Port          int        `yaml:"port,omitempty"`
	Cases         []TestCase `yaml:"cases,omitempty"`
}

// IsCaseSensitive reports whether values are compared case sensitively.
// Comparisons are case sensitive unless configured otherwise.
func (c *SuiteConfig) IsCaseSensitive() bool {
	return c.CaseSensitive == nil || *c.CaseSensitive
}

// LoadFromSources loads configuration from multiple sources and merges them:
// - A suite file (optional) containing global settings and cases
// - Individual case files (optional) containing a single case each
// At least one case must be provided
func LoadFromSources(suiteFile string, caseFiles []string) (*SuiteConfig, error) {
	var allCases []TestCase
	var globalConfig SuiteConfig

	// Track seen IDs across all sources to detect duplicates
	seenIDs := make(map[string]bool)

	if suiteFile != "" {
		data, err := os.ReadFile(suiteFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read suite file '%s': %w", suiteFile, err)
		}

		if len(data) == 0 {
			return nil, fmt.Errorf("EOF: suite file '%s' is empty", suiteFile)
		}

		dir := filepath.Dir(suiteFile)

		// Try the object format first, fall back to a plain list of cases
		if err := yaml.Unmarshal(data, &globalConfig); err != nil {
			var cases []TestCase
			if err := yaml.Unmarshal(data, &cases); err != nil {
				return nil, fmt.Errorf("failed to parse YAML suite file '%s': %w", suiteFile, err)
			}
			globalConfig.Cases = cases
		}

		for _, c := range globalConfig.Cases {
			if seenIDs[c.ID] {
				return nil, fmt.Errorf("duplicate test case ID found: %s", c.ID)
			}
			seenIDs[c.ID] = true
			c.Dir = dir
			allCases = append(allCases, c)
		}
	}

	for _, file := range caseFiles {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Error().Err(err).Str("file", file).Msg("Failed to read case file")
			continue
		}

		if len(data) == 0 {
			log.Error().Str("file", file).Msg("EOF: case file is empty")
			continue
		}

		var c TestCase
		if err := yaml.Unmarshal(data, &c); err != nil {
			log.Error().Err(err).Str("file", file).Msg("Failed to parse YAML case file")
			continue
		}

		if seenIDs[c.ID] {
			log.Error().Str("file", file).Str("case-id", c.ID).Msg("Duplicate test case ID found")
			continue
		}
		seenIDs[c.ID] = true
		c.Dir = filepath.Dir(file)
		allCases = append(allCases, c)
	}

	if len(allCases) == 0 {
		return nil, fmt.Errorf("no test cases found: provide either a suite file (-c) with cases or case files (-s)")
	}

	if err := validateCases(allCases); err != nil {
		return nil, err
	}

	result := &SuiteConfig{
		CaseSensitive: globalConfig.CaseSensitive,
		LogLevel:      globalConfig.LogLevel,
		Workers:       globalConfig.Workers,
		Port:          globalConfig.Port,
		Cases:         allCases,
	}

	ApplyDefaults(result)

	return result, nil
}

// ApplyDefaults sets default values for configuration fields if they are empty
func ApplyDefaults(config *SuiteConfig) {
	if config.LogLevel == "" {
		config.LogLevel = defaultLogLevel
	}
	if config.Port == 0 {
		config.Port = defaultPort
	}
	if config.Workers <= 0 {
		config.Workers = defaultWorkers
	}
}

// validateCases validates a slice of test cases (without duplicate ID checking)
func validateCases(cases []TestCase) error {
	for i, c := range cases {
		if c.ID == "" {
			return fmt.Errorf("test case at index %d is missing an ID", i)
		}
		if c.Expected == "" && c.ExpectedFile == "" {
			return fmt.Errorf("test case '%s' has no expected attributes", c.ID)
		}
	}
	return nil
}
