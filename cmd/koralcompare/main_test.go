package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/KorAP/Koral-TreeCompare/config"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestApp(t *testing.T, suiteYAML string) *fiber.App {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "expected.voa", "Test|1\n.Units|mm\n")
	writeFile(t, dir, "found.voa", "Test|1\n.Units|MM\n")
	suiteFile := writeFile(t, dir, "suite.yaml", suiteYAML)

	suite, err := config.LoadFromSources(suiteFile, nil)
	require.NoError(t, err)

	app := fiber.New()
	setupRoutes(app, suite)
	return app
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t, `
cases:
  - id: files
    expectedFile: expected.voa
    foundFile: found.voa
`)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "OK", string(body))
}

func TestCompareEndpoint(t *testing.T) {
	app := newTestApp(t, `
cases:
  - id: files
    expectedFile: expected.voa
`)

	tests := []struct {
		name          string
		input         string
		expectedCode  int
		matched       bool
		errorFree     bool
		expectedError string
	}{
		{
			name: "Reversed order matches",
			input: `{
				"expected": [{"name": "page1", "value": "A"}, {"name": "page2", "value": "B"}],
				"found": [{"name": "page2", "value": "B"}, {"name": "page1", "value": "A"}]
			}`,
			expectedCode: http.StatusOK,
			matched:      true,
			errorFree:    true,
		},
		{
			name: "Extra found attribute",
			input: `{
				"expected": [{"name": "x", "value": "1"}],
				"found": [{"name": "x", "value": "1"}, {"name": "y", "value": "2"}]
			}`,
			expectedCode: http.StatusOK,
			matched:      false,
			errorFree:    false,
		},
		{
			name: "Case insensitive request",
			input: `{
				"caseSensitive": false,
				"expected": [{"name": "x", "value": "abc", "children": [{"name": "c", "value": "d"}]}],
				"found": [{"name": "x", "value": "ABC", "children": [{"name": "c", "value": "D"}]}]
			}`,
			expectedCode: http.StatusOK,
			matched:      true,
			errorFree:    true,
		},
		{
			name: "Nothing found",
			input: `{
				"expected": [{"name": "x", "value": "1"}]
			}`,
			expectedCode: http.StatusOK,
			matched:      false,
			errorFree:    false,
		},
		{
			name:          "Invalid JSON",
			input:         `{"expected": [`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid JSON in request body",
		},
		{
			name:          "Attribute without name",
			input:         `{"expected": [{"value": "1"}]}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: "expected: attribute 0 has no name",
		},
		{
			name:          "Null found attribute",
			input:         `{"expected": [{"name": "x"}], "found": [{"name": "x", "children": [null]}]}`,
			expectedCode:  http.StatusBadRequest,
			expectedError: `found: attribute 0 below "x" is null`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/compare", bytes.NewBufferString(tt.input))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedCode, resp.StatusCode)

			var result map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, result["error"])
				return
			}

			assert.Equal(t, tt.matched, result["matched"])
			assert.Equal(t, tt.errorFree, result["errorFree"])
			assert.NotEmpty(t, result["events"])
		})
	}
}

func TestSuiteEndpoint(t *testing.T) {
	tests := []struct {
		name          string
		suite         string
		passed        float64
		failed        float64
		errorFree     bool
		expectedField string
	}{
		{
			name: "Case sensitive",
			suite: `
cases:
  - id: files
    expectedFile: expected.voa
    foundFile: found.voa
`,
			passed:        0,
			failed:        1,
			errorFree:     false,
			expectedField: "Test.Units",
		},
		{
			name: "Case insensitive",
			suite: `
caseSensitive: false
workers: 2
cases:
  - id: files
    expectedFile: expected.voa
    foundFile: found.voa
  - id: inline
    expected: "Test|1"
    found: "Test|1"
`,
			passed:        2,
			failed:        0,
			errorFree:     true,
			expectedField: "Test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.suite)

			req := httptest.NewRequest(http.MethodPost, "/suite", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var result struct {
				Passed    float64 `json:"passed"`
				Failed    float64 `json:"failed"`
				ErrorFree bool    `json:"errorFree"`
				Summary   struct {
					Fields []struct {
						Field string `json:"field"`
					} `json:"fields"`
				} `json:"summary"`
				Cases  []map[string]any `json:"cases"`
				Events []map[string]any `json:"events"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

			assert.Equal(t, tt.passed, result.Passed)
			assert.Equal(t, tt.failed, result.Failed)
			assert.Equal(t, tt.errorFree, result.ErrorFree)
			assert.Len(t, result.Cases, int(tt.passed+tt.failed))
			assert.NotEmpty(t, result.Events)

			var fields []string
			for _, f := range result.Summary.Fields {
				fields = append(fields, f.Field)
			}
			assert.Contains(t, fields, tt.expectedField)
		})
	}
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "expected.voa", "Test|1\n.Units|mm\n")
	writeFile(t, dir, "found.voa", "Test|1\n.Units|MM\n")
	suiteFile := writeFile(t, dir, "suite.yaml", `
loglevel: error
cases:
  - id: files
    expectedFile: expected.voa
    foundFile: found.voa
`)

	cmd := &runCmd{sourceFlags: sourceFlags{Config: suiteFile}}
	err := cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 test cases failed")

	workers := 4
	cmd = &runCmd{
		sourceFlags:     sourceFlags{Config: suiteFile},
		CaseInsensitive: true,
		Workers:         &workers,
	}
	assert.NoError(t, cmd.Run())

	cmd = &runCmd{}
	err = cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one configuration source")
}

func TestRunCommandFailsOnBrokenCases(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "expected.voa", "Test|1\n")
	writeFile(t, dir, "broken.voa", "Test|1\n..Orphan|2\n")

	tests := []struct {
		name     string
		suite    string
		expected string
	}{
		{
			name: "Missing found file",
			suite: `
cases:
  - id: missing
    expectedFile: expected.voa
    foundFile: does-not-exist.voa
`,
			expected: "1 of 1 test cases failed",
		},
		{
			name: "Expected file does not parse",
			suite: `
cases:
  - id: broken
    expectedFile: broken.voa
    found: "Test|1"
`,
			expected: "1 of 1 test cases failed",
		},
		{
			name: "Both",
			suite: `
cases:
  - id: missing
    expectedFile: expected.voa
    foundFile: does-not-exist.voa
  - id: broken
    expectedFile: broken.voa
    found: "Test|1"
`,
			expected: "2 of 2 test cases failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			suiteFile := writeFile(t, dir, "suite.yaml", "loglevel: error\n"+tt.suite)

			cmd := &runCmd{sourceFlags: sourceFlags{Config: suiteFile}}
			err := cmd.Run()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "case1.yaml", "id: a\nexpected: x|1\n")
	writeFile(t, dir, "case2.yaml", "id: b\nexpected: x|1\n")
	writeFile(t, dir, "other.txt", "not a case")

	expanded, err := expandGlobs([]string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	sort.Strings(expanded)
	assert.Equal(t, []string{filepath.Join(dir, "case1.yaml"), filepath.Join(dir, "case2.yaml")}, expanded)

	// No match is treated as a literal filename
	literal := filepath.Join(dir, "missing-*.yaml")
	expanded, err = expandGlobs([]string{literal})
	require.NoError(t, err)
	assert.Equal(t, []string{literal}, expanded)

	_, err = expandGlobs([]string{"[invalid"})
	assert.Error(t, err)

	// Case files load through the expanded list
	expanded, err = expandGlobs([]string{filepath.Join(dir, "*.yaml")})
	require.NoError(t, err)
	suite, err := config.LoadFromSources("", expanded)
	require.NoError(t, err)
	assert.Len(t, suite.Cases, 2)
}
