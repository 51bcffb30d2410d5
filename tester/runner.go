package tester

import (
	"context"
	"fmt"

	"github.com/KorAP/Koral-TreeCompare/ast"
	"github.com/KorAP/Koral-TreeCompare/config"
	"github.com/KorAP/Koral-TreeCompare/matcher"
	"github.com/KorAP/Koral-TreeCompare/parser"
	"github.com/KorAP/Koral-TreeCompare/stats"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// SummaryCaseID identifies the final case reporting the run statistics
	SummaryCaseID = "Summary"

	compareTitle  = "Compare Attributes"
	expectedLabel = "Expected"
	foundLabel    = "Found"
)

// Runner compares the expected with the found attribute trees of test cases
type Runner struct {
	Source        TreeSource
	Sink          ResultSink
	CaseSensitive bool
	// Workers limits the number of cases evaluated concurrently
	Workers int
}

// NewRunner creates a runner for the given suite configuration
func NewRunner(source TreeSource, sink ResultSink, cfg *config.SuiteConfig) *Runner {
	return &Runner{
		Source:        source,
		Sink:          sink,
		CaseSensitive: cfg.IsCaseSensitive(),
		Workers:       cfg.Workers,
	}
}

// CaseResult is the outcome of a single test case
type CaseResult struct {
	ID      string `json:"id"`
	Matched bool   `json:"matched"`
	Error   string `json:"error,omitempty"`

	err      error
	expected []*ast.Node
	found    []*ast.Node
	tallies  *stats.Tallies
}

// RunResult is the outcome of a complete run
type RunResult struct {
	Cases     []*CaseResult  `json:"cases"`
	Passed    int            `json:"passed"`
	Failed    int            `json:"failed"`
	Report    *stats.Report  `json:"summary"`
	ErrorFree bool           `json:"errorFree"`
	Tallies   *stats.Tallies `json:"-"`
}

// evaluate obtains and compares the trees of a test case
// and counts into tallies owned by the case
func (r *Runner) evaluate(c config.TestCase) *CaseResult {
	res := &CaseResult{
		ID:      c.ID,
		tallies: stats.NewTallies(),
	}

	expected, err := r.Source.ExpectedTree(c)
	if err != nil {
		res.fail(fmt.Errorf("failed to obtain expected attributes: %w", err))
		return res
	}

	found, err := r.Source.FoundTree(c)
	if err != nil {
		res.fail(fmt.Errorf("failed to obtain found attributes: %w", err))
		return res
	}

	// The collaborator keeps ownership of its trees
	res.expected = ast.CloneAll(expected)
	res.found = ast.CloneAll(found)

	if !r.CaseSensitive {
		ast.Uppercase(res.expected)
		ast.Uppercase(res.found)
	}

	stats.CountExpected(res.expected, "", res.tallies)

	if len(res.found) == 0 && len(res.expected) > 0 {
		log.Debug().Str("case", c.ID).Msg("No attributes found")
		return res
	}

	res.Matched = matcher.Compare(res.expected, res.found, "", res.tallies)

	log.Debug().
		Str("case", c.ID).
		Bool("matched", res.Matched).
		Int("expected", len(res.expected)).
		Int("found", len(res.found)).
		Msg("Compared attributes")

	return res
}

func (res *CaseResult) fail(err error) {
	res.err = err
	res.Error = err.Error()
	res.Matched = false
}

// report hands the result of a case to the sink
func (r *Runner) report(c config.TestCase, res *CaseResult) {
	r.Sink.StartCase(c.ID, c.Description)

	switch {
	case res.err != nil:
		log.Error().Err(res.err).Str("case", c.ID).Msg("Test case failed with an error")
		r.Sink.RecordNote("Error", res.err.Error())
	case !res.Matched:
		if len(res.found) == 0 {
			r.Sink.RecordNote("Result", "No attributes found")
		}
		r.Sink.RecordCompareData(compareTitle,
			expectedLabel, parser.Format(res.expected),
			foundLabel, parser.Format(res.found))
	}

	r.Sink.EndCase(res.Matched)
}

// RunCase evaluates and reports a single test case and adds its
// counts to tallies
func (r *Runner) RunCase(c config.TestCase, tallies *stats.Tallies) *CaseResult {
	res := r.evaluate(c)
	r.report(c, res)
	tallies.Merge(res.tallies)
	return res
}

// Run evaluates all cases and reports them in order, followed by
// a summary case. Cases are evaluated with isolated tallies that are
// merged in case order, so the result does not depend on Workers.
// Errors of individual cases fail the case but never the run.
func (r *Runner) Run(ctx context.Context, cases []config.TestCase) (*RunResult, error) {
	results := make([]*CaseResult, len(cases))

	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = r.evaluate(c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run aborted: %w", err)
	}

	run := &RunResult{
		Cases:   results,
		Tallies: stats.NewTallies(),
	}
	for i, c := range cases {
		res := results[i]
		r.report(c, res)
		run.Tallies.Merge(res.tallies)
		if res.Matched {
			run.Passed++
		} else {
			run.Failed++
		}
	}

	run.Report, run.ErrorFree = stats.Summarize(run.Tallies)
	r.reportSummary(run)

	return run, nil
}

// reportSummary reports the statistics of the run as a separate case
func (r *Runner) reportSummary(run *RunResult) {
	r.Sink.StartCase(SummaryCaseID, "Statistics of all test cases")
	r.Sink.RecordNote("Test Cases",
		fmt.Sprintf("Passed: %d, Failed: %d", run.Passed, run.Failed))
	for _, field := range run.Report.Fields {
		r.Sink.RecordNote(field.Field, field.Line())
	}
	r.Sink.EndCase(run.ErrorFree)
}
