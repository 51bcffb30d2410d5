package stats

import (
	"fmt"
	"strings"
)

// FieldSummary holds the aggregated result for one qualified name
type FieldSummary struct {
	Field            string  `json:"field"`
	Expected         int     `json:"expected"`
	Correct          int     `json:"correct"`
	CorrectPercent   float64 `json:"correctPercent"`
	IncorrectlyFound int     `json:"incorrectlyFound"`
	Extras           int     `json:"approximateExtras"`
	ExtrasPercent    float64 `json:"approximateExtrasPercent"`
	// Unexpected is true for fields that were found but never expected
	Unexpected bool `json:"unexpected,omitempty"`
}

// ErrorFree checks if the field was found exactly as expected
func (f FieldSummary) ErrorFree() bool {
	return !f.Unexpected && f.Correct == f.Expected && f.Extras <= 0
}

// Line renders the field summary as a single report line
func (f FieldSummary) Line() string {
	if f.Unexpected {
		return fmt.Sprintf("%s: Total Expected: 0, Total Incorrectly Found: %d",
			f.Field, f.IncorrectlyFound)
	}
	return fmt.Sprintf("%s: Total Expected: %d, Total Correct: %d (%.0f%%), "+
		"Total Incorrectly Found: %d, Approximate Extras: %d (%.0f%%)",
		f.Field, f.Expected, f.Correct, f.CorrectPercent,
		f.IncorrectlyFound, f.Extras, f.ExtrasPercent)
}

// Report is the summary of a complete run
type Report struct {
	Fields    []FieldSummary `json:"fields"`
	ErrorFree bool           `json:"errorFree"`
}

// Lines renders one line per field
func (r *Report) Lines() []string {
	lines := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		lines[i] = f.Line()
	}
	return lines
}

// String renders the report as text
func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Summarize aggregates the tallies of a run into a report.
// Fields are reported in the order they were first expected, followed
// by all fields that were found but never expected. The tallies are
// not modified.
func Summarize(t *Tallies) (*Report, bool) {
	report := &Report{ErrorFree: true}

	// Consumed keys are removed, the rest was never expected
	incorrect := t.Incorrect.Clone()

	for _, key := range t.Expected.Keys() {
		expected := t.Expected.Get(key)
		correct := t.Correct.Get(key)
		incorrectlyFound := incorrect.Get(key)
		incorrect.Delete(key)

		extras := incorrectlyFound - (expected - correct)
		if extras < 0 {
			extras = 0
		}

		field := FieldSummary{
			Field:            key,
			Expected:         expected,
			Correct:          correct,
			CorrectPercent:   percent(correct, expected),
			IncorrectlyFound: incorrectlyFound,
			Extras:           extras,
			ExtrasPercent:    percent(extras, expected),
		}
		if !field.ErrorFree() {
			report.ErrorFree = false
		}
		report.Fields = append(report.Fields, field)
	}

	for _, key := range incorrect.Keys() {
		report.Fields = append(report.Fields, FieldSummary{
			Field:            key,
			IncorrectlyFound: incorrect.Get(key),
			Unexpected:       true,
		})
		report.ErrorFree = false
	}

	return report, report.ErrorFree
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
