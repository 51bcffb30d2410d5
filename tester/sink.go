package tester

import (
	"sync"

	"github.com/rs/zerolog"
)

// ResultSink receives the results of a run
type ResultSink interface {
	StartCase(id, description string)
	RecordCompareData(title, expectedLabel, expectedText, foundLabel, foundText string)
	EndCase(success bool)
	RecordNote(title, text string)
}

// LogSink writes results as structured log events
type LogSink struct {
	logger zerolog.Logger
	caseID string
}

// NewLogSink creates a sink writing to the given logger
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) StartCase(id, description string) {
	s.caseID = id
	s.logger.Info().Str("case", id).Str("desc", description).Msg("Test case started")
}

func (s *LogSink) RecordCompareData(title, expectedLabel, expectedText, foundLabel, foundText string) {
	s.logger.Warn().
		Str("case", s.caseID).
		Str("title", title).
		Str(expectedLabel, expectedText).
		Str(foundLabel, foundText).
		Msg("Compare data")
}

func (s *LogSink) EndCase(success bool) {
	event := s.logger.Info()
	if !success {
		event = s.logger.Error()
	}
	event.Str("case", s.caseID).Bool("success", success).Msg("Test case finished")
	s.caseID = ""
}

func (s *LogSink) RecordNote(title, text string) {
	s.logger.Info().Str("case", s.caseID).Str("title", title).Msg(text)
}

// EventKind identifies the sink operation of an Event
type EventKind string

const (
	StartEvent   EventKind = "start"
	CompareEvent EventKind = "compare"
	EndEvent     EventKind = "end"
	NoteEvent    EventKind = "note"
)

// Event is a single recorded sink call
type Event struct {
	Kind          EventKind `json:"kind"`
	CaseID        string    `json:"case,omitempty"`
	Description   string    `json:"desc,omitempty"`
	Title         string    `json:"title,omitempty"`
	Text          string    `json:"text,omitempty"`
	ExpectedLabel string    `json:"expectedLabel,omitempty"`
	ExpectedText  string    `json:"expectedText,omitempty"`
	FoundLabel    string    `json:"foundLabel,omitempty"`
	FoundText     string    `json:"foundText,omitempty"`
	Success       bool      `json:"success,omitempty"`
}

// MemorySink records all sink calls in order
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// NewMemorySink creates an empty MemorySink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) record(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *MemorySink) StartCase(id, description string) {
	s.record(Event{Kind: StartEvent, CaseID: id, Description: description})
}

func (s *MemorySink) RecordCompareData(title, expectedLabel, expectedText, foundLabel, foundText string) {
	s.record(Event{
		Kind:          CompareEvent,
		Title:         title,
		ExpectedLabel: expectedLabel,
		ExpectedText:  expectedText,
		FoundLabel:    foundLabel,
		FoundText:     foundText,
	})
}

func (s *MemorySink) EndCase(success bool) {
	s.record(Event{Kind: EndEvent, Success: success})
}

func (s *MemorySink) RecordNote(title, text string) {
	s.record(Event{Kind: NoteEvent, Title: title, Text: text})
}

// Events returns a copy of the recorded events
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}
