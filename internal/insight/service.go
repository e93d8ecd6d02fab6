package insight

import (
	"context"
	"sync"

	"github.com/mzhen/unisphere/backend/internal/logging"
	"github.com/mzhen/unisphere/backend/internal/preview"
)

// Operation names used in lifecycle events.
const (
	OpSummary   = "summary"
	OpQuestions = "questions"
)

// SummaryState is the lifecycle slot for the summary call.
type SummaryState struct {
	NoteID  string `json:"note_id,omitempty"`
	Loading bool   `json:"loading"`
	Summary string `json:"summary,omitempty"`
	Error   string `json:"error,omitempty"`
}

// QuestionsState is the lifecycle slot for the question-generation call.
type QuestionsState struct {
	NoteID    string          `json:"note_id,omitempty"`
	Loading   bool            `json:"loading"`
	Questions []StudyQuestion `json:"questions,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// State is a snapshot of both slots.
type State struct {
	Summary   SummaryState   `json:"summary"`
	Questions QuestionsState `json:"questions"`
}

// Service orchestrates the two external calls and exposes their
// pending/success/failure lifecycle. It never touches the entity store.
//
// The two slots are independent: both can be pending concurrently and a
// failure of one never clears or corrupts the other's result. A request
// clears the slot's previous result immediately at invocation, not on
// resolution, so the UI never shows stale results during a new request.
// When requests overlap, the last-resolving response wins.
type Service struct {
	mu        sync.Mutex
	generator Generator

	summary   SummaryState
	questions QuestionsState

	onStarted   func(noteID, operation string)
	onCompleted func(noteID, operation string)
	onFailed    func(noteID, operation string, err error)
}

// NewService creates a Service over the given generator.
func NewService(generator Generator) *Service {
	return &Service{generator: generator}
}

// SetEventCallbacks registers lifecycle callbacks. Any may be nil.
func (s *Service) SetEventCallbacks(
	started func(noteID, operation string),
	completed func(noteID, operation string),
	failed func(noteID, operation string, err error),
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStarted = started
	s.onCompleted = completed
	s.onFailed = failed
}

// Request launches the summary and question calls concurrently for one
// note. The calls have no ordering guarantee relative to each other.
func (s *Service) Request(ctx context.Context, noteID, content string) {
	s.RequestSummary(ctx, noteID, content)
	s.RequestQuestions(ctx, noteID, content)
}

// RequestSummary starts an asynchronous summary call. The previous summary
// is cleared before the call is issued.
func (s *Service) RequestSummary(ctx context.Context, noteID, content string) {
	s.mu.Lock()
	s.summary = SummaryState{NoteID: noteID, Loading: true}
	started := s.onStarted
	s.mu.Unlock()

	if started != nil {
		started(noteID, OpSummary)
	}

	go func() {
		summary, err := s.generator.Summarize(ctx, preview.PlainText(content))

		s.mu.Lock()
		if err != nil {
			s.summary = SummaryState{NoteID: noteID, Error: err.Error()}
		} else {
			s.summary = SummaryState{NoteID: noteID, Summary: summary}
		}
		completed, failed := s.onCompleted, s.onFailed
		s.mu.Unlock()

		if err != nil {
			logging.Error("summary generation failed", err, map[string]interface{}{"note_id": noteID})
			if failed != nil {
				failed(noteID, OpSummary, err)
			}
			return
		}
		if completed != nil {
			completed(noteID, OpSummary)
		}
	}()
}

// RequestQuestions starts an asynchronous question-generation call. The
// previous questions are cleared before the call is issued.
func (s *Service) RequestQuestions(ctx context.Context, noteID, content string) {
	s.mu.Lock()
	s.questions = QuestionsState{NoteID: noteID, Loading: true}
	started := s.onStarted
	s.mu.Unlock()

	if started != nil {
		started(noteID, OpQuestions)
	}

	go func() {
		questions, err := s.generator.GenerateQuestions(ctx, preview.PlainText(content))

		s.mu.Lock()
		if err != nil {
			s.questions = QuestionsState{NoteID: noteID, Error: err.Error()}
		} else {
			s.questions = QuestionsState{NoteID: noteID, Questions: questions}
		}
		completed, failed := s.onCompleted, s.onFailed
		s.mu.Unlock()

		if err != nil {
			logging.Error("question generation failed", err, map[string]interface{}{"note_id": noteID})
			if failed != nil {
				failed(noteID, OpQuestions, err)
			}
			return
		}
		if completed != nil {
			completed(noteID, OpQuestions)
		}
	}()
}

// CurrentState returns a snapshot of both slots.
func (s *Service) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := State{Summary: s.summary, Questions: s.questions}
	if s.questions.Questions != nil {
		qs := make([]StudyQuestion, len(s.questions.Questions))
		copy(qs, s.questions.Questions)
		state.Questions.Questions = qs
	}
	return state
}
