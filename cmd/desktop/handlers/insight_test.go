// Package handlers tests for the AI insight endpoints.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzhen/unisphere/backend/internal/insight"
)

// fixedGenerator resolves immediately with canned results.
type fixedGenerator struct {
	summary   string
	questions []insight.StudyQuestion
}

func (g *fixedGenerator) Summarize(ctx context.Context, text string) (string, error) {
	return g.summary, nil
}

func (g *fixedGenerator) GenerateQuestions(ctx context.Context, text string) ([]insight.StudyQuestion, error) {
	return g.questions, nil
}

func TestInsightHandler_Generate(t *testing.T) {
	st := newTestStore(t)
	course := addTestCourse(t, st, "Biology")
	note := addTestNote(t, st, course.ID, "Mitosis", "Cells divide.")

	svc := insight.NewService(&fixedGenerator{
		summary:   "cells divide",
		questions: []insight.StudyQuestion{{Question: "What divides?", Answer: "Cells"}},
	})
	handler := NewInsightHandler(st, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/notes/"+note.ID+"/insights", nil)
	req.SetPathValue("id", note.ID)
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d", w.Code)
	}

	// Both calls resolve asynchronously.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s := svc.CurrentState()
		if !s.Summary.Loading && !s.Questions.Loading {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	state := svc.CurrentState()
	if state.Summary.Summary != "cells divide" {
		t.Errorf("Summary = %q", state.Summary.Summary)
	}
	if len(state.Questions.Questions) != 1 {
		t.Errorf("Questions = %+v", state.Questions.Questions)
	}
}

func TestInsightHandler_Generate_UnknownNote(t *testing.T) {
	st := newTestStore(t)
	svc := insight.NewService(&fixedGenerator{})
	handler := NewInsightHandler(st, svc)

	req := httptest.NewRequest(http.MethodPost, "/api/notes/missing/insights", nil)
	req.SetPathValue("id", "missing")
	w := httptest.NewRecorder()

	handler.Generate(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestInsightHandler_GetState(t *testing.T) {
	st := newTestStore(t)
	svc := insight.NewService(&fixedGenerator{})
	handler := NewInsightHandler(st, svc)

	req := httptest.NewRequest(http.MethodGet, "/api/insights", nil)
	w := httptest.NewRecorder()

	handler.GetState(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var state insight.State
	if err := json.NewDecoder(w.Body).Decode(&state); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if state.Summary.Loading || state.Questions.Loading {
		t.Error("Fresh service should not report pending calls")
	}
}
