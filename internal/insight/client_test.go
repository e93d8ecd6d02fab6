// Package insight provides unit tests for provider client mocking.
package insight

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
)

// TestNewClient verifies client initialization.
func TestNewClient(t *testing.T) {
	config := &Config{
		Provider:    ProviderOpenAI,
		APIEndpoint: "https://api.openai.com/v1",
		APIKey:      "test-key",
		ModelName:   "gpt-4",
		MaxTokens:   1000,
	}

	client := NewClient(config)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.config != config {
		t.Error("config not set correctly")
	}
	if client.httpClient == nil {
		t.Error("httpClient not initialized")
	}
}

// TestSummarizeMissingCredential verifies the precondition check.
func TestSummarizeMissingCredential(t *testing.T) {
	client := NewClient(&Config{
		Provider:    ProviderOpenAI,
		APIEndpoint: "https://api.openai.com/v1",
		ModelName:   "gpt-4",
	})

	_, err := client.Summarize(context.Background(), "some text")

	if !apperrors.Is(err, apperrors.ErrAINotConfigured) {
		t.Errorf("expected ErrAINotConfigured, got %v", err)
	}
}

// TestSummarizeOpenAI verifies the OpenAI request/response round trip.
func TestSummarizeOpenAI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req openAIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || !strings.Contains(req.Messages[0].Content, "mitosis") {
			t.Errorf("prompt does not carry the note text: %+v", req.Messages)
		}

		w.Write([]byte(`{"choices":[{"message":{"content":"  Cells divide by mitosis.  "}}]}`))
	}))
	defer server.Close()

	client := NewClient(&Config{
		Provider:    ProviderOpenAI,
		APIEndpoint: server.URL,
		APIKey:      "test-key",
		ModelName:   "gpt-4",
		MaxTokens:   500,
	})

	summary, err := client.Summarize(context.Background(), "Notes about mitosis.")
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	if summary != "Cells divide by mitosis." {
		t.Errorf("Summarize() = %q", summary)
	}
}

// TestSummarizeOllama verifies the Ollama request/response round trip.
func TestSummarizeOllama(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("streaming should be disabled")
		}
		json.NewEncoder(w).Encode(ollamaResponse{Response: "a local summary"})
	}))
	defer server.Close()

	client := NewClient(&Config{
		Provider:    ProviderOllama,
		APIEndpoint: server.URL,
		ModelName:   "llama3",
	})

	summary, err := client.Summarize(context.Background(), "text")
	if err != nil {
		t.Fatalf("Summarize() returned error: %v", err)
	}
	if summary != "a local summary" {
		t.Errorf("Summarize() = %q", summary)
	}
}

// TestSummarizeServerError verifies non-200 responses surface as AI call errors.
func TestSummarizeServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(&Config{
		Provider:    ProviderOpenAI,
		APIEndpoint: server.URL,
		APIKey:      "test-key",
		ModelName:   "gpt-4",
	})

	_, err := client.Summarize(context.Background(), "text")
	if !apperrors.Is(err, apperrors.ErrAICall) {
		t.Errorf("expected ErrAICall, got %v", err)
	}
}

// TestGenerateQuestions verifies question parsing, including fenced payloads.
func TestGenerateQuestions(t *testing.T) {
	payload := "```json\n[{\"question\": \"What is mitosis?\", \"answer\": \"Cell division.\"}]\n```"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: payload})
	}))
	defer server.Close()

	client := NewClient(&Config{
		Provider:    ProviderOllama,
		APIEndpoint: server.URL,
		ModelName:   "llama3",
	})

	questions, err := client.GenerateQuestions(context.Background(), "text")
	if err != nil {
		t.Fatalf("GenerateQuestions() returned error: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].Question != "What is mitosis?" || questions[0].Answer != "Cell division." {
		t.Errorf("unexpected question: %+v", questions[0])
	}
}

// TestGenerateQuestionsMalformed verifies non-JSON output is rejected.
func TestGenerateQuestionsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ollamaResponse{Response: "Sure! Here are some questions..."})
	}))
	defer server.Close()

	client := NewClient(&Config{
		Provider:    ProviderOllama,
		APIEndpoint: server.URL,
		ModelName:   "llama3",
	})

	_, err := client.GenerateQuestions(context.Background(), "text")
	if !apperrors.Is(err, apperrors.ErrAICall) {
		t.Errorf("expected ErrAICall, got %v", err)
	}
}

// TestParseQuestionsTable covers parser edge cases.
func TestParseQuestionsTable(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
		wantLen int
	}{
		{"plain array", `[{"question":"q","answer":"a"}]`, false, 1},
		{"fenced array", "```\n[{\"question\":\"q\",\"answer\":\"a\"}]\n```", false, 1},
		{"empty array", `[]`, true, 0},
		{"empty question", `[{"question":"","answer":"a"}]`, true, 0},
		{"prose", "here you go", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuestions(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseQuestions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.wantLen {
				t.Errorf("got %d questions, want %d", len(got), tt.wantLen)
			}
		})
	}
}
