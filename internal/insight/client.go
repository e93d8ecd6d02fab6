// Package insight wraps the external summarization/question-generation
// service and tracks the pending/success/failure lifecycle of its calls.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/mzhen/unisphere/backend/internal/errors"
)

// Provider represents supported AI providers.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderOllama Provider = "ollama"
)

// Config holds AI service configuration. The API key is an externally
// provisioned credential; its absence is a fatal precondition for each
// call, not for the rest of the system.
type Config struct {
	Provider    Provider `json:"provider"`
	APIEndpoint string   `json:"api_endpoint"`
	APIKey      string   `json:"api_key"`
	ModelName   string   `json:"model_name"`
	MaxTokens   int      `json:"max_tokens"`
}

// StudyQuestion is one generated question/answer pair.
type StudyQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Generator is the opaque external service surface: summarize a text and
// generate study questions for it.
type Generator interface {
	Summarize(ctx context.Context, text string) (string, error)
	GenerateQuestions(ctx context.Context, text string) ([]StudyQuestion, error)
}

// Client calls the configured provider over HTTP.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a Client for the given configuration.
func NewClient(config *Config) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// checkCredential verifies the per-call precondition.
func (c *Client) checkCredential() error {
	if c.config.Provider == ProviderOpenAI && c.config.APIKey == "" {
		return apperrors.New(apperrors.ErrAINotConfigured, "missing API credential")
	}
	if c.config.APIEndpoint == "" {
		return apperrors.New(apperrors.ErrAINotConfigured, "missing API endpoint")
	}
	return nil
}

// Summarize generates a summary for the text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if err := c.checkCredential(); err != nil {
		return "", err
	}

	prompt := "Summarize the following study note in 2-3 sentences:\n\n" + truncateInput(text)
	out, err := c.complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// GenerateQuestions generates question/answer pairs for the text.
func (c *Client) GenerateQuestions(ctx context.Context, text string) ([]StudyQuestion, error) {
	if err := c.checkCredential(); err != nil {
		return nil, err
	}

	prompt := "Generate 3-5 quiz questions with answers for the following study note. " +
		`Respond with a JSON array only, each element {"question": "...", "answer": "..."}:` +
		"\n\n" + truncateInput(text)

	out, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	questions, err := parseQuestions(out)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrAICall, "malformed question response", err)
	}
	return questions, nil
}

// complete dispatches a single-prompt completion to the provider.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	switch c.config.Provider {
	case ProviderOpenAI:
		return c.completeOpenAI(ctx, prompt)
	case ProviderOllama:
		return c.completeOllama(ctx, prompt)
	default:
		return "", apperrors.New(apperrors.ErrAINotConfigured,
			fmt.Sprintf("unsupported AI provider: %s", c.config.Provider))
	}
}

// =====================================================
// OpenAI Integration
// =====================================================

type openAIRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) completeOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIRequest{
		Model: c.config.ModelName,
		Messages: []message{
			{Role: "user", Content: prompt},
		},
		MaxTokens: c.config.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.APIEndpoint+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrors.New(apperrors.ErrAICall,
			fmt.Sprintf("API returned %d: %s", resp.StatusCode, string(body)))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "malformed response", err)
	}
	if out.Error != nil {
		return "", apperrors.New(apperrors.ErrAICall, "API error: "+out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", apperrors.New(apperrors.ErrAICall, "empty response")
	}
	return out.Choices[0].Message.Content, nil
}

// =====================================================
// Ollama Integration (Local)
// =====================================================

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (c *Client) completeOllama(ctx context.Context, prompt string) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.config.ModelName,
		Prompt: prompt,
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.APIEndpoint+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", apperrors.New(apperrors.ErrAICall,
			fmt.Sprintf("Ollama returned %d: %s", resp.StatusCode, string(body)))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAICall, "malformed response", err)
	}
	if out.Error != "" {
		return "", apperrors.New(apperrors.ErrAICall, "Ollama error: "+out.Error)
	}
	return out.Response, nil
}

// =====================================================
// Helpers
// =====================================================

// truncateInput bounds the prompt payload.
func truncateInput(text string) string {
	const maxInput = 12000
	if len(text) > maxInput {
		return text[:maxInput] + "..."
	}
	return text
}

// parseQuestions decodes a JSON array of question/answer pairs, tolerating
// a markdown code fence around the payload.
func parseQuestions(s string) ([]StudyQuestion, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var questions []StudyQuestion
	if err := json.Unmarshal([]byte(s), &questions); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no questions in response")
	}
	for _, q := range questions {
		if q.Question == "" {
			return nil, fmt.Errorf("question with empty text in response")
		}
	}
	return questions, nil
}
