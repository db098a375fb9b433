package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftmatrix/savetrack-api/internal/config"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(config.GeminiConfig{APIKey: "test-key", Model: "gemini-test", BaseURL: srv.URL + "/"})
}

func TestGenerateReturnsModelText(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		MaxTokens int `json:"max_tokens"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gemini-test",
			"choices":[{"index":0,"message":{"role":"assistant","content":"  Track groceries weekly.  "},"finish_reason":"stop"}]}`))
	})

	text := c.Generate(context.Background(), SpendingAnalysis, Data{Transactions: []int{1}, Categories: []string{"Food"}})

	assert.Equal(t, "Track groceries weekly.", text)
	assert.Equal(t, "gemini-test", got.Model)
	assert.Equal(t, 150, got.MaxTokens)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "TASK: Analyze spending patterns")
	assert.Contains(t, got.Messages[0].Content, `CATEGORIES: ["Food"]`)
}

func TestGenerateFallsBackOnUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	assert.Equal(t, FallbackText, c.Generate(context.Background(), BudgetAdvice, Data{}))
}

func TestGenerateFallsBackOnEmptyChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","object":"chat.completion","choices":[]}`))
	})
	assert.Equal(t, FallbackText, c.Generate(context.Background(), SavingsTip, Data{}))
}

func TestBuildPromptSections(t *testing.T) {
	cases := map[Kind][]string{
		BudgetAdvice:  {"TASK: Provide budget optimization advice.", "BUDGET DATA:", "RECENT TRANSACTIONS:"},
		BudgetWarning: {"TASK: Check for budget overspending", "CATEGORIES WITH LIMITS:"},
		SavingsTip:    {"TASK: Provide personalized savings advice", "SAVINGS GOALS:", "ACCOUNTS:"},
		Kind("other"): {"TASK: Provide general financial awareness advice."},
	}
	for kind, wants := range cases {
		p := BuildPrompt(kind, Data{})
		assert.True(t, strings.HasPrefix(p, "You are a personal finance AI assistant for SaveTrack"))
		for _, w := range wants {
			assert.Contains(t, p, w, string(kind))
		}
	}
}
