// Package ai turns slices of a user's financial data into short advice
// texts using a Gemini model.
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/config"
)

const (
	Provider     = "Google Gemini"
	FallbackText = "Unable to generate insight at this time. Please try again later."

	requestTimeout = 30 * time.Second
)

type Kind string

const (
	SpendingAnalysis Kind = "spending_analysis"
	BudgetAdvice     Kind = "budget_advice"
	BudgetWarning    Kind = "budget_warning"
	SavingsTip       Kind = "savings_tip"
)

// Data is the slice of financial data a prompt embeds. Nil fields are omitted.
type Data struct {
	Transactions any
	Categories   any
	Budget       any
	Wishlist     any
	Accounts     any
}

// Client talks to Gemini through its OpenAI-compatible chat endpoint.
type Client struct {
	api   *openai.Client
	model string
}

func NewClient(cfg config.GeminiConfig) *Client {
	c := openai.DefaultConfig(cfg.APIKey)
	c.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Client{api: openai.NewClientWithConfig(c), model: cfg.Model}
}

func (c *Client) Model() string { return c.model }

// Generate never fails: transport or parsing problems are logged and the
// fallback text is returned instead.
func (c *Client) Generate(ctx context.Context, kind Kind, data Data) string {
	text, err := c.complete(ctx, BuildPrompt(kind, data))
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Str("model", c.model).Msg("insight generation failed")
		return FallbackText
	}
	return text
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   150,
		Temperature: 0.7,
		TopP:        0.8,
	})
	if err != nil {
		return "", apperr.Upstream("gemini request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Upstream("gemini returned no choices", errors.New("empty response"))
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", apperr.Upstream("gemini returned empty content", errors.New("empty content"))
	}
	return text, nil
}

// BuildPrompt renders the instruction header, the task for kind and the
// JSON-encoded data.
func BuildPrompt(kind Kind, data Data) string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	section := func(label string, v any) {
		line(label + ": " + toJSON(v))
	}

	line("You are a personal finance AI assistant for SaveTrack, a manual-first financial awareness system.")
	line("Provide helpful, actionable insights without recommending automation.")
	line("Focus on manual financial awareness and human decision-making.")
	line("Keep responses concise (2-3 sentences) and motivational.")
	line("Never suggest risky investments or provide specific financial product recommendations.")
	line("")

	switch kind {
	case SpendingAnalysis:
		line("TASK: Analyze spending patterns and provide insights.")
		section("TRANSACTION DATA", data.Transactions)
		section("CATEGORIES", data.Categories)
		line("Provide insights on spending trends, top categories, and suggestions for better tracking.")
	case BudgetAdvice:
		line("TASK: Provide budget optimization advice.")
		section("BUDGET DATA", data.Budget)
		section("RECENT TRANSACTIONS", data.Transactions)
		line("Suggest improvements to budget allocations and spending awareness.")
	case BudgetWarning:
		line("TASK: Check for budget overspending and provide warnings.")
		section("CATEGORIES WITH LIMITS", data.Categories)
		section("RECENT TRANSACTIONS", data.Transactions)
		line("Identify categories approaching or exceeding budget limits. Provide gentle warnings and suggestions.")
	case SavingsTip:
		line("TASK: Provide personalized savings advice for goals.")
		section("SAVINGS GOALS", data.Wishlist)
		section("TRANSACTIONS", data.Transactions)
		section("ACCOUNTS", data.Accounts)
		line("Suggest ways to reach savings goals based on spending patterns.")
	default:
		line("TASK: Provide general financial awareness advice.")
		line("Focus on manual tracking benefits and financial mindfulness.")
	}
	return b.String()
}

func toJSON(v any) string {
	if v == nil {
		return "[]"
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(raw)
}
