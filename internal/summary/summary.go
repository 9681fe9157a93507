package summary

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// Client is the minimal chat-completion surface needed to summarize a page.
// It mirrors the method used on *openai.Client so any OpenAI-compatible or
// local backend can be adapted.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewClient builds a client for an OpenAI-compatible endpoint. An empty
// baseURL keeps the library default.
func NewClient(baseURL, apiKey string) Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// ErrEmptySummary indicates the model returned no usable text.
var ErrEmptySummary = errors.New("model returned an empty summary")

const systemPrompt = "You summarize web pages. Reply with a short plain-text summary of the page content, at most five sentences, no markup."

// DefaultMaxChars bounds how much page text is sent to the model.
const DefaultMaxChars = 12000

// Summarize sends extracted page text to the model and returns its summary.
// The input is truncated to maxChars (DefaultMaxChars when zero) to keep
// requests bounded.
func Summarize(ctx context.Context, c Client, model, title, text string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if len(text) > maxChars {
		// Back off to a rune boundary so the model never sees a split
		// multi-byte sequence.
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	user := text
	if t := strings.TrimSpace(title); t != "" {
		user = "Title: " + t + "\n\n" + text
	}
	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptySummary
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", ErrEmptySummary
	}
	return out, nil
}
