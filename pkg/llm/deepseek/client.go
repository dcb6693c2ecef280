// Package deepseek streams chat completions from DeepSeek's OpenAI-compatible API.
package deepseek

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/papercomputeco/tripplanner/pkg/llm"
)

const (
	// DefaultBaseURL is DeepSeek's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.deepseek.com/v1"

	// DefaultModel is the general chat model.
	DefaultModel = "deepseek-chat"
)

// Config holds what is needed to reach the hosted model.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string

	// Temperature is passed through when non-zero.
	Temperature float32
}

// Client implements llm.Streamer on top of go-openai.
type Client struct {
	client *openai.Client
	model  string
	temp   float32
}

// New builds a Client. An empty APIKey is accepted; the upstream will reject
// the call, and callers are expected to check the credential first.
func New(cfg Config) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	oc.BaseURL = DefaultBaseURL
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(oc),
		model:  model,
		temp:   cfg.Temperature,
	}
}

// Model returns the model name sent upstream.
func (c *Client) Model() string {
	return c.model
}

// Stream opens a streamed chat completion for messages.
func (c *Client) Stream(ctx context.Context, messages []llm.Message) (llm.TextStream, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    toOpenAI(messages),
		Stream:      true,
		Temperature: c.temp,
	}

	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create completion stream: %w", err)
	}

	return &textStream{stream: stream}, nil
}

func toOpenAI(messages []llm.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

type textStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next content delta. io.EOF from go-openai is passed through
// untouched so llm.Pump can detect the end of the stream.
func (s *textStream) Recv() (string, error) {
	resp, err := s.stream.Recv()
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Delta.Content, nil
}

func (s *textStream) Close() error {
	return s.stream.Close()
}
