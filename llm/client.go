package llm

import (
	"context"
	"fmt"
	"io"

	"github.com/desi-ai/desi-voice-interface/config"
	openai "github.com/sashabaranov/go-openai"
)

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamChunk is one piece of a streamed completion.
type StreamChunk struct {
	Content string
	Err     error
	Done    bool
}

// Client talks to the Groq chat API, which is OpenAI-compatible.
type Client struct {
	api         *openai.Client
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewClient builds a chat client from the LLM config.
func NewClient(cfg *config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing API key: set GROQ_API_KEY or api_key in llm.json")
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		api:         openai.NewClientWithConfig(apiCfg),
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: float32(cfg.Temperature),
	}, nil
}

func (c *Client) request(messages []Message, stream bool) openai.ChatCompletionRequest {
	msgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		msgs[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    msgs,
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
		Stream:      stream,
	}
}

// Chat sends the conversation and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, c.request(messages, false))
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatStream sends the conversation and returns a channel of content chunks.
// The channel is closed after a chunk with Done set.
func (c *Client) ChatStream(ctx context.Context, messages []Message) (<-chan StreamChunk, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, c.request(messages, true))
	if err != nil {
		return nil, fmt.Errorf("chat completion stream failed: %w", err)
	}

	ch := make(chan StreamChunk, 64)
	go func() {
		defer close(ch)
		defer stream.Close()
		for {
			resp, err := stream.Recv()
			if err == io.EOF {
				ch <- StreamChunk{Done: true}
				return
			}
			if err != nil {
				ch <- StreamChunk{Err: fmt.Errorf("reading completion stream: %w", err), Done: true}
				return
			}
			if len(resp.Choices) > 0 && resp.Choices[0].Delta.Content != "" {
				ch <- StreamChunk{Content: resp.Choices[0].Delta.Content}
			}
		}
	}()
	return ch, nil
}

// Ping lists models to verify the API is reachable with the configured key.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.api.ListModels(ctx); err != nil {
		return fmt.Errorf("listing models: %w", err)
	}
	return nil
}
