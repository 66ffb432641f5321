package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/desi-ai/desi-voice-interface/cache"
	"github.com/desi-ai/desi-voice-interface/llm"
	"github.com/google/uuid"
)

// LLMClient is the part of the chat client a session needs.
type LLMClient interface {
	Chat(ctx context.Context, messages []llm.Message) (string, error)
	ChatStream(ctx context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error)
}

// ChatSession holds the live conversation. State is ephemeral: committed
// turns are mirrored to the cache for inspection but never read back.
type ChatSession struct {
	mu       sync.Mutex
	id       string
	client   LLMClient
	persona  *llm.Persona
	language string
	messages []llm.Message
	cache    cache.Cache
}

// New creates a session seeded with the persona system prompt.
func New(client LLMClient, c cache.Cache, language string) (*ChatSession, error) {
	prompt, err := llm.SystemPrompt(llm.DefaultPersona, language)
	if err != nil {
		return nil, err
	}
	return &ChatSession{
		id:       uuid.NewString(),
		client:   client,
		persona:  llm.DefaultPersona,
		language: language,
		messages: []llm.Message{{Role: llm.RoleSystem, Content: prompt}},
		cache:    c,
	}, nil
}

// ID returns the session's unique id, used as the cache transcript key.
func (s *ChatSession) ID() string {
	return s.id
}

// Language returns the current response language.
func (s *ChatSession) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.language
}

// SetLanguage re-renders the system prompt in place. History is preserved.
func (s *ChatSession) SetLanguage(language string) error {
	prompt, err := llm.SystemPrompt(s.persona, language)
	if err != nil {
		return fmt.Errorf("could not render system prompt: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
	s.messages[0] = llm.Message{Role: llm.RoleSystem, Content: prompt}
	return nil
}

// Send appends the user turn, asks the model, and commits the reply. On
// error the user turn is rolled back so a retry does not duplicate it.
func (s *ChatSession) Send(ctx context.Context, userInput string) (string, error) {
	s.mu.Lock()
	s.messages = append(s.messages, llm.Message{Role: llm.RoleUser, Content: userInput})
	snapshot := make([]llm.Message, len(s.messages))
	copy(snapshot, s.messages)
	s.mu.Unlock()

	response, err := s.client.Chat(ctx, snapshot)
	if err != nil {
		s.rollbackUserTurn()
		return "", err
	}

	s.commitAssistantTurn(userInput, response)
	return response, nil
}

// SendStream is Send over the streaming client. The returned channel relays
// the model's chunks; the assistant turn is committed only once the stream
// finishes cleanly, and the user turn rolls back on stream error.
func (s *ChatSession) SendStream(ctx context.Context, userInput string) (<-chan llm.StreamChunk, error) {
	s.mu.Lock()
	s.messages = append(s.messages, llm.Message{Role: llm.RoleUser, Content: userInput})
	snapshot := make([]llm.Message, len(s.messages))
	copy(snapshot, s.messages)
	s.mu.Unlock()

	stream, err := s.client.ChatStream(ctx, snapshot)
	if err != nil {
		s.rollbackUserTurn()
		return nil, err
	}

	out := make(chan llm.StreamChunk, 64)
	go func() {
		defer close(out)
		var full strings.Builder
		for chunk := range stream {
			full.WriteString(chunk.Content)
			out <- chunk
			if chunk.Err != nil {
				s.rollbackUserTurn()
				return
			}
			if chunk.Done {
				s.commitAssistantTurn(userInput, full.String())
				return
			}
		}
		// Stream closed without a Done marker; treat what we have as final.
		s.commitAssistantTurn(userInput, full.String())
	}()
	return out, nil
}

func (s *ChatSession) rollbackUserTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.messages) > 1 && s.messages[len(s.messages)-1].Role == llm.RoleUser {
		s.messages = s.messages[:len(s.messages)-1]
	}
}

func (s *ChatSession) commitAssistantTurn(userInput, response string) {
	s.mu.Lock()
	s.messages = append(s.messages, llm.Message{Role: llm.RoleAssistant, Content: response})
	s.mu.Unlock()

	s.mirror(llm.RoleUser, userInput)
	s.mirror(llm.RoleAssistant, response)
}

// mirror pushes a committed turn into the cache transcript. Mirroring is
// best-effort: a cache failure never fails the conversation.
func (s *ChatSession) mirror(role, content string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.AddTranscript(s.id, &cache.TranscriptEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// History returns a copy of the conversation including the system prompt.
func (s *ChatSession) History() []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]llm.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of messages including the system prompt.
func (s *ChatSession) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}

// Reset drops everything but the system prompt.
func (s *ChatSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = s.messages[:1]
}
