package session

import (
	"context"
	"errors"
	"testing"

	"github.com/desi-ai/desi-voice-interface/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient scripts chat responses without touching the network.
type fakeClient struct {
	response string
	err      error
	chunks   []llm.StreamChunk
	gotMsgs  []llm.Message
}

func (f *fakeClient) Chat(_ context.Context, messages []llm.Message) (string, error) {
	f.gotMsgs = messages
	return f.response, f.err
}

func (f *fakeClient) ChatStream(_ context.Context, messages []llm.Message) (<-chan llm.StreamChunk, error) {
	f.gotMsgs = messages
	if f.err != nil {
		return nil, f.err
	}
	ch := make(chan llm.StreamChunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func TestNew_SeedsSystemPrompt(t *testing.T) {
	s, err := New(&fakeClient{}, nil, "english")
	require.NoError(t, err)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, llm.RoleSystem, history[0].Role)
	assert.Contains(t, history[0].Content, "You are Desi")
	assert.NotEmpty(t, s.ID())
}

func TestSend_CommitsBothTurns(t *testing.T) {
	client := &fakeClient{response: "Arre Haadi... suno."}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	resp, err := s.Send(context.Background(), "what is recursion?")
	require.NoError(t, err)
	assert.Equal(t, "Arre Haadi... suno.", resp)

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, llm.RoleUser, history[1].Role)
	assert.Equal(t, "what is recursion?", history[1].Content)
	assert.Equal(t, llm.RoleAssistant, history[2].Role)

	// The client must have seen the user turn.
	require.Len(t, client.gotMsgs, 2)
	assert.Equal(t, llm.RoleUser, client.gotMsgs[1].Role)
}

func TestSend_RollsBackOnError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	_, err = s.Send(context.Background(), "hello?")
	require.Error(t, err)
	assert.Equal(t, 1, s.Len())

	// A retry after the failure must not duplicate the user turn.
	client.err = nil
	client.response = "ok"
	_, err = s.Send(context.Background(), "hello?")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
}

func TestSendStream_CommitsFullText(t *testing.T) {
	client := &fakeClient{chunks: []llm.StreamChunk{
		{Content: "Dekho "},
		{Content: "Haadi..."},
		{Done: true},
	}}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	stream, err := s.SendStream(context.Background(), "explain gravity")
	require.NoError(t, err)

	var got string
	for chunk := range stream {
		got += chunk.Content
	}
	assert.Equal(t, "Dekho Haadi...", got)

	history := s.History()
	require.Len(t, history, 3)
	assert.Equal(t, "Dekho Haadi...", history[2].Content)
}

func TestSendStream_RollsBackOnStreamError(t *testing.T) {
	client := &fakeClient{chunks: []llm.StreamChunk{
		{Content: "Dekho "},
		{Err: errors.New("connection reset"), Done: true},
	}}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	stream, err := s.SendStream(context.Background(), "explain gravity")
	require.NoError(t, err)
	for range stream {
	}

	assert.Equal(t, 1, s.Len())
}

func TestSetLanguage_ReplacesOnlySystemMessage(t *testing.T) {
	client := &fakeClient{response: "theek hai"}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	_, err = s.Send(context.Background(), "namaste")
	require.NoError(t, err)

	require.NoError(t, s.SetLanguage("hindi"))
	assert.Equal(t, "hindi", s.Language())

	history := s.History()
	require.Len(t, history, 3)
	assert.Contains(t, history[0].Content, "Respond ENTIRELY in Hindi")
	assert.Equal(t, "namaste", history[1].Content)
}

func TestReset_KeepsSystemPrompt(t *testing.T) {
	client := &fakeClient{response: "ok"}
	s, err := New(client, nil, "english")
	require.NoError(t, err)

	_, err = s.Send(context.Background(), "hi")
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	s.Reset()
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, llm.RoleSystem, s.History()[0].Role)
}
