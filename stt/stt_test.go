package stt

import (
	"context"
	"errors"
	"testing"

	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(&config.VoiceConfig{STTProvider: "sphinx"}, &config.LLMConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown stt provider")
}

func TestNewWhisper_RequiresKey(t *testing.T) {
	_, err := NewWhisper(&config.LLMConfig{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing API key")
}

func TestNewWhisper_DefaultModel(t *testing.T) {
	w, err := NewWhisper(&config.LLMConfig{APIKey: "k"}, "")
	require.NoError(t, err)
	assert.Equal(t, "whisper-large-v3-turbo", w.model)
}

func TestLanguageCode(t *testing.T) {
	assert.Equal(t, "hi-IN", languageCode("hindi"))
	assert.Equal(t, "ur-IN", languageCode("urdu"))
	assert.Equal(t, "en-IN", languageCode("english"))
	assert.Equal(t, "en-IN", languageCode(""))
}

func TestSendTranscript_CancelledReceiver(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody reads the channel; a cancelled context must unblock the send
	// instead of leaking the sender.
	ch := make(chan string)
	assert.False(t, sendTranscript(ctx, ch, "hello"))

	errCh := make(chan error, 1)
	errCh <- errors.New("occupied")
	sendErr(ctx, errCh, errors.New("second")) // returns instead of blocking
	assert.EqualError(t, <-errCh, "occupied")
}

func TestSendTranscript_Delivers(t *testing.T) {
	ch := make(chan string, 1)
	assert.True(t, sendTranscript(context.Background(), ch, "sunlo"))
	assert.Equal(t, "sunlo", <-ch)
}

func TestStripWAVHeader(t *testing.T) {
	wav := append([]byte("RIFF"), make([]byte, 60)...)
	assert.Len(t, stripWAVHeader(wav), len(wav)-44)

	raw := make([]byte, 100)
	assert.Equal(t, raw, stripWAVHeader(raw))
}
