package tts

import (
	"testing"

	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "bold and plain", CleanText("**bold** and\nplain"))
	assert.Equal(t, "x  y", CleanText("`x` <= #y_"))
	assert.Equal(t, "", CleanText("***\n"))
}

func TestSpeakable(t *testing.T) {
	assert.True(t, Speakable("hello"))
	assert.False(t, Speakable("*"))
	assert.False(t, Speakable(""))
}

func TestExtractSentence(t *testing.T) {
	sentence, rest := ExtractSentence("First one. Second one.")
	assert.Equal(t, "First one.", sentence)
	assert.Equal(t, "Second one.", rest)

	sentence, rest = ExtractSentence("Still going")
	assert.Equal(t, "", sentence)
	assert.Equal(t, "Still going", rest)
}

func TestExtractSentence_ProtectsEllipses(t *testing.T) {
	// The dramatic pause must not end the sentence.
	sentence, rest := ExtractSentence("Dekho Haadi... suno carefully. Next part")
	assert.Equal(t, "Dekho Haadi... suno carefully.", sentence)
	assert.Equal(t, "Next part", rest)
}

func TestExtractSentence_QuestionAndExclamation(t *testing.T) {
	sentence, rest := ExtractSentence("Pata hai kya? The secret is simple.")
	assert.Equal(t, "Pata hai kya?", sentence)
	assert.Equal(t, "The secret is simple.", rest)

	sentence, _ = ExtractSentence("Shabash! Now you're getting it.")
	assert.Equal(t, "Shabash!", sentence)
}

func TestSplitSentences(t *testing.T) {
	got := SplitSentences("One. Two! Three... four? tail")
	assert.Equal(t, []string{"One.", "Two!", "Three... four?", "tail"}, got)

	assert.Nil(t, SplitSentences("   "))
}

func TestNew_ProviderSelection(t *testing.T) {
	edge, err := New(&config.VoiceConfig{TTSProvider: "edge", Voice: "en-IN-PrabhatNeural"})
	require.NoError(t, err)
	assert.Equal(t, "edge", edge.Name())

	eleven, err := New(&config.VoiceConfig{TTSProvider: "elevenlabs", ElevenLabsAPIKey: "k", Voice: "v"})
	require.NoError(t, err)
	assert.Equal(t, "elevenlabs", eleven.Name())

	oa, err := New(&config.VoiceConfig{TTSProvider: "openai", OpenAIAPIKey: "k", Voice: "nova"})
	require.NoError(t, err)
	assert.Equal(t, "openai", oa.Name())
}

func TestNew_ErrorsWithoutKeys(t *testing.T) {
	_, err := New(&config.VoiceConfig{TTSProvider: "elevenlabs"})
	require.Error(t, err)

	_, err = New(&config.VoiceConfig{TTSProvider: "openai"})
	require.Error(t, err)

	_, err = New(&config.VoiceConfig{TTSProvider: "espeak"})
	require.Error(t, err)
}

func TestSSMLEscaping(t *testing.T) {
	e := NewEdge("en-IN-PrabhatNeural")
	ssml := e.ssml("a < b & c")
	assert.Contains(t, ssml, "a &lt; b &amp; c")
	assert.Contains(t, ssml, "en-IN-PrabhatNeural")
}
