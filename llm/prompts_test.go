package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemPrompt_English(t *testing.T) {
	prompt, err := SystemPrompt(nil, "english")
	require.NoError(t, err)

	assert.Contains(t, prompt, "You are Desi")
	assert.Contains(t, prompt, "Haadi")
	assert.NotContains(t, prompt, "IMPORTANT: Respond ENTIRELY")
}

func TestSystemPrompt_LanguageDirectives(t *testing.T) {
	hindi, err := SystemPrompt(nil, "hindi")
	require.NoError(t, err)
	assert.Contains(t, hindi, "Respond ENTIRELY in Hindi")
	assert.True(t, strings.HasPrefix(hindi, "You are Desi"))

	urdu, err := SystemPrompt(nil, "urdu")
	require.NoError(t, err)
	assert.Contains(t, urdu, "Respond ENTIRELY in Urdu")
}

func TestSystemPrompt_UnknownLanguageFallsBack(t *testing.T) {
	unknown, err := SystemPrompt(nil, "klingon")
	require.NoError(t, err)
	english, err := SystemPrompt(nil, "english")
	require.NoError(t, err)
	assert.Equal(t, english, unknown)
}

func TestSystemPrompt_CustomPersona(t *testing.T) {
	persona := &Persona{AssistantName: "Guru", StudentName: "Asha", Pronunciation: "Ah-sha"}
	prompt, err := SystemPrompt(persona, "english")
	require.NoError(t, err)
	assert.Contains(t, prompt, "You are Guru")
	assert.Contains(t, prompt, "Asha beta")
	assert.NotContains(t, prompt, "Haadi")
}
