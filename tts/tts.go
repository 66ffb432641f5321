package tts

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/desi-ai/desi-voice-interface/config"
)

// Synthesizer converts text to MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	Name() string
}

// New selects a synthesizer based on the configured provider.
func New(cfg *config.VoiceConfig) (Synthesizer, error) {
	switch cfg.TTSProvider {
	case "edge":
		return NewEdge(cfg.Voice), nil
	case "elevenlabs":
		if cfg.ElevenLabsAPIKey == "" {
			return nil, fmt.Errorf("elevenlabs provider requires ELEVENLABS_API_KEY")
		}
		return NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.Voice), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.Voice), nil
	default:
		return nil, fmt.Errorf("unknown tts provider %q", cfg.TTSProvider)
	}
}

// Pre-compiled patterns for sentence extraction.
var (
	ellipsisPattern    = regexp.MustCompile(`\.{2,}`)
	sentenceEndPattern = regexp.MustCompile(`[.!?]\s`)
)

// CleanText removes markdown and special characters that break synthesis.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "\n", " ")
	for _, char := range "<>=/#_`" {
		text = strings.ReplaceAll(text, string(char), "")
	}
	return strings.TrimSpace(text)
}

// Speakable reports whether cleaned text is worth synthesizing.
func Speakable(text string) bool {
	return len([]rune(CleanText(text))) >= 2
}

// ExtractSentence returns the first complete sentence of the buffer and the
// remainder. Ellipses are protected so dramatic pauses stay in one unit.
func ExtractSentence(buffer string) (sentence, rest string) {
	// The placeholder keeps byte offsets identical between the protected and
	// original strings so the match position can slice the original.
	protected := ellipsisPattern.ReplaceAllStringFunc(buffer, func(m string) string {
		return strings.Repeat("\x01", len(m))
	})
	match := sentenceEndPattern.FindStringIndex(protected)
	if match == nil {
		return "", buffer
	}
	pos := match[1]
	return strings.TrimSpace(buffer[:pos]), buffer[pos:]
}

// SplitSentences breaks text into speakable sentences, keeping any trailing
// fragment as the final element.
func SplitSentences(text string) []string {
	var sentences []string
	rest := text
	for {
		sentence, remainder := ExtractSentence(rest)
		if sentence == "" {
			break
		}
		sentences = append(sentences, sentence)
		rest = remainder
	}
	if tail := strings.TrimSpace(rest); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
