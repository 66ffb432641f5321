package speech

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/desi-ai/desi-voice-interface/audio"
	"github.com/desi-ai/desi-voice-interface/cache"
	"github.com/desi-ai/desi-voice-interface/llm"
	logger "github.com/desi-ai/desi-voice-interface/log"
	"github.com/desi-ai/desi-voice-interface/tts"
	"github.com/google/uuid"
)

const (
	defaultWorkers   = 3
	defaultQueueSize = 16
)

// Player is the part of the audio player the speaker needs.
type Player interface {
	Play(ctx context.Context, path string, volume float64) error
	Stop()
}

// Speaker turns assistant text into audible speech. Background music is
// ducked for the duration of playback.
type Speaker struct {
	pool   *Pool
	player Player
	music  *audio.Music
	cache  cache.Cache
	ttl    time.Duration
}

// NewSpeaker wires a synthesizer, player, and optional music/cache together
// and starts the synthesis workers.
func NewSpeaker(synth tts.Synthesizer, player Player, music *audio.Music, c cache.Cache, audioTTL time.Duration) *Speaker {
	if err := audio.EnsureDataDir(); err != nil {
		logger.Warn(fmt.Sprintf("could not create audio data dir: %v", err))
	}
	pool := NewPool(synth, defaultWorkers, defaultQueueSize)
	pool.Start()
	return &Speaker{
		pool:   pool,
		player: player,
		music:  music,
		cache:  c,
		ttl:    audioTTL,
	}
}

// Speak synthesizes the whole text and plays it, blocking until done.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if !tts.Speakable(text) {
		return nil
	}

	s.music.Duck()
	defer s.music.Restore()

	result := <-s.pool.Submit(ctx, text)
	if result.Err != nil {
		return fmt.Errorf("speech synthesis failed: %w", result.Err)
	}
	return s.playClip(ctx, result.Audio)
}

// SpeakStream consumes LLM stream chunks, speaking each completed sentence
// while later ones are still generating. Sentences synthesize concurrently
// but play strictly in order. Returns the full streamed text.
func (s *Speaker) SpeakStream(ctx context.Context, chunks <-chan llm.StreamChunk, printLive bool) (string, error) {
	s.music.Duck()
	defer s.music.Restore()

	// Accumulated text and the stream failure are shared between the
	// producer goroutine and this consumer; snapshot reads them safely.
	var (
		mu        sync.Mutex
		full      strings.Builder
		streamErr error
	)
	snapshot := func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		return full.String(), streamErr
	}

	results := make(chan (<-chan SynthesisResult), defaultQueueSize)

	go func() {
		defer close(results)
		buffer := ""
		for chunk := range chunks {
			if chunk.Err != nil {
				mu.Lock()
				streamErr = chunk.Err
				mu.Unlock()
				return
			}
			mu.Lock()
			full.WriteString(chunk.Content)
			mu.Unlock()
			buffer += chunk.Content
			if printLive && chunk.Content != "" {
				fmt.Print(chunk.Content)
			}

			// Once cancelled, keep draining the stream but submit nothing:
			// the pool may be shutting down and nobody is listening.
			if ctx.Err() != nil {
				continue
			}
			for {
				sentence, rest := tts.ExtractSentence(buffer)
				if sentence == "" {
					break
				}
				buffer = rest
				if !tts.Speakable(sentence) {
					continue
				}
				select {
				case results <- s.pool.Submit(ctx, sentence):
				case <-ctx.Done():
				}
			}
		}
		if ctx.Err() != nil {
			return
		}
		// Speak whatever trails the last sentence boundary.
		if tail := strings.TrimSpace(buffer); tts.Speakable(tail) {
			select {
			case results <- s.pool.Submit(ctx, tail):
			case <-ctx.Done():
			}
		}
	}()

	for {
		var resultChan <-chan SynthesisResult
		var ok bool
		select {
		case resultChan, ok = <-results:
			if !ok {
				return snapshot()
			}
		case <-ctx.Done():
			text, _ := snapshot()
			return text, ctx.Err()
		}

		select {
		case result := <-resultChan:
			if _, err := snapshot(); err != nil {
				// The stream failed; do not speak the rest of a broken reply.
				continue
			}
			if result.Err != nil {
				logger.Error("synthesizing sentence", result.Err)
				continue
			}
			if err := s.playClip(ctx, result.Audio); err != nil && ctx.Err() == nil {
				logger.Error("playing sentence", err)
			}
		case <-ctx.Done():
			text, _ := snapshot()
			return text, ctx.Err()
		}
	}
}

// playClip writes the audio to the data dir, mirrors it into the cache, and
// plays it. The temp file is removed after playback.
func (s *Speaker) playClip(ctx context.Context, clip []byte) error {
	if len(clip) == 0 {
		return nil
	}

	id := uuid.NewString()
	path, err := audio.GetSpeechPath(id)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, clip, 0644); err != nil {
		return fmt.Errorf("could not write speech clip: %w", err)
	}
	defer func() { _ = os.Remove(path) }()

	if s.cache != nil {
		_ = s.cache.SaveAudio("audio:speech:"+id, clip, s.ttl)
	}

	return s.player.Play(ctx, path, 1.0)
}

// Stop kills the active playback.
func (s *Speaker) Stop() {
	s.player.Stop()
}

// Close shuts the synthesis workers down.
func (s *Speaker) Close() {
	s.pool.Close()
}
