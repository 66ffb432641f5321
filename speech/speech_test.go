package speech

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desi-ai/desi-voice-interface/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSynth returns the input text as audio bytes, with a per-sentence delay
// so later sentences can finish synthesis before earlier ones.
type fakeSynth struct {
	delays map[string]time.Duration
}

func (f *fakeSynth) Name() string { return "fake" }

func (f *fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	if d, ok := f.delays[text]; ok {
		time.Sleep(d)
	}
	return []byte(text), nil
}

// fakePlayer records the contents of played files.
type fakePlayer struct {
	mu     sync.Mutex
	played []string
}

func (f *fakePlayer) Play(_ context.Context, path string, _ float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.played = append(f.played, string(data))
	f.mu.Unlock()
	return nil
}

func (f *fakePlayer) Stop() {}

func setupTestHome(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
}

func chunksFrom(parts ...string) chan llm.StreamChunk {
	ch := make(chan llm.StreamChunk, len(parts)+1)
	for _, p := range parts {
		ch <- llm.StreamChunk{Content: p}
	}
	ch <- llm.StreamChunk{Done: true}
	close(ch)
	return ch
}

func TestSpeakStream_PlaysSentencesInOrder(t *testing.T) {
	setupTestHome(t)

	// The first sentence synthesizes slowest; order must still hold.
	synth := &fakeSynth{delays: map[string]time.Duration{
		"One.": 60 * time.Millisecond,
		"Two!": 30 * time.Millisecond,
	}}
	player := &fakePlayer{}
	speaker := NewSpeaker(synth, player, nil, nil, time.Minute)
	defer speaker.Close()

	full, err := speaker.SpeakStream(context.Background(), chunksFrom("One. Tw", "o! Three"), false)
	require.NoError(t, err)
	assert.Equal(t, "One. Two! Three", full)
	assert.Equal(t, []string{"One.", "Two!", "Three"}, player.played)
}

func TestSpeakStream_SkipsUnspeakableFragments(t *testing.T) {
	setupTestHome(t)

	speaker := NewSpeaker(&fakeSynth{}, &fakePlayer{}, nil, nil, time.Minute)
	defer speaker.Close()

	player := speaker.player.(*fakePlayer)
	full, err := speaker.SpeakStream(context.Background(), chunksFrom("*. ", "Real sentence."), false)
	require.NoError(t, err)
	assert.Equal(t, "*. Real sentence.", full)
	assert.Equal(t, []string{"Real sentence."}, player.played)
}

func TestSpeak_WholeText(t *testing.T) {
	setupTestHome(t)

	player := &fakePlayer{}
	speaker := NewSpeaker(&fakeSynth{}, player, nil, nil, time.Minute)
	defer speaker.Close()

	require.NoError(t, speaker.Speak(context.Background(), "Arre Haadi... suno."))
	assert.Equal(t, []string{"Arre Haadi... suno."}, player.played)

	// Unspeakable text is a no-op, not an error.
	require.NoError(t, speaker.Speak(context.Background(), "*"))
	assert.Len(t, player.played, 1)
}

func TestSpeakStream_CancelMidStream(t *testing.T) {
	setupTestHome(t)

	player := &fakePlayer{}
	speaker := NewSpeaker(&fakeSynth{}, player, nil, nil, time.Minute)

	// The feeder paces the stream so cancellation lands mid-reply.
	chunks := make(chan llm.StreamChunk)
	go func() {
		defer close(chunks)
		for i := 0; i < 50; i++ {
			chunks <- llm.StreamChunk{Content: "Ek aur baat suno. "}
			time.Sleep(time.Millisecond)
		}
		chunks <- llm.StreamChunk{Done: true}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := speaker.SpeakStream(ctx, chunks, false)
	assert.ErrorIs(t, err, context.Canceled)

	// Shutdown while the producer is still draining the stream must not
	// panic: late submissions land on the closed-pool error path.
	speaker.Close()
	time.Sleep(50 * time.Millisecond)
}

func TestSpeakStream_StreamErrorDropsQueuedSentences(t *testing.T) {
	setupTestHome(t)

	// The first sentence synthesizes slowly, so the failure arrives before
	// anything has played.
	synth := &fakeSynth{delays: map[string]time.Duration{
		"One.": 50 * time.Millisecond,
	}}
	player := &fakePlayer{}
	speaker := NewSpeaker(synth, player, nil, nil, time.Minute)
	defer speaker.Close()

	ch := make(chan llm.StreamChunk, 4)
	ch <- llm.StreamChunk{Content: "One. Two. "}
	ch <- llm.StreamChunk{Err: errors.New("stream interrupted"), Done: true}
	close(ch)

	full, err := speaker.SpeakStream(context.Background(), ch, false)
	require.Error(t, err)
	assert.Equal(t, "One. Two. ", full)
	assert.Empty(t, player.played)
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := NewPool(&fakeSynth{}, 1, 2)
	pool.Start()
	pool.Close()

	result := <-pool.Submit(context.Background(), "too late")
	assert.ErrorIs(t, result.Err, ErrClosed)

	// Closing again must be a no-op.
	pool.Close()
}

func TestPool_ConcurrentSubmissions(t *testing.T) {
	pool := NewPool(&fakeSynth{}, 2, 8)
	pool.Start()
	defer pool.Close()

	first := pool.Submit(context.Background(), "a")
	second := pool.Submit(context.Background(), "b")

	assert.Equal(t, "b", string((<-second).Audio))
	assert.Equal(t, "a", string((<-first).Audio))
}
