package audio

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Music plays background tracks in a loop: a pinned file repeats, otherwise
// all tracks in the folder rotate in shuffled order. Duck pauses playback
// while the assistant speaks; Restore resumes it.
type Music struct {
	player *Player
	volume float64
	tracks []string

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewMusic prepares the background music loop. A missing or empty folder
// yields a nil Music and no error: the service just runs without music.
func NewMusic(folder, pinnedFile string, volume float64) (*Music, error) {
	tracks := pickTracks(folder, pinnedFile)
	if len(tracks) == 0 {
		return nil, nil
	}
	player, err := NewPlayer()
	if err != nil {
		return nil, err
	}
	return &Music{player: player, volume: volume, tracks: tracks}, nil
}

// pickTracks resolves the playlist. A pinned file that exists in the folder
// wins; otherwise every mp3/wav in the folder is shuffled.
func pickTracks(folder, pinnedFile string) []string {
	if folder == "" {
		return nil
	}
	if pinnedFile != "" {
		pinned := filepath.Join(folder, pinnedFile)
		if _, err := os.Stat(pinned); err == nil {
			return []string{pinned}
		}
	}
	mp3s, _ := filepath.Glob(filepath.Join(folder, "*.mp3"))
	wavs, _ := filepath.Glob(filepath.Join(folder, "*.wav"))
	tracks := append(mp3s, wavs...)
	rand.Shuffle(len(tracks), func(i, j int) {
		tracks[i], tracks[j] = tracks[j], tracks[i]
	})
	return tracks
}

// Start begins the playback loop in the background.
func (m *Music) Start() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.running = true
	m.cancel = cancel
	m.mu.Unlock()

	go m.loop(ctx)
}

func (m *Music) loop(ctx context.Context) {
	idx := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		// Playback errors skip to the next track rather than kill the loop.
		if err := m.player.Play(ctx, m.tracks[idx], m.volume); err != nil && ctx.Err() == nil {
			time.Sleep(time.Second)
		}
		idx = (idx + 1) % len(m.tracks)
	}
}

// Duck pauses the music so speech is heard clearly.
func (m *Music) Duck() {
	if m == nil {
		return
	}
	m.player.Pause()
}

// Restore resumes the music after speech finishes.
func (m *Music) Restore() {
	if m == nil {
		return
	}
	m.player.Resume()
}

// Stop ends the playback loop and kills the active track.
func (m *Music) Stop() {
	if m == nil {
		return
	}
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.player.Stop()
}
