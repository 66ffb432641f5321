package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickTracks_PinnedFile(t *testing.T) {
	dir := t.TempDir()
	pinned := filepath.Join(dir, "lofi.mp3")
	require.NoError(t, os.WriteFile(pinned, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.mp3"), []byte("x"), 0644))

	tracks := pickTracks(dir, "lofi.mp3")
	require.Len(t, tracks, 1)
	assert.Equal(t, pinned, tracks[0])
}

func TestPickTracks_MissingPinFallsBackToShuffle(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mp3"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.wav"), []byte("x"), 0644))

	tracks := pickTracks(dir, "gone.mp3")
	assert.Len(t, tracks, 2)
}

func TestPickTracks_EmptyOrMissingFolder(t *testing.T) {
	assert.Empty(t, pickTracks(t.TempDir(), ""))
	assert.Empty(t, pickTracks("", ""))
	assert.Empty(t, pickTracks("/does/not/exist", ""))
}

func TestNewMusic_NoTracksIsDisabled(t *testing.T) {
	m, err := NewMusic(t.TempDir(), "", 0.2)
	assert.NoError(t, err)
	assert.Nil(t, m)

	// nil Music must be safe to drive.
	m.Start()
	m.Duck()
	m.Restore()
	m.Stop()
}

func TestFindPlayer_Ordering(t *testing.T) {
	original := lookPath
	defer func() { lookPath = original }()

	lookPath = func(file string) (string, error) {
		if file == "ffplay" || file == "mpv" {
			return "/usr/bin/" + file, nil
		}
		return "", fmt.Errorf("not found")
	}

	binary, err := findPlayer()
	require.NoError(t, err)
	assert.Equal(t, "ffplay", binary)

	lookPath = func(file string) (string, error) {
		return "", fmt.Errorf("not found")
	}
	_, err = findPlayer()
	assert.Error(t, err)
}

func TestPlayerArgs(t *testing.T) {
	assert.Equal(t, []string{"-v", "0.15", "song.mp3"}, playerArgs("afplay", "song.mp3", 0.15))

	ffplay := playerArgs("ffplay", "song.mp3", 0.5)
	assert.Contains(t, ffplay, "-autoexit")
	assert.Contains(t, ffplay, "50")

	mpv := playerArgs("mpv", "song.mp3", 0)
	assert.Contains(t, mpv, "--volume=100")
}

func TestFfmpegArgs(t *testing.T) {
	darwin := ffmpegArgs("darwin", 5, "out.wav")
	assert.Contains(t, darwin, "avfoundation")

	linux := ffmpegArgs("linux", 5, "out.wav")
	assert.Contains(t, linux, "pulse")

	for _, args := range [][]string{darwin, linux} {
		assert.Contains(t, args, "16000")
		assert.Contains(t, args, "-t")
		assert.Equal(t, "out.wav", args[len(args)-1])
	}
}

func TestSweepDataDir(t *testing.T) {
	tempHome := t.TempDir()
	original := osUserHomeDir
	osUserHomeDir = func() (string, error) { return tempHome, nil }
	defer func() { osUserHomeDir = original }()

	require.NoError(t, EnsureDataDir())
	dataDir, err := GetDataDir()
	require.NoError(t, err)

	stale := filepath.Join(dataDir, "recording-1.wav")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(stale, time.Now().Add(-2*time.Hour), time.Now().Add(-2*time.Hour)))

	fresh := filepath.Join(dataDir, "speech-now.mp3")
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0644))

	kept := filepath.Join(dataDir, "notes.txt")
	require.NoError(t, os.WriteFile(kept, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(kept, time.Now().Add(-2*time.Hour), time.Now().Add(-2*time.Hour)))

	removed, err := SweepDataDir(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, kept)
}

func TestGetRecordingPath(t *testing.T) {
	tempHome := t.TempDir()
	original := osUserHomeDir
	osUserHomeDir = func() (string, error) { return tempHome, nil }
	defer func() { osUserHomeDir = original }()

	path, err := GetRecordingPath(time.Unix(1700000000, 0))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempHome, "Desi", "data", "recording-1700000000.wav"), path)
}
