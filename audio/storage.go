package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Re-assign os.UserHomeDir to a variable so we can mock it in tests.
var osUserHomeDir = os.UserHomeDir

// GetDataDir returns the path to ~/Desi/data.
func GetDataDir() (string, error) {
	home, err := osUserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, "Desi", "data"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	dataDir, err := GetDataDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dataDir, 0755)
}

// GetRecordingPath generates the full path for a microphone recording.
// Format: ~/Desi/data/recording-{unix}.wav
func GetRecordingPath(ts time.Time) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, fmt.Sprintf("recording-%d.wav", ts.Unix())), nil
}

// GetSpeechPath generates the full path for a synthesized speech clip.
// Format: ~/Desi/data/speech-{id}.mp3
func GetSpeechPath(id string) (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, fmt.Sprintf("speech-%s.mp3", id)), nil
}

// SweepDataDir removes temp audio files older than maxAge. Returns how many
// files were removed.
func SweepDataDir(maxAge time.Duration) (int, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".wav" && ext != ".mp3" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dataDir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}
