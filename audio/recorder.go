package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"time"
)

const (
	recordSampleRate  = 16000
	maxRecordSeconds  = 60
	defaultRecSeconds = 5
)

// Recorder captures microphone input to mono 16kHz WAV files via ffmpeg.
type Recorder struct{}

// NewRecorder verifies ffmpeg is available and the data dir exists.
func NewRecorder() (*Recorder, error) {
	if _, err := lookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg is required for recording: %w", err)
	}
	if err := EnsureDataDir(); err != nil {
		return nil, err
	}
	return &Recorder{}, nil
}

// ffmpegArgs builds the capture argument list for the current platform.
func ffmpegArgs(goos string, seconds int, outPath string) []string {
	var input []string
	switch goos {
	case "darwin":
		input = []string{"-f", "avfoundation", "-i", ":0"}
	case "windows":
		input = []string{"-f", "dshow", "-i", "audio=default"}
	default:
		input = []string{"-f", "pulse", "-i", "default"}
	}
	return append(input,
		"-ac", "1",
		"-ar", strconv.Itoa(recordSampleRate),
		"-t", strconv.Itoa(seconds),
		"-y",
		"-loglevel", "error",
		outPath,
	)
}

// Record captures up to the given number of seconds from the default input
// device and returns the path of the written WAV file. Cancel the context
// to stop early; whatever was captured so far remains on disk.
func (r *Recorder) Record(ctx context.Context, seconds int) (string, error) {
	if seconds <= 0 {
		seconds = defaultRecSeconds
	}
	if seconds > maxRecordSeconds {
		seconds = maxRecordSeconds
	}

	outPath, err := GetRecordingPath(time.Now())
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs(runtime.GOOS, seconds, outPath)...)
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.Canceled {
			// Early stop is a user action; keep the partial recording.
			return outPath, nil
		}
		return "", fmt.Errorf("recording failed: %w", err)
	}
	return outPath, nil
}
