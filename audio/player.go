package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
)

// Players are tried in order; the first one on PATH wins.
var playerBinaries = []string{"afplay", "ffplay", "mpv"}

// Re-assign exec.LookPath to a variable so we can mock it in tests.
var lookPath = exec.LookPath

// Player plays audio files through an external system player.
type Player struct {
	binary string

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewPlayer finds a usable system player.
func NewPlayer() (*Player, error) {
	binary, err := findPlayer()
	if err != nil {
		return nil, err
	}
	return &Player{binary: binary}, nil
}

func findPlayer() (string, error) {
	for _, binary := range playerBinaries {
		if _, err := lookPath(binary); err == nil {
			return binary, nil
		}
	}
	return "", fmt.Errorf("no audio player found: need one of %v on PATH", playerBinaries)
}

// playerArgs builds the argument list for the given player binary.
func playerArgs(binary, path string, volume float64) []string {
	if volume <= 0 || volume > 1 {
		volume = 1.0
	}
	switch binary {
	case "afplay":
		return []string{"-v", strconv.FormatFloat(volume, 'f', 2, 64), path}
	case "ffplay":
		return []string{"-nodisp", "-autoexit", "-loglevel", "quiet", "-volume", strconv.Itoa(int(volume * 100)), path}
	case "mpv":
		return []string{"--no-video", "--really-quiet", "--volume=" + strconv.Itoa(int(volume*100)), path}
	default:
		return []string{path}
	}
}

// Play plays the file and blocks until it finishes, the context is
// cancelled, or Stop is called.
func (p *Player) Play(ctx context.Context, path string, volume float64) error {
	cmd := exec.CommandContext(ctx, p.binary, playerArgs(p.binary, path, volume)...)

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	err := cmd.Run()

	p.mu.Lock()
	p.cmd = nil
	p.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		// Stop kills the process mid-playback; that is not a failure.
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ProcessState != nil && !exitErr.ProcessState.Exited() {
			return nil
		}
		return fmt.Errorf("playback of %s failed: %w", path, err)
	}
	return nil
}

// Stop kills the active playback, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// Pause suspends the active playback process.
func (p *Player) Pause() {
	p.signal(syscall.SIGSTOP)
}

// Resume continues a paused playback process.
func (p *Player) Resume() {
	p.signal(syscall.SIGCONT)
}

func (p *Player) signal(sig syscall.Signal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(sig)
	}
}
