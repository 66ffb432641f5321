package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/desi-ai/desi-voice-interface/audio"
	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/desi-ai/desi-voice-interface/tts"
)

// speak synthesizes its arguments with the configured provider and plays the
// result. Useful for testing voices without the full interactive loop.
func main() {
	text := strings.TrimSpace(strings.Join(os.Args[1:], " "))
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: speak <text to synthesize>")
		os.Exit(2)
	}

	cfg, err := config.LoadAllConfigs()
	if err != nil {
		log.Fatalf("Fatal error loading config: %v", err)
	}

	synth, err := tts.New(cfg.Voice)
	if err != nil {
		log.Fatalf("Failed to initialize TTS provider: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Synthesizing with %s (%s)...\n", synth.Name(), cfg.Voice.Voice)
	clip, err := synth.Synthesize(ctx, text)
	if err != nil {
		log.Fatalf("Synthesis failed: %v", err)
	}

	path := filepath.Join(os.TempDir(), "desi-speak.mp3")
	if err := os.WriteFile(path, clip, 0644); err != nil {
		log.Fatalf("Could not write audio file: %v", err)
	}
	defer func() { _ = os.Remove(path) }()

	player, err := audio.NewPlayer()
	if err != nil {
		log.Fatalf("No audio player found: %v", err)
	}
	if err := player.Play(ctx, path, 1.0); err != nil {
		log.Fatalf("Playback failed: %v", err)
	}
}
