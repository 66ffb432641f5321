package main

import (
	"log"

	"github.com/desi-ai/desi-voice-interface/app"
)

func main() {
	a, err := app.NewApp()
	if err != nil {
		log.Fatalf("Fatal error during startup: %v", err)
	}
	if err := a.Run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}
