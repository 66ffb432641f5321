package main

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/desi-ai/desi-voice-interface/cache"
	"github.com/desi-ai/desi-voice-interface/config"
)

func main() {
	cfg, err := config.LoadAllConfigs()
	if err != nil {
		log.Fatalf("Fatal error loading config: %v", err)
	}

	debugCache, err := cache.NewDebug(cfg.Cache.Local)
	if err != nil {
		log.Fatalf("Failed to initialize local cache: %v", err)
	}

	keys, err := debugCache.GetAllKeys()
	if err != nil {
		log.Fatalf("Failed to get keys: %v", err)
	}
	if len(keys) == 0 {
		fmt.Println("Cache is empty.")
		return
	}

	for _, key := range keys {
		fmt.Printf("\n--- Key: %s ---\n", key)
		keyType, err := debugCache.Type(key)
		if err != nil {
			log.Printf("Failed to get type for key %s: %v", key, err)
			continue
		}
		fmt.Printf("Type: %s\n", keyType)

		switch keyType {
		case "string":
			// Audio clips are binary; report their size instead of dumping them.
			if strings.Contains(key, ":audio:") {
				size, err := debugCache.StrLen(key)
				if err != nil {
					log.Printf("Failed to get size for key %s: %v", key, err)
					continue
				}
				fmt.Printf("Value: (%d bytes of audio)\n", size)
				continue
			}
			val, err := debugCache.GetValue(key)
			if err != nil {
				log.Printf("Failed to get string value for key %s: %v", key, err)
				continue
			}
			if strings.HasSuffix(key, ":state") {
				var state cache.SessionState
				if err := json.Unmarshal([]byte(val), &state); err == nil {
					fmt.Printf("Value: language=%s speak_mode=%t voice=%s\n", state.Language, state.SpeakMode, state.Voice)
					continue
				}
			}
			fmt.Printf("Value: %s\n", val)
		case "list":
			vals, err := debugCache.GetList(key)
			if err != nil {
				log.Printf("Failed to get list value for key %s: %v", key, err)
				continue
			}
			fmt.Printf("Values:\n")
			for _, val := range vals {
				// Pretty print transcript entries
				if strings.Contains(key, ":transcript:") {
					var entry cache.TranscriptEntry
					if err := json.Unmarshal([]byte(val), &entry); err == nil {
						fmt.Printf("  - [%s] %s: %s\n", entry.Timestamp.Format("15:04:05"), entry.Role, entry.Content)
						continue
					}
				}
				fmt.Printf("  - %s\n", val)
			}
		default:
			fmt.Println("Value: (unsupported type for printing)")
		}
	}
}
