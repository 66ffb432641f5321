package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Re-assign os.UserHomeDir to a variable so we can mock it in tests.
var osUserHomeDir = os.UserHomeDir

// Supported values for the validated config fields.
var (
	SupportedLanguages    = []string{"english", "hindi", "urdu"}
	SupportedTTSProviders = []string{"edge", "elevenlabs", "openai"}
	SupportedSTTProviders = []string{"whisper", "google"}
)

// expandPath resolves paths like "~/" to the user's home directory.
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := osUserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not get user home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// getConfigPath constructs the full path to a config file in ~/Desi/config.
func getConfigPath(filename string) (string, error) {
	return expandPath(filepath.Join("~/Desi/config", filename))
}

// loadOrCreate reads a JSON config file, creating it with the provided
// defaults first if it does not exist yet.
func loadOrCreate(filename string, v interface{}) error {
	path, err := getConfigPath(filename)
	if err != nil {
		return fmt.Errorf("could not get config path for %s: %w", filename, err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("could not create config directory: %w", err)
		}
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("could not marshal default config for %s: %w", filename, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("could not write default config file %s: %w", filename, err)
		}
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("could not decode config file %s: %w", filename, err)
	}
	return nil
}

func defaultMainConfig() *MainConfig {
	return &MainConfig{
		LLMConfig:   "llm.json",
		VoiceConfig: "voice.json",
		CacheConfig: "cache.json",
	}
}

func defaultLLMConfig() *LLMConfig {
	return &LLMConfig{
		BaseURL:     "https://api.groq.com/openai/v1",
		Model:       "llama-3.3-70b-versatile",
		MaxTokens:   2048,
		Temperature: 0.7,
		Language:    "english",
	}
}

func defaultVoiceConfig() *VoiceConfig {
	return &VoiceConfig{
		TTSProvider:     "edge",
		Voice:           "en-IN-PrabhatNeural",
		STTProvider:     "whisper",
		WhisperModel:    "whisper-large-v3-turbo",
		RecordSeconds:   5,
		MusicFolder:     "~/Desi/music",
		MusicEnabled:    true,
		MusicVolume:     0.15,
		AudioTTLMinutes: 10,
	}
}

func defaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Local: &ConnectionConfig{Addr: "localhost:6379"},
		Cloud: &ConnectionConfig{},
	}
}

// LoadAllConfigs loads the full config tree from ~/Desi/config, creating
// default files for anything missing, then applies environment overrides
// and validates the result.
func LoadAllConfigs() (*AllConfig, error) {
	main := defaultMainConfig()
	if err := loadOrCreate("config.json", main); err != nil {
		return nil, err
	}

	llm := defaultLLMConfig()
	if err := loadOrCreate(main.LLMConfig, llm); err != nil {
		return nil, err
	}

	voice := defaultVoiceConfig()
	if err := loadOrCreate(main.VoiceConfig, voice); err != nil {
		return nil, err
	}

	cache := defaultCacheConfig()
	if err := loadOrCreate(main.CacheConfig, cache); err != nil {
		return nil, err
	}

	cfg := &AllConfig{LLM: llm, Voice: voice, Cache: cache}
	applyEnvOverrides(cfg)

	musicFolder, err := expandPath(voice.MusicFolder)
	if err != nil {
		return nil, err
	}
	voice.MusicFolder = musicFolder

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets environment variables win over file values. Secrets
// in particular are usually supplied this way rather than written to disk.
func applyEnvOverrides(cfg *AllConfig) {
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = n
		}
	}
	if v := os.Getenv("TEMPERATURE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.LLM.Temperature = f
		}
	}
	if v := os.Getenv("LANGUAGE"); v != "" {
		cfg.LLM.Language = strings.ToLower(v)
	}
	if v := os.Getenv("TTS_PROVIDER"); v != "" {
		cfg.Voice.TTSProvider = strings.ToLower(v)
	}
	if v := os.Getenv("VOICE"); v != "" {
		cfg.Voice.Voice = v
	}
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Voice.ElevenLabsAPIKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Voice.OpenAIAPIKey = v
	}
	if v := os.Getenv("MUSIC_VOLUME"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Voice.MusicVolume = f
		}
	}
	if v := os.Getenv("MUSIC_FILE"); v != "" {
		cfg.Voice.MusicFile = v
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Validate checks the loaded config for values the rest of the service
// cannot work with.
func (c *AllConfig) Validate() error {
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("invalid temperature %.2f: must be between 0 and 2", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("invalid max_tokens %d: must be positive", c.LLM.MaxTokens)
	}
	if !contains(SupportedLanguages, c.LLM.Language) {
		return fmt.Errorf("unsupported language %q: available: %s", c.LLM.Language, strings.Join(SupportedLanguages, ", "))
	}
	if !contains(SupportedTTSProviders, c.Voice.TTSProvider) {
		return fmt.Errorf("unsupported tts_provider %q: available: %s", c.Voice.TTSProvider, strings.Join(SupportedTTSProviders, ", "))
	}
	if !contains(SupportedSTTProviders, c.Voice.STTProvider) {
		return fmt.Errorf("unsupported stt_provider %q: available: %s", c.Voice.STTProvider, strings.Join(SupportedSTTProviders, ", "))
	}
	if c.Voice.RecordSeconds <= 0 || c.Voice.RecordSeconds > 60 {
		return fmt.Errorf("invalid record_seconds %d: must be between 1 and 60", c.Voice.RecordSeconds)
	}
	return nil
}
