package config

// MainConfig is the top-level config file. It names the other config files
// so individual pieces can be swapped without touching the rest.
type MainConfig struct {
	LLMConfig   string `json:"llm_config"`
	VoiceConfig string `json:"voice_config"`
	CacheConfig string `json:"cache_config"`
}

// LLMConfig holds settings for the hosted chat model.
type LLMConfig struct {
	APIKey      string  `json:"api_key"`
	BaseURL     string  `json:"base_url"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Language    string  `json:"language"`
}

// VoiceConfig holds speech input/output settings.
type VoiceConfig struct {
	TTSProvider      string  `json:"tts_provider"`
	Voice            string  `json:"voice"`
	STTProvider      string  `json:"stt_provider"`
	WhisperModel     string  `json:"whisper_model"`
	ElevenLabsAPIKey string  `json:"elevenlabs_api_key"`
	OpenAIAPIKey     string  `json:"openai_api_key"`
	RecordSeconds    int     `json:"record_seconds"`
	MusicFolder      string  `json:"music_folder"`
	MusicEnabled     bool    `json:"music_enabled"`
	MusicVolume      float64 `json:"music_volume"`
	MusicFile        string  `json:"music_file"`
	AudioTTLMinutes  int     `json:"audio_ttl_minutes"`
}

// ConnectionConfig holds the details for a single redis connection.
type ConnectionConfig struct {
	Addr     string `json:"addr"`
	Username string `json:"username"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// CacheConfig holds the local and cloud cache connections. The cloud cache
// is only health-checked; core logic uses the local one.
type CacheConfig struct {
	Local *ConnectionConfig `json:"local"`
	Cloud *ConnectionConfig `json:"cloud"`
}

// AllConfig aggregates every loaded config file.
type AllConfig struct {
	LLM   *LLMConfig
	Voice *VoiceConfig
	Cache *CacheConfig
}
