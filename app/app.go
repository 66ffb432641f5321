package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/desi-ai/desi-voice-interface/audio"
	"github.com/desi-ai/desi-voice-interface/cache"
	"github.com/desi-ai/desi-voice-interface/cleanup"
	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/desi-ai/desi-voice-interface/health"
	"github.com/desi-ai/desi-voice-interface/llm"
	logger "github.com/desi-ai/desi-voice-interface/log"
	"github.com/desi-ai/desi-voice-interface/session"
	"github.com/desi-ai/desi-voice-interface/speech"
	"github.com/desi-ai/desi-voice-interface/stt"
	"github.com/desi-ai/desi-voice-interface/system"
	"github.com/desi-ai/desi-voice-interface/tts"
)

// stateID is the fixed key REPL state persists under, so language and speak
// mode survive restarts.
const stateID = "repl"

// App aggregates every subsystem behind the interactive loop.
type App struct {
	Config     *config.AllConfig
	LocalCache cache.Cache
	CloudCache cache.Cache
	LLMClient  *llm.Client
	Session    *session.ChatSession

	// Voice subsystems come up lazily on the first voice interaction.
	transcriber stt.Transcriber
	synth       tts.Synthesizer
	speaker     *speech.Speaker
	recorder    *audio.Recorder
	music       *audio.Music

	state *cache.SessionState
}

// NewApp loads configuration and wires the always-on subsystems.
func NewApp() (*App, error) {
	cfg, err := config.LoadAllConfigs()
	if err != nil {
		return nil, fmt.Errorf("fatal error loading config: %w", err)
	}

	localDB, err := cache.New(cfg.Cache.Local)
	if err != nil {
		logger.Error("Failed to initialize local cache", err)
	}
	var localCache cache.Cache
	if localDB != nil {
		localCache = localDB
	}
	cloudDB, _ := cache.New(cfg.Cache.Cloud)
	var cloudCache cache.Cache
	if cloudDB != nil {
		cloudCache = cloudDB
	}

	logger.Init(cache.NewLogWriter(localDB))

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}

	state := cache.NewSessionState()
	if localCache != nil {
		if saved, err := localCache.LoadSessionState(stateID); err != nil {
			logger.Error("Could not load saved session state", err)
		} else {
			state = saved
		}
	}
	if state.Language == "" || !slices.Contains(config.SupportedLanguages, state.Language) {
		state.Language = cfg.LLM.Language
	}
	if state.Voice != "" {
		cfg.Voice.Voice = state.Voice
	}

	chatSession, err := session.New(llmClient, localCache, state.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to start chat session: %w", err)
	}

	var music *audio.Music
	if cfg.Voice.MusicEnabled {
		music, err = audio.NewMusic(cfg.Voice.MusicFolder, cfg.Voice.MusicFile, cfg.Voice.MusicVolume)
		if err != nil {
			logger.Error("Could not prepare background music", err)
		}
	}

	return &App{
		Config:     cfg,
		LocalCache: localCache,
		CloudCache: cloudCache,
		LLMClient:  llmClient,
		Session:    chatSession,
		music:      music,
		state:      state,
	}, nil
}

// ensureVoice brings the recorder, transcriber, and speaker up on demand.
func (a *App) ensureVoice() error {
	if a.transcriber == nil {
		transcriber, err := stt.New(a.Config.Voice, a.Config.LLM)
		if err != nil {
			return fmt.Errorf("speech-to-text unavailable: %w", err)
		}
		a.transcriber = transcriber
	}
	if a.speaker == nil {
		synth, err := tts.New(a.Config.Voice)
		if err != nil {
			return fmt.Errorf("text-to-speech unavailable: %w", err)
		}
		player, err := audio.NewPlayer()
		if err != nil {
			return fmt.Errorf("audio playback unavailable: %w", err)
		}
		ttl := time.Duration(a.Config.Voice.AudioTTLMinutes) * time.Minute
		a.synth = synth
		a.speaker = speech.NewSpeaker(synth, player, a.music, a.LocalCache, ttl)
	}
	if a.recorder == nil {
		recorder, err := audio.NewRecorder()
		if err != nil {
			return fmt.Errorf("audio recording unavailable: %w", err)
		}
		a.recorder = recorder
	}
	return nil
}

// Run executes the boot sequence and then the interactive loop until the
// user exits or the process receives a termination signal.
func (a *App) Run() error {
	// 1. Boot report
	logger.Info("`Desi` is starting up...")
	logger.Info("✅ Configuration loaded")
	if a.LocalCache != nil {
		logger.Info("✅ Cache connected")
	} else {
		logger.Warn("Cache not configured: transcripts and state will not persist")
	}

	// 2. Boot-time cleanup
	cleanup.RunBootCleanup(a.LocalCache)
	logger.Info("✅ Cleanup complete")

	// 3. Health summary
	logger.Info(fmt.Sprintf("LLM: %s", health.GetLLMStatus(a.LLMClient)))
	logger.Info(fmt.Sprintf("Local Cache: %s", health.GetCacheStatus(a.LocalCache, a.Config.Cache.Local)))
	logger.Info(fmt.Sprintf("Cloud Cache: %s", health.GetCacheStatus(a.CloudCache, a.Config.Cache.Cloud)))
	if stats, err := system.Snapshot(); err == nil {
		logger.Info(stats.String())
	}

	// 4. Background music
	a.music.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	fmt.Printf("Namaste! Desi here. Speaking %s. Type 'voice' to talk, 'exit' to leave.\n", a.Session.Language())

	for {
		fmt.Print("You: ")
		select {
		case <-ctx.Done():
			fmt.Println()
			a.Shutdown()
			return nil
		case line, ok := <-lines:
			if !ok {
				a.Shutdown()
				return nil
			}
			input := strings.TrimSpace(line)
			if input == "" {
				continue
			}
			if done := a.handle(ctx, input); done {
				a.Shutdown()
				return nil
			}
		}
	}
}

// handle dispatches one REPL line. It returns true when the user asked to
// exit.
func (a *App) handle(ctx context.Context, input string) bool {
	cmd := strings.ToLower(input)
	switch {
	case cmd == "exit" || cmd == "quit":
		fmt.Println("Desi: Take care!")
		return true
	case strings.HasPrefix(cmd, "lang "):
		a.switchLanguage(strings.TrimSpace(strings.TrimPrefix(cmd, "lang ")))
	case cmd == "speak on":
		if err := a.ensureVoice(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return false
		}
		a.state.SpeakMode = true
		a.saveState()
		fmt.Println("Speak mode is on.")
	case cmd == "speak off":
		a.state.SpeakMode = false
		a.saveState()
		if a.speaker != nil {
			a.speaker.Stop()
		}
		fmt.Println("Speak mode is off.")
	case cmd == "voice":
		a.voiceTurn(ctx)
	case cmd == "status":
		a.printStatus()
	case cmd == "clear":
		a.Session.Reset()
		fmt.Println("Conversation cleared.")
	default:
		a.chatTurn(ctx, input)
	}
	return false
}

func (a *App) switchLanguage(language string) {
	if !slices.Contains(config.SupportedLanguages, language) {
		fmt.Printf("Unsupported language %q. Available: %s\n", language, strings.Join(config.SupportedLanguages, ", "))
		return
	}
	if err := a.Session.SetLanguage(language); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	a.state.Language = language
	a.saveState()
	fmt.Printf("Language switched to %s.\n", language)
}

// chatTurn sends typed input to the model, printing the reply as it streams
// and speaking it when speak mode is on.
func (a *App) chatTurn(ctx context.Context, input string) {
	chunks, err := a.Session.SendStream(ctx, input)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Print("Desi: ")
	if a.state.SpeakMode && a.speaker != nil {
		if _, err := a.speaker.SpeakStream(ctx, chunks, true); err != nil {
			fmt.Printf("\nError: %v", err)
		}
		fmt.Println()
		return
	}

	for chunk := range chunks {
		if chunk.Err != nil {
			fmt.Printf("\nError: %v", chunk.Err)
			break
		}
		fmt.Print(chunk.Content)
	}
	fmt.Println()
}

// voiceTurn records the microphone, transcribes it, and speaks the reply.
func (a *App) voiceTurn(ctx context.Context) {
	if err := a.ensureVoice(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	a.music.Duck()
	fmt.Printf("Listening for %d seconds...\n", a.Config.Voice.RecordSeconds)
	recordingPath, err := a.recorder.Record(ctx, a.Config.Voice.RecordSeconds)
	a.music.Restore()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer func() { _ = os.Remove(recordingPath) }()
	a.cacheRecording(recordingPath)

	transcript, err := a.transcriber.Transcribe(ctx, recordingPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		fmt.Println("No speech detected.")
		return
	}
	fmt.Printf("You said: %s\n", transcript)

	chunks, err := a.Session.SendStream(ctx, transcript)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Print("Desi: ")
	if _, err := a.speaker.SpeakStream(ctx, chunks, true); err != nil {
		fmt.Printf("\nError: %v", err)
	}
	fmt.Println()
}

// cacheRecording mirrors the raw recording into the cache with a TTL, so
// debug tooling can fetch what the transcriber heard.
func (a *App) cacheRecording(path string) {
	if a.LocalCache == nil {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	ttl := time.Duration(a.Config.Voice.AudioTTLMinutes) * time.Minute
	key := fmt.Sprintf("audio:recording:%d", time.Now().Unix())
	if err := a.LocalCache.SaveAudio(key, data, ttl); err != nil {
		logger.Error("Could not cache recording", err)
	}
}

func (a *App) printStatus() {
	fmt.Println("--- Desi Status ---")
	if stats, err := system.Snapshot(); err == nil {
		fmt.Printf("System:      %s\n", stats)
	} else {
		fmt.Printf("System:      ERROR: %v\n", err)
	}
	fmt.Printf("LLM:         %s (%s)\n", health.GetLLMStatus(a.LLMClient), a.Config.LLM.Model)
	fmt.Printf("Local Cache: %s\n", health.GetCacheStatus(a.LocalCache, a.Config.Cache.Local))
	fmt.Printf("Cloud Cache: %s\n", health.GetCacheStatus(a.CloudCache, a.Config.Cache.Cloud))
	fmt.Printf("STT:         %s\n", health.GetSTTStatus(a.transcriber, a.Config.Voice))
	fmt.Printf("TTS:         %s\n", health.GetTTSStatus(a.synth, a.Config.Voice))
	fmt.Printf("Language:    %s\n", a.Session.Language())
	fmt.Printf("Speak Mode:  %t\n", a.state.SpeakMode)
	fmt.Printf("Turns:       %d\n", a.Session.Len())
	fmt.Printf("Session:     %s\n", a.Session.ID())
}

func (a *App) saveState() {
	if a.LocalCache == nil {
		return
	}
	a.state.Voice = a.Config.Voice.Voice
	if err := a.LocalCache.SaveSessionState(stateID, a.state); err != nil {
		logger.Error("Could not save session state", err)
	}
}

// Shutdown stops playback and releases connections.
func (a *App) Shutdown() {
	a.saveState()
	a.music.Stop()
	if a.speaker != nil {
		a.speaker.Stop()
		a.speaker.Close()
	}
	if a.transcriber != nil {
		_ = a.transcriber.Close()
	}
	if a.LocalCache != nil {
		_ = a.LocalCache.Close()
	}
	if a.CloudCache != nil {
		_ = a.CloudCache.Close()
	}
	logger.Info("Desi shut down cleanly")
}
