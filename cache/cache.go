package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desi-ai/desi-voice-interface/config"
	"github.com/redis/go-redis/v9"
)

const (
	maxTranscripts = 50
	maxLogs        = 100
	keyPrefix      = "desi-voice-interface:"

	logsKey = "logs"
)

// TranscriptEntry is one committed conversation turn.
type TranscriptEntry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionState holds the user-tunable settings of a chat session so a
// restarted process can resume them. Conversation content is not restored.
type SessionState struct {
	Language  string `json:"language"`
	SpeakMode bool   `json:"speak_mode"`
	Voice     string `json:"voice"`
}

// NewSessionState returns the default session state.
func NewSessionState() *SessionState {
	return &SessionState{Language: "english"}
}

// Cache is the interface for the redis-backed data store.
type Cache interface {
	AddTranscript(sessionID string, e *TranscriptEntry) error
	GetTranscripts(sessionID string, limit int64) ([]*TranscriptEntry, error)
	SaveAudio(key string, data []byte, ttl time.Duration) error
	SaveSessionState(sessionID string, state *SessionState) error
	LoadSessionState(sessionID string) (*SessionState, error)
	CleanAllAudio() (int64, error)
	Ping() error
	Close() error
}

type DB struct {
	rdb *redis.Client
	ctx context.Context
}

// New connects to redis using the given connection config. An unconfigured
// connection (empty addr) yields a nil DB and no error; callers degrade to
// running without a cache.
func New(cfg *config.ConnectionConfig) (*DB, error) {
	if cfg == nil || cfg.Addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to cache at %s: %w", cfg.Addr, err)
	}
	return &DB{rdb: rdb, ctx: ctx}, nil
}

func (db *DB) Ping() error {
	return db.rdb.Ping(db.ctx).Err()
}

func (db *DB) Close() error {
	return db.rdb.Close()
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("%stranscript:%s", keyPrefix, sessionID)
}

func sessionStateKey(sessionID string) string {
	return fmt.Sprintf("%ssession:%s:state", keyPrefix, sessionID)
}

// AddTranscript pushes a conversation turn onto the bounded transcript list.
func (db *DB) AddTranscript(sessionID string, e *TranscriptEntry) error {
	jsonEntry, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("could not marshal transcript entry: %w", err)
	}
	pipe := db.rdb.Pipeline()
	pipe.LPush(db.ctx, transcriptKey(sessionID), jsonEntry)
	pipe.LTrim(db.ctx, transcriptKey(sessionID), 0, maxTranscripts-1)
	_, err = pipe.Exec(db.ctx)
	return err
}

// GetTranscripts returns up to limit of the most recent turns, newest first.
func (db *DB) GetTranscripts(sessionID string, limit int64) ([]*TranscriptEntry, error) {
	if limit <= 0 || limit > maxTranscripts {
		limit = maxTranscripts
	}
	raw, err := db.rdb.LRange(db.ctx, transcriptKey(sessionID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("could not load transcripts: %w", err)
	}
	entries := make([]*TranscriptEntry, 0, len(raw))
	for _, item := range raw {
		var e TranscriptEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			return nil, fmt.Errorf("could not unmarshal transcript entry: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, nil
}

// SaveAudio stores an audio clip with a TTL so recordings clean themselves up.
func (db *DB) SaveAudio(key string, data []byte, ttl time.Duration) error {
	return db.rdb.Set(db.ctx, keyPrefix+key, data, ttl).Err()
}

func (db *DB) SaveSessionState(sessionID string, state *SessionState) error {
	jsonState, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("could not marshal session state: %w", err)
	}
	return db.rdb.Set(db.ctx, sessionStateKey(sessionID), jsonState, 0).Err()
}

func (db *DB) LoadSessionState(sessionID string) (*SessionState, error) {
	jsonState, err := db.rdb.Get(db.ctx, sessionStateKey(sessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return NewSessionState(), nil
		}
		return nil, fmt.Errorf("could not load session state: %w", err)
	}
	var state SessionState
	if err := json.Unmarshal([]byte(jsonState), &state); err != nil {
		return nil, fmt.Errorf("could not unmarshal session state: %w", err)
	}
	return &state, nil
}

// CleanAllAudio finds and deletes all audio entries from the cache.
func (db *DB) CleanAllAudio() (int64, error) {
	pattern := keyPrefix + "audio:*"
	var keys []string
	iter := db.rdb.Scan(db.ctx, 0, pattern, 0).Iterator()
	for iter.Next(db.ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	return db.rdb.Del(db.ctx, keys...).Result()
}

// addToList adds an item to the start of a list and trims it to maxLength.
func (db *DB) addToList(ctx context.Context, key, value string, maxLength int64) error {
	pipe := db.rdb.Pipeline()
	pipe.LPush(ctx, keyPrefix+key, value)
	pipe.LTrim(ctx, keyPrefix+key, 0, maxLength-1)
	_, err := pipe.Exec(ctx)
	return err
}
