package cleanup

import (
	"fmt"
	"time"

	"github.com/desi-ai/desi-voice-interface/audio"
	"github.com/desi-ai/desi-voice-interface/cache"
	logger "github.com/desi-ai/desi-voice-interface/log"
)

// Result holds the outcome of a cleanup task.
type Result struct {
	Name        string
	Count       int
	Description string
}

// ClearCachedAudio drops every cached speech clip. Clips are throwaway
// artifacts of past sessions and have no value after a restart.
func ClearCachedAudio(c cache.Cache) Result {
	res := Result{Name: "ClearCachedAudio"}
	if c == nil {
		return res
	}

	count, err := c.CleanAllAudio()
	if err != nil {
		logger.Error("Could not clear cached audio clips", err)
		return res
	}
	res.Count = int(count)
	return res
}

// ClearStaleRecordings removes recordings and speech files older than maxAge
// from the data directory.
func ClearStaleRecordings(maxAge time.Duration) Result {
	res := Result{Name: "ClearStaleRecordings", Description: fmt.Sprintf("older than %s", maxAge)}

	count, err := audio.SweepDataDir(maxAge)
	if err != nil {
		logger.Error("Could not sweep audio data directory", err)
		return res
	}
	res.Count = count
	return res
}

// RunBootCleanup performs all startup cleanup tasks and logs a summary.
func RunBootCleanup(c cache.Cache) {
	results := []Result{
		ClearCachedAudio(c),
		ClearStaleRecordings(24 * time.Hour),
	}
	for _, r := range results {
		if r.Count > 0 {
			logger.Info(fmt.Sprintf("Cleanup %s removed %d items %s", r.Name, r.Count, r.Description))
		}
	}
}
