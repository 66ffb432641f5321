package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/desi-ai/desi-voice-interface/tts"
)

// ErrClosed is delivered on a job's result channel when the job was
// submitted after the pool shut down.
var ErrClosed = errors.New("synthesis pool is closed")

// SynthesisJob holds the data for a single synthesis task.
type SynthesisJob struct {
	Ctx    context.Context
	Text   string
	Result chan SynthesisResult
}

// SynthesisResult carries the rendered audio or the failure.
type SynthesisResult struct {
	Audio []byte
	Err   error
}

// Pool manages a pool of synthesis workers and a queue of jobs. Sentences
// are synthesized concurrently; callers keep playback ordered by reading
// each job's result channel in submission order.
type Pool struct {
	JobQueue   chan SynthesisJob
	MaxWorkers int
	synth      tts.Synthesizer

	mu     sync.Mutex
	closed bool
}

// NewPool creates a new Pool.
func NewPool(synth tts.Synthesizer, maxWorkers, queueSize int) *Pool {
	return &Pool{
		JobQueue:   make(chan SynthesisJob, queueSize),
		MaxWorkers: maxWorkers,
		synth:      synth,
	}
}

// Start creates and starts the worker goroutines.
func (p *Pool) Start() {
	for i := 1; i <= p.MaxWorkers; i++ {
		go p.worker()
	}
}

// Submit queues a synthesis job and returns its result channel. Submitting
// to a closed pool yields an ErrClosed result instead of panicking, so
// in-flight streams stay safe against shutdown.
func (p *Pool) Submit(ctx context.Context, text string) <-chan SynthesisResult {
	result := make(chan SynthesisResult, 1)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		result <- SynthesisResult{Err: ErrClosed}
		return result
	}
	p.JobQueue <- SynthesisJob{Ctx: ctx, Text: text, Result: result}
	return result
}

// Close stops the workers once queued jobs drain. Closing twice is a no-op.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.JobQueue)
}

func (p *Pool) worker() {
	for job := range p.JobQueue {
		audio, err := p.synth.Synthesize(job.Ctx, job.Text)
		job.Result <- SynthesisResult{Audio: audio, Err: err}
	}
}
