package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

// DefaultDebounce coalesces parameter changes that arrive closer together
// than this.
const DefaultDebounce = 120 * time.Millisecond

// Result is the outcome of one background render.
type Result struct {
	Generation uint64
	Buffer     *raster.Buffer
	Err        error
	Elapsed    time.Duration
}

// Session owns the retained original of one editing session and runs
// renders off the caller's goroutine. Each Submit supersedes everything
// before it: pending timers are reset, the in-flight render is cancelled,
// and any result that still arrives for an older generation is dropped.
type Session struct {
	original *raster.Buffer
	debounce time.Duration
	results  chan Result

	mu     sync.Mutex
	gen    uint64
	timer  *time.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewSession retains a copy of original. debounce < 0 means DefaultDebounce.
func NewSession(original *raster.Buffer, debounce time.Duration) (*Session, error) {
	if err := original.Valid(); err != nil {
		return nil, fmt.Errorf("session original: %w", err)
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Session{
		original: original.Clone(),
		debounce: debounce,
		results:  make(chan Result, 1),
	}, nil
}

// Original returns the retained source buffer. Callers must not modify it.
func (s *Session) Original() *raster.Buffer {
	return s.original
}

// Results delivers the latest result. The channel holds at most one
// undelivered result; a newer one replaces it. It is closed by Close.
func (s *Session) Results() <-chan Result {
	return s.results
}

// Submit schedules p to render after the debounce interval and returns its
// generation. Submitting after Close returns 0.
func (s *Session) Submit(p Pipeline) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0
	}
	gen := s.supersedeLocked()
	s.timer = time.AfterFunc(s.debounce, func() { s.start(gen, p) })
	return gen
}

// RenderNow renders p synchronously, superseding any pending or in-flight
// background render. The result is returned, not sent on Results.
func (s *Session) RenderNow(ctx context.Context, p Pipeline) (*raster.Buffer, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("session closed")
	}
	s.supersedeLocked()
	s.mu.Unlock()
	return p.Render(ctx, s.original)
}

// Close cancels outstanding work, waits for running renders to return and
// closes the Results channel.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.supersedeLocked()
	s.mu.Unlock()
	s.wg.Wait()
	close(s.results)
}

// supersedeLocked bumps the generation, stops the pending timer and
// cancels the in-flight render.
func (s *Session) supersedeLocked() uint64 {
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return s.gen
}

func (s *Session) start(gen uint64, p Pipeline) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer cancel()
		begin := time.Now()
		buf, err := p.Render(ctx, s.original)
		s.deliver(Result{Generation: gen, Buffer: buf, Err: err, Elapsed: time.Since(begin)})
	}()
}

func (s *Session) deliver(r Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || r.Generation != s.gen {
		raster.Logger().Debug("dropping stale render", "generation", r.Generation, "current", s.gen)
		return
	}
	select {
	case <-s.results:
	default:
	}
	s.results <- r
}
