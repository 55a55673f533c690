package miner

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/screa/create3-address-miner/internal/config"
	"github.com/screa/create3-address-miner/internal/crypto"
	"github.com/screa/create3-address-miner/internal/logger"
	"github.com/screa/create3-address-miner/pkg/types"
	"github.com/screa/create3-address-miner/pkg/worker"
)

// errFound stops the worker group once a match has been recorded.
var errFound = errors.New("match found")

// Miner coordinates one or more workers racing to the first match
type Miner struct {
	params *config.Params
	logger *logger.Logger

	attempts int64 // total across workers
	result   *types.Result
	mu       sync.RWMutex
	once     sync.Once

	// stopped is cancelled by Stop; it outlives any single Mine call
	stopped context.Context
	stop    context.CancelFunc

	// random returns the entropy source for worker id; nil means crypto/rand
	random func(id int) io.Reader
}

// Option configures a Miner.
type Option func(*Miner)

// WithRandomSource gives every worker its own reader. Readers must not be
// shared between workers.
func WithRandomSource(f func(id int) io.Reader) Option {
	return func(m *Miner) { m.random = f }
}

// NewMiner creates a new miner instance
func NewMiner(params *config.Params, log *logger.Logger, opts ...Option) *Miner {
	if params.Workers <= 0 {
		params.Workers = 1
	}
	m := &Miner{
		params: params,
		logger: log,
	}
	m.stopped, m.stop = context.WithCancel(context.Background())
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Mine runs the search until a match is found, ctx is done, every worker
// hits its attempt cap, or the random source fails.
func (m *Miner) Mine(ctx context.Context) (*types.Result, error) {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(m.stopped, cancel)()

	// Start periodic logging if verbose mode is enabled
	logDone := make(chan struct{})
	if m.params.Verbose {
		ticker := time.NewTicker(m.params.LogInterval)
		defer ticker.Stop()
		go m.periodicLogger(ticker, logDone, start)

		m.logger.Printf("Mining started with %d workers, logging every %v...",
			m.params.Workers, m.params.LogInterval)
	}
	defer close(logDone)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < m.params.Workers; i++ {
		w := m.newWorker(i)
		if w == nil {
			continue
		}
		g.Go(func() error { return m.runWorker(gctx, w, start) })
	}
	err := g.Wait()

	if r := m.GetResult(); r != nil {
		return r, nil
	}
	if err != nil && !errors.Is(err, errFound) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, types.ErrSearchExhausted
}

// newWorker returns nil when the attempt cap leaves nothing for worker id.
func (m *Miner) newWorker(id int) *worker.Worker {
	wc := m.params.Worker
	if limit := wc.MaxAttempts; limit > 0 {
		// The first limit%n workers take one extra attempt; shares sum to limit.
		n := int64(m.params.Workers)
		wc.MaxAttempts = limit / n
		if int64(id) < limit%n {
			wc.MaxAttempts++
		}
		if wc.MaxAttempts == 0 {
			return nil
		}
	}
	opts := []worker.Option{worker.WithSharedCounter(&m.attempts)}
	if m.random != nil {
		opts = append(opts, worker.WithRandom(m.random(id)))
	}
	return worker.NewWorker(id, &wc, opts...)
}

// runWorker runs the mining logic for a single worker
func (m *Miner) runWorker(ctx context.Context, w *worker.Worker, start time.Time) error {
	c, err := w.Search(ctx, m.params.Pattern.Matches)
	switch {
	case err == nil:
	case errors.Is(err, types.ErrSearchExhausted):
		m.logger.Debugf("Worker %d exhausted after %d attempts", w.ID(), w.Attempts())
		return nil
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return nil
	default:
		return err
	}

	won := false
	m.once.Do(func() {
		won = true
		m.mu.Lock()
		m.result = &types.Result{
			Salt:          c.Salt[:],
			SenderSalt:    c.SenderSalt,
			Proxy:         c.Proxy,
			Address:       crypto.AddressBytesToChecksumString(c.Address),
			Attempts:      w.IntervalAttempts(),
			TotalAttempts: atomic.LoadInt64(&m.attempts),
			Worker:        w.ID(),
			Duration:      time.Since(start),
		}
		m.mu.Unlock()
	})
	if won {
		m.logger.Debugf("Worker %d found a match after %d attempts", w.ID(), w.Attempts())
	}
	return errFound
}

// Stop stops the mining process. A Mine call made after Stop returns
// context.Canceled straight away.
func (m *Miner) Stop() {
	m.stop()
}

// GetResult returns the match, or nil while none has been found
func (m *Miner) GetResult() *types.Result {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.result
}

// Attempts returns the total attempts so far across workers.
func (m *Miner) Attempts() int64 {
	return atomic.LoadInt64(&m.attempts)
}

// periodicLogger logs mining progress at regular intervals
func (m *Miner) periodicLogger(ticker *time.Ticker, done chan struct{}, start time.Time) {
	difficulty := m.params.Pattern.Difficulty()
	for {
		select {
		case <-ticker.C:
			attempts := atomic.LoadInt64(&m.attempts)
			elapsed := time.Since(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}
			m.logger.Printf("Progress: %d attempts, %.2f hashes/sec, %.1f%% of expected %.0f",
				attempts, rate, 100*float64(attempts)/difficulty, difficulty)
		case <-done:
			return
		}
	}
}
