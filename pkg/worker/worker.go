package worker

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"iter"
	"sync/atomic"

	"github.com/screa/create3-address-miner/internal/crypto"
	"github.com/screa/create3-address-miner/pkg/types"
)

// CheckpointInterval is how many attempts make up one progress interval.
// The interval counter wraps back to 1 after reaching it.
const CheckpointInterval = 500

// Worker samples salts and derives candidate addresses
type Worker struct {
	id      int
	config  *types.WorkerConfig
	deriver *crypto.Deriver
	random  io.Reader

	total    *int64 // shared across workers, for progress logging
	attempts int64  // this worker's attempts
	interval int64  // attempts since the last checkpoint

	// Pre-allocated buffer for performance
	saltBuffer [crypto.SaltLen]byte
}

// Option configures a Worker.
type Option func(*Worker)

// WithRandom replaces the default crypto/rand source.
func WithRandom(r io.Reader) Option {
	return func(w *Worker) { w.random = r }
}

// WithSharedCounter makes the worker add every attempt to total.
func WithSharedCounter(total *int64) Option {
	return func(w *Worker) { w.total = total }
}

// NewWorker creates a new worker instance
func NewWorker(id int, config *types.WorkerConfig, opts ...Option) *Worker {
	w := &Worker{
		id:      id,
		config:  config,
		deriver: crypto.NewDeriver(config.Factory, config.BytecodeHash),
		random:  rand.Reader,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// ID returns the worker id.
func (w *Worker) ID() int { return w.id }

// Attempts returns the number of attempts made by this worker.
func (w *Worker) Attempts() int64 { return w.attempts }

// IntervalAttempts returns the attempts since the last checkpoint, in 1..CheckpointInterval.
func (w *Worker) IntervalAttempts() int64 { return w.interval }

// Next draws a fresh salt and derives its candidate.
func (w *Worker) Next() (types.Candidate, error) {
	if _, err := io.ReadFull(w.random, w.saltBuffer[:]); err != nil {
		return types.Candidate{}, fmt.Errorf("%w: reading random salt: %v", types.ErrFatalEnvironment, err)
	}

	if w.interval >= CheckpointInterval {
		w.interval = 0
	}
	w.interval++
	w.attempts++
	if w.total != nil {
		atomic.AddInt64(w.total, 1)
	}

	d := w.deriver.Derive(w.config.Sender, w.saltBuffer)
	return types.Candidate{
		Salt:       w.saltBuffer,
		SenderSalt: d.SenderSalt,
		Proxy:      d.Proxy,
		Address:    d.Address,
	}, nil
}

// Candidates is a lazy, unbounded sequence of candidates. It stops when ctx
// is done, when MaxAttempts is reached, or after yielding an error.
// Cancellation is checked before every draw.
func (w *Worker) Candidates(ctx context.Context) iter.Seq2[types.Candidate, error] {
	return func(yield func(types.Candidate, error) bool) {
		for {
			if err := ctx.Err(); err != nil {
				yield(types.Candidate{}, err)
				return
			}
			if w.config.MaxAttempts > 0 && w.attempts >= w.config.MaxAttempts {
				yield(types.Candidate{}, types.ErrSearchExhausted)
				return
			}
			c, err := w.Next()
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}

// Search consumes Candidates until match accepts the lowercase hex address.
func (w *Worker) Search(ctx context.Context, match func(addrLower string) bool) (types.Candidate, error) {
	for c, err := range w.Candidates(ctx) {
		if err != nil {
			return types.Candidate{}, err
		}
		if match(crypto.AddressToLowerHex(c.Address)) {
			return c, nil
		}
	}
	// Candidates only ends after an error or a stop from this loop.
	return types.Candidate{}, ctx.Err()
}
