package types

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Errors
var (
	// ErrInvalidInput marks malformed fixed-size inputs or patterns. Not retryable.
	ErrInvalidInput = errors.New("invalid input")
	// ErrFatalEnvironment marks a failure of the secure random source. Not retryable.
	ErrFatalEnvironment = errors.New("fatal environment")
	// ErrSearchExhausted is returned when an attempt cap is hit without a match.
	ErrSearchExhausted = errors.New("search exhausted without a match")
)

// Candidate is one sampled salt and everything derived from it.
type Candidate struct {
	Salt       [32]byte
	SenderSalt common.Hash
	Proxy      common.Address
	Address    common.Address
}

// Result represents a mining result
type Result struct {
	Salt       hexutil.Bytes  `json:"salt"`
	SenderSalt common.Hash    `json:"senderSalt"`
	Proxy      common.Address `json:"proxy"`
	// Address is EIP-55 checksummed, 0x-prefixed
	Address string `json:"address"`
	// Attempts counts attempts since the last progress checkpoint of the
	// winning worker, not the total.
	Attempts      int64         `json:"attempts"`
	TotalAttempts int64         `json:"totalAttempts"`
	Worker        int           `json:"worker"`
	Duration      time.Duration `json:"duration"`
}

// WorkerConfig contains configuration for individual workers
type WorkerConfig struct {
	Factory      common.Address
	BytecodeHash common.Hash
	Sender       common.Address
	// MaxAttempts caps attempts per worker; 0 means unbounded.
	MaxAttempts int64
}
