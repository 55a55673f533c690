package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/screa/create3-address-miner/internal/crypto"
	"github.com/screa/create3-address-miner/pkg/pattern"
	"github.com/screa/create3-address-miner/pkg/types"
)

// Errors
var (
	ErrNoSenderSpecified = fmt.Errorf("%w: must specify --sender", types.ErrInvalidInput)
	ErrInvalidWorkers    = fmt.Errorf("%w: --workers must be positive", types.ErrInvalidInput)
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "CREATE3"

// Config keys. Nested keys mirror the JSON config file layout.
const (
	KeyFactory      = "factoryAddr"
	KeyBytecodeHash = "proxyBytecodeHash"
	KeySender       = "data.sender"
	KeyPattern      = "data.hex"
	KeyChecksum     = "data.checksum"
	KeySuffix       = "data.suffix"
	KeyWorkers      = "workers"
	KeyVerbose      = "verbose"
	KeyLogFile      = "logFile"
	KeyLogInterval  = "logInterval"
	KeyTimeout      = "timeout"
	KeyMaxAttempts  = "maxAttempts"
	KeyJSON         = "json"
	KeyNoColor      = "noColor"
)

// KeyFactoryLegacy is the misspelt factory key older config.json files use.
const KeyFactoryLegacy = "factoryAdrr"

// flagKeys maps CLI flag names onto config keys.
var flagKeys = map[string]string{
	"factory":       KeyFactory,
	"bytecode-hash": KeyBytecodeHash,
	"sender":        KeySender,
	"pattern":       KeyPattern,
	"checksum":      KeyChecksum,
	"suffix":        KeySuffix,
	"workers":       KeyWorkers,
	"verbose":       KeyVerbose,
	"log-file":      KeyLogFile,
	"log-interval":  KeyLogInterval,
	"timeout":       KeyTimeout,
	"max-attempts":  KeyMaxAttempts,
	"json":          KeyJSON,
	"no-color":      KeyNoColor,
}

// Config holds the application configuration
type Config struct {
	Factory      string
	BytecodeHash string
	Sender       string
	Pattern      string
	Checksum     bool
	Suffix       bool
	Workers      int
	Verbose      bool
	LogFile      string
	LogInterval  int // Logging interval in seconds
	Timeout      time.Duration
	MaxAttempts  int64
	JSON         bool
	NoColor      bool
	ConfigFile   string
}

// Params is the validated, typed form of Config consumed by the miner.
type Params struct {
	Worker      types.WorkerConfig
	Pattern     *pattern.Pattern
	Workers     int
	Verbose     bool
	LogInterval time.Duration
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Factory:      crypto.DefaultFactoryAddress,
		BytecodeHash: crypto.DefaultProxyBytecodeHash,
		Workers:      1,
		LogInterval:  5, // Default 5 seconds
	}
}

// SetupViper creates a viper instance with defaults, the CREATE3_ env prefix
// and, when path is not empty, the given JSON config file.
func SetupViper(path string) (*viper.Viper, error) {
	v := viper.New()

	def := NewConfig()
	v.SetDefault(KeyFactory, def.Factory)
	v.SetDefault(KeyBytecodeHash, def.BytecodeHash)
	v.SetDefault(KeyWorkers, def.Workers)
	v.SetDefault(KeyLogInterval, def.LogInterval)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		// Merged into the file layer so env and flags still win.
		if v.InConfig(KeyFactoryLegacy) && !v.InConfig(KeyFactory) {
			legacy := map[string]any{KeyFactory: v.GetString(KeyFactoryLegacy)}
			if err := v.MergeConfigMap(legacy); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}
	return v, nil
}

// BindFlags binds every known flag of fs to its config key, so that a flag
// set on the command line wins over env and file values.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		if err := v.BindPFlag(key, f); err != nil {
			errs = append(errs, fmt.Errorf("bind flag %s: %w", f.Name, err))
		}
	})
	return errors.Join(errs...)
}

// FromViper reads a Config out of v.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Factory:      v.GetString(KeyFactory),
		BytecodeHash: v.GetString(KeyBytecodeHash),
		Sender:       v.GetString(KeySender),
		Pattern:      v.GetString(KeyPattern),
		Checksum:     v.GetBool(KeyChecksum),
		Suffix:       v.GetBool(KeySuffix),
		Workers:      v.GetInt(KeyWorkers),
		Verbose:      v.GetBool(KeyVerbose),
		LogFile:      v.GetString(KeyLogFile),
		LogInterval:  v.GetInt(KeyLogInterval),
		Timeout:      v.GetDuration(KeyTimeout),
		MaxAttempts:  v.GetInt64(KeyMaxAttempts),
		JSON:         v.GetBool(KeyJSON),
		NoColor:      v.GetBool(KeyNoColor),
		ConfigFile:   v.ConfigFileUsed(),
	}
}

// Params validates the configuration and converts it into typed inputs.
func (c *Config) Params() (*Params, error) {
	if c.Sender == "" {
		return nil, ErrNoSenderSpecified
	}
	if c.Workers <= 0 {
		return nil, ErrInvalidWorkers
	}
	sender, err := crypto.LowerHexToAddress(c.Sender)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	factory, bytecodeHash, err := c.ParseFactory()
	if err != nil {
		return nil, err
	}
	p, err := pattern.New(pattern.Normalize(c.Pattern, c.Checksum), c.Checksum, c.Suffix)
	if err != nil {
		return nil, err
	}

	interval := c.LogInterval
	if interval <= 0 {
		interval = 5
	}
	return &Params{
		Worker: types.WorkerConfig{
			Factory:      factory,
			BytecodeHash: bytecodeHash,
			Sender:       sender,
			MaxAttempts:  c.MaxAttempts,
		},
		Pattern:     p,
		Workers:     c.Workers,
		Verbose:     c.Verbose,
		LogInterval: time.Duration(interval) * time.Second,
	}, nil
}

// MaxWorkers is the useful upper bound for --workers.
func MaxWorkers() int {
	return runtime.NumCPU()
}

// ParseFactory decodes the factory address and proxy bytecode hash.
func (c *Config) ParseFactory() (common.Address, common.Hash, error) {
	factory, err := crypto.LowerHexToAddress(c.Factory)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("factory: %w", err)
	}
	bytecodeHash, err := crypto.ParseHash(c.BytecodeHash)
	if err != nil {
		return common.Address{}, common.Hash{}, fmt.Errorf("proxy bytecode hash: %w", err)
	}
	return factory, bytecodeHash, nil
}
