package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/screa/create3-address-miner/internal/config"
	logpkg "github.com/screa/create3-address-miner/internal/logger"
	minerpkg "github.com/screa/create3-address-miner/pkg/miner"
	"github.com/screa/create3-address-miner/pkg/types"
)

func runMiner(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	params, err := cfg.Params()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	logger.Printf("Starting CREATE3 address miner with %d workers...", params.Workers)
	logger.Printf("Target: %s", params.Pattern.String())
	logger.Printf("Sender: %s", params.Worker.Sender.Hex())
	logger.Printf("Factory address: %s", params.Worker.Factory.Hex())
	logger.Debugf("Proxy bytecode hash: %s", params.Worker.BytecodeHash.Hex())
	if cfg.ConfigFile != "" {
		logger.Debugf("Config file: %s", cfg.ConfigFile)
	}
	logger.Printf("Expected attempts: %.0f", params.Pattern.Difficulty())

	ctx := commandContext(cmd)
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	miner := minerpkg.NewMiner(params, logger)

	// Set up signal handling for Ctrl+C
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	type outcome struct {
		result *types.Result
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := miner.Mine(ctx)
		done <- outcome{result, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-sigChan:
		// A second signal falls through to the default handler and kills the process.
		signal.Stop(sigChan)
		logger.Println("Received interrupt signal (Ctrl+C). Stopping miners...")
		miner.Stop()
		out = <-done
	}

	switch {
	case out.err == nil:
		return printResult(cmd.OutOrStdout(), cfg, out.result)
	case errors.Is(out.err, context.Canceled):
		logger.Printf("Mining stopped by user after %d attempts.", miner.Attempts())
		return nil
	case errors.Is(out.err, context.DeadlineExceeded):
		logger.Printf("No match found within %v (%d attempts).", cfg.Timeout, miner.Attempts())
		return out.err
	case errors.Is(out.err, types.ErrSearchExhausted):
		logger.Printf("No match found in %d attempts.", miner.Attempts())
		return out.err
	default:
		return out.err
	}
}

func setupLogging(cfg *config.Config) (*logpkg.Logger, func(), error) {
	if cfg.LogFile != "" {
		logger, file, err := logpkg.OpenFile(cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		logger.SetVerbose(cfg.Verbose)
		return logger, func() { _ = file.Close() }, nil
	}
	// Log to stderr so stdout carries only the result
	logger := logpkg.NewWriter(os.Stderr)
	logger.SetVerbose(cfg.Verbose)
	return logger, func() {}, nil
}
