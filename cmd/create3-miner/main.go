package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screa/create3-address-miner/internal/config"
	"github.com/screa/create3-address-miner/internal/crypto"
)

var configFile string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "create3-miner",
		Short: "Vanity address miner for CREATE3 deployments",
		Long: `A command line utility for mining CREATE3 salts.
It samples random salts until the address the factory deploys to for the
given sender matches a hex prefix or suffix, optionally EIP-55 case-sensitive.`,
		SilenceUsage: true,
		RunE:         runMiner,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configFile, "config", "c", "", "JSON config file (factoryAddr, data.sender, data.hex, data.checksum, data.suffix)")
	pf.String("factory", crypto.DefaultFactoryAddress, "CREATE3 factory address")
	pf.String("bytecode-hash", crypto.DefaultProxyBytecodeHash, "keccak256 of the proxy initcode deployed by the factory")
	pf.StringP("sender", "s", "", "Address the proxy is created on behalf of (required)")
	pf.Bool("json", false, "Print the result as JSON")
	pf.Bool("no-color", false, "Disable colored output")

	f := rootCmd.Flags()
	f.StringP("pattern", "p", "", "Hex pattern to match, without 0x")
	f.BoolP("checksum", "C", false, "Match the pattern case-sensitively against the EIP-55 address")
	f.Bool("suffix", false, "Match at the end of the address instead of the start")
	f.IntP("workers", "w", 1, fmt.Sprintf("Number of worker goroutines (up to %d useful)", config.MaxWorkers()))
	f.BoolP("verbose", "v", false, "Verbose output")
	f.StringP("log-file", "l", "", "Log file for progress tracking (default: stderr)")
	f.IntP("log-interval", "i", 5, "Logging interval in seconds")
	f.Duration("timeout", 0, "Give up after this long (0 = no limit)")
	f.Int64("max-attempts", 0, "Give up after this many attempts (0 = no limit)")

	rootCmd.AddCommand(newVerifyCmd())
	return rootCmd
}

// loadConfig merges defaults, config file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.SetupViper(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return nil, err
	}
	return config.FromViper(v), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
