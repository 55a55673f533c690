package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/screa/create3-address-miner/internal/config"
	"github.com/screa/create3-address-miner/internal/crypto"
	"github.com/screa/create3-address-miner/pkg/types"
)

func newVerifyCmd() *cobra.Command {
	var salt string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute the address for a sender and a previously mined salt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Sender == "" {
				return config.ErrNoSenderSpecified
			}
			sender, err := crypto.LowerHexToAddress(cfg.Sender)
			if err != nil {
				return err
			}
			factory, bytecodeHash, err := cfg.ParseFactory()
			if err != nil {
				return err
			}
			saltBytes, err := hexutil.Decode(salt)
			if err != nil {
				return fmt.Errorf("%w: salt: %v", types.ErrInvalidInput, err)
			}

			d, err := crypto.NewDeriver(factory, bytecodeHash).DeriveBytes(sender.Bytes(), saltBytes)
			if err != nil {
				return err
			}
			return printVerification(cmd.OutOrStdout(), cfg, verification{
				Sender:     sender,
				Salt:       hexutil.Encode(saltBytes),
				SenderSalt: d.SenderSalt,
				Proxy:      d.Proxy,
				Address:    crypto.AddressBytesToChecksumString(d.Address),
			})
		},
	}
	cmd.Flags().StringVar(&salt, "salt", "", "32-byte salt, 0x-prefixed hex (required)")
	_ = cmd.MarkFlagRequired("salt")
	return cmd
}
