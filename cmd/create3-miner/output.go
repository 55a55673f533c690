package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"

	"github.com/screa/create3-address-miner/internal/config"
	"github.com/screa/create3-address-miner/pkg/types"
)

var (
	headerColor = color.New(color.FgGreen, color.Bold)
	labelColor  = color.New(color.FgCyan)
)

func printResult(w io.Writer, cfg *config.Config, result *types.Result) error {
	if cfg.NoColor {
		color.NoColor = true
	}
	if cfg.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	headerColor.Fprintln(w, "Found match!")
	printField(w, "Salt", result.Salt.String())
	printField(w, "Sender salt", result.SenderSalt.Hex())
	printField(w, "Proxy", result.Proxy.Hex())
	printField(w, "Address", result.Address)
	printField(w, "Attempts", fmt.Sprintf("%d", result.Attempts))
	printField(w, "Total attempts", fmt.Sprintf("%d", result.TotalAttempts))
	printField(w, "Duration", result.Duration.String())

	// Calculate rate safely
	rate := 0.0
	if result.Duration.Seconds() > 0 {
		rate = float64(result.TotalAttempts) / result.Duration.Seconds()
	}
	printField(w, "Rate", fmt.Sprintf("%.2f hashes/sec", rate))
	return nil
}

// verification is the output of the verify command.
type verification struct {
	Sender     common.Address `json:"sender"`
	Salt       string         `json:"salt"`
	SenderSalt common.Hash    `json:"senderSalt"`
	Proxy      common.Address `json:"proxy"`
	Address    string         `json:"address"`
}

func printVerification(w io.Writer, cfg *config.Config, v verification) error {
	if cfg.NoColor {
		color.NoColor = true
	}
	if cfg.JSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	printField(w, "Sender", v.Sender.Hex())
	printField(w, "Salt", v.Salt)
	printField(w, "Sender salt", v.SenderSalt.Hex())
	printField(w, "Proxy", v.Proxy.Hex())
	printField(w, "Address", v.Address)
	return nil
}

func printField(w io.Writer, label, value string) {
	labelColor.Fprintf(w, "%-15s", label+":")
	fmt.Fprintln(w, value)
}
