// Package pattern implements the prefix/suffix predicate applied to derived
// addresses, including the EIP-55 case-sensitive mode.
package pattern

import (
	"fmt"
	"strings"

	"github.com/screa/create3-address-miner/internal/crypto"
	"github.com/screa/create3-address-miner/pkg/types"
)

// Pattern is a validated hex pattern plus its match flags.
type Pattern struct {
	Value       string
	Checksummed bool
	Suffix      bool

	lower string
	shift int
}

// New validates value and builds a Pattern. The value is used exactly as
// given: when checksummed is false the caller is expected to pass it in
// lowercase, otherwise a mixed-case value can never match.
func New(value string, checksummed, suffix bool) (*Pattern, error) {
	if len(value) > crypto.AddressHexLen {
		return nil, fmt.Errorf("%w: pattern is %d chars, at most %d allowed", types.ErrInvalidInput, len(value), crypto.AddressHexLen)
	}
	for i := 0; i < len(value); i++ {
		if !isHex(value[i]) {
			return nil, fmt.Errorf("%w: pattern has non-hex character %q at position %d", types.ErrInvalidInput, value[i], i)
		}
	}
	p := &Pattern{
		Value:       value,
		Checksummed: checksummed,
		Suffix:      suffix,
		lower:       strings.ToLower(value),
	}
	if suffix {
		p.shift = crypto.AddressHexLen - len(value)
	}
	return p, nil
}

// Normalize lowercases value when checksum matching is off.
func Normalize(value string, checksummed bool) string {
	value = strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if checksummed {
		return value
	}
	return strings.ToLower(value)
}

// Difficulty is the expected number of attempts to find a match.
func (p *Pattern) Difficulty() float64 {
	d := 1.0
	for i := 0; i < len(p.Value); i++ {
		d *= 16
		// letters also have to land on the right case
		if p.Checksummed && p.lower[i] >= 'a' {
			d *= 2
		}
	}
	return d
}

// Matches tests a 40-char lowercase hex address (no 0x).
func (p *Pattern) Matches(addrLower string) bool {
	n := len(p.Value)
	if n == 0 {
		return true
	}
	var sub string
	if p.Suffix {
		sub = addrLower[crypto.AddressHexLen-n:]
	} else {
		sub = addrLower[:n]
	}

	if !p.Checksummed {
		return p.Value == sub
	}
	if p.lower != sub {
		return false
	}
	return p.matchesChecksum(addrLower)
}

func (p *Pattern) matchesChecksum(addrLower string) bool {
	hash := crypto.ChecksumHash(addrLower)
	for i := 0; i < len(p.Value); i++ {
		j := i + p.shift
		want := addrLower[j]
		if want >= 'a' && crypto.ChecksumNibble(hash, j) >= 8 {
			want = want - 'a' + 'A'
		}
		if p.Value[i] != want {
			return false
		}
	}
	return true
}

// String describes the pattern for logs.
func (p *Pattern) String() string {
	kind := "prefix"
	if p.Suffix {
		kind = "suffix"
	}
	if p.Checksummed {
		return fmt.Sprintf("%s %q (checksummed)", kind, p.Value)
	}
	return fmt.Sprintf("%s %q", kind, p.Value)
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
