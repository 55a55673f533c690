package crypto

import (
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"

	"github.com/screa/create3-address-miner/pkg/types"
)

const (
	// Default CREATE3 factory address
	DefaultFactoryAddress = "0x9fBB3DF7C40Da2e5A0dE984fFE2CCB7C47cd0ABf"

	// keccak256 of the minimal proxy initcode deployed by the factory
	DefaultProxyBytecodeHash = "0x21c35dbe1b344a2488cf3321d6ce542f8e9f305544ff09e4993a62319a497c1f"

	AddressLen = common.AddressLength
	HashLen    = common.HashLength
	SaltLen    = 32

	// CREATE2 input layout: 0xff (1) + factory (20) + senderSalt (32) + bytecodeHash (32) = 85
	Create2PrefixLen = 1 + AddressLen
	Create2InputLen  = Create2PrefixLen + HashLen + HashLen

	// RLP([proxy, 1]): 0xd6 0x94 + proxy (20) + 0x01 = 23
	CreateInputLen = 2 + AddressLen + 1

	// Address hex length without 0x
	AddressHexLen = 2 * AddressLen
)

// Derivation is the full provenance of one derived address.
type Derivation struct {
	SenderSalt common.Hash
	Proxy      common.Address
	Address    common.Address
}

// Deriver computes the address a CREATE3 factory deploys to for a given
// sender and salt. It keeps its own hasher and scratch buffers, so a Deriver
// must not be shared between goroutines; each worker builds its own.
type Deriver struct {
	hasher hash.Hash
	// Pre-primed 0xff + factory, then senderSalt, then bytecode hash
	create2Input [Create2InputLen]byte
	senderInput  [AddressLen + SaltLen]byte
	createInput  [CreateInputLen]byte
	sum          [HashLen]byte
}

// NewDeriver creates a deriver for the given factory and proxy bytecode hash.
func NewDeriver(factory common.Address, bytecodeHash common.Hash) *Deriver {
	d := &Deriver{
		hasher: sha3.NewLegacyKeccak256(),
	}
	d.create2Input[0] = 0xff
	copy(d.create2Input[1:Create2PrefixLen], factory[:])
	copy(d.create2Input[Create2PrefixLen+HashLen:], bytecodeHash[:])

	d.createInput[0] = 0xd6
	d.createInput[1] = 0x94
	d.createInput[CreateInputLen-1] = 0x01
	return d
}

// Derive runs the two-stage derivation:
//
//	senderSalt = keccak256(sender ++ salt)
//	proxy      = keccak256(0xff ++ factory ++ senderSalt ++ bytecodeHash)[12:]
//	address    = keccak256(0xd6 0x94 ++ proxy ++ 0x01)[12:]
func (d *Deriver) Derive(sender common.Address, salt [SaltLen]byte) Derivation {
	var out Derivation

	copy(d.senderInput[:AddressLen], sender[:])
	copy(d.senderInput[AddressLen:], salt[:])
	d.keccakInto(d.senderInput[:], out.SenderSalt[:])

	copy(d.create2Input[Create2PrefixLen:Create2PrefixLen+HashLen], out.SenderSalt[:])
	d.keccakInto(d.create2Input[:], d.sum[:])
	copy(out.Proxy[:], d.sum[12:])

	// 0xd6 0x94 encodes a 22-byte list holding a 20-byte string; only valid for nonce 1.
	copy(d.createInput[2:2+AddressLen], out.Proxy[:])
	d.keccakInto(d.createInput[:], d.sum[:])
	copy(out.Address[:], d.sum[12:])

	return out
}

// DeriveBytes is Derive for raw byte slices. sender must be 20 bytes and
// salt 32 bytes; anything else is rejected rather than padded.
func (d *Deriver) DeriveBytes(sender, salt []byte) (Derivation, error) {
	if len(sender) != AddressLen {
		return Derivation{}, fmt.Errorf("%w: sender must be %d bytes, got %d", types.ErrInvalidInput, AddressLen, len(sender))
	}
	if len(salt) != SaltLen {
		return Derivation{}, fmt.Errorf("%w: salt must be %d bytes, got %d", types.ErrInvalidInput, SaltLen, len(salt))
	}
	var s [SaltLen]byte
	copy(s[:], salt)
	return d.Derive(common.BytesToAddress(sender), s), nil
}

func (d *Deriver) keccakInto(in, out []byte) {
	d.hasher.Reset()
	d.hasher.Write(in)
	d.hasher.Sum(out[:0])
}

// AddressToLowerHex renders the address as 40 lowercase hex characters, no 0x.
func AddressToLowerHex(addr common.Address) string {
	return hex.EncodeToString(addr[:])
}

// LowerHexToAddress is the inverse of AddressToLowerHex. It accepts an
// optional 0x prefix and either case.
func LowerHexToAddress(s string) (common.Address, error) {
	b, err := decodeFixedHex(s, AddressLen, "address")
	if err != nil {
		return common.Address{}, err
	}
	return common.BytesToAddress(b), nil
}

// ParseHash decodes a 32-byte hex value with an optional 0x prefix.
func ParseHash(s string) (common.Hash, error) {
	b, err := decodeFixedHex(s, HashLen, "hash")
	if err != nil {
		return common.Hash{}, err
	}
	return common.BytesToHash(b), nil
}

func decodeFixedHex(s string, size int, what string) ([]byte, error) {
	h := strings.TrimSpace(s)
	if len(h) >= 2 && (h[0:2] == "0x" || h[0:2] == "0X") {
		h = h[2:]
	}
	if len(h) != 2*size {
		return nil, fmt.Errorf("%w: invalid %s length: got %d hex chars, want %d", types.ErrInvalidInput, what, len(h), 2*size)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid %s hex: %v", types.ErrInvalidInput, what, err)
	}
	return b, nil
}

// IsLowerHexAddress reports whether s is exactly 40 lowercase hex characters.
func IsLowerHexAddress(s string) bool {
	if len(s) != AddressHexLen {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// ChecksumHex applies EIP-55 casing to a 40-char lowercase hex address
// (no 0x). Each letter is upper-cased when the matching nibble of
// keccak256(ascii(lowerHex)) is >= 8.
func ChecksumHex(lowerHex string) (string, error) {
	if !IsLowerHexAddress(lowerHex) {
		return "", fmt.Errorf("%w: checksum input must be %d lowercase hex chars", types.ErrInvalidInput, AddressHexLen)
	}
	return checksumHex(lowerHex, ChecksumHash(lowerHex)), nil
}

// ChecksumNibble returns the hash nibble that decides the case of
// character i. hash is keccak256 of the lowercase hex address.
func ChecksumNibble(hash []byte, i int) byte {
	return (hash[i/2] >> uint(4*(1-i%2))) & 0xF
}

// ChecksumHash hashes the lowercase hex form of an address for casing.
func ChecksumHash(lowerHex string) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(lowerHex))
	return h.Sum(nil)
}

func checksumHex(lowerHex string, hash []byte) string {
	out := []byte(lowerHex)
	for i, c := range out {
		if c < 'a' {
			continue
		}
		if ChecksumNibble(hash, i) >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return string(out)
}

// AddressBytesToChecksumString converts an address to its 0x-prefixed
// EIP-55 string. Only call when you need the string (e.g. for result output).
func AddressBytesToChecksumString(addr common.Address) string {
	// AddressToLowerHex always yields valid input
	sum, _ := ChecksumHex(AddressToLowerHex(addr))
	return "0x" + sum
}
