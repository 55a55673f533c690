package pattern

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/create3-address-miner/pkg/types"
)

// EIP-55 form: 5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed
const checksumAddr = "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"

func TestMatches(t *testing.T) {
	abcAddr := "abc1234" + strings.Repeat("0", 29) + "dead"

	tests := []struct {
		name        string
		addr        string
		pattern     string
		checksummed bool
		suffix      bool
		expected    bool
	}{
		{"prefix match", abcAddr, "abc", false, false, true},
		{"prefix mismatch", abcAddr, "abd", false, false, false},
		{"suffix match", abcAddr, "dead", false, true, true},
		{"suffix pattern as prefix", abcAddr, "dead", false, false, false},
		{"prefix pattern as suffix", abcAddr, "abc", false, true, false},
		{"empty pattern", abcAddr, "", false, false, true},
		{"empty checksummed suffix", abcAddr, "", true, true, true},
		{"full address", abcAddr, abcAddr, false, false, true},
		{"full address off by one", abcAddr, abcAddr[:39] + "e", false, false, false},
		{"uppercase without checksum never matches", abcAddr, "ABC", false, false, false},
		{"checksum prefix", checksumAddr, "5aAeb", true, false, true},
		{"checksum prefix digits only", checksumAddr, "5", true, false, true},
		{"checksum prefix wrong case", checksumAddr, "5aaeb", true, false, false},
		{"checksum prefix all upper", checksumAddr, "5AAEB", true, false, false},
		{"checksum prefix wrong chars", checksumAddr, "5aAec", true, false, false},
		{"checksum suffix", checksumAddr, "BeAed", true, true, true},
		{"checksum suffix wrong case", checksumAddr, "beaed", true, true, false},
		{"checksum full address", checksumAddr, "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", true, false, true},
		{"checksum full address one letter flipped", checksumAddr, "5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAeD", true, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.pattern, tt.checksummed, tt.suffix)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p.Matches(tt.addr))
		})
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"too long", strings.Repeat("a", 41)},
		{"non hex", "abg"},
		{"prefix kept", "0xab"},
		{"space", "ab cd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.pattern, false, false)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}

	_, err := New(strings.Repeat("a", 40), true, true)
	assert.NoError(t, err)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "abcdef", Normalize("0xABCdef", false))
	assert.Equal(t, "ABCdef", Normalize("0xABCdef", true))
	assert.Equal(t, "dead", Normalize("DEAD", false))
	assert.Equal(t, "", Normalize("", true))
}

func TestDifficulty(t *testing.T) {
	p, err := New("00", false, false)
	require.NoError(t, err)
	assert.Equal(t, 256.0, p.Difficulty())

	p, err = New("aB", true, false)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, p.Difficulty())

	p, err = New("", false, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, p.Difficulty())
}

func TestString(t *testing.T) {
	p, err := New("dead", false, true)
	require.NoError(t, err)
	assert.Equal(t, `suffix "dead"`, p.String())

	p, err = New("Ab", true, false)
	require.NoError(t, err)
	assert.Equal(t, `prefix "Ab" (checksummed)`, p.String())
}
