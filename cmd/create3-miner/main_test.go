package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screa/create3-address-miner/pkg/types"
)

const testSender = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMineAndVerify(t *testing.T) {
	out, err := execute(t, "--sender", testSender, "--pattern", "0", "--json")
	require.NoError(t, err)

	var result types.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "0", result.Address[2:3])

	out, err = execute(t, "verify", "--sender", testSender, "--salt", result.Salt.String(), "--json")
	require.NoError(t, err)

	var v verification
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, result.Address, v.Address)
	assert.Equal(t, result.SenderSalt, v.SenderSalt)
	assert.Equal(t, result.Proxy, v.Proxy)
}

func TestMineFromConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"data": {"sender": "`+testSender+`", "hex": "F", "checksum": true, "suffix": true}}`), 0o644))

	out, err := execute(t, "--config", path, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Found match!")

	var address string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "Address:") {
			address = strings.TrimSpace(strings.TrimPrefix(line, "Address:"))
		}
	}
	require.NotEmpty(t, address)
	assert.True(t, strings.HasSuffix(address, "F"), address)
}

func TestMineInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"pattern too long", []string{"--sender", testSender, "--pattern", strings.Repeat("0", 41)}},
		{"pattern non hex", []string{"--sender", testSender, "--pattern", "xyz"}},
		{"missing sender", []string{"--pattern", "00"}},
		{"bad sender", []string{"--sender", "0x1234", "--pattern", "00"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}
}

func TestMineMaxAttempts(t *testing.T) {
	_, err := execute(t, "--sender", testSender, "--pattern", strings.Repeat("f", 40), "--max-attempts", "10")
	assert.ErrorIs(t, err, types.ErrSearchExhausted)
}

func TestVerifyInvalidSalt(t *testing.T) {
	for _, salt := range []string{"0x01", "0x" + strings.Repeat("zz", 32), strings.Repeat("00", 32)} {
		_, err := execute(t, "verify", "--sender", testSender, "--salt", salt)
		assert.ErrorIs(t, err, types.ErrInvalidInput, salt)
	}
}
