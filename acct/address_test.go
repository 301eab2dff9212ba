// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package acct

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		input    string
		err      string
		expected Address
	}{
		{
			input:    "0x00000000000000000000000000000000000000000000000000006d6173746572",
			expected: BytesToAddress([]byte("master")),
		},
		{
			input:    "00000000000000000000000000000000000000000000000000006d6173746572",
			expected: BytesToAddress([]byte("master")),
		},
		{
			input: "1x00000000000000000000000000000000000000000000000000006d6173746572",
			err:   "invalid prefix",
		},
		{
			input: "0x1234",
			err:   "invalid length",
		},
		{
			input: "0x00000000000000000000000000000000000000000000000000006d61737465zz",
			err:   "encoding/hex: invalid byte: U+007A 'z'",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			addr, err := ParseAddress(tc.input)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, addr)
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := BytesToAddress([]byte("staker"))

	data, err := json.Marshal(&addr)
	require.NoError(t, err)
	assert.Equal(t, `"`+addr.String()+`"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, addr, decoded)

	var nilAddr *Address
	data, err = json.Marshal(nilAddr)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	assert.Error(t, json.Unmarshal([]byte(`"0x12"`), &decoded))

	data, err = json.Marshal(struct{ A Address }{addr})
	require.NoError(t, err)
	assert.Equal(t, `{"A":"`+addr.String()+`"}`, string(data))
}

func TestAddressHelpers(t *testing.T) {
	assert.True(t, Address{}.IsZero())
	addr := MustParseAddress("0x0102030405060708091011121314151617181920212223242526272829303132")
	assert.False(t, addr.IsZero())
	assert.Equal(t, "0x01020304…29303132", addr.AbbrevString())
	assert.Len(t, addr.Bytes(), AddressLength)
	assert.Panics(t, func() { MustParseAddress("bad") })
}

func TestDerive(t *testing.T) {
	program := BytesToAddress([]byte("program"))
	mint := BytesToAddress([]byte("mint"))
	creator := BytesToAddress([]byte("creator"))

	a := DeriveVault(program, 255, mint, creator)
	b := DeriveVault(program, 255, mint, creator)
	assert.Equal(t, a, b, "derivation must be deterministic")
	assert.False(t, a.IsZero())

	assert.NotEqual(t, a, DeriveVault(program, 254, mint, creator))
	assert.NotEqual(t, a, DeriveVault(program, 255, creator, mint))
	assert.NotEqual(t, a, DeriveVault(BytesToAddress([]byte("other")), 255, mint, creator))
}
