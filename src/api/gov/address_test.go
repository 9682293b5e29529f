package gov

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPubkey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func TestSS58RoundTrip(t *testing.T) {
	key := testPubkey()
	for _, prefix := range []uint16{0, 2, 12, 1284} {
		addr, err := EncodeSS58(key, prefix)
		require.NoError(t, err)
		got, err := DecodeSS58(addr)
		require.NoError(t, err, "prefix %d", prefix)
		assert.True(t, bytes.Equal(key, got))
	}
}

func TestEncodeSS58RejectsBadKey(t *testing.T) {
	_, err := EncodeSS58([]byte{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestDecodeSS58RejectsCorruption(t *testing.T) {
	key := testPubkey()
	addr, err := EncodeSS58(key, 0)
	require.NoError(t, err)
	// Flip a character; either base58 decoding or the checksum must fail.
	corrupted := "1" + addr[1:]
	if corrupted == addr {
		corrupted = "2" + addr[1:]
	}
	_, err = DecodeSS58(corrupted)
	assert.Error(t, err)
}

func TestReencodeAddress(t *testing.T) {
	key := testPubkey()
	kusamaAddr, err := EncodeSS58(key, 2)
	require.NoError(t, err)
	polkadotAddr, err := EncodeSS58(key, 0)
	require.NoError(t, err)

	assert.Equal(t, polkadotAddr, ReencodeAddress(kusamaAddr, "polkadot"))
	assert.Equal(t, kusamaAddr, ReencodeAddress(polkadotAddr, "kusama"))
}

func TestReencodeAddressPassthrough(t *testing.T) {
	// Hex (EVM) addresses are never re-encoded.
	hex := "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"
	assert.Equal(t, hex, ReencodeAddress(hex, "polkadot"))

	// Undecodable strings pass through unchanged.
	assert.Equal(t, "not-an-address", ReencodeAddress("not-an-address", "polkadot"))
	assert.Equal(t, "", ReencodeAddress("", "polkadot"))
}

func TestExtractProposer(t *testing.T) {
	key := testPubkey()
	kusamaAddr, _ := EncodeSS58(key, 2)
	polkadotAddr, _ := EncodeSS58(key, 0)

	// Explicit proposer list wins over the default address.
	got := ExtractProposer([]string{"", kusamaAddr}, "fallback", "polkadot")
	assert.Equal(t, polkadotAddr, got)

	// Default address used when the list is empty.
	got = ExtractProposer(nil, kusamaAddr, "polkadot")
	assert.Equal(t, polkadotAddr, got)

	assert.Equal(t, "", ExtractProposer(nil, "", "polkadot"))
}
