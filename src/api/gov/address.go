package gov

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

var ss58Preamble = []byte("SS58PRE")

func ss58Checksum(data []byte) []byte {
	h, _ := blake2b.New512(nil)
	h.Write(ss58Preamble)
	h.Write(data)
	return h.Sum(nil)[:2]
}

// EncodeSS58 encodes a 32-byte public key for the given network prefix.
func EncodeSS58(pubkey []byte, prefix uint16) (string, error) {
	if len(pubkey) != 32 {
		return "", fmt.Errorf("ss58: expected 32-byte key, got %d", len(pubkey))
	}
	var data []byte
	if prefix < 64 {
		data = append([]byte{byte(prefix)}, pubkey...)
	} else {
		b1 := byte((prefix&0b0000_0000_1111_1100)>>2) | 0b0100_0000
		b2 := byte(prefix>>8) | byte(prefix&0b11)<<6
		data = append([]byte{b1, b2}, pubkey...)
	}
	data = append(data, ss58Checksum(data)...)
	return base58.Encode(data), nil
}

// DecodeSS58 extracts the 32-byte public key from an SS58 address of any
// network prefix, verifying the checksum.
func DecodeSS58(addr string) ([]byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return nil, fmt.Errorf("ss58: %w", err)
	}
	if len(raw) < 35 {
		return nil, fmt.Errorf("ss58: address too short")
	}
	prefixLen := 1
	if raw[0] >= 64 {
		prefixLen = 2
	}
	body := raw[:len(raw)-2]
	sum := raw[len(raw)-2:]
	want := ss58Checksum(body)
	if sum[0] != want[0] || sum[1] != want[1] {
		return nil, fmt.Errorf("ss58: checksum mismatch")
	}
	pubkey := body[prefixLen:]
	if len(pubkey) != 32 {
		return nil, fmt.Errorf("ss58: unexpected key length %d", len(pubkey))
	}
	return pubkey, nil
}

// ReencodeAddress converts addr to the target network's SS58 prefix. Hex
// (EVM-style) addresses pass through unchanged, as do addresses that fail to
// decode or networks without a registry entry.
func ReencodeAddress(addr, network string) string {
	if addr == "" || strings.HasPrefix(addr, "0x") {
		return addr
	}
	net, ok := LookupNetwork(network)
	if !ok {
		return addr
	}
	pubkey, err := DecodeSS58(addr)
	if err != nil {
		return addr
	}
	out, err := EncodeSS58(pubkey, net.SS58Prefix)
	if err != nil {
		return addr
	}
	return out
}

// ExtractProposer applies the shared address-extraction rule: prefer an
// explicit proposer list (first entry), fall back to the record's default
// address. The result is re-encoded for the target network.
func ExtractProposer(proposers []string, defaultAddr, network string) string {
	for _, p := range proposers {
		if p != "" {
			return ReencodeAddress(p, network)
		}
	}
	if defaultAddr != "" {
		return ReencodeAddress(defaultAddr, network)
	}
	return ""
}
