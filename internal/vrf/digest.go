// Package vrf reconstructs, validates and reports on the randomness proofs
// emitted by the MonFair contracts.
package vrf

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"golang.org/x/crypto/sha3"
)

// Field is one typed value of an abi.encodePacked argument list.
type Field struct {
	name string
	data []byte
}

func Uint256(v *uint256.Int) Field {
	b := v.Bytes32()
	return Field{name: "uint256", data: b[:]}
}

func Uint64(v uint64) Field {
	return Uint256(uint256.NewInt(v))
}

func Uint8(v uint8) Field {
	return Field{name: "uint8", data: []byte{v}}
}

func Address(a common.Address) Field {
	return Field{name: "address", data: a.Bytes()}
}

func Bytes32(h common.Hash) Field {
	return Field{name: "bytes32", data: h.Bytes()}
}

func String(s string) Field {
	return Field{name: "string", data: []byte(s)}
}

// Uint256Array packs every element as a full 32 byte word, which is how
// encodePacked treats array members regardless of element width.
func Uint256Array(vs []uint64) Field {
	data := make([]byte, 0, len(vs)*32)
	for _, v := range vs {
		b := uint256.NewInt(v).Bytes32()
		data = append(data, b[:]...)
	}
	return Field{name: "uint256[]", data: data}
}

func (f Field) Type() string { return f.name }

// Packed concatenates the fields without padding or length prefixes.
func Packed(fields ...Field) []byte {
	n := 0
	for _, f := range fields {
		n += len(f.data)
	}
	out := make([]byte, 0, n)
	for _, f := range fields {
		out = append(out, f.data...)
	}
	return out
}

// Digest is keccak256(abi.encodePacked(fields...)).
func Digest(fields ...Field) common.Hash {
	h := sha3.NewLegacyKeccak256()
	for _, f := range fields {
		h.Write(f.data)
	}
	var out common.Hash
	h.Sum(out[:0])
	return out
}
