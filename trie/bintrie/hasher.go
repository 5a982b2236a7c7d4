package bintrie

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"golang.org/x/crypto/sha3"
)

// Hasher computes the content hash of an encoded node.
// Keccak is the default. Poseidon yields roots that can be checked inside a
// circuit, at a much higher cost per node.
type Hasher interface {
	Hash(data []byte) common.Hash
}

func NewHasher() Hasher { return NewKeccakHasher() }

type keccakHasher struct{}

func NewKeccakHasher() Hasher { return keccakHasher{} }

func (keccakHasher) Hash(data []byte) (h common.Hash) {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	d.Sum(h[:0])
	return h
}

type poseidonHasher struct{}

func NewPoseidonHasher() Hasher { return poseidonHasher{} }

func (poseidonHasher) Hash(data []byte) common.Hash {
	// HashBytes splits data into 31 byte chunks, which are always below the
	// field modulus, so it cannot fail on any input.
	h, err := poseidon.HashBytes(data)
	if err != nil {
		panic(err)
	}
	return common.BigToHash(h)
}

// IsZkHasher reports whether h produces circuit friendly hashes.
func IsZkHasher(h Hasher) bool {
	_, ok := h.(poseidonHasher)
	return ok
}
