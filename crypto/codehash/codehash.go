package codehash

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/iden3/go-iden3-crypto/poseidon"
)

var (
	// EmptyKeccakCodeHash is the code hash of an account without code.
	EmptyKeccakCodeHash = crypto.Keccak256Hash(nil)

	// EmptyPoseidonCodeHash is EmptyKeccakCodeHash for poseidon-hashed state.
	EmptyPoseidonCodeHash = PoseidonCodeHash(nil)
)

func KeccakCodeHash(code []byte) common.Hash { return crypto.Keccak256Hash(code) }

// PoseidonCodeHash hashes the code length followed by the code, so that codes
// differing only in trailing zero bytes get different hashes.
func PoseidonCodeHash(code []byte) common.Hash {
	input := make([]byte, 8, 8+len(code))
	binary.BigEndian.PutUint64(input, uint64(len(code)))
	h, err := poseidon.HashBytes(append(input, code...))
	if err != nil {
		// 31 byte chunks never exceed the field modulus.
		panic(err)
	}
	return common.BigToHash(h)
}

// CodeHash hashes code the way state hashed with the given scheme expects.
func CodeHash(code []byte, isZk bool) common.Hash {
	if isZk {
		return PoseidonCodeHash(code)
	}
	return KeccakCodeHash(code)
}

// EmptyCodeHash returns the hash of empty code under the given scheme.
func EmptyCodeHash(isZk bool) common.Hash {
	if isZk {
		return EmptyPoseidonCodeHash
	}
	return EmptyKeccakCodeHash
}
