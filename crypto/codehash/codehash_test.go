package codehash

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestEmptyCodeHash(t *testing.T) {
	assert.Equal(t, common.HexToHash("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"), EmptyCodeHash(false))
	assert.Equal(t, PoseidonCodeHash(nil), EmptyCodeHash(true))
	assert.NotEqual(t, EmptyCodeHash(false), EmptyCodeHash(true))
}

func TestCodeHash(t *testing.T) {
	code := []byte{0x60, 0x80, 0x60, 0x40, 0x52}
	assert.Equal(t, KeccakCodeHash(code), CodeHash(code, false))
	assert.Equal(t, PoseidonCodeHash(code), CodeHash(code, true))
	assert.NotEqual(t, CodeHash(code, false), CodeHash(code, true))
}

func TestPoseidonCodeHashLength(t *testing.T) {
	assert.NotEqual(t, PoseidonCodeHash([]byte{0x01}), PoseidonCodeHash([]byte{0x01, 0x00}))
}
