package bintrie

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKeySlice(t *testing.T) {
	assert.Equal(t, KeySlice{1, 0, 1, 0, 0, 1, 0, 1}, NewKeySlice([]byte{0xa5}))
	assert.Equal(t, KeySlice{1, 1, 1}, NewKeySliceWithLength([]byte{0xff, 0xff}, 3))
	assert.Equal(t, 0, NewKeySlice(nil).Len())
}

func TestKeySliceEncode(t *testing.T) {
	rand := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		input := []byte(randomString(rand, 1+rand.Intn(40)))
		if encoded := NewKeySlice(input).Encode(); !bytes.Equal(input, encoded) {
			t.Fatalf("encode mismatch. want %x, got %x", input, encoded)
		}
	}
	t.Run("partial byte is left aligned", func(t *testing.T) {
		assert.Equal(t, []byte{0xe0}, KeySlice{1, 1, 1}.Encode())
		assert.Equal(t, []byte{0xff, 0x80}, KeySlice{1, 1, 1, 1, 1, 1, 1, 1, 1}.Encode())
	})
	t.Run("slice from a bit offset", func(t *testing.T) {
		path := NewKeySlice([]byte{0x0f, 0x12, 0x34})
		assert.Equal(t, []byte{0x12, 0x34}, path.Slice(8, path.Len()).Encode())
		assert.Equal(t, []byte{0xf1, 0x23, 0x40}, path.Slice(4, path.Len()).Encode())
	})
}

func TestKeySliceCommonPath(t *testing.T) {
	a := NewKeySlice([]byte{0xf0})
	b := NewKeySlice([]byte{0xf8})
	assert.Equal(t, KeySlice{1, 1, 1, 1, 0}, a.CommonPath(b))
	assert.Equal(t, 0, a.CommonPath(nil).Len())
	assert.Equal(t, a, a.CommonPath(a))
}

func TestKeySliceRebuild(t *testing.T) {
	parent := KeySlice{0, 1}
	child := KeySlice{1, 1}
	rebuilt := parent.Rebuild(0, child)
	assert.Equal(t, KeySlice{0, 1, 0, 1, 1}, rebuilt)

	// Rebuild must not write into the parent's backing array.
	prefix := KeySlice{1, 0, 1, 1}.Slice(0, 2)
	_ = prefix.Rebuild(0, nil)
	_ = prefix.Rebuild(1, KeySlice{0})
	assert.Equal(t, KeySlice{1, 0}, prefix)
}
