package bintrie

import (
	"bytes"
	"strings"
)

// KeySlice is an expanded trie path, one byte per bit: 0 left, 1 right.
// Slices share their backing array; Rebuild always allocates.
type KeySlice []byte

const (
	left  = byte(0)
	right = byte(1)
)

// NewKeySlice expands every bit of key, most significant bit first.
func NewKeySlice(key []byte) KeySlice {
	return NewKeySliceWithLength(key, len(key)*8)
}

// NewKeySliceWithLength expands the first length bits of packed.
func NewKeySliceWithLength(packed []byte, length int) KeySlice {
	path := make(KeySlice, length)
	for n := 0; n < length; n++ {
		if packed[n/8]&(0x80>>(n%8)) != 0 {
			path[n] = right
		}
	}
	return path
}

func (p KeySlice) Len() int            { return len(p) }
func (p KeySlice) Get(i int) byte      { return p[i] }
func (p KeySlice) GetOther(i int) byte { return p[i] ^ right }

// Slice returns the bits in [from, to).
func (p KeySlice) Slice(from, to int) KeySlice { return p[from:to:to] }

// CommonPath returns the longest prefix shared by p and other.
func (p KeySlice) CommonPath(other KeySlice) KeySlice {
	n := min(len(p), len(other))
	i := 0
	for ; i < n && p[i] == other[i]; i++ {
	}
	return p.Slice(0, i)
}

// Rebuild returns p || implicitBit || child, the full path of a child node
// hanging below a node whose own path is p.
func (p KeySlice) Rebuild(implicitBit byte, child KeySlice) KeySlice {
	path := make(KeySlice, 0, len(p)+1+len(child))
	path = append(path, p...)
	path = append(path, implicitBit)
	return append(path, child...)
}

// Encode packs the bits into ceil(len/8) bytes. A trailing partial byte is
// left aligned and padded with zero bits.
func (p KeySlice) Encode() []byte {
	encoded := make([]byte, (len(p)+7)/8)
	for i, bit := range p {
		if bit == right {
			encoded[i/8] |= 0x80 >> (i % 8)
		}
	}
	return encoded
}

func (p KeySlice) Equal(other KeySlice) bool { return bytes.Equal(p, other) }

func (p KeySlice) String() string {
	var b strings.Builder
	for _, bit := range p {
		b.WriteByte('0' + bit)
	}
	return b.String()
}
