package bintrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreOrderIterator(t *testing.T) {
	trie := NewEmpty().Put([]byte{0x80}, []byte{2}).Put([]byte{0x00}, []byte{1})
	it := trie.PreOrderIterator()

	require.True(t, it.HasNext())
	elem, err := it.Next()
	require.NoError(t, err)
	assert.Same(t, trie, elem.Node)
	assert.Equal(t, 0, elem.NodeKey.Len())
	assert.False(t, elem.Node.HasValue())

	var keys, values [][]byte
	for it.HasNext() {
		elem, err := it.Next()
		require.NoError(t, err)
		keys = append(keys, elem.NodeKey.Encode())
		values = append(values, elem.Node.Value())
	}
	assert.Equal(t, [][]byte{{0x00}, {0x80}}, keys)
	assert.Equal(t, [][]byte{{1}, {2}}, values)

	_, err = it.Next()
	assert.ErrorIs(t, err, ErrIteratorExhausted)
}

func TestPreOrderIteratorVisitsParentsFirst(t *testing.T) {
	trie := NewEmpty().
		Put([]byte{0x01}, []byte("a")).
		Put([]byte{0x01, 0x00}, []byte("b")).
		Put([]byte{0x01, 0xff}, []byte("c"))

	var keys [][]byte
	for it := trie.PreOrderIterator(); it.HasNext(); {
		elem, err := it.Next()
		require.NoError(t, err)
		if elem.Node.HasValue() {
			keys = append(keys, elem.NodeKey.Encode())
		}
	}
	assert.Equal(t, [][]byte{{0x01}, {0x01, 0x00}, {0x01, 0xff}}, keys)
}

func TestPreOrderIteratorFromSubtree(t *testing.T) {
	trie := NewEmpty().
		Put([]byte{0x0f}, []byte("root")).
		Put([]byte{0x0f, 0x00}, []byte("left")).
		Put([]byte{0x0f, 0x80}, []byte("right"))
	sub := trie.Find([]byte{0x0f})
	require.NotNil(t, sub)

	it := sub.PreOrderIterator()
	first, err := it.Next()
	require.NoError(t, err)
	assert.Same(t, sub, first.Node)

	// Keys below the start node extend its own path, not the full key.
	var count int
	for it.HasNext() {
		elem, err := it.Next()
		require.NoError(t, err)
		if elem.Node.HasValue() {
			assert.Equal(t, first.NodeKey.Len()+8, elem.NodeKey.Len())
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestPreOrderIteratorResolvesStoredNodes(t *testing.T) {
	reader := newMemReader()
	input := newTestInputFixedCount(50)
	trie := input.applyTrie(New(reader, nil))
	require.NoError(t, reader.saveAll(trie))

	loaded, err := DecodeNode(trie.Hash(), reader.nodes[trie.Hash()], reader, nil)
	require.NoError(t, err)

	var count int
	for it := loaded.PreOrderIterator(); it.HasNext(); {
		elem, err := it.Next()
		require.NoError(t, err)
		if elem.Node.HasValue() {
			assert.Equal(t, loaded.Get(elem.NodeKey.Encode()), elem.Node.Value())
			count++
		}
	}
	assert.Equal(t, input.len(), count)
}
