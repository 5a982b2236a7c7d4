package bintrie

import (
	"math/rand"

	"github.com/ethereum/go-ethereum/common"
)

type testInput struct {
	keys   []string
	values []string
}

func newTestInputFixedCount(count int) *testInput {
	return (&testInput{}).generate(count, rand.New(rand.NewSource(1)))
}

func (t *testInput) generate(count int, rnd *rand.Rand) *testInput {
	for i := 0; i < count; i++ {
		t.keys = append(t.keys, randomString(rnd, 32))
		t.values = append(t.values, randomString(rnd, 1+rnd.Intn(64)))
	}
	return t
}

func (t *testInput) applyTrie(trie *Trie) *Trie {
	t.forEach(func(k, v []byte) { trie = trie.Put(k, v) })
	return trie
}

func (t *testInput) forEach(callback func(k, v []byte)) {
	for i := 0; i < t.len(); i++ {
		callback([]byte(t.keys[i]), []byte(t.values[i]))
	}
}

func (t *testInput) len() int { return len(t.keys) }

func randomString(rnd *rand.Rand, strlen int) string {
	b := make([]byte, strlen)
	rnd.Read(b)
	return string(b)
}

// memReader is a NodeReader over plain maps, filled by saveAll.
type memReader struct {
	nodes  map[common.Hash][]byte
	values map[common.Hash][]byte
}

func newMemReader() *memReader {
	return &memReader{nodes: make(map[common.Hash][]byte), values: make(map[common.Hash][]byte)}
}

func (r *memReader) Node(hash common.Hash) ([]byte, error) {
	if blob, ok := r.nodes[hash]; ok {
		return blob, nil
	}
	return nil, ErrMissingNode
}

func (r *memReader) Value(hash common.Hash) ([]byte, error) {
	if value, ok := r.values[hash]; ok {
		return value, nil
	}
	return nil, ErrMissingNode
}

func (r *memReader) saveAll(t *Trie) error {
	return t.Commit(func(n *Trie) error {
		blob, err := n.Encode()
		if err != nil {
			return err
		}
		r.nodes[n.Hash()] = blob
		if n.HasLongValue() {
			r.values[n.ValueHash()] = n.Value()
		}
		n.MarkSaved()
		return nil
	})
}
