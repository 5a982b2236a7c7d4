package bintrie

import (
	"bytes"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// AllKeys makes CollectKeys return keys of every length.
const AllKeys = -1

// Key is a byte key usable as a map or set element.
type Key string

func (k Key) Bytes() []byte { return []byte(k) }

// Trie is an immutable binary trie node. Every mutation returns a new root
// and shares the unchanged subtrees with the receiver, which stays valid.
//
// A node holds the shared path it compresses, an optional value and up to
// two children. The bit selecting a child is implicit and is not part of the
// child's shared path.
//
// Trie is not safe for concurrent use: resolved children and hashes are
// memoized in place.
type Trie struct {
	sharedPath  KeySlice
	value       []byte
	valueLength uint32
	valueHash   *common.Hash
	left, right *nodeRef

	hash  *common.Hash
	saved bool

	reader NodeReader
	hasher Hasher
}

// New returns an empty trie whose persisted nodes are resolved through
// reader. A nil hasher selects keccak.
func New(reader NodeReader, hasher Hasher) *Trie {
	if hasher == nil {
		hasher = NewHasher()
	}
	return &Trie{reader: reader, hasher: hasher}
}

// NewEmpty returns an in-memory empty trie using keccak.
func NewEmpty() *Trie { return New(nil, nil) }

// EmptyRootHash is the hash of an empty trie under hasher.
func EmptyRootHash(hasher Hasher) common.Hash {
	return New(nil, hasher).Hash()
}

func (t *Trie) newNode(path KeySlice, value []byte, valueLength uint32, valueHash *common.Hash, left, right *nodeRef) *Trie {
	return &Trie{
		sharedPath:  path,
		value:       value,
		valueLength: valueLength,
		valueHash:   valueHash,
		left:        left,
		right:       right,
		reader:      t.reader,
		hasher:      t.hasher,
	}
}

func (t *Trie) newLeaf(path KeySlice, value []byte) *Trie {
	var valueHash *common.Hash
	if len(value) > MaxShortValueLength {
		h := crypto.Keccak256Hash(value)
		valueHash = &h
	}
	// Oversized lengths saturate just above the bound so that they cannot wrap.
	valueLength := uint32(min(len(value), MaxValueLength+1))
	return t.newNode(path, common.CopyBytes(value), valueLength, valueHash, nil, nil)
}

// Reader returns the node reader this trie resolves children with.
func (t *Trie) Reader() NodeReader { return t.reader }

// Hasher returns the node hasher of the trie.
func (t *Trie) Hasher() Hasher { return t.hasher }

// Get returns the value stored under key, or nil.
func (t *Trie) Get(key []byte) []byte {
	if node := t.Find(key); node != nil {
		return node.Value()
	}
	return nil
}

// Find returns the node whose full path is exactly key, or nil.
func (t *Trie) Find(key []byte) *Trie {
	return t.find(NewKeySlice(key))
}

func (t *Trie) find(key KeySlice) *Trie {
	node := t
	for {
		if node.sharedPath.Len() > key.Len() {
			return nil
		}
		n := key.CommonPath(node.sharedPath).Len()
		if n < node.sharedPath.Len() {
			return nil
		}
		if n == key.Len() {
			return node
		}
		if node = node.Child(key.Get(n)); node == nil {
			return nil
		}
		key = key.Slice(n+1, key.Len())
	}
}

// Put associates key with value. An empty value deletes key.
func (t *Trie) Put(key, value []byte) *Trie {
	return t.putRoot(NewKeySlice(key), value, false)
}

// PutKey is Put for a wrapped key.
func (t *Trie) PutKey(key Key, value []byte) *Trie { return t.Put(key.Bytes(), value) }

// PutString is Put for a string key, taken as its raw bytes.
func (t *Trie) PutString(key string, value []byte) *Trie { return t.Put([]byte(key), value) }

// Delete removes the value stored under key. Nodes below key are kept.
func (t *Trie) Delete(key []byte) *Trie { return t.Put(key, nil) }

// DeleteRecursive removes key and every key it is a prefix of.
func (t *Trie) DeleteRecursive(key []byte) *Trie {
	return t.putRoot(NewKeySlice(key), nil, true)
}

func (t *Trie) putRoot(key KeySlice, value []byte, recursiveDelete bool) *Trie {
	if trie := t.put(key, value, recursiveDelete); trie != nil {
		return trie
	}
	return t.newNode(nil, nil, 0, nil, nil, nil)
}

// put returns the new node replacing t, or nil when nothing is left of it.
// Deleting may leave a valueless node with a single child; that node is
// merged with its child.
func (t *Trie) put(key KeySlice, value []byte, recursiveDelete bool) *Trie {
	if len(value) == 0 {
		value = nil
	}
	trie := t.internalPut(key, value, recursiveDelete)
	if trie == nil || value != nil {
		return trie
	}
	if trie.IsEmpty() {
		return nil
	}
	if trie.valueLength > 0 || (trie.left == nil) == (trie.right == nil) {
		return trie
	}
	bit := left
	if trie.left == nil {
		bit = right
	}
	child := trie.Child(bit)
	if child == nil {
		return trie
	}
	path := trie.sharedPath.Rebuild(bit, child.sharedPath)
	return t.newNode(path, child.value, child.valueLength, child.valueHash, child.left, child.right)
}

func (t *Trie) internalPut(key KeySlice, value []byte, recursiveDelete bool) *Trie {
	commonPath := key.CommonPath(t.sharedPath)
	if commonPath.Len() < t.sharedPath.Len() {
		if value == nil {
			if recursiveDelete && commonPath.Len() == key.Len() {
				// key ends inside this node's path: the whole node is below it.
				return nil
			}
			return t
		}
		return t.split(commonPath).internalPut(key, value, recursiveDelete)
	}

	if t.sharedPath.Len() >= key.Len() {
		if recursiveDelete {
			return nil
		}
		if t.valueLength == uint32(len(value)) && bytes.Equal(t.Value(), value) {
			return t
		}
		if value == nil && t.left == nil && t.right == nil {
			return nil
		}
		leaf := t.newLeaf(t.sharedPath, value)
		leaf.left, leaf.right = t.left, t.right
		return leaf
	}

	if t.IsEmpty() {
		if value == nil {
			return t
		}
		return t.newLeaf(key, value)
	}

	bit := key.Get(t.sharedPath.Len())
	child := t.Child(bit)
	if child == nil {
		if value == nil {
			return t
		}
		child = t.newNode(nil, nil, 0, nil, nil, nil)
	}
	newChild := child.put(key.Slice(t.sharedPath.Len()+1, key.Len()), value, recursiveDelete)
	if newChild == child {
		return t
	}
	newLeft, newRight := t.left, t.right
	if bit == left {
		newLeft = newNodeRef(newChild)
	} else {
		newRight = newNodeRef(newChild)
	}
	if t.valueLength == 0 && newLeft == nil && newRight == nil {
		return nil
	}
	return t.newNode(t.sharedPath, t.value, t.valueLength, t.valueHash, newLeft, newRight)
}

// split cuts the shared path after commonPath, pushing the rest of the node
// one level down.
func (t *Trie) split(commonPath KeySlice) *Trie {
	n := commonPath.Len()
	child := t.newNode(t.sharedPath.Slice(n+1, t.sharedPath.Len()), t.value, t.valueLength, t.valueHash, t.left, t.right)
	parent := t.newNode(commonPath, nil, 0, nil, nil, nil)
	if t.sharedPath.Get(n) == left {
		parent.left = newNodeRef(child)
	} else {
		parent.right = newNodeRef(child)
	}
	return parent
}

// CollectKeys returns every key of exactly size bytes holding a value, or
// every key when size is AllKeys.
func (t *Trie) CollectKeys(size int) mapset.Set[Key] {
	keys := mapset.NewThreadUnsafeSet[Key]()
	t.collectKeys(keys, t.sharedPath, size)
	return keys
}

func (t *Trie) collectKeys(keys mapset.Set[Key], path KeySlice, size int) {
	if size != AllKeys && path.Len() > size*8 {
		return
	}
	if t.valueLength > 0 && (size == AllKeys || path.Len() == size*8) {
		keys.Add(Key(path.Encode()))
	}
	for _, bit := range [2]byte{left, right} {
		if child := t.Child(bit); child != nil {
			child.collectKeys(keys, path.Rebuild(bit, child.sharedPath), size)
		}
	}
}

// SnapshotTo returns the trie whose root hash is hash: the receiver itself,
// an empty trie, or a root loaded through the reader.
func (t *Trie) SnapshotTo(hash common.Hash) (*Trie, error) {
	if t.Hash() == hash {
		return t, nil
	}
	if hash == EmptyRootHash(t.hasher) {
		return New(t.reader, t.hasher), nil
	}
	if t.reader == nil {
		return nil, fmt.Errorf("%w: %x", ErrMissingNode, hash)
	}
	blob, err := t.reader.Node(hash)
	if err != nil {
		return nil, err
	}
	return DecodeNode(hash, blob, t.reader, t.hasher)
}
