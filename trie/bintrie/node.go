package bintrie

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/rlp"
)

// MaxShortValueLength is the largest value stored inline in its node.
// Longer values are kept apart, keyed by their keccak hash.
const MaxShortValueLength = 32

var (
	ErrMissingNode = errors.New("missing trie node")
	ErrInvalidNode = errors.New("invalid trie node encoding")
)

// NodeReader resolves persisted nodes and long values by hash.
type NodeReader interface {
	Node(hash common.Hash) ([]byte, error)
	Value(hash common.Hash) ([]byte, error)
}

// nodeRef points at a child either in memory, by hash, or both once the
// hash has been resolved.
type nodeRef struct {
	node *Trie
	hash *common.Hash
}

func newNodeRef(node *Trie) *nodeRef {
	if node == nil {
		return nil
	}
	return &nodeRef{node: node}
}

func (r *nodeRef) Hash() common.Hash {
	if r.hash == nil {
		h := r.node.Hash()
		r.hash = &h
	}
	return *r.hash
}

// rlpNode is the persisted form of a node. Left and Right carry child
// hashes, ValueHash is set only for long values.
type rlpNode struct {
	Path      []byte
	PathBits  uint64
	Value     []byte
	ValueHash []byte
	ValueLen  uint64
	Left      []byte
	Right     []byte
}

// Encode returns the canonical encoding of the node, which is the input of
// its content hash.
func (t *Trie) Encode() ([]byte, error) {
	enc := rlpNode{
		Path:     t.sharedPath.Encode(),
		PathBits: uint64(t.sharedPath.Len()),
		ValueLen: uint64(t.valueLength),
	}
	if t.HasLongValue() {
		enc.ValueHash = t.valueHash.Bytes()
	} else {
		enc.Value = t.value
	}
	if t.left != nil {
		enc.Left = t.left.Hash().Bytes()
	}
	if t.right != nil {
		enc.Right = t.right.Hash().Bytes()
	}
	return rlp.EncodeToBytes(&enc)
}

// DecodeNode rebuilds the node persisted under hash. The node is marked as
// saved and its children are resolved lazily through reader.
func DecodeNode(hash common.Hash, blob []byte, reader NodeReader, hasher Hasher) (*Trie, error) {
	if hasher == nil {
		hasher = NewHasher()
	}
	var enc rlpNode
	if err := rlp.DecodeBytes(blob, &enc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidNode, err)
	}
	if enc.PathBits > 8*uint64(len(enc.Path)) || uint64(len(enc.Path)) != (enc.PathBits+7)/8 {
		return nil, fmt.Errorf("%w: path of %d bits in %d bytes", ErrInvalidNode, enc.PathBits, len(enc.Path))
	}
	if enc.ValueLen > MaxValueLength {
		return nil, fmt.Errorf("%w: value length %d", ErrInvalidNode, enc.ValueLen)
	}
	t := &Trie{
		sharedPath:  NewKeySliceWithLength(enc.Path, int(enc.PathBits)),
		valueLength: uint32(enc.ValueLen),
		reader:      reader,
		hasher:      hasher,
		hash:        &hash,
		saved:       true,
	}
	switch {
	case enc.ValueLen > MaxShortValueLength:
		if len(enc.ValueHash) != common.HashLength || len(enc.Value) != 0 {
			return nil, fmt.Errorf("%w: long value without hash", ErrInvalidNode)
		}
		vh := common.BytesToHash(enc.ValueHash)
		t.valueHash = &vh
	case uint64(len(enc.Value)) != enc.ValueLen || len(enc.ValueHash) != 0:
		return nil, fmt.Errorf("%w: value length mismatch", ErrInvalidNode)
	case enc.ValueLen > 0:
		t.value = enc.Value
	}
	var err error
	if t.left, err = decodeRef(enc.Left); err != nil {
		return nil, err
	}
	if t.right, err = decodeRef(enc.Right); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeRef(b []byte) (*nodeRef, error) {
	switch len(b) {
	case 0:
		return nil, nil
	case common.HashLength:
		h := common.BytesToHash(b)
		return &nodeRef{hash: &h}, nil
	default:
		return nil, fmt.Errorf("%w: child reference of %d bytes", ErrInvalidNode, len(b))
	}
}

// MaxValueLength is the uint24 bound on value sizes. Longer values can live
// in memory but are rejected when persisted.
const MaxValueLength = 1<<24 - 1

func (t *Trie) SharedPath() KeySlice { return t.sharedPath }
func (t *Trie) ValueLength() uint32  { return t.valueLength }
func (t *Trie) HasValue() bool       { return t.valueLength > 0 }
func (t *Trie) HasLongValue() bool   { return t.valueLength > MaxShortValueLength }
func (t *Trie) IsSaved() bool        { return t.saved }

// MarkSaved records that the node and everything below it are persisted.
func (t *Trie) MarkSaved() { t.saved = true }

// IsEmpty reports whether the node has neither value nor children.
func (t *Trie) IsEmpty() bool {
	return t.valueLength == 0 && t.left == nil && t.right == nil
}

// Value returns the value stored at this node, loading long values from the
// reader when needed. It returns nil when the node has no value.
func (t *Trie) Value() []byte {
	if t.valueLength == 0 {
		return nil
	}
	if t.value == nil && t.valueHash != nil {
		t.value = t.loadValue(*t.valueHash)
	}
	return t.value
}

func (t *Trie) loadValue(hash common.Hash) []byte {
	if t.reader == nil {
		log.Error("Long trie value without node reader", "hash", hash)
		return nil
	}
	value, err := t.reader.Value(hash)
	if err != nil {
		log.Error("Failed to read long trie value", "hash", hash, "err", err)
		return nil
	}
	return value
}

// ValueHash returns the keccak hash of the value, or the zero hash when the
// node has none.
func (t *Trie) ValueHash() common.Hash {
	if t.valueLength == 0 {
		return common.Hash{}
	}
	if t.valueHash == nil {
		h := crypto.Keccak256Hash(t.value)
		t.valueHash = &h
	}
	return *t.valueHash
}

// Hash returns the content hash of the node.
func (t *Trie) Hash() common.Hash {
	if t.hash == nil {
		blob, err := t.Encode()
		if err != nil {
			// Every field of rlpNode is a byte slice or an integer.
			panic(fmt.Sprintf("failed to encode trie node: %v", err))
		}
		h := t.hasher.Hash(blob)
		t.hash = &h
	}
	return *t.hash
}

// Child returns the child reached through bit, resolving it from the reader
// if it is only known by hash. It returns nil when there is no such child.
func (t *Trie) Child(bit byte) *Trie {
	ref := t.ref(bit)
	if ref == nil {
		return nil
	}
	if ref.node == nil {
		ref.node = t.resolve(*ref.hash)
	}
	return ref.node
}

func (t *Trie) ref(bit byte) *nodeRef {
	if bit == right {
		return t.right
	}
	return t.left
}

func (t *Trie) resolve(hash common.Hash) *Trie {
	if t.reader == nil {
		log.Error("Trie node referenced by hash without node reader", "hash", hash)
		return nil
	}
	blob, err := t.reader.Node(hash)
	if err != nil {
		log.Error("Failed to read trie node", "hash", hash, "err", err)
		return nil
	}
	node, err := DecodeNode(hash, blob, t.reader, t.hasher)
	if err != nil {
		log.Error("Failed to decode trie node", "hash", hash, "blob", blob, "err", err)
		return nil
	}
	return node
}

// Commit calls handleDirtyNode for every node reachable from t that has not
// been saved yet, children before parents. Children only known by hash were
// loaded from storage and are skipped.
func (t *Trie) Commit(handleDirtyNode func(dirtyNode *Trie) error) error {
	if t.saved {
		return nil
	}
	for _, ref := range [2]*nodeRef{t.left, t.right} {
		if ref == nil || ref.node == nil {
			continue
		}
		if err := ref.node.Commit(handleDirtyNode); err != nil {
			return err
		}
	}
	return handleDirtyNode(t)
}

func (t *Trie) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "node(path=%v len=%d", t.sharedPath, t.valueLength)
	if t.left != nil {
		fmt.Fprintf(&b, " left=%x", t.left.Hash())
	}
	if t.right != nil {
		fmt.Fprintf(&b, " right=%x", t.right.Hash())
	}
	b.WriteString(")")
	return b.String()
}
