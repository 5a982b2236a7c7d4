package bintrie

import "errors"

var ErrIteratorExhausted = errors.New("trie iterator has no more elements")

// IterationElement is a node visited by an iterator, together with its path
// relative to the parent of the node the iteration started from.
type IterationElement struct {
	NodeKey KeySlice
	Node    *Trie
}

// PreOrderIterator visits a node before its children, left child first.
type PreOrderIterator struct {
	visiting []*IterationElement
}

// PreOrderIterator starts a traversal of the subtree rooted at t. The first
// element is t itself, keyed by its own shared path.
func (t *Trie) PreOrderIterator() *PreOrderIterator {
	return &PreOrderIterator{visiting: []*IterationElement{{NodeKey: t.sharedPath, Node: t}}}
}

func (it *PreOrderIterator) HasNext() bool { return len(it.visiting) > 0 }

func (it *PreOrderIterator) Next() (*IterationElement, error) {
	if len(it.visiting) == 0 {
		return nil, ErrIteratorExhausted
	}
	elem := it.visiting[len(it.visiting)-1]
	it.visiting = it.visiting[:len(it.visiting)-1]
	// Push right first so that left is popped next.
	for _, bit := range [2]byte{right, left} {
		if child := elem.Node.Child(bit); child != nil {
			it.visiting = append(it.visiting, &IterationElement{
				NodeKey: elem.NodeKey.Rebuild(bit, child.sharedPath),
				Node:    child,
			})
		}
	}
	return elem, nil
}
