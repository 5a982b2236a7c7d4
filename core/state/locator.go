package state

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/kroma-network/statetrie/trie"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

// Locator opens repositories at historical state roots of a store.
type Locator struct {
	store  *trie.Database
	logger log.Logger
}

func NewLocator(store *trie.Database) *Locator {
	return &Locator{store: store, logger: log.New("trie", "Locator")}
}

// SnapshotAt opens the repository at root. It fails when the store does not
// hold that root.
func (l *Locator) SnapshotAt(root common.Hash) (*Repository, error) {
	t, err := l.store.NewEmptyTrie().SnapshotTo(root)
	if err != nil {
		return nil, err
	}
	return NewRepository(NewMutableTrie(l.store, t)), nil
}

// FindSnapshotAt is SnapshotAt reporting unknown roots with ok=false.
func (l *Locator) FindSnapshotAt(root common.Hash) (*Repository, bool) {
	repo, err := l.SnapshotAt(root)
	if err != nil {
		if !errors.Is(err, bintrie.ErrMissingNode) {
			l.logger.Error("failed to FindSnapshotAt", "root", root, "error", err)
		}
		return nil, false
	}
	return repo, true
}

// Latest opens the repository at the store head.
func (l *Locator) Latest() (*Repository, error) {
	return l.SnapshotAt(l.store.Head())
}
