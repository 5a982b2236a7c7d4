package state

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/kroma-network/statetrie/core/types"
	"github.com/kroma-network/statetrie/crypto/codehash"
	"github.com/kroma-network/statetrie/params"
	"github.com/kroma-network/statetrie/trie/bintrie"
)

// Repository reads and writes accounts, contract storage and code on top of
// a MutableTrie. Tries hashed with poseidon store accounts and code hashes in
// their zk form.
type Repository struct {
	trie   MutableTrie
	keys   *KeyMapper
	isZk   bool
	logger log.Logger
}

func NewRepository(mt MutableTrie) *Repository {
	return &Repository{
		trie:   mt,
		keys:   NewKeyMapper(),
		isZk:   bintrie.IsZkHasher(mt.Trie().Hasher()),
		logger: log.New("trie", "Repository"),
	}
}

func (r *Repository) MutableTrie() MutableTrie { return r.trie }

// CreateAccount stores an empty account at addr, replacing any previous one.
func (r *Repository) CreateAccount(addr common.Address) (*types.AccountState, error) {
	acct := types.NewEmptyAccountState()
	if err := r.UpdateAccountState(addr, acct); err != nil {
		return nil, err
	}
	return acct, nil
}

func (r *Repository) IsExist(addr common.Address) bool {
	return r.trie.GetValueLength(r.keys.AccountKey(addr)) > 0
}

// GetAccountState returns nil when the account does not exist.
func (r *Repository) GetAccountState(addr common.Address) (*types.AccountState, error) {
	data := r.trie.Get(r.keys.AccountKey(addr))
	if data == nil {
		return nil, nil
	}
	return types.DecodeAccountState(data, r.isZk)
}

func (r *Repository) UpdateAccountState(addr common.Address, acct *types.AccountState) error {
	data, err := acct.Encode(r.isZk)
	if err != nil {
		return err
	}
	r.trie.Put(r.keys.AccountKey(addr), data)
	return nil
}

func (r *Repository) GetNonce(addr common.Address) (uint64, error) {
	acct, err := r.GetAccountState(addr)
	if err != nil || acct == nil {
		return 0, err
	}
	return acct.Nonce, nil
}

func (r *Repository) IncreaseNonce(addr common.Address) (uint64, error) {
	acct, err := r.getOrCreateAccountState(addr)
	if err != nil {
		return 0, err
	}
	acct.Nonce++
	return acct.Nonce, r.UpdateAccountState(addr, acct)
}

func (r *Repository) GetBalance(addr common.Address) (*big.Int, error) {
	acct, err := r.GetAccountState(addr)
	if err != nil {
		return nil, err
	}
	if acct == nil || acct.Balance == nil {
		return new(big.Int), nil
	}
	return acct.Balance, nil
}

// AddBalance adds value, which may be negative, and returns the new balance.
func (r *Repository) AddBalance(addr common.Address, value *big.Int) (*big.Int, error) {
	acct, err := r.getOrCreateAccountState(addr)
	if err != nil {
		return nil, err
	}
	acct.Balance = new(big.Int).Add(acct.Balance, value)
	return acct.Balance, r.UpdateAccountState(addr, acct)
}

func (r *Repository) getOrCreateAccountState(addr common.Address) (*types.AccountState, error) {
	acct, err := r.GetAccountState(addr)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return r.CreateAccount(addr)
	}
	if acct.Balance == nil {
		acct.Balance = new(big.Int)
	}
	return acct, nil
}

// SetupContract marks addr as a contract by creating its storage root.
func (r *Repository) SetupContract(addr common.Address) {
	r.trie.Put(r.keys.AccountStoragePrefixKey(addr), []byte{params.StorageRootMarker})
}

func (r *Repository) IsContract(addr common.Address) bool {
	return r.trie.Get(r.keys.AccountStoragePrefixKey(addr)) != nil
}

// AddStorageRow stores value in slot. The zero word deletes the slot.
func (r *Repository) AddStorageRow(addr common.Address, slot, value types.DataWord) error {
	if value.IsZero() {
		return r.AddStorageBytes(addr, slot, nil)
	}
	return r.AddStorageBytes(addr, slot, value.ByteArrayForStorage())
}

// AddStorageBytes stores raw bytes in slot. Empty bytes delete the slot.
// Missing accounts are created as contracts first.
func (r *Repository) AddStorageBytes(addr common.Address, slot types.DataWord, value []byte) error {
	if !r.IsExist(addr) {
		if _, err := r.CreateAccount(addr); err != nil {
			return err
		}
		r.SetupContract(addr)
	}
	r.trie.Put(r.keys.AccountStorageKey(addr, slot), value)
	return nil
}

func (r *Repository) GetStorageBytes(addr common.Address, slot types.DataWord) []byte {
	return r.trie.Get(r.keys.AccountStorageKey(addr, slot))
}

// GetStorageValue returns the slot as a word, or false when it is unset.
func (r *Repository) GetStorageValue(addr common.Address, slot types.DataWord) (types.DataWord, bool) {
	value := r.GetStorageBytes(addr, slot)
	if value == nil {
		return types.ZeroDataWord, false
	}
	word, err := types.DataWordFromBytes(value)
	if err != nil {
		r.logger.Warn("Storage value is not a word", "address", addr, "slot", slot, "len", len(value))
		return types.ZeroDataWord, false
	}
	return word, true
}

func (r *Repository) GetStorageKeys(addr common.Address) *StorageKeysIterator {
	return r.trie.GetStorageKeys(addr)
}

// SaveCode stores code for addr, creating the account when code is not empty.
func (r *Repository) SaveCode(addr common.Address, code []byte) error {
	r.trie.Put(r.keys.CodeKey(addr), code)
	if len(code) > 0 && !r.IsExist(addr) {
		if _, err := r.CreateAccount(addr); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) GetCode(addr common.Address) []byte {
	if !r.IsExist(addr) {
		return nil
	}
	return r.trie.Get(r.keys.CodeKey(addr))
}

func (r *Repository) GetCodeLength(addr common.Address) uint32 {
	if !r.IsExist(addr) {
		return 0
	}
	return r.trie.GetValueLength(r.keys.CodeKey(addr))
}

// GetCodeHash returns the zero hash for missing accounts and the empty code
// hash for accounts without code.
func (r *Repository) GetCodeHash(addr common.Address) common.Hash {
	if !r.IsExist(addr) {
		return common.Hash{}
	}
	key := r.keys.CodeKey(addr)
	if r.trie.GetValueLength(key) == 0 {
		return codehash.EmptyCodeHash(r.isZk)
	}
	if r.isZk {
		return codehash.PoseidonCodeHash(r.trie.Get(key))
	}
	return r.trie.GetValueHash(key)
}

// Delete removes the account together with its storage and code.
func (r *Repository) Delete(addr common.Address) {
	r.trie.DeleteRecursive(r.keys.AccountKey(addr))
}

func (r *Repository) Root() common.Hash { return r.trie.Hash() }

func (r *Repository) Save() error { return r.trie.Save() }
