package state

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroma-network/statetrie/core/types"
)

func newContract(t *testing.T, addr common.Address) *Repository {
	repo := NewRepository(NewMutableTrie(nil, nil))
	_, err := repo.CreateAccount(addr)
	require.NoError(t, err)
	repo.SetupContract(addr)
	return repo
}

func TestGetStorageKeys(t *testing.T) {
	repo := newContract(t, testAddress)
	one, two := types.DataWordFromUint64(1), types.DataWordFromUint64(2)
	require.NoError(t, repo.AddStorageRow(testAddress, one, types.DataWordFromUint64(10)))
	require.NoError(t, repo.AddStorageRow(testAddress, two, types.DataWordFromUint64(20)))

	it := repo.MutableTrie().GetStorageKeys(testAddress)
	var words []types.DataWord
	for it.HasNext() {
		w, err := it.Next()
		require.NoError(t, err)
		words = append(words, w)
	}
	assert.ElementsMatch(t, []types.DataWord{one, two}, words)

	_, err := it.Next()
	assert.ErrorIs(t, err, ErrNoMoreStorageKeys)
}

func TestGetStorageKeysHasNextIsIdempotent(t *testing.T) {
	repo := newContract(t, testAddress)
	slot := types.DataWordFromUint64(42)
	require.NoError(t, repo.AddStorageRow(testAddress, slot, types.DataWordFromUint64(1)))

	it := repo.GetStorageKeys(testAddress)
	assert.True(t, it.HasNext())
	assert.True(t, it.HasNext())
	w, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, slot, w)
	assert.False(t, it.HasNext())
	assert.False(t, it.HasNext())
}

func TestGetStorageKeysWithoutStorage(t *testing.T) {
	repo := NewRepository(NewMutableTrie(nil, nil))
	it := repo.GetStorageKeys(testAddress)
	assert.False(t, it.HasNext())
	_, err := it.Next()
	assert.ErrorIs(t, err, ErrNoMoreStorageKeys)

	// A contract without slots only has its storage root.
	repo = newContract(t, testAddress)
	words, err := repo.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.Empty(t, words)
}

func TestGetStorageKeysIsolatesAccounts(t *testing.T) {
	other := common.HexToAddress("0x1111111111111111111111111111111111111111")
	repo := newContract(t, testAddress)
	_, err := repo.CreateAccount(other)
	require.NoError(t, err)
	repo.SetupContract(other)

	require.NoError(t, repo.AddStorageRow(testAddress, types.DataWordFromUint64(1), types.DataWordFromUint64(1)))
	require.NoError(t, repo.AddStorageRow(other, types.DataWordFromUint64(2), types.DataWordFromUint64(1)))
	require.NoError(t, repo.SaveCode(testAddress, []byte{0x60, 0x00}))

	words, err := repo.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.Equal(t, []types.DataWord{types.DataWordFromUint64(1)}, words)

	words, err = repo.GetStorageKeys(other).Collect()
	require.NoError(t, err)
	assert.Equal(t, []types.DataWord{types.DataWordFromUint64(2)}, words)
}

func TestGetStorageKeysRandomSlots(t *testing.T) {
	repo := newContract(t, testAddress)
	rnd := rand.New(rand.NewSource(1))
	seen := make(map[types.DataWord]bool)
	want := make([]types.DataWord, 0, 200)
	for i := 0; i < 200; i++ {
		var slot types.DataWord
		// Vary the slot length, including slots with leading zero bytes.
		rnd.Read(slot[rnd.Intn(types.DataWordLength):])
		if slot.IsZero() || seen[slot] {
			continue
		}
		seen[slot] = true
		want = append(want, slot)
		require.NoError(t, repo.AddStorageRow(testAddress, slot, types.DataWordFromUint64(uint64(i+1))))
	}
	require.NoError(t, repo.AddStorageRow(testAddress, types.ZeroDataWord, types.DataWordFromUint64(1)))
	want = append(want, types.ZeroDataWord)

	words, err := repo.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.ElementsMatch(t, want, words)

	// The order is a deterministic function of the trie.
	again, err := repo.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.Equal(t, words, again)
}

func TestGetStorageKeysAfterDelete(t *testing.T) {
	repo := newContract(t, testAddress)
	one, two := types.DataWordFromUint64(1), types.DataWordFromUint64(2)
	require.NoError(t, repo.AddStorageRow(testAddress, one, types.DataWordFromUint64(1)))
	require.NoError(t, repo.AddStorageRow(testAddress, two, types.DataWordFromUint64(1)))
	require.NoError(t, repo.AddStorageRow(testAddress, one, types.ZeroDataWord))

	words, err := repo.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.Equal(t, []types.DataWord{two}, words)
}

func TestGetStorageKeysNeedsStorageRoot(t *testing.T) {
	mt := NewMutableTrie(nil, nil)
	keys := NewKeyMapper()
	one, two := types.DataWordFromUint64(1), types.DataWordFromUint64(2)
	mt.Put(keys.AccountStorageKey(testAddress, one), []byte{1})
	mt.Put(keys.AccountStorageKey(testAddress, two), []byte{2})

	// Without a node ending at the storage prefix there is nothing to walk.
	words, err := mt.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.Empty(t, words)

	// Slot bits are located relative to the account node, so both the account
	// and its storage root must exist.
	mt.Put(keys.AccountStoragePrefixKey(testAddress), []byte{0x01})
	mt.Put(keys.AccountKey(testAddress), []byte{0x01})
	words, err = mt.GetStorageKeys(testAddress).Collect()
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.DataWord{one, two}, words)
}
