package params

// Key layout of the unified state trie. Every account lives under
//
//	DomainPrefix || keccak(address)[:SecureKeySize] || address
//
// and its storage slots under
//
//	accountKey || StoragePrefix || keccak(slot)[:SecureKeySize] || slot without leading zeros
var (
	DomainPrefix  = [...]byte{0x00}
	StoragePrefix = [...]byte{0x00} // the first storage bit is 0
	CodePrefix    = [...]byte{0x80} // the first code bit is 1
)

const (
	// SecureKeySize is the number of keccak bytes placed before a raw key to
	// balance the trie.
	SecureKeySize = 10

	// StoragePrefixByteLength is the length of StoragePrefix.
	StoragePrefixByteLength = len(StoragePrefix)

	// StorageKeyOffset is the bit offset, within the path of a storage node
	// relative to the account's storage root, at which the raw slot key starts.
	// The storage root's own path excludes the bit that selects it below the
	// account node, hence the minus one.
	StorageKeyOffset = (StoragePrefixByteLength+SecureKeySize)*8 - 1

	// StorageRootMarker is stored at the storage prefix key of every contract.
	StorageRootMarker = byte(0x01)
)
