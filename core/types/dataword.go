package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// DataWordLength is the size of a storage slot identifier and of a slot value.
const DataWordLength = 32

// DataWord is a 32 byte big-endian word, the unit of contract storage.
type DataWord [DataWordLength]byte

var ZeroDataWord = DataWord{}

// DataWordFromBytes right-aligns b into a word. Inputs longer than a word
// are rejected.
func DataWordFromBytes(b []byte) (DataWord, error) {
	var w DataWord
	if len(b) > DataWordLength {
		return w, fmt.Errorf("data word of %d bytes exceeds %d", len(b), DataWordLength)
	}
	copy(w[DataWordLength-len(b):], b)
	return w, nil
}

// MustDataWordFromBytes is DataWordFromBytes for inputs known to fit.
func MustDataWordFromBytes(b []byte) DataWord {
	w, err := DataWordFromBytes(b)
	if err != nil {
		panic(err)
	}
	return w
}

func DataWordFromUint64(v uint64) DataWord { return DataWordFromUint256(uint256.NewInt(v)) }

func DataWordFromUint256(v *uint256.Int) DataWord { return v.Bytes32() }

func DataWordFromHash(h common.Hash) DataWord { return DataWord(h) }

func (w DataWord) Bytes() []byte { return common.CopyBytes(w[:]) }

func (w DataWord) Uint256() *uint256.Int { return new(uint256.Int).SetBytes32(w[:]) }

func (w DataWord) Hash() common.Hash { return common.Hash(w) }

func (w DataWord) IsZero() bool { return w == ZeroDataWord }

// ByteArrayForStorage returns the word without its leading zero bytes. The
// zero word keeps a single zero byte so that it still yields a key suffix.
func (w DataWord) ByteArrayForStorage() []byte {
	if stripped := bytes.TrimLeft(w[:], "\x00"); len(stripped) > 0 {
		return common.CopyBytes(stripped)
	}
	return []byte{0}
}

func (w DataWord) Hex() string { return hexutil.Encode(w[:]) }

func (w DataWord) String() string { return w.Hex() }
