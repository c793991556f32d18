package hash

import (
	"math/big"

	ecommon "github.com/ethereum/go-ethereum/common"
	ecrypto "github.com/ethereum/go-ethereum/crypto"
)

type Hash256 = ecommon.Hash

// HashLength is the expected length of the hash
const HashLength = ecommon.HashLength

// BigToHash sets byte representation of b to hash.
func BigToHash(b *big.Int) Hash256 {
	return ecommon.BigToHash(b)
}

// HexToHash sets byte representation of s to hash.
func HexToHash(s string) Hash256 {
	return ecommon.HexToHash(s)
}

// Hash calculates and returns the keccak256 hash of the input data.
func Hash(data ...[]byte) Hash256 {
	return ecrypto.Keccak256Hash(data...)
}

// Hashes returns the result of Hash(h1+'h'+...)
func Hashes(hs ...Hash256) Hash256 {
	if len(hs) == 0 {
		return Hash()
	}
	data := make([]byte, 0, (HashLength+1)*len(hs)-1)
	for i, h := range hs {
		data = append(data, h[:]...)
		if i < len(hs)-1 {
			data = append(data, 'h')
		}
	}
	return Hash(data)
}
