package token

import (
	"bytes"
	"io"
	"sort"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
)

// DefaultSupply is minted to the owner when no initial supply is given
var DefaultSupply = amount.NewAmount(1000000000, 0)

type TokenContractConstruction struct {
	Name   string
	Symbol string
	// Owner defaults to the deployer
	Owner            common.Address
	InitialSupplyMap map[common.Address]*amount.Amount
}

func (s *TokenContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.String(w, s.Name); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Owner); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, uint32(len(s.InitialSupplyMap))); err != nil {
		return sum, err
	}
	for _, k := range sortedHolders(s.InitialSupplyMap) {
		if sum, err := sw.Address(w, k); err != nil {
			return sum, err
		}
		if sum, err := sw.Amount(w, s.InitialSupplyMap[k]); err != nil {
			return sum, err
		}
	}
	return sw.Sum(), nil
}

func (s *TokenContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.String(r, &s.Name); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.Symbol); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Owner); err != nil {
		return sum, err
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		s.InitialSupplyMap = map[common.Address]*amount.Amount{}
		for i := uint32(0); i < Len; i++ {
			var addr common.Address
			if sum, err := sr.Address(r, &addr); err != nil {
				return sum, err
			}
			var am *amount.Amount
			if sum, err := sr.Amount(r, &am); err != nil {
				return sum, err
			}
			s.InitialSupplyMap[addr] = am
		}
	}
	return sr.Sum(), nil
}

func sortedHolders(m map[common.Address]*amount.Amount) []common.Address {
	keys := make([]common.Address, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}
