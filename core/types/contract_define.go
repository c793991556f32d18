package types

import (
	"io"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/bin"
)

// ContractDefine is the persisted record of a deployed contract, CreateContract rebuilds the
// instance from it whenever the contract is loaded
//
// Owner is the sender of the deployment and is handed to Init as the master of the contract.
// A sale is owned by whoever deployed it unless its construction names an owner,
// and the ledger a sale deploys is owned by that sale
type ContractDefine struct {
	Address common.Address
	Owner   common.Address
	ClassID uint64
}

// Clone returns a copy which can be staged in a child context
func (s *ContractDefine) Clone() *ContractDefine {
	return &ContractDefine{
		Address: s.Address,
		Owner:   s.Owner,
		ClassID: s.ClassID,
	}
}

// WriteTo writes the address, the owner and the class id in order
func (s *ContractDefine) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Address(w, s.Address); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Owner); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.ClassID); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *ContractDefine) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Address(r, &s.Address); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Owner); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.ClassID); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
