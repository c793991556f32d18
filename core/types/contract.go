package types

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
)

// Contract defines engine contract functions
type Contract interface {
	Address() common.Address
	Master() common.Address
	Init(addr common.Address, master common.Address)
	OnCreate(cc *ContractContext, Args []byte) error
	Front() interface{}
}

// Receiver is implemented by contracts that accept plain value transfers
type Receiver interface {
	OnReceive(cc *ContractContext, value *amount.Amount) error
}

// Payable is implemented by contracts that accept value on method calls
type Payable interface {
	IsPayable(MethodName string) bool
}

// ContractLoader is the read only view of a contract storage
type ContractLoader interface {
	ContractData(name []byte) []byte
	AccountData(addr common.Address, name []byte) []byte
	LastTimestamp() uint64
	From() common.Address
}
