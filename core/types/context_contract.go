package types

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/pkg/errors"
)

// ContractContext is an context for the contract
type ContractContext struct {
	cont  common.Address
	from  common.Address
	value *amount.Amount
	ctx   *Context
	Exec  ExecFunc
}

// LastTimestamp returns the block time
func (cc *ContractContext) LastTimestamp() uint64 {
	return cc.ctx.LastTimestamp()
}

// From returns the address of the caller
func (cc *ContractContext) From() common.Address {
	return cc.from
}

// Address returns the address of the running contract
func (cc *ContractContext) Address() common.Address {
	return cc.cont
}

// Value returns the native value attached to the call
func (cc *ContractContext) Value() *amount.Amount {
	return cc.value.Clone()
}

// ContractData returns the contract data from the top snapshot
func (cc *ContractContext) ContractData(name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, common.Address{}, name)
}

// SetContractData inserts the contract data to the top snapshot
func (cc *ContractContext) SetContractData(name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, common.Address{}, name, value)
}

// AccountData returns the account data from the top snapshot
func (cc *ContractContext) AccountData(addr common.Address, name []byte) []byte {
	return cc.ctx.Top().Data(cc.cont, addr, name)
}

// SetAccountData inserts the account data to the top snapshot
func (cc *ContractContext) SetAccountData(addr common.Address, name []byte, value []byte) {
	cc.ctx.Top().SetData(cc.cont, addr, name, value)
}

// IsContract returns is the contract
func (cc *ContractContext) IsContract(addr common.Address) bool {
	return cc.ctx.Top().IsContract(addr)
}

// Balance returns the native value held by the address
func (cc *ContractContext) Balance(addr common.Address) *amount.Amount {
	return cc.ctx.Top().Balance(addr)
}

// SelfBalance returns the native value held by the running contract
func (cc *ContractContext) SelfBalance() *amount.Amount {
	return cc.ctx.Top().Balance(cc.cont)
}

// DeployContract deploys a contract owned by the running contract
func (cc *ContractContext) DeployContract(ClassID uint64, Args []byte) (Contract, error) {
	return cc.ctx.deployContract(cc.cont, ClassID, Args)
}

// CanReceive returns true when SendValue to the address can succeed,
// an account always can and a contract only when it implements Receiver
func (cc *ContractContext) CanReceive(addr common.Address) bool {
	if !cc.ctx.Top().IsContract(addr) {
		return true
	}
	cont, err := cc.ctx.Contract(addr)
	if err != nil {
		return false
	}
	_, ok := cont.(Receiver)
	return ok
}

// SendValue moves native value out of the custody of the running contract.
// A contract recipient must implement Receiver and its hook runs before SendValue returns.
func (cc *ContractContext) SendValue(to common.Address, am *amount.Amount) error {
	if am == nil || am.IsMinus() {
		return errors.WithStack(ErrInvalidValue)
	}
	if am.IsZero() {
		return nil
	}
	if !cc.ctx.Top().IsContract(to) {
		return cc.ctx.transferValue(cc.cont, to, am)
	}

	cont, err := cc.ctx.Contract(to)
	if err != nil {
		return err
	}
	rv, ok := cont.(Receiver)
	if !ok {
		return errors.Wrapf(ErrNotPayable, "contract %v", to.String())
	}
	sn := cc.ctx.Snapshot()
	if err := cc.ctx.transferValue(cc.cont, to, am); err != nil {
		cc.ctx.Revert(sn)
		return err
	}
	ecc := &ContractContext{
		cont:  to,
		from:  cc.cont,
		value: am.Clone(),
		ctx:   cc.ctx,
		Exec:  cc.Exec,
	}
	if err := protect(to, "OnReceive", func() error {
		return rv.OnReceive(ecc, am.Clone())
	}); err != nil {
		cc.ctx.Revert(sn)
		return err
	}
	cc.ctx.Commit(sn)
	return nil
}
