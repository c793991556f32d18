package token

import (
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/core/types"
)

func (cont *TokenContract) Front() interface{} {
	return &front{
		Front: access.NewFront(cont.reg),
		cont:  cont,
	}
}

type front struct {
	*access.Front
	cont *TokenContract
}

func (f *front) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) (bool, error) {
	err := f.cont.Transfer(cc, To, Amount)
	return err == nil, err
}

func (f *front) TransferFrom(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) (bool, error) {
	err := f.cont.TransferFrom(cc, From, To, Amount)
	return err == nil, err
}

func (f *front) Approve(cc *types.ContractContext, To common.Address, Amount *amount.Amount) (bool, error) {
	err := f.cont.Approve(cc, To, Amount)
	return err == nil, err
}

func (f *front) IncreaseApproval(cc *types.ContractContext, spender common.Address, delta *amount.Amount) (bool, error) {
	err := f.cont.IncreaseApproval(cc, spender, delta)
	return err == nil, err
}

func (f *front) DecreaseApproval(cc *types.ContractContext, spender common.Address, delta *amount.Amount) (bool, error) {
	err := f.cont.DecreaseApproval(cc, spender, delta)
	return err == nil, err
}

func (f *front) Freeze(cc *types.ContractContext, Duration uint64) error {
	return f.cont.Freeze(cc, Duration)
}

func (f *front) AddHolderToFridge(cc *types.ContractContext, holder common.Address) error {
	return f.cont.AddHolderToFridge(cc, holder)
}

func (f *front) Name(cc *types.ContractContext) string {
	return f.cont.Name(cc)
}

func (f *front) Symbol(cc *types.ContractContext) string {
	return f.cont.Symbol(cc)
}

func (f *front) TotalSupply(cc *types.ContractContext) *amount.Amount {
	return f.cont.TotalSupply(cc)
}

func (f *front) Decimals(cc *types.ContractContext) *big.Int {
	return f.cont.Decimals(cc)
}

func (f *front) BalanceOf(cc *types.ContractContext, from common.Address) *amount.Amount {
	return f.cont.BalanceOf(cc, from)
}

func (f *front) Allowance(cc *types.ContractContext, owner common.Address, spender common.Address) *amount.Amount {
	return f.cont.Allowance(cc, owner, spender)
}

func (f *front) FreezedUntil(cc *types.ContractContext) uint64 {
	return f.cont.FreezedUntil(cc)
}

func (f *front) IfFreezedHolder(cc *types.ContractContext, holder common.Address) bool {
	return f.cont.IfFreezedHolder(cc, holder)
}

func (f *front) IsFrozen(cc *types.ContractContext, holder common.Address) bool {
	return f.cont.IsFrozen(cc, holder)
}

func (f *front) GetFreezedHoldersList(cc *types.ContractContext) []common.Address {
	return f.cont.GetFreezedHoldersList(cc)
}
