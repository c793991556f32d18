package token

import (
	"bytes"
	"math/big"
	"math/bits"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/contract/addrset"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
)

// TokenContract is a fungible token ledger whose holders can be frozen for a period or for good
type TokenContract struct {
	addr   common.Address
	master common.Address
	reg    *access.Registry
	auth   access.Authorizer
	fridge addrset.Set
}

func (cont *TokenContract) Address() common.Address {
	return cont.addr
}

func (cont *TokenContract) Master() common.Address {
	return cont.master
}

func (cont *TokenContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
	cont.reg = access.NewRegistry(tagOwner, tagManagers)
	cont.auth = cont.reg
	cont.fridge = addrset.New(tagFridge)
}

func (cont *TokenContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &TokenContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	owner := data.Owner
	if owner == common.ZeroAddr {
		owner = cc.From()
	}
	cont.reg.Init(cc, owner)
	cc.SetContractData([]byte{tagTokenName}, []byte(data.Name))
	cc.SetContractData([]byte{tagTokenSymbol}, []byte(data.Symbol))
	if len(data.InitialSupplyMap) == 0 {
		return cont.addBalance(cc, owner, DefaultSupply)
	}
	for _, k := range sortedHolders(data.InitialSupplyMap) {
		if err := cont.addBalance(cc, k, data.InitialSupplyMap[k]); err != nil {
			return err
		}
	}
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *TokenContract) addBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Wrapf(ErrInvalidAmount, "add %v", am.String())
	}
	bal := cont.BalanceOf(cc, addr)
	cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Add(am).Bytes())

	total := cont.TotalSupply(cc).Add(am)
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
	return nil
}

func (cont *TokenContract) subBalance(cc *types.ContractContext, addr common.Address, am *amount.Amount) error {
	if !am.IsPlus() {
		return errors.Wrapf(ErrInvalidAmount, "sub %v", am.String())
	}
	bal := cont.BalanceOf(cc, addr)
	if bal.Less(am) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, need %v", addr.String(), bal.String(), am.String())
	}
	bal = bal.Sub(am)
	if bal.IsZero() {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, nil)
	} else {
		cc.SetAccountData(addr, []byte{tagTokenAmount}, bal.Bytes())
	}

	total := cont.TotalSupply(cc).Sub(am)
	cc.SetContractData([]byte{tagTokenTotalSupply}, total.Bytes())
	return nil
}

func (cont *TokenContract) move(cc *types.ContractContext, from common.Address, to common.Address, am *amount.Amount) error {
	if err := cont.subBalance(cc, from, am); err != nil {
		return err
	}
	return cont.addBalance(cc, to, am)
}

func (cont *TokenContract) checkSender(cc types.ContractLoader, holder common.Address) error {
	if cont.fridge.Has(cc, holder) {
		return errors.Wrapf(ErrFrozen, "%v is in the fridge", holder.String())
	}
	if holder == cont.reg.Owner(cc) {
		return nil
	}
	if until := cont.FreezedUntil(cc); cc.LastTimestamp() < until {
		return errors.Wrapf(ErrFrozen, "%v until %v", holder.String(), until)
	}
	return nil
}

func checkTransfer(to common.Address, am *amount.Amount) error {
	if to == common.ZeroAddr {
		return errors.Wrap(ErrInvalidAddress, "transfer to the zero address")
	}
	if am == nil || am.IsMinus() {
		return errors.WithStack(ErrInvalidAmount)
	}
	return nil
}

func (cont *TokenContract) setAllowance(cc *types.ContractContext, owner common.Address, spender common.Address, am *amount.Amount) {
	if am.IsZero() {
		cc.SetAccountData(owner, MakeAllowanceTokenKey(spender), nil)
		return
	}
	cc.SetAccountData(owner, MakeAllowanceTokenKey(spender), am.Bytes())
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Transfer(cc *types.ContractContext, To common.Address, Amount *amount.Amount) error {
	if err := checkTransfer(To, Amount); err != nil {
		return err
	}
	if err := cont.checkSender(cc, cc.From()); err != nil {
		return err
	}
	if bal := cont.BalanceOf(cc, cc.From()); bal.Less(Amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, need %v", cc.From().String(), bal.String(), Amount.String())
	}
	if Amount.IsZero() {
		return nil
	}
	return cont.move(cc, cc.From(), To, Amount)
}

// TransferFrom moves tokens of From spending the allowance given to the caller
func (cont *TokenContract) TransferFrom(cc *types.ContractContext, From common.Address, To common.Address, Amount *amount.Amount) error {
	if err := checkTransfer(To, Amount); err != nil {
		return err
	}
	if err := cont.checkSender(cc, cc.From()); err != nil {
		return err
	}
	if err := cont.checkSender(cc, From); err != nil {
		return err
	}
	if bal := cont.BalanceOf(cc, From); bal.Less(Amount) {
		return errors.Wrapf(ErrInsufficientBalance, "%v has %v, need %v", From.String(), bal.String(), Amount.String())
	}
	allowed := cont.Allowance(cc, From, cc.From())
	if allowed.Less(Amount) {
		return errors.Wrapf(ErrInsufficientAllowance, "%v allowed %v, need %v", cc.From().String(), allowed.String(), Amount.String())
	}
	if Amount.IsZero() {
		return nil
	}
	cont.setAllowance(cc, From, cc.From(), allowed.Sub(Amount))
	return cont.move(cc, From, To, Amount)
}

func (cont *TokenContract) Approve(cc *types.ContractContext, spender common.Address, Amount *amount.Amount) error {
	if spender == common.ZeroAddr {
		return errors.Wrap(ErrInvalidAddress, "approve to the zero address")
	}
	if Amount == nil || Amount.IsMinus() {
		return errors.WithStack(ErrInvalidAmount)
	}
	if err := cont.checkSender(cc, cc.From()); err != nil {
		return err
	}
	cont.setAllowance(cc, cc.From(), spender, Amount)
	return nil
}

func (cont *TokenContract) IncreaseApproval(cc *types.ContractContext, spender common.Address, delta *amount.Amount) error {
	if delta == nil || delta.IsMinus() {
		return errors.WithStack(ErrInvalidAmount)
	}
	return cont.Approve(cc, spender, cont.Allowance(cc, cc.From(), spender).Add(delta))
}

func (cont *TokenContract) DecreaseApproval(cc *types.ContractContext, spender common.Address, delta *amount.Amount) error {
	if delta == nil || delta.IsMinus() {
		return errors.WithStack(ErrInvalidAmount)
	}
	allowed := cont.Allowance(cc, cc.From(), spender)
	if allowed.Less(delta) {
		return errors.Wrapf(ErrInsufficientAllowance, "%v allowed %v, decrease %v", spender.String(), allowed.String(), delta.String())
	}
	return cont.Approve(cc, spender, allowed.Sub(delta))
}

// Freeze restricts every holder but the owner from sending until now + Duration seconds
func (cont *TokenContract) Freeze(cc *types.ContractContext, Duration uint64) error {
	if err := access.Require(cont.auth, cc, access.RoleAdmin); err != nil {
		return err
	}
	until, carry := bits.Add64(cc.LastTimestamp(), Duration, 0)
	if carry != 0 {
		return errors.Wrapf(ErrInvalidAmount, "freeze for %v seconds overflows", Duration)
	}
	cc.SetContractData([]byte{tagFreezeUntil}, bin.Uint64Bytes(until))
	return nil
}

// AddHolderToFridge freezes the holder permanently
func (cont *TokenContract) AddHolderToFridge(cc *types.ContractContext, holder common.Address) error {
	if err := access.Require(cont.auth, cc, access.RoleAdmin); err != nil {
		return err
	}
	if cont.fridge.Has(cc, holder) {
		return nil
	}
	return cont.fridge.Add(cc, holder)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *TokenContract) Name(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenName}))
}

func (cont *TokenContract) Symbol(cc types.ContractLoader) string {
	return string(cc.ContractData([]byte{tagTokenSymbol}))
}

func (cont *TokenContract) TotalSupply(cc types.ContractLoader) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagTokenTotalSupply}))
}

func (cont *TokenContract) Decimals(cc types.ContractLoader) *big.Int {
	return big.NewInt(amount.FractionalCount)
}

func (cont *TokenContract) BalanceOf(cc types.ContractLoader, from common.Address) *amount.Amount {
	return amount.NewAmountFromBytes(cc.AccountData(from, []byte{tagTokenAmount}))
}

func (cont *TokenContract) Allowance(cc types.ContractLoader, _owner common.Address, _spender common.Address) *amount.Amount {
	return amount.NewAmountFromBytes(cc.AccountData(_owner, MakeAllowanceTokenKey(_spender)))
}

func (cont *TokenContract) FreezedUntil(cc types.ContractLoader) uint64 {
	return bin.Uint64(cc.ContractData([]byte{tagFreezeUntil}))
}

// IfFreezedHolder returns the holder is in the fridge or not
func (cont *TokenContract) IfFreezedHolder(cc types.ContractLoader, holder common.Address) bool {
	return cont.fridge.Has(cc, holder)
}

// IsFrozen returns the holder cannot send right now
func (cont *TokenContract) IsFrozen(cc types.ContractLoader, holder common.Address) bool {
	return cont.checkSender(cc, holder) != nil
}

func (cont *TokenContract) GetFreezedHoldersList(cc types.ContractLoader) []common.Address {
	return cont.fridge.List(cc)
}
