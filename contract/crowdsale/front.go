package crowdsale

import (
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/core/types"
)

func (cont *CrowdsaleContract) Front() interface{} {
	return &front{
		Front: access.NewFront(cont.reg),
		cont:  cont,
	}
}

type front struct {
	*access.Front
	cont *CrowdsaleContract
}

func (f *front) Purchase(cc *types.ContractContext, investor common.Address) error {
	return f.cont.Purchase(cc, investor)
}

func (f *front) SendTokens(cc *types.ContractContext, buyer common.Address, tokens uint64) error {
	return f.cont.SendTokens(cc, buyer, tokens)
}

func (f *front) StartICO(cc *types.ContractContext) error {
	return f.cont.StartICO(cc)
}

func (f *front) StopICO(cc *types.ContractContext) error {
	return f.cont.StopICO(cc)
}

func (f *front) RefundEther(cc *types.ContractContext) (uint32, error) {
	return f.cont.RefundEther(cc)
}

func (f *front) WithdrawEther(cc *types.ContractContext) (*amount.Amount, error) {
	return f.cont.WithdrawEther(cc)
}

func (f *front) IncreaseIcoDuration(cc *types.ContractContext, minutes uint64) error {
	return f.cont.IncreaseIcoDuration(cc, minutes)
}

func (f *front) SetCompanyWallet(cc *types.ContractContext, wallet common.Address) error {
	return f.cont.SetCompanyWallet(cc, wallet)
}

// SetcompanyWallet is kept for callers of the old method name
func (f *front) SetcompanyWallet(cc *types.ContractContext, wallet common.Address) error {
	return f.cont.SetCompanyWallet(cc, wallet)
}

func (f *front) SetFreezingPeriod(cc *types.ContractContext, seconds uint64) error {
	return f.cont.SetFreezingPeriod(cc, seconds)
}

func (f *front) AddBuyer(cc *types.ContractContext, buyer common.Address) error {
	return f.cont.AddBuyer(cc, buyer)
}

func (f *front) DelBuyer(cc *types.ContractContext, buyer common.Address) error {
	return f.cont.DelBuyer(cc, buyer)
}

func (f *front) ShowBuyers(cc *types.ContractContext) []common.Address {
	return f.cont.ShowBuyers(cc)
}

func (f *front) PendingRefunds(cc *types.ContractContext) []common.Address {
	return f.cont.PendingRefunds(cc)
}

func (f *front) Token(cc *types.ContractContext) common.Address {
	return f.cont.Token(cc)
}

func (f *front) Rate(cc *types.ContractContext) *amount.Amount {
	return f.cont.Rate(cc)
}

func (f *front) EcosystemPart(cc *types.ContractContext) uint8 {
	return f.cont.EcosystemPart(cc)
}

func (f *front) InvestorsPart(cc *types.ContractContext) uint8 {
	return f.cont.InvestorsPart(cc)
}

func (f *front) CompanyPart(cc *types.ContractContext) uint8 {
	return f.cont.CompanyPart(cc)
}

func (f *front) TokensSupply(cc *types.ContractContext) *amount.Amount {
	return f.cont.TokensSupply(cc)
}

// Decimals returns the number of smallest units in a whole token
func (f *front) Decimals(cc *types.ContractContext) *big.Int {
	return big.NewInt(amount.FractionalMax)
}

func (f *front) InvestorCap(cc *types.ContractContext) uint64 {
	return f.cont.InvestorCap(cc)
}

func (f *front) RefundBatchLimit(cc *types.ContractContext) uint32 {
	return f.cont.RefundBatchLimit(cc)
}

func (f *front) Phase(cc *types.ContractContext) Phase {
	return f.cont.Phase(cc)
}

func (f *front) ICOState(cc *types.ContractContext) bool {
	return f.cont.ICOState(cc)
}

func (f *front) StartedAt(cc *types.ContractContext) uint64 {
	return f.cont.StartedAt(cc)
}

func (f *front) ICODuration(cc *types.ContractContext) uint64 {
	return f.cont.ICODuration(cc)
}

func (f *front) CompanyWallet(cc *types.ContractContext) common.Address {
	return f.cont.CompanyWallet(cc)
}

func (f *front) TotalSold(cc *types.ContractContext) uint64 {
	return f.cont.TotalSold(cc)
}

func (f *front) Withdrawn(cc *types.ContractContext) bool {
	return f.cont.Withdrawn(cc)
}

// Investor returns exists, ether contributed, tokens credited and refunded of the address
func (f *front) Investor(cc *types.ContractContext, addr common.Address) (bool, *amount.Amount, uint64, bool, error) {
	inv, err := f.cont.Investor(cc, addr)
	if err != nil {
		return false, nil, 0, false, err
	}
	return inv.Exists, inv.EtherContributed, inv.TokensCredited, inv.Refunded, nil
}

func (f *front) GetAmountOfTokensToSend(cc *types.ContractContext, addr common.Address) (uint64, error) {
	return f.cont.GetAmountOfTokensToSend(cc, addr)
}

func (f *front) ContractBalance(cc *types.ContractContext) *amount.Amount {
	return f.cont.ContractBalance(cc)
}

func (f *front) ContractTokenBalance(cc *types.ContractContext) (*amount.Amount, error) {
	return f.cont.ContractTokenBalance(cc)
}

func (f *front) MyBalance(cc *types.ContractContext) (*amount.Amount, error) {
	return f.cont.MyBalance(cc)
}
