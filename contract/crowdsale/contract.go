package crowdsale

import (
	"bytes"
	"math/big"
	"math/bits"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/contract/addrset"
	"github.com/meverselabs/tokensale/contract/token"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
)

// TokenClassID is the class of the ledger deployed by every sale
var TokenClassID = types.MustRegisterContractType(&token.TokenContract{})

// CrowdsaleContract sells the tokens of the ledger it deploys and keeps the contributions in custody
// until they are refunded or withdrawn to the company wallet
type CrowdsaleContract struct {
	addr      common.Address
	master    common.Address
	reg       *access.Registry
	auth      access.Authorizer
	whitelist addrset.Set
	pending   addrset.Set
}

func (cont *CrowdsaleContract) Address() common.Address {
	return cont.addr
}

func (cont *CrowdsaleContract) Master() common.Address {
	return cont.master
}

func (cont *CrowdsaleContract) Init(addr common.Address, master common.Address) {
	cont.addr = addr
	cont.master = master
	cont.reg = access.NewRegistry(tagOwner, tagManagers)
	cont.auth = cont.reg
	cont.whitelist = addrset.New(tagWhitelist)
	cont.pending = addrset.New(tagPendingRefund)
}

func (cont *CrowdsaleContract) IsPayable(MethodName string) bool {
	return MethodName == "Purchase"
}

func (cont *CrowdsaleContract) OnCreate(cc *types.ContractContext, Args []byte) error {
	data := &CrowdsaleContractConstruction{}
	if _, err := data.ReadFrom(bytes.NewReader(Args)); err != nil {
		return err
	}
	data.applyDefaults(cc.From())
	if err := data.validate(); err != nil {
		return err
	}
	cont.reg.Init(cc, data.Owner)

	cc.SetContractData([]byte{tagRate}, data.Rate.Bytes())
	cc.SetContractData([]byte{tagParts}, []byte{data.EcosystemPart, data.InvestorsPart, data.CompanyPart})
	cc.SetContractData([]byte{tagTokensSupply}, data.TokensSupply.Bytes())
	cc.SetContractData([]byte{tagICODuration}, bin.Uint64Bytes(data.ICODuration))
	cc.SetContractData([]byte{tagRefundBatchLimit}, bin.Uint32Bytes(data.RefundBatchLimit))
	cc.SetContractData([]byte{tagCompanyWallet}, data.CompanyWallet[:])

	limit := data.TokensSupply.Whole().Int
	limit.Mul(limit, big.NewInt(int64(data.InvestorsPart)))
	limit.Div(limit, big.NewInt(100))
	limit.Mul(limit, big.NewInt(int64(data.InvestorCapPercent)))
	limit.Div(limit, big.NewInt(100))
	if !limit.IsUint64() {
		return errors.Wrapf(ErrInvalidConfig, "investor cap %v", limit.String())
	}
	cc.SetContractData([]byte{tagInvestorCap}, bin.Uint64Bytes(limit.Uint64()))

	bs, _, err := bin.WriterToBytes(&token.TokenContractConstruction{
		Name:   data.TokenName,
		Symbol: data.TokenSymbol,
		Owner:  cont.addr,
		InitialSupplyMap: map[common.Address]*amount.Amount{
			cont.addr: data.TokensSupply,
		},
	})
	if err != nil {
		return err
	}
	tk, err := cc.DeployContract(TokenClassID, bs)
	if err != nil {
		return err
	}
	tokenAddr := tk.Address()
	cc.SetContractData([]byte{tagToken}, tokenAddr[:])
	return nil
}

//////////////////////////////////////////////////
// Private Functions
//////////////////////////////////////////////////

func (cont *CrowdsaleContract) onlyManager(cc *types.ContractContext) error {
	return access.Require(cont.auth, cc, access.RoleManager)
}

func (cont *CrowdsaleContract) enter(cc *types.ContractContext) error {
	if len(cc.ContractData([]byte{tagLock})) > 0 {
		return errors.WithStack(ErrReentrantCall)
	}
	cc.SetContractData([]byte{tagLock}, []byte{1})
	return nil
}

func (cont *CrowdsaleContract) leave(cc *types.ContractContext) {
	cc.SetContractData([]byte{tagLock}, nil)
}

func (cont *CrowdsaleContract) setPhase(cc *types.ContractContext, p Phase) {
	cc.SetContractData([]byte{tagPhase}, []byte{byte(p)})
}

func (cont *CrowdsaleContract) setFlag(cc *types.ContractContext, tag byte) {
	cc.SetContractData([]byte{tag}, []byte{1})
}

func (cont *CrowdsaleContract) flag(cc types.ContractLoader, tag byte) bool {
	bs := cc.ContractData([]byte{tag})
	return len(bs) == 1 && bs[0] == 1
}

func (cont *CrowdsaleContract) loadInvestor(cc types.ContractLoader, addr common.Address) (*Investor, error) {
	bs := cc.AccountData(addr, []byte{tagInvestor})
	if len(bs) == 0 {
		return newInvestor(), nil
	}
	inv := &Investor{}
	if _, err := inv.ReadFrom(bytes.NewReader(bs)); err != nil {
		return nil, err
	}
	return inv, nil
}

func (cont *CrowdsaleContract) saveInvestor(cc *types.ContractContext, addr common.Address, inv *Investor) error {
	bs, _, err := bin.WriterToBytes(inv)
	if err != nil {
		return err
	}
	cc.SetAccountData(addr, []byte{tagInvestor}, bs)
	return nil
}

// credit checks the cap and books whole tokens to the investor
func (cont *CrowdsaleContract) credit(cc *types.ContractContext, addr common.Address, inv *Investor, tokens *big.Int) error {
	limit := cont.InvestorCap(cc)
	total := new(big.Int).SetUint64(inv.TokensCredited)
	total.Add(total, tokens)
	if !total.IsUint64() || total.Uint64() > limit {
		return errors.Wrapf(ErrCapExceeded, "%v would hold %v tokens, cap %v", addr.String(), total.String(), limit)
	}
	inv.TokensCredited = total.Uint64()
	inv.Exists = true
	cc.SetContractData([]byte{tagTotalSold}, bin.Uint64Bytes(cont.TotalSold(cc)+tokens.Uint64()))
	return nil
}

func (cont *CrowdsaleContract) tokenCall(cc *types.ContractContext, method string, args ...interface{}) ([]interface{}, error) {
	return cc.Exec(cc, cont.Token(cc), method, args)
}

func (cont *CrowdsaleContract) tokenBalanceOf(cc *types.ContractContext, addr common.Address) (*amount.Amount, error) {
	is, err := cont.tokenCall(cc, "BalanceOf", addr)
	if err != nil {
		return nil, err
	}
	return is[0].(*amount.Amount), nil
}

//////////////////////////////////////////////////
// Public Writer Functions
//////////////////////////////////////////////////

// Purchase books the attached value for the investor at the sale rate.
// Tokens are not delivered here, the value stays in custody.
func (cont *CrowdsaleContract) Purchase(cc *types.ContractContext, investor common.Address) error {
	if cont.Phase(cc) != PhaseRunning {
		return errors.WithStack(ErrSaleNotRunning)
	}
	if end, carry := bits.Add64(cont.StartedAt(cc), cont.ICODuration(cc), 0); carry == 0 && cc.LastTimestamp() >= end {
		return errors.Wrapf(ErrSaleNotRunning, "sale ended at %v", end)
	}
	value := cc.Value()
	if !value.IsPlus() {
		return errors.WithStack(ErrZeroValue)
	}
	if investor == common.ZeroAddr {
		return errors.Wrap(access.ErrZeroAddress, "investor")
	}
	if !cc.CanReceive(investor) {
		return errors.Wrapf(types.ErrNotPayable, "investor %v cannot be refunded", investor.String())
	}
	tokens := new(big.Int).Div(value.Int, cont.Rate(cc).Int)

	inv, err := cont.loadInvestor(cc, investor)
	if err != nil {
		return err
	}
	if err := cont.credit(cc, investor, inv, tokens); err != nil {
		return err
	}
	inv.Refunded = false
	inv.EtherContributed = inv.EtherContributed.Add(value)
	inv.EtherHeld = inv.EtherHeld.Add(value)
	if !cont.pending.Has(cc, investor) {
		if err := cont.pending.Add(cc, investor); err != nil {
			return err
		}
	}
	return cont.saveInvestor(cc, investor, inv)
}

// SendTokens delivers whole tokens from the sale custody to the buyer
func (cont *CrowdsaleContract) SendTokens(cc *types.ContractContext, buyer common.Address, tokens uint64) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if tokens == 0 {
		return errors.WithStack(ErrZeroValue)
	}
	inv, err := cont.loadInvestor(cc, buyer)
	if err != nil {
		return err
	}
	n := new(big.Int).SetUint64(tokens)
	if err := cont.credit(cc, buyer, inv, n); err != nil {
		return err
	}
	if err := cont.saveInvestor(cc, buyer, inv); err != nil {
		return err
	}
	am := amount.NewAmountFromBig(n).MulC(amount.FractionalMax)
	_, err = cont.tokenCall(cc, "Transfer", buyer, am)
	return err
}

func (cont *CrowdsaleContract) StartICO(cc *types.ContractContext) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if p := cont.Phase(cc); p == PhaseRunning || cont.flag(cc, tagWithdrawn) {
		return errors.Wrapf(ErrInvalidPhase, "start in %v", p.String())
	}
	cc.SetContractData([]byte{tagStartedAt}, bin.Uint64Bytes(cc.LastTimestamp()))
	cont.setPhase(cc, PhaseRunning)
	return nil
}

// StopICO ends the sale. The first stop credits the company share to the company wallet and freezes it for good.
func (cont *CrowdsaleContract) StopICO(cc *types.ContractContext) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if p := cont.Phase(cc); p != PhaseRunning {
		return errors.Wrapf(ErrInvalidPhase, "stop in %v", p.String())
	}
	if !cont.flag(cc, tagFinalized) {
		wallet := cont.CompanyWallet(cc)
		share := cont.TokensSupply(cc).MulC(int64(cont.CompanyPart(cc))).DivC(100)
		if _, err := cont.tokenCall(cc, "Transfer", wallet, share); err != nil {
			return err
		}
		if _, err := cont.tokenCall(cc, "AddHolderToFridge", wallet); err != nil {
			return err
		}
		cont.setFlag(cc, tagFinalized)
	}
	cont.setPhase(cc, PhaseStopped)
	return nil
}

// RefundEther pays back the value held for pending investors in the order they first purchased.
// At most RefundBatchLimit investors are paid per call, it returns the number paid.
func (cont *CrowdsaleContract) RefundEther(cc *types.ContractContext) (uint32, error) {
	if err := cont.enter(cc); err != nil {
		return 0, err
	}
	defer cont.leave(cc)

	if err := cont.onlyManager(cc); err != nil {
		return 0, err
	}
	if p := cont.Phase(cc); p == PhaseConfigured || cont.flag(cc, tagWithdrawn) {
		return 0, errors.Wrapf(ErrInvalidPhase, "refund in %v", p.String())
	}

	limit := cont.RefundBatchLimit(cc)
	targets := []common.Address{}
	var rerr error
	cont.pending.Each(cc, func(addr common.Address) bool {
		inv, err := cont.loadInvestor(cc, addr)
		if err != nil {
			rerr = err
			return false
		}
		if inv.Exists && !inv.Refunded {
			targets = append(targets, addr)
		}
		return uint32(len(targets)) < limit
	})
	if rerr != nil {
		return 0, rerr
	}

	for _, addr := range targets {
		inv, err := cont.loadInvestor(cc, addr)
		if err != nil {
			return 0, err
		}
		held := inv.EtherHeld
		inv.Refunded = true
		inv.EtherHeld = amount.NewAmount(0, 0)
		if err := cont.saveInvestor(cc, addr, inv); err != nil {
			return 0, err
		}
		if err := cont.pending.Remove(cc, addr); err != nil {
			return 0, err
		}
		if err := cc.SendValue(addr, held); err != nil {
			return 0, err
		}
	}
	return uint32(len(targets)), nil
}

// WithdrawEther releases the whole custody to the company wallet, refunds are closed afterwards
func (cont *CrowdsaleContract) WithdrawEther(cc *types.ContractContext) (*amount.Amount, error) {
	if err := cont.enter(cc); err != nil {
		return nil, err
	}
	defer cont.leave(cc)

	if err := cont.onlyManager(cc); err != nil {
		return nil, err
	}
	if p := cont.Phase(cc); p != PhaseStopped || cont.flag(cc, tagWithdrawn) {
		return nil, errors.Wrapf(ErrInvalidPhase, "withdraw in %v", p.String())
	}
	cont.setFlag(cc, tagWithdrawn)
	balance := cc.SelfBalance()
	if err := cc.SendValue(cont.CompanyWallet(cc), balance); err != nil {
		return nil, err
	}
	return balance, nil
}

// IncreaseIcoDuration extends the running sale by the minutes
func (cont *CrowdsaleContract) IncreaseIcoDuration(cc *types.ContractContext, minutes uint64) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if p := cont.Phase(cc); p != PhaseRunning {
		return errors.Wrapf(ErrInvalidPhase, "extend in %v", p.String())
	}
	hi, ext := bits.Mul64(minutes, 60)
	duration, carry := bits.Add64(cont.ICODuration(cc), ext, 0)
	if hi != 0 || carry != 0 {
		return errors.Wrapf(ErrInvalidConfig, "extending by %v minutes overflows", minutes)
	}
	cc.SetContractData([]byte{tagICODuration}, bin.Uint64Bytes(duration))
	return nil
}

func (cont *CrowdsaleContract) SetCompanyWallet(cc *types.ContractContext, wallet common.Address) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if wallet == common.ZeroAddr {
		return errors.Wrap(access.ErrZeroAddress, "company wallet")
	}
	if cont.flag(cc, tagFinalized) {
		return errors.Wrap(ErrInvalidPhase, "company share already sent")
	}
	cc.SetContractData([]byte{tagCompanyWallet}, wallet[:])
	return nil
}

// SetFreezingPeriod freezes the ledger holders for the seconds from now
func (cont *CrowdsaleContract) SetFreezingPeriod(cc *types.ContractContext, seconds uint64) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	_, err := cont.tokenCall(cc, "Freeze", seconds)
	return err
}

func (cont *CrowdsaleContract) AddBuyer(cc *types.ContractContext, buyer common.Address) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	if buyer == common.ZeroAddr {
		return errors.Wrap(access.ErrZeroAddress, "buyer")
	}
	if err := cont.whitelist.Add(cc, buyer); err != nil {
		return err
	}
	inv, err := cont.loadInvestor(cc, buyer)
	if err != nil {
		return err
	}
	inv.Exists = true
	return cont.saveInvestor(cc, buyer, inv)
}

// DelBuyer removes the buyer from the whitelist and marks its investor record as not existing,
// purchased records which were never whitelisted are marked as well
func (cont *CrowdsaleContract) DelBuyer(cc *types.ContractContext, buyer common.Address) error {
	if err := cont.onlyManager(cc); err != nil {
		return err
	}
	inv, err := cont.loadInvestor(cc, buyer)
	if err != nil {
		return err
	}
	if cont.whitelist.Has(cc, buyer) {
		if err := cont.whitelist.Remove(cc, buyer); err != nil {
			return err
		}
	} else if !inv.Exists {
		return errors.Wrapf(addrset.ErrNotExistAddress, "buyer %v", buyer.String())
	}
	inv.Exists = false
	return cont.saveInvestor(cc, buyer, inv)
}

//////////////////////////////////////////////////
// Public Reader Functions
//////////////////////////////////////////////////

func (cont *CrowdsaleContract) Token(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagToken}))
}

// Rate is the price of a whole token in the smallest value unit
func (cont *CrowdsaleContract) Rate(cc types.ContractLoader) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagRate}))
}

func (cont *CrowdsaleContract) parts(cc types.ContractLoader) []byte {
	bs := cc.ContractData([]byte{tagParts})
	if len(bs) != 3 {
		return []byte{0, 0, 0}
	}
	return bs
}

func (cont *CrowdsaleContract) EcosystemPart(cc types.ContractLoader) uint8 {
	return cont.parts(cc)[0]
}

func (cont *CrowdsaleContract) InvestorsPart(cc types.ContractLoader) uint8 {
	return cont.parts(cc)[1]
}

func (cont *CrowdsaleContract) CompanyPart(cc types.ContractLoader) uint8 {
	return cont.parts(cc)[2]
}

func (cont *CrowdsaleContract) TokensSupply(cc types.ContractLoader) *amount.Amount {
	return amount.NewAmountFromBytes(cc.ContractData([]byte{tagTokensSupply}))
}

// InvestorCap is the most whole tokens a single investor can be credited
func (cont *CrowdsaleContract) InvestorCap(cc types.ContractLoader) uint64 {
	return bin.Uint64(cc.ContractData([]byte{tagInvestorCap}))
}

func (cont *CrowdsaleContract) RefundBatchLimit(cc types.ContractLoader) uint32 {
	bs := cc.ContractData([]byte{tagRefundBatchLimit})
	if len(bs) != 4 {
		return DefaultRefundBatchLimit
	}
	return bin.Uint32(bs)
}

func (cont *CrowdsaleContract) Phase(cc types.ContractLoader) Phase {
	bs := cc.ContractData([]byte{tagPhase})
	if len(bs) != 1 {
		return PhaseConfigured
	}
	return Phase(bs[0])
}

func (cont *CrowdsaleContract) ICOState(cc types.ContractLoader) bool {
	return cont.Phase(cc) == PhaseRunning
}

func (cont *CrowdsaleContract) StartedAt(cc types.ContractLoader) uint64 {
	return bin.Uint64(cc.ContractData([]byte{tagStartedAt}))
}

func (cont *CrowdsaleContract) ICODuration(cc types.ContractLoader) uint64 {
	return bin.Uint64(cc.ContractData([]byte{tagICODuration}))
}

func (cont *CrowdsaleContract) CompanyWallet(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{tagCompanyWallet}))
}

func (cont *CrowdsaleContract) TotalSold(cc types.ContractLoader) uint64 {
	return bin.Uint64(cc.ContractData([]byte{tagTotalSold}))
}

func (cont *CrowdsaleContract) Withdrawn(cc types.ContractLoader) bool {
	return cont.flag(cc, tagWithdrawn)
}

func (cont *CrowdsaleContract) ShowBuyers(cc types.ContractLoader) []common.Address {
	return cont.whitelist.List(cc)
}

// PendingRefunds returns investors holding value in custody in refund order
func (cont *CrowdsaleContract) PendingRefunds(cc types.ContractLoader) []common.Address {
	return cont.pending.List(cc)
}

func (cont *CrowdsaleContract) Investor(cc types.ContractLoader, addr common.Address) (*Investor, error) {
	return cont.loadInvestor(cc, addr)
}

// GetAmountOfTokensToSend returns the whole tokens bought by the contribution of the investor
func (cont *CrowdsaleContract) GetAmountOfTokensToSend(cc types.ContractLoader, addr common.Address) (uint64, error) {
	inv, err := cont.loadInvestor(cc, addr)
	if err != nil {
		return 0, err
	}
	n := new(big.Int).Div(inv.EtherContributed.Int, cont.Rate(cc).Int)
	return n.Uint64(), nil
}

func (cont *CrowdsaleContract) ContractBalance(cc *types.ContractContext) *amount.Amount {
	return cc.SelfBalance()
}

func (cont *CrowdsaleContract) ContractTokenBalance(cc *types.ContractContext) (*amount.Amount, error) {
	return cont.tokenBalanceOf(cc, cont.addr)
}

func (cont *CrowdsaleContract) MyBalance(cc *types.ContractContext) (*amount.Amount, error) {
	return cont.tokenBalanceOf(cc, cc.From())
}
