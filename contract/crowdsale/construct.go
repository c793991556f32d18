package crowdsale

import (
	"io"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/pkg/errors"
)

// sale defaults
var (
	DefaultRate               = amount.NewAmount(0, 1000000000000000)
	DefaultTokensSupply       = amount.NewAmount(1000000000, 0)
	DefaultEcosystemPart      = uint8(40)
	DefaultInvestorsPart      = uint8(40)
	DefaultCompanyPart        = uint8(20)
	DefaultInvestorCapPercent = uint8(10)
	DefaultICODuration        = uint64(30 * 24 * 60 * 60)
	DefaultRefundBatchLimit   = uint32(100)
)

// CrowdsaleContractConstruction configures a sale, zero fields take the defaults
type CrowdsaleContractConstruction struct {
	TokenName          string
	TokenSymbol        string
	Owner              common.Address
	CompanyWallet      common.Address
	Rate               *amount.Amount
	TokensSupply       *amount.Amount
	EcosystemPart      uint8
	InvestorsPart      uint8
	CompanyPart        uint8
	InvestorCapPercent uint8
	ICODuration        uint64
	RefundBatchLimit   uint32
}

func (s *CrowdsaleContractConstruction) applyDefaults(deployer common.Address) {
	if s.Owner == common.ZeroAddr {
		s.Owner = deployer
	}
	if s.CompanyWallet == common.ZeroAddr {
		s.CompanyWallet = s.Owner
	}
	if s.Rate == nil || s.Rate.IsZero() {
		s.Rate = DefaultRate.Clone()
	}
	if s.TokensSupply == nil || s.TokensSupply.IsZero() {
		s.TokensSupply = DefaultTokensSupply.Clone()
	}
	if s.EcosystemPart == 0 && s.InvestorsPart == 0 && s.CompanyPart == 0 {
		s.EcosystemPart = DefaultEcosystemPart
		s.InvestorsPart = DefaultInvestorsPart
		s.CompanyPart = DefaultCompanyPart
	}
	if s.InvestorCapPercent == 0 {
		s.InvestorCapPercent = DefaultInvestorCapPercent
	}
	if s.ICODuration == 0 {
		s.ICODuration = DefaultICODuration
	}
	if s.RefundBatchLimit == 0 {
		s.RefundBatchLimit = DefaultRefundBatchLimit
	}
}

func (s *CrowdsaleContractConstruction) validate() error {
	if int(s.EcosystemPart)+int(s.InvestorsPart)+int(s.CompanyPart) != 100 {
		return errors.Wrapf(ErrInvalidConfig, "parts %v/%v/%v do not sum to 100", s.EcosystemPart, s.InvestorsPart, s.CompanyPart)
	}
	if s.InvestorCapPercent > 100 {
		return errors.Wrapf(ErrInvalidConfig, "investor cap %v%%", s.InvestorCapPercent)
	}
	if s.Rate.IsMinus() || s.TokensSupply.IsMinus() {
		return errors.Wrap(ErrInvalidConfig, "negative rate or supply")
	}
	return nil
}

func (s *CrowdsaleContractConstruction) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.String(w, s.TokenName); err != nil {
		return sum, err
	}
	if sum, err := sw.String(w, s.TokenSymbol); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.Owner); err != nil {
		return sum, err
	}
	if sum, err := sw.Address(w, s.CompanyWallet); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.Rate); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.TokensSupply); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.EcosystemPart); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.InvestorsPart); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.CompanyPart); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint8(w, s.InvestorCapPercent); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.ICODuration); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint32(w, s.RefundBatchLimit); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *CrowdsaleContractConstruction) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.String(r, &s.TokenName); err != nil {
		return sum, err
	}
	if sum, err := sr.String(r, &s.TokenSymbol); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.Owner); err != nil {
		return sum, err
	}
	if sum, err := sr.Address(r, &s.CompanyWallet); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.Rate); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.TokensSupply); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.EcosystemPart); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.InvestorsPart); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.CompanyPart); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint8(r, &s.InvestorCapPercent); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.ICODuration); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint32(r, &s.RefundBatchLimit); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
