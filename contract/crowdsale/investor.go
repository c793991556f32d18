package crowdsale

import (
	"io"

	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
)

// Investor is the accounting record of an address. It is never deleted once written.
type Investor struct {
	Exists           bool
	EtherContributed *amount.Amount
	TokensCredited   uint64
	Refunded         bool
	// EtherHeld is the part of the contribution still in custody
	EtherHeld *amount.Amount
}

func newInvestor() *Investor {
	return &Investor{
		EtherContributed: amount.NewAmount(0, 0),
		EtherHeld:        amount.NewAmount(0, 0),
	}
}

func (s *Investor) WriteTo(w io.Writer) (int64, error) {
	sw := bin.NewSumWriter()
	if sum, err := sw.Bool(w, s.Exists); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.EtherContributed); err != nil {
		return sum, err
	}
	if sum, err := sw.Uint64(w, s.TokensCredited); err != nil {
		return sum, err
	}
	if sum, err := sw.Bool(w, s.Refunded); err != nil {
		return sum, err
	}
	if sum, err := sw.Amount(w, s.EtherHeld); err != nil {
		return sum, err
	}
	return sw.Sum(), nil
}

func (s *Investor) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if sum, err := sr.Bool(r, &s.Exists); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.EtherContributed); err != nil {
		return sum, err
	}
	if sum, err := sr.Uint64(r, &s.TokensCredited); err != nil {
		return sum, err
	}
	if sum, err := sr.Bool(r, &s.Refunded); err != nil {
		return sum, err
	}
	if sum, err := sr.Amount(r, &s.EtherHeld); err != nil {
		return sum, err
	}
	return sr.Sum(), nil
}
