package main

import (
	"github.com/meverselabs/tokensale/cmd/config"
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/crowdsale"
	"github.com/pkg/errors"
)

func saleConstruction(sc config.SaleConfig) (*crowdsale.CrowdsaleContractConstruction, error) {
	data := &crowdsale.CrowdsaleContractConstruction{
		TokenName:          sc.TokenName,
		TokenSymbol:        sc.TokenSymbol,
		InvestorCapPercent: sc.InvestorCapPercent,
		ICODuration:        sc.ICODuration,
		RefundBatchLimit:   sc.RefundBatchLimit,
	}
	var err error
	if data.Owner, err = optionalAddress(sc.Owner); err != nil {
		return nil, errors.Wrap(err, "owner")
	}
	if data.CompanyWallet, err = optionalAddress(sc.CompanyWallet); err != nil {
		return nil, errors.Wrap(err, "company wallet")
	}
	if data.Rate, err = optionalAmount(sc.Rate); err != nil {
		return nil, errors.Wrap(err, "rate")
	}
	if data.TokensSupply, err = optionalAmount(sc.TokensSupply); err != nil {
		return nil, errors.Wrap(err, "tokens supply")
	}
	return data, nil
}

func optionalAddress(s string) (common.Address, error) {
	if len(s) == 0 {
		return common.ZeroAddr, nil
	}
	return common.ParseAddress(s)
}

func optionalAmount(s string) (*amount.Amount, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return amount.ParseAmount(s)
}
