package crowdsale_test

import (
	"math"
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/contract/addrset"
	"github.com/meverselabs/tokensale/contract/crowdsale"
	"github.com/meverselabs/tokensale/contract/token"
	"github.com/meverselabs/tokensale/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Crowdsale", func() {

	Describe("Configuration", func() {

		BeforeEach(func() {
			Expect(beforeEach()).To(Succeed())
		})

		AfterEach(func() {
			afterEach()
		})

		It("owner, parts, rate", func() {
			is, err := Exec(genesis, alice, sale, "Owner", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(common.Address)).To(Equal(admin))

			is, err = Exec(genesis, alice, sale, "EcosystemPart", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint8)).To(Equal(uint8(40)))

			is, err = Exec(genesis, alice, sale, "InvestorsPart", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint8)).To(Equal(uint8(40)))

			is, err = Exec(genesis, alice, sale, "CompanyPart", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint8)).To(Equal(uint8(20)))

			is, err = Exec(genesis, alice, sale, "Rate", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(*amount.Amount).String()).To(Equal("0.001"))

			is, err = Exec(genesis, alice, sale, "Phase", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(crowdsale.Phase)).To(Equal(crowdsale.PhaseConfigured))

			is, err = Exec(genesis, alice, sale, "ICOState", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeFalse())
		})

		It("investors part is 40% of the supply", func() {
			is, err := Exec(genesis, alice, sale, "TokensSupply", []interface{}{})
			Expect(err).To(Succeed())
			supply := is[0].(*amount.Amount)

			is, err = Exec(genesis, alice, sale, "Decimals", []interface{}{})
			Expect(err).To(Succeed())
			decimals := is[0].(*big.Int)

			expected := new(big.Int).Mul(big.NewInt(400000000), decimals)
			Expect(supply.MulC(40).DivC(100).Int.Cmp(expected)).To(Equal(0))

			is, err = Exec(genesis, alice, sale, "InvestorCap", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint64)).To(Equal(uint64(40000000)))
		})

		It("holds the whole supply and no value at start", func() {
			is, err := Exec(genesis, admin, sale, "ContractBalance", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(*amount.Amount).IsZero()).To(BeTrue())

			is, err = Exec(genesis, admin, sale, "MyBalance", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(*amount.Amount).IsZero()).To(BeTrue())

			is, err = Exec(genesis, admin, sale, "ContractTokenBalance", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(*amount.Amount).String()).To(Equal("1000000000"))

			is, err = Exec(genesis, admin, tokenAddr, "Owner", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(common.Address)).To(Equal(sale))

			is, err = Exec(genesis, admin, tokenAddr, "Name", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(string)).To(Equal(_Name))
		})

		It("rejects parts that do not sum to 100", func() {
			_, err := deploySale(genesis, &crowdsale.CrowdsaleContractConstruction{
				EcosystemPart: 40,
				InvestorsPart: 40,
				CompanyPart:   30,
			})
			Expect(err).To(MatchError(crowdsale.ErrInvalidConfig))
		})

		It("reverts all manager functions when called not from a manager", func() {
			calls := []struct {
				method string
				args   []interface{}
			}{
				{"SetFreezingPeriod", []interface{}{uint64(1000)}},
				{"AddBuyer", []interface{}{admin}},
				{"DelBuyer", []interface{}{admin}},
				{"StartICO", []interface{}{}},
				{"StopICO", []interface{}{}},
				{"RefundEther", []interface{}{}},
				{"SendTokens", []interface{}{admin, uint64(1000)}},
				{"IncreaseIcoDuration", []interface{}{uint64(10)}},
				{"SetcompanyWallet", []interface{}{admin}},
			}
			reverts := 0
			for _, c := range calls {
				if _, err := Exec(genesis, admin, sale, c.method, c.args); err != nil {
					Expect(err).To(MatchError(access.ErrUnauthorized))
					reverts++
				}
			}
			Expect(reverts).To(Equal(9))
		})
	})

	Describe("Whitelist", func() {

		BeforeEach(func() {
			Expect(beforeEach()).To(Succeed())
			_, err := Exec(genesis, admin, sale, "AddManager", []interface{}{admin})
			Expect(err).To(Succeed())
		})

		AfterEach(func() {
			afterEach()
		})

		It("addBuyer, showBuyers, delBuyer", func() {
			is, err := Exec(genesis, admin, sale, "ShowBuyers", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].([]common.Address)).To(BeEmpty())

			_, err = Exec(genesis, admin, sale, "AddBuyer", []interface{}{alice})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, admin, sale, "AddBuyer", []interface{}{bob})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, admin, sale, "AddBuyer", []interface{}{alice})
			Expect(err).To(MatchError(addrset.ErrExistAddress))

			is, err = Exec(genesis, admin, sale, "ShowBuyers", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].([]common.Address)).To(Equal([]common.Address{alice, bob}))
			Expect(investorOf(alice).Exists).To(BeTrue())

			_, err = Exec(genesis, admin, sale, "DelBuyer", []interface{}{alice})
			Expect(err).To(Succeed())
			Expect(investorOf(alice).Exists).To(BeFalse())

			is, err = Exec(genesis, admin, sale, "ShowBuyers", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].([]common.Address)).To(Equal([]common.Address{bob}))

			_, err = Exec(genesis, admin, sale, "DelBuyer", []interface{}{alice})
			Expect(err).To(MatchError(addrset.ErrNotExistAddress))
		})

		It("sets the freezing period of the token", func() {
			_, err := Exec(genesis, admin, sale, "SetFreezingPeriod", []interface{}{uint64(3600)})
			Expect(err).To(Succeed())

			is, err := Exec(genesis, admin, tokenAddr, "FreezedUntil", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint64)).To(Equal(_Now + 3600))
		})

		It("rejects a freezing period past the end of time", func() {
			_, err := Exec(genesis, admin, sale, "SetFreezingPeriod", []interface{}{uint64(math.MaxUint64)})
			Expect(err).To(MatchError(token.ErrInvalidAmount))

			is, err := Exec(genesis, admin, tokenAddr, "FreezedUntil", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint64)).To(BeZero())
		})
	})

	Describe("Lifecycle", func() {

		BeforeEach(func() {
			Expect(beforeEach()).To(Succeed())
			Exec(genesis, admin, sale, "AddManager", []interface{}{admin})
		})

		AfterEach(func() {
			afterEach()
		})

		It("startICO, increaseIcoDuration", func() {
			_, err := Exec(genesis, admin, sale, "IncreaseIcoDuration", []interface{}{uint64(1000)})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))

			_, err = Exec(genesis, admin, sale, "StartICO", []interface{}{})
			Expect(err).To(Succeed())
			is, err := Exec(genesis, admin, sale, "ICOState", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())

			_, err = Exec(genesis, admin, sale, "StartICO", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))

			is, _ = Exec(genesis, admin, sale, "ICODuration", []interface{}{})
			oldDuration := is[0].(uint64)
			_, err = Exec(genesis, admin, sale, "IncreaseIcoDuration", []interface{}{uint64(1000)})
			Expect(err).To(Succeed())
			is, _ = Exec(genesis, admin, sale, "ICODuration", []interface{}{})
			Expect(is[0].(uint64)).To(Equal(oldDuration + 60000))
		})

		It("rejects a duration extension that overflows", func() {
			Exec(genesis, admin, sale, "StartICO", []interface{}{})
			is, _ := Exec(genesis, admin, sale, "ICODuration", []interface{}{})
			oldDuration := is[0].(uint64)

			for _, minutes := range []uint64{math.MaxUint64/60 + 1, (math.MaxUint64-oldDuration)/60 + 1} {
				hash := genesis.Hash()
				_, err := Exec(genesis, admin, sale, "IncreaseIcoDuration", []interface{}{minutes})
				Expect(err).To(MatchError(crowdsale.ErrInvalidConfig))
				Expect(genesis.Hash()).To(Equal(hash))
			}
			is, _ = Exec(genesis, admin, sale, "ICODuration", []interface{}{})
			Expect(is[0].(uint64)).To(Equal(oldDuration))
		})

		It("stopICO sends the company share once and freezes the wallet", func() {
			_, err := Exec(genesis, admin, sale, "StopICO", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))

			Exec(genesis, admin, sale, "StartICO", []interface{}{})
			_, err = Exec(genesis, admin, sale, "SetcompanyWallet", []interface{}{company})
			Expect(err).To(Succeed())
			is, _ := Exec(genesis, admin, sale, "CompanyWallet", []interface{}{})
			Expect(is[0].(common.Address)).To(Equal(company))

			is, _ = Exec(genesis, admin, tokenAddr, "IfFreezedHolder", []interface{}{company})
			Expect(is[0].(bool)).To(BeFalse())
			Expect(tokenBalanceOf(company).IsZero()).To(BeTrue())

			_, err = Exec(genesis, admin, sale, "StopICO", []interface{}{})
			Expect(err).To(Succeed())

			Expect(tokenBalanceOf(company).String()).To(Equal("200000000"))
			is, _ = Exec(genesis, admin, tokenAddr, "IfFreezedHolder", []interface{}{company})
			Expect(is[0].(bool)).To(BeTrue())
			is, _ = Exec(genesis, admin, sale, "Phase", []interface{}{})
			Expect(is[0].(crowdsale.Phase)).To(Equal(crowdsale.PhaseStopped))

			_, err = Exec(genesis, admin, sale, "StopICO", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))

			_, err = Exec(genesis, admin, sale, "SetCompanyWallet", []interface{}{charlie})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))

			_, err = Exec(genesis, admin, sale, "StartICO", []interface{}{})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, admin, sale, "StopICO", []interface{}{})
			Expect(err).To(Succeed())
			Expect(tokenBalanceOf(company).String()).To(Equal("200000000"))

			_, err = Exec(genesis, company, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
		})
	})

	Describe("SendTokens", func() {

		BeforeEach(func() {
			Expect(beforeEachRunning()).To(Succeed())
		})

		AfterEach(func() {
			afterEach()
		})

		It("rejects 11% of the investors part and accepts 1000 tokens", func() {
			hash := genesis.Hash()
			_, err := Exec(genesis, admin, sale, "SendTokens", []interface{}{alice, uint64(44000000)})
			Expect(err).To(MatchError(crowdsale.ErrCapExceeded))
			Expect(genesis.Hash()).To(Equal(hash))

			_, err = Exec(genesis, admin, sale, "SendTokens", []interface{}{alice, uint64(1000)})
			Expect(err).To(Succeed())
			Expect(tokenBalanceOf(alice).String()).To(Equal("1000"))
			Expect(investorOf(alice).TokensCredited).To(Equal(uint64(1000)))

			is, _ := Exec(genesis, admin, sale, "TotalSold", []interface{}{})
			Expect(is[0].(uint64)).To(Equal(uint64(1000)))
		})

		It("adds to the tokens credited by purchases", func() {
			_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, admin, sale, "SendTokens", []interface{}{alice, uint64(1000)})
			Expect(err).To(Succeed())

			Expect(investorOf(alice).TokensCredited).To(Equal(uint64(2000)))
			Expect(tokenBalanceOf(alice).String()).To(Equal("1000"))
			is, _ := Exec(genesis, admin, sale, "GetAmountOfTokensToSend", []interface{}{alice})
			Expect(is[0].(uint64)).To(Equal(uint64(1000)))
		})

		It("treats the cap as inclusive", func() {
			_, err := Exec(genesis, admin, sale, "SendTokens", []interface{}{bob, uint64(40000000)})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, admin, sale, "SendTokens", []interface{}{bob, uint64(1)})
			Expect(err).To(MatchError(crowdsale.ErrCapExceeded))
			Expect(tokenBalanceOf(bob).String()).To(Equal("40000000"))
		})

		It("delivers tokens that stay frozen during the freezing period", func() {
			Exec(genesis, admin, sale, "SetFreezingPeriod", []interface{}{uint64(3600)})
			Exec(genesis, admin, sale, "SendTokens", []interface{}{alice, uint64(1000)})

			_, err := Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{charlie, amount.NewAmount(500, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))

			genesis.AddTimestamp(3600)
			_, err = Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{charlie, amount.NewAmount(500, 0)})
			Expect(err).To(Succeed())
			Expect(tokenBalanceOf(charlie).String()).To(Equal("500"))
		})
	})

	Describe("Purchase", func() {

		AfterEach(func() {
			afterEach()
		})

		It("requires a running sale", func() {
			Expect(beforeEach()).To(Succeed())
			_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
			Expect(err).To(MatchError(crowdsale.ErrSaleNotRunning))
			Expect(genesis.Balance(alice).String()).To(Equal(_Funds.String()))
		})

		Describe("while running", func() {

			BeforeEach(func() {
				Expect(beforeEachRunning()).To(Succeed())
			})

			It("keeps stats for the investor", func() {
				_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
				Expect(err).To(Succeed())

				is, err := Exec(genesis, admin, sale, "ContractBalance", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(*amount.Amount).String()).To(Equal("1"))
				Expect(genesis.Balance(alice).String()).To(Equal(_Funds.Sub(_Ether).String()))

				stats := investorOf(alice)
				Expect(stats.Exists).To(BeTrue())
				Expect(stats.EtherContributed.String()).To(Equal("1"))
				Expect(stats.TokensCredited).To(Equal(uint64(1000)))
				Expect(stats.Refunded).To(BeFalse())

				is, err = Exec(genesis, admin, sale, "GetAmountOfTokensToSend", []interface{}{alice})
				Expect(err).To(Succeed())
				Expect(is[0].(uint64)).To(Equal(uint64(1000)))

				Expect(tokenBalanceOf(alice).IsZero()).To(BeTrue())
			})

			It("is paid by anyone for the investor", func() {
				_, err := Pay(genesis, bob, sale, _Ether.MulC(2), "Purchase", []interface{}{charlie})
				Expect(err).To(Succeed())
				Expect(investorOf(charlie).TokensCredited).To(Equal(uint64(2000)))
				Expect(investorOf(bob).Exists).To(BeFalse())
			})

			It("rejects a zero value", func() {
				_, err := Pay(genesis, alice, sale, nil, "Purchase", []interface{}{alice})
				Expect(err).To(MatchError(crowdsale.ErrZeroValue))
			})

			It("rejects more than the cap", func() {
				Expect(genesis.Fund(alice, amount.NewAmount(100000, 0))).To(Succeed())
				hash := genesis.Hash()
				_, err := Pay(genesis, alice, sale, amount.NewAmount(44000, 0), "Purchase", []interface{}{alice})
				Expect(err).To(MatchError(crowdsale.ErrCapExceeded))
				Expect(genesis.Hash()).To(Equal(hash))

				_, err = Pay(genesis, alice, sale, amount.NewAmount(40000, 0), "Purchase", []interface{}{alice})
				Expect(err).To(Succeed())
				_, err = Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
				Expect(err).To(MatchError(crowdsale.ErrCapExceeded))
			})

			It("rejects value over the balance of the payer", func() {
				_, err := Pay(genesis, alice, sale, _Funds.Add(_Ether), "Purchase", []interface{}{alice})
				Expect(err).To(MatchError(types.ErrInsufficientValue))
			})

			It("rejects value on other methods", func() {
				_, err := Pay(genesis, alice, sale, _Ether, "TotalSold", []interface{}{})
				Expect(err).To(MatchError(types.ErrNotPayable))
			})

			It("closes when the duration has elapsed", func() {
				is, _ := Exec(genesis, admin, sale, "ICODuration", []interface{}{})
				genesis.AddTimestamp(is[0].(uint64))
				_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
				Expect(err).To(MatchError(crowdsale.ErrSaleNotRunning))
			})
		})
	})
})
