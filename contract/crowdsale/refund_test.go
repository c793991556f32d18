package crowdsale_test

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/addrset"
	"github.com/meverselabs/tokensale/contract/crowdsale"
	"github.com/meverselabs/tokensale/core/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Custody", func() {

	AfterEach(func() {
		afterEach()
	})

	Describe("RefundEther", func() {

		It("requires a started sale", func() {
			Expect(beforeEach()).To(Succeed())
			Exec(genesis, admin, sale, "AddManager", []interface{}{admin})
			_, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))
		})

		Describe("with purchases", func() {

			BeforeEach(func() {
				Expect(beforeEachRunning()).To(Succeed())
				_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
				Expect(err).To(Succeed())
				_, err = Pay(genesis, bob, sale, _Ether.MulC(2), "Purchase", []interface{}{bob})
				Expect(err).To(Succeed())
			})

			It("returns the held value to every investor", func() {
				is, err := Exec(genesis, admin, sale, "PendingRefunds", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].([]common.Address)).To(Equal([]common.Address{alice, bob}))

				is, err = Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(2)))

				Expect(genesis.Balance(sale).IsZero()).To(BeTrue())
				Expect(genesis.Balance(alice).String()).To(Equal(_Funds.String()))
				Expect(genesis.Balance(bob).String()).To(Equal(_Funds.String()))

				stats := investorOf(alice)
				Expect(stats.Refunded).To(BeTrue())
				Expect(stats.EtherContributed.String()).To(Equal("1"))

				is, err = Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(0)))

				is, _ = Exec(genesis, admin, sale, "PendingRefunds", []interface{}{})
				Expect(is[0].([]common.Address)).To(BeEmpty())
			})

			It("works after the sale is stopped", func() {
				Exec(genesis, admin, sale, "StopICO", []interface{}{})
				is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(2)))
			})

			It("pays a new purchase after a refund", func() {
				Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				_, err := Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{alice})
				Expect(err).To(Succeed())
				Expect(investorOf(alice).Refunded).To(BeFalse())

				is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(1)))
				Expect(genesis.Balance(alice).String()).To(Equal(_Funds.String()))
			})

			It("skips investors removed from the whitelist", func() {
				Exec(genesis, admin, sale, "AddBuyer", []interface{}{bob})
				_, err := Exec(genesis, admin, sale, "DelBuyer", []interface{}{bob})
				Expect(err).To(Succeed())

				is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(1)))
				Expect(genesis.Balance(sale).String()).To(Equal("2"))

				is, _ = Exec(genesis, admin, sale, "PendingRefunds", []interface{}{})
				Expect(is[0].([]common.Address)).To(Equal([]common.Address{bob}))
			})

			It("rejects a contract investor that cannot take a refund", func() {
				for _, investor := range []common.Address{tokenAddr, sale} {
					hash := genesis.Hash()
					_, err := Pay(genesis, charlie, sale, _Ether, "Purchase", []interface{}{investor})
					Expect(err).To(MatchError(types.ErrNotPayable))
					Expect(genesis.Hash()).To(Equal(hash))
					Expect(investorOf(investor).Exists).To(BeFalse())
				}
				Expect(genesis.Balance(charlie).String()).To(Equal(_Funds.String()))

				is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(2)))
				Expect(genesis.Balance(alice).String()).To(Equal(_Funds.String()))
			})

			It("drops a purchaser that was never whitelisted", func() {
				is, _ := Exec(genesis, admin, sale, "ShowBuyers", []interface{}{})
				Expect(is[0].([]common.Address)).To(BeEmpty())

				_, err := Exec(genesis, admin, sale, "DelBuyer", []interface{}{bob})
				Expect(err).To(Succeed())
				Expect(investorOf(bob).Exists).To(BeFalse())

				is, err = Exec(genesis, admin, sale, "RefundEther", []interface{}{})
				Expect(err).To(Succeed())
				Expect(is[0].(uint32)).To(Equal(uint32(1)))
				Expect(genesis.Balance(alice).String()).To(Equal(_Funds.String()))
				Expect(genesis.Balance(sale).String()).To(Equal("2"))

				_, err = Exec(genesis, admin, sale, "DelBuyer", []interface{}{bob})
				Expect(err).To(MatchError(addrset.ErrNotExistAddress))
			})

			It("can only be called by a manager", func() {
				hash := genesis.Hash()
				_, err := Exec(genesis, alice, sale, "RefundEther", []interface{}{})
				Expect(err).To(HaveOccurred())
				Expect(genesis.Hash()).To(Equal(hash))
			})
		})

		It("pays at most the batch limit per call", func() {
			Expect(beforeEachWithConstruction(&crowdsale.CrowdsaleContractConstruction{
				TokenName:        _Name,
				TokenSymbol:      _Symbol,
				RefundBatchLimit: 2,
			})).To(Succeed())
			Exec(genesis, admin, sale, "AddManager", []interface{}{admin})
			Exec(genesis, admin, sale, "StartICO", []interface{}{})
			for _, addr := range []common.Address{alice, bob, charlie} {
				_, err := Pay(genesis, addr, sale, _Ether, "Purchase", []interface{}{addr})
				Expect(err).To(Succeed())
			}

			is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint32)).To(Equal(uint32(2)))
			Expect(genesis.Balance(charlie).String()).To(Equal(_Funds.Sub(_Ether).String()))

			is, err = Exec(genesis, admin, sale, "RefundEther", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint32)).To(Equal(uint32(1)))
			Expect(genesis.Balance(charlie).String()).To(Equal(_Funds.String()))
		})

		It("blocks a reentrant refund from a receiving contract", func() {
			Expect(beforeEachRunning()).To(Succeed())
			cont, err := genesis.DeployContract(admin, classMap["Receiver"], sale[:])
			Expect(err).To(Succeed())
			receiver := cont.Address()
			_, err = Exec(genesis, admin, sale, "AddManager", []interface{}{receiver})
			Expect(err).To(Succeed())

			_, err = Pay(genesis, alice, sale, _Ether, "Purchase", []interface{}{receiver})
			Expect(err).To(Succeed())
			_, err = Pay(genesis, bob, sale, _Ether, "Purchase", []interface{}{bob})
			Expect(err).To(Succeed())

			is, err := Exec(genesis, admin, sale, "RefundEther", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint32)).To(Equal(uint32(2)))

			Expect(genesis.Balance(receiver).String()).To(Equal(_Ether.String()))
			Expect(genesis.Balance(bob).String()).To(Equal(_Funds.String()))
			Expect(genesis.Balance(sale).IsZero()).To(BeTrue())

			is, err = genesis.Call(admin, receiver, "Reentered")
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())
		})
	})

	Describe("WithdrawEther", func() {

		BeforeEach(func() {
			Expect(beforeEachRunning()).To(Succeed())
			Exec(genesis, admin, sale, "SetcompanyWallet", []interface{}{company})
			_, err := Pay(genesis, alice, sale, _Ether.MulC(3), "Purchase", []interface{}{alice})
			Expect(err).To(Succeed())
		})

		It("requires a stopped sale", func() {
			_, err := Exec(genesis, admin, sale, "WithdrawEther", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))
			Expect(genesis.Balance(sale).String()).To(Equal("3"))
		})

		It("moves the custody to the company wallet once", func() {
			_, err := Exec(genesis, admin, sale, "StopICO", []interface{}{})
			Expect(err).To(Succeed())

			is, err := Exec(genesis, admin, sale, "WithdrawEther", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(*amount.Amount).String()).To(Equal("3"))
			Expect(genesis.Balance(company).String()).To(Equal("3"))
			Expect(genesis.Balance(sale).IsZero()).To(BeTrue())

			is, _ = Exec(genesis, admin, sale, "Withdrawn", []interface{}{})
			Expect(is[0].(bool)).To(BeTrue())

			_, err = Exec(genesis, admin, sale, "WithdrawEther", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))
			_, err = Exec(genesis, admin, sale, "RefundEther", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))
			_, err = Exec(genesis, admin, sale, "StartICO", []interface{}{})
			Expect(err).To(MatchError(crowdsale.ErrInvalidPhase))
		})

		It("still delivers tokens after the withdrawal", func() {
			Exec(genesis, admin, sale, "StopICO", []interface{}{})
			_, err := Exec(genesis, admin, sale, "WithdrawEther", []interface{}{})
			Expect(err).To(Succeed())

			_, err = Exec(genesis, admin, sale, "SendTokens", []interface{}{alice, uint64(1000)})
			Expect(err).To(Succeed())
			Expect(tokenBalanceOf(alice).String()).To(Equal("1000"))
			Expect(investorOf(alice).TokensCredited).To(Equal(uint64(4000)))
			Expect(genesis.Balance(company).String()).To(Equal("3"))
		})
	})
})
