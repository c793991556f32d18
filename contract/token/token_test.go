package token_test

import (
	"math"
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/contract/access"
	"github.com/meverselabs/tokensale/contract/token"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Token", func() {

	BeforeEach(func() {
		Expect(beforeEach()).To(Succeed())
	})

	AfterEach(func() {
		afterEach()
	})

	It("name, symbol, decimals, totalSupply, balanceOf", func() {
		is, err := Exec(genesis, alice, tokenAddr, "Name", []interface{}{})
		Expect(err).To(Succeed())
		Expect(is[0].(string)).To(Equal(_Name))

		is, err = Exec(genesis, alice, tokenAddr, "Symbol", []interface{}{})
		Expect(err).To(Succeed())
		Expect(is[0].(string)).To(Equal(_Symbol))

		is, err = Exec(genesis, alice, tokenAddr, "Decimals", []interface{}{})
		Expect(err).To(Succeed())
		Expect(is[0].(*big.Int).Int64()).To(Equal(int64(18)))

		is, err = Exec(genesis, alice, tokenAddr, "TotalSupply", []interface{}{})
		Expect(err).To(Succeed())
		Expect(is[0].(*amount.Amount).String()).To(Equal(token.DefaultSupply.String()))
		Expect(balanceOf(admin).String()).To(Equal(token.DefaultSupply.String()))
		Expect(balanceOf(alice).IsZero()).To(BeTrue())

		is, err = Exec(genesis, alice, tokenAddr, "Owner", []interface{}{})
		Expect(err).To(Succeed())
		Expect(is[0].(common.Address)).To(Equal(admin))
	})

	Describe("Transfer", func() {

		It("moves tokens between holders", func() {
			is, err := Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(1000, 0)})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())

			Expect(balanceOf(alice).String()).To(Equal("1000"))
			Expect(balanceOf(admin).String()).To(Equal(token.DefaultSupply.Sub(amount.NewAmount(1000, 0)).String()))
		})

		It("rejects more than the balance", func() {
			Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(10, 0)})

			_, err := Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(11, 0)})
			Expect(err).To(MatchError(token.ErrInsufficientBalance))
			Expect(balanceOf(alice).String()).To(Equal("10"))
			Expect(balanceOf(bob).IsZero()).To(BeTrue())
		})

		It("rejects the zero address", func() {
			_, err := Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{common.ZeroAddr, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrInvalidAddress))
		})

		It("accepts a zero amount without change", func() {
			is, err := Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(0, 0)})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())
			Expect(balanceOf(bob).IsZero()).To(BeTrue())
		})
	})

	Describe("Allowance", func() {

		It("approve, transferFrom", func() {
			_, err := Exec(genesis, admin, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(10000, 0)})
			Expect(err).To(Succeed())
			Expect(allowance(admin, alice).String()).To(Equal("10000"))

			_, err = Exec(genesis, alice, tokenAddr, "TransferFrom", []interface{}{admin, alice, amount.NewAmount(10000, 0)})
			Expect(err).To(Succeed())
			Expect(allowance(admin, alice).IsZero()).To(BeTrue())
			Expect(balanceOf(alice).String()).To(Equal("10000"))
		})

		It("approve overwrites", func() {
			Exec(genesis, admin, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(10, 0)})
			Exec(genesis, admin, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(3, 0)})
			Expect(allowance(admin, alice).String()).To(Equal("3"))
		})

		It("increaseApproval, decreaseApproval", func() {
			Exec(genesis, admin, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(100, 0)})

			_, err := Exec(genesis, admin, tokenAddr, "IncreaseApproval", []interface{}{alice, amount.NewAmount(1000, 0)})
			Expect(err).To(Succeed())
			Expect(allowance(admin, alice).String()).To(Equal("1100"))

			_, err = Exec(genesis, admin, tokenAddr, "DecreaseApproval", []interface{}{alice, amount.NewAmount(500, 0)})
			Expect(err).To(Succeed())
			Expect(allowance(admin, alice).String()).To(Equal("600"))

			_, err = Exec(genesis, admin, tokenAddr, "DecreaseApproval", []interface{}{alice, amount.NewAmount(601, 0)})
			Expect(err).To(MatchError(token.ErrInsufficientAllowance))
			Expect(allowance(admin, alice).String()).To(Equal("600"))
		})

		It("rejects more than allowed", func() {
			Exec(genesis, admin, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(100, 0)})

			_, err := Exec(genesis, alice, tokenAddr, "TransferFrom", []interface{}{admin, alice, amount.NewAmount(500, 0)})
			Expect(err).To(MatchError(token.ErrInsufficientAllowance))
			Expect(allowance(admin, alice).String()).To(Equal("100"))
		})

		It("rejects more than the holder has", func() {
			Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(50, 0)})
			Exec(genesis, bob, tokenAddr, "Approve", []interface{}{alice, amount.NewAmount(100, 0)})

			_, err := Exec(genesis, alice, tokenAddr, "TransferFrom", []interface{}{bob, alice, amount.NewAmount(100, 0)})
			Expect(err).To(MatchError(token.ErrInsufficientBalance))
			Expect(balanceOf(bob).String()).To(Equal("50"))
		})
	})

	Describe("Freeze", func() {

		BeforeEach(func() {
			Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(100, 0)})
		})

		It("sets the freezing period from now", func() {
			_, err := Exec(genesis, admin, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			Expect(err).To(Succeed())

			is, err := Exec(genesis, alice, tokenAddr, "FreezedUntil", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].(uint64)).To(Equal(_Now + 1000))

			genesis.AddTimestamp(10)
			_, err = Exec(genesis, admin, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			Expect(err).To(Succeed())
			is, _ = Exec(genesis, alice, tokenAddr, "FreezedUntil", []interface{}{})
			Expect(is[0].(uint64)).To(Equal(_Now + 1010))
		})

		It("rejects a period past the end of time", func() {
			Exec(genesis, admin, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			hash := genesis.Hash()

			_, err := Exec(genesis, admin, tokenAddr, "Freeze", []interface{}{uint64(math.MaxUint64)})
			Expect(err).To(MatchError(token.ErrInvalidAmount))
			Expect(genesis.Hash()).To(Equal(hash))

			is, _ := Exec(genesis, alice, tokenAddr, "FreezedUntil", []interface{}{})
			Expect(is[0].(uint64)).To(Equal(_Now + 1000))
		})

		It("restricts holders but not the owner until the period ends", func() {
			Exec(genesis, admin, tokenAddr, "Freeze", []interface{}{uint64(1000)})

			_, err := Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))

			is, err := Exec(genesis, alice, tokenAddr, "IsFrozen", []interface{}{alice})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())

			_, err = Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(1, 0)})
			Expect(err).To(Succeed())
			Expect(balanceOf(alice).String()).To(Equal("101"))

			genesis.AddTimestamp(1000)
			_, err = Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(Succeed())
			Expect(balanceOf(bob).String()).To(Equal("1"))
		})

		It("checks the funds owner in transferFrom", func() {
			Exec(genesis, alice, tokenAddr, "Approve", []interface{}{bob, amount.NewAmount(10, 0)})
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{alice})

			_, err := Exec(genesis, bob, tokenAddr, "TransferFrom", []interface{}{alice, bob, amount.NewAmount(10, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
			Expect(allowance(alice, bob).String()).To(Equal("10"))
		})

		It("requires the owner or a manager", func() {
			_, err := Exec(genesis, alice, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			Expect(err).To(MatchError(access.ErrUnauthorized))
			_, err = Exec(genesis, alice, tokenAddr, "AddHolderToFridge", []interface{}{bob})
			Expect(err).To(MatchError(access.ErrUnauthorized))

			_, err = Exec(genesis, admin, tokenAddr, "AddManager", []interface{}{charlie})
			Expect(err).To(Succeed())
			_, err = Exec(genesis, charlie, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			Expect(err).To(Succeed())
		})
	})

	Describe("Fridge", func() {

		BeforeEach(func() {
			Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(100, 0)})
		})

		It("freezes the holder for good", func() {
			is, err := Exec(genesis, admin, tokenAddr, "IfFreezedHolder", []interface{}{alice})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeFalse())

			_, err = Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{alice})
			Expect(err).To(Succeed())

			is, err = Exec(genesis, admin, tokenAddr, "IfFreezedHolder", []interface{}{alice})
			Expect(err).To(Succeed())
			Expect(is[0].(bool)).To(BeTrue())

			_, err = Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))

			genesis.AddTimestamp(100000000)
			_, err = Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
		})

		It("blocks allowance changes of frozen holders", func() {
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{alice})
			_, err := Exec(genesis, alice, tokenAddr, "Approve", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
			_, err = Exec(genesis, alice, tokenAddr, "IncreaseApproval", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
			Expect(allowance(alice, bob).IsZero()).To(BeTrue())
		})

		It("lets frozen holders receive", func() {
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{alice})
			_, err := Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(1, 0)})
			Expect(err).To(Succeed())
			Expect(balanceOf(alice).String()).To(Equal("101"))
		})

		It("lists holders once in order", func() {
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{bob})
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{alice})
			_, err := Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{bob})
			Expect(err).To(Succeed())

			is, err := Exec(genesis, admin, tokenAddr, "GetFreezedHoldersList", []interface{}{})
			Expect(err).To(Succeed())
			Expect(is[0].([]common.Address)).To(Equal([]common.Address{bob, alice}))
		})

		It("does not exempt the owner", func() {
			Exec(genesis, admin, tokenAddr, "AddHolderToFridge", []interface{}{admin})
			_, err := Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
		})
	})

	Describe("Ownership", func() {

		It("moves the freeze exemption with the owner", func() {
			Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{alice, amount.NewAmount(100, 0)})

			_, err := Exec(genesis, alice, tokenAddr, "TransferOwnership", []interface{}{alice})
			Expect(err).To(MatchError(access.ErrUnauthorized))
			_, err = Exec(genesis, admin, tokenAddr, "TransferOwnership", []interface{}{alice})
			Expect(err).To(Succeed())

			_, err = Exec(genesis, alice, tokenAddr, "Freeze", []interface{}{uint64(1000)})
			Expect(err).To(Succeed())

			_, err = Exec(genesis, admin, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(MatchError(token.ErrFrozen))
			_, err = Exec(genesis, alice, tokenAddr, "Transfer", []interface{}{bob, amount.NewAmount(1, 0)})
			Expect(err).To(Succeed())
		})
	})
})
