package amount

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// COIN is 1 coin
var COIN = NewAmount(1, 0)

// FractionalMax represent the max value of under the float point
const FractionalMax = 1000000000000000000

// FractionalCount represent the number of under the float point
const FractionalCount = 18

// errors
var (
	ErrInvalidAmountFormat = errors.New("invalid amount format")
)

var zeroInt = big.NewInt(0)

// Amount is the precision float value based on the big.Int
type Amount struct {
	*big.Int
}

func newAmount(value int64) *Amount {
	return &Amount{
		Int: big.NewInt(value),
	}
}

// NewAmount returns the amount that is consisted of the integer and the fractional value
func NewAmount(i uint64, f uint64) *Amount {
	bi := new(big.Int).SetUint64(i)
	bi.Mul(bi, big.NewInt(FractionalMax))
	bi.Add(bi, new(big.Int).SetUint64(f))
	return &Amount{Int: bi}
}

// NewCoinAmount is the same as NewAmount
func NewCoinAmount(i uint64, f uint64) *Amount {
	return NewAmount(i, f)
}

// NewAtomicAmount returns the amount of v smallest units
func NewAtomicAmount(v uint64) *Amount {
	return &Amount{Int: new(big.Int).SetUint64(v)}
}

// NewAmountFromBytes parse the amount from the byte array
func NewAmountFromBytes(bs []byte) *Amount {
	b := newAmount(0)
	b.Int.SetBytes(bs)
	return b
}

// NewAmountFromBig copies the big.Int into a new amount
func NewAmountFromBig(bi *big.Int) *Amount {
	b := newAmount(0)
	if bi != nil {
		b.Int.Set(bi)
	}
	return b
}

// MarshalJSON is a marshaler function
func (am *Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + am.String() + `"`), nil
}

// UnmarshalJSON is a unmarshaler function
func (am *Amount) UnmarshalJSON(bs []byte) error {
	if len(bs) < 3 {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	if bs[0] != '"' || bs[len(bs)-1] != '"' {
		return errors.WithStack(ErrInvalidAmountFormat)
	}
	v, err := ParseAmount(string(bs[1 : len(bs)-1]))
	if err != nil {
		return err
	}
	am.Int = v.Int
	return nil
}

// Clone returns the clonend value of it
func (am *Amount) Clone() *Amount {
	return NewAmountFromBig(am.Int)
}

// Add returns a + b (*immutable)
func (am *Amount) Add(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Add(am.Int, b.Int)
	return c
}

// Sub returns a - b (*immutable)
func (am *Amount) Sub(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Sub(am.Int, b.Int)
	return c
}

// Div returns a / b (*immutable)
func (am *Amount) Div(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, b.Int)
	return c
}

// DivC returns a / b (*immutable)
func (am *Amount) DivC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Div(am.Int, big.NewInt(b))
	return c
}

// Mul returns a * b (*immutable)
func (am *Amount) Mul(b *Amount) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, b.Int)
	return c
}

// MulC returns a * b (*immutable)
func (am *Amount) MulC(b int64) *Amount {
	c := newAmount(0)
	c.Int.Mul(am.Int, big.NewInt(b))
	return c
}

// IsZero returns a == 0
func (am *Amount) IsZero() bool {
	return am.Int.Cmp(zeroInt) == 0
}

// IsPlus returns a > 0
func (am *Amount) IsPlus() bool {
	return am.Int.Cmp(zeroInt) > 0
}

// IsMinus returns a < 0
func (am *Amount) IsMinus() bool {
	return am.Int.Cmp(zeroInt) < 0
}

// Less returns a < b
func (am *Amount) Less(b *Amount) bool {
	return am.Int.Cmp(b.Int) < 0
}

// Equal checks that two values is same or not
func (am *Amount) Equal(b *Amount) bool {
	return am.Int.Cmp(b.Int) == 0
}

// Whole returns the integer part of the coin value
func (am *Amount) Whole() *Amount {
	return am.DivC(FractionalMax)
}

// String returns the float string of the amount
func (am *Amount) String() string {
	if am.IsZero() {
		return "0"
	}
	if am.IsMinus() {
		return "-" + am.Clone().MulC(-1).String()
	}
	str := am.Int.String()
	if len(str) <= FractionalCount {
		return "0." + formatFractional(str)
	}
	si := str[:len(str)-FractionalCount]
	sf := strings.TrimRight(str[len(str)-FractionalCount:], "0")
	if len(sf) > 0 {
		return si + "." + sf
	}
	return si
}

// ParseAmount parse the amount from the float string
func ParseAmount(str string) (*Amount, error) {
	ls := strings.SplitN(str, ".", 2)
	pi, err := strconv.ParseUint(ls[0], 10, 64)
	if err != nil {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	if len(ls) == 1 {
		return NewAmount(pi, 0), nil
	}
	if len(ls[1]) == 0 || len(ls[1]) > FractionalCount {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	pf, err := strconv.ParseUint(padFractional(ls[1]), 10, 64)
	if err != nil {
		return nil, errors.WithStack(ErrInvalidAmountFormat)
	}
	return NewAmount(pi, pf), nil
}

// MustParseAmount parse the amount from the float string
func MustParseAmount(str string) *Amount {
	am, err := ParseAmount(str)
	if err != nil {
		panic(err)
	}
	return am
}
