package bin

import (
	"io"
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/hash"
	"github.com/pkg/errors"
)

// SumReader accumulates the number of read bytes over a sequence of reads
type SumReader struct {
	sum int64
}

func NewSumReader() *SumReader {
	return &SumReader{}
}

func (sr *SumReader) add(n int64, err error) (int64, error) {
	sr.sum += n
	return sr.sum, err
}

func (sr *SumReader) Uint8(r io.Reader, p *uint8) (int64, error) {
	v, n, err := ReadUint8(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) Uint16(r io.Reader, p *uint16) (int64, error) {
	v, n, err := ReadUint16(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) Uint32(r io.Reader, p *uint32) (int64, error) {
	v, n, err := ReadUint32(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) GetUint32(r io.Reader) (uint32, int64, error) {
	v, n, err := ReadUint32(r)
	sum, err := sr.add(n, err)
	return v, sum, err
}

func (sr *SumReader) Uint64(r io.Reader, p *uint64) (int64, error) {
	v, n, err := ReadUint64(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) Bytes(r io.Reader, p *[]byte) (int64, error) {
	v, n, err := ReadBytes(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) String(r io.Reader, p *string) (int64, error) {
	v, n, err := ReadString(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) Bool(r io.Reader, p *bool) (int64, error) {
	v, n, err := ReadBool(r)
	*p = v
	return sr.add(n, err)
}

func (sr *SumReader) Hash256(r io.Reader, p *hash.Hash256) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil && len(v) != hash.HashLength {
		err = errors.WithStack(ErrInvalidLength)
	}
	if err == nil {
		copy((*p)[:], v)
	}
	return sr.add(n, err)
}

func (sr *SumReader) Address(r io.Reader, p *common.Address) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil && len(v) != common.AddressLength {
		err = errors.WithStack(ErrInvalidLength)
	}
	if err == nil {
		copy((*p)[:], v)
	}
	return sr.add(n, err)
}

func (sr *SumReader) Amount(r io.Reader, p **amount.Amount) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil {
		*p = amount.NewAmountFromBytes(v)
	}
	return sr.add(n, err)
}

func (sr *SumReader) BigInt(r io.Reader, p **big.Int) (int64, error) {
	v, n, err := ReadBytes(r)
	if err == nil {
		*p = new(big.Int).SetBytes(v)
	}
	return sr.add(n, err)
}

func (sr *SumReader) ReaderFrom(r io.Reader, p io.ReaderFrom) (int64, error) {
	return sr.add(p.ReadFrom(r))
}

func (sr *SumReader) Sum() int64 {
	return sr.sum
}
