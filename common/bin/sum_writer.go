package bin

import (
	"io"
	"math/big"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/hash"
)

// SumWriter accumulates the number of written bytes over a sequence of writes
type SumWriter struct {
	sum int64
}

func NewSumWriter() *SumWriter {
	return &SumWriter{}
}

func (sw *SumWriter) add(n int64, err error) (int64, error) {
	if err != nil {
		return sw.sum, err
	}
	sw.sum += n
	return sw.sum, nil
}

func (sw *SumWriter) Uint8(w io.Writer, v uint8) (int64, error) {
	return sw.add(WriteUint8(w, v))
}

func (sw *SumWriter) Uint16(w io.Writer, v uint16) (int64, error) {
	return sw.add(WriteUint16(w, v))
}

func (sw *SumWriter) Uint32(w io.Writer, v uint32) (int64, error) {
	return sw.add(WriteUint32(w, v))
}

func (sw *SumWriter) Uint64(w io.Writer, v uint64) (int64, error) {
	return sw.add(WriteUint64(w, v))
}

func (sw *SumWriter) Bytes(w io.Writer, v []byte) (int64, error) {
	return sw.add(WriteBytes(w, v))
}

func (sw *SumWriter) String(w io.Writer, v string) (int64, error) {
	return sw.add(WriteString(w, v))
}

func (sw *SumWriter) Bool(w io.Writer, v bool) (int64, error) {
	return sw.add(WriteBool(w, v))
}

func (sw *SumWriter) Hash256(w io.Writer, v hash.Hash256) (int64, error) {
	return sw.add(WriteBytes(w, v[:]))
}

func (sw *SumWriter) Address(w io.Writer, v common.Address) (int64, error) {
	return sw.add(WriteBytes(w, v[:]))
}

func (sw *SumWriter) Amount(w io.Writer, v *amount.Amount) (int64, error) {
	var bs []byte
	if v != nil && v.Int != nil {
		bs = v.Bytes()
	}
	return sw.add(WriteBytes(w, bs))
}

func (sw *SumWriter) BigInt(w io.Writer, v *big.Int) (int64, error) {
	var bs []byte
	if v != nil {
		bs = v.Bytes()
	}
	return sw.add(WriteBytes(w, bs))
}

func (sw *SumWriter) WriterTo(w io.Writer, v io.WriterTo) (int64, error) {
	return sw.add(v.WriteTo(w))
}

func (sw *SumWriter) Sum() int64 {
	return sw.sum
}
