package addrset

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/pkg/errors"
)

var (
	tagNextSeq = byte(0x00)
	tagCount   = byte(0x01)
	tagSeqAddr = byte(0x02)
	tagAddrSeq = byte(0x03)
)

// Reader is the storage view needed to read a set
type Reader interface {
	ContractData(name []byte) []byte
}

// Writer is the storage needed to change a set
type Writer interface {
	Reader
	SetContractData(name []byte, value []byte)
}

// Set is an ordered address set stored in the contract data under a prefix.
// Removed entries leave a tombstone so the insertion order of the rest is kept.
type Set struct {
	prefix byte
}

// New returns the set stored under the prefix
func New(prefix byte) Set {
	return Set{prefix: prefix}
}

func (s Set) key(tag byte, body []byte) []byte {
	bs := make([]byte, 2+len(body))
	bs[0] = s.prefix
	bs[1] = tag
	copy(bs[2:], body)
	return bs
}

func (s Set) seqOf(cc Reader, addr common.Address) (uint64, bool) {
	bs := cc.ContractData(s.key(tagAddrSeq, addr[:]))
	if len(bs) != 8 {
		return 0, false
	}
	return bin.Uint64BE(bs) - 1, true
}

// Has returns the address is in the set or not
func (s Set) Has(cc Reader, addr common.Address) bool {
	_, has := s.seqOf(cc, addr)
	return has
}

// Len returns the number of addresses in the set
func (s Set) Len(cc Reader) int {
	return int(bin.Uint64BE(cc.ContractData(s.key(tagCount, nil))))
}

// Add appends the address at the end of the set
func (s Set) Add(cc Writer, addr common.Address) error {
	if s.Has(cc, addr) {
		return errors.Wrapf(ErrExistAddress, "address %v", addr.String())
	}
	seq := bin.Uint64BE(cc.ContractData(s.key(tagNextSeq, nil)))
	cc.SetContractData(s.key(tagSeqAddr, bin.Uint64BytesBE(seq)), addr[:])
	cc.SetContractData(s.key(tagAddrSeq, addr[:]), bin.Uint64BytesBE(seq+1))
	cc.SetContractData(s.key(tagNextSeq, nil), bin.Uint64BytesBE(seq+1))
	cc.SetContractData(s.key(tagCount, nil), bin.Uint64BytesBE(uint64(s.Len(cc)+1)))
	return nil
}

// Remove deletes the address from the set
func (s Set) Remove(cc Writer, addr common.Address) error {
	seq, has := s.seqOf(cc, addr)
	if !has {
		return errors.Wrapf(ErrNotExistAddress, "address %v", addr.String())
	}
	cc.SetContractData(s.key(tagSeqAddr, bin.Uint64BytesBE(seq)), nil)
	cc.SetContractData(s.key(tagAddrSeq, addr[:]), nil)
	cc.SetContractData(s.key(tagCount, nil), bin.Uint64BytesBE(uint64(s.Len(cc)-1)))
	return nil
}

// Each calls fn for every address in insertion order until fn returns false
func (s Set) Each(cc Reader, fn func(addr common.Address) bool) {
	next := bin.Uint64BE(cc.ContractData(s.key(tagNextSeq, nil)))
	for seq := uint64(0); seq < next; seq++ {
		bs := cc.ContractData(s.key(tagSeqAddr, bin.Uint64BytesBE(seq)))
		if len(bs) != common.AddressLength {
			continue
		}
		if !fn(common.BytesToAddress(bs)) {
			return
		}
	}
}

// List returns every address in insertion order
func (s Set) List(cc Reader) []common.Address {
	list := []common.Address{}
	s.Each(cc, func(addr common.Address) bool {
		list = append(list, addr)
		return true
	})
	return list
}
