package types

import (
	"bytes"
	"encoding/hex"
	"io"
	"strconv"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/common/hash"
	"github.com/pkg/errors"
)

// ContextData is a state layer of the context
type ContextData struct {
	Parent            *ContextData
	ContractDefineMap map[common.Address]*ContractDefine
	AddrSeqMap        map[common.Address]uint64
	BalanceMap        map[common.Address]*amount.Amount
	DataMap           map[string][]byte
	DeletedDataMap    map[string]bool
	isTop             bool
}

// NewContextData returns a ContextData
func NewContextData(Parent *ContextData) *ContextData {
	return &ContextData{
		Parent:            Parent,
		ContractDefineMap: map[common.Address]*ContractDefine{},
		AddrSeqMap:        map[common.Address]uint64{},
		BalanceMap:        map[common.Address]*amount.Amount{},
		DataMap:           map[string][]byte{},
		DeletedDataMap:    map[string]bool{},
		isTop:             true,
	}
}

func dataKey(cont common.Address, addr common.Address, name []byte) string {
	return string(cont[:]) + string(addr[:]) + string(name)
}

// IsContract returns the address is a deployed contract or not
func (ctd *ContextData) IsContract(addr common.Address) bool {
	if _, has := ctd.ContractDefineMap[addr]; has {
		return true
	} else if ctd.Parent != nil {
		return ctd.Parent.IsContract(addr)
	}
	return false
}

// ContractDefine returns the define of the contract
func (ctd *ContextData) ContractDefine(addr common.Address) (*ContractDefine, error) {
	if cd, has := ctd.ContractDefineMap[addr]; has {
		return cd, nil
	} else if ctd.Parent != nil {
		return ctd.Parent.ContractDefine(addr)
	}
	return nil, errors.Wrap(ErrNotExistContract, addr.String())
}

// Contract returns the contract
func (ctd *ContextData) Contract(addr common.Address) (Contract, error) {
	cd, err := ctd.ContractDefine(addr)
	if err != nil {
		return nil, err
	}
	return CreateContract(cd)
}

// SetContractDefine inserts the define of the contract
func (ctd *ContextData) SetContractDefine(cd *ContractDefine) {
	ctd.ContractDefineMap[cd.Address] = cd
}

// Data returns the data
func (ctd *ContextData) Data(cont common.Address, addr common.Address, name []byte) []byte {
	key := dataKey(cont, addr, name)
	if _, has := ctd.DeletedDataMap[key]; has {
		return nil
	}
	if value, has := ctd.DataMap[key]; has {
		return value
	} else if ctd.Parent != nil {
		value := ctd.Parent.Data(cont, addr, name)
		if len(value) == 0 {
			return nil
		}
		if ctd.isTop {
			nvalue := make([]byte, len(value))
			copy(nvalue, value)
			return nvalue
		}
		return value
	}
	return nil
}

// SetData inserts the data, an empty value deletes it
func (ctd *ContextData) SetData(cont common.Address, addr common.Address, name []byte, value []byte) {
	key := dataKey(cont, addr, name)
	if len(value) == 0 {
		delete(ctd.DataMap, key)
		if ctd.Parent != nil {
			ctd.DeletedDataMap[key] = true
		}
	} else {
		delete(ctd.DeletedDataMap, key)
		nvalue := make([]byte, len(value))
		copy(nvalue, value)
		ctd.DataMap[key] = nvalue
	}
}

// AddrSeq returns the deploy sequence of the address
func (ctd *ContextData) AddrSeq(addr common.Address) uint64 {
	if seq, has := ctd.AddrSeqMap[addr]; has {
		return seq
	} else if ctd.Parent != nil {
		return ctd.Parent.AddrSeq(addr)
	}
	return 0
}

// AddAddrSeq update the deploy sequence of the address
func (ctd *ContextData) AddAddrSeq(addr common.Address) {
	ctd.AddrSeqMap[addr] = ctd.AddrSeq(addr) + 1
}

// Balance returns the native value held by the address
func (ctd *ContextData) Balance(addr common.Address) *amount.Amount {
	if am, has := ctd.BalanceMap[addr]; has {
		return am.Clone()
	} else if ctd.Parent != nil {
		return ctd.Parent.Balance(addr)
	}
	return amount.NewAmount(0, 0)
}

// SetBalance update the native value held by the address
func (ctd *ContextData) SetBalance(addr common.Address, am *amount.Amount) {
	ctd.BalanceMap[addr] = am.Clone()
}

// merge applies the changes of the child layer to it
func (ctd *ContextData) merge(child *ContextData) {
	for addr, cd := range child.ContractDefineMap {
		ctd.ContractDefineMap[addr] = cd
	}
	for addr, seq := range child.AddrSeqMap {
		ctd.AddrSeqMap[addr] = seq
	}
	for addr, am := range child.BalanceMap {
		ctd.BalanceMap[addr] = am
	}
	for key, value := range child.DataMap {
		delete(ctd.DeletedDataMap, key)
		ctd.DataMap[key] = value
	}
	for key := range child.DeletedDataMap {
		delete(ctd.DataMap, key)
		if ctd.Parent != nil {
			ctd.DeletedDataMap[key] = true
		}
	}
}

// Hash returns the hash value of it
func (ctd *ContextData) Hash() hash.Hash256 {
	var buffer bytes.Buffer
	buffer.WriteString("ContractDefineMap")
	EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *ContractDefine) error {
		buffer.Write(key[:])
		buffer.Write(cd.Owner[:])
		buffer.Write(bin.Uint64Bytes(cd.ClassID))
		return nil
	})
	buffer.WriteString("AddrSeqMap")
	EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		buffer.Write(key[:])
		buffer.Write(bin.Uint64Bytes(value))
		return nil
	})
	buffer.WriteString("BalanceMap")
	EachAllAddressAmount(ctd.BalanceMap, func(key common.Address, am *amount.Amount) error {
		if am.IsZero() {
			return nil
		}
		buffer.Write(key[:])
		buffer.Write(am.Bytes())
		return nil
	})
	buffer.WriteString("DataMap")
	EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		buffer.WriteString(key)
		buffer.Write(value)
		return nil
	})
	buffer.WriteString("DeletedDataMap")
	EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		buffer.WriteString(key)
		return nil
	})
	return hash.Hash(buffer.Bytes())
}

// Dump prints the context data
func (ctd *ContextData) Dump() string {
	var buffer bytes.Buffer
	buffer.WriteString("ContractDefineMap\n")
	EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *ContractDefine) error {
		buffer.WriteString(key.String())
		buffer.WriteString(":")
		buffer.WriteString(ContractName(cd.ClassID))
		buffer.WriteString(" owner ")
		buffer.WriteString(cd.Owner.String())
		buffer.WriteString("\n")
		return nil
	})
	buffer.WriteString("AddrSeqMap\n")
	EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		buffer.WriteString(key.String())
		buffer.WriteString(":")
		buffer.WriteString(strconv.FormatUint(value, 10))
		buffer.WriteString("\n")
		return nil
	})
	buffer.WriteString("BalanceMap\n")
	EachAllAddressAmount(ctd.BalanceMap, func(key common.Address, am *amount.Amount) error {
		buffer.WriteString(key.String())
		buffer.WriteString(":")
		buffer.WriteString(am.String())
		buffer.WriteString("\n")
		return nil
	})
	buffer.WriteString("DataMap\n")
	EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		buffer.WriteString(hex.EncodeToString([]byte(key)))
		buffer.WriteString(":")
		buffer.WriteString(hex.EncodeToString(value))
		buffer.WriteString("\n")
		return nil
	})
	buffer.WriteString("DeletedDataMap\n")
	EachAllStringBool(ctd.DeletedDataMap, func(key string, value bool) error {
		buffer.WriteString(hex.EncodeToString([]byte(key)))
		buffer.WriteString("\n")
		return nil
	})
	return buffer.String()
}

// WriteTo writes the committed base layer
func (ctd *ContextData) WriteTo(w io.Writer) (int64, error) {
	if ctd.Parent != nil {
		return 0, errors.WithStack(ErrPendingSnapshot)
	}
	sw := bin.NewSumWriter()
	if sum, err := sw.Uint32(w, uint32(len(ctd.ContractDefineMap))); err != nil {
		return sum, err
	}
	if err := EachAllAddressContractDefine(ctd.ContractDefineMap, func(key common.Address, cd *ContractDefine) error {
		_, err := sw.WriterTo(w, cd)
		return err
	}); err != nil {
		return sw.Sum(), err
	}
	if sum, err := sw.Uint32(w, uint32(len(ctd.AddrSeqMap))); err != nil {
		return sum, err
	}
	if err := EachAllAddressUint64(ctd.AddrSeqMap, func(key common.Address, value uint64) error {
		if _, err := sw.Address(w, key); err != nil {
			return err
		}
		_, err := sw.Uint64(w, value)
		return err
	}); err != nil {
		return sw.Sum(), err
	}
	if sum, err := sw.Uint32(w, uint32(len(ctd.BalanceMap))); err != nil {
		return sum, err
	}
	if err := EachAllAddressAmount(ctd.BalanceMap, func(key common.Address, am *amount.Amount) error {
		if _, err := sw.Address(w, key); err != nil {
			return err
		}
		_, err := sw.Amount(w, am)
		return err
	}); err != nil {
		return sw.Sum(), err
	}
	if sum, err := sw.Uint32(w, uint32(len(ctd.DataMap))); err != nil {
		return sum, err
	}
	if err := EachAllStringBytes(ctd.DataMap, func(key string, value []byte) error {
		if _, err := sw.String(w, key); err != nil {
			return err
		}
		_, err := sw.Bytes(w, value)
		return err
	}); err != nil {
		return sw.Sum(), err
	}
	return sw.Sum(), nil
}

// ReadFrom reads a base layer written by WriteTo
func (ctd *ContextData) ReadFrom(r io.Reader) (int64, error) {
	sr := bin.NewSumReader()
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		for i := uint32(0); i < Len; i++ {
			cd := &ContractDefine{}
			if sum, err := sr.ReaderFrom(r, cd); err != nil {
				return sum, err
			}
			if !IsValidClassID(cd.ClassID) {
				return sr.Sum(), errors.Wrapf(ErrInvalidClassID, "contract %v", cd.Address.String())
			}
			ctd.ContractDefineMap[cd.Address] = cd
		}
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		for i := uint32(0); i < Len; i++ {
			var addr common.Address
			if sum, err := sr.Address(r, &addr); err != nil {
				return sum, err
			}
			var seq uint64
			if sum, err := sr.Uint64(r, &seq); err != nil {
				return sum, err
			}
			ctd.AddrSeqMap[addr] = seq
		}
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		for i := uint32(0); i < Len; i++ {
			var addr common.Address
			if sum, err := sr.Address(r, &addr); err != nil {
				return sum, err
			}
			var am *amount.Amount
			if sum, err := sr.Amount(r, &am); err != nil {
				return sum, err
			}
			ctd.BalanceMap[addr] = am
		}
	}
	if Len, sum, err := sr.GetUint32(r); err != nil {
		return sum, err
	} else {
		for i := uint32(0); i < Len; i++ {
			var key string
			if sum, err := sr.String(r, &key); err != nil {
				return sum, err
			}
			if len(key) < common.AddressLength*2 {
				return sr.Sum(), errors.WithStack(ErrInvalidContextData)
			}
			var value []byte
			if sum, err := sr.Bytes(r, &value); err != nil {
				return sum, err
			}
			ctd.DataMap[key] = value
		}
	}
	return sr.Sum(), nil
}
