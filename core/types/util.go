package types

import (
	"bytes"
	"sort"
	"strings"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
)

func sortedAddresses(n int, each func(fn func(addr common.Address))) []common.Address {
	keys := make([]common.Address, 0, n)
	each(func(addr common.Address) {
		keys = append(keys, addr)
	})
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}

// EachAllAddressContractDefine iterates the map in ascending key order
func EachAllAddressContractDefine(m map[common.Address]*ContractDefine, fn func(key common.Address, value *ContractDefine) error) error {
	keys := sortedAddresses(len(m), func(add func(common.Address)) {
		for k := range m {
			add(k)
		}
	})
	for _, k := range keys {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllAddressUint64 iterates the map in ascending key order
func EachAllAddressUint64(m map[common.Address]uint64, fn func(key common.Address, value uint64) error) error {
	keys := sortedAddresses(len(m), func(add func(common.Address)) {
		for k := range m {
			add(k)
		}
	})
	for _, k := range keys {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllAddressAmount iterates the map in ascending key order
func EachAllAddressAmount(m map[common.Address]*amount.Amount, fn func(key common.Address, value *amount.Amount) error) error {
	keys := sortedAddresses(len(m), func(add func(common.Address)) {
		for k := range m {
			add(k)
		}
	})
	for _, k := range keys {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedStrings[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return strings.Compare(keys[i], keys[j]) < 0
	})
	return keys
}

// EachAllStringBytes iterates the map in ascending key order
func EachAllStringBytes(m map[string][]byte, fn func(key string, value []byte) error) error {
	for _, k := range sortedStrings(m) {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// EachAllStringBool iterates the map in ascending key order
func EachAllStringBool(m map[string]bool, fn func(key string, value bool) error) error {
	for _, k := range sortedStrings(m) {
		if err := fn(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
