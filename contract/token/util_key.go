package token

import "github.com/meverselabs/tokensale/common"

var (
	tagTokenName        = byte(0x01)
	tagTokenSymbol      = byte(0x02)
	tagTokenTotalSupply = byte(0x04)
	tagOwner            = byte(0x05)
	tagManagers         = byte(0x06)
	tagFreezeUntil      = byte(0x07)
	tagFridge           = byte(0x08)
	tagTokenAmount      = byte(0x10)
	tagTokenApprove     = byte(0x12)
)

func MakeAllowanceTokenKey(spender common.Address) []byte {
	return makeTokenKey(spender, tagTokenApprove)
}

func makeTokenKey(addr common.Address, key byte) []byte {
	bs := make([]byte, 1+common.AddressLength)
	bs[0] = key
	copy(bs[1:], addr[:])
	return bs
}
