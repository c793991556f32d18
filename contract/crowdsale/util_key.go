package crowdsale

var (
	tagOwner            = byte(0x01)
	tagManagers         = byte(0x02)
	tagToken            = byte(0x03)
	tagRate             = byte(0x04)
	tagParts            = byte(0x05)
	tagTokensSupply     = byte(0x06)
	tagInvestorCap      = byte(0x07)
	tagRefundBatchLimit = byte(0x08)
	tagPhase            = byte(0x09)
	tagStartedAt        = byte(0x0A)
	tagICODuration      = byte(0x0B)
	tagCompanyWallet    = byte(0x0C)
	tagTotalSold        = byte(0x0D)
	tagWithdrawn        = byte(0x0E)
	tagFinalized        = byte(0x0F)
	tagLock             = byte(0x10)
	tagWhitelist        = byte(0x11)
	tagPendingRefund    = byte(0x12)
	tagInvestor         = byte(0x20)
)
