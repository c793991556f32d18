package access

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/core/types"
)

// Role is a permission level checked by an Authorizer
type Role uint8

// roles
const (
	RoleOwner Role = iota + 1
	RoleManager
	// RoleAdmin is held by the owner and by every manager
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleManager:
		return "manager"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Authorizer answers whether the caller holds the role in the contract
type Authorizer interface {
	IsAuthorized(cc types.ContractLoader, caller common.Address, role Role) bool
}
