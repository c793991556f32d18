package access

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/contract/addrset"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
)

// Registry keeps a single owner and an ordered manager set in the storage of the contract that holds it
type Registry struct {
	tagOwner byte
	managers addrset.Set
}

// NewRegistry returns a registry stored under the owner tag and the manager set prefix
func NewRegistry(tagOwner byte, tagManagers byte) *Registry {
	return &Registry{
		tagOwner: tagOwner,
		managers: addrset.New(tagManagers),
	}
}

// Init sets the first owner
func (r *Registry) Init(cc *types.ContractContext, owner common.Address) {
	cc.SetContractData([]byte{r.tagOwner}, owner[:])
}

// Owner returns the current owner, zero after renouncement
func (r *Registry) Owner(cc types.ContractLoader) common.Address {
	return common.BytesToAddress(cc.ContractData([]byte{r.tagOwner}))
}

// IsManager returns the address is a manager or not
func (r *Registry) IsManager(cc types.ContractLoader, addr common.Address) bool {
	return r.managers.Has(cc, addr)
}

// ManagerList returns managers in the order they were added
func (r *Registry) ManagerList(cc types.ContractLoader) []common.Address {
	return r.managers.List(cc)
}

// IsAuthorized returns the caller holds the role or not
func (r *Registry) IsAuthorized(cc types.ContractLoader, caller common.Address, role Role) bool {
	switch role {
	case RoleOwner:
		return caller != common.ZeroAddr && caller == r.Owner(cc)
	case RoleManager:
		return r.IsManager(cc, caller)
	case RoleAdmin:
		return r.IsAuthorized(cc, caller, RoleOwner) || r.IsManager(cc, caller)
	default:
		return false
	}
}

// Require returns ErrUnauthorized when the caller of cc does not hold the role
func Require(auth Authorizer, cc types.ContractLoader, role Role) error {
	if !auth.IsAuthorized(cc, cc.From(), role) {
		return errors.Wrapf(ErrUnauthorized, "%v is not %v", cc.From().String(), role.String())
	}
	return nil
}

// TransferOwnership hands the contract to the new owner
func (r *Registry) TransferOwnership(cc *types.ContractContext, newOwner common.Address) error {
	if err := Require(r, cc, RoleOwner); err != nil {
		return err
	}
	if newOwner == common.ZeroAddr {
		return errors.WithStack(ErrZeroAddress)
	}
	cc.SetContractData([]byte{r.tagOwner}, newOwner[:])
	return nil
}

// RenounceOwnership leaves the contract without an owner
func (r *Registry) RenounceOwnership(cc *types.ContractContext) error {
	if err := Require(r, cc, RoleOwner); err != nil {
		return err
	}
	cc.SetContractData([]byte{r.tagOwner}, nil)
	return nil
}

func (r *Registry) AddManager(cc *types.ContractContext, addr common.Address) error {
	if err := Require(r, cc, RoleOwner); err != nil {
		return err
	}
	if addr == common.ZeroAddr {
		return errors.WithStack(ErrZeroAddress)
	}
	return r.managers.Add(cc, addr)
}

func (r *Registry) DeleteManager(cc *types.ContractContext, addr common.Address) error {
	if err := Require(r, cc, RoleOwner); err != nil {
		return err
	}
	return r.managers.Remove(cc, addr)
}
