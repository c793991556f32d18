package access

import (
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/core/types"
)

// Front exposes the ownership and manager methods of a registry.
// Contract fronts embed it to publish them next to their own methods.
type Front struct {
	reg *Registry
}

// NewFront returns the front of the registry
func NewFront(reg *Registry) *Front {
	return &Front{reg: reg}
}

func (f *Front) Owner(cc *types.ContractContext) common.Address {
	return f.reg.Owner(cc)
}

func (f *Front) TransferOwnership(cc *types.ContractContext, newOwner common.Address) error {
	return f.reg.TransferOwnership(cc, newOwner)
}

func (f *Front) RenounceOwnership(cc *types.ContractContext) error {
	return f.reg.RenounceOwnership(cc)
}

func (f *Front) AddManager(cc *types.ContractContext, addr common.Address) error {
	return f.reg.AddManager(cc, addr)
}

func (f *Front) DeleteManager(cc *types.ContractContext, addr common.Address) error {
	return f.reg.DeleteManager(cc, addr)
}

func (f *Front) ManagerList(cc *types.ContractContext) []common.Address {
	return f.reg.ManagerList(cc)
}

func (f *Front) IsManager(cc *types.ContractContext, addr common.Address) bool {
	return f.reg.IsManager(cc, addr)
}

func (f *Front) IsAuthorized(cc *types.ContractContext, caller common.Address, role uint8) bool {
	return f.reg.IsAuthorized(cc, caller, Role(role))
}
