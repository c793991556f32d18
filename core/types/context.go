package types

import (
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/common/hash"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Context is the in-memory state of the engine using the context data stack
type Context struct {
	sync.Mutex
	timestamp uint64
	stack     []*ContextData
	logger    *zap.Logger
}

// NewContext returns a Context at the timestamp
func NewContext(timestamp uint64) *Context {
	return NewContextWithData(NewContextData(nil), timestamp)
}

// NewContextWithData returns a Context on the committed base layer
func NewContextWithData(base *ContextData, timestamp uint64) *Context {
	return &Context{
		timestamp: timestamp,
		stack:     []*ContextData{base},
		logger:    rlog.Named("context"),
	}
}

// NewEmptyContext returns a Context at the current time
func NewEmptyContext() *Context {
	return NewContext(uint64(time.Now().Unix()))
}

// SetLogger replaces the logger of the context
func (ctx *Context) SetLogger(l *zap.Logger) {
	ctx.logger = l
}

// LastTimestamp returns the block time seen by contracts
func (ctx *Context) LastTimestamp() uint64 {
	return ctx.timestamp
}

// SetTimestamp moves the block time
func (ctx *Context) SetTimestamp(timestamp uint64) {
	ctx.timestamp = timestamp
}

// AddTimestamp moves the block time forward
func (ctx *Context) AddTimestamp(seconds uint64) {
	ctx.timestamp += seconds
}

// Hash returns the hash value of the committed state
func (ctx *Context) Hash() hash.Hash256 {
	return ctx.stack[0].Hash()
}

// Top returns the top snapshot
func (ctx *Context) Top() *ContextData {
	return ctx.stack[len(ctx.stack)-1]
}

// Base returns the committed base layer
func (ctx *Context) Base() (*ContextData, error) {
	if len(ctx.stack) != 1 {
		return nil, errors.WithStack(ErrPendingSnapshot)
	}
	return ctx.stack[0], nil
}

// IsContract returns the address is a deployed contract or not
func (ctx *Context) IsContract(addr common.Address) bool {
	return ctx.Top().IsContract(addr)
}

// Contract returns the contract instance of the address
func (ctx *Context) Contract(addr common.Address) (Contract, error) {
	return ctx.Top().Contract(addr)
}

// Balance returns the native value held by the address
func (ctx *Context) Balance(addr common.Address) *amount.Amount {
	return ctx.Top().Balance(addr)
}

// Fund credits the native value to the address outside of any contract
func (ctx *Context) Fund(addr common.Address, am *amount.Amount) error {
	if am == nil || am.IsMinus() {
		return errors.WithStack(ErrInvalidValue)
	}
	ctx.Lock()
	defer ctx.Unlock()

	top := ctx.Top()
	top.SetBalance(addr, top.Balance(addr).Add(am))
	return nil
}

// Data returns the raw storage value of the contract
func (ctx *Context) Data(cont common.Address, addr common.Address, name []byte) []byte {
	return ctx.Top().Data(cont, addr, name)
}

// Dump prints the committed state of the context
func (ctx *Context) Dump() string {
	return "Timestamp " + spew.Sdump(ctx.timestamp) + ctx.stack[0].Dump()
}

// Snapshot push a snapshot and returns the snapshot number of it
func (ctx *Context) Snapshot() int {
	ctd := NewContextData(ctx.Top())
	ctx.stack[len(ctx.stack)-1].isTop = false
	ctx.stack = append(ctx.stack, ctd)
	return len(ctx.stack)
}

// Revert removes snapshots after the snapshot number
func (ctx *Context) Revert(sn int) {
	if len(ctx.stack) >= sn {
		ctx.stack = ctx.stack[:sn-1]
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// Commit apply snapshots to the top after the snapshot number
func (ctx *Context) Commit(sn int) {
	for len(ctx.stack) >= sn {
		ctd := ctx.Top()
		ctx.stack = ctx.stack[:len(ctx.stack)-1]
		ctx.Top().merge(ctd)
	}
	ctx.stack[len(ctx.stack)-1].isTop = true
}

// StackSize returns the size of the context data stack
func (ctx *Context) StackSize() int {
	return len(ctx.stack)
}

// ContractContext returns a ContractContext of the contract called by the sender
func (ctx *Context) ContractContext(cont common.Address, from common.Address) *ContractContext {
	i := newInteractor(ctx)
	return &ContractContext{
		cont:  cont,
		from:  from,
		value: amount.NewAmount(0, 0),
		ctx:   ctx,
		Exec:  i.Exec,
	}
}

// DeployContract deploys the contract of the class with the construction arguments
func (ctx *Context) DeployContract(sender common.Address, ClassID uint64, Args []byte) (Contract, error) {
	ctx.Lock()
	defer ctx.Unlock()

	sn := ctx.Snapshot()
	cont, err := ctx.deployContract(sender, ClassID, Args)
	if err != nil {
		ctx.Revert(sn)
		ctx.logger.Warn("deploy failed", zap.Stringer("sender", sender), zap.Uint64("class", ClassID), zap.Error(err))
		return nil, err
	}
	ctx.Commit(sn)
	ctx.logger.Info("deploy", zap.Stringer("sender", sender), zap.String("class", ContractName(ClassID)), zap.Stringer("address", cont.Address()))
	return cont, nil
}

func (ctx *Context) deployContract(sender common.Address, ClassID uint64, Args []byte) (Contract, error) {
	if !IsValidClassID(ClassID) {
		return nil, errors.WithStack(ErrInvalidClassID)
	}
	top := ctx.Top()
	seq := top.AddrSeq(sender)
	top.AddAddrSeq(sender)

	base := make([]byte, 1+common.AddressLength+8+8)
	base[0] = 0xff
	copy(base[1:], sender[:])
	copy(base[1+common.AddressLength:], bin.Uint64Bytes(ClassID))
	copy(base[1+common.AddressLength+8:], bin.Uint64Bytes(seq))
	h := hash.Hash(base)
	addr := common.BytesToAddress(h[12:])
	if top.IsContract(addr) {
		return nil, errors.WithStack(ErrExistAddress)
	}

	cd := &ContractDefine{
		Address: addr,
		Owner:   sender,
		ClassID: ClassID,
	}
	cont, err := CreateContract(cd)
	if err != nil {
		return nil, err
	}
	top.SetContractDefine(cd)
	if err := cont.OnCreate(ctx.ContractContext(addr, sender), Args); err != nil {
		return nil, err
	}
	return cont, nil
}

// Execute runs the method of the contract as one atomic operation.
// The value is moved from the sender into the custody of the contract before the method runs
// and every change is reverted when the method returns an error.
func (ctx *Context) Execute(from common.Address, to common.Address, value *amount.Amount, MethodName string, Args ...interface{}) ([]interface{}, error) {
	ctx.Lock()
	defer ctx.Unlock()

	sn := ctx.Snapshot()
	result, err := ctx.execute(from, to, value, MethodName, Args)
	if err != nil {
		ctx.Revert(sn)
		ctx.logger.Info("execute reverted", zap.Stringer("from", from), zap.Stringer("to", to), zap.String("method", MethodName), zap.Error(err))
		return nil, err
	}
	ctx.Commit(sn)
	ctx.logger.Debug("execute", zap.Stringer("from", from), zap.Stringer("to", to), zap.String("method", MethodName))
	return result, nil
}

// Call runs the method of the contract and always discards its changes
func (ctx *Context) Call(from common.Address, to common.Address, MethodName string, Args ...interface{}) ([]interface{}, error) {
	ctx.Lock()
	defer ctx.Unlock()

	sn := ctx.Snapshot()
	defer ctx.Revert(sn)
	return ctx.execute(from, to, nil, MethodName, Args)
}

func (ctx *Context) execute(from common.Address, to common.Address, value *amount.Amount, MethodName string, Args []interface{}) ([]interface{}, error) {
	if value == nil {
		value = amount.NewAmount(0, 0)
	}
	if value.IsMinus() {
		return nil, errors.WithStack(ErrInvalidValue)
	}
	i := newInteractor(ctx)
	cont, err := i.getContract(to)
	if err != nil {
		return nil, err
	}
	MethodName = exportedName(MethodName)
	if value.IsPlus() {
		if p, ok := cont.(Payable); !ok || !p.IsPayable(MethodName) {
			return nil, errors.Wrapf(ErrNotPayable, "method %v of contract %v", MethodName, to.String())
		}
		if err := ctx.transferValue(from, to, value); err != nil {
			return nil, err
		}
	}
	cc := &ContractContext{
		cont:  to,
		from:  from,
		value: value,
		ctx:   ctx,
		Exec:  i.Exec,
	}
	return _exec(cc, cont, MethodName, Args)
}

func (ctx *Context) transferValue(from common.Address, to common.Address, am *amount.Amount) error {
	top := ctx.Top()
	fb := top.Balance(from)
	if fb.Less(am) {
		return errors.Wrapf(ErrInsufficientValue, "%v has %v, need %v", from.String(), fb.String(), am.String())
	}
	top.SetBalance(from, fb.Sub(am))
	top.SetBalance(to, top.Balance(to).Add(am))
	return nil
}
