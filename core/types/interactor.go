package types

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/pkg/errors"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

var (
	addressType = reflect.TypeOf(common.Address{})
	amountType  = reflect.TypeOf(&amount.Amount{})
	bigIntType  = reflect.TypeOf(&big.Int{})
)

// ExecFunc calls a method of the contract at Addr on behalf of the contract of Cc
type ExecFunc = func(Cc *ContractContext, Addr common.Address, MethodName string, Args []interface{}) ([]interface{}, error)

type interactor struct {
	ctx    *Context
	conMap map[common.Address]Contract
}

func newInteractor(ctx *Context) *interactor {
	return &interactor{
		ctx:    ctx,
		conMap: map[common.Address]Contract{},
	}
}

func (i *interactor) Exec(Cc *ContractContext, ContAddr common.Address, MethodName string, Args []interface{}) ([]interface{}, error) {
	if MethodName == "" {
		return nil, errors.Wrap(ErrInvalidMethod, "method not given")
	}
	cont, err := i.getContract(ContAddr)
	if err != nil {
		return nil, err
	}
	ecc := &ContractContext{
		cont:  ContAddr,
		from:  Cc.cont,
		value: amount.NewAmount(0, 0),
		ctx:   i.ctx,
		Exec:  i.Exec,
	}
	return _exec(ecc, cont, exportedName(MethodName), Args)
}

func (i *interactor) getContract(Addr common.Address) (Contract, error) {
	if cont, has := i.conMap[Addr]; has {
		return cont, nil
	}
	cont, err := i.ctx.Contract(Addr)
	if err != nil {
		return nil, err
	}
	i.conMap[Addr] = cont
	return cont, nil
}

func exportedName(MethodName string) string {
	if MethodName == "" {
		return MethodName
	}
	return strings.ToUpper(MethodName[:1]) + MethodName[1:]
}

func _exec(ecc *ContractContext, cont Contract, MethodName string, Args []interface{}) ([]interface{}, error) {
	ContAddr := cont.Address()
	rMethod, err := methodByName(cont, ContAddr, MethodName)
	if err != nil {
		return nil, err
	}
	in, err := ContractInputsConv(Args, rMethod)
	if err != nil {
		return nil, err
	}
	in = append([]reflect.Value{reflect.ValueOf(ecc)}, in...)

	sn := ecc.ctx.Snapshot()
	var vs []reflect.Value
	if err := protect(ContAddr, MethodName, func() error {
		vs = rMethod.Call(in)
		return nil
	}); err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}
	result, err := getResults(rMethod.Type(), vs)
	if err != nil {
		ecc.ctx.Revert(sn)
		return nil, err
	}
	ecc.ctx.Commit(sn)
	return result, nil
}

func protect(ContAddr common.Address, MethodName string, fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Wrapf(ErrContractPanic, "call method(%v) of contract(%v) message: %v", MethodName, ContAddr.String(), v)
		}
	}()
	return fn()
}

func methodByName(cont Contract, Addr common.Address, MethodName string) (reflect.Value, error) {
	vo := reflect.ValueOf(cont.Front())
	if !vo.IsValid() || (vo.Kind() == reflect.Ptr && vo.IsNil()) {
		return reflect.Value{}, errors.Wrapf(ErrNotExistContract, "nil front of contract %v", Addr.String())
	}
	method := vo.MethodByName(MethodName)
	if !method.IsValid() {
		return reflect.Value{}, errors.Wrapf(ErrInvalidMethod, "method not exist: %v of contract %v", MethodName, Addr.String())
	}
	return method, nil
}

func getResults(mType reflect.Type, vs []reflect.Value) ([]interface{}, error) {
	var err error
	result := []interface{}{}
	for i, v := range vs {
		if mType.Out(i) == errType {
			if !v.IsNil() {
				err = v.Interface().(error)
			}
			continue
		}
		result = append(result, v.Interface())
	}
	return result, err
}

// ContractInputsConv converts the arguments to the parameter types of the method.
// The first parameter of the method is always the contract context.
func ContractInputsConv(Args []interface{}, rMethod reflect.Value) ([]reflect.Value, error) {
	mt := rMethod.Type()
	if mt.NumIn() < 1 {
		return nil, errors.WithStack(ErrInvalidMethod)
	}
	if mt.NumIn() != len(Args)+1 {
		return nil, errors.Wrapf(ErrInvalidArgument, "invalid inputs count got %v want %v", len(Args), mt.NumIn()-1)
	}
	in := make([]reflect.Value, len(Args))
	for i, v := range Args {
		param, err := convertInput(v, mt.In(i+1))
		if err != nil {
			return nil, errors.Wrapf(err, "input %v", i)
		}
		in[i] = param
	}
	return in, nil
}

func convertInput(v interface{}, mType reflect.Type) (reflect.Value, error) {
	if v == nil {
		switch mType.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map:
			return reflect.Zero(mType), nil
		}
		return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "nil for %v", mType)
	}
	param := reflect.ValueOf(v)
	if param.Type() == mType {
		return param, nil
	}
	if s, ok := v.(string); ok && mType.Kind() != reflect.String {
		return parseInput(s, mType)
	}
	if param.Type().AssignableTo(mType) {
		return param, nil
	}
	if isInteger(param.Kind()) && isInteger(mType.Kind()) {
		if isSigned(param.Kind()) && param.Int() < 0 && !isSigned(mType.Kind()) {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "negative %v for %v", v, mType)
		}
		return param.Convert(mType), nil
	}
	switch pv := v.(type) {
	case *big.Int:
		if mType == amountType {
			return reflect.ValueOf(amount.NewAmountFromBig(pv)), nil
		}
	case *amount.Amount:
		if mType == bigIntType {
			return reflect.ValueOf(new(big.Int).Set(pv.Int)), nil
		}
	}
	return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "get %v want %v", param.Type(), mType)
}

func parseInput(s string, mType reflect.Type) (reflect.Value, error) {
	switch mType {
	case addressType:
		addr, err := common.ParseAddress(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(addr), nil
	case amountType:
		am, err := amount.ParseAmount(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(am), nil
	case bigIntType:
		bi, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "invalid integer %v", s)
		}
		return reflect.ValueOf(bi), nil
	}
	switch mType.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "invalid bool %v", s)
		}
		return reflect.ValueOf(b).Convert(mType), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, mType.Bits())
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "invalid unsigned %v", s)
		}
		return reflect.ValueOf(n).Convert(mType), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, mType.Bits())
		if err != nil {
			return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "invalid integer %v", s)
		}
		return reflect.ValueOf(n).Convert(mType), nil
	}
	return reflect.Value{}, errors.Wrapf(ErrInvalidArgument, "cannot parse %q as %v", s, mType)
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || (k >= reflect.Uint && k <= reflect.Uint64)
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}
