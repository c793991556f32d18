package main

import (
	"time"

	"github.com/meverselabs/tokensale/cmd/closer"
	"github.com/meverselabs/tokensale/cmd/config"
	"github.com/meverselabs/tokensale/common"
	"github.com/meverselabs/tokensale/common/amount"
	"github.com/meverselabs/tokensale/common/bin"
	"github.com/meverselabs/tokensale/common/rlog"
	"github.com/meverselabs/tokensale/contract/crowdsale"
	"github.com/meverselabs/tokensale/core/backend"
	_ "github.com/meverselabs/tokensale/core/backend/badger_driver"
	_ "github.com/meverselabs/tokensale/core/backend/bolt_driver"
	_ "github.com/meverselabs/tokensale/core/backend/leveldb_driver"
	_ "github.com/meverselabs/tokensale/core/backend/memory_driver"
	"github.com/meverselabs/tokensale/core/store"
	"github.com/meverselabs/tokensale/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// CrowdsaleClassID is the class of the sale deployed by init
var CrowdsaleClassID = types.MustRegisterContractType(&crowdsale.CrowdsaleContract{})

type app struct {
	cfg    *config.Config
	st     *store.Store
	cm     *closer.Manager
	logger *zap.Logger
}

func openApp(cfg *config.Config) (*app, error) {
	db, err := backend.Create(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:    cfg,
		st:     store.NewStore(db, cfg.Store.CacheSize),
		cm:     closer.NewManager(),
		logger: rlog.Named("app"),
	}
	a.cm.Add("store", a.st)
	return a, nil
}

func (a *app) Close() {
	a.cm.CloseAll()
}

// context returns the latest committed state at the given time, or an empty state when nothing is stored
func (a *app) context(timestamp uint64) (*types.Context, error) {
	s, err := a.st.Latest()
	if err != nil {
		if !errors.Is(err, store.ErrNotExistSnapshot) {
			return nil, err
		}
		return types.NewContext(timestamp), nil
	}
	ctx := s.Context()
	if timestamp > ctx.LastTimestamp() {
		ctx.SetTimestamp(timestamp)
	}
	return ctx, nil
}

func (a *app) commit(ctx *types.Context) (uint32, error) {
	height, err := a.st.Commit(ctx)
	if err != nil {
		return 0, err
	}
	if a.cfg.Store.Keep > 0 {
		n, err := a.st.Prune(a.cfg.Store.Keep)
		if err != nil {
			return 0, err
		}
		if n > 0 {
			a.logger.Debug("prune", zap.Int("count", n), zap.Uint32("keep", a.cfg.Store.Keep))
		}
	}
	return height, nil
}

// deploySale deploys a sale with the configured construction
func (a *app) deploySale(timestamp uint64) (common.Address, common.Address, error) {
	deployer, err := common.ParseAddress(a.cfg.Sale.Deployer)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, errors.Wrap(err, "deployer")
	}
	data, err := saleConstruction(a.cfg.Sale)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	bs, _, err := bin.WriterToBytes(data)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	ctx, err := a.context(timestamp)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	cont, err := ctx.DeployContract(deployer, CrowdsaleClassID, bs)
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	is, err := ctx.Call(deployer, cont.Address(), "Token")
	if err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	if _, err := a.commit(ctx); err != nil {
		return common.ZeroAddr, common.ZeroAddr, err
	}
	return cont.Address(), is[0].(common.Address), nil
}

func (a *app) fund(timestamp uint64, addr common.Address, am *amount.Amount) error {
	ctx, err := a.context(timestamp)
	if err != nil {
		return err
	}
	if err := ctx.Fund(addr, am); err != nil {
		return err
	}
	_, err = a.commit(ctx)
	return err
}

func (a *app) execute(timestamp uint64, from common.Address, to common.Address, value *amount.Amount, method string, args []interface{}) ([]interface{}, error) {
	ctx, err := a.context(timestamp)
	if err != nil {
		return nil, err
	}
	is, err := ctx.Execute(from, to, value, method, args...)
	if err != nil {
		return nil, err
	}
	if _, err := a.commit(ctx); err != nil {
		return nil, err
	}
	return is, nil
}

func (a *app) call(timestamp uint64, from common.Address, to common.Address, method string, args []interface{}) ([]interface{}, error) {
	ctx, err := a.context(timestamp)
	if err != nil {
		return nil, err
	}
	return ctx.Call(from, to, method, args...)
}

func now() uint64 {
	return uint64(time.Now().Unix())
}
