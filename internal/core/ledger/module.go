package ledger

import (
	"context"
	"fmt"

	"github.com/weisyn/unitledger/pkg/interfaces/config"
	"github.com/weisyn/unitledger/pkg/interfaces/governance"
	clockInterface "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/clock"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	ledgerInterface "github.com/weisyn/unitledger/pkg/interfaces/ledger"
	"go.uber.org/fx"
)

// StateParams 定义状态构造的依赖参数
type StateParams struct {
	fx.In

	Provider config.Provider
	KVStore  storage.KVStore
	Clock    clockInterface.Clock
	Logger   log.Logger
}

// ModuleParams 定义账本模块的依赖参数
type ModuleParams struct {
	fx.In

	State    *State
	Provider config.Provider
	Params   governance.ParameterStore
	Recorder event.Recorder
	Cache    storage.CacheStore
	Logger   log.Logger
}

// ModuleOutput 定义账本模块的输出结构
type ModuleOutput struct {
	fx.Out

	Manager *Manager
	Ledger  ledgerInterface.AccountLedger
}

// Module 返回账本模块
func Module() fx.Option {
	return fx.Module("ledger",
		fx.Provide(
			ProvideState,
			ProvideServices,
		),
		fx.Invoke(registerSnapshotHook),
	)
}

// ProvideState 构造共享状态：优先恢复快照，否则按创世配置初始化
func ProvideState(params StateParams) (*State, error) {
	state, err := LoadSnapshot(context.Background(), params.KVStore)
	if err != nil {
		return nil, err
	}
	if state != nil {
		params.Logger.Info("已从快照恢复账本状态")
		return state, nil
	}

	genesis := params.Provider.GetGenesis()
	if genesis == nil {
		return nil, fmt.Errorf("无快照且未提供创世配置，无法初始化账本状态")
	}

	state, err = BuildGenesisState(genesis, params.Provider.GetUnit().InitialResonance, params.Clock.Unix())
	if err != nil {
		return nil, err
	}
	params.Logger.Info("已按创世配置初始化账本状态")
	return state, nil
}

// ProvideServices 提供账本服务
//
// 纠缠解除器在装配后期经SetDisentangler注入（解决与单元状态机的相互依赖）。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	manager, err := NewManager(
		params.State,
		params.Provider.GetLedger(),
		params.Params,
		nil,
		params.Recorder,
		params.Cache,
		params.Logger,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Manager: manager,
		Ledger:  manager,
	}, nil
}

// registerSnapshotHook 应用退出时落盘状态快照
func registerSnapshotHook(lc fx.Lifecycle, state *State, kv storage.KVStore, logger log.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("写入账本状态快照")
			return state.SaveSnapshot(ctx, kv)
		},
	})
}
