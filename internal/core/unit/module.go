package unit

import (
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/pkg/interfaces/config"
	"github.com/weisyn/unitledger/pkg/interfaces/governance"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	unitInterface "github.com/weisyn/unitledger/pkg/interfaces/unit"
	"go.uber.org/fx"
)

// ModuleParams 定义单元状态机模块的依赖参数
type ModuleParams struct {
	fx.In

	State    *ledger.State
	Provider config.Provider
	Params   governance.ParameterStore
	Recorder event.Recorder
	Logger   log.Logger
}

// ModuleOutput 定义单元状态机模块的输出结构
type ModuleOutput struct {
	fx.Out

	StateMachine unitInterface.StateMachine
	Disentangler unitInterface.Disentangler
}

// Module 返回单元状态机模块
func Module() fx.Option {
	return fx.Module("unit",
		fx.Provide(ProvideServices),
		fx.Invoke(wireDisentangler),
	)
}

// ProvideServices 提供单元状态机服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	manager, err := NewManager(
		params.State,
		params.Params,
		params.Provider.GetLedger(),
		params.Recorder,
		params.Logger,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		StateMachine: manager,
		Disentangler: manager,
	}, nil
}

// wireDisentangler 把纠缠解除器接入账本销毁路径
func wireDisentangler(ledgerManager *ledger.Manager, d unitInterface.Disentangler) {
	ledgerManager.SetDisentangler(d)
}
