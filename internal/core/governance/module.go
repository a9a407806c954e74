package governance

import (
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/pkg/interfaces/config"
	governanceInterface "github.com/weisyn/unitledger/pkg/interfaces/governance"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// ParamsModuleOutput 参数集输出
type ParamsModuleOutput struct {
	fx.Out

	ParamSet *ParamSet
	Params   governanceInterface.ParameterStore
}

// ModuleParams 定义治理模块的依赖参数
type ModuleParams struct {
	fx.In

	State    *ledger.State
	ParamSet *ParamSet
	Provider config.Provider
	Recorder event.Recorder
	Logger   log.Logger
}

// ModuleOutput 定义治理模块的输出结构
type ModuleOutput struct {
	fx.Out

	Service governanceInterface.Service
}

// Module 返回治理模块
func Module() fx.Option {
	return fx.Module("governance",
		fx.Provide(
			ProvideParams,
			ProvideServices,
		),
	)
}

// ProvideParams 提供实时参数集
//
// 参数集先于状态与各管理器构造：创世初值来自配置，
// 此后写入仅经治理路径。
func ProvideParams(provider config.Provider) ParamsModuleOutput {
	paramSet := NewParamSet(provider.GetUnit(), provider.GetGovernance())
	return ParamsModuleOutput{
		ParamSet: paramSet,
		Params:   paramSet,
	}
}

// ProvideServices 提供治理服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	manager, err := NewManager(
		params.State,
		params.ParamSet,
		params.Provider.GetGovernance(),
		params.Recorder,
		params.Logger,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{Service: manager}, nil
}
