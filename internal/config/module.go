// Package config 提供应用配置管理功能
package config

import (
	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	logconfig "github.com/weisyn/unitledger/internal/config/log"
	badgerconfig "github.com/weisyn/unitledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/unitledger/internal/config/storage/memory"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/pkg/interfaces/config"
	"github.com/weisyn/unitledger/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			// 提供具体的配置类型用于依赖注入
			func(provider config.Provider) *logconfig.LogOptions {
				return provider.GetLog()
			},
			func(provider config.Provider) *ledgerconfig.LedgerOptions {
				return provider.GetLedger()
			},
			func(provider config.Provider) *unitconfig.UnitOptions {
				return provider.GetUnit()
			},
			func(provider config.Provider) *governanceconfig.GovernanceOptions {
				return provider.GetGovernance()
			},
			func(provider config.Provider) *badgerconfig.BadgerOptions {
				return provider.GetBadger()
			},
			func(provider config.Provider) *memoryconfig.MemoryOptions {
				return provider.GetMemory()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	// 从应用配置选项获取用户配置
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}

	// 创建配置提供者
	provider := NewProvider(appConfig)

	return ConfigOutput{
		Provider: provider,
	}, nil
}
