// Package storage 提供存储基础设施的装配
package storage

import (
	"context"

	badgerstore "github.com/weisyn/unitledger/internal/core/infrastructure/storage/badger"
	memorystore "github.com/weisyn/unitledger/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/unitledger/pkg/interfaces/config"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	KVStore    storageInterface.KVStore
	CacheStore storageInterface.CacheStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideServices 提供存储服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	kv, err := badgerstore.New(params.Provider.GetBadger(), params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	cache, err := memorystore.New(params.Provider.GetMemory(), params.Logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		KVStore:    kv,
		CacheStore: cache,
	}, nil
}

// registerLifecycle 注册存储生命周期钩子（应用退出时落盘关闭）
func registerLifecycle(lc fx.Lifecycle, kv storageInterface.KVStore, logger log.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("关闭持久化存储")
			return kv.Close()
		},
	})
}
