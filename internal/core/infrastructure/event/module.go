// Package event 提供事件记录与持久化日志的装配
package event

import (
	eventInterface "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义事件模块的依赖参数
type ModuleParams struct {
	fx.In

	KVStore storage.KVStore
	Logger  log.Logger
}

// ModuleOutput 定义事件模块的输出结构
type ModuleOutput struct {
	fx.Out

	Recorder eventInterface.Recorder
	Journal  eventInterface.Journal
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供事件服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	journal, err := NewBadgerJournal(params.KVStore)
	if err != nil {
		return ModuleOutput{}, err
	}

	recorder := NewRecorder(journal, params.Logger)

	return ModuleOutput{
		Recorder: recorder,
		Journal:  journal,
	}, nil
}
