// Package clock 提供时间源实现与装配
package clock

import (
	"time"

	"github.com/weisyn/unitledger/pkg/interfaces/config"
	infraClock "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/clock"
	"go.uber.org/fx"
)

// ModuleParams 定义时钟模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider
}

// ModuleOutput 定义时钟模块的输出结构
type ModuleOutput struct {
	fx.Out

	Clock infraClock.Clock
}

// Module 返回时钟模块
func Module() fx.Option {
	return fx.Module("clock",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供时钟服务
//
// dev/test环境使用确定性时钟便于复现，prod使用系统时钟。
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	var clk infraClock.Clock
	switch params.Provider.GetEnvironment() {
	case "dev", "test":
		clk = NewDeterministicClock(time.Unix(1_700_000_000, 0).UTC())
	default:
		clk = NewSystemClock()
	}

	return ModuleOutput{Clock: clk}, nil
}
