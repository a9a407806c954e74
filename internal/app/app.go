// Package app 提供应用装配与生命周期管理
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	configmodule "github.com/weisyn/unitledger/internal/config"
	"github.com/weisyn/unitledger/internal/core/governance"
	clockmodule "github.com/weisyn/unitledger/internal/core/infrastructure/clock"
	eventmodule "github.com/weisyn/unitledger/internal/core/infrastructure/event"
	logmodule "github.com/weisyn/unitledger/internal/core/infrastructure/log"
	storagemodule "github.com/weisyn/unitledger/internal/core/infrastructure/storage"
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/internal/core/unit"
	configInterface "github.com/weisyn/unitledger/pkg/interfaces/config"
	"go.uber.org/fx"
)

// App 应用实例
type App struct {
	fxApp *fx.App
}

// ProvideAppOptions 提供应用配置选项实例
//
// 配置文件存在时解析为AppConfig，不存在时使用全默认配置。
func ProvideAppOptions(opts *options) (configInterface.AppOptions, error) {
	if opts.configFilePath == "" {
		return opts, nil
	}

	appConfig, err := configmodule.LoadAppConfig(opts.configFilePath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	if appConfig != nil {
		opts.appConfig = appConfig
	}
	return opts, nil
}

// Modules 按依赖顺序返回全部应用模块
//
// 基础设施层（配置、日志、时钟、存储、事件）先于业务层
// （参数集、账本、单元状态机、治理）装配。
func Modules(opts *options) []fx.Option {
	return []fx.Option{
		fx.Supply(opts),
		fx.Provide(ProvideAppOptions),

		// 基础设施层
		configmodule.Module(),
		logmodule.Module(),
		clockmodule.Module(),
		storagemodule.Module(),
		eventmodule.Module(),

		// 业务层
		governance.Module(),
		ledger.Module(),
		unit.Module(),
	}
}

// New 创建应用实例
func New(userOpts ...Option) *App {
	opts := newOptions(userOpts...)

	appOptions := append(Modules(opts),
		// fx内部装配日志走黑洞，业务日志由日志模块统一输出
		fx.NopLogger,
	)

	return &App{fxApp: fx.New(appOptions...)}
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	startupCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	if err := a.fxApp.Start(startupCtx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	stopCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := a.fxApp.Stop(stopCtx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// Run 启动应用并阻塞至收到退出信号
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		return err
	}

	sig := WaitForSignal()
	fmt.Printf("收到退出信号: %v\n", sig)

	return a.Stop(context.Background())
}

// WaitForSignal 等待退出信号
func WaitForSignal() os.Signal {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	return <-signals
}
