// Package config provides configuration provider interfaces.
package config

import (
	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	logconfig "github.com/weisyn/unitledger/internal/config/log"
	badgerconfig "github.com/weisyn/unitledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/unitledger/internal/config/storage/memory"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/pkg/types"
)

// Provider 配置提供者接口
type Provider interface {
	// === 核心配置 ===

	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetLedger 获取账本配置
	GetLedger() *ledgerconfig.LedgerOptions

	// GetUnit 获取单元状态机配置
	GetUnit() *unitconfig.UnitOptions

	// GetGovernance 获取治理配置
	GetGovernance() *governanceconfig.GovernanceOptions

	// === 存储引擎配置 ===

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetMemory 获取内存缓存配置
	GetMemory() *memoryconfig.MemoryOptions

	// === 环境配置 ===

	// GetEnvironment 获取运行环境
	// 返回运行环境字符串：dev | test | prod
	// 未配置时默认为 "prod"（安全优先）
	GetEnvironment() string

	// === 原始配置访问 ===

	// GetAppConfig 获取原始应用配置（用于验证等场景）
	GetAppConfig() *types.AppConfig

	// GetGenesis 获取创世配置（铸造/管理权限与初始分配）
	GetGenesis() *types.GenesisConfig
}

// AppOptions 应用启动期注入的原始配置载体
type AppOptions interface {
	// GetAppConfig 获取解析后的应用配置
	GetAppConfig() *types.AppConfig
}
