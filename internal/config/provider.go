package config

import (
	"encoding/json"
	"fmt"
	"os"

	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	logconfig "github.com/weisyn/unitledger/internal/config/log"
	badgerconfig "github.com/weisyn/unitledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/unitledger/internal/config/storage/memory"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/pkg/interfaces/config"
	"github.com/weisyn/unitledger/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// LoadAppConfig 从JSON文件加载应用配置
//
// path为空时返回nil配置（全默认值运行）。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &appConfig, nil
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	// logconfig.New会处理默认值应用和用户配置覆盖
	return logconfig.New(userLogConfig).GetOptions()
}

// GetLedger 获取账本配置
func (p *Provider) GetLedger() *ledgerconfig.LedgerOptions {
	var userLedgerConfig *types.UserLedgerConfig
	if p.appConfig != nil && p.appConfig.Ledger != nil {
		userLedgerConfig = p.appConfig.Ledger
	}

	return ledgerconfig.New(userLedgerConfig).GetOptions()
}

// GetUnit 获取单元状态机配置
func (p *Provider) GetUnit() *unitconfig.UnitOptions {
	var userUnitConfig *types.UserUnitConfig
	if p.appConfig != nil && p.appConfig.Unit != nil {
		userUnitConfig = p.appConfig.Unit
	}

	return unitconfig.New(userUnitConfig).GetOptions()
}

// GetGovernance 获取治理配置
func (p *Provider) GetGovernance() *governanceconfig.GovernanceOptions {
	var userGovernanceConfig *types.UserGovernanceConfig
	if p.appConfig != nil && p.appConfig.Governance != nil {
		userGovernanceConfig = p.appConfig.Governance
	}

	return governanceconfig.New(userGovernanceConfig).GetOptions()
}

// GetBadger 获取BadgerDB存储配置
func (p *Provider) GetBadger() *badgerconfig.BadgerOptions {
	var userStorageConfig *types.UserStorageConfig
	if p.appConfig != nil && p.appConfig.Storage != nil {
		userStorageConfig = p.appConfig.Storage
	}

	return badgerconfig.New(userStorageConfig).GetOptions()
}

// GetMemory 获取内存缓存配置
func (p *Provider) GetMemory() *memoryconfig.MemoryOptions {
	return memoryconfig.New().GetOptions()
}

// GetEnvironment 获取运行环境（默认prod，安全优先）
func (p *Provider) GetEnvironment() string {
	if p.appConfig != nil && p.appConfig.Environment != nil {
		switch *p.appConfig.Environment {
		case "dev", "test", "prod":
			return *p.appConfig.Environment
		}
	}
	return "prod"
}

// GetAppConfig 获取原始应用配置
func (p *Provider) GetAppConfig() *types.AppConfig {
	return p.appConfig
}

// GetGenesis 获取创世配置
func (p *Provider) GetGenesis() *types.GenesisConfig {
	if p.appConfig != nil {
		return p.appConfig.Genesis
	}
	return nil
}

var _ config.Provider = (*Provider)(nil)
