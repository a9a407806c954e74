// Package ledger 提供账本模块配置
package ledger

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// 默认值
const (
	// defaultMaxSupply 同质代币最大供应量（1亿枚，9位小数）
	defaultMaxSupply = uint64(100_000_000) * 1_000_000_000
)

// LedgerOptions 账本配置选项
type LedgerOptions struct {
	MaxSupply uint64 // 同质代币最大供应量（wei）
}

// Config 账本配置
type Config struct {
	options *LedgerOptions
}

// New 创建账本配置
func New(userConfig *types.UserLedgerConfig) *Config {
	options := &LedgerOptions{
		MaxSupply: defaultMaxSupply,
	}

	if userConfig != nil {
		if userConfig.MaxSupply != nil {
			options.MaxSupply = *userConfig.MaxSupply
		}
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *LedgerOptions { return c.options }
