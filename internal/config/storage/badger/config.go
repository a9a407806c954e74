// Package badger 提供BadgerDB存储配置
package badger

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// 默认值
const (
	defaultDataPath  = "data/unitledger"
	defaultInMemory  = false
	defaultSyncWrite = true
)

// BadgerOptions BadgerDB配置选项
type BadgerOptions struct {
	DataPath  string // 数据目录
	InMemory  bool   // 纯内存模式（测试用，不落盘）
	SyncWrite bool   // 每次写入同步落盘
}

// Config BadgerDB配置
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置
func New(userConfig *types.UserStorageConfig) *Config {
	options := &BadgerOptions{
		DataPath:  defaultDataPath,
		InMemory:  defaultInMemory,
		SyncWrite: defaultSyncWrite,
	}

	if userConfig != nil {
		if userConfig.DataPath != nil {
			options.DataPath = *userConfig.DataPath
		}
		if userConfig.InMemory != nil {
			options.InMemory = *userConfig.InMemory
		}
		if userConfig.SyncWrite != nil {
			options.SyncWrite = *userConfig.SyncWrite
		}
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *BadgerOptions { return c.options }
