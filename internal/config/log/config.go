// Package log 提供日志模块配置
package log

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// 默认值
const (
	defaultLevel      = "info"
	defaultFilePath   = ""
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 5
	defaultMaxAgeDays = 30
	defaultConsole    = true
)

// LogOptions 日志配置选项
type LogOptions struct {
	Level      string // 日志级别：debug | info | warn | error
	FilePath   string // 日志文件路径（空表示仅控制台输出）
	MaxSizeMB  int    // 单文件上限（MB），超出后轮转
	MaxBackups int    // 保留的轮转文件数
	MaxAgeDays int    // 轮转文件保留天数
	Console    bool   // 是否输出到控制台
}

// Config 日志配置
type Config struct {
	options *LogOptions
}

// New 创建日志配置
//
// userConfig为nil时使用默认值；指针字段逐项覆盖默认值。
func New(userConfig *types.UserLogConfig) *Config {
	options := &LogOptions{
		Level:      defaultLevel,
		FilePath:   defaultFilePath,
		MaxSizeMB:  defaultMaxSizeMB,
		MaxBackups: defaultMaxBackups,
		MaxAgeDays: defaultMaxAgeDays,
		Console:    defaultConsole,
	}

	if userConfig != nil {
		if userConfig.Level != nil {
			options.Level = *userConfig.Level
		}
		if userConfig.FilePath != nil {
			options.FilePath = *userConfig.FilePath
		}
		if userConfig.MaxSizeMB != nil {
			options.MaxSizeMB = *userConfig.MaxSizeMB
		}
		if userConfig.MaxBackups != nil {
			options.MaxBackups = *userConfig.MaxBackups
		}
		if userConfig.MaxAgeDays != nil {
			options.MaxAgeDays = *userConfig.MaxAgeDays
		}
		if userConfig.Console != nil {
			options.Console = *userConfig.Console
		}
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *LogOptions { return c.options }
