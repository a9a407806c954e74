// Package memory 提供内存缓存配置
package memory

// 默认值
const (
	defaultLifeWindow  = "10m"
	defaultCleanWindow = "5m"
	defaultShards      = 256
	defaultMaxEntrySize = 512
)

// MemoryOptions 内存缓存配置选项
type MemoryOptions struct {
	LifeWindow   string // 缓存条目生存窗口
	CleanWindow  string // 过期清理窗口
	Shards       int    // 分片数（2的幂）
	MaxEntrySize int    // 单条目最大字节数
}

// Config 内存缓存配置
type Config struct {
	options *MemoryOptions
}

// New 创建内存缓存配置（当前无用户侧可调项，保留默认值）
func New() *Config {
	return &Config{options: &MemoryOptions{
		LifeWindow:   defaultLifeWindow,
		CleanWindow:  defaultCleanWindow,
		Shards:       defaultShards,
		MaxEntrySize: defaultMaxEntrySize,
	}}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *MemoryOptions { return c.options }
