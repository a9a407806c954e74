// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	memoryconfig "github.com/weisyn/unitledger/internal/config/storage/memory"
	"github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
)

// Store 实现了CacheStore接口，基于BigCache提供进程内读缓存
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
}

// New 创建一个新的BigCache内存缓存实例
func New(options *memoryconfig.MemoryOptions, logger log.Logger) (storage.CacheStore, error) {
	lifeWindow, err := time.ParseDuration(options.LifeWindow)
	if err != nil {
		logger.Errorf("解析生命周期窗口失败: %v", err)
		lifeWindow = 10 * time.Minute
	}

	cleanWindow, err := time.ParseDuration(options.CleanWindow)
	if err != nil {
		logger.Errorf("解析清理窗口失败: %v", err)
		cleanWindow = 5 * time.Minute
	}

	bigCacheConfig := bigcache.DefaultConfig(lifeWindow)
	bigCacheConfig.Shards = options.Shards
	bigCacheConfig.MaxEntrySize = options.MaxEntrySize
	bigCacheConfig.CleanWindow = cleanWindow

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, err
	}

	return &Store{cache: cache, logger: logger}, nil
}

// Get 获取缓存值；未命中时返回 (nil, false)
func (s *Store) Get(key string) ([]byte, bool) {
	value, err := s.cache.Get(key)
	if err != nil {
		if !errors.Is(err, bigcache.ErrEntryNotFound) {
			s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		}
		return nil, false
	}
	return value, true
}

// Set 写入缓存
func (s *Store) Set(key string, value []byte) error {
	if err := s.cache.Set(key, value); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除缓存项（键不存在时静默）
func (s *Store) Delete(key string) {
	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warnf("删除缓存键[%s]失败: %v", key, err)
	}
}

var _ storage.CacheStore = (*Store)(nil)
