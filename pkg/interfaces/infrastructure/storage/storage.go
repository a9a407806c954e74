// Package storage 提供键值存储接口定义
//
// 💾 **存储服务 (Storage Service)**
//
// - KVStore：BadgerDB支撑的持久化键值存储（事件日志、状态快照）
// - CacheStore：BigCache支撑的进程内读缓存（热点余额查询）
//
// 设计原则：接口面向用途裁剪，事务内的操作保持原子提交。
package storage

import (
	"context"
	"time"
)

// KVStore 键值存储接口
type KVStore interface {
	// Get 获取指定键的值；键不存在时返回 (nil, nil)
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对，键已存在时覆盖
	Set(ctx context.Context, key, value []byte) error

	// SetWithTTL 设置键值对并指定过期时间；ttl为0表示永不过期
	SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error

	// Delete 删除指定键；键不存在时不报错
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 按前缀扫描键值对，按键升序回调；fn返回错误时中止
	PrefixScan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error

	// RunInTransaction 在单个事务中执行多个操作，fn返回错误时整体回滚
	RunInTransaction(ctx context.Context, fn func(txn Txn) error) error

	// Close 关闭存储，确保待写数据落盘
	Close() error
}

// Txn 事务内操作句柄
type Txn interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Delete(key []byte) error
}

// CacheStore 进程内缓存接口
type CacheStore interface {
	// Get 获取缓存值；未命中时返回 (nil, false)
	Get(key string) ([]byte, bool)

	// Set 写入缓存
	Set(key string, value []byte) error

	// Delete 删除缓存项
	Delete(key string)
}
