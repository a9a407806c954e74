// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/weisyn/unitledger/internal/config/storage/badger"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	"go.uber.org/zap"
)

// Store 实现KVStore接口
type Store struct {
	db     *badgerdb.DB
	logger log.Logger
}

// New 创建新的BadgerDB存储实例
func New(options *badgerconfig.BadgerOptions, logger log.Logger) (interfaces.KVStore, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	var opts badgerdb.Options
	if options.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		dataDir := options.DataPath
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("无法创建BadgerDB数据目录: %w", err)
		}
		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)

		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = options.SyncWrite
	}

	// 控制mmap与缓存占用：事件日志与快照的写多读少负载用不到大缓存
	opts.ValueLogFileSize = 512 << 20
	opts.BlockCacheSize = 64 << 20
	opts.IndexCacheSize = 64 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("无法打开BadgerDB: %w", err)
	}

	logger.Info("BadgerDB存储初始化完成")
	return &Store{db: db, logger: logger}, nil
}

// Get 获取指定键的值；键不存在时返回 (nil, nil)
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("读取键失败: %w", err)
	}
	return value, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(key, value)
	})
	if err != nil {
		return fmt.Errorf("写入键失败: %w", err)
	}
	return nil
}

// SetWithTTL 设置键值对并指定过期时间；ttl为0表示永不过期
func (s *Store) SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		return s.Set(ctx, key, value)
	}
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		entry := badgerdb.NewEntry(key, value).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("写入键失败: %w", err)
	}
	return nil
}

// Delete 删除指定键
func (s *Store) Delete(ctx context.Context, key []byte) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(key)
	})
	if err != nil {
		return fmt.Errorf("删除键失败: %w", err)
	}
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(key)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("检查键失败: %w", err)
	}
	return true, nil
}

// PrefixScan 按前缀扫描键值对，按键升序回调
func (s *Store) PrefixScan(ctx context.Context, prefix []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := it.Item()
			value, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("读取值失败: %w", err)
			}
			if err := fn(item.KeyCopy(nil), value); err != nil {
				return err
			}
		}
		return nil
	})
}

// txnWrapper 把badger事务适配为接口事务句柄
type txnWrapper struct {
	txn *badgerdb.Txn
}

func (t *txnWrapper) Get(key []byte) ([]byte, error) {
	item, err := t.txn.Get(key)
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *txnWrapper) Set(key, value []byte) error { return t.txn.Set(key, value) }

func (t *txnWrapper) Delete(key []byte) error { return t.txn.Delete(key) }

// RunInTransaction 在单个事务中执行多个操作
func (s *Store) RunInTransaction(ctx context.Context, fn func(txn interfaces.Txn) error) error {
	return s.db.Update(func(txn *badgerdb.Txn) error {
		return fn(&txnWrapper{txn: txn})
	})
}

// Close 关闭存储，确保待写数据落盘
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	return nil
}

var _ interfaces.KVStore = (*Store)(nil)

// nopLogger 用于在测试/工具链等 logger 未注入时，避免 nil 指针崩溃。
type nopLogger struct{}

func (nopLogger) Debug(string)                   {}
func (nopLogger) Debugf(string, ...interface{})  {}
func (nopLogger) Info(string)                    {}
func (nopLogger) Infof(string, ...interface{})   {}
func (nopLogger) Warn(string)                    {}
func (nopLogger) Warnf(string, ...interface{})   {}
func (nopLogger) Error(string)                   {}
func (nopLogger) Errorf(string, ...interface{})  {}
func (nopLogger) Fatal(string)                   {}
func (nopLogger) Fatalf(string, ...interface{})  {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

// badgerLogger 把BadgerDB内部日志桥接到引擎日志器
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) badgerdb.Logger {
	return &badgerLogger{logger: logger.With("module", "storage")}
}

func (l *badgerLogger) Errorf(format string, args ...interface{})   { l.logger.Errorf(format, args...) }
func (l *badgerLogger) Warningf(format string, args ...interface{}) { l.logger.Warnf(format, args...) }
func (l *badgerLogger) Infof(format string, args ...interface{})    { l.logger.Debugf(format, args...) }
func (l *badgerLogger) Debugf(format string, args ...interface{})   { l.logger.Debugf(format, args...) }
