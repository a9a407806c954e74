package event

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/unitledger/pkg/types"
)

// 存储键布局：
//   evt/<seq:8字节大端>  → 事件JSON
//   evt_len              → 下一个序号（8字节大端）
// 大端定长序号保证前缀扫描即为追加顺序。
var (
	journalPrefix = []byte("evt/")
	journalLenKey = []byte("evt_len")
)

// BadgerJournal 基于KVStore的持久化事件日志
type BadgerJournal struct {
	store storage.KVStore

	mu      sync.Mutex
	nextSeq uint64
}

// NewBadgerJournal 创建持久化事件日志，启动时恢复序号水位
func NewBadgerJournal(store storage.KVStore) (*BadgerJournal, error) {
	j := &BadgerJournal{store: store}

	raw, err := store.Get(context.Background(), journalLenKey)
	if err != nil {
		return nil, fmt.Errorf("恢复事件日志水位失败: %w", err)
	}
	if len(raw) == 8 {
		j.nextSeq = binary.BigEndian.Uint64(raw)
	}

	return j, nil
}

// Append 持久化一条日志记录
//
// 记录与序号水位在同一事务内提交，崩溃后不会出现空洞。
func (j *BadgerJournal) Append(evt *types.LedgerEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("序列化事件失败: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	seq := j.nextSeq
	key := journalKey(seq)

	lenBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(lenBuf, seq+1)

	err = j.store.RunInTransaction(context.Background(), func(txn storage.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set(journalLenKey, lenBuf)
	})
	if err != nil {
		return fmt.Errorf("追加事件记录失败: %w", err)
	}

	j.nextSeq = seq + 1
	return nil
}

// Replay 按追加顺序回放全部记录
func (j *BadgerJournal) Replay(fn func(evt *types.LedgerEvent) error) error {
	return j.store.PrefixScan(context.Background(), journalPrefix, func(key, value []byte) error {
		var evt types.LedgerEvent
		if err := json.Unmarshal(value, &evt); err != nil {
			return fmt.Errorf("反序列化事件失败 key=%x: %w", key, err)
		}
		return fn(&evt)
	})
}

// Len 返回已持久化的记录条数
func (j *BadgerJournal) Len() (uint64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.nextSeq, nil
}

func journalKey(seq uint64) []byte {
	key := make([]byte, 0, len(journalPrefix)+8)
	key = append(key, journalPrefix...)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], seq)
	return append(key, buf[:]...)
}

var _ event.Journal = (*BadgerJournal)(nil)
