// 基于asaskevich/EventBus的事件记录器实现
//
// 核心层的只写旁路通道：状态落定后Record一条不可变记录，
// 先持久化到日志存储，再异步投递给订阅者。记录失败只告警，
// 绝不回滚已提交的状态变更。

package event

import (
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"
	"github.com/google/uuid"
	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/unitledger/pkg/types"
)

// Recorder 实现事件记录器接口
type Recorder struct {
	bus     evbus.Bus
	journal event.Journal // 可为nil（纯内存模式，不持久化）
	logger  log.Logger

	recorded atomic.Uint64
	dropped  atomic.Uint64
}

// NewRecorder 创建事件记录器
//
// journal为nil时跳过持久化，仅做进程内投递（测试场景）。
func NewRecorder(journal event.Journal, logger log.Logger) *Recorder {
	return &Recorder{
		bus:     evbus.New(),
		journal: journal,
		logger:  logger,
	}
}

// Record 追加一条不可变日志记录
//
// 调用方保证内部状态已完全落定。记录ID在此统一补齐。
func (r *Recorder) Record(evt *types.LedgerEvent) {
	if evt == nil {
		return
	}
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}

	if r.journal != nil {
		if err := r.journal.Append(evt); err != nil {
			r.dropped.Add(1)
			metrics.RecordEventDropped()
			r.logger.Warnf("事件持久化失败: type=%s id=%s err=%v", evt.Type, evt.ID, err)
		}
	}

	r.recorded.Add(1)
	r.bus.Publish(string(evt.Type), evt)
}

// Subscribe 订阅指定类型的事件（异步投递）
func (r *Recorder) Subscribe(eventType types.EventType, handler event.Handler) error {
	return r.bus.SubscribeAsync(string(eventType), handler, false)
}

// Unsubscribe 取消订阅
func (r *Recorder) Unsubscribe(eventType types.EventType, handler event.Handler) error {
	return r.bus.Unsubscribe(string(eventType), handler)
}

// WaitAsync 等待所有异步投递完成
func (r *Recorder) WaitAsync() {
	r.bus.WaitAsync()
}

// RecordedCount 返回已记录的事件条数（监控用）
func (r *Recorder) RecordedCount() uint64 { return r.recorded.Load() }

// DroppedCount 返回持久化失败的事件条数（监控用）
func (r *Recorder) DroppedCount() uint64 { return r.dropped.Load() }

var _ event.Recorder = (*Recorder)(nil)
