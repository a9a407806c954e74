// Package event 提供事件记录器接口定义
//
// 🎯 **事件日志通道 (Event Journal Channel)**
//
// 每个改变状态的操作在状态完全落定后追加一条不可变记录，供链下索引。
// 对核心层而言这是只写旁路通道：引擎的决策永远不读取自身历史事件。
// 订阅与回放接口仅供外层工具（CLI审计、测试断言）使用。
package event

import "github.com/weisyn/unitledger/pkg/types"

// Handler 事件处理器
type Handler func(evt *types.LedgerEvent)

// Recorder 事件记录器接口
type Recorder interface {
	// Record 追加一条不可变日志记录
	//
	// 记录在内部状态完全落定后发生（先生效后通知），
	// 记录失败不回滚已提交的状态变更，仅记录告警。
	Record(evt *types.LedgerEvent)

	// Subscribe 订阅指定类型的事件（外层工具使用）
	Subscribe(eventType types.EventType, handler Handler) error

	// Unsubscribe 取消订阅
	Unsubscribe(eventType types.EventType, handler Handler) error

	// WaitAsync 等待所有异步投递完成
	WaitAsync()
}

// Journal 持久化日志接口（追加写 + 顺序回放）
type Journal interface {
	// Append 持久化一条日志记录
	Append(evt *types.LedgerEvent) error

	// Replay 按追加顺序回放全部记录
	Replay(fn func(evt *types.LedgerEvent) error) error

	// Len 返回已持久化的记录条数
	Len() (uint64, error)
}
