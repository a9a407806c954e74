// Package clock 提供时间源接口定义
//
// 🕒 引擎内部所有业务操作都接收显式的逻辑时间（now，unix秒），
// 本接口仅供外层（CLI、应用装配、事件记录）获取时间快照后注入，
// 核心层绝不在计算中途读取墙钟。
package clock

import "time"

// Clock 时间源接口
type Clock interface {
	// Now 返回当前时间
	Now() time.Time

	// Since 返回自t以来经过的时长
	Since(t time.Time) time.Duration

	// Unix 返回当前unix秒
	Unix() int64

	// UnixNano 返回当前unix纳秒
	UnixNano() int64
}
