package unit

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// Lock 设置时间锁
//
// 锁只能延长：新到期时间早于现有到期时间时拒绝。
func (m *Manager) Lock(caller types.Address, unitID types.UnitID, duration int64, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "lock", err) }()

	if duration <= 0 {
		return fmt.Errorf("锁定期限必须为正: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	unit, err := m.unitOwnedBy(caller, unitID)
	if err != nil {
		return err
	}
	if unit.IsStaked() {
		return fmt.Errorf("质押中的单元不能加锁: %w", types.ErrInvalidState)
	}

	expiry := now + duration
	if expiry < unit.LockExpiry {
		return fmt.Errorf("时间锁只能延长: 现有到期 %d, 请求到期 %d: %w",
			unit.LockExpiry, expiry, types.ErrInvalidState)
	}

	// 锁生效前先结清锁外流逝的衰减
	if err := m.settleDecay(unit, now); err != nil {
		return err
	}
	unit.LockExpiry = expiry

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventLocked,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
		Attributes: map[string]string{
			"expiry": strconv.FormatInt(expiry, 10),
		},
	})
	return nil
}

// Unlock 清除时间锁
//
// 时间门控：now仍严格早于到期时间时失败；now等于到期时间时放行。
func (m *Manager) Unlock(caller types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "unlock", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, err := m.unitOwnedBy(caller, unitID)
	if err != nil {
		return err
	}
	if unit.LockExpiry == 0 {
		return fmt.Errorf("单元未锁定: %w", types.ErrInvalidState)
	}
	if unit.IsLocked(now) {
		return fmt.Errorf("时间锁未到期: 到期 %d, 当前 %d: %w",
			unit.LockExpiry, now, types.ErrInvalidState)
	}

	// 清锁前结算：只有到期后的流逝计入衰减
	if err := m.settleDecay(unit, now); err != nil {
		return err
	}
	unit.LockExpiry = 0

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventUnlocked,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
	})
	return nil
}
