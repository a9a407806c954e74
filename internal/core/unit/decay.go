package unit

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
	"github.com/weisyn/unitledger/pkg/utils"
)

// secondsPerDay 衰减速率的时间基准
const secondsPerDay = 86400

// ApplyPendingDecay 结算截至now的待处理衰减
//
// 任何调用者都可触发：仅把派生状态与流逝时间同步。
// 同一now重复调用幂等，第二次为无操作。
func (m *Manager) ApplyPendingDecay(unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "apply_decay", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}

	return m.settleDecay(unit, now)
}

// settleDecay 把单元的衰减结算到now（调用方持有状态锁）
//
// 规则：
//   - 质押中暂停衰减，仅推进检查点
//   - 时间锁内暂停衰减；结算区间跨过到期时只计到期后的流逝
//   - 配对单元衰减减半
//   - 共鸣值饱和减法，不会下溢
func (m *Manager) settleDecay(unit *types.Unit, now int64) error {
	if now <= unit.DecayCheckpoint {
		return nil
	}
	from := unit.DecayCheckpoint
	unit.DecayCheckpoint = now

	if unit.IsStaked() {
		return nil
	}
	if unit.LockExpiry != 0 {
		if unit.IsLocked(now) {
			return nil
		}
		if from < unit.LockExpiry {
			from = unit.LockExpiry
		}
	}

	rate := m.param(types.ParamDecayRatePerDay, 0)
	if rate == 0 || unit.Resonance == 0 {
		return nil
	}

	decay, err := utils.MulDivUint64(uint64(now-from), rate, secondsPerDay)
	if err != nil {
		return fmt.Errorf("衰减计算失败: %w", err)
	}
	if unit.IsPaired() {
		decay /= 2
	}
	if decay == 0 {
		return nil
	}

	before := unit.Resonance
	after := utils.SaturatingSub(before, decay)
	if err := m.state.SetResonance(unit.ID, after); err != nil {
		return err
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventDecayApplied,
		Timestamp: now,
		Units:     []types.UnitID{unit.ID},
		Amount:    before - after,
		Attributes: map[string]string{
			"resonance_before": strconv.FormatUint(before, 10),
			"resonance_after":  strconv.FormatUint(after, 10),
		},
	})
	return nil
}
