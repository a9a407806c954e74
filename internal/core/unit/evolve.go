package unit

import (
	"fmt"
	"math"
	"strconv"

	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
	"github.com/weisyn/unitledger/pkg/utils"
)

// Evolve 进化：阶段+1并按触发器类型施加特征增量
//
// 共鸣值先结算衰减再与当前阶段阈值比较；成功后扣除阈值额度，
// 再按触发器表施加特征与共鸣加成（intensity线性缩放）。
func (m *Manager) Evolve(caller types.Address, unitID types.UnitID, trigger types.EvolutionTrigger, intensity uint32, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "evolve", err) }()

	if intensity == 0 {
		return fmt.Errorf("强度必须为正: %w", types.ErrInvalidState)
	}
	delta, ok := unitconfig.LookupTrigger(trigger)
	if !ok {
		return fmt.Errorf("未知进化触发器: %q: %w", trigger, types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	unit, err := m.unitOwnedBy(caller, unitID)
	if err != nil {
		return err
	}
	if unit.IsLocked(now) {
		return fmt.Errorf("单元处于时间锁内: %w", types.ErrInvalidState)
	}
	if unit.IsStaked() {
		return fmt.Errorf("单元质押中: %w", types.ErrInvalidState)
	}

	if err := m.settleDecay(unit, now); err != nil {
		return err
	}

	base := m.param(types.ParamEvolveThreshold, 0)
	threshold := unitconfig.StageThreshold(base, unit.Stage)
	if threshold == 0 {
		return fmt.Errorf("进化阈值参数缺失: %w", types.ErrInvalidState)
	}
	if unit.Resonance < threshold {
		return fmt.Errorf("共鸣值 %d 未达阶段 %d 阈值 %d: %w",
			unit.Resonance, unit.Stage, threshold, types.ErrInsufficientResource)
	}

	maxResonance := m.param(types.ParamMaxResonance, math.MaxUint64)

	// 扣除阈值额度，再施加触发器共鸣加成
	after := unit.Resonance - threshold
	boost, err := utils.MulDivUint64(delta.Resonance, uint64(intensity), 1)
	if err != nil {
		return fmt.Errorf("共鸣加成计算失败: %w", err)
	}
	after = utils.SaturatingAdd(after, boost, maxResonance)
	if err := m.state.SetResonance(unitID, after); err != nil {
		return err
	}

	stageBefore := unit.Stage
	unit.Stage++
	for i := 0; i < types.TraitCount; i++ {
		unit.Traits[i] = utils.SaturatingAdd(unit.Traits[i], delta.Traits[i]*uint64(intensity), math.MaxUint64)
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventEvolved,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
		Attributes: map[string]string{
			"trigger":      string(trigger),
			"intensity":    strconv.FormatUint(uint64(intensity), 10),
			"stage_before": strconv.FormatUint(uint64(stageBefore), 10),
			"stage_after":  strconv.FormatUint(uint64(unit.Stage), 10),
		},
	})
	return nil
}
