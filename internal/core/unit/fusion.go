package unit

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// Fuse 融合：销毁两个输入单元，铸造一个派生单元
//
// 派生规则：特征逐元素取平均，stage = min(stageA, stageB) + 1，
// 共鸣值取双方结算后的平均（受上限钳制）。单元净数量减一。
func (m *Manager) Fuse(caller types.Address, a, b types.UnitID, now int64) (id types.UnitID, err error) {
	defer func() { metrics.RecordOp("unit", "fuse", err) }()

	if a == b {
		return types.NoUnit, fmt.Errorf("不能与自身融合: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	ua, err := m.unitOwnedBy(caller, a)
	if err != nil {
		return types.NoUnit, err
	}
	ub, err := m.unitOwnedBy(caller, b)
	if err != nil {
		return types.NoUnit, err
	}

	for _, u := range []*types.Unit{ua, ub} {
		if u.IsPaired() {
			return types.NoUnit, fmt.Errorf("单元 %d 已配对，须先解除纠缠: %w", u.ID, types.ErrInvalidState)
		}
		if u.IsLocked(now) {
			return types.NoUnit, fmt.Errorf("单元 %d 处于时间锁内: %w", u.ID, types.ErrInvalidState)
		}
		if u.IsStaked() {
			return types.NoUnit, fmt.Errorf("单元 %d 质押中: %w", u.ID, types.ErrInvalidState)
		}
	}

	if err := m.settleDecay(ua, now); err != nil {
		return types.NoUnit, err
	}
	if err := m.settleDecay(ub, now); err != nil {
		return types.NoUnit, err
	}

	var traits types.TraitVector
	for i := 0; i < types.TraitCount; i++ {
		// 先半后加避免求和溢出
		traits[i] = ua.Traits[i]/2 + ub.Traits[i]/2 + (ua.Traits[i]%2+ub.Traits[i]%2)/2
	}

	stage := ua.Stage
	if ub.Stage < stage {
		stage = ub.Stage
	}
	stage++

	resonance := ua.Resonance/2 + ub.Resonance/2 + (ua.Resonance%2+ub.Resonance%2)/2
	if max := m.param(types.ParamMaxResonance, 0); max > 0 && resonance > max {
		resonance = max
	}

	if err := m.state.RemoveUnit(a, now); err != nil {
		return types.NoUnit, err
	}
	if err := m.state.RemoveUnit(b, now); err != nil {
		return types.NoUnit, err
	}

	derived := &types.Unit{
		CreatedAt:       now,
		Stage:           stage,
		Resonance:       resonance,
		Traits:          traits,
		DecayCheckpoint: now,
	}
	id = m.state.CreateUnit(caller, derived, now)

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventFused,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{a, b, id},
		Attributes: map[string]string{
			"stage":     strconv.FormatUint(uint64(stage), 10),
			"resonance": strconv.FormatUint(resonance, 10),
		},
	})
	return id, nil
}
