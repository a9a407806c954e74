package unit

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
	"github.com/weisyn/unitledger/pkg/utils"
)

// Link 建立对称纠缠链接
//
// 两单元须同属调用者、均未配对、未锁定且未质押。
// 链接写入双方的PartnerID，对称性由此结构性保证。
func (m *Manager) Link(caller types.Address, a, b types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "link", err) }()

	if a == b {
		return fmt.Errorf("单元不能与自身纠缠: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	ua, err := m.unitOwnedBy(caller, a)
	if err != nil {
		return err
	}
	ub, err := m.unitOwnedBy(caller, b)
	if err != nil {
		return err
	}

	for _, u := range []*types.Unit{ua, ub} {
		if u.IsPaired() {
			return fmt.Errorf("单元 %d 已配对: %w", u.ID, types.ErrInvalidState)
		}
		if u.IsLocked(now) {
			return fmt.Errorf("单元 %d 处于时间锁内: %w", u.ID, types.ErrInvalidState)
		}
		if u.IsStaked() {
			return fmt.Errorf("单元 %d 质押中: %w", u.ID, types.ErrInvalidState)
		}
	}

	if err := m.settleDecay(ua, now); err != nil {
		return err
	}
	if err := m.settleDecay(ub, now); err != nil {
		return err
	}

	ua.PartnerID = b
	ub.PartnerID = a

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventLinked,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{a, b},
	})
	return nil
}

// Unlink 解除纠缠
//
// 退相干惩罚作用于前伙伴：其共鸣值永久乘以 (1 - penaltyBps/10000)。
// 发起方单元自身不受惩罚。
func (m *Manager) Unlink(caller types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "unlink", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, err := m.unitOwnedBy(caller, unitID)
	if err != nil {
		return err
	}
	if !unit.IsPaired() {
		return fmt.Errorf("单元 %d 未配对: %w", unitID, types.ErrInvalidState)
	}
	if unit.IsLocked(now) {
		return fmt.Errorf("单元处于时间锁内: %w", types.ErrInvalidState)
	}
	if unit.IsStaked() {
		return fmt.Errorf("质押中的纠缠对不能解除: %w", types.ErrInvalidState)
	}

	m.doUnlink(unit, caller, now)
	return nil
}

// ForceUnlink 无条件解除纠缠（账本销毁路径）
//
// 调用约定：调用方已持有共享状态锁；unitID未配对时为无操作。
func (m *Manager) ForceUnlink(unitID types.UnitID, now int64) {
	unit, ok := m.state.Unit(unitID)
	if !ok || !unit.IsPaired() {
		return
	}
	m.doUnlink(unit, types.ZeroAddress, now)
}

// doUnlink 执行解除与退相干惩罚（调用方持有状态锁）
func (m *Manager) doUnlink(unit *types.Unit, actor types.Address, now int64) {
	partnerID := unit.PartnerID
	partner, hasPartner := m.state.Unit(partnerID)

	// 清除链接前先把双方的衰减按配对减半速率结算到解除时刻
	if err := m.settleDecay(unit, now); err != nil {
		m.logger.Warnf("解除纠缠时结算衰减失败: unit=%d err=%v", unit.ID, err)
	}
	if hasPartner {
		if err := m.settleDecay(partner, now); err != nil {
			m.logger.Warnf("解除纠缠时结算伙伴衰减失败: unit=%d err=%v", partnerID, err)
		}
	}

	unit.PartnerID = types.NoUnit

	var penalized uint64
	if hasPartner {
		partner.PartnerID = types.NoUnit

		penaltyBps := uint32(m.param(types.ParamUnlinkPenaltyBps, 0))
		if penaltyBps > 0 && partner.Resonance > 0 {
			cut, err := utils.ApplyBps(partner.Resonance, penaltyBps)
			if err == nil && cut > 0 {
				penalized = cut
				if err := m.state.SetResonance(partnerID, partner.Resonance-cut); err != nil {
					m.logger.Warnf("施加退相干惩罚失败: unit=%d err=%v", partnerID, err)
				}
			}
		}
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventUnlinked,
		Timestamp: now,
		Actor:     actor,
		Units:     []types.UnitID{unit.ID, partnerID},
		Amount:    penalized,
		Attributes: map[string]string{
			"penalized_unit": strconv.FormatUint(uint64(partnerID), 10),
		},
	})
}
