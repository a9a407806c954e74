package ledger

import (
	"fmt"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// TransferAmount 转移同质代币
//
// 金额转移永远不移动任何单元；借记与贷记在同一临界区内完成。
func (m *Manager) TransferAmount(from, to types.Address, amount uint64, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "transfer_amount", err) }()

	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("转移双方不能为零地址: %w", types.ErrZeroAddress)
	}
	if amount == 0 {
		return fmt.Errorf("转移金额必须为正: %w", types.ErrInvalidState)
	}
	if from == to {
		return fmt.Errorf("不能转移给自己: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if err := m.state.Debit(from, amount, now); err != nil {
		return err
	}
	if err := m.state.Credit(to, amount, now); err != nil {
		_ = m.state.Credit(from, amount, now)
		return err
	}

	m.invalidateBalance(from, to)
	m.record(&types.LedgerEvent{
		Type:      types.EventTransfer,
		Timestamp: now,
		Actor:     from,
		Amount:    amount,
		Attributes: map[string]string{
			"to": to.String(),
		},
	})
	return nil
}

// TransferUnit 转移单元所有权
//
// 配对中的单元拒绝单独移动，整对转移见TransferPair。
func (m *Manager) TransferUnit(from, to types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "transfer_unit", err) }()

	if to.IsZero() {
		return fmt.Errorf("不能转移给零地址: %w", types.ErrZeroAddress)
	}

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	if err := m.checkMovable(unit, from, now); err != nil {
		return err
	}
	if unit.IsPaired() {
		return fmt.Errorf("配对单元须整对转移: %w", types.ErrInvalidState)
	}

	if err := m.state.MoveUnit(unitID, from, to, now); err != nil {
		return err
	}

	m.invalidateBalance(from, to)
	m.record(&types.LedgerEvent{
		Type:      types.EventTransferUnit,
		Timestamp: now,
		Actor:     from,
		Units:     []types.UnitID{unitID},
		Attributes: map[string]string{
			"to": to.String(),
		},
	})
	return nil
}

// TransferPair 原子转移一个纠缠对
//
// 单元与其伙伴一起移动，链接保留；任一前置失败则整体不动。
func (m *Manager) TransferPair(from, to types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "transfer_pair", err) }()

	if to.IsZero() {
		return fmt.Errorf("不能转移给零地址: %w", types.ErrZeroAddress)
	}

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	if !unit.IsPaired() {
		return fmt.Errorf("单元未配对: %d: %w", unitID, types.ErrInvalidState)
	}

	partner, ok := m.state.Unit(unit.PartnerID)
	if !ok {
		return fmt.Errorf("纠缠伙伴丢失: %d: %w", unit.PartnerID, types.ErrInvariantViolation)
	}

	if err := m.checkMovable(unit, from, now); err != nil {
		return err
	}
	if err := m.checkMovable(partner, from, now); err != nil {
		return err
	}

	if err := m.state.MoveUnit(unit.ID, from, to, now); err != nil {
		return err
	}
	if err := m.state.MoveUnit(partner.ID, from, to, now); err != nil {
		// 回迁第一个单元，保证整体原子
		_ = m.state.MoveUnit(unit.ID, to, from, now)
		return err
	}

	m.invalidateBalance(from, to)
	m.record(&types.LedgerEvent{
		Type:      types.EventTransferPair,
		Timestamp: now,
		Actor:     from,
		Units:     []types.UnitID{unit.ID, partner.ID},
		Attributes: map[string]string{
			"to": to.String(),
		},
	})
	return nil
}

// checkMovable 检查单元可由from移出：所有权、时间锁、质押
func (m *Manager) checkMovable(unit *types.Unit, from types.Address, now int64) error {
	owner, _ := m.state.OwnerOf(unit.ID)
	if owner != from {
		return fmt.Errorf("单元 %d 不属于 %s: %w", unit.ID, from, types.ErrUnauthorized)
	}
	if unit.IsLocked(now) {
		return fmt.Errorf("单元 %d 处于时间锁内: %w", unit.ID, types.ErrInvalidState)
	}
	if unit.IsStaked() {
		return fmt.Errorf("单元 %d 质押中: %w", unit.ID, types.ErrInvalidState)
	}
	return nil
}
