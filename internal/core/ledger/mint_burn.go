package ledger

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// MintAmount 铸造同质代币
func (m *Manager) MintAmount(caller, to types.Address, amount uint64, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "mint_amount", err) }()

	if to.IsZero() {
		return fmt.Errorf("不能向零地址铸造: %w", types.ErrZeroAddress)
	}
	if amount == 0 {
		return fmt.Errorf("铸造金额必须为正: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if caller != m.state.MintAuthority() {
		return fmt.Errorf("调用者无铸造权限: %s: %w", caller, types.ErrUnauthorized)
	}

	supplyBefore := m.state.TotalSupply()
	if supplyBefore+amount < supplyBefore || supplyBefore+amount > m.config.MaxSupply {
		return fmt.Errorf("铸造将超出最大供应量 %d: %w", m.config.MaxSupply, types.ErrInsufficientResource)
	}

	if err := m.state.AddSupply(amount); err != nil {
		return err
	}
	if err := m.state.Credit(to, amount, now); err != nil {
		// Credit失败时回退供应量，保持守恒
		_ = m.state.SubSupply(amount)
		return err
	}

	m.invalidateBalance(to)
	m.record(&types.LedgerEvent{
		Type:      types.EventMintAmount,
		Timestamp: now,
		Actor:     caller,
		Amount:    amount,
		Attributes: map[string]string{
			"to":            to.String(),
			"supply_before": strconv.FormatUint(supplyBefore, 10),
			"supply_after":  strconv.FormatUint(supplyBefore+amount, 10),
		},
	})
	return nil
}

// MintUnit 铸造一个新单元并分配给to
func (m *Manager) MintUnit(caller, to types.Address, now int64) (id types.UnitID, err error) {
	defer func() { metrics.RecordOp("ledger", "mint_unit", err) }()

	if to.IsZero() {
		return types.NoUnit, fmt.Errorf("不能向零地址铸造: %w", types.ErrZeroAddress)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if caller != m.state.MintAuthority() {
		return types.NoUnit, fmt.Errorf("调用者无铸造权限: %s: %w", caller, types.ErrUnauthorized)
	}

	initial, ok := m.params.GetParam(types.ParamInitialResonance)
	if !ok {
		return types.NoUnit, fmt.Errorf("初始共鸣参数缺失: %w", types.ErrInvalidState)
	}
	if max, ok := m.params.GetParam(types.ParamMaxResonance); ok && initial > max {
		initial = max
	}

	unit := &types.Unit{
		CreatedAt:       now,
		Stage:           0,
		Resonance:       initial,
		DecayCheckpoint: now,
	}
	id = m.state.CreateUnit(to, unit, now)

	m.invalidateBalance(to)
	m.record(&types.LedgerEvent{
		Type:      types.EventMintUnit,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{id},
		Attributes: map[string]string{
			"to":        to.String(),
			"resonance": strconv.FormatUint(initial, 10),
		},
	})
	return id, nil
}

// BurnAmount 销毁owner持有的同质代币
//
// 所有者本人或铸造权限地址可发起。
func (m *Manager) BurnAmount(caller, owner types.Address, amount uint64, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "burn_amount", err) }()

	if amount == 0 {
		return fmt.Errorf("销毁金额必须为正: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if caller != owner && caller != m.state.MintAuthority() {
		return fmt.Errorf("调用者无权销毁 %s 的余额: %w", owner, types.ErrUnauthorized)
	}

	supplyBefore := m.state.TotalSupply()
	if err := m.state.Debit(owner, amount, now); err != nil {
		return err
	}
	if err := m.state.SubSupply(amount); err != nil {
		_ = m.state.Credit(owner, amount, now)
		return err
	}

	m.invalidateBalance(owner)
	m.record(&types.LedgerEvent{
		Type:      types.EventBurnAmount,
		Timestamp: now,
		Actor:     caller,
		Amount:    amount,
		Attributes: map[string]string{
			"owner":         owner.String(),
			"supply_before": strconv.FormatUint(supplyBefore, 10),
			"supply_after":  strconv.FormatUint(supplyBefore-amount, 10),
		},
	})
	return nil
}

// BurnUnit 销毁单元
//
// 带伙伴的单元先退相干（惩罚作用于留下的伙伴），再完成注销。
func (m *Manager) BurnUnit(caller types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("ledger", "burn_unit", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	// 质押检查先于所有权检查：质押期间所有权在托管地址
	if unit.IsStaked() {
		return fmt.Errorf("单元质押中: %w", types.ErrInvalidState)
	}

	owner, _ := m.state.OwnerOf(unitID)
	if caller != owner {
		return fmt.Errorf("调用者不是单元所有者: %w", types.ErrUnauthorized)
	}
	if unit.IsLocked(now) {
		return fmt.Errorf("单元处于时间锁内: %w", types.ErrInvalidState)
	}

	if unit.IsPaired() && m.disentangler != nil {
		// 调用约定：状态锁已持有，解除器不得再次加锁
		m.disentangler.ForceUnlink(unitID, now)
	}

	if err := m.state.RemoveUnit(unitID, now); err != nil {
		return err
	}

	m.invalidateBalance(owner)
	m.record(&types.LedgerEvent{
		Type:      types.EventBurnUnit,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
	})
	return nil
}
