package unit

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// Stake 质押单元
//
// 捕获质押时刻的共鸣值作为奖励基数，所有权托管到质押托管地址，
// 质押期间衰减暂停。配对单元必须整对质押。
func (m *Manager) Stake(caller types.Address, unitID types.UnitID, duration int64, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "stake", err) }()

	if duration <= 0 {
		return fmt.Errorf("质押期限必须为正: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	unit, err := m.unitOwnedBy(caller, unitID)
	if err != nil {
		return err
	}

	units := []*types.Unit{unit}
	if unit.IsPaired() {
		partner, ok := m.state.Unit(unit.PartnerID)
		if !ok {
			return fmt.Errorf("纠缠伙伴丢失: %d: %w", unit.PartnerID, types.ErrInvariantViolation)
		}
		if owner, _ := m.state.OwnerOf(partner.ID); owner != caller {
			return fmt.Errorf("纠缠伙伴 %d 不属于调用者: %w", partner.ID, types.ErrUnauthorized)
		}
		units = append(units, partner)
	}

	for _, u := range units {
		if u.IsStaked() {
			return fmt.Errorf("单元 %d 已质押: %w", u.ID, types.ErrInvalidState)
		}
		if u.IsLocked(now) {
			return fmt.Errorf("单元 %d 处于时间锁内: %w", u.ID, types.ErrInvalidState)
		}
	}

	// 先把衰减结算到质押时刻，捕获的共鸣基数才是结算后的值
	for _, u := range units {
		if err := m.settleDecay(u, now); err != nil {
			return err
		}
	}

	staked := make([]types.UnitID, 0, len(units))
	for i, u := range units {
		if err := m.state.MoveUnit(u.ID, caller, types.StakingEscrowAddress, now); err != nil {
			// 回迁已托管的单元，整体不动
			for _, prev := range units[:i] {
				_ = m.state.MoveUnit(prev.ID, types.StakingEscrowAddress, caller, now)
			}
			return err
		}
		u.Staking = &types.StakingRecord{
			Staker:            caller,
			StartTime:         now,
			Duration:          duration,
			CapturedResonance: u.Resonance,
			Active:            true,
		}
		m.state.AddStakedCount(caller, 1)
		staked = append(staked, u.ID)
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventStaked,
		Timestamp: now,
		Actor:     caller,
		Units:     staked,
		Attributes: map[string]string{
			"duration": strconv.FormatInt(duration, 10),
		},
	})
	return nil
}

// Unstake 解押
//
// 时间门控：now严格早于 start+duration 时失败，等于时放行。
// 整对质押的纠缠对整对解押。
func (m *Manager) Unstake(caller types.Address, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("unit", "unstake", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	if !unit.IsStaked() {
		return fmt.Errorf("单元未质押: %w", types.ErrInvalidState)
	}
	if unit.Staking.Staker != caller {
		return fmt.Errorf("调用者不是质押者: %w", types.ErrUnauthorized)
	}
	end := unit.Staking.StartTime + unit.Staking.Duration
	if now < end {
		return fmt.Errorf("质押期未满: 到期 %d, 当前 %d: %w", end, now, types.ErrInvalidState)
	}

	units := []*types.Unit{unit}
	if unit.IsPaired() {
		if partner, ok := m.state.Unit(unit.PartnerID); ok && partner.IsStaked() {
			units = append(units, partner)
		}
	}

	released := make([]types.UnitID, 0, len(units))
	for _, u := range units {
		if err := m.state.MoveUnit(u.ID, types.StakingEscrowAddress, caller, now); err != nil {
			return err
		}
		u.Staking.Active = false
		// 质押期内衰减暂停，解押后从当前时刻重新计时
		u.DecayCheckpoint = now
		m.state.AddStakedCount(caller, -1)
		released = append(released, u.ID)
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventUnstaked,
		Timestamp: now,
		Actor:     caller,
		Units:     released,
	})
	return nil
}

// ClaimReward 领取质押奖励（解押后一次性）
//
// 奖励 = 捕获共鸣值 × 质押时长(秒) × rewardRateBps / 10000，
// 以同质代币铸入质押者余额，受最大供应量约束。
func (m *Manager) ClaimReward(caller types.Address, unitID types.UnitID, now int64) (reward uint64, err error) {
	defer func() { metrics.RecordOp("unit", "claim_reward", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return 0, fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	staking := unit.Staking
	if staking == nil {
		return 0, fmt.Errorf("单元从未质押: %w", types.ErrInvalidState)
	}
	if staking.Staker != caller {
		return 0, fmt.Errorf("调用者不是质押者: %w", types.ErrUnauthorized)
	}
	if staking.Active {
		return 0, fmt.Errorf("须先解押再领取奖励: %w", types.ErrInvalidState)
	}
	if staking.RewardClaimed {
		return 0, fmt.Errorf("奖励已领取: %w", types.ErrAlreadyProcessed)
	}

	rateBps := m.param(types.ParamRewardRateBps, 0)
	reward, err = computeReward(staking.CapturedResonance, staking.Duration, rateBps)
	if err != nil {
		return 0, err
	}

	supply := m.state.TotalSupply()
	if supply+reward < supply || supply+reward > m.ledgerOpts.MaxSupply {
		return 0, fmt.Errorf("奖励铸造将超出最大供应量: %w", types.ErrInsufficientResource)
	}

	staking.RewardClaimed = true
	if reward > 0 {
		if err := m.state.AddSupply(reward); err != nil {
			staking.RewardClaimed = false
			return 0, err
		}
		if err := m.state.Credit(caller, reward, now); err != nil {
			_ = m.state.SubSupply(reward)
			staking.RewardClaimed = false
			return 0, err
		}
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventRewardClaimed,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
		Amount:    reward,
	})
	return reward, nil
}

// computeReward 以big.Int护栏计算奖励，防止中间乘积溢出
func computeReward(captured uint64, duration int64, rateBps uint64) (uint64, error) {
	r := new(big.Int).SetUint64(captured)
	r.Mul(r, big.NewInt(duration))
	r.Mul(r, new(big.Int).SetUint64(rateBps))
	r.Div(r, big.NewInt(10000))
	if !r.IsUint64() {
		return 0, fmt.Errorf("奖励计算结果溢出: %w", types.ErrInvariantViolation)
	}
	return r.Uint64(), nil
}
