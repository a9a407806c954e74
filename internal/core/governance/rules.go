package governance

import (
	"fmt"
	"math"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
	"github.com/weisyn/unitledger/pkg/utils"
)

// AddRule 创建规则（仅规则管理权限地址）
func (m *Manager) AddRule(caller types.Address, rule *types.Rule, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "add_rule", err) }()

	if rule == nil || rule.ID == "" {
		return fmt.Errorf("规则键不能为空: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if caller != m.state.AdminAuthority() {
		return fmt.Errorf("调用者无规则管理权限: %w", types.ErrUnauthorized)
	}
	if _, exists := m.rules[rule.ID]; exists {
		return fmt.Errorf("规则已存在: %s: %w", rule.ID, types.ErrAlreadyProcessed)
	}

	switch rule.Predicate.Kind {
	case types.PredicateTimeThreshold, types.PredicateOracleThreshold, types.PredicateAggregateThreshold:
	default:
		return fmt.Errorf("未知谓词类型: %q: %w", rule.Predicate.Kind, types.ErrInvalidState)
	}

	switch rule.Effect.Kind {
	case types.EffectTraitDelta:
		if rule.Effect.TraitIndex < 0 || rule.Effect.TraitIndex >= types.TraitCount {
			return fmt.Errorf("特征索引越界: %d: %w", rule.Effect.TraitIndex, types.ErrInvalidState)
		}
	case types.EffectResonanceBoost:
	case types.EffectParamChange:
		if !isGovernable(rule.Effect.ParamKey) {
			return fmt.Errorf("参数键不可治理: %q: %w", rule.Effect.ParamKey, types.ErrInvalidState)
		}
	default:
		return fmt.Errorf("未知效果类型: %q: %w", rule.Effect.Kind, types.ErrInvalidState)
	}

	stored := *rule
	stored.Active = true
	stored.Triggered = false
	stored.TriggeredAt = 0
	stored.CreatedAt = now

	m.rules[stored.ID] = &stored
	m.ruleOrder = append(m.ruleOrder, stored.ID)

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventRuleAdded,
		Timestamp: now,
		Actor:     caller,
		Attributes: map[string]string{
			"rule": stored.ID,
		},
	})
	return nil
}

// AssignRule 将规则指派给单元（仅规则管理权限地址）
func (m *Manager) AssignRule(caller types.Address, ruleID string, unitID types.UnitID) (err error) {
	defer func() { metrics.RecordOp("governance", "assign_rule", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	if caller != m.state.AdminAuthority() {
		return fmt.Errorf("调用者无规则管理权限: %w", types.ErrUnauthorized)
	}
	if _, ok := m.rules[ruleID]; !ok {
		return fmt.Errorf("规则不存在: %s: %w", ruleID, types.ErrNotFound)
	}
	if _, ok := m.state.Unit(unitID); !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}

	assigned, ok := m.assignments[ruleID]
	if !ok {
		assigned = make(map[types.UnitID]struct{})
		m.assignments[ruleID] = assigned
	}
	assigned[unitID] = struct{}{}
	return nil
}

// DeactivateRule 停用规则（停用后历史仍可查询，但不再可触发/领取）
func (m *Manager) DeactivateRule(caller types.Address, ruleID string, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "deactivate_rule", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	if caller != m.state.AdminAuthority() {
		return fmt.Errorf("调用者无规则管理权限: %w", types.ErrUnauthorized)
	}
	rule, ok := m.rules[ruleID]
	if !ok {
		return fmt.Errorf("规则不存在: %s: %w", ruleID, types.ErrNotFound)
	}
	rule.Active = false
	return nil
}

// EvaluateRule 纯函数求值规则谓词（无副作用）
func (m *Manager) EvaluateRule(ruleID string, oracleValue uint64, now int64) (bool, error) {
	m.state.RLock()
	defer m.state.RUnlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return false, fmt.Errorf("规则不存在: %s: %w", ruleID, types.ErrNotFound)
	}
	return m.evaluate(rule, oracleValue, now), nil
}

// evaluate 求值谓词（调用方持有状态锁）
func (m *Manager) evaluate(rule *types.Rule, oracleValue uint64, now int64) bool {
	if !rule.Active {
		return false
	}
	if rule.ExpiresAt != 0 && now >= rule.ExpiresAt {
		return false
	}

	switch rule.Predicate.Kind {
	case types.PredicateTimeThreshold:
		return now >= 0 && uint64(now) >= rule.Predicate.Threshold
	case types.PredicateOracleThreshold:
		return oracleValue >= rule.Predicate.Threshold
	case types.PredicateAggregateThreshold:
		return m.state.SupplyInfo().TotalResonance >= rule.Predicate.Threshold
	default:
		return false
	}
}

// Trigger 扫描所有规则，把谓词满足者标记为已触发
//
// 幂等：每条规则仅发生一次 Untriggered→Triggered 迁移；
// 本操作不改动任何单元状态。返回本次新触发的规则键。
func (m *Manager) Trigger(oracleValue uint64, now int64) (triggered []string, err error) {
	defer func() { metrics.RecordOp("governance", "trigger", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	for _, id := range m.ruleOrder {
		rule := m.rules[id]
		if rule.Triggered {
			continue
		}
		if !m.evaluate(rule, oracleValue, now) {
			continue
		}
		rule.Triggered = true
		rule.TriggeredAt = now
		triggered = append(triggered, id)

		m.recorder.Record(&types.LedgerEvent{
			Type:      types.EventRuleTriggered,
			Timestamp: now,
			Attributes: map[string]string{
				"rule": id,
			},
		})
	}
	return triggered, nil
}

// ClaimEffect 单元所有者领取已触发规则的效果
//
// 每个（规则, 单元）组合至多领取一次。
func (m *Manager) ClaimEffect(caller types.Address, ruleID string, unitID types.UnitID, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "claim_effect", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return fmt.Errorf("规则不存在: %s: %w", ruleID, types.ErrNotFound)
	}
	if !rule.Active {
		return fmt.Errorf("规则已停用: %s: %w", ruleID, types.ErrInvalidState)
	}
	if !rule.Triggered {
		return fmt.Errorf("规则未触发: %s: %w", ruleID, types.ErrInvalidState)
	}

	if _, ok := m.assignments[ruleID][unitID]; !ok {
		return fmt.Errorf("规则未指派给单元 %d: %w", unitID, types.ErrInvalidState)
	}

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	owner, _ := m.state.OwnerOf(unitID)
	if owner != caller {
		return fmt.Errorf("调用者不是单元所有者: %w", types.ErrUnauthorized)
	}

	if _, done := m.claims[ruleID][unitID]; done {
		return fmt.Errorf("效果已领取: %w", types.ErrAlreadyProcessed)
	}

	switch rule.Effect.Kind {
	case types.EffectTraitDelta:
		idx := rule.Effect.TraitIndex
		unit.Traits[idx] = utils.SaturatingAdd(unit.Traits[idx], rule.Effect.Delta, math.MaxUint64)
	case types.EffectResonanceBoost:
		max, _ := m.params.GetParam(types.ParamMaxResonance)
		if max == 0 {
			max = math.MaxUint64
		}
		boosted := utils.SaturatingAdd(unit.Resonance, rule.Effect.Delta, max)
		if err := m.state.SetResonance(unitID, boosted); err != nil {
			return err
		}
	case types.EffectParamChange:
		m.params.set(rule.Effect.ParamKey, rule.Effect.Delta)
	}

	claimed, ok := m.claims[ruleID]
	if !ok {
		claimed = make(map[types.UnitID]struct{})
		m.claims[ruleID] = claimed
	}
	claimed[unitID] = struct{}{}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventEffectClaimed,
		Timestamp: now,
		Actor:     caller,
		Units:     []types.UnitID{unitID},
		Attributes: map[string]string{
			"rule": ruleID,
		},
	})
	return nil
}

// GetRule 查询规则（含已停用的历史规则，返回副本）
func (m *Manager) GetRule(ruleID string) (*types.Rule, error) {
	m.state.RLock()
	defer m.state.RUnlock()

	rule, ok := m.rules[ruleID]
	if !ok {
		return nil, fmt.Errorf("规则不存在: %s: %w", ruleID, types.ErrNotFound)
	}
	cp := *rule
	return &cp, nil
}
