package governance

import (
	"fmt"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
)

// Delegate 把投票权重委托给另一账户
//
// 只影响权重计算，不影响任何资产所有权。不允许委托链：
// 已作为受托人的账户不能再对外委托，反之亦然，杜绝环路。
func (m *Manager) Delegate(from, to types.Address, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "delegate", err) }()

	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("委托双方不能为零地址: %w", types.ErrZeroAddress)
	}
	if from == to {
		return fmt.Errorf("不能委托给自己: %w", types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	if _, exists := m.delegations[from]; exists {
		return fmt.Errorf("已存在委托，须先撤销: %w", types.ErrAlreadyProcessed)
	}
	if len(m.delegators[from]) > 0 {
		return fmt.Errorf("受托人不能再对外委托: %w", types.ErrInvalidState)
	}
	if _, chained := m.delegations[to]; chained {
		return fmt.Errorf("受托人已对外委托，不接受委托链: %w", types.ErrInvalidState)
	}

	m.delegations[from] = to
	set, ok := m.delegators[to]
	if !ok {
		set = make(map[types.Address]struct{})
		m.delegators[to] = set
	}
	set[from] = struct{}{}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventDelegated,
		Timestamp: now,
		Actor:     from,
		Attributes: map[string]string{
			"to": to.String(),
		},
	})
	return nil
}

// Undelegate 撤销委托
func (m *Manager) Undelegate(from types.Address, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "undelegate", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	to, exists := m.delegations[from]
	if !exists {
		return fmt.Errorf("不存在委托: %w", types.ErrNotFound)
	}

	delete(m.delegations, from)
	delete(m.delegators[to], from)
	if len(m.delegators[to]) == 0 {
		delete(m.delegators, to)
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventUndelegated,
		Timestamp: now,
		Actor:     from,
		Attributes: map[string]string{
			"to": to.String(),
		},
	})
	return nil
}

// VotingWeight 计算账户当前投票权重
func (m *Manager) VotingWeight(addr types.Address) uint64 {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.votingWeight(addr)
}

// votingWeight 权重计算（调用方持有状态锁）
//
// 基础权重 = 自有余额 + 持有单元共鸣合计；
// 对外委托后本人权重记零，基础权重计入受托人。
func (m *Manager) votingWeight(addr types.Address) uint64 {
	if _, delegated := m.delegations[addr]; delegated {
		return 0
	}

	weight := m.state.WeightOf(addr)
	for delegator := range m.delegators[addr] {
		weight += m.state.WeightOf(delegator)
	}
	return weight
}
