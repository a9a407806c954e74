package governance

import (
	"fmt"
	"strconv"

	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/types"
	"github.com/weisyn/unitledger/pkg/utils"
)

// Propose 创建参数变更提案
//
// 提案人权重须不低于minProposalWeight；创建时对全局权重
// （总供应+全局共鸣，O(1)）做快照作为法定人数分母。
func (m *Manager) Propose(proposer types.Address, description, paramKey string, newValue uint64, now int64) (id types.ProposalID, err error) {
	defer func() { metrics.RecordOp("governance", "propose", err) }()

	if !isGovernable(paramKey) {
		return 0, fmt.Errorf("参数键不可治理: %q: %w", paramKey, types.ErrInvalidState)
	}

	m.state.Lock()
	defer m.state.Unlock()

	minWeight, _ := m.params.GetParam(types.ParamMinProposalWeight)
	weight := m.votingWeight(proposer)
	if weight < minWeight {
		return 0, fmt.Errorf("提案权重不足: %d < %d: %w", weight, minWeight, types.ErrInsufficientResource)
	}

	period, ok := m.params.GetParam(types.ParamVotingPeriod)
	if !ok || period == 0 {
		return 0, fmt.Errorf("投票窗口参数缺失: %w", types.ErrInvalidState)
	}

	id = m.nextProposalID
	m.nextProposalID++

	proposal := &types.Proposal{
		ID:             id,
		Proposer:       proposer,
		Description:    description,
		ParamKey:       paramKey,
		NewValue:       newValue,
		CreatedAt:      now,
		VotingEnd:      now + int64(period),
		WeightSnapshot: m.state.GlobalWeight(),
		State:          types.ProposalActive,
	}
	m.proposals[id] = proposal
	m.votes[id] = make(map[types.Address]struct{})

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventProposalCreated,
		Timestamp: now,
		Actor:     proposer,
		Attributes: map[string]string{
			"proposal":  strconv.FormatUint(uint64(id), 10),
			"param_key": paramKey,
			"new_value": strconv.FormatUint(newValue, 10),
		},
	})
	return id, nil
}

// Vote 投票
//
// 投票窗口为 [创建, VotingEnd) 右开区间；每个投票人每提案至多一票；
// 权重按配置策略变换（quadratic时取整数平方根压平巨鲸）。
func (m *Manager) Vote(voter types.Address, proposalID types.ProposalID, support bool, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "vote", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	proposal, ok := m.proposals[proposalID]
	if !ok {
		return fmt.Errorf("提案不存在: %d: %w", proposalID, types.ErrNotFound)
	}
	if proposal.State != types.ProposalActive {
		return fmt.Errorf("提案不在投票中: %w", types.ErrInvalidState)
	}
	if now >= proposal.VotingEnd {
		return fmt.Errorf("投票窗口已关闭: %w", types.ErrInvalidState)
	}
	if _, voted := m.votes[proposalID][voter]; voted {
		return fmt.Errorf("已投过票: %w", types.ErrAlreadyProcessed)
	}

	weight := m.votingWeight(voter)
	if weight == 0 {
		return fmt.Errorf("投票权重为零: %w", types.ErrInsufficientResource)
	}
	if m.weighting() == types.WeightingQuadratic {
		weight = utils.IntegerSqrt(weight)
	}

	if support {
		proposal.ForVotes += weight
	} else {
		proposal.AgainstVotes += weight
	}
	m.votes[proposalID][voter] = struct{}{}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventVoteCast,
		Timestamp: now,
		Actor:     voter,
		Amount:    weight,
		Attributes: map[string]string{
			"proposal": strconv.FormatUint(uint64(proposalID), 10),
			"support":  strconv.FormatBool(support),
		},
	})
	return nil
}

// Finalize 投票窗口结束后定案
//
// 通过条件：for > against 且参与权重 ≥ quorumBps × 快照权重 / 10000。
func (m *Manager) Finalize(proposalID types.ProposalID, now int64) (state types.ProposalState, err error) {
	defer func() { metrics.RecordOp("governance", "finalize", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	proposal, ok := m.proposals[proposalID]
	if !ok {
		return "", fmt.Errorf("提案不存在: %d: %w", proposalID, types.ErrNotFound)
	}
	if proposal.State != types.ProposalActive {
		return proposal.State, fmt.Errorf("提案已定案: %w", types.ErrAlreadyProcessed)
	}
	if now < proposal.VotingEnd {
		return proposal.State, fmt.Errorf("投票窗口未结束: %w", types.ErrInvalidState)
	}

	quorumBps, _ := m.params.GetParam(types.ParamQuorumBps)
	quorum, qerr := utils.MulDivUint64(proposal.WeightSnapshot, quorumBps, 10000)
	if qerr != nil {
		return proposal.State, qerr
	}

	participation := proposal.ForVotes + proposal.AgainstVotes
	if proposal.ForVotes > proposal.AgainstVotes && participation >= quorum {
		proposal.State = types.ProposalPassed
	} else {
		proposal.State = types.ProposalFailed
	}

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventProposalFinalized,
		Timestamp: now,
		Attributes: map[string]string{
			"proposal": strconv.FormatUint(uint64(proposalID), 10),
			"state":    string(proposal.State),
		},
	})
	return proposal.State, nil
}

// Execute 执行已通过的提案（仅一次）
//
// 这是部署后配置值唯一的常规变更路径。任何地址都可代为执行。
func (m *Manager) Execute(caller types.Address, proposalID types.ProposalID, now int64) (err error) {
	defer func() { metrics.RecordOp("governance", "execute", err) }()

	m.state.Lock()
	defer m.state.Unlock()

	proposal, ok := m.proposals[proposalID]
	if !ok {
		return fmt.Errorf("提案不存在: %d: %w", proposalID, types.ErrNotFound)
	}
	switch proposal.State {
	case types.ProposalPassed:
	case types.ProposalExecuted:
		return fmt.Errorf("提案已执行: %w", types.ErrAlreadyProcessed)
	default:
		return fmt.Errorf("提案未通过: %w", types.ErrInvalidState)
	}

	m.params.set(proposal.ParamKey, proposal.NewValue)
	proposal.State = types.ProposalExecuted

	m.recorder.Record(&types.LedgerEvent{
		Type:      types.EventProposalExecuted,
		Timestamp: now,
		Actor:     caller,
		Attributes: map[string]string{
			"proposal":  strconv.FormatUint(uint64(proposalID), 10),
			"param_key": proposal.ParamKey,
			"new_value": strconv.FormatUint(proposal.NewValue, 10),
		},
	})
	return nil
}

// GetProposal 查询提案（副本）
func (m *Manager) GetProposal(proposalID types.ProposalID) (*types.Proposal, error) {
	m.state.RLock()
	defer m.state.RUnlock()

	proposal, ok := m.proposals[proposalID]
	if !ok {
		return nil, fmt.Errorf("提案不存在: %d: %w", proposalID, types.ErrNotFound)
	}
	cp := *proposal
	return &cp, nil
}

// weighting 返回当前投票权重变换策略
func (m *Manager) weighting() types.VoteWeighting {
	return m.voteWeighting
}
