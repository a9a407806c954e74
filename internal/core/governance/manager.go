package governance

import (
	"fmt"

	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	"github.com/weisyn/unitledger/internal/core/ledger"
	governanceInterface "github.com/weisyn/unitledger/pkg/interfaces/governance"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/unitledger/pkg/types"
)

// Manager 治理管理器
//
// 规则/催化剂走push-then-pull：Trigger只做幂等标记，效果由
// 单元所有者逐个领取；提案/投票/执行是参数集部署后唯一的变更路径。
type Manager struct {
	state  *ledger.State
	params *ParamSet

	voteWeighting types.VoteWeighting // 投票权重变换策略（部署期固定）

	rules       map[string]*types.Rule
	assignments map[string]map[types.UnitID]struct{} // 规则 → 被指派单元
	claims      map[string]map[types.UnitID]struct{} // 规则 → 已领取单元
	ruleOrder   []string                             // 规则创建顺序（Trigger扫描确定性）

	proposals      map[types.ProposalID]*types.Proposal
	votes          map[types.ProposalID]map[types.Address]struct{} // 每提案每地址至多一票
	nextProposalID types.ProposalID

	delegations map[types.Address]types.Address              // 委托人 → 受托人
	delegators  map[types.Address]map[types.Address]struct{} // 受托人 → 委托人集合

	recorder event.Recorder
	logger   log.Logger
}

// NewManager 创建治理管理器
func NewManager(
	state *ledger.State,
	params *ParamSet,
	govOpts *governanceconfig.GovernanceOptions,
	recorder event.Recorder,
	logger log.Logger,
) (*Manager, error) {
	if govOpts == nil {
		return nil, fmt.Errorf("govOpts不能为空")
	}
	if state == nil {
		return nil, fmt.Errorf("state不能为空")
	}
	if params == nil {
		return nil, fmt.Errorf("params不能为空")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder不能为空")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger不能为空")
	}

	weighting := types.VoteWeighting(govOpts.VoteWeighting)
	if weighting != types.WeightingQuadratic {
		weighting = types.WeightingLinear
	}

	return &Manager{
		state:          state,
		params:         params,
		voteWeighting:  weighting,
		rules:          make(map[string]*types.Rule),
		assignments:    make(map[string]map[types.UnitID]struct{}),
		claims:         make(map[string]map[types.UnitID]struct{}),
		proposals:      make(map[types.ProposalID]*types.Proposal),
		votes:          make(map[types.ProposalID]map[types.Address]struct{}),
		nextProposalID: 1,
		delegations:    make(map[types.Address]types.Address),
		delegators:     make(map[types.Address]map[types.Address]struct{}),
		recorder:       recorder,
		logger:         logger.With("module", "governance"),
	}, nil
}

// Params 返回实时参数集（供其他模块以只读接口依赖）
func (m *Manager) Params() governanceInterface.ParameterStore {
	return m.params
}

var _ governanceInterface.Service = (*Manager)(nil)
