// Package governance 提供策略与治理层实现
package governance

import (
	"sync"

	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	governanceInterface "github.com/weisyn/unitledger/pkg/interfaces/governance"
	"github.com/weisyn/unitledger/pkg/types"
)

// ParamSet 实时参数集
//
// 创世时由配置一次性注入初值；此后写入仅发生在治理Execute
// 路径与param_change效果领取路径，其余模块只读。
type ParamSet struct {
	mu     sync.RWMutex
	values map[string]uint64
}

// NewParamSet 按配置初值创建参数集
func NewParamSet(unitOpts *unitconfig.UnitOptions, govOpts *governanceconfig.GovernanceOptions) *ParamSet {
	return &ParamSet{
		values: map[string]uint64{
			types.ParamDecayRatePerDay:   unitOpts.DecayRatePerDay,
			types.ParamUnlinkPenaltyBps:  uint64(unitOpts.UnlinkPenaltyBps),
			types.ParamRewardRateBps:     uint64(unitOpts.RewardRateBps),
			types.ParamEvolveThreshold:   unitOpts.EvolveThreshold,
			types.ParamMaxResonance:      unitOpts.MaxResonance,
			types.ParamInitialResonance:  unitOpts.InitialResonance,
			types.ParamVotingPeriod:      uint64(govOpts.VotingPeriodSeconds),
			types.ParamQuorumBps:         uint64(govOpts.QuorumBps),
			types.ParamMinProposalWeight: govOpts.MinProposalWeight,
		},
	}
}

// GetParam 读取参数当前值；键不存在时返回 (0, false)
func (p *ParamSet) GetParam(key string) (uint64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

// set 写入参数（仅治理执行路径调用）
func (p *ParamSet) set(key string, value uint64) {
	p.mu.Lock()
	p.values[key] = value
	p.mu.Unlock()
}

// isGovernable 检查键是否属于可治理参数集合
func isGovernable(key string) bool {
	for _, k := range types.GovernableParams() {
		if k == key {
			return true
		}
	}
	return false
}

var _ governanceInterface.ParameterStore = (*ParamSet)(nil)
