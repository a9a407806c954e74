package types

// ================================================================================================
// 🎛️ 可治理参数键
// ================================================================================================
//
// 实时参数集以 string → uint64 键值存储；以下键在创世时由配置注入初值，
// 此后仅能经治理提案的Execute路径变更。

const (
	ParamDecayRatePerDay  = "unit.decay_rate_per_day"  // 闲置衰减速率（共鸣值/天）
	ParamUnlinkPenaltyBps = "unit.unlink_penalty_bps"  // 退相干惩罚（基点）
	ParamRewardRateBps    = "unit.reward_rate_bps"     // 质押奖励比例（基点）
	ParamEvolveThreshold  = "unit.evolve_threshold"    // 阶段0进化共鸣阈值
	ParamMaxResonance     = "unit.max_resonance"       // 共鸣值上限
	ParamInitialResonance = "unit.initial_resonance"   // 铸造初始共鸣值
	ParamVotingPeriod     = "governance.voting_period" // 投票窗口（秒）
	ParamQuorumBps        = "governance.quorum_bps"    // 法定人数（基点）
	ParamMinProposalWeight = "governance.min_proposal_weight"
)

// GovernableParams 返回全部可治理参数键
//
// 提案创建时校验paramKey必须属于本集合，拒绝写入未知键。
func GovernableParams() []string {
	return []string{
		ParamDecayRatePerDay,
		ParamUnlinkPenaltyBps,
		ParamRewardRateBps,
		ParamEvolveThreshold,
		ParamMaxResonance,
		ParamInitialResonance,
		ParamVotingPeriod,
		ParamQuorumBps,
		ParamMinProposalWeight,
	}
}
