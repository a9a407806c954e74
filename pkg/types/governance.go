package types

// ================================================================================================
// 🏛️ 治理相关类型
// ================================================================================================

// PredicateKind 规则激活谓词类型
type PredicateKind string

const (
	// PredicateTimeThreshold 时间阈值：now ≥ Threshold 时满足
	PredicateTimeThreshold PredicateKind = "time_threshold"
	// PredicateOracleThreshold 预言机阈值：外部供给值 ≥ Threshold 时满足
	PredicateOracleThreshold PredicateKind = "oracle_threshold"
	// PredicateAggregateThreshold 聚合阈值：全局共鸣值合计 ≥ Threshold 时满足
	PredicateAggregateThreshold PredicateKind = "aggregate_threshold"
)

// RulePredicate 规则激活谓词
type RulePredicate struct {
	Kind      PredicateKind `json:"kind"`      // 谓词类型
	Threshold uint64        `json:"threshold"` // 比较阈值（时间谓词为unix秒）
}

// EffectKind 规则效果类型
type EffectKind string

const (
	// EffectTraitDelta 特征增量：被指派单元领取后按增量提升指定特征
	EffectTraitDelta EffectKind = "trait_delta"
	// EffectResonanceBoost 共鸣提升：被指派单元领取后增加共鸣值
	EffectResonanceBoost EffectKind = "resonance_boost"
	// EffectParamChange 参数变更：领取即应用到实时参数集（仅限治理创建的规则）
	EffectParamChange EffectKind = "param_change"
)

// RuleEffect 规则效果
type RuleEffect struct {
	Kind       EffectKind `json:"kind"`                  // 效果类型
	TraitIndex int        `json:"trait_index,omitempty"` // 特征索引（EffectTraitDelta）
	Delta      uint64     `json:"delta"`                 // 增量值
	ParamKey   string     `json:"param_key,omitempty"`   // 参数键（EffectParamChange）
}

// Rule 规则/催化剂记录
//
// 生命周期：Untriggered → Triggered（仅一次）；触发本身不改动单元状态，
// 单元所有者随后逐个领取效果（push-then-pull，避免单次调用内无界迭代）。
type Rule struct {
	ID          string        `json:"id"`           // 规则键
	Description string        `json:"description"`  // 描述
	Predicate   RulePredicate `json:"predicate"`    // 激活谓词
	Effect      RuleEffect    `json:"effect"`       // 领取效果
	Active      bool          `json:"active"`       // 是否有效（停用后历史仍可查询）
	Triggered   bool          `json:"triggered"`    // 是否已触发
	TriggeredAt int64         `json:"triggered_at"` // 触发时间（unix秒）
	CreatedAt   int64         `json:"created_at"`   // 创建时间
	ExpiresAt   int64         `json:"expires_at"`   // 过期时间（0表示不过期）
}

// ProposalState 提案状态
type ProposalState string

const (
	ProposalActive   ProposalState = "active"   // 投票中
	ProposalPassed   ProposalState = "passed"   // 已通过（待执行）
	ProposalFailed   ProposalState = "failed"   // 未通过
	ProposalExecuted ProposalState = "executed" // 已执行
)

// Proposal 治理提案
type Proposal struct {
	ID          ProposalID    `json:"id"`          // 提案编号（单调递增）
	Proposer    Address       `json:"proposer"`    // 提案人
	Description string        `json:"description"` // 描述
	ParamKey    string        `json:"param_key"`   // 拟变更的参数键
	NewValue    uint64        `json:"new_value"`   // 拟变更的新值
	CreatedAt   int64         `json:"created_at"`  // 创建时间（unix秒）
	VotingEnd   int64         `json:"voting_end"`  // 投票截止（[start, end)右开）

	ForVotes     uint64 `json:"for_votes"`     // 赞成票权重合计
	AgainstVotes uint64 `json:"against_votes"` // 反对票权重合计

	// WeightSnapshot 创建时刻的全局权重快照（法定人数分母）
	WeightSnapshot uint64 `json:"weight_snapshot"`

	State ProposalState `json:"state"` // 终态机：Active → Passed|Failed → Executed
}

// VoteWeighting 投票权重变换策略
type VoteWeighting string

const (
	// WeightingLinear 线性权重（原始权重计票）
	WeightingLinear VoteWeighting = "linear"
	// WeightingQuadratic 平方根权重（压平巨鲸效应）
	WeightingQuadratic VoteWeighting = "quadratic"
)
