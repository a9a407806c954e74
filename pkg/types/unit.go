package types

// ================================================================================================
// 🔮 单元（Unit）相关类型
// ================================================================================================

// TraitCount 特征向量维度
const TraitCount = 4

// 特征向量索引
const (
	TraitInsight = iota // 洞察
	TraitVigor          // 活力
	TraitHarmony        // 谐和
	TraitFlux           // 流变
)

// TraitVector 单元特征向量（固定维度的属性分值）
type TraitVector [TraitCount]uint64

// EvolutionTrigger 进化触发器类型
//
// 每种触发器对应一组固定的特征增量（见 internal/config/unit 中的查找表）。
type EvolutionTrigger string

const (
	TriggerIgnition  EvolutionTrigger = "ignition"  // 点燃：偏向活力
	TriggerImmersion EvolutionTrigger = "immersion" // 沉浸：偏向洞察
	TriggerAttunement EvolutionTrigger = "attunement" // 调谐：偏向谐和
	TriggerCascade   EvolutionTrigger = "cascade"   // 级联：偏向流变
)

// StakingRecord 质押记录
type StakingRecord struct {
	Staker            Address `json:"staker"`             // 原质押者（解押后归还对象）
	StartTime         int64   `json:"start_time"`         // 质押开始时间（unix秒）
	Duration          int64   `json:"duration"`           // 质押期限（秒）
	CapturedResonance uint64  `json:"captured_resonance"` // 质押时刻捕获的共鸣值（奖励计算基数）
	Active            bool    `json:"active"`             // 是否质押中
	RewardClaimed     bool    `json:"reward_claimed"`     // 奖励是否已领取（一次性标志，新一轮质押时复位）
}

// Unit 单元（可单独寻址的离散资产）
//
// 所有权不在本结构内：unit-id → owner 的映射由账本状态独立维护
// （单元所有权是一等公民，不附着在同质余额抽象上）。
type Unit struct {
	ID        UnitID      `json:"id"`         // 单元标识
	CreatedAt int64       `json:"created_at"` // 铸造时间（unix秒）
	Stage     uint32      `json:"stage"`      // 阶段/等级（正常进化下单调不减）
	Resonance uint64      `json:"resonance"`  // 共鸣值（有界，闲置时随时间衰减）
	Traits    TraitVector `json:"traits"`     // 特征向量

	LockExpiry int64  `json:"lock_expiry"` // 时间锁到期（unix秒；0表示未锁定）
	PartnerID  UnitID `json:"partner_id"`  // 纠缠伙伴（NoUnit表示未配对）

	Staking *StakingRecord `json:"staking,omitempty"` // 质押记录（nil表示从未质押）

	DecayCheckpoint int64 `json:"decay_checkpoint"` // 上次衰减结算时间（unix秒）
}

// IsLocked 检查单元在给定时刻是否处于时间锁内
func (u *Unit) IsLocked(now int64) bool {
	return u.LockExpiry > now
}

// IsPaired 检查单元是否有纠缠伙伴
func (u *Unit) IsPaired() bool {
	return u.PartnerID != NoUnit
}

// IsStaked 检查单元是否质押中
func (u *Unit) IsStaked() bool {
	return u.Staking != nil && u.Staking.Active
}
