// Package unit 提供单元状态机模块配置
package unit

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// 默认值
const (
	defaultMaxResonance     = uint64(10000)
	defaultInitialResonance = uint64(100)
	defaultDecayRatePerDay  = uint64(24) // 每天24点，即每小时1点
	defaultUnlinkPenaltyBps = uint32(1000) // 10%
	defaultRewardRateBps    = uint32(5)    // 每秒每万分之五的捕获共鸣
	defaultEvolveThreshold  = uint64(500)  // 阶段0阈值；逐阶段线性上升
)

// UnitOptions 单元状态机配置选项
type UnitOptions struct {
	MaxResonance     uint64 // 共鸣值上限
	InitialResonance uint64 // 铸造初始共鸣值
	DecayRatePerDay  uint64 // 闲置衰减速率（共鸣值/天）
	UnlinkPenaltyBps uint32 // 退相干惩罚（基点）
	RewardRateBps    uint32 // 质押奖励比例（基点/秒）
	EvolveThreshold  uint64 // 阶段0进化共鸣阈值
}

// Config 单元状态机配置
type Config struct {
	options *UnitOptions
}

// New 创建单元状态机配置
func New(userConfig *types.UserUnitConfig) *Config {
	options := &UnitOptions{
		MaxResonance:     defaultMaxResonance,
		InitialResonance: defaultInitialResonance,
		DecayRatePerDay:  defaultDecayRatePerDay,
		UnlinkPenaltyBps: defaultUnlinkPenaltyBps,
		RewardRateBps:    defaultRewardRateBps,
		EvolveThreshold:  defaultEvolveThreshold,
	}

	if userConfig != nil {
		if userConfig.MaxResonance != nil {
			options.MaxResonance = *userConfig.MaxResonance
		}
		if userConfig.InitialResonance != nil {
			options.InitialResonance = *userConfig.InitialResonance
		}
		if userConfig.DecayRatePerDay != nil {
			options.DecayRatePerDay = *userConfig.DecayRatePerDay
		}
		if userConfig.UnlinkPenaltyBps != nil {
			options.UnlinkPenaltyBps = *userConfig.UnlinkPenaltyBps
		}
		if userConfig.RewardRateBps != nil {
			options.RewardRateBps = *userConfig.RewardRateBps
		}
		if userConfig.EvolveThreshold != nil {
			options.EvolveThreshold = *userConfig.EvolveThreshold
		}
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *UnitOptions { return c.options }

// ================================================================================================
// 🧬 进化触发器 → 特征增量查找表
// ================================================================================================

// TriggerDelta 进化触发器对应的特征增量与共鸣加成
type TriggerDelta struct {
	Traits    types.TraitVector // 四维特征增量（按intensity线性缩放）
	Resonance uint64            // 共鸣加成基数（按intensity线性缩放）
}

// triggerTable 固定的触发器效果表
//
// 每种触发器偏向一个主特征，带少量副特征溢出。
var triggerTable = map[types.EvolutionTrigger]TriggerDelta{
	types.TriggerIgnition: {
		Traits:    types.TraitVector{0, 10, 0, 2},
		Resonance: 20,
	},
	types.TriggerImmersion: {
		Traits:    types.TraitVector{10, 0, 2, 0},
		Resonance: 20,
	},
	types.TriggerAttunement: {
		Traits:    types.TraitVector{2, 0, 10, 0},
		Resonance: 15,
	},
	types.TriggerCascade: {
		Traits:    types.TraitVector{0, 2, 0, 10},
		Resonance: 25,
	},
}

// LookupTrigger 查询触发器效果；未知触发器返回 (零值, false)
func LookupTrigger(trigger types.EvolutionTrigger) (TriggerDelta, bool) {
	delta, ok := triggerTable[trigger]
	return delta, ok
}

// StageThreshold 计算给定阶段的进化共鸣阈值
//
// 阈值随阶段线性上升：threshold(stage) = base * (stage + 1)。
func StageThreshold(base uint64, stage uint32) uint64 {
	return base * uint64(stage+1)
}
