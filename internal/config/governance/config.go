// Package governance 提供治理模块配置
package governance

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// 默认值
const (
	defaultVotingPeriodSeconds = int64(3 * 24 * 3600) // 3天
	defaultQuorumBps           = uint32(400)          // 4%
	defaultMinProposalWeight   = uint64(100)
	defaultVoteWeighting       = string(types.WeightingLinear)
)

// GovernanceOptions 治理配置选项
type GovernanceOptions struct {
	VotingPeriodSeconds int64  // 投票窗口（秒）
	QuorumBps           uint32 // 法定人数（快照权重的基点）
	MinProposalWeight   uint64 // 最小提案权重
	VoteWeighting       string // linear | quadratic
}

// Config 治理配置
type Config struct {
	options *GovernanceOptions
}

// New 创建治理配置
func New(userConfig *types.UserGovernanceConfig) *Config {
	options := &GovernanceOptions{
		VotingPeriodSeconds: defaultVotingPeriodSeconds,
		QuorumBps:           defaultQuorumBps,
		MinProposalWeight:   defaultMinProposalWeight,
		VoteWeighting:       defaultVoteWeighting,
	}

	if userConfig != nil {
		if userConfig.VotingPeriodSeconds != nil {
			options.VotingPeriodSeconds = *userConfig.VotingPeriodSeconds
		}
		if userConfig.QuorumBps != nil {
			options.QuorumBps = *userConfig.QuorumBps
		}
		if userConfig.MinProposalWeight != nil {
			options.MinProposalWeight = *userConfig.MinProposalWeight
		}
		if userConfig.VoteWeighting != nil {
			options.VoteWeighting = *userConfig.VoteWeighting
		}
	}

	return &Config{options: options}
}

// GetOptions 获取配置选项
func (c *Config) GetOptions() *GovernanceOptions { return c.options }
