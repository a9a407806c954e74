// Package governance 提供策略与治理层服务接口定义
//
// 🏛️ **策略与治理层 (Policy & Governance Layer)**
//
// 顶层：以可配置、可版本化的规则门控单元状态机操作，并支持
// 提案/投票/执行循环来变更规则集本身。投票合法性来自账本持有的权重。
//
// 规则采用push-then-pull设计：Trigger只把满足谓词的规则标记为已触发
// （幂等），单元所有者随后逐个ClaimEffect领取效果——避免单次原子调用
// 内对全部单元做无界迭代。
package governance

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// Service 治理服务接口
type Service interface {
	// ================== 规则 / 催化剂 ==================

	// AddRule 创建规则（仅规则管理权限地址）
	AddRule(caller types.Address, rule *types.Rule, now int64) error

	// AssignRule 将规则指派给单元（仅规则管理权限地址）
	AssignRule(caller types.Address, ruleID string, unitID types.UnitID) error

	// DeactivateRule 停用规则（停用后历史仍可查询）
	DeactivateRule(caller types.Address, ruleID string, now int64) error

	// EvaluateRule 纯函数求值规则谓词（无副作用）
	EvaluateRule(ruleID string, oracleValue uint64, now int64) (bool, error)

	// Trigger 扫描所有规则，把谓词满足者标记为已触发
	//
	// 幂等：每条规则仅发生一次 Untriggered→Triggered 迁移。
	// 本操作不改动任何单元状态。
	Trigger(oracleValue uint64, now int64) ([]string, error)

	// ClaimEffect 单元所有者领取已触发规则的效果（每单元一次）
	ClaimEffect(caller types.Address, ruleID string, unitID types.UnitID, now int64) error

	// GetRule 查询规则（含已停用的历史规则）
	GetRule(ruleID string) (*types.Rule, error)

	// ================== 提案 / 投票 ==================

	// Propose 创建参数变更提案
	//
	// 提案人权重（自有余额+单元共鸣+受托权重）须不低于minProposalWeight；
	// 创建时对全局权重做快照作为法定人数分母。
	Propose(proposer types.Address, description, paramKey string, newValue uint64, now int64) (types.ProposalID, error)

	// Vote 投票（每个投票人每提案至多一票；权重按配置策略变换）
	Vote(voter types.Address, proposalID types.ProposalID, support bool, now int64) error

	// Finalize 投票窗口结束后定案：Passed 或 Failed
	//
	// 通过条件：for > against 且参与权重 ≥ quorumBps × 快照权重 / 10000。
	Finalize(proposalID types.ProposalID, now int64) (types.ProposalState, error)

	// Execute 执行已通过的提案（仅一次），把参数变更应用到实时参数集
	//
	// 这是部署后配置值唯一的变更路径。
	Execute(caller types.Address, proposalID types.ProposalID, now int64) error

	// GetProposal 查询提案
	GetProposal(proposalID types.ProposalID) (*types.Proposal, error)

	// ================== 委托 ==================

	// Delegate 把投票权重委托给另一账户（只影响权重计算，不影响所有权）
	Delegate(from, to types.Address, now int64) error

	// Undelegate 撤销委托
	Undelegate(from types.Address, now int64) error

	// VotingWeight 计算账户当前投票权重
	VotingWeight(addr types.Address) uint64
}

// ParameterStore 实时参数集只读访问
//
// 单元状态机与账本通过本接口读取可治理参数（衰减率、惩罚、阈值等），
// 写入仅发生在治理Execute路径。
type ParameterStore interface {
	// GetParam 读取参数当前值；键不存在时返回 (0, false)
	GetParam(key string) (uint64, bool)
}
