// Package unit 提供单元状态机服务接口定义
//
// 🔮 **单元状态机 (Unit State Machine)**
//
// 单元状态机拥有所有单元级可变属性（特征、共鸣、纠缠链接、锁、质押记录）
// 及其确定性演化规则。三个正交状态轴可自由组合：
//
//	Unpaired ⇄ Paired   （link/unlink，unlink对前伙伴施加退相干惩罚）
//	Unlocked ⇄ Locked   （lock/unlock，时间门控）
//	Idle     ⇄ Staked   （stake/unstake，时间门控，附终态奖励领取子状态）
//
// 每个操作在变更前检查所有相关轴的前置条件。
package unit

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// StateMachine 单元状态机服务接口
type StateMachine interface {
	// ApplyPendingDecay 结算截至now的待处理衰减
	//
	// 任何调用者均可调用（仅把派生状态与流逝时间同步，无授权敏感副作用）。
	// 幂等：同一now重复调用，第二次为无操作。
	// 配对单元衰减减半；质押中暂停衰减。
	ApplyPendingDecay(unitID types.UnitID, now int64) error

	// Evolve 进化：阶段+1并按触发器类型施加特征增量
	//
	// 要求：调用者为所有者、未锁定、未质押、共鸣值达到当前阶段阈值。
	// 成功后从共鸣值中扣除阈值额度。
	Evolve(caller types.Address, unitID types.UnitID, trigger types.EvolutionTrigger, intensity uint32, now int64) error

	// Link 建立对称纠缠链接（两单元同属调用者、均未配对且未锁定）
	Link(caller types.Address, a, b types.UnitID, now int64) error

	// Unlink 解除纠缠
	//
	// 退相干惩罚作用于前伙伴：其共鸣值永久乘以 (1 - penaltyBps/10000)。
	Unlink(caller types.Address, unitID types.UnitID, now int64) error

	// Lock 设置时间锁（duration秒）
	Lock(caller types.Address, unitID types.UnitID, duration int64, now int64) error

	// Unlock 清除时间锁；now仍在锁内时失败
	Unlock(caller types.Address, unitID types.UnitID, now int64) error

	// Stake 质押：记录质押时刻共鸣值，所有权托管到质押托管地址
	//
	// 配对单元必须整对质押（伙伴同样要求未锁定、未质押）。
	Stake(caller types.Address, unitID types.UnitID, duration int64, now int64) error

	// Unstake 解押：期限未满时失败，否则所有权归还原质押者
	Unstake(caller types.Address, unitID types.UnitID, now int64) error

	// ClaimReward 领取质押奖励（解押后一次性）
	//
	// 奖励 = 捕获共鸣值 × 质押时长(秒) × rewardRateBps / 10000，
	// 以big.Int护栏计算防溢出，按同质代币记入质押者余额。
	ClaimReward(caller types.Address, unitID types.UnitID, now int64) (uint64, error)

	// Fuse 融合：销毁两个输入单元，铸造一个派生单元
	//
	// 要求双方同属调用者、未锁定、未配对、未质押。
	// 派生规则：特征逐元素取平均，stage = min(stageA, stageB) + 1。
	Fuse(caller types.Address, a, b types.UnitID, now int64) (types.UnitID, error)

	// GetUnit 获取单元当前状态（副本）
	GetUnit(unitID types.UnitID) (*types.Unit, error)
}

// Disentangler 纠缠解除器
//
// 供账本销毁路径在账本变更完成前调用（销毁带伙伴的单元时先退相干）。
type Disentangler interface {
	// ForceUnlink 无条件解除unitID的纠缠并对前伙伴施加退相干惩罚
	//
	// unitID未配对时为无操作。
	ForceUnlink(unitID types.UnitID, now int64)
}
