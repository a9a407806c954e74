package types

// ================================================================================================
// 📣 事件日志类型
// ================================================================================================

// EventType 事件类型
type EventType string

const (
	// 账本事件
	EventMintAmount   EventType = "ledger.mint_amount"
	EventBurnAmount   EventType = "ledger.burn_amount"
	EventMintUnit     EventType = "ledger.mint_unit"
	EventBurnUnit     EventType = "ledger.burn_unit"
	EventTransfer     EventType = "ledger.transfer"
	EventTransferUnit EventType = "ledger.transfer_unit"
	EventTransferPair EventType = "ledger.transfer_pair"

	// 单元状态机事件
	EventDecayApplied  EventType = "unit.decay_applied"
	EventEvolved       EventType = "unit.evolved"
	EventLinked        EventType = "unit.linked"
	EventUnlinked      EventType = "unit.unlinked"
	EventLocked        EventType = "unit.locked"
	EventUnlocked      EventType = "unit.unlocked"
	EventStaked        EventType = "unit.staked"
	EventUnstaked      EventType = "unit.unstaked"
	EventRewardClaimed EventType = "unit.reward_claimed"
	EventFused         EventType = "unit.fused"

	// 治理事件
	EventRuleAdded        EventType = "governance.rule_added"
	EventRuleTriggered    EventType = "governance.rule_triggered"
	EventEffectClaimed    EventType = "governance.effect_claimed"
	EventProposalCreated  EventType = "governance.proposal_created"
	EventVoteCast         EventType = "governance.vote_cast"
	EventProposalFinalized EventType = "governance.proposal_finalized"
	EventProposalExecuted EventType = "governance.proposal_executed"
	EventDelegated        EventType = "governance.delegated"
	EventUndelegated      EventType = "governance.undelegated"
)

// LedgerEvent 不可变日志记录
//
// 每个改变状态的操作在内部状态完全落定后追加一条记录（先生效后通知）。
// 引擎只写不读：决策永远不依赖自身历史事件。
type LedgerEvent struct {
	ID        string    `json:"id"`        // 记录标识（uuid）
	Type      EventType `json:"type"`      // 事件类型
	Timestamp int64     `json:"timestamp"` // 逻辑时间（本次事务注入的now）
	Actor     Address   `json:"actor"`     // 触发者

	Units  []UnitID `json:"units,omitempty"`  // 涉及的单元
	Amount uint64   `json:"amount,omitempty"` // 涉及的金额/增量

	// Attributes 不变量检查相关的前后值（键 → 十进制字符串）
	Attributes map[string]string `json:"attributes,omitempty"`
}
