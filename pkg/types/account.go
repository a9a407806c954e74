package types

// ================================================================================================
// 👤 账户相关类型
// ================================================================================================

// BalanceInfo 账户余额视图
//
// 可用/质押分离：Staked 统计该地址当前托管在质押托管账户中的单元数，
// 仅供展示；Total = Available（同质余额不参与质押托管）。
type BalanceInfo struct {
	Address     Address `json:"address"`      // 账户地址
	Available   uint64  `json:"available"`    // 可用同质余额
	UnitCount   uint64  `json:"unit_count"`   // 持有单元数
	StakedUnits uint64  `json:"staked_units"` // 质押中单元数（托管在外）
	Resonance   uint64  `json:"resonance"`    // 持有单元共鸣值合计
	LastUpdated int64   `json:"last_updated"` // 视图生成时间（unix秒）
}

// SupplyInfo 供应量视图
type SupplyInfo struct {
	TotalSupply    uint64 `json:"total_supply"`    // 同质代币总供应量
	UnitCount      uint64 `json:"unit_count"`      // 存活单元总数
	BurnedUnits    uint64 `json:"burned_units"`    // 已销毁单元总数
	TotalResonance uint64 `json:"total_resonance"` // 全局共鸣值合计（增量维护）
}
