// Package ledger 提供账户账本服务接口定义
//
// 💰 **账户账本 (Account Ledger)**
//
// 账本是引擎的叶层：维护 地址→同质余额 与 单元ID→所有者 两套映射，
// 在铸造/销毁/转移路径之外不创造也不毁灭任何资产（守恒不变量）。
//
// 🎯 **核心约定**
// - 原子性：每个操作要么完整提交，要么无任何部分效果地失败
// - 确定性：给定前置状态与输入（含注入的now），结果唯一
// - 单元一等公民：单元所有权独立于同质余额，按ID寻址转移
package ledger

import (
	"github.com/weisyn/unitledger/pkg/types"
)

// AccountLedger 账户账本服务接口
type AccountLedger interface {
	// ================== 铸造与销毁 ==================

	// MintAmount 铸造同质代币
	//
	// 仅铸造权限地址可调用；to为零地址时失败。
	// 原子性地增加接收方余额与总供应量。
	MintAmount(caller, to types.Address, amount uint64, now int64) error

	// MintUnit 铸造一个新单元并分配给to
	//
	// 仅铸造权限地址可调用；返回新分配的单元ID。
	MintUnit(caller, to types.Address, now int64) (types.UnitID, error)

	// BurnAmount 销毁owner持有的同质代币
	BurnAmount(caller, owner types.Address, amount uint64, now int64) error

	// BurnUnit 销毁单元
	//
	// 调用者必须是所有者；时间锁内或质押中的单元拒绝销毁。
	// 若单元有纠缠伙伴，先执行退相干（惩罚作用于伙伴），再完成账本变更。
	BurnUnit(caller types.Address, unitID types.UnitID, now int64) error

	// ================== 转移 ==================

	// TransferAmount 转移同质代币
	//
	// 金额转移永远不移动任何单元（单元按ID经TransferUnit转移）。
	TransferAmount(from, to types.Address, amount uint64, now int64) error

	// TransferUnit 转移单元所有权
	//
	// 配对（纠缠）中的单元不能经本操作移动，需使用TransferPair。
	TransferUnit(from, to types.Address, unitID types.UnitID, now int64) error

	// TransferPair 原子转移一个纠缠对（单元及其伙伴一起移动，链接保留）
	TransferPair(from, to types.Address, unitID types.UnitID, now int64) error

	// ================== 查询 ==================

	// GetBalance 获取账户余额视图
	GetBalance(addr types.Address, now int64) (*types.BalanceInfo, error)

	// GetOwnedUnits 获取账户持有的单元ID列表（升序）
	GetOwnedUnits(addr types.Address) ([]types.UnitID, error)

	// GetUnitOwner 获取单元所有者
	GetUnitOwner(unitID types.UnitID) (types.Address, error)

	// GetSupply 获取供应量视图
	GetSupply() *types.SupplyInfo
}
