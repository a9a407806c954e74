// Package types 提供单元账本引擎的公共数据类型定义
//
// 🎯 **核心数据模型 (Core Data Model)**
//
// 本包集中定义引擎各层共享的数据结构：
// - 基础标识：地址、单元ID、金额
// - 账户与单元：余额视图、单元属性向量、质押记录
// - 治理：规则、提案、投票
// - 事件：状态变更的不可变日志记录
//
// 设计原则：类型只承载数据，不承载业务逻辑；业务逻辑位于 internal/core。
package types

import (
	"github.com/mr-tron/base58"
)

// ================================================================================================
// 🧩 基础标识类型
// ================================================================================================

// AddressLen 地址字节长度
const AddressLen = 20

// Address 账户地址（定长不透明字节串）
//
// 地址由宿主执行环境提供，引擎不关心其推导方式（密钥管理在边界之外）。
// 定长数组保证可直接作为map键使用。
type Address [AddressLen]byte

// ZeroAddress 零地址（空/销毁地址）
var ZeroAddress = Address{}

// IsZero 检查是否为零地址
func (a Address) IsZero() bool {
	return a == ZeroAddress
}

// String 返回地址的Base58编码表示
func (a Address) String() string {
	return base58.Encode(a[:])
}

// AddressFromBytes 从字节切片构造地址
//
// 长度不足时左侧补零，超长时截断尾部，保证确定性。
func AddressFromBytes(b []byte) Address {
	var addr Address
	if len(b) >= AddressLen {
		copy(addr[:], b[:AddressLen])
	} else {
		copy(addr[AddressLen-len(b):], b)
	}
	return addr
}

// AddressFromString 从Base58字符串解析地址
func AddressFromString(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return ZeroAddress, err
	}
	return AddressFromBytes(raw), nil
}

// StakingEscrowAddress 质押托管地址
//
// 质押期间单元的所有权转移到该系统地址，解押时归还原质押者。
// 该地址没有对应私钥，仅作为账本内部的托管记账主体。
var StakingEscrowAddress = AddressFromBytes([]byte("wes.staking.escrow.1"))

// UnitID 单元标识符
//
// 由账本按铸造顺序单调递增分配；0为无效值（表示"无单元"）。
type UnitID uint64

// NoUnit 表示"无单元"的哨兵值（如：无伙伴链接）
const NoUnit UnitID = 0

// ProposalID 提案标识符（单调递增计数器）
type ProposalID uint64
