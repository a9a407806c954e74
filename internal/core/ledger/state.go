// Package ledger 提供账户账本的状态与操作实现
package ledger

import (
	"fmt"
	"sort"
	"sync"

	"github.com/weisyn/unitledger/pkg/types"
)

// accountState 单账户的内部状态
type accountState struct {
	balance      uint64                     // 同质余额（wei）
	units        map[types.UnitID]struct{}  // 持有的单元集合
	resonanceSum uint64                     // 持有单元的共鸣值合计（增量维护）
	stakedUnits  uint64                     // 本账户作为质押者的在押单元数
	lastUpdated  int64                      // 最近一次余额/持仓变更时间
}

// State 引擎共享状态
//
// 账本、单元状态机与治理共用同一份状态，所有聚合量（总供应、
// 全局共鸣、账户共鸣合计）随每次变更增量维护，任何查询路径
// 都不做全量扫描。
//
// 并发约定：除构造函数外，所有方法都要求调用方先持有Lock/RLock；
// 业务操作在管理器层整体加锁，保证"要么完整提交要么无部分效果"。
type State struct {
	mu sync.RWMutex

	accounts  map[types.Address]*accountState
	units     map[types.UnitID]*types.Unit
	unitOwner map[types.UnitID]types.Address

	totalSupply    uint64       // 同质代币总供应量
	totalResonance uint64       // 全局共鸣值合计
	nextUnitID     types.UnitID // 下一个待分配的单元ID（从1起）
	burnedUnits    uint64       // 历史销毁单元数

	mintAuthority  types.Address // 铸造权限地址
	adminAuthority types.Address // 规则管理权限地址

	onBalanceChange func(types.Address) // 余额视图失效钩子（缓存层注册）
}

// NewState 创建空状态
func NewState(mintAuthority, adminAuthority types.Address) *State {
	return &State{
		accounts:       make(map[types.Address]*accountState),
		units:          make(map[types.UnitID]*types.Unit),
		unitOwner:      make(map[types.UnitID]types.Address),
		nextUnitID:     1,
		mintAuthority:  mintAuthority,
		adminAuthority: adminAuthority,
	}
}

// Lock 获取写锁
func (s *State) Lock() { s.mu.Lock() }

// Unlock 释放写锁
func (s *State) Unlock() { s.mu.Unlock() }

// RLock 获取读锁
func (s *State) RLock() { s.mu.RLock() }

// RUnlock 释放读锁
func (s *State) RUnlock() { s.mu.RUnlock() }

// SetBalanceChangeHook 注册余额视图变更钩子
//
// 任何改变余额视图字段（余额、持仓、共鸣合计、在押计数）的状态
// 变更都会回调，缓存层据此失效。衰减、退相干惩罚、规则效果等
// 不经账本管理器的共鸣变更也由此覆盖。
func (s *State) SetBalanceChangeHook(fn func(types.Address)) {
	s.onBalanceChange = fn
}

// balanceChanged 通知余额视图变更
func (s *State) balanceChanged(addr types.Address) {
	if s.onBalanceChange != nil {
		s.onBalanceChange(addr)
	}
}

// ensureAccount 取出账户状态，不存在时惰性创建
func (s *State) ensureAccount(addr types.Address) *accountState {
	acc, ok := s.accounts[addr]
	if !ok {
		acc = &accountState{units: make(map[types.UnitID]struct{})}
		s.accounts[addr] = acc
	}
	return acc
}

// ================================================================================================
// 同质余额
// ================================================================================================

// BalanceOf 返回账户同质余额
func (s *State) BalanceOf(addr types.Address) uint64 {
	if acc, ok := s.accounts[addr]; ok {
		return acc.balance
	}
	return 0
}

// Credit 增加账户余额
func (s *State) Credit(addr types.Address, amount uint64, now int64) error {
	acc := s.ensureAccount(addr)
	if acc.balance+amount < acc.balance {
		return fmt.Errorf("账户余额溢出: %s: %w", addr, types.ErrInvariantViolation)
	}
	acc.balance += amount
	acc.lastUpdated = now
	s.balanceChanged(addr)
	return nil
}

// Debit 扣减账户余额，余额不足时失败
func (s *State) Debit(addr types.Address, amount uint64, now int64) error {
	acc, ok := s.accounts[addr]
	if !ok || acc.balance < amount {
		return fmt.Errorf("账户余额不足: %s: %w", addr, types.ErrInsufficientResource)
	}
	acc.balance -= amount
	acc.lastUpdated = now
	s.balanceChanged(addr)
	return nil
}

// AddSupply 增加总供应量
func (s *State) AddSupply(delta uint64) error {
	if s.totalSupply+delta < s.totalSupply {
		return fmt.Errorf("总供应量溢出: %w", types.ErrInvariantViolation)
	}
	s.totalSupply += delta
	return nil
}

// SubSupply 减少总供应量
func (s *State) SubSupply(delta uint64) error {
	if s.totalSupply < delta {
		return fmt.Errorf("总供应量下溢: %w", types.ErrInvariantViolation)
	}
	s.totalSupply -= delta
	return nil
}

// TotalSupply 返回同质代币总供应量
func (s *State) TotalSupply() uint64 { return s.totalSupply }

// ================================================================================================
// 单元登记
// ================================================================================================

// CreateUnit 登记一个新单元并分配ID
//
// 单元ID按铸造顺序单调递增，销毁后不复用。
func (s *State) CreateUnit(owner types.Address, unit *types.Unit, now int64) types.UnitID {
	id := s.nextUnitID
	s.nextUnitID++
	unit.ID = id

	s.units[id] = unit
	s.unitOwner[id] = owner

	acc := s.ensureAccount(owner)
	acc.units[id] = struct{}{}
	acc.resonanceSum += unit.Resonance
	acc.lastUpdated = now
	s.totalResonance += unit.Resonance
	s.balanceChanged(owner)

	return id
}

// RemoveUnit 注销单元（销毁/融合路径）
func (s *State) RemoveUnit(id types.UnitID, now int64) error {
	unit, ok := s.units[id]
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", id, types.ErrNotFound)
	}
	owner := s.unitOwner[id]

	acc := s.accounts[owner]
	if acc != nil {
		delete(acc.units, id)
		acc.resonanceSum -= unit.Resonance
		acc.lastUpdated = now
	}
	s.totalResonance -= unit.Resonance

	delete(s.units, id)
	delete(s.unitOwner, id)
	s.burnedUnits++
	s.balanceChanged(owner)
	return nil
}

// MoveUnit 变更单元所有权，保持账户共鸣合计一致
func (s *State) MoveUnit(id types.UnitID, from, to types.Address, now int64) error {
	unit, ok := s.units[id]
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", id, types.ErrNotFound)
	}
	if s.unitOwner[id] != from {
		return fmt.Errorf("单元 %d 不属于 %s: %w", id, from, types.ErrUnauthorized)
	}

	fromAcc := s.accounts[from]
	delete(fromAcc.units, id)
	fromAcc.resonanceSum -= unit.Resonance
	fromAcc.lastUpdated = now

	toAcc := s.ensureAccount(to)
	toAcc.units[id] = struct{}{}
	toAcc.resonanceSum += unit.Resonance
	toAcc.lastUpdated = now

	s.unitOwner[id] = to
	s.balanceChanged(from)
	s.balanceChanged(to)
	return nil
}

// Unit 返回单元的内部指针
//
// 返回的是活对象：属性变更必须经SetResonance等状态方法，
// 保证聚合量同步。
func (s *State) Unit(id types.UnitID) (*types.Unit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// OwnerOf 返回单元所有者
func (s *State) OwnerOf(id types.UnitID) (types.Address, bool) {
	owner, ok := s.unitOwner[id]
	return owner, ok
}

// SetResonance 更新单元共鸣值并同步账户与全局聚合量
func (s *State) SetResonance(id types.UnitID, newValue uint64) error {
	unit, ok := s.units[id]
	if !ok {
		return fmt.Errorf("单元不存在: %d: %w", id, types.ErrNotFound)
	}
	old := unit.Resonance
	if old == newValue {
		return nil
	}

	owner := s.unitOwner[id]
	acc := s.accounts[owner]

	if newValue > old {
		delta := newValue - old
		acc.resonanceSum += delta
		s.totalResonance += delta
	} else {
		delta := old - newValue
		acc.resonanceSum -= delta
		s.totalResonance -= delta
	}
	unit.Resonance = newValue
	s.balanceChanged(owner)
	return nil
}

// OwnedUnits 返回账户持有的单元ID（升序）
func (s *State) OwnedUnits(addr types.Address) []types.UnitID {
	acc, ok := s.accounts[addr]
	if !ok || len(acc.units) == 0 {
		return nil
	}
	ids := make([]types.UnitID, 0, len(acc.units))
	for id := range acc.units {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// AddStakedCount 调整账户的在押单元计数（delta为±1）
func (s *State) AddStakedCount(addr types.Address, delta int64) {
	acc := s.ensureAccount(addr)
	if delta >= 0 {
		acc.stakedUnits += uint64(delta)
	} else {
		acc.stakedUnits -= uint64(-delta)
	}
	s.balanceChanged(addr)
}

// ================================================================================================
// 视图与权重
// ================================================================================================

// BalanceInfoOf 组装账户余额视图
func (s *State) BalanceInfoOf(addr types.Address) *types.BalanceInfo {
	info := &types.BalanceInfo{Address: addr}
	if acc, ok := s.accounts[addr]; ok {
		info.Available = acc.balance
		info.UnitCount = uint64(len(acc.units))
		info.StakedUnits = acc.stakedUnits
		info.Resonance = acc.resonanceSum
		info.LastUpdated = acc.lastUpdated
	}
	return info
}

// SupplyInfo 组装供应量视图
func (s *State) SupplyInfo() *types.SupplyInfo {
	return &types.SupplyInfo{
		TotalSupply:    s.totalSupply,
		UnitCount:      uint64(len(s.units)),
		BurnedUnits:    s.burnedUnits,
		TotalResonance: s.totalResonance,
	}
}

// WeightOf 返回账户的基础治理权重（自有余额 + 持有单元共鸣合计）
//
// 委托关系在治理层另行叠加。
func (s *State) WeightOf(addr types.Address) uint64 {
	acc, ok := s.accounts[addr]
	if !ok {
		return 0
	}
	return acc.balance + acc.resonanceSum
}

// GlobalWeight 返回全局权重（总供应 + 全局共鸣合计）
//
// 提案创建时以此做快照分母，O(1)，不扫描账户。
func (s *State) GlobalWeight() uint64 {
	return s.totalSupply + s.totalResonance
}

// ================================================================================================
// 权限
// ================================================================================================

// MintAuthority 返回铸造权限地址
func (s *State) MintAuthority() types.Address { return s.mintAuthority }

// AdminAuthority 返回规则管理权限地址
func (s *State) AdminAuthority() types.Address { return s.adminAuthority }
