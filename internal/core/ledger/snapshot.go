package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/unitledger/pkg/types"
)

// snapshotKey 状态快照的存储键
var snapshotKey = []byte("state/snapshot")

// accountSnapshot 账户的持久化形态（聚合量不落盘，加载时重建）
type accountSnapshot struct {
	Address     string `json:"address"`
	Balance     uint64 `json:"balance"`
	StakedUnits uint64 `json:"staked_units"`
	LastUpdated int64  `json:"last_updated"`
}

// unitSnapshot 单元及其所有者的持久化形态
type unitSnapshot struct {
	Unit  *types.Unit `json:"unit"`
	Owner string      `json:"owner"`
}

// stateSnapshot 整体状态的持久化形态
type stateSnapshot struct {
	Accounts []accountSnapshot `json:"accounts"`
	Units    []unitSnapshot    `json:"units"`

	TotalSupply uint64       `json:"total_supply"`
	NextUnitID  types.UnitID `json:"next_unit_id"`
	BurnedUnits uint64       `json:"burned_units"`

	MintAuthority  string `json:"mint_authority"`
	AdminAuthority string `json:"admin_authority"`
}

// SaveSnapshot 把当前状态整体写入存储
func (s *State) SaveSnapshot(ctx context.Context, store storage.KVStore) error {
	s.mu.RLock()
	snap := stateSnapshot{
		TotalSupply:    s.totalSupply,
		NextUnitID:     s.nextUnitID,
		BurnedUnits:    s.burnedUnits,
		MintAuthority:  s.mintAuthority.String(),
		AdminAuthority: s.adminAuthority.String(),
	}
	for addr, acc := range s.accounts {
		snap.Accounts = append(snap.Accounts, accountSnapshot{
			Address:     addr.String(),
			Balance:     acc.balance,
			StakedUnits: acc.stakedUnits,
			LastUpdated: acc.lastUpdated,
		})
	}
	for id, unit := range s.units {
		snap.Units = append(snap.Units, unitSnapshot{
			Unit:  unit,
			Owner: s.unitOwner[id].String(),
		})
	}
	s.mu.RUnlock()

	data, err := json.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("序列化状态快照失败: %w", err)
	}
	if err := store.Set(ctx, snapshotKey, data); err != nil {
		return fmt.Errorf("写入状态快照失败: %w", err)
	}
	return nil
}

// LoadSnapshot 从存储恢复状态；快照不存在时返回 (nil, nil)
func LoadSnapshot(ctx context.Context, store storage.KVStore) (*State, error) {
	data, err := store.Get(ctx, snapshotKey)
	if err != nil {
		return nil, fmt.Errorf("读取状态快照失败: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var snap stateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("解析状态快照失败: %w", err)
	}

	mintAuthority, err := types.AddressFromString(snap.MintAuthority)
	if err != nil {
		return nil, fmt.Errorf("解析铸造权限地址失败: %w", err)
	}
	adminAuthority, err := types.AddressFromString(snap.AdminAuthority)
	if err != nil {
		return nil, fmt.Errorf("解析管理权限地址失败: %w", err)
	}

	s := NewState(mintAuthority, adminAuthority)
	s.totalSupply = snap.TotalSupply
	s.nextUnitID = snap.NextUnitID
	s.burnedUnits = snap.BurnedUnits

	for _, acc := range snap.Accounts {
		addr, err := types.AddressFromString(acc.Address)
		if err != nil {
			return nil, fmt.Errorf("解析账户地址失败: %w", err)
		}
		a := s.ensureAccount(addr)
		a.balance = acc.Balance
		a.stakedUnits = acc.StakedUnits
		a.lastUpdated = acc.LastUpdated
	}

	// 重建持仓与聚合量：账户共鸣合计、全局共鸣合计均由单元推导
	for _, us := range snap.Units {
		owner, err := types.AddressFromString(us.Owner)
		if err != nil {
			return nil, fmt.Errorf("解析单元所有者地址失败: %w", err)
		}
		unit := us.Unit
		s.units[unit.ID] = unit
		s.unitOwner[unit.ID] = owner

		acc := s.ensureAccount(owner)
		acc.units[unit.ID] = struct{}{}
		acc.resonanceSum += unit.Resonance
		s.totalResonance += unit.Resonance
	}

	return s, nil
}
