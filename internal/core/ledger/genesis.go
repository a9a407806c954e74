package ledger

import (
	"fmt"

	"github.com/weisyn/unitledger/pkg/types"
)

// BuildGenesisState 按创世配置构造初始状态
//
// 创世分配不经过权限校验（没有更早的权限可言），但仍走
// 常规的供应量与聚合量维护路径，守恒从第0秒起成立。
func BuildGenesisState(cfg *types.GenesisConfig, initialResonance uint64, now int64) (*State, error) {
	if cfg == nil {
		return nil, fmt.Errorf("创世配置缺失: %w", types.ErrInvalidState)
	}

	mintAuthority, err := types.AddressFromString(cfg.MintAuthority)
	if err != nil {
		return nil, fmt.Errorf("解析铸造权限地址失败: %w", err)
	}
	if mintAuthority.IsZero() {
		return nil, fmt.Errorf("铸造权限不能为零地址: %w", types.ErrZeroAddress)
	}

	// 管理权限可缺省：未配置或零地址时回退到铸造权限
	adminAuthority := mintAuthority
	if cfg.AdminAuthority != "" {
		adminAuthority, err = types.AddressFromString(cfg.AdminAuthority)
		if err != nil {
			return nil, fmt.Errorf("解析管理权限地址失败: %w", err)
		}
		if adminAuthority.IsZero() {
			adminAuthority = mintAuthority
		}
	}

	s := NewState(mintAuthority, adminAuthority)

	for _, acc := range cfg.Accounts {
		addr, err := types.AddressFromString(acc.Address)
		if err != nil {
			return nil, fmt.Errorf("解析创世账户地址失败 %q: %w", acc.Address, err)
		}
		if addr.IsZero() {
			return nil, fmt.Errorf("创世账户不能为零地址: %w", types.ErrZeroAddress)
		}

		if acc.Balance > 0 {
			if err := s.AddSupply(acc.Balance); err != nil {
				return nil, err
			}
			if err := s.Credit(addr, acc.Balance, now); err != nil {
				return nil, err
			}
		}

		for i := uint32(0); i < acc.Units; i++ {
			s.CreateUnit(addr, &types.Unit{
				CreatedAt:       now,
				Resonance:       initialResonance,
				DecayCheckpoint: now,
			}, now)
		}
	}

	return s, nil
}
