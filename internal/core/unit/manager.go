// Package unit 提供单元状态机的实现
//
// 三个正交状态轴（配对、时间锁、质押）的组合演化都经过本包，
// 每个操作在共享状态锁内整体完成，前置检查不通过则无任何副作用。
package unit

import (
	"fmt"

	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/pkg/interfaces/governance"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	unitInterface "github.com/weisyn/unitledger/pkg/interfaces/unit"
	"github.com/weisyn/unitledger/pkg/types"
)

// Manager 单元状态机管理器
type Manager struct {
	state      *ledger.State
	params     governance.ParameterStore   // 衰减率、惩罚、阈值等实时参数
	ledgerOpts *ledgerconfig.LedgerOptions // 奖励铸造受最大供应量约束

	recorder event.Recorder
	logger   log.Logger
}

// NewManager 创建单元状态机管理器
func NewManager(
	state *ledger.State,
	params governance.ParameterStore,
	ledgerOpts *ledgerconfig.LedgerOptions,
	recorder event.Recorder,
	logger log.Logger,
) (*Manager, error) {
	if state == nil {
		return nil, fmt.Errorf("state不能为空")
	}
	if params == nil {
		return nil, fmt.Errorf("params不能为空")
	}
	if ledgerOpts == nil {
		return nil, fmt.Errorf("ledgerOpts不能为空")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder不能为空")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger不能为空")
	}

	return &Manager{
		state:      state,
		params:     params,
		ledgerOpts: ledgerOpts,
		recorder:   recorder,
		logger:     logger.With("module", "unit"),
	}, nil
}

// param 读取实时参数，缺失时使用fallback
func (m *Manager) param(key string, fallback uint64) uint64 {
	if v, ok := m.params.GetParam(key); ok {
		return v
	}
	return fallback
}

// unitOwnedBy 取出单元并校验所有权（调用方持有状态锁）
//
// 质押中的单元所有权在托管地址，按质押者校验。
func (m *Manager) unitOwnedBy(caller types.Address, id types.UnitID) (*types.Unit, error) {
	unit, ok := m.state.Unit(id)
	if !ok {
		return nil, fmt.Errorf("单元不存在: %d: %w", id, types.ErrNotFound)
	}
	if unit.IsStaked() {
		if unit.Staking.Staker != caller {
			return nil, fmt.Errorf("调用者不是单元 %d 的质押者: %w", id, types.ErrUnauthorized)
		}
		return unit, nil
	}
	owner, _ := m.state.OwnerOf(id)
	if owner != caller {
		return nil, fmt.Errorf("调用者不是单元 %d 的所有者: %w", id, types.ErrUnauthorized)
	}
	return unit, nil
}

// GetUnit 获取单元当前状态（副本）
func (m *Manager) GetUnit(unitID types.UnitID) (*types.Unit, error) {
	m.state.RLock()
	defer m.state.RUnlock()

	unit, ok := m.state.Unit(unitID)
	if !ok {
		return nil, fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}

	cp := *unit
	if unit.Staking != nil {
		staking := *unit.Staking
		cp.Staking = &staking
	}
	return &cp, nil
}

var _ unitInterface.StateMachine = (*Manager)(nil)
var _ unitInterface.Disentangler = (*Manager)(nil)
