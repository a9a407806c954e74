package ledger

import (
	"encoding/json"
	"fmt"

	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	"github.com/weisyn/unitledger/internal/core/infrastructure/metrics"
	"github.com/weisyn/unitledger/pkg/interfaces/governance"
	event "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/event"
	log "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/unitledger/pkg/interfaces/infrastructure/storage"
	ledgerInterface "github.com/weisyn/unitledger/pkg/interfaces/ledger"
	unitInterface "github.com/weisyn/unitledger/pkg/interfaces/unit"
	"github.com/weisyn/unitledger/pkg/types"
)

// Manager 账户账本管理器
//
// 守恒不变量的唯一守门人：余额与单元只在铸造/销毁/转移路径上
// 发生变化，每个操作整体加锁，要么完整提交要么无部分效果。
type Manager struct {
	state  *State
	config *ledgerconfig.LedgerOptions

	params       governance.ParameterStore // 实时参数集（铸造初始共鸣等）
	disentangler unitInterface.Disentangler // 销毁配对单元前的退相干钩子

	recorder event.Recorder
	cache    storage.CacheStore // 热点余额读缓存
	logger   log.Logger
}

// NewManager 创建账本管理器
func NewManager(
	state *State,
	config *ledgerconfig.LedgerOptions,
	params governance.ParameterStore,
	disentangler unitInterface.Disentangler,
	recorder event.Recorder,
	cache storage.CacheStore,
	logger log.Logger,
) (*Manager, error) {
	if state == nil {
		return nil, fmt.Errorf("state不能为空")
	}
	if config == nil {
		return nil, fmt.Errorf("config不能为空")
	}
	if params == nil {
		return nil, fmt.Errorf("params不能为空")
	}
	if recorder == nil {
		return nil, fmt.Errorf("recorder不能为空")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger不能为空")
	}

	m := &Manager{
		state:        state,
		config:       config,
		params:       params,
		disentangler: disentangler,
		recorder:     recorder,
		cache:        cache,
		logger:       logger.With("module", "ledger"),
	}
	// 账本之外的状态变更（衰减、惩罚、规则效果、质押托管）
	// 也要让缓存视图失效
	state.SetBalanceChangeHook(func(addr types.Address) {
		m.invalidateBalance(addr)
	})
	return m, nil
}

// SetDisentangler 注入纠缠解除器（装配期解决账本与单元状态机的相互依赖）
func (m *Manager) SetDisentangler(d unitInterface.Disentangler) {
	m.disentangler = d
}

// balanceCacheKey 余额缓存键
func balanceCacheKey(addr types.Address) string {
	return "bal/" + addr.String()
}

// invalidateBalance 使余额缓存失效
func (m *Manager) invalidateBalance(addrs ...types.Address) {
	if m.cache == nil {
		return
	}
	for _, addr := range addrs {
		m.cache.Delete(balanceCacheKey(addr))
	}
}

// record 在状态落定后追加事件并刷新供应量指标
func (m *Manager) record(evt *types.LedgerEvent) {
	m.recorder.Record(evt)

	supply := m.state.SupplyInfo()
	metrics.SetTotalSupply(supply.TotalSupply)
	metrics.SetTotalResonance(supply.TotalResonance)
}

// ================================================================================================
// 查询
// ================================================================================================

// GetBalance 获取账户余额视图（经进程内缓存读穿）
func (m *Manager) GetBalance(addr types.Address, now int64) (*types.BalanceInfo, error) {
	if addr.IsZero() {
		return nil, fmt.Errorf("零地址无余额视图: %w", types.ErrZeroAddress)
	}

	if m.cache != nil {
		if raw, ok := m.cache.Get(balanceCacheKey(addr)); ok {
			var info types.BalanceInfo
			if err := json.Unmarshal(raw, &info); err == nil {
				return &info, nil
			}
			// 缓存损坏时静默回源
			m.cache.Delete(balanceCacheKey(addr))
		}
	}

	m.state.RLock()
	info := m.state.BalanceInfoOf(addr)
	m.state.RUnlock()

	if m.cache != nil {
		if raw, err := json.Marshal(info); err == nil {
			_ = m.cache.Set(balanceCacheKey(addr), raw)
		}
	}
	return info, nil
}

// GetOwnedUnits 获取账户持有的单元ID列表（升序）
func (m *Manager) GetOwnedUnits(addr types.Address) ([]types.UnitID, error) {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.state.OwnedUnits(addr), nil
}

// GetUnitOwner 获取单元所有者
func (m *Manager) GetUnitOwner(unitID types.UnitID) (types.Address, error) {
	m.state.RLock()
	defer m.state.RUnlock()
	owner, ok := m.state.OwnerOf(unitID)
	if !ok {
		return types.ZeroAddress, fmt.Errorf("单元不存在: %d: %w", unitID, types.ErrNotFound)
	}
	return owner, nil
}

// GetSupply 获取供应量视图
func (m *Manager) GetSupply() *types.SupplyInfo {
	m.state.RLock()
	defer m.state.RUnlock()
	return m.state.SupplyInfo()
}

var _ ledgerInterface.AccountLedger = (*Manager)(nil)
