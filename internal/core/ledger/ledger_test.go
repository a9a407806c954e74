package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	badgerconfig "github.com/weisyn/unitledger/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/unitledger/internal/config/storage/memory"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/internal/core/governance"
	"github.com/weisyn/unitledger/internal/core/infrastructure/event"
	logpkg "github.com/weisyn/unitledger/internal/core/infrastructure/log"
	badgerstore "github.com/weisyn/unitledger/internal/core/infrastructure/storage/badger"
	memorystore "github.com/weisyn/unitledger/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/internal/core/unit"
	"github.com/weisyn/unitledger/pkg/types"
)

const t0 = int64(1_700_000_000)

// env 测试装配：共享状态 + 账本 + 单元状态机
type env struct {
	state  *ledger.State
	ledger *ledger.Manager
	units  *unit.Manager

	mint  types.Address
	admin types.Address
	alice types.Address
	bob   types.Address
}

func newEnv(t *testing.T, userLedger *types.UserLedgerConfig, userUnit *types.UserUnitConfig) *env {
	t.Helper()

	mint := types.AddressFromBytes([]byte("authority.mint"))
	admin := types.AddressFromBytes([]byte("authority.admin"))

	state := ledger.NewState(mint, admin)
	params := governance.NewParamSet(
		unitconfig.New(userUnit).GetOptions(),
		governanceconfig.New(nil).GetOptions(),
	)
	recorder := event.NewRecorder(nil, logpkg.GetLogger())
	ledgerOpts := ledgerconfig.New(userLedger).GetOptions()

	lm, err := ledger.NewManager(state, ledgerOpts, params, nil, recorder, nil, logpkg.GetLogger())
	require.NoError(t, err)

	um, err := unit.NewManager(state, params, ledgerOpts, recorder, logpkg.GetLogger())
	require.NoError(t, err)
	lm.SetDisentangler(um)

	return &env{
		state:  state,
		ledger: lm,
		units:  um,
		mint:   mint,
		admin:  admin,
		alice:  types.AddressFromBytes([]byte("account.alice")),
		bob:    types.AddressFromBytes([]byte("account.bob")),
	}
}

func TestMintAmount(t *testing.T) {
	e := newEnv(t, nil, nil)

	t.Run("铸造权限地址可铸造", func(t *testing.T) {
		require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 1000, t0))
		info, err := e.ledger.GetBalance(e.alice, t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(1000), info.Available)
		assert.Equal(t, uint64(1000), e.ledger.GetSupply().TotalSupply)
	})

	t.Run("非权限地址铸造失败", func(t *testing.T) {
		err := e.ledger.MintAmount(e.alice, e.bob, 100, t0)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})

	t.Run("零地址与零金额被拒绝", func(t *testing.T) {
		assert.ErrorIs(t, e.ledger.MintAmount(e.mint, types.ZeroAddress, 100, t0), types.ErrZeroAddress)
		assert.ErrorIs(t, e.ledger.MintAmount(e.mint, e.alice, 0, t0), types.ErrInvalidState)
	})
}

func TestMintAmount_MaxSupplyCap(t *testing.T) {
	maxSupply := uint64(500)
	e := newEnv(t, &types.UserLedgerConfig{MaxSupply: &maxSupply}, nil)

	require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 500, t0))
	err := e.ledger.MintAmount(e.mint, e.alice, 1, t0)
	assert.ErrorIs(t, err, types.ErrInsufficientResource)
	assert.Equal(t, uint64(500), e.ledger.GetSupply().TotalSupply)
}

func TestBurnAmount(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 1000, t0))

	t.Run("所有者可销毁自己的余额", func(t *testing.T) {
		require.NoError(t, e.ledger.BurnAmount(e.alice, e.alice, 300, t0))
		assert.Equal(t, uint64(700), e.ledger.GetSupply().TotalSupply)
	})

	t.Run("铸造权限可代为销毁", func(t *testing.T) {
		require.NoError(t, e.ledger.BurnAmount(e.mint, e.alice, 200, t0))
		assert.Equal(t, uint64(500), e.ledger.GetSupply().TotalSupply)
	})

	t.Run("第三方无权销毁", func(t *testing.T) {
		assert.ErrorIs(t, e.ledger.BurnAmount(e.bob, e.alice, 100, t0), types.ErrUnauthorized)
	})

	t.Run("余额不足时失败且无副作用", func(t *testing.T) {
		supplyBefore := e.ledger.GetSupply().TotalSupply
		err := e.ledger.BurnAmount(e.alice, e.alice, 10_000, t0)
		assert.ErrorIs(t, err, types.ErrInsufficientResource)
		assert.Equal(t, supplyBefore, e.ledger.GetSupply().TotalSupply)
	})
}

func TestTransferAmount_Conservation(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 1000, t0))

	require.NoError(t, e.ledger.TransferAmount(e.alice, e.bob, 400, t0))

	aliceInfo, _ := e.ledger.GetBalance(e.alice, t0)
	bobInfo, _ := e.ledger.GetBalance(e.bob, t0)
	assert.Equal(t, uint64(600), aliceInfo.Available)
	assert.Equal(t, uint64(400), bobInfo.Available)
	// 转移不改变总供应量
	assert.Equal(t, uint64(1000), e.ledger.GetSupply().TotalSupply)
}

func TestTransferAmount_Rejections(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 100, t0))

	assert.ErrorIs(t, e.ledger.TransferAmount(e.alice, e.alice, 10, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.ledger.TransferAmount(e.alice, e.bob, 0, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.ledger.TransferAmount(e.alice, types.ZeroAddress, 10, t0), types.ErrZeroAddress)

	// 余额不足：整体失败，双方余额不动
	err := e.ledger.TransferAmount(e.alice, e.bob, 1000, t0)
	assert.ErrorIs(t, err, types.ErrInsufficientResource)
	aliceInfo, _ := e.ledger.GetBalance(e.alice, t0)
	bobInfo, _ := e.ledger.GetBalance(e.bob, t0)
	assert.Equal(t, uint64(100), aliceInfo.Available)
	assert.Equal(t, uint64(0), bobInfo.Available)
}

func TestMintUnit(t *testing.T) {
	e := newEnv(t, nil, nil)

	id1, err := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, err)
	id2, err := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, err)

	t.Run("单元ID单调递增", func(t *testing.T) {
		assert.Equal(t, types.UnitID(1), id1)
		assert.Equal(t, types.UnitID(2), id2)
	})

	t.Run("初始共鸣来自实时参数集", func(t *testing.T) {
		u, err := e.units.GetUnit(id1)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), u.Resonance)
		assert.Equal(t, uint32(0), u.Stage)
		assert.Equal(t, t0, u.DecayCheckpoint)
	})

	t.Run("持仓列表升序", func(t *testing.T) {
		ids, err := e.ledger.GetOwnedUnits(e.alice)
		require.NoError(t, err)
		assert.Equal(t, []types.UnitID{id1, id2}, ids)
	})

	t.Run("非权限地址铸造失败", func(t *testing.T) {
		_, err := e.ledger.MintUnit(e.alice, e.alice, t0)
		assert.ErrorIs(t, err, types.ErrUnauthorized)
	})
}

func TestTransferUnit(t *testing.T) {
	e := newEnv(t, nil, nil)
	id, err := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, err)

	t.Run("非所有者无权转移", func(t *testing.T) {
		assert.ErrorIs(t, e.ledger.TransferUnit(e.bob, e.alice, id, t0), types.ErrUnauthorized)
	})

	t.Run("所有者转移后所有权变更", func(t *testing.T) {
		require.NoError(t, e.ledger.TransferUnit(e.alice, e.bob, id, t0))
		owner, err := e.ledger.GetUnitOwner(id)
		require.NoError(t, err)
		assert.Equal(t, e.bob, owner)
	})

	t.Run("不存在的单元报错", func(t *testing.T) {
		assert.ErrorIs(t, e.ledger.TransferUnit(e.alice, e.bob, 999, t0), types.ErrNotFound)
	})
}

func TestTransferUnit_RejectsPaired(t *testing.T) {
	e := newEnv(t, nil, nil)
	a, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	b, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	// 配对单元拒绝单独移动
	err := e.ledger.TransferUnit(e.alice, e.bob, a, t0)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	owner, _ := e.ledger.GetUnitOwner(a)
	assert.Equal(t, e.alice, owner)
}

func TestTransferPair(t *testing.T) {
	e := newEnv(t, nil, nil)
	a, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	b, _ := e.ledger.MintUnit(e.mint, e.alice, t0)

	t.Run("未配对的单元不能整对转移", func(t *testing.T) {
		assert.ErrorIs(t, e.ledger.TransferPair(e.alice, e.bob, a, t0), types.ErrInvalidState)
	})

	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	t.Run("整对转移后双方所有权变更且链接保留", func(t *testing.T) {
		require.NoError(t, e.ledger.TransferPair(e.alice, e.bob, a, t0))

		for _, id := range []types.UnitID{a, b} {
			owner, err := e.ledger.GetUnitOwner(id)
			require.NoError(t, err)
			assert.Equal(t, e.bob, owner)
		}
		ua, _ := e.units.GetUnit(a)
		ub, _ := e.units.GetUnit(b)
		assert.Equal(t, b, ua.PartnerID)
		assert.Equal(t, a, ub.PartnerID)
	})
}

func TestBurnUnit(t *testing.T) {
	e := newEnv(t, nil, nil)

	t.Run("所有者可销毁未锁定未质押的单元", func(t *testing.T) {
		id, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
		require.NoError(t, e.ledger.BurnUnit(e.alice, id, t0))
		_, err := e.ledger.GetUnitOwner(id)
		assert.ErrorIs(t, err, types.ErrNotFound)
		assert.Equal(t, uint64(1), e.ledger.GetSupply().BurnedUnits)
	})

	t.Run("非所有者无权销毁", func(t *testing.T) {
		id, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
		assert.ErrorIs(t, e.ledger.BurnUnit(e.bob, id, t0), types.ErrUnauthorized)
	})

	t.Run("时间锁内拒绝销毁", func(t *testing.T) {
		id, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
		require.NoError(t, e.units.Lock(e.alice, id, 3600, t0))
		assert.ErrorIs(t, e.ledger.BurnUnit(e.alice, id, t0), types.ErrInvalidState)
	})

	t.Run("质押中拒绝销毁", func(t *testing.T) {
		id, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
		require.NoError(t, e.units.Stake(e.alice, id, 3600, t0))
		assert.ErrorIs(t, e.ledger.BurnUnit(e.alice, id, t0), types.ErrInvalidState)
	})
}

func TestBurnUnit_PairedAppliesDecoherence(t *testing.T) {
	e := newEnv(t, nil, nil)
	a, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	b, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	// 销毁配对单元：先退相干，惩罚作用于留下的伙伴
	require.NoError(t, e.ledger.BurnUnit(e.alice, a, t0))

	ub, err := e.units.GetUnit(b)
	require.NoError(t, err)
	assert.Equal(t, types.NoUnit, ub.PartnerID)
	// 默认退相干惩罚10%：100 → 90
	assert.Equal(t, uint64(90), ub.Resonance)
}

func TestSupplyInfo_TracksResonance(t *testing.T) {
	e := newEnv(t, nil, nil)
	e.ledger.MintUnit(e.mint, e.alice, t0)
	e.ledger.MintUnit(e.mint, e.bob, t0)

	supply := e.ledger.GetSupply()
	assert.Equal(t, uint64(2), supply.UnitCount)
	assert.Equal(t, uint64(200), supply.TotalResonance)
}

func TestGetBalance_CacheInvalidatedOnStateChange(t *testing.T) {
	mint := types.AddressFromBytes([]byte("authority.mint"))
	admin := types.AddressFromBytes([]byte("authority.admin"))
	alice := types.AddressFromBytes([]byte("account.alice"))

	state := ledger.NewState(mint, admin)
	params := governance.NewParamSet(
		unitconfig.New(nil).GetOptions(),
		governanceconfig.New(nil).GetOptions(),
	)
	recorder := event.NewRecorder(nil, logpkg.GetLogger())
	ledgerOpts := ledgerconfig.New(nil).GetOptions()

	cache, err := memorystore.New(memoryconfig.New().GetOptions(), logpkg.GetLogger())
	require.NoError(t, err)

	lm, err := ledger.NewManager(state, ledgerOpts, params, nil, recorder, cache, logpkg.GetLogger())
	require.NoError(t, err)
	um, err := unit.NewManager(state, params, ledgerOpts, recorder, logpkg.GetLogger())
	require.NoError(t, err)
	lm.SetDisentangler(um)

	id, err := lm.MintUnit(mint, alice, t0)
	require.NoError(t, err)

	// 预热缓存
	info, err := lm.GetBalance(alice, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), info.Resonance)
	assert.Equal(t, uint64(1), info.UnitCount)

	t.Run("衰减结算后共鸣视图即时更新", func(t *testing.T) {
		require.NoError(t, um.ApplyPendingDecay(id, t0+3600))
		info, err := lm.GetBalance(alice, t0+3600)
		require.NoError(t, err)
		assert.Equal(t, uint64(99), info.Resonance)
	})

	t.Run("质押托管后持仓视图即时更新", func(t *testing.T) {
		require.NoError(t, um.Stake(alice, id, 1000, t0+3600))
		info, err := lm.GetBalance(alice, t0+3600)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), info.UnitCount)
		assert.Equal(t, uint64(1), info.StakedUnits)
		assert.Equal(t, uint64(0), info.Resonance)
	})

	t.Run("领取奖励后余额视图即时更新", func(t *testing.T) {
		require.NoError(t, um.Unstake(alice, id, t0+4600))
		reward, err := um.ClaimReward(alice, id, t0+4600)
		require.NoError(t, err)
		// 99 × 1000 × 5 / 10000 = 49
		assert.Equal(t, uint64(49), reward)

		info, err := lm.GetBalance(alice, t0+4600)
		require.NoError(t, err)
		assert.Equal(t, uint64(49), info.Available)
		assert.Equal(t, uint64(1), info.UnitCount)
		assert.Equal(t, uint64(0), info.StakedUnits)
		assert.Equal(t, uint64(99), info.Resonance)
	})
}

func TestGenesisState(t *testing.T) {
	alice := types.AddressFromBytes([]byte("account.alice"))
	mint := types.AddressFromBytes([]byte("authority.mint"))

	cfg := &types.GenesisConfig{
		MintAuthority: mint.String(),
		Accounts: []types.GenesisAccount{
			{Address: alice.String(), Balance: 5000, Units: 2},
		},
	}

	state, err := ledger.BuildGenesisState(cfg, 100, t0)
	require.NoError(t, err)

	state.RLock()
	defer state.RUnlock()
	assert.Equal(t, uint64(5000), state.TotalSupply())
	assert.Equal(t, uint64(5000), state.BalanceOf(alice))
	assert.Len(t, state.OwnedUnits(alice), 2)
	// 管理权限缺省回退到铸造权限
	assert.Equal(t, mint, state.AdminAuthority())
	// 全局权重 = 总供应 + 全局共鸣
	assert.Equal(t, uint64(5200), state.GlobalWeight())
}

func TestGenesisState_Rejections(t *testing.T) {
	_, err := ledger.BuildGenesisState(nil, 100, t0)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	_, err = ledger.BuildGenesisState(&types.GenesisConfig{MintAuthority: types.ZeroAddress.String()}, 100, t0)
	assert.ErrorIs(t, err, types.ErrZeroAddress)
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := newEnv(t, nil, nil)
	require.NoError(t, e.ledger.MintAmount(e.mint, e.alice, 1000, t0))
	a, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	b, _ := e.ledger.MintUnit(e.mint, e.alice, t0)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))
	require.NoError(t, e.ledger.BurnUnit(e.alice, a, t0)) // 留下burnedUnits与退相干痕迹

	store, err := badgerstore.New(&badgerconfig.BadgerOptions{InMemory: true}, logpkg.GetLogger())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, e.state.SaveSnapshot(ctx, store))

	restored, err := ledger.LoadSnapshot(ctx, store)
	require.NoError(t, err)
	require.NotNil(t, restored)

	restored.RLock()
	defer restored.RUnlock()
	assert.Equal(t, uint64(1000), restored.TotalSupply())
	assert.Equal(t, uint64(1000), restored.BalanceOf(e.alice))
	assert.Equal(t, []types.UnitID{b}, restored.OwnedUnits(e.alice))

	// 聚合量由单元重建：留下的伙伴被罚至90
	ub, ok := restored.Unit(b)
	require.True(t, ok)
	assert.Equal(t, uint64(90), ub.Resonance)
	assert.Equal(t, uint64(1090), restored.WeightOf(e.alice))

	// 下一个单元ID延续，不复用已销毁的ID
	next := restored.CreateUnit(e.alice, &types.Unit{Resonance: 1, CreatedAt: t0, DecayCheckpoint: t0}, t0)
	assert.Equal(t, types.UnitID(3), next)
}

func TestLoadSnapshot_Absent(t *testing.T) {
	store, err := badgerstore.New(&badgerconfig.BadgerOptions{InMemory: true}, logpkg.GetLogger())
	require.NoError(t, err)
	defer store.Close()

	state, err := ledger.LoadSnapshot(context.Background(), store)
	require.NoError(t, err)
	assert.Nil(t, state)
}
