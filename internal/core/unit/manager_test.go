package unit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	governanceconfig "github.com/weisyn/unitledger/internal/config/governance"
	ledgerconfig "github.com/weisyn/unitledger/internal/config/ledger"
	unitconfig "github.com/weisyn/unitledger/internal/config/unit"
	"github.com/weisyn/unitledger/internal/core/governance"
	"github.com/weisyn/unitledger/internal/core/infrastructure/event"
	logpkg "github.com/weisyn/unitledger/internal/core/infrastructure/log"
	"github.com/weisyn/unitledger/internal/core/ledger"
	"github.com/weisyn/unitledger/pkg/types"
)

const t0 = int64(1_700_000_000)

type env struct {
	state  *ledger.State
	ledger *ledger.Manager
	units  *Manager

	mint  types.Address
	alice types.Address
	bob   types.Address
}

func newEnv(t *testing.T, userUnit *types.UserUnitConfig) *env {
	t.Helper()

	mint := types.AddressFromBytes([]byte("authority.mint"))
	admin := types.AddressFromBytes([]byte("authority.admin"))

	state := ledger.NewState(mint, admin)
	params := governance.NewParamSet(
		unitconfig.New(userUnit).GetOptions(),
		governanceconfig.New(nil).GetOptions(),
	)
	recorder := event.NewRecorder(nil, logpkg.GetLogger())
	ledgerOpts := ledgerconfig.New(nil).GetOptions()

	lm, err := ledger.NewManager(state, ledgerOpts, params, nil, recorder, nil, logpkg.GetLogger())
	require.NoError(t, err)

	um, err := NewManager(state, params, ledgerOpts, recorder, logpkg.GetLogger())
	require.NoError(t, err)
	lm.SetDisentangler(um)

	return &env{
		state:  state,
		ledger: lm,
		units:  um,
		mint:   mint,
		alice:  types.AddressFromBytes([]byte("account.alice")),
		bob:    types.AddressFromBytes([]byte("account.bob")),
	}
}

func (e *env) mintUnit(t *testing.T, owner types.Address) types.UnitID {
	t.Helper()
	id, err := e.ledger.MintUnit(e.mint, owner, t0)
	require.NoError(t, err)
	return id
}

// ================================================================================================
// 衰减
// ================================================================================================

func TestDecay_LinearPerSecond(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	// 默认速率24/天 = 1/小时
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+3600))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(99), u.Resonance)
	assert.Equal(t, t0+3600, u.DecayCheckpoint)
}

func TestDecay_Idempotent(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.ApplyPendingDecay(id, t0+7200))
	u1, _ := e.units.GetUnit(id)
	// 同一now重复结算为无操作
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+7200))
	u2, _ := e.units.GetUnit(id)
	assert.Equal(t, u1.Resonance, u2.Resonance)

	// 时间回拨也不产生负衰减
	require.NoError(t, e.units.ApplyPendingDecay(id, t0))
	u3, _ := e.units.GetUnit(id)
	assert.Equal(t, u1.Resonance, u3.Resonance)
}

func TestDecay_HalvedWhenPaired(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	// 2小时 → 单身衰减2，配对减半为1
	require.NoError(t, e.units.ApplyPendingDecay(a, t0+7200))
	u, _ := e.units.GetUnit(a)
	assert.Equal(t, uint64(99), u.Resonance)
}

func TestDecay_SuspendedWhileStaked(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Stake(e.alice, id, 86400, t0))

	// 质押期间共鸣不衰减，检查点仍推进
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+43200))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(100), u.Resonance)
	assert.Equal(t, t0+43200, u.DecayCheckpoint)
}

func TestDecay_SuspendedWhileLocked(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Lock(e.alice, id, 10*3600, t0))

	// 时间锁内共鸣不衰减，检查点仍推进
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+2*3600))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(100), u.Resonance)
	assert.Equal(t, t0+2*3600, u.DecayCheckpoint)
}

func TestDecay_ResumesAfterLockExpiry(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Lock(e.alice, id, 3600, t0))

	// 锁1小时，3小时后结算：只有到期后的2小时计入衰减
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+3*3600))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(98), u.Resonance)
}

func TestDecay_LockSettlesPriorElapsed(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	// 加锁时先结清锁前流逝的1小时
	require.NoError(t, e.units.Lock(e.alice, id, 3600, t0+3600))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(99), u.Resonance)

	// 此后锁内不再衰减
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+2*3600))
	u, _ = e.units.GetUnit(id)
	assert.Equal(t, uint64(99), u.Resonance)
}

func TestDecay_SaturatesAtZero(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	// 100点按24/天约100小时耗尽；远超之后钳制为0
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+365*86400))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(0), u.Resonance)
}

// ================================================================================================
// 进化
// ================================================================================================

func TestEvolve(t *testing.T) {
	initial := uint64(600)
	e := newEnv(t, &types.UserUnitConfig{InitialResonance: &initial})
	id := e.mintUnit(t, e.alice)

	t.Run("达到阈值时进化成功", func(t *testing.T) {
		// 阶段0阈值500：600 ≥ 500；扣除后100，ignition强度1加成20
		require.NoError(t, e.units.Evolve(e.alice, id, types.TriggerIgnition, 1, t0))
		u, _ := e.units.GetUnit(id)
		assert.Equal(t, uint32(1), u.Stage)
		assert.Equal(t, uint64(120), u.Resonance)
		assert.Equal(t, uint64(10), u.Traits[types.TraitVigor])
		assert.Equal(t, uint64(2), u.Traits[types.TraitFlux])
	})

	t.Run("共鸣不足时失败且无副作用", func(t *testing.T) {
		// 阶段1阈值1000 > 120
		err := e.units.Evolve(e.alice, id, types.TriggerIgnition, 1, t0)
		assert.ErrorIs(t, err, types.ErrInsufficientResource)
		u, _ := e.units.GetUnit(id)
		assert.Equal(t, uint32(1), u.Stage)
		assert.Equal(t, uint64(120), u.Resonance)
	})
}

func TestEvolve_Rejections(t *testing.T) {
	initial := uint64(600)
	e := newEnv(t, &types.UserUnitConfig{InitialResonance: &initial})
	id := e.mintUnit(t, e.alice)

	assert.ErrorIs(t, e.units.Evolve(e.alice, id, types.TriggerIgnition, 0, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.units.Evolve(e.alice, id, "unknown", 1, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.units.Evolve(e.bob, id, types.TriggerIgnition, 1, t0), types.ErrUnauthorized)

	require.NoError(t, e.units.Lock(e.alice, id, 3600, t0))
	assert.ErrorIs(t, e.units.Evolve(e.alice, id, types.TriggerIgnition, 1, t0), types.ErrInvalidState)
}

func TestEvolve_ResonanceClampedToMax(t *testing.T) {
	initial := uint64(600)
	maxRes := uint64(650)
	e := newEnv(t, &types.UserUnitConfig{InitialResonance: &initial, MaxResonance: &maxRes})
	id := e.mintUnit(t, e.alice)

	// 扣除500剩100，cascade强度100加成2500 → 钳制到650
	require.NoError(t, e.units.Evolve(e.alice, id, types.TriggerCascade, 100, t0))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(650), u.Resonance)
}

// ================================================================================================
// 纠缠
// ================================================================================================

func TestLink(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	ua, _ := e.units.GetUnit(a)
	ub, _ := e.units.GetUnit(b)
	assert.Equal(t, b, ua.PartnerID)
	assert.Equal(t, a, ub.PartnerID)
}

func TestLink_Rejections(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	c := e.mintUnit(t, e.alice)
	other := e.mintUnit(t, e.bob)

	assert.ErrorIs(t, e.units.Link(e.alice, a, a, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.units.Link(e.alice, a, other, t0), types.ErrUnauthorized)

	require.NoError(t, e.units.Link(e.alice, a, b, t0))
	// 已配对的单元不能再链接
	assert.ErrorIs(t, e.units.Link(e.alice, a, c, t0), types.ErrInvalidState)

	require.NoError(t, e.units.Lock(e.alice, c, 3600, t0))
	d := e.mintUnit(t, e.alice)
	assert.ErrorIs(t, e.units.Link(e.alice, c, d, t0), types.ErrInvalidState)
}

func TestUnlink_PenalizesFormerPartner(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	// 以a为发起方解除：惩罚作用于前伙伴b（默认10%）
	require.NoError(t, e.units.Unlink(e.alice, a, t0))

	ua, _ := e.units.GetUnit(a)
	ub, _ := e.units.GetUnit(b)
	assert.Equal(t, types.NoUnit, ua.PartnerID)
	assert.Equal(t, types.NoUnit, ub.PartnerID)
	assert.Equal(t, uint64(100), ua.Resonance)
	assert.Equal(t, uint64(90), ub.Resonance)

	// 解除后再解除失败
	assert.ErrorIs(t, e.units.Unlink(e.alice, a, t0), types.ErrInvalidState)
}

func TestUnlink_SettlesPairedDecayBeforePenalty(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	// 配对2小时后解除：双方先按减半速率各衰减1
	require.NoError(t, e.units.Unlink(e.alice, a, t0+7200))

	ua, _ := e.units.GetUnit(a)
	ub, _ := e.units.GetUnit(b)
	// 发起方不受惩罚：100 - 1
	assert.Equal(t, uint64(99), ua.Resonance)
	// 前伙伴：100 - 1 = 99，再罚10% → 90
	assert.Equal(t, uint64(90), ub.Resonance)
}

// ================================================================================================
// 时间锁
// ================================================================================================

func TestLock_TimeGate(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Lock(e.alice, id, 100, t0))

	t.Run("到期前一秒解锁失败", func(t *testing.T) {
		assert.ErrorIs(t, e.units.Unlock(e.alice, id, t0+99), types.ErrInvalidState)
	})

	t.Run("恰在到期时刻解锁成功", func(t *testing.T) {
		require.NoError(t, e.units.Unlock(e.alice, id, t0+100))
		u, _ := e.units.GetUnit(id)
		assert.Equal(t, int64(0), u.LockExpiry)
	})

	t.Run("未锁定时解锁失败", func(t *testing.T) {
		assert.ErrorIs(t, e.units.Unlock(e.alice, id, t0+200), types.ErrInvalidState)
	})
}

func TestLock_ExtendOnly(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Lock(e.alice, id, 1000, t0))
	// 缩短被拒绝
	assert.ErrorIs(t, e.units.Lock(e.alice, id, 500, t0), types.ErrInvalidState)
	// 延长放行
	require.NoError(t, e.units.Lock(e.alice, id, 2000, t0))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, t0+2000, u.LockExpiry)
}

func TestUnlock_SettlesPostExpiryDecay(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Lock(e.alice, id, 3600, t0))

	// 锁1小时，2小时后解锁：只有到期后的1小时计入衰减
	require.NoError(t, e.units.Unlock(e.alice, id, t0+2*3600))
	u, _ := e.units.GetUnit(id)
	assert.Equal(t, uint64(99), u.Resonance)
	assert.Equal(t, t0+2*3600, u.DecayCheckpoint)

	// 清锁后不会把锁窗内的流逝补算回来
	require.NoError(t, e.units.ApplyPendingDecay(id, t0+2*3600))
	u, _ = e.units.GetUnit(id)
	assert.Equal(t, uint64(99), u.Resonance)
}

// ================================================================================================
// 质押
// ================================================================================================

func TestStake_TimeGate(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Stake(e.alice, id, 1000, t0))

	t.Run("质押后所有权托管", func(t *testing.T) {
		owner, err := e.ledger.GetUnitOwner(id)
		require.NoError(t, err)
		assert.Equal(t, types.StakingEscrowAddress, owner)
	})

	t.Run("期限未满解押失败", func(t *testing.T) {
		assert.ErrorIs(t, e.units.Unstake(e.alice, id, t0+999), types.ErrInvalidState)
	})

	t.Run("恰在到期时刻解押成功并归还所有权", func(t *testing.T) {
		require.NoError(t, e.units.Unstake(e.alice, id, t0+1000))
		owner, err := e.ledger.GetUnitOwner(id)
		require.NoError(t, err)
		assert.Equal(t, e.alice, owner)

		u, _ := e.units.GetUnit(id)
		assert.False(t, u.IsStaked())
		// 解押后衰减从当前时刻重新计时
		assert.Equal(t, t0+1000, u.DecayCheckpoint)
	})
}

func TestStake_Rejections(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	assert.ErrorIs(t, e.units.Stake(e.alice, id, 0, t0), types.ErrInvalidState)
	assert.ErrorIs(t, e.units.Stake(e.bob, id, 1000, t0), types.ErrUnauthorized)

	locked := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Lock(e.alice, locked, 3600, t0))
	assert.ErrorIs(t, e.units.Stake(e.alice, locked, 1000, t0), types.ErrInvalidState)

	require.NoError(t, e.units.Stake(e.alice, id, 1000, t0))
	assert.ErrorIs(t, e.units.Stake(e.alice, id, 1000, t0), types.ErrInvalidState)
}

func TestStake_PairedStakesJointly(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	require.NoError(t, e.units.Link(e.alice, a, b, t0))

	require.NoError(t, e.units.Stake(e.alice, a, 1000, t0))

	// 整对进入质押
	for _, id := range []types.UnitID{a, b} {
		u, _ := e.units.GetUnit(id)
		assert.True(t, u.IsStaked())
	}

	// 整对解押
	require.NoError(t, e.units.Unstake(e.alice, a, t0+1000))
	for _, id := range []types.UnitID{a, b} {
		u, _ := e.units.GetUnit(id)
		assert.False(t, u.IsStaked())
		owner, _ := e.ledger.GetUnitOwner(id)
		assert.Equal(t, e.alice, owner)
	}
}

func TestClaimReward(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Stake(e.alice, id, 1000, t0))

	t.Run("质押中不能领取", func(t *testing.T) {
		_, err := e.units.ClaimReward(e.alice, id, t0+500)
		assert.ErrorIs(t, err, types.ErrInvalidState)
	})

	require.NoError(t, e.units.Unstake(e.alice, id, t0+1000))

	t.Run("奖励按捕获共鸣×时长×比例计算并铸入余额", func(t *testing.T) {
		supplyBefore := e.ledger.GetSupply().TotalSupply

		reward, err := e.units.ClaimReward(e.alice, id, t0+1000)
		require.NoError(t, err)
		// 100 × 1000 × 5 / 10000 = 50
		assert.Equal(t, uint64(50), reward)

		info, err := e.ledger.GetBalance(e.alice, t0+1000)
		require.NoError(t, err)
		assert.Equal(t, uint64(50), info.Available)
		assert.Equal(t, supplyBefore+50, e.ledger.GetSupply().TotalSupply)
	})

	t.Run("重复领取被拒绝", func(t *testing.T) {
		_, err := e.units.ClaimReward(e.alice, id, t0+2000)
		assert.ErrorIs(t, err, types.ErrAlreadyProcessed)
	})

	t.Run("从未质押的单元不能领取", func(t *testing.T) {
		fresh := e.mintUnit(t, e.alice)
		_, err := e.units.ClaimReward(e.alice, fresh, t0+2000)
		assert.ErrorIs(t, err, types.ErrInvalidState)
	})
}

func TestClaimReward_NewRoundResetsFlag(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	require.NoError(t, e.units.Stake(e.alice, id, 1000, t0))
	require.NoError(t, e.units.Unstake(e.alice, id, t0+1000))
	_, err := e.units.ClaimReward(e.alice, id, t0+1000)
	require.NoError(t, err)

	// 新一轮质押复位一次性标志
	require.NoError(t, e.units.Stake(e.alice, id, 1000, t0+1000))
	require.NoError(t, e.units.Unstake(e.alice, id, t0+2000))
	reward, err := e.units.ClaimReward(e.alice, id, t0+2000)
	require.NoError(t, err)
	assert.NotZero(t, reward)
}

// ================================================================================================
// 融合
// ================================================================================================

func TestFuse(t *testing.T) {
	initial := uint64(600)
	e := newEnv(t, &types.UserUnitConfig{InitialResonance: &initial})
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)

	// 先把a推到阶段1，验证 stage = min + 1
	require.NoError(t, e.units.Evolve(e.alice, a, types.TriggerIgnition, 1, t0))

	supplyBefore := e.ledger.GetSupply()
	fused, err := e.units.Fuse(e.alice, a, b, t0)
	require.NoError(t, err)

	t.Run("派生单元属性", func(t *testing.T) {
		u, err := e.units.GetUnit(fused)
		require.NoError(t, err)
		// min(1, 0) + 1 = 1
		assert.Equal(t, uint32(1), u.Stage)
		// (120 + 600) / 2 = 360
		assert.Equal(t, uint64(360), u.Resonance)
		// 特征逐元素取平均：a活力10，b活力0 → 5
		assert.Equal(t, uint64(5), u.Traits[types.TraitVigor])
		assert.Equal(t, uint64(1), u.Traits[types.TraitFlux])
	})

	t.Run("输入单元销毁且净数量减一", func(t *testing.T) {
		_, err := e.units.GetUnit(a)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = e.units.GetUnit(b)
		assert.ErrorIs(t, err, types.ErrNotFound)

		supply := e.ledger.GetSupply()
		assert.Equal(t, supplyBefore.UnitCount-1, supply.UnitCount)
		assert.Equal(t, supplyBefore.BurnedUnits+2, supply.BurnedUnits)
	})

	t.Run("派生单元ID延续递增", func(t *testing.T) {
		assert.Equal(t, types.UnitID(3), fused)
	})
}

func TestFuse_Rejections(t *testing.T) {
	e := newEnv(t, nil)
	a := e.mintUnit(t, e.alice)
	b := e.mintUnit(t, e.alice)
	c := e.mintUnit(t, e.alice)

	_, err := e.units.Fuse(e.alice, a, a, t0)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	other := e.mintUnit(t, e.bob)
	_, err = e.units.Fuse(e.alice, a, other, t0)
	assert.ErrorIs(t, err, types.ErrUnauthorized)

	require.NoError(t, e.units.Link(e.alice, a, b, t0))
	_, err = e.units.Fuse(e.alice, a, c, t0)
	assert.ErrorIs(t, err, types.ErrInvalidState)

	require.NoError(t, e.units.Lock(e.alice, c, 3600, t0))
	d := e.mintUnit(t, e.alice)
	_, err = e.units.Fuse(e.alice, c, d, t0)
	assert.ErrorIs(t, err, types.ErrInvalidState)
}

func TestGetUnit_ReturnsCopy(t *testing.T) {
	e := newEnv(t, nil)
	id := e.mintUnit(t, e.alice)

	u, err := e.units.GetUnit(id)
	require.NoError(t, err)
	u.Resonance = 0
	u.Stage = 99

	fresh, err := e.units.GetUnit(id)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), fresh.Resonance)
	assert.Equal(t, uint32(0), fresh.Stage)
}
