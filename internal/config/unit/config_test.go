package unit

import (
	"testing"

	"github.com/weisyn/unitledger/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	opts := New(nil).GetOptions()
	if opts.MaxResonance != 10000 {
		t.Fatalf("MaxResonance got=%d want=10000", opts.MaxResonance)
	}
	if opts.InitialResonance != 100 {
		t.Fatalf("InitialResonance got=%d want=100", opts.InitialResonance)
	}
	if opts.DecayRatePerDay != 24 {
		t.Fatalf("DecayRatePerDay got=%d want=24", opts.DecayRatePerDay)
	}
	if opts.UnlinkPenaltyBps != 1000 {
		t.Fatalf("UnlinkPenaltyBps got=%d want=1000", opts.UnlinkPenaltyBps)
	}
}

func TestNew_UserOverrides(t *testing.T) {
	initial := uint64(0) // 显式设置为零值也应被采用
	rate := uint64(48)
	opts := New(&types.UserUnitConfig{
		InitialResonance: &initial,
		DecayRatePerDay:  &rate,
	}).GetOptions()

	if opts.InitialResonance != 0 {
		t.Fatalf("显式零值未被采用 got=%d", opts.InitialResonance)
	}
	if opts.DecayRatePerDay != 48 {
		t.Fatalf("DecayRatePerDay got=%d want=48", opts.DecayRatePerDay)
	}
	if opts.MaxResonance != 10000 {
		t.Fatalf("未设置字段应保持默认 got=%d", opts.MaxResonance)
	}
}

func TestLookupTrigger(t *testing.T) {
	delta, ok := LookupTrigger(types.TriggerIgnition)
	if !ok {
		t.Fatal("ignition触发器应存在")
	}
	if delta.Traits[types.TraitVigor] != 10 {
		t.Fatalf("ignition应偏向活力 got=%d", delta.Traits[types.TraitVigor])
	}

	if _, ok := LookupTrigger("unknown"); ok {
		t.Fatal("未知触发器应返回false")
	}
}

func TestStageThreshold(t *testing.T) {
	// 阈值随阶段线性上升
	if got := StageThreshold(500, 0); got != 500 {
		t.Fatalf("阶段0阈值 got=%d want=500", got)
	}
	if got := StageThreshold(500, 1); got != 1000 {
		t.Fatalf("阶段1阈值 got=%d want=1000", got)
	}
	if got := StageThreshold(500, 4); got != 2500 {
		t.Fatalf("阶段4阈值 got=%d want=2500", got)
	}
}
