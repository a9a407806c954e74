package clock

import (
	"testing"
	"time"
)

func TestDeterministicClock_Monotonic(t *testing.T) {
	base := time.Unix(1_700_000_000, 0).UTC()
	c := NewDeterministicClock(base)

	t1 := c.Now()
	t2 := c.Now()
	if !t2.After(t1) {
		t.Fatalf("时间应单调递增 t1=%v t2=%v", t1, t2)
	}
	if t1.Unix() != base.Unix() {
		t.Fatalf("基准秒不应漂移 got=%d want=%d", t1.Unix(), base.Unix())
	}
}

func TestMockClock_Advance(t *testing.T) {
	base := time.Unix(1_700_000_000, 0).UTC()
	c := NewMockClock(base)

	if c.Unix() != base.Unix() {
		t.Fatalf("初始时间错误 got=%d", c.Unix())
	}
	// 未推进时时间冻结
	if !c.Now().Equal(base) {
		t.Fatal("未推进时时间应冻结")
	}

	c.Advance(90 * time.Second)
	if c.Unix() != base.Unix()+90 {
		t.Fatalf("推进后时间错误 got=%d want=%d", c.Unix(), base.Unix()+90)
	}
	if got := c.Since(base); got != 90*time.Second {
		t.Fatalf("Since错误 got=%v", got)
	}
}
