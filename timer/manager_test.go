package timer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/balyuf/timekit/clock"
	"github.com/balyuf/timekit/errs"
)

func bump(rc any) {
	*(rc.(*int))++
}

func TestInstallInvalidInterval(t *testing.T) {
	m := NewManager(clock.NewManual(1000))
	proc := func(any) {}

	require.ErrorIs(t, m.Install(proc, 0, nil, "a"), errs.InvalidInterval)
	require.ErrorIs(t, m.Install(proc, -100, nil, "a"), errs.InvalidInterval)
	require.Zero(t, m.Len())
}

func TestInstallNilProc(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	require.ErrorIs(t, m.Install(nil, 1000, nil, "a"), errs.InvalidCallback)
	require.Zero(t, m.Len())
}

func TestInstallDuplicateCallback(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	proc := func(any) {}

	require.NoError(t, m.Install(proc, 1000, nil, "a"))
	// 换个id也不行
	require.ErrorIs(t, m.Install(proc, 1000, nil, "b"), errs.DuplicateCallback)
	// 同id同回调同样是重复注册
	require.ErrorIs(t, m.Install(proc, 1000, nil, "a"), errs.DuplicateCallback)
	// 失败的注册不能留下痕迹
	require.Equal(t, 1, m.Len())
	requireSorted(t, m.slots)
}

func TestInstallConflictingId(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	p1 := func(any) {}
	p2 := func(rc any) { _ = rc }

	require.NoError(t, m.Install(p1, 1000, nil, "shared"))
	require.ErrorIs(t, m.Install(p2, 1000, nil, "shared"), errs.ConflictingId)
	require.Equal(t, 1, m.Len())
}

func TestInstallGeneratedId(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	proc := func(any) {}

	require.NoError(t, m.Install(proc, 1000, nil, ""))
	require.Equal(t, 1, m.Len())
	// 自动生成id不会绕开回调去重
	require.ErrorIs(t, m.Install(proc, 1000, nil, ""), errs.DuplicateCallback)
}

func TestCatchUpFiring(t *testing.T) {
	c := clock.NewManual(1000)
	m := NewManager(c)
	count := 0
	require.NoError(t, m.Install(bump, 10_000, &count, "tick10ms"))

	// 10ms周期，停顿35ms后连续补触发3次，不丢周期
	c.Advance(35)
	m.Handler()
	require.Equal(t, 3, count)

	s := m.slots.first()
	require.Equal(t, int64(1040), s.nextFireMs)
	require.Zero(t, s.nextFireMicro)
	requireSorted(t, m.slots)
}

func TestMicroRemainderAccumulation(t *testing.T) {
	c := clock.NewManual(1000)
	m := NewManager(c)
	count := 0
	require.NoError(t, m.Install(bump, 1500, &count, "tick1.5ms"))

	s := m.slots.first()
	require.Equal(t, int64(1001), s.nextFireMs)
	require.Equal(t, int64(500), s.nextFireMicro)

	// 100ms里1.5ms的周期平均不漂移：66次触发，余数保持在[0,1000)
	c.Set(1100)
	m.Handler()
	require.Equal(t, 66, count)
	require.Equal(t, int64(1100), s.nextFireMs)
	require.Equal(t, int64(500), s.nextFireMicro)
}

func TestRemoveIdempotent(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	// 未注册直接Remove是空操作
	m.Remove(func(any) {})

	proc := func(any) {}
	require.NoError(t, m.Install(proc, 1000, nil, "a"))
	m.Remove(proc)
	require.Zero(t, m.Len())
	m.Remove(proc)
	require.Zero(t, m.Len())
}

func TestRemoveStopsFiring(t *testing.T) {
	c := clock.NewManual(0)
	m := NewManager(c)
	count := 0
	require.NoError(t, m.Install(bump, 5_000, &count, "x"))

	m.Remove(bump)
	c.Advance(100)
	m.Handler()
	require.Zero(t, count)
}

func TestRemoveAllowsReinstallUnderSameId(t *testing.T) {
	m := NewManager(clock.NewManual(0))
	p1 := func(any) {}
	p2 := func(rc any) { _ = rc }

	require.NoError(t, m.Install(p1, 1000, nil, "music"))
	m.Remove(p1)
	// id绑定随Remove清除，同名换回调可以重装
	require.NoError(t, m.Install(p2, 1000, nil, "music"))
	require.Equal(t, 1, m.Len())
}

func TestCheckTimersThrottle(t *testing.T) {
	c := clock.NewManual(1000)
	m := NewManager(c)
	count := 0
	require.NoError(t, m.Install(bump, 10_000, &count, "a"))

	c.Advance(20) // 1020
	m.CheckTimers(100)
	require.Equal(t, 1, count)

	// 轮询间隔内再叫不干活，哪怕有到期的
	c.Advance(50) // 1070
	m.CheckTimers(100)
	require.Equal(t, 1, count)

	// 间隔过了，补触发追上来：1020..1110共10次
	c.Advance(50) // 1120
	m.CheckTimers(100)
	require.Equal(t, 1+10, count)
}

func TestCloseDropsEverything(t *testing.T) {
	c := clock.NewManual(0)
	m := NewManager(c)
	count := 0
	require.NoError(t, m.Install(bump, 1000, &count, "a"))

	m.Close()
	require.Zero(t, m.Len())

	// 销毁后的tick直接返回，不触发也不崩
	c.Advance(1000)
	m.Handler()
	m.CheckTimers(0)
	require.Zero(t, count)

	require.ErrorIs(t, m.Install(func(any) {}, 1000, nil, "b"), errs.ManagerClosed)
	m.Remove(bump)
	m.Close() // 重复Close无害
}

func TestManagersAreIndependent(t *testing.T) {
	proc := func(any) {}
	m1 := NewManager(clock.NewManual(0))
	m2 := NewManager(clock.NewManual(0))

	// 去重表是实例级的，两个管理器可以注册同一个回调
	require.NoError(t, m1.Install(proc, 1000, nil, "a"))
	require.NoError(t, m2.Install(proc, 1000, nil, "a"))
}

func TestConcurrentInstallRemove(t *testing.T) {
	c := clock.NewManual(0)
	m := NewManager(c)
	procs := []Proc{
		func(any) {},
		func(rc any) { _ = rc },
		func(rc any) { _, _ = rc, rc },
	}

	var wg sync.WaitGroup
	for _, p := range procs {
		wg.Add(1)
		go func(p Proc) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_ = m.Install(p, 1000, nil, "")
				m.Remove(p)
			}
		}(p)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			c.Advance(5)
			m.CheckTimers(1)
		}
	}()
	wg.Wait()

	for _, p := range procs {
		m.Remove(p)
	}
	require.Zero(t, m.Len())
	requireSorted(t, m.slots)
}

func TestBuiltinManager(t *testing.T) {
	c := clock.NewManual(0)
	Start(c)
	Start(nil) // 重复Start无效果
	require.NotNil(t, Default())

	count := 0
	require.NoError(t, Install(bump, 2_000, &count, "builtin"))
	c.Advance(10)
	CheckTimers(0)
	require.Equal(t, 4, count)
	Remove(bump)
	require.Zero(t, Default().Len())
}
