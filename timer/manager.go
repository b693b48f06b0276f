package timer

import (
	"reflect"
	"sync"

	"github.com/armon/go-radix"
	"github.com/google/uuid"
	"github.com/rs/xid"

	"github.com/balyuf/timekit/clock"
	"github.com/balyuf/timekit/errs"
	"github.com/balyuf/timekit/mlog"
)

// Manager 进程内软件定时器管理器
// 队列、id绑定、关闭标记共用一把锁，所有公开操作整段持锁
// 回调在锁内同步执行，回调里不要再调本管理器的接口
type Manager struct {
	mu        sync.Mutex
	slots     *slotList
	callbacks *radix.Tree // id -> procPtr
	clk       clock.Clock
	nextCheck int64 // CheckTimers下次允许执行的时间 ms
	closed    bool
	inst      string // 实例标识，日志用
}

// NewManager c为nil时使用系统时钟
// 多个Manager实例互不干扰，各自持有自己的id绑定表
func NewManager(c clock.Clock) *Manager {
	if c == nil {
		c = clock.System()
	}
	return &Manager{
		slots:     newSlotList(),
		callbacks: radix.New(),
		clk:       c,
		inst:      xid.New().String(),
	}
}

// procIdent 取函数代码指针作为回调标识
// 同一字面量生成的多个闭包共享标识，会被当作同一个回调
func procIdent(p Proc) uintptr {
	return reflect.ValueOf(p).Pointer()
}

// Install 注册周期回调
// intervalUs 微秒周期必须为正；id为空时自动生成
// 同一回调全局只能注册一次，同一id不能绑定不同回调
func (m *Manager) Install(proc Proc, intervalUs int64, refCon any, id string) error {
	if proc == nil {
		return errs.InvalidCallback
	}
	if intervalUs <= 0 {
		return errs.InvalidInterval.Printf("interval %dus", intervalUs)
	}
	if id == "" {
		id = uuid.NewString()
	}
	ptr := procIdent(proc)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errs.ManagerClosed
	}
	if v, ok := m.callbacks.Get(id); ok && v.(uintptr) != ptr {
		return errs.ConflictingId.Printf("id %s", id)
	}
	oldId, dup := "", false
	m.callbacks.Walk(func(k string, v any) bool {
		if v.(uintptr) == ptr {
			oldId, dup = k, true
			return true
		}
		return false
	})
	if dup {
		return errs.DuplicateCallback.Printf("old id %s, new id %s", oldId, id)
	}
	m.callbacks.Insert(id, ptr)

	now := m.clk.Millis()
	s := &timerSlot{
		proc:          proc,
		procPtr:       ptr,
		refCon:        refCon,
		id:            id,
		interval:      intervalUs,
		nextFireMs:    now + intervalUs/1000,
		nextFireMicro: intervalUs % 1000,
	}
	m.slots.insertSorted(s)
	mlog.Debugf("timer[%s] install id=%s interval=%dus next=%dms", m.inst, id, intervalUs, s.nextFireMs)
	return nil
}

// Remove 注销回调的全部注册，未注册时为空操作
// id绑定也一并清掉，否则同名重装会误报冲突
func (m *Manager) Remove(proc Proc) {
	if proc == nil {
		return
	}
	ptr := procIdent(proc)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	n := m.slots.removeByProc(ptr)
	var ids []string
	m.callbacks.Walk(func(k string, v any) bool {
		if v.(uintptr) == ptr {
			ids = append(ids, k)
		}
		return false
	})
	for _, id := range ids {
		m.callbacks.Delete(id)
	}
	if n > 0 {
		mlog.Debugf("timer[%s] remove %d slot(s) ids=%v", m.inst, n, ids)
	}
}

// Handler 触发并重排所有到期定时器
func (m *Manager) Handler() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runLocked(m.clk.Millis())
}

func (m *Manager) runLocked(nowMs int64) {
	// 慢速宿主销毁之后可能还会进来一次tick
	if m.closed {
		return
	}
	m.slots.popDue(nowMs, func(s *timerSlot) bool {
		// 先重排再触发，回调看到的是下一次的排期
		s.reschedule()
		m.slots.insertSorted(s)
		s.proc(s.refCon)
		return true
	})
}

// CheckTimers 节流的驱动入口
// 距上次执行不足pollIntervalMs毫秒时直接返回
func (m *Manager) CheckTimers(pollIntervalMs int64) {
	now := m.clk.Millis()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || now < m.nextCheck {
		return
	}
	m.nextCheck = now + pollIntervalMs
	m.runLocked(now)
}

// Close 销毁全部定时器，之后Handler和CheckTimers直接返回
// 可重复调用
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	n := m.slots.len()
	m.slots.clear()
	m.callbacks = radix.New()
	mlog.Infof("timer[%s] closed, dropped %d slot(s)", m.inst, n)
}

// Len 当前存活的定时器数量
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slots.len()
}
