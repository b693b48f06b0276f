package driver

import (
	"runtime/debug"
	"sync"
	"time"

	"github.com/balyuf/timekit/mlog"
	"github.com/balyuf/timekit/timer"
)

const (
	DefaultSpanMs = 10 // tick间隔
	DefaultPollMs = 10 // CheckTimers节流间隔
)

// Ticker 周期驱动Manager.CheckTimers的tick循环
// tick多快与单个定时器的周期无关，节流由管理器负责
type Ticker struct {
	mgr    *timer.Manager
	spanMs int64
	pollMs int64
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewTicker(mgr *timer.Manager, spanMs, pollMs int64) *Ticker {
	if spanMs <= 0 {
		spanMs = DefaultSpanMs
	}
	if pollMs < 0 {
		pollMs = DefaultPollMs
	}
	return &Ticker{
		mgr:    mgr,
		spanMs: spanMs,
		pollMs: pollMs,
		quit:   make(chan struct{}),
	}
}

// Run 阻塞运行直到Stop
func (d *Ticker) Run() {
	span := time.Duration(d.spanMs) * time.Millisecond
	tk := time.NewTimer(span)
	defer tk.Stop()
	for {
		select {
		case <-d.quit:
			return
		case <-tk.C:
			d.tick()
			tk.Reset(span)
		}
	}
}

// Start 在新goroutine里运行
func (d *Ticker) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.Run()
	}()
}

// Stop 停止循环并等待退出，可重复调用
func (d *Ticker) Stop() {
	d.once.Do(func() {
		close(d.quit)
	})
	d.wg.Wait()
}

// tick 回调panic不能拖垮驱动循环
func (d *Ticker) tick() {
	defer func() {
		if r := recover(); r != nil {
			mlog.Errorf("ticker tick panic: %v\n%s", r, debug.Stack())
		}
	}()
	d.mgr.CheckTimers(d.pollMs)
}
