package driver

import (
	"github.com/balyuf/timekit/clock"
	"github.com/balyuf/timekit/timer"
)

// Module 把默认定时器管理器和tick循环挂到app生命周期上
type Module struct {
	SpanMs int64
	PollMs int64
	Clk    clock.Clock // nil时使用系统时钟

	tk *Ticker
}

func (m *Module) Name() string {
	return "timer-driver"
}

func (m *Module) OnInit() error {
	timer.Start(m.Clk)
	m.tk = NewTicker(timer.Default(), m.SpanMs, m.PollMs)
	return nil
}

func (m *Module) Run() {
	m.tk.Run()
}

func (m *Module) Destroy() {
	m.tk.Stop()
	timer.Close()
}
