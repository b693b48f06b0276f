package clock

import "sync/atomic"

// Manual 手动推进的时钟，测试和模拟用
type Manual struct {
	ms atomic.Int64
}

func NewManual(startMs int64) *Manual {
	c := &Manual{}
	c.ms.Store(startMs)
	return c
}

func (c *Manual) Millis() int64 {
	return c.ms.Load()
}

// Advance 前进deltaMs毫秒
func (c *Manual) Advance(deltaMs int64) {
	c.ms.Add(deltaMs)
}

// Set 直接设置当前毫秒数，不做回退检查
func (c *Manual) Set(ms int64) {
	c.ms.Store(ms)
}
