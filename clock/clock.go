package clock

import (
	"time"

	"github.com/balyuf/timekit/lock"
)

// Clock 毫秒时钟源
// Millis 返回自进程内固定起点以来的毫秒数，单调不回退
type Clock interface {
	Millis() int64
}

var (
	epoch  = time.Now()
	offMu  = lock.NewSpinLock()
	offset int64 // ms 调试用偏移
)

type systemClock struct{}

// System 系统时钟，基于单调时钟计算，不受墙上时间跳变影响
func System() Clock {
	return systemClock{}
}

func (systemClock) Millis() int64 {
	offMu.Lock()
	off := offset
	offMu.Unlock()
	return int64(time.Since(epoch)/time.Millisecond) + off
}

// SetOffset 设置毫秒偏移，只用于测试和调试
// 减小偏移会破坏单调性，由调用方保证只增不减
func SetOffset(ms int64) {
	offMu.Lock()
	offset = ms
	offMu.Unlock()
}

func Offset() int64 {
	offMu.Lock()
	defer offMu.Unlock()
	return offset
}
