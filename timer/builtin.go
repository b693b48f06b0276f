package timer

import (
	"sync"

	"github.com/balyuf/timekit/clock"
)

var (
	builtinMgr *Manager
	once       sync.Once

	Install     func(proc Proc, intervalUs int64, refCon any, id string) error
	Remove      func(proc Proc)
	Handler     func()
	CheckTimers func(pollIntervalMs int64)
	Close       func()
)

// Start 初始化进程默认管理器，只生效一次
// c为nil时使用系统时钟
func Start(c clock.Clock) {
	once.Do(func() {
		builtinMgr = NewManager(c)
		Install = builtinMgr.Install
		Remove = builtinMgr.Remove
		Handler = builtinMgr.Handler
		CheckTimers = builtinMgr.CheckTimers
		Close = builtinMgr.Close
	})
}

// Default 默认管理器，未Start时为nil
func Default() *Manager {
	return builtinMgr
}
