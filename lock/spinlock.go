package lock

import (
	"runtime"
	"sync/atomic"
)

const maxBackoff = 16

// SpinLock 自旋锁，适合极短临界区
type SpinLock uint32

func NewSpinLock() *SpinLock {
	return new(SpinLock)
}

func (sl *SpinLock) Lock() {
	backoff := 1
	for !sl.TryLock() {
		// 指数退避
		for i := 0; i < backoff; i++ {
			runtime.Gosched()
		}
		if backoff < maxBackoff {
			backoff <<= 1
		}
	}
}

func (sl *SpinLock) TryLock() bool {
	return atomic.CompareAndSwapUint32((*uint32)(sl), 0, 1)
}

func (sl *SpinLock) Unlock() {
	atomic.StoreUint32((*uint32)(sl), 0)
}
