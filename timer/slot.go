package timer

// Proc 定时回调，refCon为注册时透传的上下文，管理器不解引用
type Proc func(refCon any)

type timerSlot struct {
	proc     Proc
	procPtr  uintptr // 回调标识，去重和移除用
	refCon   any
	id       string
	interval int64 // us 注册后不变

	nextFireMs    int64 // 下次触发的整毫秒
	nextFireMicro int64 // 微秒余数 [0,1000)

	prev, next *timerSlot // 双向链表
}

// reschedule 纯累加一个周期，微秒余数满1000进位
// 不向当前时间对齐，落后的定时器靠连续触发追上来
func (s *timerSlot) reschedule() {
	s.nextFireMs += s.interval / 1000
	s.nextFireMicro += s.interval % 1000
	if s.nextFireMicro >= 1000 {
		s.nextFireMs += s.nextFireMicro / 1000
		s.nextFireMicro %= 1000
	}
}

// slotList 按nextFireMs升序的双向链表
type slotList struct {
	root *timerSlot // 哨兵
	size int
}

func newSlotList() *slotList {
	l := new(slotList)
	l.root = new(timerSlot)
	l.root.prev = l.root
	l.root.next = l.root
	return l
}

func (l *slotList) isEmpty() bool {
	return l.root.next == l.root
}

func (l *slotList) len() int {
	return l.size
}

func (l *slotList) first() *timerSlot {
	if l.isEmpty() {
		return nil
	}
	return l.root.next
}

// insertSorted 有序插入，触发时间相同的新结点排在旧结点之后
func (l *slotList) insertSorted(s *timerSlot) {
	cur := l.root.next
	for cur != l.root && cur.nextFireMs <= s.nextFireMs {
		cur = cur.next
	}
	s.prev = cur.prev
	s.next = cur
	cur.prev.next = s
	cur.prev = s
	l.size++
}

func (l *slotList) remove(s *timerSlot) {
	if s == l.root || s.prev == nil || s.next == nil {
		return
	}
	s.prev.next = s.next
	s.next.prev = s.prev
	s.prev = nil
	s.next = nil
	l.size--
}

// popDue 依次弹出nextFireMs小于thresholdMs的结点，遇到未到期即停
// fn内允许再插入，每轮都重看队首，fn返回false终止
func (l *slotList) popDue(thresholdMs int64, fn func(*timerSlot) bool) {
	for {
		s := l.first()
		if s == nil || s.nextFireMs >= thresholdMs {
			return
		}
		l.remove(s)
		if !fn(s) {
			return
		}
	}
}

// removeByProc 移除指定回调的所有结点，返回移除数量
func (l *slotList) removeByProc(procPtr uintptr) int {
	n := 0
	for s := l.root.next; s != l.root; {
		next := s.next
		if s.procPtr == procPtr {
			l.remove(s)
			n++
		}
		s = next
	}
	return n
}

// clear 断链，结点交给gc
func (l *slotList) clear() {
	l.root.prev = l.root
	l.root.next = l.root
	l.size = 0
}
