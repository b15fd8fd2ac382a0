package clock

import (
	"sync"
	"time"
)

// Manual is a Clock whose time only moves when Advance is called.
// Tick callbacks run synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	nextID uint64
	subs   map[uint64]*manualSubscription
}

type manualSubscription struct {
	clock  *Manual
	id     uint64
	period time.Duration
	next   time.Time
	fn     func(time.Time)
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{
		now:  start,
		subs: make(map[uint64]*manualSubscription),
	}
}

// Now returns the current manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Every registers fn to run each period, first at Now()+period.
func (clock *Manual) Every(period time.Duration, fn func(time.Time)) Subscription {
	if period <= 0 {
		period = time.Second
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.nextID++
	sub := &manualSubscription{
		clock:  clock,
		id:     clock.nextID,
		period: period,
		next:   clock.now.Add(period),
		fn:     fn,
	}
	clock.subs[sub.id] = sub
	return sub
}

// Active reports the number of live subscriptions.
func (clock *Manual) Active() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.subs)
}

// Advance moves time forward by d, firing every tick that falls due in order.
func (clock *Manual) Advance(d time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(d)
	for {
		due := clock.earliestDueLocked(target)
		if due == nil {
			break
		}
		clock.now = due.next
		due.next = due.next.Add(due.period)
		tickTime := clock.now
		fn := due.fn
		clock.mu.Unlock()
		fn(tickTime)
		clock.mu.Lock()
	}
	clock.now = target
	clock.mu.Unlock()
}

// Set jumps to t without firing ticks, as if the process had been suspended.
// Live subscriptions resume from t.
func (clock *Manual) Set(t time.Time) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = t
	for _, sub := range clock.subs {
		for !sub.next.After(t) {
			sub.next = sub.next.Add(sub.period)
		}
	}
}

func (clock *Manual) earliestDueLocked(target time.Time) *manualSubscription {
	var earliest *manualSubscription
	for _, sub := range clock.subs {
		if sub.next.After(target) {
			continue
		}
		if earliest == nil || sub.next.Before(earliest.next) ||
			(sub.next.Equal(earliest.next) && sub.id < earliest.id) {
			earliest = sub
		}
	}
	return earliest
}

func (sub *manualSubscription) Cancel() {
	sub.clock.mu.Lock()
	defer sub.clock.mu.Unlock()
	delete(sub.clock.subs, sub.id)
}
