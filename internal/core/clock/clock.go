// Package clock provides the periodic tick source that drives the timing engines.
package clock

import (
	"sync"
	"time"
)

// Subscription is a live periodic tick registration.
type Subscription interface {
	// Cancel stops further ticks. It is idempotent and never blocks on an
	// in-flight callback.
	Cancel()
}

// Clock reports the current time and delivers periodic ticks.
type Clock interface {
	Now() time.Time
	Every(period time.Duration, fn func(time.Time)) Subscription
}

// System is the wall clock backed by time.Ticker.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Every(period time.Duration, fn func(time.Time)) Subscription {
	sub := &tickerSubscription{stopCh: make(chan struct{})}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-sub.stopCh:
				return
			case tickTime := <-ticker.C:
				// Stop may race with a ready tick; prefer stopping.
				select {
				case <-sub.stopCh:
					return
				default:
				}
				fn(tickTime)
			}
		}
	}()
	return sub
}

type tickerSubscription struct {
	once   sync.Once
	stopCh chan struct{}
}

func (sub *tickerSubscription) Cancel() {
	sub.once.Do(func() {
		close(sub.stopCh)
	})
}
