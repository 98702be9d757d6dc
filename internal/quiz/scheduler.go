package quiz

import "time"

// Cancel stops a scheduled call. Calling it after the call ran is harmless.
type Cancel func()

// Scheduler runs f once after d
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Cancel
}

// TimeScheduler schedules on the runtime timer
type TimeScheduler struct{}

// AfterFunc implements Scheduler
func (TimeScheduler) AfterFunc(d time.Duration, f func()) Cancel {
	t := time.AfterFunc(d, f)
	return func() { t.Stop() }
}
