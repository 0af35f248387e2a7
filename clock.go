package ketenauth

import "time"

// Timer is a scheduled one-shot callback. Stop reports whether the callback
// was prevented from running.
type Timer interface {
	Stop() bool
}

// Clock abstracts wall time and timer scheduling so tests can drive token
// expiry without real delays. Production uses [SystemClock].
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, fn func()) Timer
}

// SystemClock is the wall-clock [Clock].
type SystemClock struct{}

// Now implements [Clock].
func (SystemClock) Now() time.Time { return time.Now() }

// AfterFunc implements [Clock].
func (SystemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}
