package clock

import "time"

// FakeClock is a Clock frozen at a chosen instant. Tests advance it
// explicitly to simulate late returns.
type FakeClock struct {
	now time.Time
}

func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (f *FakeClock) Now() time.Time { return f.now }

// Advance moves the clock forward by d.
func (f *FakeClock) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// SetNow pins the clock to a specific instant.
func (f *FakeClock) SetNow(t time.Time) {
	f.now = t.UTC()
}
