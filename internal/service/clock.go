package service

import "time"

// Clock supplies the current time to timing-dependent transitions. The
// deployment clock is trusted but coarse: second-level resolution and only
// approximately monotonic, so nothing here assumes sub-second precision.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().Truncate(time.Second) }

// SystemClock returns the wall clock, truncated to whole seconds.
func SystemClock() Clock { return systemClock{} }
