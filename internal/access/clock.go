package access

import "time"

// Clock supplies the current time for ban-expiry and invite-expiry
// comparisons. The engine never reads time.Now directly so tests can pin
// the clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// SystemClock is the wall-clock implementation used outside tests.
var SystemClock Clock = systemClock{} //nolint:gochecknoglobals
