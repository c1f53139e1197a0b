package ports

import "time"

// Clock fuente de tiempo inyectable (tests fijan la hora).
type Clock func() time.Time

// SystemClock hora actual en UTC.
func SystemClock() time.Time { return time.Now().UTC() }
