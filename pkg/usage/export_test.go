package usage

import "time"

// SetClock overrides the time source of PostgresCounters in tests.
func (p *PostgresCounters) SetClock(now func() time.Time) { p.now = now }
