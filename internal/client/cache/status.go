package cache

import "time"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusFresh
	StatusStale
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusFresh:
		return "fresh"
	case StatusStale:
		return "stale"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Snapshot is the observable state of one key. Value is only trustworthy
// when Status is StatusFresh; in other states it holds the last fresh value
// (if any) for stale-while-error display.
type Snapshot struct {
	Key        Key
	Status     Status
	Value      any
	HasValue   bool
	Err        error
	Generation uint64
	UpdatedAt  time.Time
}
