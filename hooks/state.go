// Package hooks wraps API operations with request state so screens can
// render loading, error and data without tracking calls themselves.
package hooks

import "time"

// Status is the lifecycle of one request.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of a query or mutation.
type State[T any] struct {
	Status Status
	Data   T
	// HasData is false until the first success.
	HasData bool
	Err     error
	// Placeholder marks Data as belonging to an earlier request while a new
	// one is in flight or has failed.
	Placeholder bool
	UpdatedAt   time.Time
}

func (s State[T]) IsPending() bool { return s.Status == StatusPending }
