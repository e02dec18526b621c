package findash

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ViewStatus is the lifecycle state of a view
type ViewStatus string

const (
	StatusIdle    ViewStatus = "idle"
	StatusLoading ViewStatus = "loading"
	StatusReady   ViewStatus = "ready"
	StatusEmpty   ViewStatus = "empty"
	StatusFailed  ViewStatus = "failed"
)

// Ticket identifies one request issued against a view
type Ticket struct {
	Generation uint64
	RequestID  string
}

// ViewSnapshot is a copy of a view's state at one point in time
type ViewSnapshot[T any] struct {
	Status     ViewStatus `json:"status"`
	Generation uint64     `json:"generation"`
	RequestID  string     `json:"requestId,omitempty"`
	Data       T          `json:"data"`
	Error      string     `json:"error,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// View holds the state of one dashboard view. Every request gets a new
// generation; only the response to the latest generation is applied, so a
// slow older response can never overwrite a newer one.
type View[T any] struct {
	mu    sync.Mutex
	state ViewSnapshot[T]
	now   func() time.Time
}

// NewView returns an idle view
func NewView[T any]() *View[T] {
	v := &View[T]{now: time.Now}
	v.state.Status = StatusIdle
	return v
}

// Begin starts a new request, superseding any in flight.
// Data and error from the previous request are cleared.
func (v *View[T]) Begin(requestID string) Ticket {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	v.state.Generation++
	v.state.Status = StatusLoading
	v.state.RequestID = requestID
	v.state.Data = zero
	v.state.Error = ""
	v.state.UpdatedAt = v.now()

	return Ticket{Generation: v.state.Generation, RequestID: requestID}
}

// Finish records the outcome of the request identified by t. It returns
// false, leaving the state untouched, if a newer request has begun since.
func (v *View[T]) Finish(t Ticket, data T, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if t.Generation != v.state.Generation {
		return false
	}

	switch {
	case err == nil:
		v.state.Status = StatusReady
		v.state.Data = data
	case errors.Is(err, ErrNoData):
		v.state.Status = StatusEmpty
	default:
		v.state.Status = StatusFailed
		v.state.Error = err.Error()
	}
	v.state.UpdatedAt = v.now()
	return true
}

// Loading reports whether a request is outstanding
func (v *View[T]) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state.Status == StatusLoading
}

// Snapshot returns a copy of the current state
func (v *View[T]) Snapshot() ViewSnapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}
