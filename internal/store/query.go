// query.go — the pending DOM query registry.
//
// At most one DOM query may be in flight. Grounded on the teacher's
// QueryDispatcher (internal/queries/dispatcher_queries.go): a one-shot
// waiter keyed by request id, a buffered result channel instead of a
// condition variable (simpler since there is only ever one outstanding
// entry, never a slice), and a registration that is overwritten — not
// cancelled — by a subsequent call, so a prior waiter's own timeout still
// fires independently.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formpilot/pilotd/internal/probe"
)

// ErrProbeTimeout is returned when a DOM query receives no response within
// its deadline.
var ErrProbeTimeout = errors.New("probe: DOM query timed out")

type queryWaiter struct {
	requestID string
	resultCh  chan probe.CoordResponse
}

// queryRegistry holds the single pending DOM query slot and its waiter.
// Nothing is kept for ids that already expired: a late POST
// /coord-response simply fails to match the current waiter and is
// discarded silently, per spec §9 "late deliveries ... silently
// discarded", rather than answered with a 404.
type queryRegistry struct {
	mu      sync.RWMutex
	current *probe.CoordRequest
	waiter  *queryWaiter
}

func newQueryRegistry() *queryRegistry {
	return &queryRegistry{}
}

// CreateDOMQuery parks a new DOM query and returns a handle the caller
// awaits with AwaitDOMQuery. Overwrites any previous pending query; the
// previous waiter (if any) is left to time out on its own.
func (s *Store) CreateDOMQuery(selector, labelText string) string {
	id := "q-" + uuid.NewString()
	req := &probe.CoordRequest{RequestID: id, Selector: selector, LabelText: labelText}

	s.queries.mu.Lock()
	defer s.queries.mu.Unlock()
	s.queries.current = req
	s.queries.waiter = &queryWaiter{requestID: id, resultCh: make(chan probe.CoordResponse, 1)}
	return id
}

// CurrentDOMQuery returns the pending DOM query for GET /coord-request, or
// the empty value if none is pending. Idempotent: repeated polls (the
// Probe polls continuously) see the same entry until resolved or expired.
func (s *Store) CurrentDOMQuery() probe.CoordRequest {
	s.queries.mu.RLock()
	defer s.queries.mu.RUnlock()
	if s.queries.current == nil {
		return probe.CoordRequest{}
	}
	return *s.queries.current
}

// ResolveDOMQuery delivers a DOM snapshot for POST /coord-response. Returns
// false (no-op) if the request id does not match the current waiter — this
// covers both "unknown id" and "late delivery after expiry".
// Also refreshes viewport bounds if the response carries them.
func (s *Store) ResolveDOMQuery(resp probe.CoordResponse) bool {
	if vp, ok := resp.Viewport(); ok {
		s.SetViewport(vp)
	}

	s.queries.mu.Lock()
	w := s.queries.waiter
	if w == nil || w.requestID != resp.RequestID {
		s.queries.mu.Unlock()
		return false
	}
	s.queries.waiter = nil
	s.queries.current = nil
	s.queries.mu.Unlock()

	w.resultCh <- resp
	return true
}

// AwaitDOMQuery blocks for up to timeout for the given query id to resolve.
// On timeout it clears the pending slot (if this id is still the one
// pending — a later query may already have overwritten it) and returns
// ErrProbeTimeout.
func (s *Store) AwaitDOMQuery(id string, timeout time.Duration) (probe.CoordResponse, error) {
	s.queries.mu.RLock()
	w := s.queries.waiter
	s.queries.mu.RUnlock()
	if w == nil || w.requestID != id {
		return probe.CoordResponse{}, ErrProbeTimeout
	}

	select {
	case resp := <-w.resultCh:
		return resp, nil
	case <-time.After(timeout):
		s.queries.mu.Lock()
		if s.queries.waiter == w {
			s.queries.waiter = nil
			s.queries.current = nil
		}
		s.queries.mu.Unlock()
		return probe.CoordResponse{}, ErrProbeTimeout
	}
}
