// scan.go — the pending scan registry.
// Same one-shot-waiter shape as query.go, kept as a separate registry
// because scans and DOM queries are independent channels with distinct
// timeouts (10s vs 5s) and distinct payload shapes.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/formpilot/pilotd/internal/probe"
)

// ErrScanTimeout is returned when a scan receives no response within its
// deadline.
var ErrScanTimeout = errors.New("probe: scan timed out")

type scanWaiter struct {
	requestID string
	resultCh  chan probe.ScanResponse
}

type scanRegistry struct {
	mu      sync.RWMutex
	current *probe.ScanRequest
	waiter  *scanWaiter
}

func newScanRegistry() *scanRegistry {
	return &scanRegistry{}
}

// CreateScan parks a new scan request and returns its id.
func (s *Store) CreateScan() string {
	id := "s-" + uuid.NewString()
	req := &probe.ScanRequest{RequestID: id}

	s.scans.mu.Lock()
	defer s.scans.mu.Unlock()
	s.scans.current = req
	s.scans.waiter = &scanWaiter{requestID: id, resultCh: make(chan probe.ScanResponse, 1)}
	return id
}

// CurrentScan returns the pending scan for GET /scan-request, or the empty
// value if none is pending.
func (s *Store) CurrentScan() probe.ScanRequest {
	s.scans.mu.RLock()
	defer s.scans.mu.RUnlock()
	if s.scans.current == nil {
		return probe.ScanRequest{}
	}
	return *s.scans.current
}

// ResolveScan delivers scan results for POST /scan-response. Returns false
// if the id does not match the current waiter (unknown or already-expired).
func (s *Store) ResolveScan(resp probe.ScanResponse) bool {
	s.SetViewport(resp.Viewport())

	s.scans.mu.Lock()
	w := s.scans.waiter
	if w == nil || w.requestID != resp.RequestID {
		s.scans.mu.Unlock()
		return false
	}
	s.scans.waiter = nil
	s.scans.current = nil
	s.scans.mu.Unlock()

	w.resultCh <- resp
	return true
}

// AwaitScan blocks up to timeout for the scan to resolve, clearing the
// pending slot (if still current) on timeout.
func (s *Store) AwaitScan(id string, timeout time.Duration) (probe.ScanResponse, error) {
	s.scans.mu.RLock()
	w := s.scans.waiter
	s.scans.mu.RUnlock()
	if w == nil || w.requestID != id {
		return probe.ScanResponse{}, ErrScanTimeout
	}

	select {
	case resp := <-w.resultCh:
		return resp, nil
	case <-time.After(timeout):
		s.scans.mu.Lock()
		if s.scans.waiter == w {
			s.scans.waiter = nil
			s.scans.current = nil
		}
		s.scans.mu.Unlock()
		return probe.ScanResponse{}, ErrScanTimeout
	}
}
