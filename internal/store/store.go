// store.go — the State Store: process-wide cursor, hover,
// viewport, and automating-flag state, mutated only through narrow setters.
//
// Grounded on the teacher's internal/capture Capture struct: one struct,
// one mutex, field-granular critical sections, narrow accessor methods
// rather than exported fields. Unlike the teacher's multi-client buffers,
// this store holds only the small, single-Probe state spec §3 names —
// the pending-query/scan registries live in query.go and scan.go, each
// with their own synchronization, mirroring the teacher's pattern of
// composing independently-locked sub-structures (QueryDispatcher,
// CircuitBreaker) inside the parent Capture rather than one global lock.
package store

import (
	"sync"
	"time"

	"github.com/formpilot/pilotd/internal/probe"
)

// HoverTarget is the (id, name) pair of the element last reported under
// the cursor.
type HoverTarget struct {
	ID   string
	Name string
}

// FormFields is the opaque "last detected form" snapshot POSTed to
// /form-fields, echoed back verbatim by GET /status.
type FormFields struct {
	ReceivedAt time.Time
	Raw        []byte
}

// Store is the process-wide State Store. All fields are protected by mu;
// access outside the declared setters/getters is not possible since the
// fields are unexported.
type Store struct {
	mu sync.RWMutex

	cursorX, cursorY float64
	cursorValid      bool

	hover HoverTarget

	viewport      probe.ViewportBounds
	viewportValid bool

	automating bool

	lastForm *FormFields

	queries *queryRegistry
	scans   *scanRegistry
}

// New creates an empty Store. Cursor and viewport start invalid; the first
// /cursor-position and /coord-response (or /cursor-position) carrying real
// values populate them.
func New() *Store {
	return &Store{
		queries: newQueryRegistry(),
		scans:   newScanRegistry(),
	}
}

// ApplyCursorPosition updates cursor, hover, and (if present) viewport from
// a POST /cursor-position body.
//
// Invariant: a (0,0) reading never overwrites
// a previously-valid cursor — older Probe code paths send {x:0,y:0,...} on
// pure hover events, and a naive overwrite would corrupt a perfectly good
// reading with a stale zero. Hover and viewport are unaffected by this rule;
// only the cursor write is skipped.
func (s *Store) ApplyCursorPosition(e probe.CursorPositionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !e.IsZeroMove() {
		s.cursorX, s.cursorY = e.X, e.Y
		s.cursorValid = true
	}

	s.hover = HoverTarget{ID: e.HoveredID, Name: e.HoveredName}

	if vp, ok := e.Viewport(); ok {
		s.viewport = vp
		s.viewportValid = true
	}
}

// ApplyCursorHover updates only the hover target. Must never touch cursor
// — it has no coordinate fields to do so.
func (s *Store) ApplyCursorHover(e probe.CursorHoverEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hover = HoverTarget{ID: e.HoveredID, Name: e.HoveredName}
}

// Cursor returns the last-known cursor position and whether it is valid.
func (s *Store) Cursor() (x, y float64, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursorX, s.cursorY, s.cursorValid
}

// SetCursor overwrites the cursor unconditionally. Used by the Motion
// Engine's post-condition: after planning a move, the store's
// cursor is set to the intended target regardless of whether the Probe has
// confirmed it yet, so downstream actions can chain without waiting on the
// mousemove stream to catch up.
func (s *Store) SetCursor(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursorX, s.cursorY = x, y
	s.cursorValid = true
}

// Hover returns the last-known hover target.
func (s *Store) Hover() HoverTarget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hover
}

// Viewport returns the last-known viewport bounds and whether any have
// ever been reported.
func (s *Store) Viewport() (probe.ViewportBounds, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewport, s.viewportValid
}

// SetViewport records a fresh viewport rectangle, as reported by any Probe
// message that carries one.
func (s *Store) SetViewport(v probe.ViewportBounds) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewport = v
	s.viewportValid = true
}

// Automating reports whether the Action Engine sequencer is currently
// running a command list.
func (s *Store) Automating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.automating
}

// SetAutomating sets the automating flag.
func (s *Store) SetAutomating(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.automating = v
}

// SetLastFormFields stores the most recent /form-fields diagnostic body.
func (s *Store) SetLastFormFields(raw []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastForm = &FormFields{ReceivedAt: time.Now(), Raw: raw}
}

// LastFormFields returns the most recent /form-fields body, or nil if none
// has ever been posted.
func (s *Store) LastFormFields() *FormFields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastForm
}

// Status is the snapshot GET /status returns.
type Status struct {
	CursorX, CursorY float64
	CursorValid      bool
	Automating       bool
	LastForm         *FormFields
}

// Status returns a consistent snapshot of the fields /status exposes.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		CursorX:     s.cursorX,
		CursorY:     s.cursorY,
		CursorValid: s.cursorValid,
		Automating:  s.automating,
		LastForm:    s.lastForm,
	}
}
