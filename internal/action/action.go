// action.go — the Action Engine: FILL_FIELD / CLICK_SELECTOR /
// CLICK_OPTION handlers with scroll-into-view and verify loops, sequenced
// over a parsed command list.
//
// Grounded on the teacher's internal/bridge package for the
// "one active run at a time, guarded by a flag, emergency-stop polled in
// every loop" sequencing shape (internal/bridge/bridge.go's run-mode
// state machine) — adapted from bridging MCP calls to a browser tab into
// driving a physical Injector, with the teacher's retry-with-backoff
// idiom (internal/queries) reused for the bounded per-action retry loops.
package action

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/formpilot/pilotd/internal/command"
	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/probe"
	"github.com/formpilot/pilotd/internal/typing"
)

// ErrElementNotFound names the found=false condition. The handlers treat it
// as a per-attempt failure and retry; once attempts run out they return
// ErrUnverified, so the Engine never returns this value itself.
var ErrElementNotFound = errors.New("action: element not found")

// ErrOutOfView names the condition where the scroll-into-view helper
// exhausts its iterations without bringing the element into the viewport.
// Like ErrElementNotFound it counts as a failed attempt; the Engine never
// returns this value itself.
var ErrOutOfView = errors.New("action: element remained out of view")

// ErrUnverified is returned when an action exhausts its retries without a
// Probe-confirmed DOM change — this is the hard-halt condition.
var ErrUnverified = errors.New("action: exhausted retries without verified state change")

// ErrAlreadyRunning is returned by Run if the sequencer is re-entered while
// a command list is already in flight.
var ErrAlreadyRunning = errors.New("action: sequencer already running")

// Store is the narrow State Store surface the Action Engine needs.
type Store interface {
	Automating() bool
	SetAutomating(bool)
	Cursor() (x, y float64, ok bool)
	SetCursor(x, y float64)
	CreateDOMQuery(selector, labelText string) string
	AwaitDOMQuery(id string, timeout time.Duration) (probe.CoordResponse, error)
}

// Injector is the narrow Injector Link surface the Action Engine needs for
// queued commands (CLICK, SCROLL, TYPE, KEY, COMBO — spec §4.6).
type Injector interface {
	Send(cmd string)
	Stopped() bool
}

// Motion is the narrow Motion Engine surface the Action Engine needs.
type Motion interface {
	MoveTo(start, target motion.Point) (motion.Point, error)
	MoveToProfile(start, target motion.Point, profile motion.Profile) (motion.Point, error)
}

const domQueryTimeout = 5 * time.Second

// Engine runs parsed command lists against the Probe, Motion Engine, and
// Injector Link, verifying each action's effect before advancing (spec
// §4.4 "Verify-before-proceed").
type Engine struct {
	store    Store
	injector Injector
	motion   Motion
	logger   zerolog.Logger

	rand  *rand.Rand
	sleep func(time.Duration)
}

// New builds an Action Engine.
func New(store Store, injector Injector, motion Motion, logger zerolog.Logger) *Engine {
	return &Engine{
		store:    store,
		injector: injector,
		motion:   motion,
		logger:   logger,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    time.Sleep,
	}
}

// queryDOM parks a DOM query for selector/labelText and blocks for the
// Probe's response, up to domQueryTimeout.
func (e *Engine) queryDOM(selector, labelText string) (probe.CoordResponse, error) {
	id := e.store.CreateDOMQuery(selector, labelText)
	return e.store.AwaitDOMQuery(id, domQueryTimeout)
}

// interActionJitter sleeps the 100-300ms gap the sequencer takes between
// actions.
func (e *Engine) interActionJitter() {
	e.sleep(jitterRange(e.rand, 100, 300))
}

func jitterRange(r *rand.Rand, loMS, hiMS int) time.Duration {
	return time.Duration(loMS+r.Intn(hiMS-loMS+1)) * time.Millisecond
}

// Run dispatches actions in order. Sets the
// automating flag for the duration of the run and halts immediately (hard
// failure, automating cleared) on any handler's unverified failure or on
// ctx cancellation (emergency stop). Returns the error that caused a halt,
// or nil if the whole list completed.
func (e *Engine) Run(ctx context.Context, actions []command.Action) error {
	if e.store.Automating() {
		return ErrAlreadyRunning
	}
	e.store.SetAutomating(true)
	defer e.store.SetAutomating(false)

	for i, a := range actions {
		if ctx.Err() != nil || e.injector.Stopped() {
			e.logger.Warn().Int("index", i).Msg("action: sequencer aborted (emergency stop)")
			if err := ctx.Err(); err != nil {
				return err
			}
			return errors.New("action: emergency stop engaged")
		}

		if err := e.dispatch(ctx, a); err != nil {
			e.logger.Error().Err(err).Int("index", i).Str("kind", a.Kind.String()).
				Msg("action: hard halt, sequencer stopping")
			return err
		}

		if i < len(actions)-1 {
			e.interActionJitter()
		}
	}
	return nil
}

func (e *Engine) dispatch(ctx context.Context, a command.Action) error {
	switch a.Kind {
	case command.KindDelay:
		e.sleep(time.Duration(a.DelayMS) * time.Millisecond)
		return nil
	case command.KindFillField:
		return e.fillField(a.Selector, a.Text)
	case command.KindClickSelector:
		return e.clickSelector(a.Selector)
	case command.KindClickOption:
		return e.clickOption(a.Container, a.Label)
	default:
		e.injector.Send(a.Raw)
		return nil
	}
}

// typingSteps builds the typing plan for text from the same *rand.Rand
// the rest of the engine uses, without threading an extra parameter
// through every call site.
func (e *Engine) typingSteps(text string) []typing.Step {
	return typing.Generate(text, e.rand)
}
