// engine.go — the Motion Engine: converts an absolute target
// into a stream of relative MOVE,dx,dy commands with viewport clamping,
// a lightly curved path, and a single correction pass.
//
// Grounded on the teacher's pilot.go command-forwarding shape (parameters
// in, commands out through a narrow dependency) but there is no teacher
// analogue for path generation itself — a quadratic bezier with a small
// perpendicular bow, ending exactly on the target without overshoot, was
// built fresh rather than adapted from any pack file.
package motion

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/formpilot/pilotd/internal/probe"
)

// ErrNoViewport is returned when no viewport bounds are available after the
// bounded wait.
var ErrNoViewport = errors.New("motion: no viewport bounds available")

const (
	// ViewportWaitTimeout bounds how long MoveToProfile blocks for viewport
	// bounds to arrive before refusing.
	ViewportWaitTimeout = 2 * time.Second

	minMoveDistance     = 3.0  // below this, no MOVE is emitted
	correctionThreshold = 10.0 // residual error above which one corrective delta is emitted
	maxBowPeak          = 20.0
	bowFactor           = 0.03

	interStepSleepMinMS = 4
	interStepSleepMaxMS = 14
	settleAfterPath     = 60 * time.Millisecond
)

// Point is a screen-absolute coordinate pair.
type Point struct {
	X, Y float64
}

// Injector is the narrow surface the Motion Engine needs of the Injector
// Link: direct, queue-bypassing writes, since ordering within one action
// is already guaranteed by the sequencer.
type Injector interface {
	WriteDirect(cmd string) error
}

// Store is the narrow surface of the State Store the Motion Engine reads
// and writes.
type Store interface {
	Viewport() (probe.ViewportBounds, bool)
	Cursor() (x, y float64, ok bool)
	SetCursor(x, y float64)
}

// Engine plans and emits motion.
type Engine struct {
	injector Injector
	store    Store
	logger   zerolog.Logger
	margin   float64

	rand  *rand.Rand
	sleep func(time.Duration)
}

// New builds a Motion Engine. margin is the viewport safety margin M,
// clamped to 20px by default if zero is passed by the caller's config.
func New(injector Injector, store Store, margin float64, logger zerolog.Logger) *Engine {
	if margin == 0 {
		margin = 20
	}
	return &Engine{
		injector: injector,
		store:    store,
		margin:   margin,
		logger:   logger,
		rand:     rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    time.Sleep,
	}
}

// waitForViewport blocks until viewport bounds are available or
// ViewportWaitTimeout elapses. Elapsed time is counted in e.sleep polls,
// so a faked sleep also fakes the wait.
func (e *Engine) waitForViewport() (probe.ViewportBounds, error) {
	const poll = 10 * time.Millisecond
	for waited := time.Duration(0); ; waited += poll {
		if vp, ok := e.store.Viewport(); ok {
			return vp, nil
		}
		if waited >= ViewportWaitTimeout {
			return probe.ViewportBounds{}, ErrNoViewport
		}
		e.sleep(poll)
	}
}

// Profile selects the path shape MoveToProfile samples between start and
// target.
type Profile int

const (
	// ProfileCurved bows the path with a small perpendicular arc — the
	// default, used for ordinary FILL_FIELD/CLICK_SELECTOR moves.
	ProfileCurved Profile = iota
	// ProfileNoOvershoot samples a direct line with no bow, used by every
	// CLICK_OPTION move and retry jiggle, where a fresh curve on top of an
	// already-small, jittered correction would overshoot.
	ProfileNoOvershoot
)

// MoveTo plans and executes a curved move from start to target.
// Equivalent to MoveToProfile(start, target, ProfileCurved).
func (e *Engine) MoveTo(start, target Point) (Point, error) {
	return e.MoveToProfile(start, target, ProfileCurved)
}

// MoveToProfile plans and executes a move from start to target, both in
// absolute screen coordinates, using the given path Profile. start is
// normally the Probe-reported cursor from the most recent DOM query (the
// authoritative start for a verified action), not a fresh store read, so
// callers control staleness explicitly.
//
// Returns the clamped target actually converged on, and an error only for
// ErrNoViewport — a "no-op because already close enough"
// outcome is success, not an error.
func (e *Engine) MoveToProfile(start, target Point, profile Profile) (Point, error) {
	vp, err := e.waitForViewport()
	if err != nil {
		return Point{}, err
	}

	sx, sy := vp.Clamp(start.X, start.Y, e.margin)
	tx, ty := vp.Clamp(target.X, target.Y, e.margin)
	clampedTarget := Point{X: tx, Y: ty}

	dist := math.Hypot(tx-sx, ty-sy)
	if dist < minMoveDistance {
		e.store.SetCursor(clampedTarget.X, clampedTarget.Y)
		return clampedTarget, nil
	}

	var path []Point
	if profile == ProfileNoOvershoot {
		path = straightPath(Point{X: sx, Y: sy}, clampedTarget)
	} else {
		path = curvedPath(Point{X: sx, Y: sy}, clampedTarget, e.rand)
	}
	e.emit(path, vp)

	e.sleep(settleAfterPath)
	e.correct(clampedTarget)

	// Post-condition: store cursor equals the intended target
	// regardless of whether the Probe has confirmed it yet, so downstream
	// actions in the same handler can chain without waiting.
	e.store.SetCursor(clampedTarget.X, clampedTarget.Y)
	return clampedTarget, nil
}

// emit walks path, clamping every point, and writes the integer delta
// between consecutive emitted points. Zero deltas are skipped.
func (e *Engine) emit(path []Point, vp probe.ViewportBounds) {
	lastX, lastY := round(path[0].X), round(path[0].Y)
	for _, p := range path[1:] {
		cx, cy := vp.Clamp(p.X, p.Y, e.margin)
		nx, ny := round(cx), round(cy)
		dx, dy := nx-lastX, ny-lastY
		if dx == 0 && dy == 0 {
			continue
		}
		if err := e.injector.WriteDirect(fmt.Sprintf("MOVE,%d,%d", dx, dy)); err != nil {
			e.logger.Error().Err(err).Msg("motion: MOVE write failed")
		}
		lastX, lastY = nx, ny
		e.sleep(jitter(e.rand, interStepSleepMinMS, interStepSleepMaxMS))
	}
}

// correct performs the single refinement pass: if the Probe's last-reported
// cursor (read from the Store) still differs from target by more than
// correctionThreshold, emit one corrective MOVE. Never loops.
func (e *Engine) correct(target Point) {
	curX, curY, ok := e.store.Cursor()
	if !ok {
		return
	}
	residual := math.Hypot(target.X-curX, target.Y-curY)
	if residual <= correctionThreshold {
		return
	}
	dx := round(target.X) - round(curX)
	dy := round(target.Y) - round(curY)
	if dx == 0 && dy == 0 {
		return
	}
	if err := e.injector.WriteDirect(fmt.Sprintf("MOVE,%d,%d", dx, dy)); err != nil {
		e.logger.Error().Err(err).Msg("motion: corrective MOVE write failed")
	}
}

func round(f float64) int {
	return int(math.Round(f))
}

func jitter(r *rand.Rand, minMS, maxMS int) time.Duration {
	return time.Duration(minMS+r.Intn(maxMS-minMS+1)) * time.Millisecond
}
