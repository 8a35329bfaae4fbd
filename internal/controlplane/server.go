// server.go — the Control Plane: a chi HTTP server exchanging
// coordinates, hover state, viewport bounds, and DOM snapshots with the
// Probe, plus the parked-command-list handoff into the Action Engine.
//
// Grounded on the teacher's internal/server package shape (a Server struct
// holding concrete dependencies, one method per route, `NewServer` wiring
// them together) and hazyhaar-chrc's chassis/server.go for the chi router
// + middleware stack itself (RequestID/Recoverer/Logger, go-chi/cors for
// the permissive CORS spec §4.1 calls for).
package controlplane

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/formpilot/pilotd/internal/action"
	"github.com/formpilot/pilotd/internal/command"
	"github.com/formpilot/pilotd/internal/injector"
	"github.com/formpilot/pilotd/internal/motion"
	"github.com/formpilot/pilotd/internal/store"
	"github.com/formpilot/pilotd/internal/util"
)

// ScanTimeout bounds how long POST /trigger-scan waits for the Probe's scan
// response.
const ScanTimeout = 10 * time.Second

// parkedList holds the most recently POSTed /automation command list
// until a /start dispatches it. A later /automation overwrites it without
// cancelling any run already in progress.
type parkedList struct {
	mu      sync.Mutex
	actions []command.Action
	set     bool
}

func (p *parkedList) park(actions []command.Action) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.actions = actions
	p.set = true
}

// take clears the parked slot and returns what was there, if anything.
func (p *parkedList) take() ([]command.Action, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.set {
		return nil, false
	}
	actions := p.actions
	p.actions = nil
	p.set = false
	return actions, true
}

// Server is the Control Plane: the chi router plus the dependencies its
// handlers need.
type Server struct {
	store    *store.Store
	action   *action.Engine
	motion   *motion.Engine
	injector *injector.Link
	logger   zerolog.Logger

	router *chi.Mux
	parked parkedList
}

// New builds a Control Plane Server and wires its routes.
func New(st *store.Store, actionEngine *action.Engine, motionEngine *motion.Engine, link *injector.Link, logger zerolog.Logger) *Server {
	s := &Server{
		store:    st,
		action:   actionEngine,
		motion:   motionEngine,
		injector: link,
		logger:   logger.With().Str("component", "controlplane").Logger(),
	}
	s.router = s.newRouter()
	return s
}

// ServeHTTP lets Server satisfy http.Handler directly (e.g. for
// httptest.NewServer in tests).
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) newRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(zerologMiddleware(s.logger))

	// CORS is permissive per spec §4.1: any origin, GET+POST, Content-Type.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Content-Type"},
		MaxAge:           300,
	}))

	r.Post("/cursor-position", s.handleCursorPosition)
	r.Post("/cursor-hover", s.handleCursorHover)
	r.Get("/coord-request", s.handleCoordRequest)
	r.Post("/coord-response", s.handleCoordResponse)
	r.Get("/scan-request", s.handleScanRequest)
	r.Post("/scan-response", s.handleScanResponse)
	r.Post("/automation", s.handleAutomation)
	r.Post("/start", s.handleStart)
	r.Post("/dom-change", s.handleDOMChange)
	r.Post("/form-fields", s.handleFormFields)
	r.Post("/bottom-reached", s.handleBottomReached)
	r.Get("/status", s.handleStatus)
	r.Post("/test-move", s.handleTestMove)
	r.Post("/trigger-scan", s.handleTriggerScan)

	return r
}

// runAsync dispatches a parsed action list into the Action Engine on a
// background goroutine, surviving a panic without taking the process down.
func (s *Server) runAsync(ctx context.Context, actions []command.Action) {
	util.SafeGo(func() {
		if err := s.action.Run(ctx, actions); err != nil {
			s.logger.Error().Err(err).Msg("automation run ended in hard halt")
		}
	})
}

// zerologMiddleware logs one line per request, matching the teacher's
// one-line-per-state-transition logging philosophy via
// rs/zerolog instead of chi's default stdlib logger.
func zerologMiddleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("http request")
		})
	}
}
