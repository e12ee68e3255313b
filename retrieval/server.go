// Package retrieval implements the HTTP surface over the content-addressed
// store: blob submission, byte/range retrieval, and inclusion-proof
// queries.
package retrieval

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/animica/da/daerrors"
	"github.com/animica/da/receipt"
	"github.com/animica/da/store"
)

// ServerConfig carries the knobs a deployment tunes; zero values fall back
// to sane defaults in NewServer.
type ServerConfig struct {
	MaxBodyBytes int64
	RateTier     RateLimitTier

	// ChainID and PolicyRoot bind issued receipts; SignFn is optional — when
	// nil, POST /da/blob never attaches a receipt.
	ChainID    string
	PolicyRoot [32]byte
	SignFn     receipt.SignFunc
	AlgID      uint32
	Signer     string
}

// sweepInterval and idleAfter drive the background rate-limiter cleanup
// every Server runs for its own lifetime.
const (
	sweepInterval = time.Minute
	idleAfter     = 10 * time.Minute
)

// Server wires the store to an HTTP router.
type Server struct {
	store  *store.Store
	log    *zap.Logger
	cfg    ServerConfig
	limits *limiterSet
	stop   chan struct{}
}

// NewServer constructs a Server over store s. A nil logger falls back to
// zap.NewNop. It starts a background goroutine that periodically sweeps
// idle per-IP rate limiters; call Close to stop it.
func NewServer(s *store.Store, log *zap.Logger, cfg ServerConfig) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 8 << 20
	}
	if cfg.RateTier.Rate == 0 {
		cfg.RateTier = DefaultTier
	}
	srv := &Server{
		store:  s,
		log:    log,
		cfg:    cfg,
		limits: newLimiterSet(cfg.RateTier),
		stop:   make(chan struct{}),
	}
	go srv.sweepLoop(sweepInterval, idleAfter)
	return srv
}

// Close stops the background idle-sweep goroutine. Safe to call once.
func (s *Server) Close() {
	close(s.stop)
}

// Router builds the chi.Router exposing the three DA endpoints.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(rateLimitMiddleware(s.limits))

	r.Post("/da/blob", s.handlePostBlob)
	r.Get("/da/blob/{commitment}", s.handleGetBlob)
	r.Get("/da/proof", s.handleGetProof)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind daerrors.Kind, msg string) {
	writeJSON(w, status, wireError{Code: kind.String(), Message: msg})
}

// writeErrForErr classifies err via daerrors.KindOf and writes the mapped
// wire response. Unrecognized errors map to a generic internal error
// without leaking the underlying message, per the no-free-form-text rule.
func writeErrForErr(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := daerrors.KindOf(err)
	status := statusFor(kind)
	msg := kind.String()
	if kind == daerrors.KindUnknown {
		log.Error("unclassified retrieval error", zap.Error(err))
		msg = "internal error"
	}
	writeError(w, status, kind, msg)
}

// sweepLoop periodically clears idle rate-limiter state until Close stops
// it. Started by NewServer.
func (s *Server) sweepLoop(interval time.Duration, idleAfter time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.limits.sweep(time.Now().Add(-idleAfter))
		case <-s.stop:
			return
		}
	}
}
