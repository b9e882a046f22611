// Package http serves the ledger as a local JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/ratelimit"
	"ledger/internal/middleware/security"
	"ledger/internal/middleware/trace"
	"ledger/internal/services"
)

// Ledger is the service surface the handlers drive.
type Ledger interface {
	Add(ctx context.Context, d core.Draft) (core.Record, error)
	Update(ctx context.Context, id int64, p core.Patch) (core.Record, error)
	Remove(ctx context.Context, id int64) error
	ToggleFlag(ctx context.Context, id int64) (core.Record, error)
	Get(ctx context.Context, id int64) (core.Record, error)
	List(ctx context.Context) []core.Record
	Report(ctx context.Context) (core.Report, int64)
	TotalFlagged(ctx context.Context) int64
	ExportReport(ctx context.Context) (services.ExportResult, error)
}

// Options tune the server. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *log.Logger
	// ReadyCheck backs /readyz. Nil reports ready.
	ReadyCheck func(ctx context.Context) error
}

type Server struct {
	http.Server
	ledger     Ledger
	limiter    *ratelimit.Limiter
	detector   *security.Detector
	tracer     *trace.Middleware
	readyCheck func(ctx context.Context) error
	startedAt  time.Time

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware. Call Shutdown to release the rate limiter.
func NewServer(addr string, l Ledger, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.FromContext(context.Background())
	}

	detector := security.NewDetector()
	limiterCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limiterCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		ledger:     l,
		limiter:    ratelimit.NewLimiter(limiterCfg),
		detector:   detector,
		tracer:     trace.NewMiddleware(detector.ExtractClientIP, logger),
		readyCheck: opts.ReadyCheck,
		startedAt:  time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /records", s.handleListRecords)
	mux.HandleFunc("POST /records", s.handleCreateRecord)
	mux.HandleFunc("GET /records/{id}", s.handleGetRecord)
	mux.HandleFunc("PATCH /records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("POST /records/{id}/flag", s.handleToggleFlag)
	mux.HandleFunc("GET /report", s.handleReport)
	mux.HandleFunc("GET /total", s.handleTotal)
	mux.HandleFunc("POST /report/export", s.handleExportReport)

	limit := s.limiter.Middleware(detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded").Write(w)
	}, http.MethodPost, http.MethodPatch, http.MethodDelete)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())

	var handler http.Handler = mux
	handler = limit(handler)
	handler = detector.Middleware(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts down the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
