// Command runbook-api exposes the Orchestrator over a small JSON HTTP
// API for programmatic callers — a plain REST surface, not an
// interactive UI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/jordigilh/runbookengine/internal/config"
	"github.com/jordigilh/runbookengine/internal/wiring"
	"github.com/jordigilh/runbookengine/pkg/orchestrator"
	"github.com/jordigilh/runbookengine/pkg/types"
)

type server struct {
	orch   *orchestrator.Orchestrator
	logger *zap.Logger

	mu        sync.RWMutex
	incidents map[string]*types.Incident
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}

	logger, err := wiring.NewLogger(cfg.Logging)
	if err != nil {
		fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	o, err := wiring.NewOrchestrator(ctx, cfg, logger)
	if err != nil {
		fatal(err)
	}

	srv := newServer(o, logger)
	router := srv.routes()

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("runbook-api listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newServer(o *orchestrator.Orchestrator, logger *zap.Logger) *server {
	return &server{orch: o, logger: logger, incidents: map[string]*types.Incident{}}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	r.Route("/api/v1/incidents", func(r chi.Router) {
		r.Post("/", s.handleCreateIncident)
		r.Get("/{incidentID}", s.handleGetIncident)
		r.Post("/{incidentID}/diagnose", s.handleDiagnose)
		r.Get("/{incidentID}/approvals", s.handlePendingApprovals)
		r.Post("/{incidentID}/approvals/{actionID}/approve", s.handleApprove)
		r.Post("/{incidentID}/approvals/{actionID}/reject", s.handleReject)
		r.Post("/{incidentID}/execute", s.handleExecute)
		r.Post("/{incidentID}/verify", s.handleVerify)
	})

	return r
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "runbook-api:", err)
	os.Exit(1)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

var (
	errIncidentNotFound = fmt.Errorf("incident not found")
	errActionNotFound   = fmt.Errorf("action not found")
)

const defaultVerifyInterval = 10 * time.Second
