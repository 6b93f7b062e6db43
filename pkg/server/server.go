package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/extratos/pkg/metrics"
	"github.com/yurifrl/extratos/pkg/models"
	"github.com/yurifrl/extratos/pkg/service"
)

// Server exposes statement processing over HTTP.
type Server struct {
	logger    *log.Logger
	mux       *http.ServeMux
	processor *service.Processor
	metrics   *metrics.Metrics
}

// New creates a new HTTP server. m may be nil, in which case /metrics is
// not served.
func New(processor *service.Processor, m *metrics.Metrics, logger *log.Logger) *Server {
	s := &Server{
		logger:    logger,
		mux:       http.NewServeMux(),
		processor: processor,
		metrics:   m,
	}
	s.setupRoutes()
	return s
}

// Handler returns the routed handler, for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/banks", s.withLogging(s.handleBanks))
	s.mux.HandleFunc("/api/extracts/", s.withLogging(s.handleExtracts))
	if s.metrics != nil {
		s.mux.Handle("/metrics", s.metrics.Handler())
	}
}

// BankInfo describes a supported bank and where its statements are read from.
type BankInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Dir  string `json:"dir"`
}

func (s *Server) handleBanks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	cfg := s.processor.Config()
	banks := make([]BankInfo, 0, len(models.SupportedBanks))
	for _, b := range models.SupportedBanks {
		banks = append(banks, BankInfo{ID: string(b), Name: b.Upper(), Dir: cfg.BankDir(b)})
	}

	if err := s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"banks":  banks,
	}); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

func (s *Server) handleExtracts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.respondError(w, r, http.StatusMethodNotAllowed, "method not allowed", nil)
		return
	}

	bankID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/extracts/"), "/")
	if bankID == "" {
		s.respondError(w, r, http.StatusBadRequest, "bank required", nil)
		return
	}

	rep, err := s.processor.BuildReport(r.Context(), bankID)
	switch {
	case errors.Is(err, models.ErrUnsupportedBank):
		s.respondError(w, r, http.StatusBadRequest, err.Error(), err)
		return
	case errors.Is(err, service.ErrDirectoryNotFound):
		s.respondError(w, r, http.StatusNotFound, err.Error(), err)
		return
	case err != nil:
		s.respondError(w, r, http.StatusInternalServerError, "failed to process statements", err)
		return
	}

	s.logger.Info("report built", "bank", rep.Banco, "accounts", len(rep.Accounts), "transactions", rep.Consolidated.TotalTransacoes)
	if err := s.writeJSON(w, http.StatusOK, rep); err != nil {
		s.logger.Warn("failed to write json response", "err", err)
	}
}

// --- helpers ---

// writeJSON encodes v as JSON with the given status and writes headers.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// respondError logs the error and returns a minimal JSON error body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		s.logger.Warn("request error", "status", status, "msg", message, "err", err, "method", r.Method, "path", r.URL.Path)
	} else {
		s.logger.Warn("request error", "status", status, "msg", message, "method", r.Method, "path", r.URL.Path)
	}
	_ = s.writeJSON(w, status, map[string]string{
		"status": "error",
		"error":  message,
	})
}

// withLogging wraps a handler to log request start/end and recover panics.
func (s *Server) withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request", "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic recovered", "panic", rec, "method", r.Method, "path", r.URL.Path)
				s.respondError(w, r, http.StatusInternalServerError, "internal server error", fmt.Errorf("panic: %v", rec))
			}
		}()
		next(w, r)
	}
}
