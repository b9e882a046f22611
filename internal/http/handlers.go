package http

import (
	"context"
	"net/http"
	"time"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/middleware/trace"
)

type recordsResponse struct {
	Records []core.Record `json:"records"`
	Count   int           `json:"count"`
}

type reportResponse struct {
	Lines []core.ReportLine `json:"lines"`
	Total int64             `json:"total"`
}

type totalResponse struct {
	Total int64 `json:"total"`
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady runs the configured readiness probe.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.readyCheck != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := s.readyCheck(ctx); err != nil {
			log.FromContext(r.Context()).Warn("Readiness check failed", log.FieldError, err)
			NewJSONResponse().Status(http.StatusServiceUnavailable).
				Body(map[string]string{"status": "not_ready", "error": err.Error()}).
				Write(w)
			return
		}
	}
	NewJSONResponse().Body(map[string]string{"status": "ready"}).Write(w)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records := s.ledger.List(r.Context())
	if records == nil {
		records = []core.Record{}
	}
	NewJSONResponse().Body(recordsResponse{Records: records, Count: len(records)}).Write(w)
}

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, err, log.OpCreate)
		return
	}
	draft, err := parser.Draft()
	if err != nil {
		s.fail(w, r, err, log.OpCreate)
		return
	}
	rec, err := s.ledger.Add(r.Context(), draft)
	if err != nil {
		s.fail(w, r, err, log.OpCreate)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(rec).Write(w)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err, log.OpRead)
		return
	}
	rec, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, log.OpRead)
		return
	}
	NewJSONResponse().Body(rec).Write(w)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err, log.OpUpdate)
		return
	}
	parser := NewRequestBodyParser(w, r)
	if err := parser.Parse(); err != nil {
		s.fail(w, r, err, log.OpUpdate)
		return
	}
	patch, err := parser.Patch()
	if err != nil {
		s.fail(w, r, err, log.OpUpdate)
		return
	}
	if patch.IsEmpty() {
		ErrorResponse(http.StatusBadRequest, "no fields to update").Write(w)
		return
	}
	rec, err := s.ledger.Update(r.Context(), id, patch)
	if err != nil {
		s.fail(w, r, err, log.OpUpdate)
		return
	}
	NewJSONResponse().Body(rec).Write(w)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err, log.OpDelete)
		return
	}
	if err := s.ledger.Remove(r.Context(), id); err != nil {
		s.fail(w, r, err, log.OpDelete)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleToggleFlag(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		s.fail(w, r, err, log.OpToggle)
		return
	}
	rec, err := s.ledger.ToggleFlag(r.Context(), id)
	if err != nil {
		s.fail(w, r, err, log.OpToggle)
		return
	}
	NewJSONResponse().Body(rec).Write(w)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	report, total := s.ledger.Report(r.Context())
	lines := report.Lines
	if lines == nil {
		lines = []core.ReportLine{}
	}
	NewJSONResponse().Body(reportResponse{Lines: lines, Total: total}).Write(w)
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(totalResponse{Total: s.ledger.TotalFlagged(r.Context())}).Write(w)
}

func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	res, err := s.ledger.ExportReport(r.Context())
	if err != nil {
		s.fail(w, r, err, log.OpExport)
		return
	}
	NewJSONResponse().Status(http.StatusAccepted).Body(res).Write(w)
}

// fail writes the mapped error response. Only server-side failures are logged
// at error level; client mistakes are logged at debug.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := StatusForError(err)
	logger := log.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		fields := log.NewFields().
			WithRequestID(trace.GetRequestID(r.Context())).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent())
		log.NewStructuredLogger(logger).LogError(r.Context(), "Request failed", err, op, fields)
	} else {
		logger.Debug("Request rejected", log.FieldOperation, op, log.FieldStatusCode, status, log.FieldError, err)
	}
	ErrorFor(err).Write(w)
}
