package http

import (
	"errors"
	"log/slog"
	"net/http"

	"faturamento/internal/core"
	"faturamento/internal/ingest"
	"faturamento/internal/session"
)

// handleLogin verifies a username/secret pair against the flat-file
// user registry.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.registry == nil {
		writeError(w, http.StatusServiceUnavailable, "login is not configured")
		return
	}

	req, err := parseLoginRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid login request")
		return
	}

	user, ok := s.registry.Authenticate(req.Username, req.Secret)
	if !ok {
		slog.WarnContext(r.Context(), "Login rejected", "username", req.Username)
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	slog.InfoContext(r.Context(), "Login accepted", "username", user.Username)
	writeJSON(w, http.StatusOK, loginPayload{
		Username:    user.Username,
		DisplayName: user.DisplayName,
	})
}

// handleUpload ingests one export, builds the session-local working
// table and answers with the session id, the filter options and the
// unfiltered report.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, header, err := openUploadFile(r)
	if err != nil {
		slog.WarnContext(r.Context(), "Upload rejected", "error", err)
		writeError(w, http.StatusBadRequest, "upload must carry a file field")
		return
	}
	defer file.Close()

	raw, err := ingest.ReadTable(file, s.ingestCfg)
	if err != nil {
		// Whole-file failure: one user-facing message, no partials.
		slog.WarnContext(r.Context(), "Upload unparseable", "error", err, "filename", header.Filename)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, err := core.BuildTable(raw.Headers, raw.Rows, s.variant)
	if err != nil {
		var schemaErr *core.SchemaError
		if errors.As(err, &schemaErr) {
			slog.WarnContext(r.Context(), "Upload failed schema validation",
				"filename", header.Filename, "missing", schemaErr.Missing)
			writeJSON(w, http.StatusUnprocessableEntity, schemaErrorPayload(schemaErr))
			return
		}
		slog.ErrorContext(r.Context(), "Working table build failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not process upload")
		return
	}

	sess := s.sessions.Create(table, raw.Skipped)
	slog.InfoContext(r.Context(), "Upload ingested",
		"session_id", sess.ID,
		"filename", header.Filename,
		"row_count", table.Len(),
		"dropped_rows", table.Dropped,
		"skipped_rows", raw.Skipped)

	report := table.Report(sess.Options.Filter())
	writeJSON(w, http.StatusOK, uploadPayload{
		SessionID:   sess.ID,
		SkippedRows: raw.Skipped,
		Options:     buildOptionsPayload(sess.Options),
		Report:      buildReportPayload(report),
	})
}

// handleOptions returns the per-dimension filter domains of a session.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, buildOptionsPayload(sess.Options))
}

// handleReport recomputes the full indicator set for one filter
// selection over the session's working table.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	sess, ok := s.sessionFor(w, r)
	if !ok {
		return
	}

	filter, err := parseFilterRequest(r, sess.Options)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter selection")
		return
	}

	report := sess.Table.Report(filter)
	slog.DebugContext(r.Context(), "Report recomputed",
		"session_id", sess.ID, "row_count", report.RowCount)
	writeJSON(w, http.StatusOK, buildReportPayload(report))
}

func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.URL.Query().Get("session")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing session parameter")
		return nil, false
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "session not found or expired")
		return nil, false
	}
	return sess, true
}
