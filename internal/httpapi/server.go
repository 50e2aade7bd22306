package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"vehiclepass/internal/auth"
	"vehiclepass/internal/vehiclepass/artifact"
	"vehiclepass/internal/vehiclepass/batch"
	"vehiclepass/internal/vehiclepass/service"
	"vehiclepass/internal/vehiclepass/types"
)

// maxImportBody caps uploaded workbook size.  The largest batches seen in
// the field are a few thousand rows, well under this.
const maxImportBody = 16 << 20

type Dependencies struct {
	Logger        *log.Logger
	Addr          string
	Registry      *service.Registry
	Validator     *service.Validator
	Importer      *service.Importer
	Authenticator *auth.Authenticator
	Artifacts     artifact.Store
}

type Server struct {
	httpServer *http.Server
	logger     *log.Logger
	mux        *http.ServeMux
	registry   *service.Registry
	validator  *service.Validator
	importer   *service.Importer
	artifacts  artifact.Store
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:    d.Logger,
		mux:       mux,
		registry:  d.Registry,
		validator: d.Validator,
		importer:  d.Importer,
		artifacts: d.Artifacts,
	}

	mux.HandleFunc("POST /v1/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/records", s.handleListRecords)
	mux.HandleFunc("GET /v1/records/{id}", s.handleGetRecord)
	mux.HandleFunc("PUT /v1/records/{id}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /v1/records/{id}", s.handleDeleteRecord)
	mux.HandleFunc("POST /v1/records/delete", s.handleDeleteMany)
	mux.HandleFunc("POST /v1/import", s.handleImport)
	mux.HandleFunc("POST /v1/validate", s.handleValidate)
	mux.HandleFunc("GET /v1/tokens/{personId}", s.handleTokenArtifact)

	handler := loggingMiddleware(d.Logger, basicAuthMiddleware(d.Authenticator, mux))

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ── Records ──────────────────────────────────────────────────────────────────

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var in types.RecordInput
	if !s.decodeJSON(w, r, &in) {
		return
	}

	rec, err := s.registry.Create(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		s.writeServiceError(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.registry.List(r.Context(), principalFrom(r.Context()))
	if err != nil {
		s.writeServiceError(w, "list", err)
		return
	}
	if records == nil {
		records = []types.ComplianceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	rec, err := s.registry.FindByID(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.writeServiceError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in types.RecordInput
	if !s.decodeJSON(w, r, &in) {
		return
	}

	rec, err := s.registry.Update(r.Context(), principalFrom(r.Context()), id, in)
	if err != nil {
		s.writeServiceError(w, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	removed, err := s.registry.Delete(r.Context(), principalFrom(r.Context()), id)
	if err != nil {
		s.writeServiceError(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":   true,
		"person_id": removed.PersonID,
	})
}

func (s *Server) handleDeleteMany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []int64 `json:"ids"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	n, err := s.registry.DeleteMany(r.Context(), principalFrom(r.Context()), req.IDs)
	if err != nil {
		s.writeServiceError(w, "delete_many", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

// ── Import ───────────────────────────────────────────────────────────────────

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	rows, err := batch.ParseWorkbook(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		// Batch-level failure: nothing was persisted.
		writeError(w, http.StatusBadRequest, "bad_workbook", err.Error())
		return
	}

	res, err := s.importer.ImportBatch(r.Context(), principalFrom(r.Context()), rows)
	if err != nil {
		s.writeServiceError(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ── Validation ───────────────────────────────────────────────────────────────

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload string `json:"payload"`
	}
	if !s.decodeJSON(w, r, &req) {
		return
	}

	dec, err := s.validator.Validate(r.Context(), principalFrom(r.Context()), req.Payload)
	if err != nil {
		s.writeServiceError(w, "validate", err)
		return
	}
	writeJSON(w, http.StatusOK, dec)
}

func (s *Server) handleTokenArtifact(w http.ResponseWriter, r *http.Request) {
	personID := r.PathValue("personId")

	b, err := s.artifacts.Retrieve(r.Context(), personID)
	if errors.Is(err, artifact.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "no token artifact for this person")
		return
	}
	if err != nil {
		s.logger.Printf("token artifact error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

// ── Plumbing ─────────────────────────────────────────────────────────────────

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_id", "record id must be an integer")
		return 0, false
	}
	return id, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, service.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrDuplicateRecord):
		writeError(w, http.StatusConflict, "duplicate_record", err.Error())
	case errors.Is(err, service.ErrMissingPersonID),
		errors.Is(err, service.ErrMissingTransportType):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		s.logger.Printf("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
	}
}
