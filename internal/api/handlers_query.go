package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// QueryRequest is the body for POST /api/query.
type QueryRequest struct {
	Questions   []string `json:"questions" validate:"required,min=1,dive,required"`
	DocumentURL string   `json:"document_url,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.validate.Struct(req); err != nil {
		jsonError(w, "invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Questions) > s.cfg.MaxBatchSize {
		jsonError(w, fmt.Sprintf("batch exceeds max size (%d)", s.cfg.MaxBatchSize), http.StatusBadRequest)
		return
	}

	// The dispatcher does not re-validate question content, so blanks are
	// filtered at this boundary.
	questions := make([]string, 0, len(req.Questions))
	for _, q := range req.Questions {
		if strings.TrimSpace(q) == "" {
			jsonError(w, "questions must not be blank", http.StatusBadRequest)
			return
		}
		questions = append(questions, q)
	}

	results, degraded := s.dispatcher.ProcessQueries(r.Context(), questions, req.DocumentURL)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results":  results,
		"degraded": degraded,
		"count":    len(results),
	})
}

func (s *Server) handleQueryStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.stats.Snapshot())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
