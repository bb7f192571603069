package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type resultPayload struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Score    int    `json:"score"`
	Indices  []int  `json:"indices,omitempty"`
}

type resultsResponse struct {
	Query   string          `json:"query"`
	Mode    string          `json:"mode"`
	Results []resultPayload `json:"results"`
}

type invokeRequest struct {
	ID string `json:"id"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	q := r.URL.Query()
	mode := q.Get("mode")
	if mode == "" {
		mode = "switcher"
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeAPIError(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, err := s.source.Results(mode, q.Get("q"), limit)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	payload := make([]resultPayload, 0, len(results))
	for _, res := range results {
		payload = append(payload, resultPayload{
			ID:       res.Candidate.ID,
			Title:    res.Candidate.Title,
			Subtitle: res.Candidate.Subtitle,
			Score:    res.Score,
			Indices:  res.MatchedTitleIndices,
		})
	}
	writeJSON(w, http.StatusOK, resultsResponse{
		Query:   q.Get("q"),
		Mode:    mode,
		Results: payload,
	})
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
		return
	}

	var req invokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeAPIError(w, http.StatusBadRequest, "INVALID_REQUEST", "id is required")
		return
	}

	if err := s.source.Invoke(req.ID); err != nil {
		log.Warn("invoke_failed", slog.String("id", req.ID), slog.String("error", err.Error()))
		writeAPIError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "invoke failed")
		return
	}

	s.notifyEvent(eventMessage{
		Type: "invoked",
		ID:   req.ID,
		Time: time.Now().UTC(),
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": req.ID})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiErrorResponse{
		Error: apiError{
			Code:    code,
			Message: message,
		},
	})
}
