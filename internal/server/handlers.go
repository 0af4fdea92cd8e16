package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"policyqa/internal/port"
	"policyqa/internal/usecase"
)

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Response string `json:"response"`
}

type completeRequest struct {
	SystemPrompt string  `json:"system_prompt"`
	UserPrompt   string  `json:"user_prompt"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

type completeResponse struct {
	Text string `json:"text"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Documents int    `json:"documents"`
	Passages  int    `json:"passages"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	answer, err := s.pipeline.Answer(r.Context(), req.Query)
	if err != nil {
		s.writePipelineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{Response: answer})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserPrompt == "" {
		writeError(w, http.StatusBadRequest, "user_prompt must not be empty")
		return
	}

	text, err := s.llm.Generate(r.Context(), req.SystemPrompt, req.UserPrompt, port.GenOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		s.log.Error("completion failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "completion failed")
		return
	}

	writeJSON(w, http.StatusOK, completeResponse{Text: text})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	resp := healthResponse{Status: "ok", Model: s.llm.ModelName()}
	if s.store != nil {
		stats, err := s.store.Stats()
		if err != nil {
			s.log.Warn("failed to read index stats", zap.Error(err))
			resp.Status = "degraded"
		} else {
			resp.Documents = stats.Documents
			resp.Passages = stats.Passages
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// writePipelineError maps pipeline errors onto HTTP statuses: caller
// mistakes are 400s, provider outages are 502s, everything else is a 500.
func (s *Server) writePipelineError(w http.ResponseWriter, err error) {
	var genErr *usecase.GenerationError
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		s.log.Error("answer generation failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "answer generation failed")
	default:
		s.log.Error("query failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
