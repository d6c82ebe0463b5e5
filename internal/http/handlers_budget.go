package http

import (
	"log/slog"
	"net/http"
	"strconv"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.svc.SetIncome(r.Context(), req.Value)
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildSummaryView())
}

func (s *Server) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.buildBreakdownView())
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	revision := s.svc.Revision()
	key := strconv.FormatInt(revision, 10)

	if advice, ok := s.adviceCache.Get(key); ok {
		slog.DebugContext(r.Context(), "Advice cache hit", "revision", revision)
		writeJSON(w, http.StatusOK, suggestionsBody{Advice: advice, Revision: revision})
		return
	}

	advice, err := s.svc.SuggestSavings(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	s.adviceCache.Set(key, advice)
	writeJSON(w, http.StatusOK, suggestionsBody{Advice: advice, Revision: revision})
}

type suggestionsBody struct {
	Advice   string `json:"advice"`
	Revision int64  `json:"revision"`
}
