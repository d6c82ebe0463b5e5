package http

import (
	"net/http"
)

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
		Icon  string `json:"icon"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	cat, err := s.svc.AddCategory(r.Context(), req.Label, req.Icon)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		ID string `json:"id"`
		budgetView
	}{ID: cat.ID, budgetView: s.buildBudgetView()})
}

func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Label string `json:"label"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.svc.RenameCategory(r.Context(), r.PathValue("id"), req.Label); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleSetCategoryIcon(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Icon string `json:"icon"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.svc.SetCategoryIcon(r.Context(), r.PathValue("id"), req.Icon); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleSetAmount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Value string `json:"value"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.svc.SetAmount(r.Context(), r.PathValue("id"), req.Value); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleRemoveCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.RemoveCategory(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.setExpanded(id, false)
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleReorderCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	s.svc.ReorderCategory(r.Context(), req.From, req.To)
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}
