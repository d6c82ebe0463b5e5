package http

import (
	"net/http"

	"bilancio/internal/core"
)

func (s *Server) handleExpandCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.ExpandCategory(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	s.setExpanded(id, true)
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleCollapseCategory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// Collapsing hides the breakdown, it never discards it.
	b := s.svc.Snapshot()
	known := false
	for _, cat := range b.Categories {
		if cat.ID == id {
			known = true
			break
		}
	}
	if !known {
		writeDomainError(w, core.ErrCategoryNotFound)
		return
	}
	s.setExpanded(id, false)
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := s.svc.AddItem(r.Context(), r.PathValue("id"), req.Name, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Amount string `json:"amount"`
		budgetView
	}{
		ID:         item.ID,
		Name:       item.Name,
		Amount:     core.FormatAmount(item.Amount),
		budgetView: s.buildBudgetView(),
	})
}

func (s *Server) handleEditItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	err := s.svc.EditItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"), req.Name, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteItem(r.Context(), r.PathValue("id"), r.PathValue("itemID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.buildBudgetView())
}
