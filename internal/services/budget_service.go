// Package services orchestrates budget mutations: every user intent
// runs to completion against the in-memory budget, is persisted, and
// announced over AMQP before the next one is accepted.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"bilancio/internal/ai"
	"bilancio/internal/cache"
	"bilancio/internal/core"
)

// ErrBusy is returned when an AI request is already outstanding for
// the same entity; requests for different entities may overlap.
var ErrBusy = errors.New("request already in progress for this entity")

type (
	// SnapshotStore is the persistence collaborator: load once at
	// startup, save after every settled mutation.
	SnapshotStore interface {
		Load(ctx context.Context) (*core.Budget, int64, error)
		Save(ctx context.Context, b *core.Budget, revision int64) error
	}

	// ChangePublisher announces settled revisions to downstream
	// consumers. Publishing is best effort.
	ChangePublisher interface {
		PublishBudgetChanged(ctx context.Context, revision int64) error
	}
)

// BudgetService owns the live budget. A single mutex makes every
// mutation run to completion before the next is accepted; readers get
// clones and never observe a partial update.
type BudgetService struct {
	mu       sync.Mutex
	budget   *core.Budget
	revision int64

	store     SnapshotStore
	publisher ChangePublisher // optional
	assistant *ai.Client

	// Icon suggestions are memoized per label so repeated renames of
	// the same category don't re-call the service.
	iconCache *cache.LRUCache[string]

	busyMu sync.Mutex
	busy   map[string]bool
}

func NewBudgetService(ctx context.Context, store SnapshotStore, publisher ChangePublisher, assistant *ai.Client) (*BudgetService, error) {
	budget, revision, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget loaded",
		"revision", revision,
		"categories", len(budget.Categories),
		"income", budget.Income.String())

	return &BudgetService{
		budget:    budget,
		revision:  revision,
		store:     store,
		publisher: publisher,
		assistant: assistant,
		iconCache: cache.NewLRUCache[string](200, 24*time.Hour),
		busy:      make(map[string]bool),
	}, nil
}

// Snapshot returns a deep copy of the current budget.
func (s *BudgetService) Snapshot() *core.Budget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.Clone()
}

// Revision returns the latest settled revision.
func (s *BudgetService) Revision() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revision
}

// Summary builds the structured overview from the current state.
func (s *BudgetService) Summary() core.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget.BuildSummary()
}

// SetIncome resolves and stores income input. Unparsable input settles
// at zero, so this never fails.
func (s *BudgetService) SetIncome(ctx context.Context, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget.SetIncome(raw)
	s.settle(ctx, "set_income")
}

// SetAmount applies a direct amount edit. Parse failures are absorbed:
// the prior value stays and the caller sees success, matching the
// forgiving input boxes. Structural problems (unknown category, amount
// derived from a breakdown) are real errors.
func (s *BudgetService) SetAmount(ctx context.Context, categoryID, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.budget.SetAmount(categoryID, raw)
	if errors.Is(err, core.ErrNotNumeric) {
		slog.DebugContext(ctx, "Amount input ignored",
			"category_id", categoryID, "raw", raw)
		return nil
	}
	if err != nil {
		return err
	}
	s.settle(ctx, "set_amount")
	return nil
}

// AddCategory creates a category. With no icon given, one is suggested
// by the assistant (default glyph when the call fails).
func (s *BudgetService) AddCategory(ctx context.Context, label, icon string) (core.Category, error) {
	if strings.TrimSpace(label) == "" {
		return core.Category{}, core.ErrEmptyLabel
	}
	if icon == "" {
		icon = s.suggestIcon(ctx, label)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cat, err := s.budget.AddCategory(label, icon)
	if err != nil {
		return core.Category{}, err
	}
	s.settle(ctx, "add_category")
	return cat, nil
}

// RenameCategory updates the label and, when the label actually
// changed, refreshes the icon from the assistant the way the original
// edit flow did. The category is marked busy for the duration so a
// second rename can't race the outstanding suggestion.
func (s *BudgetService) RenameCategory(ctx context.Context, id, label string) error {
	s.mu.Lock()
	var current *core.Category
	for i := range s.budget.Categories {
		if s.budget.Categories[i].ID == id {
			current = &s.budget.Categories[i]
			break
		}
	}
	if current == nil {
		s.mu.Unlock()
		return core.ErrCategoryNotFound
	}
	unchanged := strings.TrimSpace(label) == current.Label
	s.mu.Unlock()

	if unchanged {
		return nil
	}

	var icon string
	if s.assistant != nil && s.assistant.Enabled() {
		if !s.beginRequest(id) {
			return ErrBusy
		}
		icon = s.suggestIcon(ctx, label)
		s.endRequest(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.budget.RenameCategory(id, label); err != nil {
		return err
	}
	if icon != "" {
		if err := s.budget.SetCategoryIcon(id, icon); err != nil {
			return err
		}
	}
	s.settle(ctx, "rename_category")
	return nil
}

// SetCategoryIcon sets an explicit icon without consulting the assistant.
func (s *BudgetService) SetCategoryIcon(ctx context.Context, id, icon string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.budget.SetCategoryIcon(id, icon); err != nil {
		return err
	}
	s.settle(ctx, "set_icon")
	return nil
}

// RemoveCategory deletes a category with its amount and breakdown.
func (s *BudgetService) RemoveCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.budget.RemoveCategory(id); err != nil {
		return err
	}
	s.settle(ctx, "remove_category")
	return nil
}

// ReorderCategory moves a category to a new position.
func (s *BudgetService) ReorderCategory(ctx context.Context, from, to int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := make([]string, len(s.budget.Categories))
	for i, c := range s.budget.Categories {
		before[i] = c.ID
	}
	s.budget.ReorderCategory(from, to)
	for i, c := range s.budget.Categories {
		if before[i] != c.ID {
			s.settle(ctx, "reorder_category")
			return
		}
	}
	// No-op moves don't settle a new revision.
}

// ExpandCategory opens a category for itemized editing, synthesizing
// the base item when needed.
func (s *BudgetService) ExpandCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	had := s.budget.HasBreakdown(id)
	if err := s.budget.ExpandCategory(id); err != nil {
		return err
	}
	if !had && s.budget.HasBreakdown(id) {
		s.settle(ctx, "expand_category")
	}
	return nil
}

// AddItem appends a breakdown item and reconciles the category total.
func (s *BudgetService) AddItem(ctx context.Context, categoryID, name, rawAmount string) (core.SubItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, err := s.budget.AddItem(categoryID, name, rawAmount)
	if err != nil {
		return core.SubItem{}, err
	}
	s.settle(ctx, "add_item")
	return item, nil
}

// EditItem replaces a breakdown item in place.
func (s *BudgetService) EditItem(ctx context.Context, categoryID, itemID, name, rawAmount string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.budget.EditItem(categoryID, itemID, name, rawAmount); err != nil {
		return err
	}
	s.settle(ctx, "edit_item")
	return nil
}

// DeleteItem removes a breakdown item and reconciles the total.
func (s *BudgetService) DeleteItem(ctx context.Context, categoryID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.budget.DeleteItem(categoryID, itemID); err != nil {
		return err
	}
	s.settle(ctx, "delete_item")
	return nil
}

// SuggestSavings asks the assistant for advice on the current budget.
// One request at a time; callers hitting a busy service get ErrBusy.
func (s *BudgetService) SuggestSavings(ctx context.Context) (string, error) {
	if !s.beginRequest("savings") {
		return "", ErrBusy
	}
	defer s.endRequest("savings")

	summary := s.Summary()
	if s.assistant == nil {
		return ai.FallbackAdvice, nil
	}
	return s.assistant.SuggestSavings(ctx, summary), nil
}

// suggestIcon consults the memo cache before the assistant.
func (s *BudgetService) suggestIcon(ctx context.Context, label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if icon, ok := s.iconCache.Get(key); ok {
		return icon
	}
	if s.assistant == nil {
		return ai.DefaultIcon
	}
	icon := s.assistant.SuggestIcon(ctx, label)
	if icon != ai.DefaultIcon {
		s.iconCache.Set(key, icon)
	}
	return icon
}

func (s *BudgetService) beginRequest(key string) bool {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	if s.busy[key] {
		return false
	}
	s.busy[key] = true
	return true
}

func (s *BudgetService) endRequest(key string) {
	s.busyMu.Lock()
	defer s.busyMu.Unlock()
	delete(s.busy, key)
}

// settle finishes a mutation: bump the revision, persist, announce.
// The in-memory budget is authoritative; a failed save is logged and
// retried implicitly by the next settled mutation. Callers must hold
// s.mu.
func (s *BudgetService) settle(ctx context.Context, operation string) {
	s.revision++
	if err := s.store.Save(ctx, s.budget, s.revision); err != nil {
		slog.ErrorContext(ctx, "Failed to save budget snapshot",
			"error", err,
			"operation", operation,
			"revision", s.revision)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishBudgetChanged(ctx, s.revision); err != nil {
			slog.WarnContext(ctx, "Failed to publish budget change",
				"error", err,
				"operation", operation,
				"revision", s.revision)
		}
	}
}
