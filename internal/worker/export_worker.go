package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/export"
)

// SnapshotLoader reads the latest persisted budget snapshot.
type SnapshotLoader interface {
	Load(ctx context.Context) (*core.Budget, int64, error)
}

// ExportWorker mirrors the persisted budget into an external summary
// sink whenever the service announces a change. A periodic catch-up
// pass covers lost or missed messages.
type ExportWorker struct {
	store    SnapshotLoader
	exporter export.SummaryExporter

	lastExported int64
}

func NewExportWorker(store SnapshotLoader, exporter export.SummaryExporter) *ExportWorker {
	return &ExportWorker{
		store:    store,
		exporter: exporter,
	}
}

// HandleChangeMessage processes a single budget change notification.
func (w *ExportWorker) HandleChangeMessage(ctx context.Context, msg *amqp.BudgetChangedMessage) error {
	slog.InfoContext(ctx, "Processing budget change",
		"revision", msg.Revision)

	if msg.Revision <= w.lastExported {
		slog.InfoContext(ctx, "Revision already exported, skipping",
			"revision", msg.Revision,
			"last_exported", w.lastExported)
		return nil
	}

	return w.exportLatest(ctx)
}

// StartupExportCheck pushes the current snapshot once at worker
// startup so the sink reflects changes made while the worker was down.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	slog.InfoContext(ctx, "Running startup export check")
	return w.exportLatest(ctx)
}

// RunPeriodicExport re-exports on a fixed interval until the context
// is cancelled. Stale revisions are skipped.
func (w *ExportWorker) RunPeriodicExport(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.CatchUp(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}

// CatchUp exports the persisted snapshot if it is newer than the last
// export this worker performed.
func (w *ExportWorker) CatchUp(ctx context.Context) error {
	_, revision, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load budget snapshot: %w", err)
	}
	if revision <= w.lastExported {
		return nil
	}
	return w.exportLatest(ctx)
}

func (w *ExportWorker) exportLatest(ctx context.Context) error {
	budget, revision, err := w.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load budget snapshot: %w", err)
	}

	summary := budget.BuildSummary()
	if err := w.exporter.ExportSummary(ctx, revision, summary); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}

	w.lastExported = revision

	slog.InfoContext(ctx, "Exported budget summary",
		"revision", revision,
		"categories", len(summary.Categories),
		"total_expenses", summary.TotalExpenses.String())

	return nil
}
