package export

import (
	"context"

	"bilancio/internal/core"
)

// SummaryExporter mirrors a settled budget revision to an external
// destination. Exports are best effort and may lag behind the live
// budget; only the latest revision matters.
type SummaryExporter interface {
	ExportSummary(ctx context.Context, revision int64, s core.Summary) error
}
