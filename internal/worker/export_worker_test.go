package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/amqp"
	"bilancio/internal/core"
	"bilancio/internal/export/memory"
)

type stubLoader struct {
	budget   *core.Budget
	revision int64
	err      error
	loads    int
}

func (s *stubLoader) Load(context.Context) (*core.Budget, int64, error) {
	s.loads++
	if s.err != nil {
		return nil, 0, s.err
	}
	return s.budget.Clone(), s.revision, nil
}

func workerBudget(t *testing.T) *core.Budget {
	t.Helper()
	b := core.NewBudget()
	b.SetIncome("2000")
	cat, err := b.AddCategory("Food", "🍽️")
	require.NoError(t, err)
	require.NoError(t, b.SetAmount(cat.ID, "300"))
	return b
}

func TestHandleChangeMessageExports(t *testing.T) {
	loader := &stubLoader{budget: workerBudget(t), revision: 4}
	sink := memory.New()
	w := NewExportWorker(loader, sink)

	msg := &amqp.BudgetChangedMessage{Revision: 4}
	require.NoError(t, w.HandleChangeMessage(context.Background(), msg))

	sum, revision, ok := sink.Last()
	require.True(t, ok)
	assert.Equal(t, "300", sum.TotalExpenses.String())
	assert.Equal(t, int64(4), revision)
}

func TestHandleChangeMessageSkipsStaleRevision(t *testing.T) {
	loader := &stubLoader{budget: workerBudget(t), revision: 4}
	w := NewExportWorker(loader, memory.New())

	require.NoError(t, w.StartupExportCheck(context.Background()))
	loadsAfterStartup := loader.loads

	require.NoError(t, w.HandleChangeMessage(context.Background(), &amqp.BudgetChangedMessage{Revision: 2}))
	assert.Equal(t, loadsAfterStartup, loader.loads, "old revisions never touch the store")
}

func TestCatchUpOnlyWhenNewer(t *testing.T) {
	loader := &stubLoader{budget: workerBudget(t), revision: 1}
	sink := memory.New()
	w := NewExportWorker(loader, sink)

	require.NoError(t, w.CatchUp(context.Background()))
	require.NoError(t, w.CatchUp(context.Background()))
	assert.Equal(t, 1, sink.Exports(), "nothing new to export on the second pass")

	loader.revision = 2
	require.NoError(t, w.CatchUp(context.Background()))
	assert.Equal(t, 2, sink.Exports())
}

func TestExportFailureKeepsRevisionUnexported(t *testing.T) {
	loader := &stubLoader{budget: workerBudget(t), revision: 3}
	w := NewExportWorker(loader, failingExporter{})

	err := w.HandleChangeMessage(context.Background(), &amqp.BudgetChangedMessage{Revision: 3})
	require.Error(t, err)

	sink := memory.New()
	w.exporter = sink
	require.NoError(t, w.CatchUp(context.Background()),
		"a failed export is retried on the next pass")
	assert.Equal(t, 1, sink.Exports())
}

type failingExporter struct{}

func (failingExporter) ExportSummary(context.Context, int64, core.Summary) error {
	return errors.New("sink unavailable")
}
