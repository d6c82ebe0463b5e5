package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilancio/internal/core"
)

func fakeService(t *testing.T, status int, text string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(messagesResponse{
			Content: []contentBlock{{Type: "text", Text: text}},
		})
	}))
}

func testClient(url string) *Client {
	return NewClient(Config{
		Endpoint: url,
		APIKey:   "test-key",
		Model:    "test-model",
		Timeout:  2 * time.Second,
	})
}

func spendingSummary(t *testing.T) core.Summary {
	t.Helper()
	b := core.NewBudget()
	b.SetIncome("2000")
	cat, err := b.AddCategory("Food", "🍽️")
	require.NoError(t, err)
	require.NoError(t, b.SetAmount(cat.ID, "300"))
	return b.BuildSummary()
}

func TestSuggestIcon(t *testing.T) {
	srv := fakeService(t, http.StatusOK, " 🚗 \n")
	defer srv.Close()

	got := testClient(srv.URL).SuggestIcon(context.Background(), "Transportation")
	assert.Equal(t, "🚗", got)
}

func TestSuggestIconFallbacks(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := fakeService(t, http.StatusInternalServerError, "boom")
		defer srv.Close()
		got := testClient(srv.URL).SuggestIcon(context.Background(), "Food")
		assert.Equal(t, DefaultIcon, got)
	})

	t.Run("empty response body", func(t *testing.T) {
		srv := fakeService(t, http.StatusOK, "   ")
		defer srv.Close()
		got := testClient(srv.URL).SuggestIcon(context.Background(), "Food")
		assert.Equal(t, DefaultIcon, got)
	})

	t.Run("unconfigured client", func(t *testing.T) {
		got := NewClient(Config{}).SuggestIcon(context.Background(), "Food")
		assert.Equal(t, DefaultIcon, got)
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		c := testClient("http://127.0.0.1:1")
		got := c.SuggestIcon(context.Background(), "Food")
		assert.Equal(t, DefaultIcon, got)
	})
}

func TestSuggestSavings(t *testing.T) {
	srv := fakeService(t, http.StatusOK, "- Cook at home more often.")
	defer srv.Close()

	got := testClient(srv.URL).SuggestSavings(context.Background(), spendingSummary(t))
	assert.Equal(t, "- Cook at home more often.", got)
}

func TestSuggestSavingsEmptyBudget(t *testing.T) {
	srv := fakeService(t, http.StatusOK, "should never be called")
	defer srv.Close()

	got := testClient(srv.URL).SuggestSavings(context.Background(), core.NewBudget().BuildSummary())
	assert.Equal(t, EmptyBudgetAdvice, got)
}

func TestSuggestSavingsFallback(t *testing.T) {
	srv := fakeService(t, http.StatusBadGateway, "no")
	defer srv.Close()

	got := testClient(srv.URL).SuggestSavings(context.Background(), spendingSummary(t))
	assert.Equal(t, FallbackAdvice, got)
}

func TestSavingsPromptIncludesBreakdown(t *testing.T) {
	b := core.NewBudget()
	b.SetIncome("2000")
	cat, err := b.AddCategory("Food", "🍽️")
	require.NoError(t, err)
	_, err = b.AddItem(cat.ID, "Groceries", "250")
	require.NoError(t, err)

	prompt := savingsPrompt(b.BuildSummary())
	assert.Contains(t, prompt, "Monthly Income (after tax): $2,000.00")
	assert.Contains(t, prompt, "- Food: $250.00 (12.5% of income)")
	assert.Contains(t, prompt, "Items: Groceries $250.00")
}
