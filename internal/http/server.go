package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"bilancio/internal/cache"
	"bilancio/internal/core"
	"bilancio/internal/log"
)

// BudgetService is the application surface the API exposes.
type BudgetService interface {
	Snapshot() *core.Budget
	Revision() int64
	Summary() core.Summary
	SetIncome(ctx context.Context, raw string)
	SetAmount(ctx context.Context, categoryID, raw string) error
	AddCategory(ctx context.Context, label, icon string) (core.Category, error)
	RenameCategory(ctx context.Context, id, label string) error
	SetCategoryIcon(ctx context.Context, id, icon string) error
	RemoveCategory(ctx context.Context, id string) error
	ReorderCategory(ctx context.Context, from, to int)
	ExpandCategory(ctx context.Context, id string) error
	AddItem(ctx context.Context, categoryID, name, rawAmount string) (core.SubItem, error)
	EditItem(ctx context.Context, categoryID, itemID, name, rawAmount string) error
	DeleteItem(ctx context.Context, categoryID, itemID string) error
	SuggestSavings(ctx context.Context) (string, error)
}

type Server struct {
	http.Server
	svc         BudgetService
	rateLimiter *rateLimiter

	// Collapse state is presentation concern, not budget data.
	viewMu   sync.Mutex
	expanded map[string]bool

	// Savings advice per revision, so repeated requests against an
	// unchanged budget never hit the assistant twice.
	adviceCache  *cache.LRUCache[string]
	cacheManager *cache.Manager

	metrics metrics

	shutdownOnce sync.Once
}

// metrics tracks request metrics
type metrics struct {
	totalRequests       int64
	averageResponseTime int64 // in microseconds
}

func (m *metrics) record(duration time.Duration) {
	atomic.AddInt64(&m.totalRequests, 1)
	atomic.StoreInt64(&m.averageResponseTime, duration.Microseconds())
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

// startCleanup runs periodic cleanup to remove stale client entries
func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

// stop gracefully shuts down the rate limiter cleanup goroutine
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{
			lastRequest: now,
			requests:    1,
		}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now

	return client.requests <= 60
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, svc BudgetService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:          svc,
		rateLimiter:  newRateLimiter(),
		expanded:     make(map[string]bool),
		adviceCache:  cache.NewLRUCache[string](32, 30*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.adviceCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("GET /metricsz", s.handleMetrics)

	mux.HandleFunc("GET /api/budget", s.withMiddleware(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budget/income", s.withMiddleware(s.handleSetIncome))
	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleGetSummary))
	mux.HandleFunc("GET /api/breakdown", s.withMiddleware(s.handleGetBreakdown))
	mux.HandleFunc("POST /api/suggestions", s.withMiddleware(s.handleSuggestions))

	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleAddCategory))
	mux.HandleFunc("PATCH /api/categories/{id}", s.withMiddleware(s.handleRenameCategory))
	mux.HandleFunc("PUT /api/categories/{id}/icon", s.withMiddleware(s.handleSetCategoryIcon))
	mux.HandleFunc("PUT /api/categories/{id}/amount", s.withMiddleware(s.handleSetAmount))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleRemoveCategory))
	mux.HandleFunc("POST /api/categories/reorder", s.withMiddleware(s.handleReorderCategory))

	mux.HandleFunc("POST /api/categories/{id}/expand", s.withMiddleware(s.handleExpandCategory))
	mux.HandleFunc("POST /api/categories/{id}/collapse", s.withMiddleware(s.handleCollapseCategory))
	mux.HandleFunc("POST /api/categories/{id}/items", s.withMiddleware(s.handleAddItem))
	mux.HandleFunc("PUT /api/categories/{id}/items/{itemID}", s.withMiddleware(s.handleEditItem))
	mux.HandleFunc("DELETE /api/categories/{id}/items/{itemID}", s.withMiddleware(s.handleDeleteItem))

	return s
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Extract client IP (considering proxies)
		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldUserAgent, r.Header.Get("User-Agent"))

		// Rate limit mutations, reads are free.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", log.FieldClientIP, clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		s.metrics.record(duration)
		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, duration.Milliseconds(),
			log.FieldClientIP, clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]int64{
		"total_requests":        atomic.LoadInt64(&s.metrics.totalRequests),
		"average_response_us":   atomic.LoadInt64(&s.metrics.averageResponseTime),
		"cached_advice_entries": int64(s.adviceCache.Size()),
	})
}

func (s *Server) isExpanded(id string) bool {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	return s.expanded[id]
}

func (s *Server) setExpanded(id string, v bool) {
	s.viewMu.Lock()
	defer s.viewMu.Unlock()
	if v {
		s.expanded[id] = true
	} else {
		delete(s.expanded, id)
	}
}
