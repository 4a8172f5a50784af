package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tradedesk/backend/internal/domain/finance"
	"go.uber.org/zap"
)

// InMemoryStatementCache implements StatementCache in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryStatementCache struct {
	mu      sync.RWMutex
	tenants map[uuid.UUID]*tenantReports
	ttl     time.Duration
	logger  *zap.Logger
	now     func() time.Time

	hits   int64
	misses int64
}

type tenantReports struct {
	statement *cacheEntry[finance.FinancialStatement]
	trial     *cacheEntry[finance.TrialBalance]
}

// cacheEntry wraps a cached value with expiration time
type cacheEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// InMemoryStatementCacheOption is a functional option for configuring the cache
type InMemoryStatementCacheOption func(*InMemoryStatementCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryStatementCacheOption {
	return func(c *InMemoryStatementCache) {
		c.logger = logger
	}
}

// withClock replaces the time source; used by tests
func withClock(now func() time.Time) InMemoryStatementCacheOption {
	return func(c *InMemoryStatementCache) {
		c.now = now
	}
}

// NewInMemoryStatementCache creates an in-memory cache whose entries live for ttl
func NewInMemoryStatementCache(ttl time.Duration, opts ...InMemoryStatementCacheOption) *InMemoryStatementCache {
	c := &InMemoryStatementCache{
		tenants: make(map[uuid.UUID]*tenantReports),
		ttl:     ttl,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetStatement returns the cached financial statement of the tenant
func (c *InMemoryStatementCache) GetStatement(_ context.Context, tenantID uuid.UUID) (*finance.FinancialStatement, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reports, ok := c.tenants[tenantID]
	if !ok || reports.statement == nil || reports.statement.isExpired(c.now()) {
		c.miss(tenantID, ReportFinancialStatement)
		return nil, false, nil
	}
	atomic.AddInt64(&c.hits, 1)
	statement := reports.statement.value
	return &statement, true, nil
}

// SetStatement stores the financial statement of the tenant
func (c *InMemoryStatementCache) SetStatement(_ context.Context, tenantID uuid.UUID, statement *finance.FinancialStatement) error {
	if statement == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports(tenantID).statement = &cacheEntry[finance.FinancialStatement]{
		value:     *statement,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// GetTrialBalance returns the cached trial balance of the tenant
func (c *InMemoryStatementCache) GetTrialBalance(_ context.Context, tenantID uuid.UUID) (*finance.TrialBalance, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	reports, ok := c.tenants[tenantID]
	if !ok || reports.trial == nil || reports.trial.isExpired(c.now()) {
		c.miss(tenantID, ReportTrialBalance)
		return nil, false, nil
	}
	atomic.AddInt64(&c.hits, 1)
	tb := reports.trial.value
	return &tb, true, nil
}

// SetTrialBalance stores the trial balance of the tenant
func (c *InMemoryStatementCache) SetTrialBalance(_ context.Context, tenantID uuid.UUID, tb *finance.TrialBalance) error {
	if tb == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reports(tenantID).trial = &cacheEntry[finance.TrialBalance]{
		value:     *tb,
		expiresAt: c.now().Add(c.ttl),
	}
	return nil
}

// Invalidate drops every cached view of the tenant
func (c *InMemoryStatementCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	delete(c.tenants, tenantID)
	c.mu.Unlock()

	c.logger.Debug("Invalidated statement cache", zap.String("tenant_id", tenantID.String()))
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryStatementCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// reports returns the tenant's entry, creating it. Callers hold the write lock.
func (c *InMemoryStatementCache) reports(tenantID uuid.UUID) *tenantReports {
	reports, ok := c.tenants[tenantID]
	if !ok {
		reports = &tenantReports{}
		c.tenants[tenantID] = reports
	}
	return reports
}

func (c *InMemoryStatementCache) miss(tenantID uuid.UUID, report string) {
	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Statement cache miss",
		zap.String("tenant_id", tenantID.String()),
		zap.String("report", report))
}

var _ StatementCache = (*InMemoryStatementCache)(nil)
