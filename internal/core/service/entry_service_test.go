package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

type stubEntryRepo struct {
	mu      sync.Mutex
	entries map[int64]*domain.Entry
	nextID  int64
}

func newStubEntryRepo() *stubEntryRepo {
	return &stubEntryRepo{entries: make(map[int64]*domain.Entry)}
}

func (r *stubEntryRepo) add(e *domain.Entry) *domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *e
	clone.ID = r.nextID
	r.entries[clone.ID] = &clone
	out := clone
	return &out
}

func (r *stubEntryRepo) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[int64]*domain.Entry)
}

func (r *stubEntryRepo) Create(_ context.Context, e *domain.Entry) (*domain.Entry, error) {
	return r.add(e), nil
}

func (r *stubEntryRepo) FindByID(_ context.Context, id int64) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[id]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, domain.ErrEntryNotFound
}

func matchesFilter(e *domain.Entry, f ports.ListEntriesFilter) bool {
	if f.CategoryID != 0 && e.CategoryID != f.CategoryID {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	if f.Paid != nil && e.Paid != *f.Paid {
		return false
	}
	if !f.DateFrom.IsZero() && e.Date.Before(f.DateFrom) {
		return false
	}
	if !f.DateTo.IsZero() && e.Date.After(f.DateTo) {
		return false
	}
	return true
}

func (r *stubEntryRepo) List(_ context.Context, filter ports.ListEntriesFilter) ([]*domain.Entry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Entry, 0)
	for _, e := range r.entries {
		if matchesFilter(e, filter) {
			clone := *e
			out = append(out, &clone)
		}
	}
	total := int64(len(out))
	if filter.Page > 0 && filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start >= len(out) {
			return nil, total, nil
		}
		end := start + filter.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (r *stubEntryRepo) Update(_ context.Context, e *domain.Entry) (*domain.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.ID]; !ok {
		return nil, domain.ErrEntryNotFound
	}
	clone := *e
	r.entries[e.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubEntryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[id]; !ok {
		return domain.ErrEntryNotFound
	}
	delete(r.entries, id)
	return nil
}

func (r *stubEntryRepo) SumByType(_ context.Context, t domain.EntryType) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, e := range r.entries {
		if e.Type == t && e.Paid {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (r *stubEntryRepo) SumByCategory(_ context.Context, categoryID int64) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, e := range r.entries {
		if e.CategoryID == categoryID && e.Paid {
			sum += e.Amount
		}
	}
	return sum, nil
}

func (r *stubEntryRepo) SumByTypeInPeriod(_ context.Context, from, to time.Time) (*ports.TypeTotals, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := &ports.TypeTotals{}
	for _, e := range r.entries {
		if !e.Paid || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		switch e.Type {
		case domain.TypeRevenue:
			totals.Revenue += e.Amount
		case domain.TypeExpense:
			totals.Expense += e.Amount
		}
	}
	return totals, nil
}

func (r *stubEntryRepo) CountByCategory(_ context.Context, categoryID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, e := range r.entries {
		if e.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *stubEntryRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

// recordingTotalsCache is an in-memory TotalsCache that counts operations.
type recordingTotalsCache struct {
	mu           sync.Mutex
	values       map[string]float64
	sets         int
	invalidation int
}

func newRecordingTotalsCache() *recordingTotalsCache {
	return &recordingTotalsCache{values: make(map[string]float64)}
}

func (c *recordingTotalsCache) Get(_ context.Context, key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok
}

func (c *recordingTotalsCache) Set(_ context.Context, key string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	c.sets++
}

func (c *recordingTotalsCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]float64)
	c.invalidation++
}

type entryFixture struct {
	svc        *EntryService
	entries    *stubEntryRepo
	categories *stubCategoryRepo
	totals     *recordingTotalsCache
	audit      *recordingAuditTrail
	category   *ports.CategoryDetail
}

func newEntryFixture(t *testing.T) *entryFixture {
	t.Helper()
	entries := newStubEntryRepo()
	categories := newStubCategoryRepo()
	totals := newRecordingTotalsCache()
	audit := &recordingAuditTrail{}
	svc := NewEntryService(entries, categories, totals, audit, zerolog.Nop())

	catSvc := newCategoryService(categories, entries)
	category, err := catSvc.Create(context.Background(), ports.CategoryInput{Name: "Housing"})
	if err != nil {
		t.Fatalf("fixture category: %v", err)
	}

	return &entryFixture{svc: svc, entries: entries, categories: categories, totals: totals, audit: audit, category: category}
}

func TestEntryService_Create(t *testing.T) {
	f := newEntryFixture(t)

	detail, err := f.svc.Create(context.Background(), "alice@example.com", ports.EntryInput{
		Name:       "Rent",
		Type:       domain.TypeExpense,
		Amount:     900,
		Date:       day(2026, 1, 5),
		CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.Paid {
		t.Fatalf("paid should default to false")
	}
	if detail.CategoryName != "Housing" {
		t.Fatalf("category name not resolved: %+v", detail)
	}

	paid := true
	detail, err = f.svc.Create(context.Background(), "alice@example.com", ports.EntryInput{
		Name:       "Salary",
		Type:       domain.TypeRevenue,
		Amount:     3000,
		Date:       day(2026, 1, 1),
		Paid:       &paid,
		CategoryID: f.category.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !detail.Paid {
		t.Fatalf("explicit paid flag ignored")
	}

	if f.totals.invalidation != 2 {
		t.Fatalf("expected 2 cache invalidations, got %d", f.totals.invalidation)
	}
	actions := f.audit.actions()
	if len(actions) != 2 || actions[0] != domain.AuditEntryCreated {
		t.Fatalf("creates not audited: %v", actions)
	}
}

func TestEntryService_Create_UnknownCategory(t *testing.T) {
	f := newEntryFixture(t)

	_, err := f.svc.Create(context.Background(), "alice@example.com", ports.EntryInput{
		Name:       "Rent",
		Type:       domain.TypeExpense,
		Amount:     900,
		Date:       day(2026, 1, 5),
		CategoryID: 999,
	})
	if !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestEntryService_TotalByType_Cached(t *testing.T) {
	f := newEntryFixture(t)

	f.entries.add(&domain.Entry{Name: "Salary", Type: domain.TypeRevenue, Amount: 3000, Paid: true, CategoryID: f.category.ID, Date: day(2026, 1, 1)})
	f.entries.add(&domain.Entry{Name: "Bonus", Type: domain.TypeRevenue, Amount: 500, Paid: false, CategoryID: f.category.ID, Date: day(2026, 1, 15)})

	// Unpaid entries must not count.
	total, err := f.svc.TotalByType(context.Background(), domain.TypeRevenue)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 3000 {
		t.Fatalf("expected 3000, got %v", total)
	}
	if f.totals.sets != 1 {
		t.Fatalf("first read should populate the cache")
	}

	// Second read is served from cache even though the repo changed.
	f.entries.add(&domain.Entry{Name: "Extra", Type: domain.TypeRevenue, Amount: 100, Paid: true, CategoryID: f.category.ID, Date: day(2026, 1, 20)})
	total, err = f.svc.TotalByType(context.Background(), domain.TypeRevenue)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 3000 {
		t.Fatalf("expected cached 3000, got %v", total)
	}

	// A mutation invalidates and the next read sees fresh data.
	if _, err := f.svc.Create(context.Background(), "alice@example.com", ports.EntryInput{
		Name: "Gift", Type: domain.TypeRevenue, Amount: 50, Date: day(2026, 1, 25), CategoryID: f.category.ID,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	total, err = f.svc.TotalByType(context.Background(), domain.TypeRevenue)
	if err != nil {
		t.Fatalf("total: %v", err)
	}
	if total != 3100 {
		t.Fatalf("expected fresh 3100, got %v", total)
	}
}

func TestEntryService_TotalByCategory_UnknownCategory(t *testing.T) {
	f := newEntryFixture(t)
	if _, err := f.svc.TotalByCategory(context.Background(), 999); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestEntryService_Summary(t *testing.T) {
	f := newEntryFixture(t)

	f.entries.add(&domain.Entry{Name: "Salary", Type: domain.TypeRevenue, Amount: 3000, Paid: true, CategoryID: f.category.ID, Date: day(2026, 1, 1)})
	f.entries.add(&domain.Entry{Name: "Rent", Type: domain.TypeExpense, Amount: 900, Paid: true, CategoryID: f.category.ID, Date: day(2026, 1, 5)})
	f.entries.add(&domain.Entry{Name: "Later", Type: domain.TypeExpense, Amount: 999, Paid: true, CategoryID: f.category.ID, Date: day(2026, 2, 5)})
	f.entries.add(&domain.Entry{Name: "Unpaid", Type: domain.TypeExpense, Amount: 50, Paid: false, CategoryID: f.category.ID, Date: day(2026, 1, 10)})

	summary, err := f.svc.Summary(context.Background(), day(2026, 1, 1), day(2026, 1, 31))
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Revenue != 3000 || summary.Expense != 900 || summary.Balance != 2100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestEntryService_UpdatePaidStatus(t *testing.T) {
	f := newEntryFixture(t)

	created := f.entries.add(&domain.Entry{Name: "Rent", Type: domain.TypeExpense, Amount: 900, CategoryID: f.category.ID, Date: day(2026, 1, 5)})

	detail, err := f.svc.UpdatePaidStatus(context.Background(), "alice@example.com", created.ID, true)
	if err != nil {
		t.Fatalf("update paid: %v", err)
	}
	if !detail.Paid {
		t.Fatalf("paid flag not set")
	}
	if f.totals.invalidation != 1 {
		t.Fatalf("mutation did not invalidate cache")
	}

	if _, err := f.svc.UpdatePaidStatus(context.Background(), "alice@example.com", 999, true); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryService_Delete(t *testing.T) {
	f := newEntryFixture(t)

	created := f.entries.add(&domain.Entry{Name: "Rent", Type: domain.TypeExpense, Amount: 900, CategoryID: f.category.ID, Date: day(2026, 1, 5)})

	if err := f.svc.Delete(context.Background(), "alice@example.com", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), created.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound after delete, got %v", err)
	}

	actions := f.audit.actions()
	if len(actions) != 1 || actions[0] != domain.AuditEntryDeleted {
		t.Fatalf("delete not audited: %v", actions)
	}

	if err := f.svc.Delete(context.Background(), "alice@example.com", created.ID); !errors.Is(err, domain.ErrEntryNotFound) {
		t.Fatalf("double delete: expected ErrEntryNotFound, got %v", err)
	}
}

func TestEntryService_Filters(t *testing.T) {
	f := newEntryFixture(t)

	f.entries.add(&domain.Entry{Name: "Salary", Type: domain.TypeRevenue, Amount: 3000, Paid: true, CategoryID: f.category.ID, Date: day(2026, 1, 1)})
	f.entries.add(&domain.Entry{Name: "Rent", Type: domain.TypeExpense, Amount: 900, Paid: false, CategoryID: f.category.ID, Date: day(2026, 1, 5)})

	byType, err := f.svc.GetByType(context.Background(), domain.TypeExpense)
	if err != nil {
		t.Fatalf("by type: %v", err)
	}
	if len(byType) != 1 || byType[0].Name != "Rent" {
		t.Fatalf("unexpected type filter result: %+v", byType)
	}

	paid, err := f.svc.GetByPaidStatus(context.Background(), true)
	if err != nil {
		t.Fatalf("by paid: %v", err)
	}
	if len(paid) != 1 || paid[0].Name != "Salary" {
		t.Fatalf("unexpected paid filter result: %+v", paid)
	}

	ranged, err := f.svc.GetByDateRange(context.Background(), day(2026, 1, 2), day(2026, 1, 31))
	if err != nil {
		t.Fatalf("by range: %v", err)
	}
	if len(ranged) != 1 || ranged[0].Name != "Rent" {
		t.Fatalf("unexpected range filter result: %+v", ranged)
	}

	byCategory, err := f.svc.GetByCategory(context.Background(), f.category.ID)
	if err != nil {
		t.Fatalf("by category: %v", err)
	}
	if len(byCategory) != 2 {
		t.Fatalf("unexpected category filter result: %+v", byCategory)
	}
	if _, err := f.svc.GetByCategory(context.Background(), 999); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
