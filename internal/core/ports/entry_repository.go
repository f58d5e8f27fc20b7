package ports

import (
	"context"
	"time"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// ListEntriesFilter carries query parameters for entry listings. Zero values
// mean "no filter" for the optional fields.
type ListEntriesFilter struct {
	CategoryID int64
	Type       domain.EntryType
	Paid       *bool
	DateFrom   time.Time
	DateTo     time.Time
	SortBy     string // "date", "name", "amount" or "created_at"
	SortDir    string // "asc" or "desc"
	Page       int    // 1-based; 0 disables pagination
	Limit      int
}

// TypeTotals aggregates paid amounts by entry type over a period.
type TypeTotals struct {
	Revenue float64
	Expense float64
}

// EntryRepository defines persistence operations for entries.
type EntryRepository interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	FindByID(ctx context.Context, id int64) (*domain.Entry, error)
	// List returns a page of entries matching filter and the total count.
	List(ctx context.Context, filter ListEntriesFilter) ([]*domain.Entry, int64, error)
	Update(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	Delete(ctx context.Context, id int64) error
	// SumByType totals paid entries of one type over all time.
	SumByType(ctx context.Context, t domain.EntryType) (float64, error)
	// SumByCategory totals paid entries referencing the category.
	SumByCategory(ctx context.Context, categoryID int64) (float64, error)
	// SumByTypeInPeriod totals paid entries per type within [from, to].
	SumByTypeInPeriod(ctx context.Context, from, to time.Time) (*TypeTotals, error)
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)
	Count(ctx context.Context) (int64, error)
}
