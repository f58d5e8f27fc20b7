package ports

import (
	"context"
	"time"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// EntryInput carries the writable fields of an entry.
type EntryInput struct {
	Name        string
	Description string
	Type        domain.EntryType
	Amount      float64
	Date        time.Time
	Paid        *bool // nil keeps the default (false on create)
	CategoryID  int64
}

// EntryDetail is the entry view returned to handlers, with the category
// name resolved for display.
type EntryDetail struct {
	ID           int64
	Name         string
	Description  string
	Type         domain.EntryType
	Amount       float64
	Date         time.Time
	Paid         bool
	CategoryID   int64
	CategoryName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EntryPage is one page of entries plus paging metadata.
type EntryPage struct {
	Items      []EntryDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// PeriodSummary aggregates paid amounts over a date range.
type PeriodSummary struct {
	From    time.Time
	To      time.Time
	Revenue float64
	Expense float64
	Balance float64
}

type EntryService interface {
	Create(ctx context.Context, actor string, input EntryInput) (*EntryDetail, error)
	Get(ctx context.Context, id int64) (*EntryDetail, error)
	GetAll(ctx context.Context) ([]EntryDetail, error)
	GetPaginated(ctx context.Context, page, limit int, sortBy, sortDir string) (*EntryPage, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]EntryDetail, error)
	GetByType(ctx context.Context, t domain.EntryType) ([]EntryDetail, error)
	GetByPaidStatus(ctx context.Context, paid bool) ([]EntryDetail, error)
	GetByDateRange(ctx context.Context, from, to time.Time) ([]EntryDetail, error)
	Update(ctx context.Context, actor string, id int64, input EntryInput) (*EntryDetail, error)
	UpdatePaidStatus(ctx context.Context, actor string, id int64, paid bool) (*EntryDetail, error)
	Delete(ctx context.Context, actor string, id int64) error
	// TotalByType sums paid entries of one type; cached reads may be served.
	TotalByType(ctx context.Context, t domain.EntryType) (float64, error)
	TotalByCategory(ctx context.Context, categoryID int64) (float64, error)
	Summary(ctx context.Context, from, to time.Time) (*PeriodSummary, error)
	Count(ctx context.Context) (int64, error)
}
