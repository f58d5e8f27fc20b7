package ports

import (
	"context"
	"time"
)

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// CategoryDetail is the category view returned to handlers, including the
// number of entries currently referencing it.
type CategoryDetail struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	EntryCount  int64
}

// CategoryPage is one page of categories plus paging metadata.
type CategoryPage struct {
	Items      []CategoryDetail
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type CategoryService interface {
	Create(ctx context.Context, input CategoryInput) (*CategoryDetail, error)
	Get(ctx context.Context, id int64) (*CategoryDetail, error)
	GetAll(ctx context.Context) ([]CategoryDetail, error)
	GetPaginated(ctx context.Context, page, limit int, sortBy, sortDir string) (*CategoryPage, error)
	Search(ctx context.Context, term string) ([]CategoryDetail, error)
	Update(ctx context.Context, id int64, input CategoryInput) (*CategoryDetail, error)
	// Delete fails with domain.ErrCategoryInUse while entries reference the category.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
