package ports

import (
	"context"

	"github.com/finansys/finansys-api/internal/core/domain"
)

// ListCategoriesFilter carries pagination and sorting for category listings.
type ListCategoriesFilter struct {
	SortBy  string // "name" or "created_at"
	SortDir string // "asc" or "desc"
	Page    int    // 1-based
	Limit   int    // capped by the service
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) (*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	// FindAll returns every category sorted by name ascending.
	FindAll(ctx context.Context) ([]*domain.Category, error)
	// List returns a page of categories and the total count.
	List(ctx context.Context, filter ListCategoriesFilter) ([]*domain.Category, int64, error)
	// Search matches term as a substring of name or description.
	Search(ctx context.Context, term string) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByNameExcludingID(ctx context.Context, name string, id int64) (bool, error)
	Count(ctx context.Context) (int64, error)
}
