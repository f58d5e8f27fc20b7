package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// CategoryService implements category CRUD, search and pagination.
type CategoryService struct {
	categories ports.CategoryRepository
	entries    ports.EntryRepository
	logger     zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, entries ports.EntryRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, entries: entries, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, input ports.CategoryInput) (*ports.CategoryDetail, error) {
	taken, err := s.categories.ExistsByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrCategoryNameTaken
	}

	created, err := s.categories.Create(ctx, domain.NewCategory(input.Name, input.Description))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("category_id", created.ID).Str("name", created.Name).Msg("category created")
	return s.toDetail(ctx, created)
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*ports.CategoryDetail, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, category)
}

func (s *CategoryService) GetAll(ctx context.Context) ([]ports.CategoryDetail, error) {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, categories)
}

func (s *CategoryService) GetPaginated(ctx context.Context, page, limit int, sortBy, sortDir string) (*ports.CategoryPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.categories.List(ctx, ports.ListCategoriesFilter{
		SortBy:  sortBy,
		SortDir: sortDir,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	details, err := s.toDetails(ctx, items)
	if err != nil {
		return nil, err
	}

	return &ports.CategoryPage{
		Items:      details,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *CategoryService) Search(ctx context.Context, term string) ([]ports.CategoryDetail, error) {
	categories, err := s.categories.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, categories)
}

func (s *CategoryService) Update(ctx context.Context, id int64, input ports.CategoryInput) (*ports.CategoryDetail, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.categories.ExistsByNameExcludingID(ctx, input.Name, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrCategoryNameTaken
	}

	category.Name = input.Name
	category.Description = input.Description
	category.UpdatedAt = time.Now().UTC()

	updated, err := s.categories.Update(ctx, category)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, updated)
}

// Delete removes a category. Categories still referenced by entries cannot
// be deleted.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		return err
	}

	n, err := s.entries.CountByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrCategoryInUse
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	return s.categories.Count(ctx)
}

func (s *CategoryService) toDetail(ctx context.Context, c *domain.Category) (*ports.CategoryDetail, error) {
	entryCount, err := s.entries.CountByCategory(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &ports.CategoryDetail{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		EntryCount:  entryCount,
	}, nil
}

func (s *CategoryService) toDetails(ctx context.Context, categories []*domain.Category) ([]ports.CategoryDetail, error) {
	details := make([]ports.CategoryDetail, 0, len(categories))
	for _, c := range categories {
		d, err := s.toDetail(ctx, c)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
