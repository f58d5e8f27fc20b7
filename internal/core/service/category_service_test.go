package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

type stubCategoryRepo struct {
	mu         sync.Mutex
	categories map[int64]*domain.Category
	nextID     int64
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{categories: make(map[int64]*domain.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	clone := *c
	clone.ID = r.nextID
	r.categories[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) FindAll(_ context.Context) ([]*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) List(ctx context.Context, filter ports.ListCategoriesFilter) ([]*domain.Category, int64, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	start := (filter.Page - 1) * filter.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + filter.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *stubCategoryRepo) Search(ctx context.Context, term string) ([]*domain.Category, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(term)
	out := make([]*domain.Category, 0)
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), term) || strings.Contains(strings.ToLower(c.Description), term) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	r.categories[c.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) ExistsByNameExcludingID(_ context.Context, name string, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Name == name && c.ID != id {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubCategoryRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.categories)), nil
}

func newCategoryService(categories *stubCategoryRepo, entries *stubEntryRepo) *CategoryService {
	return NewCategoryService(categories, entries, zerolog.Nop())
}

func TestCategoryService_Create(t *testing.T) {
	svc := newCategoryService(newStubCategoryRepo(), newStubEntryRepo())

	detail, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing", Description: "Rent and utilities"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if detail.ID == 0 || detail.Name != "Housing" {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.EntryCount != 0 {
		t.Fatalf("fresh category should have zero entries")
	}
}

func TestCategoryService_Create_DuplicateName(t *testing.T) {
	svc := newCategoryService(newStubCategoryRepo(), newStubEntryRepo())

	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing"}); !errors.Is(err, domain.ErrCategoryNameTaken) {
		t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
	}
}

func TestCategoryService_Update_NameConflict(t *testing.T) {
	svc := newCategoryService(newStubCategoryRepo(), newStubEntryRepo())

	a, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Food"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Renaming onto another category's name must fail.
	if _, err := svc.Update(context.Background(), a.ID, ports.CategoryInput{Name: "Food"}); !errors.Is(err, domain.ErrCategoryNameTaken) {
		t.Fatalf("expected ErrCategoryNameTaken, got %v", err)
	}

	// Keeping its own name is fine.
	updated, err := svc.Update(context.Background(), a.ID, ports.CategoryInput{Name: "Housing", Description: "updated"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "updated" {
		t.Fatalf("description not updated: %+v", updated)
	}
}

func TestCategoryService_Delete_InUse(t *testing.T) {
	categories := newStubCategoryRepo()
	entries := newStubEntryRepo()
	svc := newCategoryService(categories, entries)

	detail, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	entries.add(&domain.Entry{Name: "Rent", Type: domain.TypeExpense, Amount: 900, CategoryID: detail.ID, Paid: true, Date: day(2026, 1, 5)})

	if err := svc.Delete(context.Background(), detail.ID); !errors.Is(err, domain.ErrCategoryInUse) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}

	entries.clear()
	if err := svc.Delete(context.Background(), detail.ID); err != nil {
		t.Fatalf("delete after entries removed: %v", err)
	}
	if _, err := svc.Get(context.Background(), detail.ID); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound after delete, got %v", err)
	}
}

func TestCategoryService_GetPaginated_Normalization(t *testing.T) {
	categories := newStubCategoryRepo()
	svc := newCategoryService(categories, newStubEntryRepo())

	for _, name := range []string{"A", "B", "C"} {
		if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	// Page and limit below range are normalized, not rejected.
	page, err := svc.GetPaginated(context.Background(), 0, -5, "name", "asc")
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if page.Page != 1 || page.Limit != defaultPageLimit {
		t.Fatalf("normalization failed: page=%d limit=%d", page.Page, page.Limit)
	}
	if page.Total != 3 || page.TotalPages != 1 {
		t.Fatalf("unexpected paging metadata: %+v", page)
	}

	page, err = svc.GetPaginated(context.Background(), 1, 2, "name", "asc")
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if len(page.Items) != 2 || page.TotalPages != 2 {
		t.Fatalf("unexpected page: items=%d totalPages=%d", len(page.Items), page.TotalPages)
	}

	page, err = svc.GetPaginated(context.Background(), 1, 1000, "name", "asc")
	if err != nil {
		t.Fatalf("paginated: %v", err)
	}
	if page.Limit != maxPageLimit {
		t.Fatalf("limit not capped: %d", page.Limit)
	}
}

func TestCategoryService_Search(t *testing.T) {
	svc := newCategoryService(newStubCategoryRepo(), newStubEntryRepo())

	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Housing", Description: "Rent"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.CategoryInput{Name: "Food", Description: "Groceries"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.Search(context.Background(), "hous")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(found) != 1 || found[0].Name != "Housing" {
		t.Fatalf("unexpected search result: %+v", found)
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
