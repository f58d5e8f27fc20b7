package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finansys/finansys-api/internal/api/metrics"
	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

// EntryService implements entry CRUD, filtered listings and paid-only sum
// aggregations. Sums are served through a short-TTL cache that is
// invalidated on every mutation.
type EntryService struct {
	entries    ports.EntryRepository
	categories ports.CategoryRepository
	totals     ports.TotalsCache
	audit      ports.AuditTrail
	logger     zerolog.Logger
}

func NewEntryService(entries ports.EntryRepository, categories ports.CategoryRepository, totals ports.TotalsCache, audit ports.AuditTrail, logger zerolog.Logger) *EntryService {
	if totals == nil {
		totals = ports.NopTotalsCache{}
	}
	if audit == nil {
		audit = ports.NopAuditTrail{}
	}
	return &EntryService{entries: entries, categories: categories, totals: totals, audit: audit, logger: logger}
}

func (s *EntryService) Create(ctx context.Context, actor string, input ports.EntryInput) (*ports.EntryDetail, error) {
	category, err := s.categories.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry := &domain.Entry{
		Name:        input.Name,
		Description: input.Description,
		Type:        input.Type,
		Amount:      input.Amount,
		Date:        input.Date,
		CategoryID:  input.CategoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.Paid != nil {
		entry.Paid = *input.Paid
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.totals.Invalidate(ctx)
	metrics.EntryMutationsTotal.WithLabelValues("create", string(created.Type)).Inc()
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    domain.AuditEntryCreated,
		Detail:    fmt.Sprintf("entry %d (%s)", created.ID, created.Name),
		Timestamp: now,
	})
	s.logger.Info().Int64("entry_id", created.ID).Str("type", string(created.Type)).Msg("entry created")

	return toEntryDetail(created, category.Name), nil
}

func (s *EntryService) Get(ctx context.Context, id int64) (*ports.EntryDetail, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEntryDetail(entry, s.categoryName(ctx, entry.CategoryID)), nil
}

func (s *EntryService) GetAll(ctx context.Context) ([]ports.EntryDetail, error) {
	items, _, err := s.entries.List(ctx, ports.ListEntriesFilter{SortBy: "date", SortDir: "desc"})
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, items), nil
}

func (s *EntryService) GetPaginated(ctx context.Context, page, limit int, sortBy, sortDir string) (*ports.EntryPage, error) {
	page, limit = normalizePage(page, limit)
	items, total, err := s.entries.List(ctx, ports.ListEntriesFilter{
		SortBy:  sortBy,
		SortDir: sortDir,
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.EntryPage{
		Items:      s.toDetails(ctx, items),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *EntryService) GetByCategory(ctx context.Context, categoryID int64) ([]ports.EntryDetail, error) {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	items, _, err := s.entries.List(ctx, ports.ListEntriesFilter{CategoryID: categoryID, SortBy: "date", SortDir: "desc"})
	if err != nil {
		return nil, err
	}

	details := make([]ports.EntryDetail, 0, len(items))
	for _, e := range items {
		details = append(details, *toEntryDetail(e, category.Name))
	}
	return details, nil
}

func (s *EntryService) GetByType(ctx context.Context, t domain.EntryType) ([]ports.EntryDetail, error) {
	items, _, err := s.entries.List(ctx, ports.ListEntriesFilter{Type: t, SortBy: "date", SortDir: "desc"})
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, items), nil
}

func (s *EntryService) GetByPaidStatus(ctx context.Context, paid bool) ([]ports.EntryDetail, error) {
	items, _, err := s.entries.List(ctx, ports.ListEntriesFilter{Paid: &paid, SortBy: "date", SortDir: "desc"})
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, items), nil
}

func (s *EntryService) GetByDateRange(ctx context.Context, from, to time.Time) ([]ports.EntryDetail, error) {
	items, _, err := s.entries.List(ctx, ports.ListEntriesFilter{DateFrom: from, DateTo: to, SortBy: "date", SortDir: "desc"})
	if err != nil {
		return nil, err
	}
	return s.toDetails(ctx, items), nil
}

func (s *EntryService) Update(ctx context.Context, actor string, id int64, input ports.EntryInput) (*ports.EntryDetail, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	entry.Name = input.Name
	entry.Description = input.Description
	entry.Type = input.Type
	entry.Amount = input.Amount
	entry.Date = input.Date
	entry.CategoryID = input.CategoryID
	if input.Paid != nil {
		entry.Paid = *input.Paid
	}
	entry.UpdatedAt = time.Now().UTC()

	updated, err := s.entries.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.totals.Invalidate(ctx)
	metrics.EntryMutationsTotal.WithLabelValues("update", string(updated.Type)).Inc()
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    domain.AuditEntryUpdated,
		Detail:    fmt.Sprintf("entry %d", updated.ID),
		Timestamp: entry.UpdatedAt,
	})

	return toEntryDetail(updated, category.Name), nil
}

func (s *EntryService) UpdatePaidStatus(ctx context.Context, actor string, id int64, paid bool) (*ports.EntryDetail, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Paid = paid
	entry.UpdatedAt = time.Now().UTC()

	updated, err := s.entries.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.totals.Invalidate(ctx)
	metrics.EntryMutationsTotal.WithLabelValues("update", string(updated.Type)).Inc()
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    domain.AuditEntryUpdated,
		Detail:    fmt.Sprintf("entry %d paid=%t", updated.ID, paid),
		Timestamp: entry.UpdatedAt,
	})

	return toEntryDetail(updated, s.categoryName(ctx, updated.CategoryID)), nil
}

func (s *EntryService) Delete(ctx context.Context, actor string, id int64) error {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}

	s.totals.Invalidate(ctx)
	metrics.EntryMutationsTotal.WithLabelValues("delete", string(entry.Type)).Inc()
	s.audit.Record(domain.AuditEvent{
		Actor:     actor,
		Action:    domain.AuditEntryDeleted,
		Detail:    fmt.Sprintf("entry %d (%s)", entry.ID, entry.Name),
		Timestamp: time.Now().UTC(),
	})
	s.logger.Info().Int64("entry_id", id).Msg("entry deleted")
	return nil
}

// TotalByType sums paid entries of one type, serving cached values when fresh.
func (s *EntryService) TotalByType(ctx context.Context, t domain.EntryType) (float64, error) {
	key := "total:type:" + string(t)
	if v, ok := s.totals.Get(ctx, key); ok {
		return v, nil
	}

	total, err := s.entries.SumByType(ctx, t)
	if err != nil {
		return 0, err
	}
	s.totals.Set(ctx, key, total)
	return total, nil
}

func (s *EntryService) TotalByCategory(ctx context.Context, categoryID int64) (float64, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return 0, err
	}

	key := fmt.Sprintf("total:category:%d", categoryID)
	if v, ok := s.totals.Get(ctx, key); ok {
		return v, nil
	}

	total, err := s.entries.SumByCategory(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	s.totals.Set(ctx, key, total)
	return total, nil
}

// Summary aggregates paid amounts per type over [from, to].
func (s *EntryService) Summary(ctx context.Context, from, to time.Time) (*ports.PeriodSummary, error) {
	totals, err := s.entries.SumByTypeInPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return &ports.PeriodSummary{
		From:    from,
		To:      to,
		Revenue: totals.Revenue,
		Expense: totals.Expense,
		Balance: totals.Revenue - totals.Expense,
	}, nil
}

func (s *EntryService) Count(ctx context.Context) (int64, error) {
	return s.entries.Count(ctx)
}

// categoryName resolves a category name for display; a dangling reference
// renders as an empty name rather than failing the read.
func (s *EntryService) categoryName(ctx context.Context, categoryID int64) string {
	category, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		return ""
	}
	return category.Name
}

func (s *EntryService) toDetails(ctx context.Context, items []*domain.Entry) []ports.EntryDetail {
	details := make([]ports.EntryDetail, 0, len(items))
	for _, e := range items {
		details = append(details, *toEntryDetail(e, s.categoryName(ctx, e.CategoryID)))
	}
	return details
}

func toEntryDetail(e *domain.Entry, categoryName string) *ports.EntryDetail {
	return &ports.EntryDetail{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Type:         e.Type,
		Amount:       e.Amount,
		Date:         e.Date,
		Paid:         e.Paid,
		CategoryID:   e.CategoryID,
		CategoryName: categoryName,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
