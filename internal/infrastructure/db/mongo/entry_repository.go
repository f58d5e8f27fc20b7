package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

const entriesCollection = "entries"

// EntryRepository is the Mongo-backed entry store.
type EntryRepository struct {
	coll *mongo.Collection
}

func NewEntryRepository(db *mongo.Database) *EntryRepository {
	return &EntryRepository{coll: db.Collection(entriesCollection)}
}

type mongoEntry struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	Type        string    `bson:"type"`
	Amount      float64   `bson:"amount"`
	Date        time.Time `bson:"date"`
	Paid        bool      `bson:"paid"`
	CategoryID  int64     `bson:"category_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// EnsureEntryIndexes creates the query indexes for entry listings.
func EnsureEntryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(entriesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "paid", Value: 1}}},
		{Keys: bson.D{{Key: "category_id", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("ensure entry indexes: %w", err)
	}
	return nil
}

func (r *EntryRepository) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	id, err := nextID(ctx, r.coll.Database(), entriesCollection)
	if err != nil {
		return nil, err
	}

	doc := toMongoEntry(e)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	created := *e
	created.ID = id
	return &created, nil
}

func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.Entry, error) {
	var me mongoEntry
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&me); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}
	return fromMongoEntry(&me), nil
}

func (r *EntryRepository) List(ctx context.Context, filter ports.ListEntriesFilter) ([]*domain.Entry, int64, error) {
	query := listFilter(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	opts := options.Find().SetSort(sortSpec(filter.SortBy, filter.SortDir, "date"))
	if filter.Page > 0 && filter.Limit > 0 {
		opts = opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find entries: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Entry
	for cur.Next(ctx) {
		var me mongoEntry
		if err := cur.Decode(&me); err != nil {
			return nil, 0, fmt.Errorf("decode entry: %w", err)
		}
		out = append(out, fromMongoEntry(&me))
	}
	return out, total, cur.Err()
}

func (r *EntryRepository) Update(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": e.ID}, toMongoEntry(e))
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return e, nil
}

func (r *EntryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// SumByType totals paid entries of one type over all time.
func (r *EntryRepository) SumByType(ctx context.Context, t domain.EntryType) (float64, error) {
	return r.sum(ctx, bson.M{"type": string(t), "paid": true})
}

// SumByCategory totals paid entries referencing the category.
func (r *EntryRepository) SumByCategory(ctx context.Context, categoryID int64) (float64, error) {
	return r.sum(ctx, bson.M{"category_id": categoryID, "paid": true})
}

// SumByTypeInPeriod totals paid entries per type within [from, to].
func (r *EntryRepository) SumByTypeInPeriod(ctx context.Context, from, to time.Time) (*ports.TypeTotals, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{
			"paid": true,
			"date": bson.M{"$gte": from, "$lte": to},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
		}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("sum by type in period: %w", err)
	}
	defer cur.Close(ctx)

	totals := &ports.TypeTotals{}
	for cur.Next(ctx) {
		var group struct {
			Type  string  `bson:"_id"`
			Total float64 `bson:"total"`
		}
		if err := cur.Decode(&group); err != nil {
			return nil, fmt.Errorf("decode sum group: %w", err)
		}
		switch domain.EntryType(group.Type) {
		case domain.TypeRevenue:
			totals.Revenue = group.Total
		case domain.TypeExpense:
			totals.Expense = group.Total
		}
	}
	return totals, cur.Err()
}

func (r *EntryRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("count entries by category: %w", err)
	}
	return n, nil
}

func (r *EntryRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

func (r *EntryRepository) sum(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum entries: %w", err)
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var doc struct {
			Total float64 `bson:"total"`
		}
		if err := cur.Decode(&doc); err != nil {
			return 0, fmt.Errorf("decode sum: %w", err)
		}
		return doc.Total, nil
	}
	return 0, cur.Err()
}

func listFilter(filter ports.ListEntriesFilter) bson.M {
	query := bson.M{}
	if filter.CategoryID != 0 {
		query["category_id"] = filter.CategoryID
	}
	if filter.Type != "" {
		query["type"] = string(filter.Type)
	}
	if filter.Paid != nil {
		query["paid"] = *filter.Paid
	}
	dateRange := bson.M{}
	if !filter.DateFrom.IsZero() {
		dateRange["$gte"] = filter.DateFrom
	}
	if !filter.DateTo.IsZero() {
		dateRange["$lte"] = filter.DateTo
	}
	if len(dateRange) > 0 {
		query["date"] = dateRange
	}
	return query
}

func toMongoEntry(e *domain.Entry) *mongoEntry {
	return &mongoEntry{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Type:        string(e.Type),
		Amount:      e.Amount,
		Date:        e.Date,
		Paid:        e.Paid,
		CategoryID:  e.CategoryID,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func fromMongoEntry(me *mongoEntry) *domain.Entry {
	return &domain.Entry{
		ID:          me.ID,
		Name:        me.Name,
		Description: me.Description,
		Type:        domain.EntryType(me.Type),
		Amount:      me.Amount,
		Date:        me.Date,
		Paid:        me.Paid,
		CategoryID:  me.CategoryID,
		CreatedAt:   me.CreatedAt,
		UpdatedAt:   me.UpdatedAt,
	}
}
