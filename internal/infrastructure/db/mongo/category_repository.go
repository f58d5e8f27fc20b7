package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/finansys/finansys-api/internal/core/domain"
	"github.com/finansys/finansys-api/internal/core/ports"
)

const categoriesCollection = "categories"

// CategoryRepository is the Mongo-backed category store.
type CategoryRepository struct {
	coll *mongo.Collection
}

func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{coll: db.Collection(categoriesCollection)}
}

type mongoCategory struct {
	ID          int64     `bson:"_id"`
	Name        string    `bson:"name"`
	Description string    `bson:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// EnsureCategoryIndexes creates the unique name index. Called once at startup.
func EnsureCategoryIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(categoriesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure category indexes: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	id, err := nextID(ctx, r.coll.Database(), categoriesCollection)
	if err != nil {
		return nil, err
	}

	doc := toMongoCategory(c)
	doc.ID = id

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	created := *c
	created.ID = id
	return &created, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id int64) (*domain.Category, error) {
	var mc mongoCategory
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return fromMongoCategory(&mc), nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]*domain.Category, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *CategoryRepository) List(ctx context.Context, filter ports.ListCategoriesFilter) ([]*domain.Category, int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	opts := options.Find().
		SetSort(sortSpec(filter.SortBy, filter.SortDir, "name")).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	items, err := r.find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *CategoryRepository) Search(ctx context.Context, term string) ([]*domain.Category, error) {
	return r.find(ctx, searchFilter(term), options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

// searchFilter matches term as a literal, case-insensitive substring of name
// or description. The term is quoted so regex metacharacters ("(", "+", ".")
// cannot change the match semantics or make the server reject the query.
func searchFilter(term string) bson.M {
	quoted := regexp.QuoteMeta(term)
	return bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": quoted, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": quoted, "$options": "i"}},
	}}
}

func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": c.ID}, toMongoCategory(c))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, bson.M{"name": name})
}

func (r *CategoryRepository) ExistsByNameExcludingID(ctx context.Context, name string, id int64) (bool, error) {
	return r.exists(ctx, bson.M{"name": name, "_id": bson.M{"$ne": id}})
}

func (r *CategoryRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *CategoryRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Category, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find categories: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Category
	for cur.Next(ctx) {
		var mc mongoCategory
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode category: %w", err)
		}
		out = append(out, fromMongoCategory(&mc))
	}
	return out, cur.Err()
}

func (r *CategoryRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return n > 0, nil
}

func toMongoCategory(c *domain.Category) *mongoCategory {
	return &mongoCategory{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromMongoCategory(mc *mongoCategory) *domain.Category {
	return &domain.Category{
		ID:          mc.ID,
		Name:        mc.Name,
		Description: mc.Description,
		CreatedAt:   mc.CreatedAt,
		UpdatedAt:   mc.UpdatedAt,
	}
}

// sortSpec maps API sort parameters onto a Mongo sort document, falling back
// to defaultField ascending for unknown fields.
func sortSpec(sortBy, sortDir, defaultField string) bson.D {
	field := defaultField
	switch sortBy {
	case "name", "date", "amount", "created_at":
		field = sortBy
	}
	dir := 1
	if sortDir == "desc" {
		dir = -1
	}
	return bson.D{{Key: field, Value: dir}}
}
