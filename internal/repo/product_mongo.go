package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momna763/Target-Lock/internal/models"
)

const (
	ProductsCollection = "products"
	queryTimeout       = 3 * time.Second
)

// productDocument is the stored shape: the model plus its ObjectID.
type productDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	models.Product `bson:",inline"`
}

func (d productDocument) model() models.Product {
	p := d.Product
	p.ID = d.ID.Hex()
	return p
}

type MongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{coll: db.Collection(ProductsCollection)}
}

// EnsureIndexes creates the indexes listing and filtering rely on.
func (r *MongoProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "profitabilityScore", Value: -1}}},
		{Keys: bson.D{{Key: "trendPercentage", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}
	return nil
}

func (r *MongoProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	doc := productDocument{ID: primitive.NewObjectID(), Product: p}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.Product{}, ErrDuplicatedValueUnique
		}
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return doc.model(), nil
}

// GetAll returns every product in insertion order.
func (r *MongoProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return decodeProducts(ctx, cur)
}

func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrInvalidID
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *MongoProductRepository) findOne(ctx context.Context, filter bson.M) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc productDocument
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to fetch product: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return models.Product{}, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": oid}, productDocument{ID: oid, Product: p})
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return p, nil
}

func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *MongoProductRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func (r *MongoProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := filterConditions(pf)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "profitabilityScore", Value: -1},
		{Key: "name", Value: 1},
	})
	if pf.Offset != nil && *pf.Offset > 0 {
		opts.SetSkip(int64(*pf.Offset))
	}
	if pf.Limit != nil && *pf.Limit > 0 {
		opts.SetLimit(int64(*pf.Limit))
	}

	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to filter products: %w", err)
	}
	products, err := decodeProducts(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return products, int(total), nil
}

func filterConditions(pf ProductFilter) bson.M {
	query := bson.M{}
	if pf.Query != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(pf.Query), "$options": "i"}
	}
	if pf.Category != "" {
		query["category"] = pf.Category
	}
	if pf.MinProfitability != nil {
		query["profitabilityScore"] = bson.M{"$gte": *pf.MinProfitability}
	}
	if pf.InStock != nil {
		if *pf.InStock {
			query["availability.inStock"] = true
		} else {
			query["availability.inStock"] = bson.M{"$ne": true}
		}
	}
	return query
}

func (r *MongoProductRepository) Categories(ctx context.Context) ([]CategoryCount, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"category": bson.M{"$nin": bson.A{"", nil}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories: %w", err)
	}
	counts := []CategoryCount{}
	if err := cur.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	return counts, nil
}

func decodeProducts(ctx context.Context, cur *mongo.Cursor) ([]models.Product, error) {
	defer cur.Close(ctx)

	products := []models.Product{}
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode product: %w", err)
		}
		products = append(products, doc.model())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}
