package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momna763/Target-Lock/internal/models"
)

const TrendsCollection = "trends"

type trendDocument struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	ProductID    primitive.ObjectID `bson:"productId"`
	models.Trend `bson:",inline"`
}

func (d trendDocument) model() models.Trend {
	t := d.Trend
	t.ID = d.ID.Hex()
	t.ProductID = d.ProductID.Hex()
	return t
}

type MongoTrendRepository struct {
	coll *mongo.Collection
}

func NewMongoTrendRepository(db *mongo.Database) *MongoTrendRepository {
	return &MongoTrendRepository{coll: db.Collection(TrendsCollection)}
}

func (r *MongoTrendRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "productId", Value: 1}, {Key: "metric", Value: 1}, {Key: "date", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create trend indexes: %w", err)
	}
	return nil
}

func (r *MongoTrendRepository) Create(ctx context.Context, t models.Trend) (models.Trend, error) {
	pid, err := primitive.ObjectIDFromHex(t.ProductID)
	if err != nil {
		return models.Trend{}, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	doc := trendDocument{ID: primitive.NewObjectID(), ProductID: pid, Trend: t}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Trend{}, fmt.Errorf("failed to insert trend: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoTrendRepository) ListByProduct(ctx context.Context, productID, metric string) ([]models.Trend, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, trendQuery(pid, metric), options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query trends: %w", err)
	}
	defer cur.Close(ctx)

	trends := []models.Trend{}
	for cur.Next(ctx) {
		var doc trendDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode trend: %w", err)
		}
		trends = append(trends, doc.model())
	}
	return trends, cur.Err()
}

func (r *MongoTrendRepository) Latest(ctx context.Context, productID, metric string) (models.Trend, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return models.Trend{}, ErrInvalidID
	}
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc trendDocument
	err = r.coll.FindOne(ctx, trendQuery(pid, metric), options.FindOne().SetSort(bson.D{{Key: "date", Value: -1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Trend{}, ErrTrendNotFound
	}
	if err != nil {
		return models.Trend{}, fmt.Errorf("failed to fetch trend: %w", err)
	}
	return doc.model(), nil
}

func (r *MongoTrendRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}

func trendQuery(pid primitive.ObjectID, metric string) bson.M {
	q := bson.M{"productId": pid}
	if metric != "" {
		q["metric"] = metric
	}
	return q
}
