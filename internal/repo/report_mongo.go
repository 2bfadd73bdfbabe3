package repo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/momna763/Target-Lock/internal/models"
)

const ReportsCollection = "reports"

type reportDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	models.Report `bson:",inline"`
}

type MongoReportRepository struct {
	coll *mongo.Collection
}

func NewMongoReportRepository(db *mongo.Database) *MongoReportRepository {
	return &MongoReportRepository{coll: db.Collection(ReportsCollection)}
}

func (r *MongoReportRepository) Create(ctx context.Context, rep models.Report) (models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now().UTC()
	}
	doc := reportDocument{ID: primitive.NewObjectID(), Report: rep}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return models.Report{}, fmt.Errorf("failed to insert report: %w", err)
	}
	rep.ID = doc.ID.Hex()
	return rep, nil
}

func (r *MongoReportRepository) List(ctx context.Context, userID int) ([]models.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := bson.M{"$or": bson.A{bson.M{"userId": userID}, bson.M{"isPublic": true}}}
	cur, err := r.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "generatedAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer cur.Close(ctx)

	reports := []models.Report{}
	for cur.Next(ctx) {
		var doc reportDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		rep := doc.Report
		rep.ID = doc.ID.Hex()
		reports = append(reports, rep)
	}
	return reports, cur.Err()
}

func (r *MongoReportRepository) DeleteAll(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.DeleteMany(ctx, bson.M{})
	return err
}
