package ingest

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ScrapedCollection = "smartphones_clean"

type scrapedDocument struct {
	ID    primitive.ObjectID `bson:"_id"`
	Name  string             `bson:"name"`
	Price any                `bson:"price"`
	Image string             `bson:"image"`
	URL   string             `bson:"url"`
}

// LoadScraped reads every raw listing from the scraped collection.
func LoadScraped(ctx context.Context, db *mongo.Database) ([]RawListing, error) {
	cur, err := db.Collection(ScrapedCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", ScrapedCollection, err)
	}
	defer cur.Close(ctx)

	var raws []RawListing
	for cur.Next(ctx) {
		var doc scrapedDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode scraped listing: %w", err)
		}
		raws = append(raws, RawListing{
			ExternalID: doc.ID.Hex(),
			Name:       doc.Name,
			Price:      doc.Price,
			Image:      doc.Image,
			URL:        doc.URL,
		})
	}
	return raws, cur.Err()
}
