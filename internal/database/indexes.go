package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type index struct {
	collection string
	model      mongo.IndexModel
}

func indexes() []index {
	return []index{
		// Tours
		{ToursCollection, mongo.IndexModel{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{ToursCollection, mongo.IndexModel{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{ToursCollection, mongo.IndexModel{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}}},
		{ToursCollection, mongo.IndexModel{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}}},

		// Users
		{UsersCollection, mongo.IndexModel{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)}},
		{UsersCollection, mongo.IndexModel{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}, Options: options.Index().SetSparse(true)}},

		// Reviews: one review per user per tour
		{ReviewsCollection, mongo.IndexModel{Keys: bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}}, Options: options.Index().SetUnique(true)}},
	}
}

// EnsureIndexes creates every index the repositories rely on. Existing
// indexes with the same definition are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	var names []string
	for _, idx := range indexes() {
		name, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model)
		if err != nil {
			return names, fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
		names = append(names, idx.collection+"."+name)
	}
	return names, nil
}
