// Command seed loads or removes the development data set.
//
//	go run ./cmd/seed -import
//	go run ./cmd/seed -delete
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tours-api/internal/authz"
	"tours-api/internal/config"
	"tours-api/internal/database"
	"tours-api/internal/logger"
	"tours-api/internal/models"
	"tours-api/internal/repository"
	"tours-api/internal/service"
	"tours-api/pkg/auth"
)

func main() {
	importData := flag.Bool("import", false, "insert the development tours, users and reviews")
	deleteData := flag.Bool("delete", false, "remove every tour, user and review")
	flag.Parse()

	if *importData == *deleteData {
		fmt.Fprintln(os.Stderr, "usage: seed -import | -delete")
		os.Exit(2)
	}

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	mongoDB, err := database.NewMongoDB(cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoDB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if *deleteData {
		if err := deleteAll(ctx, mongoDB.Database); err != nil {
			log.Fatal().Err(err).Msg("failed to delete data")
		}
		log.Info().Msg("data successfully deleted")
		return
	}

	if err := importAll(ctx, mongoDB.Database); err != nil {
		log.Fatal().Err(err).Msg("failed to import data")
	}
	log.Info().Int("tours", len(tours)).Int("users", len(users)).Int("reviews", len(reviews)).Msg("data successfully loaded")
}

func deleteAll(ctx context.Context, db *mongo.Database) error {
	for _, name := range []string{database.ToursCollection, database.UsersCollection, database.ReviewsCollection} {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			return fmt.Errorf("clear %s: %w", name, err)
		}
	}
	return nil
}

func importAll(ctx context.Context, db *mongo.Database) error {
	if _, err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()

	userDocs := make([]interface{}, 0, len(users))
	for _, u := range users {
		u.Password = hashed
		u.Active = true
		u.CreatedAt = now
		userDocs = append(userDocs, u)
	}

	tourDocs := make([]interface{}, 0, len(tours))
	for _, t := range tours {
		t.Slug = slug.Make(t.Name)
		t.RatingsAverage = models.DefaultRatingsAverage
		t.CreatedAt = now
		tourDocs = append(tourDocs, t)
	}

	reviewDocs := make([]interface{}, 0, len(reviews))
	for _, r := range reviews {
		r.CreatedAt = now
		r.UpdatedAt = now
		reviewDocs = append(reviewDocs, r)
	}

	if _, err := db.Collection(database.UsersCollection).InsertMany(ctx, userDocs); err != nil {
		return fmt.Errorf("insert users: %w", err)
	}
	if _, err := db.Collection(database.ToursCollection).InsertMany(ctx, tourDocs); err != nil {
		return fmt.Errorf("insert tours: %w", err)
	}
	if _, err := db.Collection(database.ReviewsCollection).InsertMany(ctx, reviewDocs); err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}

	// Reviews were inserted directly, so the tour aggregates are stale.
	reviewService := service.NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewTourRepository(db),
		authz.DefaultPolicy,
	)
	for _, t := range tours {
		if err := reviewService.RecalculateRatings(ctx, t.ID); err != nil {
			return fmt.Errorf("recalculate ratings for %s: %w", t.Name, err)
		}
	}
	return nil
}

func oid(hex string) primitive.ObjectID {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		panic(err)
	}
	return id
}
