package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tours-api/internal/database"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/query"
)

//go:generate mockgen -destination=mocks/mock_review_repository.go -package=mocks tours-api/internal/repository ReviewRepository

// ReviewRepository defines the interface for review data operations. Reads
// populate the review author.
type ReviewRepository interface {
	Find(ctx context.Context, f *query.Features) ([]models.Review, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	RatingStats(ctx context.Context, tourID primitive.ObjectID) ([]models.RatingStats, error)
}

// ReviewFilterSchema lists the review fields a list query may filter on.
var ReviewFilterSchema = query.Schema{
	"rating":    query.Number,
	"tour":      query.ObjectID,
	"user":      query.ObjectID,
	"createdAt": query.Date,
}

// reviewRow is a review with its $lookup result.
type reviewRow struct {
	models.Review `bson:",inline"`
	Author        []models.UserSummary `bson:"author"`
}

// reviewRepository implements ReviewRepository using MongoDB
type reviewRepository struct {
	collection *mongo.Collection
}

// NewReviewRepository creates a new ReviewRepository
func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{
		collection: db.Collection(database.ReviewsCollection),
	}
}

// authorLookup joins the author's name and photo.
func authorLookup() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from": database.UsersCollection,
		"let":  bson.M{"uid": "$user"},
		"pipeline": bson.A{
			bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$uid"}}}},
			bson.M{"$project": bson.M{"name": 1, "photo": 1}},
		},
		"as": "author",
	}}}
}

func (r *reviewRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Review, error) {
	cursor, err := r.collection.Aggregate(ctx, append(pipeline, authorLookup()))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []reviewRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	reviews := make([]models.Review, 0, len(rows))
	for _, row := range rows {
		review := row.Review
		if len(row.Author) > 0 {
			author := row.Author[0]
			review.Author = &author
		}
		reviews = append(reviews, review)
	}
	return reviews, nil
}

// Find runs a list query.
func (r *reviewRepository) Find(ctx context.Context, f *query.Features) ([]models.Review, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: f.FilterDoc()}},
		{{Key: "$sort", Value: f.SortDoc()}},
		{{Key: "$skip", Value: f.Skip()}},
		{{Key: "$limit", Value: f.Limit()}},
		{{Key: "$project", Value: f.Projection()}},
	}
	return r.aggregate(ctx, pipeline)
}

// Count counts reviews matching filter.
func (r *reviewRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// FindByID finds a review by its ID
func (r *reviewRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	reviews, err := r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$limit", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, apperrors.ErrDocumentNotFound
	}
	return &reviews[0], nil
}

// FindByTour returns every review of a tour, newest first.
func (r *reviewRepository) FindByTour(ctx context.Context, tourID primitive.ObjectID) ([]models.Review, error) {
	return r.aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
	})
}

// Create inserts a new review. The (tour, user) pair is unique by index.
func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, review)
	if err != nil {
		return err
	}

	review.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// Update applies set and returns the populated review.
func (r *reviewRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Review, error) {
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now()

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, apperrors.ErrDocumentNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes a review and returns it, so callers know which tour changed.
func (r *reviewRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id}, options.FindOneAndDelete()).Decode(&review)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	return &review, nil
}

// RatingStats aggregates the count and mean rating of a tour's reviews.
// The result is empty when the tour has no reviews.
func (r *reviewRepository) RatingStats(ctx context.Context, tourID primitive.ObjectID) ([]models.RatingStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.RatingStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
