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

//go:generate mockgen -destination=mocks/mock_tour_repository.go -package=mocks tours-api/internal/repository TourRepository

// TourRepository defines the interface for tour data operations. The match
// argument of the aggregate methods restricts which tours take part.
type TourRepository interface {
	Find(ctx context.Context, f *query.Features) ([]models.Tour, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindOne(ctx context.Context, filter bson.M) (*models.Tour, error)
	Create(ctx context.Context, tour *models.Tour) error
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Stats(ctx context.Context, match bson.M) ([]models.TourStats, error)
	MonthlyPlan(ctx context.Context, year int, match bson.M) ([]models.MonthlyPlan, error)
	Within(ctx context.Context, lng, lat, radius float64, match bson.M) ([]models.Tour, error)
	Distances(ctx context.Context, lng, lat, multiplier float64, match bson.M) ([]models.TourDistance, error)
	UpdateRatings(ctx context.Context, id primitive.ObjectID, quantity int, average float64) error
}

// TourFilterSchema lists the tour fields a list query may filter on.
var TourFilterSchema = query.Schema{
	"name":            query.String,
	"slug":            query.String,
	"duration":        query.Integer,
	"maxGroupSize":    query.Integer,
	"difficulty":      query.String,
	"ratingsAverage":  query.Number,
	"ratingsQuantity": query.Integer,
	"price":           query.Number,
	"priceDiscount":   query.Number,
	"secretTour":      query.Bool,
	"startDates":      query.Date,
	"createdAt":       query.Date,
	"guides":          query.ObjectID,
}

// tourRepository implements TourRepository using MongoDB
type tourRepository struct {
	collection *mongo.Collection
}

// NewTourRepository creates a new TourRepository
func NewTourRepository(db *mongo.Database) TourRepository {
	return &tourRepository{
		collection: db.Collection(database.ToursCollection),
	}
}

func decodeTours(ctx context.Context, cursor *mongo.Cursor) ([]models.Tour, error) {
	defer cursor.Close(ctx)

	var tours []models.Tour
	if err := cursor.All(ctx, &tours); err != nil {
		return nil, err
	}
	if tours == nil {
		tours = []models.Tour{}
	}
	for i := range tours {
		tours[i].Prepare()
	}
	return tours, nil
}

// Find runs a list query.
func (r *tourRepository) Find(ctx context.Context, f *query.Features) ([]models.Tour, error) {
	cursor, err := r.collection.Find(ctx, f.FilterDoc(), f.FindOptions())
	if err != nil {
		return nil, err
	}
	return decodeTours(ctx, cursor)
}

// Count counts tours matching filter.
func (r *tourRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}

// FindOne returns the first tour matching filter.
func (r *tourRepository) FindOne(ctx context.Context, filter bson.M) (*models.Tour, error) {
	var tour models.Tour
	err := r.collection.FindOne(ctx, filter).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	tour.Prepare()
	return &tour, nil
}

// Create inserts a new tour. Name and slug uniqueness is enforced by index.
func (r *tourRepository) Create(ctx context.Context, tour *models.Tour) error {
	if tour.CreatedAt.IsZero() {
		tour.CreatedAt = time.Now()
	}
	if tour.Images == nil {
		tour.Images = []string{}
	}
	if tour.StartDates == nil {
		tour.StartDates = []time.Time{}
	}
	if tour.Locations == nil {
		tour.Locations = []models.Location{}
	}
	if tour.Guides == nil {
		tour.Guides = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, tour)
	if err != nil {
		return err
	}

	tour.ID = result.InsertedID.(primitive.ObjectID)
	tour.Prepare()
	return nil
}

// Update applies set and returns the updated tour.
func (r *tourRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Tour, error) {
	if len(set) == 0 {
		return r.FindOne(ctx, bson.M{"_id": id})
	}

	var tour models.Tour
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tour)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrDocumentNotFound
		}
		return nil, err
	}
	tour.Prepare()
	return &tour, nil
}

// Delete removes a tour.
func (r *tourRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrDocumentNotFound
	}
	return nil
}

// Stats groups well rated tours by difficulty.
func (r *tourRepository) Stats(ctx context.Context, match bson.M) ([]models.TourStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: and(bson.M{"ratingsAverage": bson.M{"$gte": 4.5}}, match)}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avgPrice", Value: 1}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var stats []models.TourStats
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []models.TourStats{}
	}
	return stats, nil
}

// MonthlyPlan counts tour starts per month of year, busiest month first.
func (r *tourRepository) MonthlyPlan(ctx context.Context, year int, match bson.M) ([]models.MonthlyPlan, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: and(bson.M{"startDates": bson.M{"$gte": from, "$lt": to}}, match)}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.D{{Key: "numTourStarts", Value: -1}, {Key: "month", Value: 1}}}},
		{{Key: "$limit", Value: 12}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var plan []models.MonthlyPlan
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, err
	}
	if plan == nil {
		plan = []models.MonthlyPlan{}
	}
	return plan, nil
}

// Within returns tours starting inside a sphere of radius (radians) around the point.
func (r *tourRepository) Within(ctx context.Context, lng, lat, radius float64, match bson.M) ([]models.Tour, error) {
	filter := and(bson.M{"startLocation": bson.M{
		"$geoWithin": bson.M{"$centerSphere": bson.A{bson.A{lng, lat}, radius}},
	}}, match)

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"__v": 0}))
	if err != nil {
		return nil, err
	}
	return decodeTours(ctx, cursor)
}

// Distances returns every tour with its distance from the point, nearest
// first. multiplier converts meters into the caller's unit.
func (r *tourRepository) Distances(ctx context.Context, lng, lat, multiplier float64, match bson.M) ([]models.TourDistance, error) {
	if match == nil {
		match = bson.M{}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near":               bson.M{"type": "Point", "coordinates": bson.A{lng, lat}},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"key":                "startLocation",
			"spherical":          true,
			"query":              match,
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var distances []models.TourDistance
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, err
	}
	if distances == nil {
		distances = []models.TourDistance{}
	}
	return distances, nil
}

// UpdateRatings stores recomputed review aggregates.
func (r *tourRepository) UpdateRatings(ctx context.Context, id primitive.ObjectID, quantity int, average float64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"ratingsQuantity": quantity,
		"ratingsAverage":  average,
	}})
	return err
}
