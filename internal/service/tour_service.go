package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/authz"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
	"tours-api/internal/storage"
)

// Earth radius in each unit, used to turn a distance into radians.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1

	metersToMiles = 0.000621371
	metersToKm    = 0.001
)

var publicTours = bson.M{"secretTour": bson.M{"$ne": true}}

// TourService handles business logic for tour operations.
type TourService struct {
	tours   repository.TourRepository
	reviews repository.ReviewRepository
	users   repository.UserRepository
	authz   authz.Authorizer
	storage storage.Storage
}

// TourServiceConfig holds the dependencies of TourService.
type TourServiceConfig struct {
	TourRepo   repository.TourRepository
	ReviewRepo repository.ReviewRepository
	UserRepo   repository.UserRepository
	Authorizer authz.Authorizer
	Storage    storage.Storage
}

// NewTourService creates a new TourService.
func NewTourService(cfg TourServiceConfig) *TourService {
	return &TourService{
		tours:   cfg.TourRepo,
		reviews: cfg.ReviewRepo,
		users:   cfg.UserRepo,
		authz:   cfg.Authorizer,
		storage: cfg.Storage,
	}
}

// visibility returns the predicate hiding secret tours from viewer, or nil
// when the viewer may see them.
func (s *TourService) visibility(viewer *models.User) bson.M {
	if viewer != nil && s.authz.Can(viewer.Role, authz.ActionTourViewSecret) {
		return nil
	}
	return publicTours
}

// ListTours runs a list query over the tours visible to viewer.
func (s *TourService) ListTours(ctx context.Context, viewer *models.User, f *query.Features) ([]models.Tour, error) {
	f.Where(s.visibility(viewer))
	if err := f.ValidatePage(ctx, s.tours); err != nil {
		return nil, err
	}
	return s.tours.Find(ctx, f)
}

// GetTour returns a tour with its guides and reviews.
func (s *TourService) GetTour(ctx context.Context, viewer *models.User, id primitive.ObjectID) (*models.TourDetail, error) {
	filter := bson.M{"_id": id}
	if hide := s.visibility(viewer); hide != nil {
		filter = bson.M{"$and": bson.A{filter, hide}}
	}

	tour, err := s.tours.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}

	guides, err := s.users.FindSummaries(ctx, tour.Guides)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.FindByTour(ctx, tour.ID)
	if err != nil {
		return nil, err
	}

	return &models.TourDetail{Tour: *tour, Guides: guides, Reviews: reviews}, nil
}

// CreateTour stores a new tour with a slug derived from its name.
func (s *TourService) CreateTour(ctx context.Context, req *models.CreateTourRequest) (*models.Tour, error) {
	if req.PriceDiscount != nil && *req.PriceDiscount >= *req.Price {
		return nil, apperrors.ErrDiscountTooHigh
	}

	guides, err := objectIDs(req.Guides)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	tour := &models.Tour{
		Name:            name,
		Slug:            slug.Make(name),
		Duration:        req.Duration,
		MaxGroupSize:    req.MaxGroupSize,
		Difficulty:      req.Difficulty,
		RatingsAverage:  models.DefaultRatingsAverage,
		RatingsQuantity: models.DefaultRatingsQuantity,
		Price:           *req.Price,
		PriceDiscount:   req.PriceDiscount,
		Summary:         strings.TrimSpace(req.Summary),
		Description:     strings.TrimSpace(req.Description),
		ImageCover:      req.ImageCover,
		Images:          req.Images,
		StartDates:      req.StartDates,
		SecretTour:      req.SecretTour,
		StartLocation:   pointLocation(req.StartLocation),
		Locations:       pointLocations(req.Locations),
		Guides:          guides,
	}

	if err := s.tours.Create(ctx, tour); err != nil {
		return nil, err
	}
	return tour, nil
}

// UpdateTour applies a partial update and returns the updated tour.
func (s *TourService) UpdateTour(ctx context.Context, id primitive.ObjectID, req *models.UpdateTourRequest) (*models.Tour, error) {
	set := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		set["name"] = name
		set["slug"] = slug.Make(name)
	}
	if req.Duration != nil {
		set["duration"] = *req.Duration
	}
	if req.MaxGroupSize != nil {
		set["maxGroupSize"] = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		set["difficulty"] = *req.Difficulty
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.PriceDiscount != nil {
		price, err := s.priceFor(ctx, id, req.Price)
		if err != nil {
			return nil, err
		}
		if *req.PriceDiscount >= price {
			return nil, apperrors.ErrDiscountTooHigh
		}
		set["priceDiscount"] = *req.PriceDiscount
	}
	if req.Summary != nil {
		set["summary"] = strings.TrimSpace(*req.Summary)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.ImageCover != nil {
		set["imageCover"] = *req.ImageCover
	}
	if req.Images != nil {
		set["images"] = req.Images
	}
	if req.StartDates != nil {
		set["startDates"] = req.StartDates
	}
	if req.SecretTour != nil {
		set["secretTour"] = *req.SecretTour
	}
	if req.StartLocation != nil {
		set["startLocation"] = pointLocation(req.StartLocation)
	}
	if req.Locations != nil {
		set["locations"] = pointLocations(req.Locations)
	}
	if req.Guides != nil {
		guides, err := objectIDs(req.Guides)
		if err != nil {
			return nil, err
		}
		set["guides"] = guides
	}

	return s.tours.Update(ctx, id, set)
}

// priceFor returns the price a discount is checked against: the new price
// when it is part of the same update, otherwise the stored one.
func (s *TourService) priceFor(ctx context.Context, id primitive.ObjectID, newPrice *float64) (float64, error) {
	if newPrice != nil {
		return *newPrice, nil
	}
	tour, err := s.tours.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return tour.Price, nil
}

// DeleteTour removes a tour.
func (s *TourService) DeleteTour(ctx context.Context, id primitive.ObjectID) error {
	return s.tours.Delete(ctx, id)
}

// GetTourStats aggregates well rated tours by difficulty.
func (s *TourService) GetTourStats(ctx context.Context, viewer *models.User) ([]models.TourStats, error) {
	return s.tours.Stats(ctx, s.visibility(viewer))
}

// GetMonthlyPlan counts tour starts per month of year.
func (s *TourService) GetMonthlyPlan(ctx context.Context, viewer *models.User, year int) ([]models.MonthlyPlan, error) {
	if year < 1000 || year > 9999 {
		return nil, apperrors.ErrInvalidYear
	}
	return s.tours.MonthlyPlan(ctx, year, s.visibility(viewer))
}

// GetToursWithin finds tours starting within distance of the center.
func (s *TourService) GetToursWithin(ctx context.Context, viewer *models.User, distance float64, geo models.GeoQuery) ([]models.Tour, error) {
	if distance <= 0 {
		return nil, apperrors.ErrInvalidDistance
	}

	radius := distance / earthRadiusKm
	if geo.Unit == models.UnitMiles {
		radius = distance / earthRadiusMiles
	}

	return s.tours.Within(ctx, geo.Lng, geo.Lat, radius, s.visibility(viewer))
}

// GetDistances returns every visible tour with its distance from the center.
func (s *TourService) GetDistances(ctx context.Context, viewer *models.User, geo models.GeoQuery) ([]models.TourDistance, error) {
	multiplier := metersToKm
	if geo.Unit == models.UnitMiles {
		multiplier = metersToMiles
	}

	return s.tours.Distances(ctx, geo.Lng, geo.Lat, multiplier, s.visibility(viewer))
}

// CreateImageUploadURL issues a presigned URL for a new image of an existing tour.
func (s *TourService) CreateImageUploadURL(ctx context.Context, id primitive.ObjectID, req *models.UploadURLRequest) (*models.UploadURLResponse, error) {
	if _, err := s.tours.FindOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, err
	}
	return presignImage(ctx, s.storage, req.ContentType, func(ext string) string {
		return storage.TourImageKey(id.Hex(), ext)
	})
}

func objectIDs(hexes []string) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		id, err := primitive.ObjectIDFromHex(h)
		if err != nil {
			return nil, apperrors.InvalidID(h)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// pointLocation defaults the GeoJSON type of a location.
func pointLocation(loc *models.Location) *models.Location {
	if loc == nil {
		return nil
	}
	out := *loc
	if out.Type == "" {
		out.Type = "Point"
	}
	return &out
}

func pointLocations(locs []models.Location) []models.Location {
	if locs == nil {
		return nil
	}
	out := make([]models.Location, len(locs))
	for i := range locs {
		out[i] = *pointLocation(&locs[i])
	}
	return out
}
