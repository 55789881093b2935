package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tours-api/internal/authz"
	apperrors "tours-api/internal/errors"
	"tours-api/internal/logger"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
)

// ReviewService handles business logic for review operations. Every write
// recomputes the rating summary of the reviewed tour.
type ReviewService struct {
	reviews repository.ReviewRepository
	tours   repository.TourRepository
	authz   authz.Authorizer
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repository.ReviewRepository, tours repository.TourRepository, authorizer authz.Authorizer) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		tours:   tours,
		authz:   authorizer,
	}
}

// ListReviews runs a list query, scoped to one tour unless tourID is zero.
func (s *ReviewService) ListReviews(ctx context.Context, tourID primitive.ObjectID, f *query.Features) ([]models.Review, error) {
	if !tourID.IsZero() {
		f.Where(bson.M{"tour": tourID})
	}
	if err := f.ValidatePage(ctx, s.reviews); err != nil {
		return nil, err
	}
	return s.reviews.Find(ctx, f)
}

// GetReview returns a review with its author.
func (s *ReviewService) GetReview(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	return s.reviews.FindByID(ctx, id)
}

// CreateReview stores a review by author. The tour comes from tourID when
// set (nested route), otherwise from the body.
func (s *ReviewService) CreateReview(ctx context.Context, author *models.User, tourID primitive.ObjectID, req *models.CreateReviewRequest) (*models.Review, error) {
	if tourID.IsZero() {
		if req.Tour == "" {
			return nil, apperrors.ErrTourRequired
		}
		id, err := primitive.ObjectIDFromHex(req.Tour)
		if err != nil {
			return nil, apperrors.InvalidID(req.Tour)
		}
		tourID = id
	}

	if _, err := s.tours.FindOne(ctx, bson.M{"_id": tourID}); err != nil {
		return nil, err
	}

	review := &models.Review{
		Review: strings.TrimSpace(req.Review),
		Rating: req.Rating,
		Tour:   tourID,
		UserID: author.ID,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, apperrors.ErrReviewExists
		}
		return nil, err
	}

	s.recalculate(ctx, tourID)

	summary := author.Summary()
	review.Author = &models.UserSummary{ID: summary.ID, Name: summary.Name, Photo: summary.Photo}
	return review, nil
}

// UpdateReview edits a review. Users may only edit their own.
func (s *ReviewService) UpdateReview(ctx context.Context, actor *models.User, id primitive.ObjectID, req *models.UpdateReviewRequest) (*models.Review, error) {
	if err := s.checkOwner(ctx, actor, id); err != nil {
		return nil, err
	}

	set := bson.M{}
	if req.Review != nil {
		set["review"] = strings.TrimSpace(*req.Review)
	}
	if req.Rating != nil {
		set["rating"] = *req.Rating
	}

	review, err := s.reviews.Update(ctx, id, set)
	if err != nil {
		return nil, err
	}

	if req.Rating != nil {
		s.recalculate(ctx, review.Tour)
	}
	return review, nil
}

// DeleteReview removes a review. Users may only delete their own.
func (s *ReviewService) DeleteReview(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if err := s.checkOwner(ctx, actor, id); err != nil {
		return err
	}

	review, err := s.reviews.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.recalculate(ctx, review.Tour)
	return nil
}

func (s *ReviewService) checkOwner(ctx context.Context, actor *models.User, id primitive.ObjectID) error {
	if s.authz.Can(actor.Role, authz.ActionReviewAny) {
		return nil
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.UserID != actor.ID {
		return apperrors.ErrNotReviewOwner
	}
	return nil
}

// RecalculateRatings stores the review count and rounded average on the
// tour. A tour without reviews goes back to the defaults.
func (s *ReviewService) RecalculateRatings(ctx context.Context, tourID primitive.ObjectID) error {
	stats, err := s.reviews.RatingStats(ctx, tourID)
	if err != nil {
		return err
	}

	quantity, average := models.DefaultRatingsQuantity, models.DefaultRatingsAverage
	if len(stats) > 0 {
		quantity = stats[0].NRating
		average = models.RoundRating(stats[0].AvgRating)
	}

	err = s.tours.UpdateRatings(ctx, tourID, quantity, average)
	if errors.Is(err, apperrors.ErrDocumentNotFound) {
		return nil
	}
	return err
}

// recalculate runs after the review write succeeded, so a failure is logged
// rather than returned.
func (s *ReviewService) recalculate(ctx context.Context, tourID primitive.ObjectID) {
	if err := s.RecalculateRatings(ctx, tourID); err != nil {
		logger.FromContext(ctx).Error().Err(err).Str("tour", tourID.Hex()).Msg("rating recalculation failed")
	}
}
