// Package fixtures provides test data builders for unit and integration tests.
package fixtures

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/models"
)

// ===== User Fixtures =====

// UserBuilder provides fluent API for building test users.
type UserBuilder struct {
	user models.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: models.User{
			ID:        primitive.NewObjectID(),
			Name:      "Test User",
			Email:     fmt.Sprintf("test-%s@example.com", primitive.NewObjectID().Hex()[:8]),
			Photo:     models.DefaultPhoto,
			Role:      models.RoleUser,
			Password:  "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy", // "password123" hashed
			Active:    true,
			CreatedAt: time.Now(),
		},
	}
}

func (b *UserBuilder) WithID(id primitive.ObjectID) *UserBuilder {
	b.user.ID = id
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.user.Password = password
	return b
}

func (b *UserBuilder) WithRole(role models.Role) *UserBuilder {
	b.user.Role = role
	return b
}

func (b *UserBuilder) AsAdmin() *UserBuilder {
	return b.WithRole(models.RoleAdmin)
}

func (b *UserBuilder) AsLeadGuide() *UserBuilder {
	return b.WithRole(models.RoleLeadGuide)
}

func (b *UserBuilder) AsGuide() *UserBuilder {
	return b.WithRole(models.RoleGuide)
}

func (b *UserBuilder) Inactive() *UserBuilder {
	b.user.Active = false
	return b
}

func (b *UserBuilder) Build() models.User {
	return b.user
}

func (b *UserBuilder) BuildPtr() *models.User {
	u := b.user
	return &u
}

// ===== Tour Fixtures =====

// TourBuilder provides fluent API for building test tours.
type TourBuilder struct {
	tour models.Tour
}

// NewTour creates a new TourBuilder with sensible defaults.
func NewTour() *TourBuilder {
	suffix := primitive.NewObjectID().Hex()[:8]
	return &TourBuilder{
		tour: models.Tour{
			ID:              primitive.NewObjectID(),
			Name:            "The Test Hiker " + suffix,
			Slug:            "the-test-hiker-" + suffix,
			Duration:        5,
			MaxGroupSize:    25,
			Difficulty:      models.DifficultyEasy,
			RatingsAverage:  models.DefaultRatingsAverage,
			RatingsQuantity: models.DefaultRatingsQuantity,
			Price:           397,
			Summary:         "Breathtaking hike through the Canadian Banff National Park",
			ImageCover:      "tour-1-cover.jpg",
			Images:          []string{},
			StartDates:      []time.Time{time.Date(2026, 4, 25, 9, 0, 0, 0, time.UTC)},
			StartLocation: &models.Location{
				Type:        "Point",
				Coordinates: []float64{-115.570154, 51.178456},
				Description: "Banff, CAN",
			},
			Locations: []models.Location{},
			Guides:    []primitive.ObjectID{},
			CreatedAt: time.Now(),
		},
	}
}

func (b *TourBuilder) WithID(id primitive.ObjectID) *TourBuilder {
	b.tour.ID = id
	return b
}

func (b *TourBuilder) WithName(name, slug string) *TourBuilder {
	b.tour.Name = name
	b.tour.Slug = slug
	return b
}

func (b *TourBuilder) WithPrice(price float64) *TourBuilder {
	b.tour.Price = price
	return b
}

func (b *TourBuilder) WithDifficulty(difficulty string) *TourBuilder {
	b.tour.Difficulty = difficulty
	return b
}

func (b *TourBuilder) WithRating(average float64, quantity int) *TourBuilder {
	b.tour.RatingsAverage = average
	b.tour.RatingsQuantity = quantity
	return b
}

// At sets the start location, given as lng, lat.
func (b *TourBuilder) At(lng, lat float64) *TourBuilder {
	b.tour.StartLocation = &models.Location{Type: "Point", Coordinates: []float64{lng, lat}}
	return b
}

func (b *TourBuilder) WithStartDates(dates ...time.Time) *TourBuilder {
	b.tour.StartDates = dates
	return b
}

func (b *TourBuilder) WithGuides(ids ...primitive.ObjectID) *TourBuilder {
	b.tour.Guides = ids
	return b
}

func (b *TourBuilder) Secret() *TourBuilder {
	b.tour.SecretTour = true
	return b
}

func (b *TourBuilder) Build() models.Tour {
	return b.tour
}

func (b *TourBuilder) BuildPtr() *models.Tour {
	t := b.tour
	return &t
}

// ===== Review Fixtures =====

// ReviewBuilder provides fluent API for building test reviews.
type ReviewBuilder struct {
	review models.Review
}

// NewReview creates a new ReviewBuilder with sensible defaults.
func NewReview() *ReviewBuilder {
	now := time.Now()
	return &ReviewBuilder{
		review: models.Review{
			ID:        primitive.NewObjectID(),
			Review:    "Great tour, would book again.",
			Rating:    5,
			Tour:      primitive.NewObjectID(),
			UserID:    primitive.NewObjectID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

func (b *ReviewBuilder) WithID(id primitive.ObjectID) *ReviewBuilder {
	b.review.ID = id
	return b
}

func (b *ReviewBuilder) ForTour(tourID primitive.ObjectID) *ReviewBuilder {
	b.review.Tour = tourID
	return b
}

func (b *ReviewBuilder) ByUser(userID primitive.ObjectID) *ReviewBuilder {
	b.review.UserID = userID
	return b
}

func (b *ReviewBuilder) WithRating(rating float64) *ReviewBuilder {
	b.review.Rating = rating
	return b
}

func (b *ReviewBuilder) Build() models.Review {
	return b.review
}

func (b *ReviewBuilder) BuildPtr() *models.Review {
	r := b.review
	return &r
}
