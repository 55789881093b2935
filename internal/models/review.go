package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a user's rating of a tour. One per user per tour.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" example:"5c8a355b14eb5c17645c9109"`
	Review    string             `json:"review" bson:"review" example:"Tempus curabitur faucibus auctor bibendum duis gravida tincidunt litora himenaeos facilisis vivamus vehicula."`
	Rating    float64            `json:"rating" bson:"rating" example:"5"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour" example:"5c88fa8cf4afda39709c2951"`
	UserID    primitive.ObjectID `json:"-" bson:"user"`
	Author    *UserSummary       `json:"user,omitempty" bson:"-"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt" example:"2024-01-15T09:30:00Z"`
}

// CreateReviewRequest is the payload for creating a review. The tour comes
// from the nested route when present, otherwise from the body.
type CreateReviewRequest struct {
	Review string  `json:"review" binding:"required,min=1" example:"Amazing tour!"`
	Rating float64 `json:"rating" binding:"required,gte=1,lte=5" example:"5"`
	Tour   string  `json:"tour" binding:"omitempty,mongoid" example:"5c88fa8cf4afda39709c2951"`
}

// UpdateReviewRequest is the payload for editing a review.
type UpdateReviewRequest struct {
	Review *string  `json:"review" binding:"omitempty,min=1" example:"Still amazing."`
	Rating *float64 `json:"rating" binding:"omitempty,gte=1,lte=5" example:"4"`
}

// RatingStats is the aggregate of a tour's reviews.
type RatingStats struct {
	Tour      primitive.ObjectID `bson:"_id"`
	NRating   int                `bson:"nRating"`
	AvgRating float64            `bson:"avgRating"`
}
