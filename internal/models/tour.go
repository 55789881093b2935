package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty levels a tour can have.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Rating defaults applied to tours without reviews.
const (
	DefaultRatingsAverage  = 4.5
	DefaultRatingsQuantity = 0
)

// RoundRating rounds an average to one decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// Location is a GeoJSON point with tour metadata.
type Location struct {
	Type        string    `json:"type" bson:"type" example:"Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" binding:"len=2" example:"-80.185942,25.774772"` // [lng, lat]
	Address     string    `json:"address,omitempty" bson:"address,omitempty" example:"301 Biscayne Blvd, Miami, FL 33132, USA"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" example:"Miami, USA"`
	Day         int       `json:"day,omitempty" bson:"day,omitempty" example:"1"`
}

// Tour represents a bookable tour.
type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty" example:"5c88fa8cf4afda39709c2955"`
	Name            string               `json:"name" bson:"name" example:"The Sea Explorer"`
	Slug            string               `json:"slug" bson:"slug" example:"the-sea-explorer"`
	Duration        int                  `json:"duration" bson:"duration" example:"7"`
	DurationWeeks   float64              `json:"durationWeeks,omitempty" bson:"-" example:"1"`
	MaxGroupSize    int                  `json:"maxGroupSize" bson:"maxGroupSize" example:"15"`
	Difficulty      string               `json:"difficulty" bson:"difficulty" example:"medium"`
	RatingsAverage  float64              `json:"ratingsAverage" bson:"ratingsAverage" example:"4.8"`
	RatingsQuantity int                  `json:"ratingsQuantity" bson:"ratingsQuantity" example:"6"`
	Price           float64              `json:"price" bson:"price" example:"497"`
	PriceDiscount   *float64             `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty"`
	Summary         string               `json:"summary" bson:"summary" example:"Exploring the jaw-dropping US east coast by foot and by boat"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"imageCover" bson:"imageCover" example:"tour-2-cover.jpg"`
	Images          []string             `json:"images" bson:"images"`
	StartDates      []time.Time          `json:"startDates" bson:"startDates"`
	SecretTour      bool                 `json:"secretTour" bson:"secretTour"`
	StartLocation   *Location            `json:"startLocation,omitempty" bson:"startLocation,omitempty"`
	Locations       []Location           `json:"locations" bson:"locations"`
	Guides          []primitive.ObjectID `json:"guides" bson:"guides"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt" example:"2024-01-15T09:30:00Z"`
}

// Prepare fills the virtual fields after a tour is loaded.
func (t *Tour) Prepare() {
	t.DurationWeeks = float64(t.Duration) / 7
}

// TourDetail is a tour with its guides and reviews populated.
type TourDetail struct {
	Tour    `bson:",inline"`
	Guides  []UserSummary `json:"guides" bson:"-"`
	Reviews []Review      `json:"reviews" bson:"-"`
}

// CreateTourRequest is the payload for creating a tour.
type CreateTourRequest struct {
	Name          string      `json:"name" binding:"required,max=100" example:"The Sea Explorer"`
	Duration      int         `json:"duration" binding:"required,gt=0" example:"7"`
	MaxGroupSize  int         `json:"maxGroupSize" binding:"required,gt=0" example:"15"`
	Difficulty    string      `json:"difficulty" binding:"required,difficulty" example:"medium"`
	Price         *float64    `json:"price" binding:"required,gte=0" example:"497"`
	PriceDiscount *float64    `json:"priceDiscount" binding:"omitempty,gte=0" example:"50"`
	Summary       string      `json:"summary" binding:"required" example:"Exploring the jaw-dropping US east coast by foot and by boat"`
	Description   string      `json:"description" example:"Consectetur adipisicing elit"`
	ImageCover    string      `json:"imageCover" binding:"required" example:"tour-2-cover.jpg"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	SecretTour    bool        `json:"secretTour"`
	StartLocation *Location   `json:"startLocation" binding:"omitempty"`
	Locations     []Location  `json:"locations" binding:"omitempty,dive"`
	Guides        []string    `json:"guides" binding:"omitempty,dive,mongoid"`
}

// UpdateTourRequest is the payload for partially updating a tour.
type UpdateTourRequest struct {
	Name          *string     `json:"name" binding:"omitempty,min=1,max=100" example:"The Sea Explorer"`
	Duration      *int        `json:"duration" binding:"omitempty,gt=0" example:"7"`
	MaxGroupSize  *int        `json:"maxGroupSize" binding:"omitempty,gt=0" example:"15"`
	Difficulty    *string     `json:"difficulty" binding:"omitempty,difficulty" example:"easy"`
	Price         *float64    `json:"price" binding:"omitempty,gte=0" example:"397"`
	PriceDiscount *float64    `json:"priceDiscount" binding:"omitempty,gte=0" example:"50"`
	Summary       *string     `json:"summary" binding:"omitempty,min=1"`
	Description   *string     `json:"description"`
	ImageCover    *string     `json:"imageCover" binding:"omitempty,min=1"`
	Images        []string    `json:"images"`
	StartDates    []time.Time `json:"startDates"`
	SecretTour    *bool       `json:"secretTour"`
	StartLocation *Location   `json:"startLocation"`
	Locations     []Location  `json:"locations" binding:"omitempty,dive"`
	Guides        []string    `json:"guides" binding:"omitempty,dive,mongoid"`
}

// TourStats is one difficulty bucket of the tour statistics.
type TourStats struct {
	Difficulty string  `json:"difficulty" bson:"_id" example:"MEDIUM"`
	NumTours   int     `json:"numTours" bson:"numTours" example:"3"`
	NumRatings int     `json:"numRatings" bson:"numRatings" example:"70"`
	AvgRating  float64 `json:"avgRating" bson:"avgRating" example:"4.8"`
	AvgPrice   float64 `json:"avgPrice" bson:"avgPrice" example:"1663.67"`
	MinPrice   float64 `json:"minPrice" bson:"minPrice" example:"497"`
	MaxPrice   float64 `json:"maxPrice" bson:"maxPrice" example:"2997"`
}

// MonthlyPlan counts tour starts in one month of a year.
type MonthlyPlan struct {
	Month         int      `json:"month" bson:"month" example:"7"`
	NumTourStarts int      `json:"numTourStarts" bson:"numTourStarts" example:"3"`
	Tours         []string `json:"tours" bson:"tours"`
}

// TourDistance is a tour name with its distance from a point.
type TourDistance struct {
	ID       primitive.ObjectID `json:"id" bson:"_id"`
	Name     string             `json:"name" bson:"name" example:"The Sea Explorer"`
	Distance float64            `json:"distance" bson:"distance" example:"40.36"`
}

// Distance units accepted by the geo routes.
const (
	UnitMiles      = "mi"
	UnitKilometers = "km"
)

// GeoQuery is a parsed center point with a unit.
type GeoQuery struct {
	Lat  float64
	Lng  float64
	Unit string
}
