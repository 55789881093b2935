package main

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/models"
)

// Every seeded account uses this password.
const seedPassword = "test1234"

var (
	adminID     = oid("5c8a1d5b0190b214360dc057")
	leadGuideID = oid("5c8a1dfa2f8fb814b56fa181")
	guideID     = oid("5c8a1e1a2f8fb814b56fa182")
	guide2ID    = oid("5c8a1f292f8fb814b56fa184")
	laurenID    = oid("5c8a211f2f8fb814b56fa188")
	ayleenID    = oid("5c8a22c62f8fb814b56fa18b")

	seaExplorerID    = oid("5c88fa8cf4afda39709c2955")
	forestHikerID    = oid("5c88fa8cf4afda39709c2951")
	snowAdventurerID = oid("5c88fa8cf4afda39709c295a")
	cityWandererID   = oid("5c88fa8cf4afda39709c2961")
	starGazerID      = oid("5c88fa8cf4afda39709c295d")
)

var users = []models.User{
	{ID: adminID, Name: "Jonas Schmedtmann", Email: "admin@natours.io", Role: models.RoleAdmin, Photo: "user-1.jpg"},
	{ID: leadGuideID, Name: "Lourdes Browning", Email: "loulou@example.com", Role: models.RoleLeadGuide, Photo: "user-2.jpg"},
	{ID: guideID, Name: "Sophie Louise Hart", Email: "sophie@example.com", Role: models.RoleGuide, Photo: "user-3.jpg"},
	{ID: guide2ID, Name: "Steve T. Scaife", Email: "steve@example.com", Role: models.RoleGuide, Photo: "user-6.jpg"},
	{ID: laurenID, Name: "Lauren Ramirez", Email: "lauren@example.com", Role: models.RoleUser, Photo: "user-7.jpg"},
	{ID: ayleenID, Name: "Ayleen Wilkerson", Email: "ayleen@example.com", Role: models.RoleUser, Photo: "user-9.jpg"},
}

var tours = []models.Tour{
	{
		ID:           forestHikerID,
		Name:         "The Forest Hiker",
		Duration:     5,
		MaxGroupSize: 25,
		Difficulty:   models.DifficultyEasy,
		Price:        397,
		Summary:      "Breathtaking hike through the Canadian Banff National Park",
		Description:  "Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
		ImageCover:   "tour-1-cover.jpg",
		Images:       []string{"tour-1-1.jpg", "tour-1-2.jpg", "tour-1-3.jpg"},
		StartDates:   dates("2026-04-25T09:00:00Z", "2026-07-20T09:00:00Z", "2026-10-05T09:00:00Z"),
		StartLocation: &models.Location{
			Type: "Point", Coordinates: []float64{-116.214531, 51.417611},
			Description: "Banff, CAN", Address: "224 Banff Ave, Banff, AB, Canada",
		},
		Locations: []models.Location{
			{Type: "Point", Coordinates: []float64{-116.214531, 51.417611}, Description: "Banff National Park", Day: 1},
			{Type: "Point", Coordinates: []float64{-118.076152, 52.875223}, Description: "Jasper National Park", Day: 3},
			{Type: "Point", Coordinates: []float64{-117.490309, 51.261937}, Description: "Glacier National Park of Canada", Day: 5},
		},
		Guides: []primitive.ObjectID{leadGuideID, guideID},
	},
	{
		ID:           seaExplorerID,
		Name:         "The Sea Explorer",
		Duration:     7,
		MaxGroupSize: 15,
		Difficulty:   models.DifficultyMedium,
		Price:        497,
		Summary:      "Exploring the jaw-dropping US east coast by foot and by boat",
		Description:  "Consectetur adipisicing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		ImageCover:   "tour-2-cover.jpg",
		Images:       []string{"tour-2-1.jpg", "tour-2-2.jpg", "tour-2-3.jpg"},
		StartDates:   dates("2026-06-19T09:00:00Z", "2026-07-20T09:00:00Z", "2026-08-18T09:00:00Z"),
		StartLocation: &models.Location{
			Type: "Point", Coordinates: []float64{-80.185942, 25.774772},
			Description: "Miami, USA", Address: "301 Biscayne Blvd, Miami, FL 33132, USA",
		},
		Locations: []models.Location{
			{Type: "Point", Coordinates: []float64{-80.128473, 25.781842}, Description: "Lummus Park Beach", Day: 1},
			{Type: "Point", Coordinates: []float64{-80.647885, 24.909047}, Description: "Islamorada", Day: 2},
			{Type: "Point", Coordinates: []float64{-81.0784, 24.707496}, Description: "Sombrero Beach", Day: 3},
		},
		Guides: []primitive.ObjectID{leadGuideID, guide2ID},
	},
	{
		ID:           snowAdventurerID,
		Name:         "The Snow Adventurer",
		Duration:     4,
		MaxGroupSize: 10,
		Difficulty:   models.DifficultyDifficult,
		Price:        997,
		Summary:      "Exciting adventure in the snow with snowboarding and skiing",
		Description:  "Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua, ut enim ad minim veniam.",
		ImageCover:   "tour-3-cover.jpg",
		Images:       []string{"tour-3-1.jpg", "tour-3-2.jpg", "tour-3-3.jpg"},
		StartDates:   dates("2027-01-05T10:00:00Z", "2027-02-12T10:00:00Z", "2027-01-06T10:00:00Z"),
		StartLocation: &models.Location{
			Type: "Point", Coordinates: []float64{-106.822318, 39.190872},
			Description: "Aspen, USA", Address: "419 S Mill St, Aspen, CO 81611, USA",
		},
		Locations: []models.Location{
			{Type: "Point", Coordinates: []float64{-106.855385, 39.182677}, Description: "Aspen Highlands", Day: 1},
			{Type: "Point", Coordinates: []float64{-105.876535, 39.604311}, Description: "Keystone", Day: 2},
		},
		Guides: []primitive.ObjectID{leadGuideID, guideID, guide2ID},
	},
	{
		ID:           cityWandererID,
		Name:         "The City Wanderer",
		Duration:     9,
		MaxGroupSize: 20,
		Difficulty:   models.DifficultyEasy,
		Price:        1197,
		Summary:      "Living the life of Wanderlust in the US' most beatiful cities",
		Description:  "Lorem ipsum dolor sit amet, consectetur adipisicing elit, sed do eiusmod tempor incididunt.",
		ImageCover:   "tour-4-cover.jpg",
		Images:       []string{"tour-4-1.jpg", "tour-4-2.jpg", "tour-4-3.jpg"},
		StartDates:   dates("2026-03-11T10:00:00Z", "2026-05-02T09:00:00Z", "2026-06-09T09:00:00Z"),
		StartLocation: &models.Location{
			Type: "Point", Coordinates: []float64{-73.985141, 40.75894},
			Description: "NYC, USA", Address: "Manhattan, NY 10036, USA",
		},
		Locations: []models.Location{
			{Type: "Point", Coordinates: []float64{-73.967696, 40.781821}, Description: "New York", Day: 1},
			{Type: "Point", Coordinates: []float64{-118.324396, 34.097984}, Description: "Los Angeles", Day: 3},
			{Type: "Point", Coordinates: []float64{-122.408865, 37.787825}, Description: "San Francisco", Day: 5},
		},
		Guides: []primitive.ObjectID{leadGuideID, guide2ID},
	},
	{
		ID:            starGazerID,
		Name:          "The Star Gazer",
		Duration:      9,
		MaxGroupSize:  8,
		Difficulty:    models.DifficultyMedium,
		Price:         2997,
		PriceDiscount: floatPtr(200),
		Summary:       "The most remote and stunningly beautiful places for seeing the night sky",
		Description:   "Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
		ImageCover:    "tour-9-cover.jpg",
		Images:        []string{"tour-9-1.jpg", "tour-9-2.jpg", "tour-9-3.jpg"},
		StartDates:    dates("2026-03-23T10:00:00Z", "2026-10-25T10:00:00Z", "2027-01-30T10:00:00Z"),
		SecretTour:    true,
		StartLocation: &models.Location{
			Type: "Point", Coordinates: []float64{-105.9378, 35.6869},
			Description: "Santa Fe, USA", Address: "Santa Fe, NM, USA",
		},
		Locations: []models.Location{
			{Type: "Point", Coordinates: []float64{-112.987418, 37.198125}, Description: "Zion Canyon National Park", Day: 1},
			{Type: "Point", Coordinates: []float64{-111.376161, 36.86438}, Description: "Antelope Canyon", Day: 4},
		},
		Guides: []primitive.ObjectID{leadGuideID},
	},
}

var reviews = []models.Review{
	{ID: primitive.NewObjectID(), Review: "Cras mollis nisi parturient mi nec aliquet suspendisse sagittis eros condimentum scelerisque taciti mattis praesent feugiat eu nascetur a tincidunt", Rating: 5, Tour: forestHikerID, UserID: laurenID},
	{ID: primitive.NewObjectID(), Review: "Tempus curabitur faucibus auctor bibendum duis gravida tincidunt litora himenaeos facilisis vivamus vehicula", Rating: 4, Tour: forestHikerID, UserID: ayleenID},
	{ID: primitive.NewObjectID(), Review: "Convallis turpis porttitor sapien ad urna efficitur dui vivamus in praesent nulla hac non potenti", Rating: 5, Tour: seaExplorerID, UserID: laurenID},
	{ID: primitive.NewObjectID(), Review: "Porttitor ullamcorper rutrum semper proin mus felis varius convallis conubia nisl erat lectus eget", Rating: 5, Tour: seaExplorerID, UserID: ayleenID},
	{ID: primitive.NewObjectID(), Review: "Quisque egestas faucibus primis ridiculus mi felis tristique curabitur habitasse vehicula", Rating: 4, Tour: snowAdventurerID, UserID: laurenID},
	{ID: primitive.NewObjectID(), Review: "Euismod suscipit ipsum efficitur rutrum dis mus dictumst laoreet lectus", Rating: 3, Tour: cityWandererID, UserID: ayleenID},
	{ID: primitive.NewObjectID(), Review: "Sem risus tristique elementum dignissim rutrum mauris eleifend ornare a", Rating: 5, Tour: starGazerID, UserID: laurenID},
}

func dates(values ...string) []time.Time {
	out := make([]time.Time, 0, len(values))
	for _, v := range values {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			panic(err)
		}
		out = append(out, t)
	}
	return out
}

func floatPtr(v float64) *float64 { return &v }
