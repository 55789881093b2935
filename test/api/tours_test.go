//go:build api

package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tours-api/internal/models"
	"tours-api/test/api/testserver"
	"tours-api/test/fixtures"
	"tours-api/test/testutil"
)

func located(body map[string]interface{}, lng, lat float64, startDates ...string) map[string]interface{} {
	body["startLocation"] = map[string]interface{}{
		"type":        "Point",
		"coordinates": []float64{lng, lat},
		"description": "start",
	}
	if len(startDates) > 0 {
		body["startDates"] = startDates
	}
	return body
}

// seedTours creates three public tours and one secret tour as admin.
func seedTours(t *testing.T, adminToken string) map[string]*models.Tour {
	t.Helper()
	tourHelper := testserver.NewTourHelper(testServer)

	tours := map[string]*models.Tour{}
	tours["forest"] = tourHelper.Create(t, adminToken, located(
		testserver.TourRequest("The Forest Hiker", 397, models.DifficultyEasy),
		-116.214531, 51.417611, "2026-04-25T09:00:00Z", "2026-07-20T09:00:00Z"))
	tours["sea"] = tourHelper.Create(t, adminToken, located(
		testserver.TourRequest("The Sea Explorer", 497, models.DifficultyMedium),
		-80.185942, 25.774772, "2026-07-19T09:00:00Z"))
	tours["snow"] = tourHelper.Create(t, adminToken, located(
		testserver.TourRequest("The Snow Adventurer", 997, models.DifficultyDifficult),
		-106.822318, 39.190872, "2027-01-05T10:00:00Z"))

	secret := located(testserver.TourRequest("The Star Gazer", 2997, models.DifficultyMedium), -105.9378, 35.6869, "2026-03-23T10:00:00Z")
	secret["secretTour"] = true
	tours["secret"] = tourHelper.Create(t, adminToken, secret)
	return tours
}

func TestCreateTour(t *testing.T) {
	authHelper := testserver.NewAuthHelper(testServer)
	tourHelper := testserver.NewTourHelper(testServer)

	t.Run("derives the slug and rating defaults", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)

		tour := tourHelper.Create(t, adminToken, testserver.TourRequest("The Park Camper", 1497, models.DifficultyMedium))

		assert.Equal(t, "the-park-camper", tour.Slug)
		assert.Equal(t, models.DefaultRatingsAverage, tour.RatingsAverage)
		assert.Equal(t, 0, tour.RatingsQuantity)
	})

	t.Run("discount must be below the price", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)

		body := testserver.TourRequest("The Park Camper", 100, models.DifficultyMedium)
		body["priceDiscount"] = 150

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours", adminToken, body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown difficulty", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours", adminToken,
			testserver.TourRequest("The Park Camper", 100, "extreme"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "difficulty is either: easy, medium, difficult")
	})

	t.Run("duplicate name", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		tourHelper.Create(t, adminToken, testserver.TourRequest("The Park Camper", 100, models.DifficultyEasy))

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours", adminToken,
			testserver.TourRequest("The Park Camper", 200, models.DifficultyEasy))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Duplicate field value")
	})

	t.Run("regular users cannot create tours", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, token := authHelper.Signup(t, "Laura", "laura@example.com")

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours", token,
			testserver.TourRequest("The Park Camper", 100, models.DifficultyEasy))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestListTours(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	authHelper := testserver.NewAuthHelper(testServer)
	_, adminToken := authHelper.Admin(t)
	seedTours(t, adminToken)

	list := func(t *testing.T, path, token string) []map[string]interface{} {
		t.Helper()
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var tours []map[string]interface{}
		env := testutil.ParseEnvelope(t, w, "tours", &tours)
		require.NotNil(t, env.Results)
		assert.Equal(t, len(tours), *env.Results)
		return tours
	}

	names := func(tours []map[string]interface{}) []string {
		out := make([]string, 0, len(tours))
		for _, tour := range tours {
			out = append(out, tour["name"].(string))
		}
		return out
	}

	t.Run("anonymous callers do not see secret tours", func(t *testing.T) {
		tours := list(t, "/api/v1/tours", "")
		assert.Len(t, tours, 3)
		assert.NotContains(t, names(tours), "The Star Gazer")
	})

	t.Run("admins see secret tours", func(t *testing.T) {
		tours := list(t, "/api/v1/tours", adminToken)
		assert.Len(t, tours, 4)
	})

	t.Run("filter with operators", func(t *testing.T) {
		tours := list(t, "/api/v1/tours?price[lt]=500&difficulty=easy", "")
		assert.Equal(t, []string{"The Forest Hiker"}, names(tours))
	})

	t.Run("sort descending", func(t *testing.T) {
		tours := list(t, "/api/v1/tours?sort=-price", "")
		assert.Equal(t, []string{"The Snow Adventurer", "The Sea Explorer", "The Forest Hiker"}, names(tours))
	})

	t.Run("field projection", func(t *testing.T) {
		tours := list(t, "/api/v1/tours?fields=name,price", "")
		require.NotEmpty(t, tours)
		for _, tour := range tours {
			assert.ElementsMatch(t, []string{"id", "name", "price"}, keys(tour))
		}
	})

	t.Run("pagination", func(t *testing.T) {
		tours := list(t, "/api/v1/tours?sort=price&page=2&limit=2", "")
		assert.Equal(t, []string{"The Snow Adventurer"}, names(tours))
	})

	t.Run("page past the end", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours?page=5&limit=2", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "This page does not exist")
	})

	t.Run("operator injection is stripped", func(t *testing.T) {
		tours := list(t, "/api/v1/tours?$where=1", "")
		assert.Len(t, tours, 3)
	})

	t.Run("top five cheap", func(t *testing.T) {
		tours := list(t, "/api/v1/tours/top-5-cheap", "")
		require.Len(t, tours, 3)
		assert.ElementsMatch(t, []string{"id", "name", "price", "ratingsAverage", "summary", "difficulty"}, keys(tours[0]))
	})
}

func TestGetTour(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	authHelper := testserver.NewAuthHelper(testServer)
	tourHelper := testserver.NewTourHelper(testServer)
	reviewHelper := testserver.NewReviewHelper(testServer)

	_, adminToken := authHelper.Admin(t)
	guide, _ := authHelper.SeedUser(t, fixtures.NewUser().WithName("Guide").AsGuide())

	body := testserver.TourRequest("The Forest Hiker", 397, models.DifficultyEasy)
	body["guides"] = []string{guide.ID.Hex()}
	tour := tourHelper.Create(t, adminToken, body)

	_, userToken := authHelper.Signup(t, "Laura", "laura@example.com")
	reviewHelper.Create(t, userToken, tour.ID.Hex(), 4)

	t.Run("populates guides and reviews", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/"+tour.ID.Hex(), nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var detail models.TourDetail
		testutil.ParseEnvelope(t, w, "tour", &detail)
		require.Len(t, detail.Guides, 1)
		assert.Equal(t, "Guide", detail.Guides[0].Name)
		require.Len(t, detail.Reviews, 1)
		assert.Equal(t, 4.0, detail.Reviews[0].Rating)
		assert.InDelta(t, 5.0/7, detail.DurationWeeks, 0.001)
	})

	t.Run("missing tour", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/5c88fa8cf4afda39709c2999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/not-an-id", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"status":"fail","message":"Invalid id: not-an-id."}`, w.Body.String())
	})
}

func TestUpdateAndDeleteTour(t *testing.T) {
	authHelper := testserver.NewAuthHelper(testServer)
	tourHelper := testserver.NewTourHelper(testServer)

	t.Run("rename changes the slug", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		tour := tourHelper.Create(t, adminToken, testserver.TourRequest("The Forest Hiker", 397, models.DifficultyEasy))

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPatch, "/api/v1/tours/"+tour.ID.Hex(), adminToken,
			map[string]interface{}{"name": "The Forest Walker"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated models.Tour
		testutil.ParseEnvelope(t, w, "tour", &updated)
		assert.Equal(t, "the-forest-walker", updated.Slug)
		assert.Equal(t, 397.0, updated.Price)
	})

	t.Run("lead guide deletes a tour", func(t *testing.T) {
		testServer.CleanupBetweenTests(t)
		_, adminToken := authHelper.Admin(t)
		_, leadToken := authHelper.SeedUser(t, fixtures.NewUser().AsLeadGuide())
		tour := tourHelper.Create(t, adminToken, testserver.TourRequest("The Forest Hiker", 397, models.DifficultyEasy))

		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodDelete, "/api/v1/tours/"+tour.ID.Hex(), leadToken, nil)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		w = testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/"+tour.ID.Hex(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTourAggregates(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	authHelper := testserver.NewAuthHelper(testServer)
	_, adminToken := authHelper.Admin(t)
	_, guideToken := authHelper.SeedUser(t, fixtures.NewUser().AsGuide())
	seedTours(t, adminToken)

	t.Run("stats by difficulty", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/tour-stats", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats []models.TourStats
		testutil.ParseEnvelope(t, w, "stats", &stats)
		require.Len(t, stats, 3)
		for _, s := range stats {
			assert.Equal(t, strings.ToUpper(s.Difficulty), s.Difficulty)
			assert.Equal(t, 1, s.NumTours)
		}
	})

	t.Run("monthly plan", func(t *testing.T) {
		w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodGet, "/api/v1/tours/monthly-plan/2026", guideToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var plan []models.MonthlyPlan
		testutil.ParseEnvelope(t, w, "plan", &plan)
		require.NotEmpty(t, plan)
		// July has two starts, so it sorts first
		assert.Equal(t, 7, plan[0].Month)
		assert.Equal(t, 2, plan[0].NumTourStarts)
		assert.ElementsMatch(t, []string{"The Forest Hiker", "The Sea Explorer"}, plan[0].Tours)
	})

	t.Run("tours within a radius", func(t *testing.T) {
		// Banff, 400 miles
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet,
			"/api/v1/tours/tours-within/400/center/51.1784,-115.5708/unit/mi", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var tours []models.Tour
		env := testutil.ParseEnvelope(t, w, "data", &tours)
		require.Len(t, tours, 1)
		assert.Equal(t, 1, *env.Results)
		assert.Equal(t, "The Forest Hiker", tours[0].Name)
	})

	t.Run("distances from a point", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet,
			"/api/v1/tours/distances/34.111745,-118.113491/unit/km", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var distances []models.TourDistance
		testutil.ParseEnvelope(t, w, "data", &distances)
		require.Len(t, distances, 3)
		for i := 1; i < len(distances); i++ {
			assert.LessOrEqual(t, distances[i-1].Distance, distances[i].Distance)
		}
	})

	t.Run("bad coordinates", func(t *testing.T) {
		w := testutil.MakeRequest(t, testServer.Router, http.MethodGet,
			"/api/v1/tours/distances/34.1/unit/km", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "lat,lng")
	})
}

func TestTourImageUploadURL(t *testing.T) {
	testServer.CleanupBetweenTests(t)
	authHelper := testserver.NewAuthHelper(testServer)
	_, adminToken := authHelper.Admin(t)
	tour := testserver.NewTourHelper(testServer).Create(t, adminToken, testserver.TourRequest("The Forest Hiker", 397, models.DifficultyEasy))

	w := testutil.MakeAuthRequest(t, testServer.Router, http.MethodPost, "/api/v1/tours/"+tour.ID.Hex()+"/images/upload-url", adminToken,
		models.UploadURLRequest{ContentType: "image/jpeg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var upload models.UploadURLResponse
	testutil.ParseEnvelope(t, w, "upload", &upload)
	assert.Contains(t, upload.UploadURL, testServer.MinIO.Config.Bucket)
	assert.True(t, strings.HasPrefix(upload.Key, "tours/"+tour.ID.Hex()), upload.Key)
	assert.True(t, strings.HasSuffix(upload.Key, ".jpg"), upload.Key)
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
