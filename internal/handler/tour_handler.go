package handler

import (
	"context"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "tours-api/internal/errors"
	"tours-api/internal/middleware"
	"tours-api/internal/models"
	"tours-api/internal/query"
	"tours-api/internal/repository"
	"tours-api/internal/service"
	"tours-api/pkg/response"
)

// topCheapAlias is the preset query behind /tours/top-5-cheap.
var topCheapAlias = url.Values{
	"limit":  {"5"},
	"sort":   {"-ratingsAverage,price"},
	"fields": {"name,price,ratingsAverage,summary,difficulty"},
}

// TourHandler handles HTTP requests for tour operations.
type TourHandler struct {
	service service.TourServicer
}

// NewTourHandler creates a new TourHandler.
func NewTourHandler(service service.TourServicer) *TourHandler {
	return &TourHandler{service: service}
}

// ListTours godoc
// @Summary      List tours
// @Description  Filter with field=value or field[gte|gt|lte|lt]=value, sort=-price,name, fields=name,price, page and limit. Secret tours are only listed for admins and lead guides.
// @Tags         tours
// @Produce      json
// @Param        sort    query     string  false  "Sort fields, - for descending"
// @Param        fields  query     string  false  "Projected fields"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  response.Response{data=[]models.Tour}
// @Failure      400     {object}  response.ErrorResponse
// @Failure      404     {object}  response.ErrorResponse
// @Router       /tours [get]
func (h *TourHandler) ListTours(c *gin.Context) {
	h.list(c, nil)
}

// TopCheapTours godoc
// @Summary      Top 5 cheap tours
// @Description  The five best rated tours, cheapest first among equal ratings
// @Tags         tours
// @Produce      json
// @Success      200  {object}  response.Response{data=[]models.Tour}
// @Router       /tours/top-5-cheap [get]
func (h *TourHandler) TopCheapTours(c *gin.Context) {
	h.list(c, topCheapAlias)
}

func (h *TourHandler) list(c *gin.Context, alias url.Values) {
	viewer := middleware.GetUser(c)
	getAll(c, "tours", alias, repository.TourFilterSchema, func(ctx context.Context, f *query.Features) ([]models.Tour, error) {
		return h.service.ListTours(ctx, viewer, f)
	})
}

// GetTour godoc
// @Summary      Get tour by ID
// @Description  Retrieve a tour with its guides and reviews
// @Tags         tours
// @Produce      json
// @Param        id   path      string  true  "Tour ID"
// @Success      200  {object}  response.Response{data=models.TourDetail}
// @Failure      400  {object}  response.ErrorResponse
// @Failure      404  {object}  response.ErrorResponse
// @Router       /tours/{id} [get]
func (h *TourHandler) GetTour(c *gin.Context) {
	viewer := middleware.GetUser(c)
	getOne(c, "tour", func(ctx context.Context, id primitive.ObjectID) (*models.TourDetail, error) {
		return h.service.GetTour(ctx, viewer, id)
	})
}

// CreateTour godoc
// @Summary      Create tour
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        request  body      models.CreateTourRequest  true  "Tour"
// @Success      201      {object}  response.Response{data=models.Tour}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      401      {object}  response.ErrorResponse
// @Failure      403      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tours [post]
func (h *TourHandler) CreateTour(c *gin.Context) {
	createOne(c, "tour", h.service.CreateTour)
}

// UpdateTour godoc
// @Summary      Update tour
// @Description  Partially update a tour. Renaming it also changes its slug.
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        id       path      string                    true  "Tour ID"
// @Param        request  body      models.UpdateTourRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=models.Tour}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      404      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tours/{id} [patch]
func (h *TourHandler) UpdateTour(c *gin.Context) {
	updateOne(c, "tour", h.service.UpdateTour)
}

// DeleteTour godoc
// @Summary      Delete tour
// @Tags         tours
// @Param        id   path  string  true  "Tour ID"
// @Success      204
// @Failure      404  {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tours/{id} [delete]
func (h *TourHandler) DeleteTour(c *gin.Context) {
	deleteOne(c, h.service.DeleteTour)
}

// GetTourStats godoc
// @Summary      Tour statistics
// @Description  Well rated tours grouped by difficulty
// @Tags         tours
// @Produce      json
// @Success      200  {object}  response.Response{data=[]models.TourStats}
// @Router       /tours/tour-stats [get]
func (h *TourHandler) GetTourStats(c *gin.Context) {
	stats, err := h.service.GetTourStats(c.Request.Context(), middleware.GetUser(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "stats", stats)
}

// GetMonthlyPlan godoc
// @Summary      Monthly plan
// @Description  Number of tour starts per month of a year
// @Tags         tours
// @Produce      json
// @Param        year  path      int  true  "Year"
// @Success      200   {object}  response.Response{data=[]models.MonthlyPlan}
// @Failure      400   {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tours/monthly-plan/{year} [get]
func (h *TourHandler) GetMonthlyPlan(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		_ = c.Error(apperrors.ErrInvalidYear)
		return
	}

	plan, err := h.service.GetMonthlyPlan(c.Request.Context(), middleware.GetUser(c), year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "plan", plan)
}

// GetToursWithin godoc
// @Summary      Tours within a radius
// @Description  Tours starting within distance of lat,lng
// @Tags         tours
// @Produce      json
// @Param        distance  path      number  true  "Radius"
// @Param        latlng    path      string  true  "Center as lat,lng"
// @Param        unit      path      string  true  "mi or km"
// @Success      200       {object}  response.Response{data=[]models.Tour}
// @Failure      400       {object}  response.ErrorResponse
// @Router       /tours/tours-within/{distance}/center/{latlng}/unit/{unit} [get]
func (h *TourHandler) GetToursWithin(c *gin.Context) {
	distance, err := parseFinite(c.Param("distance"))
	if err != nil {
		_ = c.Error(apperrors.ErrInvalidDistance)
		return
	}
	geo, err := parseGeoQuery(c.Param("latlng"), c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	tours, err := h.service.GetToursWithin(c.Request.Context(), middleware.GetUser(c), distance, geo)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, "data", tours, len(tours))
}

// GetDistances godoc
// @Summary      Distances to tours
// @Description  Distance from lat,lng to the start of every tour
// @Tags         tours
// @Produce      json
// @Param        latlng  path      string  true  "Point as lat,lng"
// @Param        unit    path      string  true  "mi or km"
// @Success      200     {object}  response.Response{data=[]models.TourDistance}
// @Failure      400     {object}  response.ErrorResponse
// @Router       /tours/distances/{latlng}/unit/{unit} [get]
func (h *TourHandler) GetDistances(c *gin.Context) {
	geo, err := parseGeoQuery(c.Param("latlng"), c.Param("unit"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	distances, err := h.service.GetDistances(c.Request.Context(), middleware.GetUser(c), geo)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "data", distances)
}

// CreateImageUploadURL godoc
// @Summary      Tour image upload URL
// @Description  Presigned PUT URL for a tour image. Store the returned key in images or imageCover.
// @Tags         tours
// @Accept       json
// @Produce      json
// @Param        id       path      string                   true  "Tour ID"
// @Param        request  body      models.UploadURLRequest  true  "Image content type"
// @Success      200      {object}  response.Response{data=models.UploadURLResponse}
// @Failure      400      {object}  response.ErrorResponse
// @Failure      503      {object}  response.ErrorResponse
// @Security     BearerAuth
// @Router       /tours/{id}/images/upload-url [post]
func (h *TourHandler) CreateImageUploadURL(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req models.UploadURLRequest
	if !bindJSON(c, &req) {
		return
	}

	upload, err := h.service.CreateImageUploadURL(c.Request.Context(), id, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.Success(c, "upload", upload)
}

// parseGeoQuery reads a "lat,lng" pair and a distance unit.
func parseGeoQuery(latlng, unit string) (models.GeoQuery, error) {
	parts := strings.Split(latlng, ",")
	if len(parts) != 2 {
		return models.GeoQuery{}, apperrors.ErrInvalidLatLng
	}
	lat, err := parseFinite(parts[0])
	if err != nil {
		return models.GeoQuery{}, apperrors.ErrInvalidLatLng
	}
	lng, err := parseFinite(parts[1])
	if err != nil {
		return models.GeoQuery{}, apperrors.ErrInvalidLatLng
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return models.GeoQuery{}, apperrors.ErrInvalidLatLng
	}

	if unit != models.UnitMiles && unit != models.UnitKilometers {
		return models.GeoQuery{}, apperrors.ErrInvalidUnit
	}

	return models.GeoQuery{Lat: lat, Lng: lng, Unit: unit}, nil
}

// parseFinite parses a float and rejects NaN and infinities, which
// ParseFloat accepts and which slip past every range check.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
