package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"haul/internal/domain"
	"haul/internal/service"
)

// TripHandler handles HTTP requests for trip records.
type TripHandler struct {
	tripService *service.TripService
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(tripService *service.TripService) *TripHandler {
	return &TripHandler{tripService: tripService}
}

// CreateTripRequest is the HTTP request for creating a trip record.
type CreateTripRequest struct {
	Quarter           string  `json:"quarter" binding:"required"`
	VehicleID         string  `json:"vehicle_id" binding:"required"`
	DriverID          string  `json:"driver_id"`
	StartDate         string  `json:"start_date" binding:"required"`
	EndDate           string  `json:"end_date"`
	StartJurisdiction string  `json:"start_jurisdiction"`
	EndJurisdiction   string  `json:"end_jurisdiction"`
	Miles             float64 `json:"miles"`
	Gallons           float64 `json:"gallons"`
	FuelCost          float64 `json:"fuel_cost"`
	Origin            string  `json:"origin"`
	Note              string  `json:"note"`
}

// TripResponse is the HTTP response for trip record operations.
type TripResponse struct {
	TripID            string  `json:"trip_id"`
	Quarter           string  `json:"quarter"`
	VehicleID         string  `json:"vehicle_id"`
	DriverID          string  `json:"driver_id,omitempty"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date,omitempty"`
	StartJurisdiction string  `json:"start_jurisdiction,omitempty"`
	EndJurisdiction   string  `json:"end_jurisdiction,omitempty"`
	Miles             float64 `json:"miles"`
	Gallons           float64 `json:"gallons"`
	FuelCost          float64 `json:"fuel_cost,omitempty"`
	Origin            string  `json:"origin"`
	Note              string  `json:"note,omitempty"`
}

const dateLayout = "2006-01-02"

func tripToResponse(trip *domain.TripRecord) TripResponse {
	resp := TripResponse{
		TripID:            trip.ID,
		Quarter:           trip.Quarter.String(),
		VehicleID:         trip.VehicleID,
		DriverID:          trip.DriverID,
		StartDate:         trip.StartDate.Format(dateLayout),
		StartJurisdiction: trip.StartJurisdiction,
		EndJurisdiction:   trip.EndJurisdiction,
		Miles:             trip.Miles,
		Gallons:           trip.Gallons,
		FuelCost:          trip.FuelCost,
		Origin:            string(trip.Origin),
		Note:              trip.Note,
	}
	if !trip.EndDate.IsZero() {
		resp.EndDate = trip.EndDate.Format(dateLayout)
	}
	return resp
}

// Create handles POST /v1/trips
func (h *TripHandler) Create(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quarter, err := domain.ParseQuarter(req.Quarter)
	if err != nil {
		respondError(c, err)
		return
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid start_date: " + err.Error()})
		return
	}

	var endDate time.Time
	if req.EndDate != "" {
		endDate, err = time.Parse(dateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid end_date: " + err.Error()})
			return
		}
	}

	trip, err := h.tripService.CreateTrip(c.Request.Context(), service.CreateTripRequest{
		UserID:            uid,
		Quarter:           quarter,
		VehicleID:         req.VehicleID,
		DriverID:          req.DriverID,
		StartDate:         startDate,
		EndDate:           endDate,
		StartJurisdiction: req.StartJurisdiction,
		EndJurisdiction:   req.EndJurisdiction,
		Miles:             req.Miles,
		Gallons:           req.Gallons,
		FuelCost:          req.FuelCost,
		Origin:            domain.TripOrigin(req.Origin),
		Note:              req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, tripToResponse(trip))
}

// List handles GET /v1/trips?quarter=&vehicle_id=
func (h *TripHandler) List(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TripResponse, 0, len(trips))
	for _, trip := range trips {
		response = append(response, tripToResponse(trip))
	}

	respondJSON(c, http.StatusOK, response)
}

// Delete handles DELETE /v1/trips/:id
func (h *TripHandler) Delete(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	if err := h.tripService.DeleteTrip(c.Request.Context(), uid, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
