package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"haul/internal/domain"
	"haul/internal/repository"
	"haul/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, domain.ErrInvalidQuarter),
		errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrInvalidVehicleID),
		errors.Is(err, service.ErrInvalidTripID),
		errors.Is(err, service.ErrInvalidPurchaseID),
		errors.Is(err, service.ErrInvalidMiles),
		errors.Is(err, service.ErrInvalidGallons),
		errors.Is(err, service.ErrInvalidJurisdiction),
		errors.Is(err, service.ErrInvalidOrigin),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrUnsupportedFormat):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrQuarterLocked),
		errors.Is(err, service.ErrSyncInProgress):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// userID extracts the acting user from the X-User-ID header. Authentication
// itself lives upstream; this service only needs the identity.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

// scopeFromQuery builds a reconciliation scope from the request's query
// parameters.
func scopeFromQuery(c *gin.Context) (service.ScopeRequest, error) {
	quarter, err := domain.ParseQuarter(c.Query("quarter"))
	if err != nil {
		return service.ScopeRequest{}, err
	}

	uid := userID(c)
	if uid == "" {
		return service.ScopeRequest{}, service.ErrInvalidUserID
	}

	return service.ScopeRequest{
		UserID:    uid,
		Quarter:   quarter,
		VehicleID: c.Query("vehicle_id"),
	}, nil
}
