package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"haul/internal/domain"
	"haul/internal/service"
)

// FuelHandler handles HTTP requests for fuel purchases.
type FuelHandler struct {
	fuelService *service.FuelService
}

// NewFuelHandler creates a new FuelHandler.
func NewFuelHandler(fuelService *service.FuelService) *FuelHandler {
	return &FuelHandler{fuelService: fuelService}
}

// CreateFuelPurchaseRequest is the HTTP request for recording a fuel purchase.
type CreateFuelPurchaseRequest struct {
	VehicleID    string  `json:"vehicle_id" binding:"required"`
	Date         string  `json:"date" binding:"required"`
	Jurisdiction string  `json:"jurisdiction" binding:"required"`
	Gallons      float64 `json:"gallons"`
	Amount       float64 `json:"amount"`
}

// FuelPurchaseResponse is the HTTP response for fuel purchase operations.
type FuelPurchaseResponse struct {
	PurchaseID   string  `json:"purchase_id"`
	VehicleID    string  `json:"vehicle_id"`
	Quarter      string  `json:"quarter"`
	Date         string  `json:"date"`
	Jurisdiction string  `json:"jurisdiction"`
	Gallons      float64 `json:"gallons"`
	Amount       float64 `json:"amount"`
}

func fuelToResponse(entry *domain.FuelPurchaseEntry) FuelPurchaseResponse {
	return FuelPurchaseResponse{
		PurchaseID:   entry.ID,
		VehicleID:    entry.VehicleID,
		Quarter:      entry.Quarter.String(),
		Date:         entry.Date.Format(dateLayout),
		Jurisdiction: entry.Jurisdiction,
		Gallons:      entry.Gallons,
		Amount:       entry.Amount,
	}
}

// Create handles POST /v1/fuel-purchases
func (h *FuelHandler) Create(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	var req CreateFuelPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + err.Error()})
		return
	}

	entry, err := h.fuelService.CreateFuelPurchase(c.Request.Context(), service.CreateFuelPurchaseRequest{
		UserID:       uid,
		VehicleID:    req.VehicleID,
		Date:         date,
		Jurisdiction: req.Jurisdiction,
		Gallons:      req.Gallons,
		Amount:       req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, fuelToResponse(entry))
}

// List handles GET /v1/fuel-purchases?quarter=&vehicle_id=
func (h *FuelHandler) List(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	entries, err := h.fuelService.ListFuelPurchases(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]FuelPurchaseResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, fuelToResponse(entry))
	}

	respondJSON(c, http.StatusOK, response)
}
