package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haul/internal/domain"
	"haul/internal/ifta"
	"haul/internal/service"
)

// IFTAHandler handles HTTP requests for the reconciliation engine.
type IFTAHandler struct {
	reconciliation *service.ReconciliationService
	synthesis      *service.SynthesisService
	export         *service.ExportService
}

// NewIFTAHandler creates a new IFTAHandler.
func NewIFTAHandler(
	reconciliation *service.ReconciliationService,
	synthesis *service.SynthesisService,
	export *service.ExportService,
) *IFTAHandler {
	return &IFTAHandler{
		reconciliation: reconciliation,
		synthesis:      synthesis,
		export:         export,
	}
}

// JurisdictionTotalResponse is one jurisdiction row of a summary.
type JurisdictionTotalResponse struct {
	Jurisdiction      string  `json:"jurisdiction"`
	TotalMiles        float64 `json:"total_miles"`
	TaxableMiles      float64 `json:"taxable_miles"`
	TaxPaidGallons    float64 `json:"tax_paid_gallons"`
	TaxableGallons    float64 `json:"taxable_gallons"`
	NetTaxableGallons float64 `json:"net_taxable_gallons"`
}

// SummaryResponse is the HTTP response for the summary endpoint.
type SummaryResponse struct {
	Quarter      string                      `json:"quarter"`
	VehicleID    string                      `json:"vehicle_id,omitempty"`
	TripCount    int                         `json:"trip_count"`
	FuelCount    int                         `json:"fuel_count"`
	FleetMiles   float64                     `json:"fleet_miles"`
	FleetGallons float64                     `json:"fleet_gallons"`
	FleetEconomy float64                     `json:"fleet_economy_mpg"`
	Totals       []JurisdictionTotalResponse `json:"totals"`
}

// Summary handles GET /v1/ifta/summary?quarter=&vehicle_id=
func (h *IFTAHandler) Summary(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	summary, err := h.reconciliation.Summarize(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	response := SummaryResponse{
		Quarter:      summary.Quarter.String(),
		VehicleID:    summary.VehicleID,
		TripCount:    summary.TripCount,
		FuelCount:    summary.FuelCount,
		FleetMiles:   summary.FleetMiles,
		FleetGallons: summary.FleetGallons,
		FleetEconomy: summary.FleetEconomy,
		Totals:       make([]JurisdictionTotalResponse, 0, len(summary.Totals)),
	}
	for _, t := range summary.Totals {
		response.Totals = append(response.Totals, JurisdictionTotalResponse{
			Jurisdiction:      t.Jurisdiction,
			TotalMiles:        t.TotalMiles,
			TaxableMiles:      t.TaxableMiles,
			TaxPaidGallons:    t.TaxPaidGallons,
			TaxableGallons:    t.TaxableGallons,
			NetTaxableGallons: t.NetTaxableGallons(),
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// DiscrepancyResponse is one jurisdiction's purchases-vs-trips mismatch.
type DiscrepancyResponse struct {
	Jurisdiction    string  `json:"jurisdiction"`
	PurchaseGallons float64 `json:"purchase_gallons"`
	TripGallons     float64 `json:"trip_gallons"`
	Gallons         float64 `json:"discrepancy_gallons"`
}

// Discrepancies handles GET /v1/ifta/discrepancies?quarter=&vehicle_id=&sort=
func (h *IFTAHandler) Discrepancies(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	discrepancies, err := h.reconciliation.DetectDiscrepancies(c.Request.Context(), scope)
	if err != nil {
		respondError(c, err)
		return
	}

	if c.Query("sort") == "magnitude" {
		ifta.SortByMagnitude(discrepancies)
	}

	response := make([]DiscrepancyResponse, 0, len(discrepancies))
	for _, d := range discrepancies {
		response = append(response, DiscrepancyResponse{
			Jurisdiction:    d.Jurisdiction,
			PurchaseGallons: d.PurchaseGallons,
			TripGallons:     d.TripGallons,
			Gallons:         d.Gallons,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// SynthesizeRequest is the HTTP request for running the synthesizer.
type SynthesizeRequest struct {
	Quarter   string `json:"quarter" binding:"required"`
	VehicleID string `json:"vehicle_id"`
}

// CorrectionFailureResponse is one jurisdiction whose correction failed.
type CorrectionFailureResponse struct {
	Jurisdiction string `json:"jurisdiction"`
	Message      string `json:"message"`
}

// SynthesizeResponse is the HTTP response for a synthesis run.
type SynthesizeResponse struct {
	Created  []TripResponse              `json:"created"`
	Failures []CorrectionFailureResponse `json:"failures"`
}

// Synthesize handles POST /v1/ifta/corrections
func (h *IFTAHandler) Synthesize(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quarter, err := domain.ParseQuarter(req.Quarter)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.synthesis.Synthesize(c.Request.Context(), service.ScopeRequest{
		UserID:    uid,
		Quarter:   quarter,
		VehicleID: req.VehicleID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response := SynthesizeResponse{
		Created:  make([]TripResponse, 0, len(result.Created)),
		Failures: make([]CorrectionFailureResponse, 0, len(result.Failures)),
	}
	for _, trip := range result.Created {
		response.Created = append(response.Created, tripToResponse(trip))
	}
	for _, f := range result.Failures {
		response.Failures = append(response.Failures, CorrectionFailureResponse{
			Jurisdiction: f.Jurisdiction,
			Message:      f.Message,
		})
	}

	respondJSON(c, http.StatusOK, response)
}

// Export handles GET /v1/ifta/export?quarter=&vehicle_id=&format=
func (h *IFTAHandler) Export(c *gin.Context) {
	scope, err := scopeFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	export, err := h.export.Export(c.Request.Context(), service.ExportRequest{
		Scope:  scope,
		Format: service.ExportFormat(c.Query("format")),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}
