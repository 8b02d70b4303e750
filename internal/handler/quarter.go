package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"haul/internal/domain"
	"haul/internal/repository"
	"haul/internal/service"
)

// QuarterHandler handles HTTP requests for quarter filing locks.
type QuarterHandler struct {
	quarterLockRepo repository.QuarterLockRepository
	notifications   *service.NotificationService
}

// NewQuarterHandler creates a new QuarterHandler.
func NewQuarterHandler(quarterLockRepo repository.QuarterLockRepository, notifications *service.NotificationService) *QuarterHandler {
	return &QuarterHandler{
		quarterLockRepo: quarterLockRepo,
		notifications:   notifications,
	}
}

// QuarterLockResponse is the HTTP response for quarter lock operations.
type QuarterLockResponse struct {
	Quarter string `json:"quarter"`
	Locked  bool   `json:"locked"`
}

// Lock handles POST /v1/quarters/:quarter/lock
func (h *QuarterHandler) Lock(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	quarter, err := domain.ParseQuarter(c.Param("quarter"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.quarterLockRepo.Lock(c.Request.Context(), uid, quarter); err != nil {
		respondError(c, err)
		return
	}

	if h.notifications != nil {
		_ = h.notifications.NotifyQuarterLocked(c.Request.Context(), uid, quarter)
	}

	respondJSON(c, http.StatusOK, QuarterLockResponse{Quarter: quarter.String(), Locked: true})
}

// Unlock handles DELETE /v1/quarters/:quarter/lock
func (h *QuarterHandler) Unlock(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	quarter, err := domain.ParseQuarter(c.Param("quarter"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.quarterLockRepo.Unlock(c.Request.Context(), uid, quarter); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuarterLockResponse{Quarter: quarter.String(), Locked: false})
}

// Status handles GET /v1/quarters/:quarter/lock
func (h *QuarterHandler) Status(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		respondError(c, service.ErrInvalidUserID)
		return
	}

	quarter, err := domain.ParseQuarter(c.Param("quarter"))
	if err != nil {
		respondError(c, err)
		return
	}

	locked, err := h.quarterLockRepo.IsLocked(c.Request.Context(), uid, quarter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, QuarterLockResponse{Quarter: quarter.String(), Locked: locked})
}
