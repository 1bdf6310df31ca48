package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewardsuite/rms-backend/internal/services"
)

// SpinWheelHandler handles spin-wheel HTTP requests
type SpinWheelHandler struct {
	spinService services.SpinWheelService
}

// NewSpinWheelHandler creates a new SpinWheelHandler
func NewSpinWheelHandler(spinService services.SpinWheelService) *SpinWheelHandler {
	return &SpinWheelHandler{
		spinService: spinService,
	}
}

// Spin handles POST /spin-wheel/spin. The request body is empty: the business
// context is derived from the authenticated customer's enrollment.
func (h *SpinWheelHandler) Spin(c *gin.Context) {
	customerID, ok := subjectID(c)
	if !ok {
		return
	}

	result, err := h.spinService.Spin(c.Request.Context(), customerID)
	if err != nil {
		var insufficient *services.InsufficientPointsError
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		case errors.Is(err, services.ErrPolicyNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Reward policy not found for this business"})
		case errors.Is(err, services.ErrNoSpinSegments):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Spin wheel is not configured with any segments"})
		case errors.As(err, &insufficient):
			c.JSON(http.StatusBadRequest, gin.H{
				"message": fmt.Sprintf("Minimum %d points required to spin the wheel", insufficient.Required),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error during spin wheel processing"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
