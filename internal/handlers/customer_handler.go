package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewardsuite/rms-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerHandler handles customer-facing and admin-on-customer HTTP requests
type CustomerHandler struct {
	customerService services.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService services.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// GetMe handles GET /customer/me
func (h *CustomerHandler) GetMe(c *gin.Context) {
	customerID, ok := subjectID(c)
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customer)
}

// GetMyPolicy handles GET /customer/reward-policy
func (h *CustomerHandler) GetMyPolicy(c *gin.Context) {
	customerID, ok := subjectID(c)
	if !ok {
		return
	}

	policy, err := h.customerService.PolicyForCustomer(c.Request.Context(), customerID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		case errors.Is(err, services.ErrNoPolicy):
			c.JSON(http.StatusNotFound, gin.H{"message": "Reward policy not found for this business"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, policy)
}

// Redeem handles POST /customer/redeem
func (h *CustomerHandler) Redeem(c *gin.Context) {
	customerID, ok := subjectID(c)
	if !ok {
		return
	}

	var req struct {
		Points int `json:"points" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	customer, err := h.customerService.Redeem(c.Request.Context(), customerID, req.Points)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		case errors.Is(err, services.ErrInsufficientBalance):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Insufficient points balance"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Points redeemed",
		"redeemedPoints": req.Points,
		"pointsBalance":  customer.PointsBalance,
	})
}

// ListCustomers handles GET /customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	customers, err := h.customerService.ListForAdmin(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, customers)
}

// RecordPurchase handles POST /customers/:id/purchases
func (h *CustomerHandler) RecordPurchase(c *gin.Context) {
	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	var req struct {
		Amount   float64 `json:"amount" binding:"required,gt=0"`
		Category string  `json:"category"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	points, customer, err := h.customerService.EarnOnPurchase(c.Request.Context(), customerID, req.Amount, req.Category)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCustomerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
		case errors.Is(err, services.ErrNoPolicy):
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Purchase recorded",
		"earnedPoints":  points,
		"pointsBalance": customer.PointsBalance,
	})
}

// ExpirePoints handles POST /customers/:id/expire-points
func (h *CustomerHandler) ExpirePoints(c *gin.Context) {
	customerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid customer ID"})
		return
	}

	expired, err := h.customerService.ExpirePoints(c.Request.Context(), customerID)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Customer not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expired points swept", "expiredPoints": expired})
}
