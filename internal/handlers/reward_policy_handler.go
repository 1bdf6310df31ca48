package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewardsuite/rms-backend/internal/models"
	"github.com/rewardsuite/rms-backend/internal/services"
)

// RewardPolicyHandler handles reward policy HTTP requests
type RewardPolicyHandler struct {
	policyService services.RewardPolicyService
}

// NewRewardPolicyHandler creates a new RewardPolicyHandler
func NewRewardPolicyHandler(policyService services.RewardPolicyService) *RewardPolicyHandler {
	return &RewardPolicyHandler{
		policyService: policyService,
	}
}

// CreateOrUpdatePolicy handles POST /reward-policy
func (h *RewardPolicyHandler) CreateOrUpdatePolicy(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	var patch models.RewardPolicyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, created, err := h.policyService.UpsertPolicy(c.Request.Context(), adminID, &patch)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Policy created", "policy": policy})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Policy updated", "policy": policy})
}

// GetPolicy handles GET /reward-policy
func (h *RewardPolicyHandler) GetPolicy(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	policy, err := h.policyService.GetPolicy(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, policy)
}

// DeletePolicy handles DELETE /reward-policy
func (h *RewardPolicyHandler) DeletePolicy(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	if err := h.policyService.DeletePolicy(c.Request.Context(), adminID); err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Policy deleted"})
}

// UpdatePointsExpiry handles PUT /reward-policy/points-expiry
func (h *RewardPolicyHandler) UpdatePointsExpiry(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	var req struct {
		PointsExpiryDays int `json:"pointsExpiryDays" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, err := h.policyService.UpdatePointsExpiry(c.Request.Context(), adminID, req.PointsExpiryDays)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Points expiry updated", "policy": policy})
}

// AddOrUpdateThreshold handles POST /reward-policy/thresholds
func (h *RewardPolicyHandler) AddOrUpdateThreshold(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	var threshold models.SpendThreshold
	if err := c.ShouldBindJSON(&threshold); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, err := h.policyService.UpsertThreshold(c.Request.Context(), adminID, threshold)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found. Create one first."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Threshold added/updated", "policy": policy})
}

// AddOrUpdateCategoryRule handles POST /reward-policy/category-rules
func (h *RewardPolicyHandler) AddOrUpdateCategoryRule(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	var rule models.CategoryRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, err := h.policyService.UpsertCategoryRule(c.Request.Context(), adminID, rule)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found. Please create one first."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category rule added/updated", "policy": policy})
}

// AddOrUpdateTierRule handles POST /reward-policy/tier-rules
func (h *RewardPolicyHandler) AddOrUpdateTierRule(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	var rule models.TierRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	policy, err := h.policyService.UpsertTierRule(c.Request.Context(), adminID, rule)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found. Please create one first."})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tier rule added/updated", "policy": policy})
}

// GetTierRules handles GET /reward-policy/tier-rules
func (h *RewardPolicyHandler) GetTierRules(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	rules, err := h.policyService.GetTierRules(c.Request.Context(), adminID)
	if err != nil {
		if errors.Is(err, services.ErrNoPolicy) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No policy found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rules)
}

// GetPolicySummary handles GET /reward-policy/summary
func (h *RewardPolicyHandler) GetPolicySummary(c *gin.Context) {
	adminID, ok := subjectID(c)
	if !ok {
		return
	}

	summary, err := h.policyService.GetSummary(c.Request.Context(), adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
