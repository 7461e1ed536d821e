package delivery

import (
	"net/http"

	"governance-backend/internal/filterrule/usecase"
	"governance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// FilterRuleHandler exposes filter rule management
type FilterRuleHandler struct {
	ruleUsecase usecase.FilterRuleUsecase
}

// NewFilterRuleHandler creates a new FilterRuleHandler
func NewFilterRuleHandler(ruleUsecase usecase.FilterRuleUsecase) *FilterRuleHandler {
	return &FilterRuleHandler{ruleUsecase: ruleUsecase}
}

type ruleIDRequest struct {
	RuleID string `json:"ruleId"`
}

type toggleRuleRequest struct {
	RuleID   string `json:"ruleId"`
	IsActive *bool  `json:"isActive"`
}

// GetRules lists the caller's rules
// GET /api/filter-rules
func (h *FilterRuleHandler) GetRules(c *gin.Context) {
	userID := c.GetString("userID")

	rules, err := h.ruleUsecase.ListRules(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// CreateRule adds a rule
// POST /api/filter-rules
func (h *FilterRuleHandler) CreateRule(c *gin.Context) {
	userID := c.GetString("userID")

	var req usecase.CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rule, err := h.ruleUsecase.CreateRule(c.Request.Context(), userID, req)
	response.Result(c, http.StatusCreated, gin.H{"rule": rule}, err)
}

// DeleteRule removes a rule
// DELETE /api/filter-rules  {"ruleId": "..."}
func (h *FilterRuleHandler) DeleteRule(c *gin.Context) {
	userID := c.GetString("userID")

	var req ruleIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rule, err := h.ruleUsecase.DeleteRule(c.Request.Context(), userID, req.RuleID)
	response.Result(c, http.StatusOK, gin.H{"deleted": true, "rule": rule}, err)
}

// ToggleRule activates or deactivates a rule
// PATCH /api/filter-rules  {"ruleId": "...", "isActive": false}
func (h *FilterRuleHandler) ToggleRule(c *gin.Context) {
	userID := c.GetString("userID")

	var req toggleRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ruleId and isActive are required"})
		return
	}

	rule, err := h.ruleUsecase.SetRuleActive(c.Request.Context(), userID, req.RuleID, *req.IsActive)
	response.Result(c, http.StatusOK, gin.H{"rule": rule}, err)
}
