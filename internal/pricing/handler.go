package pricing

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/drivenjp/charter-pricing/pkg/common"
	"github.com/drivenjp/charter-pricing/pkg/validation"
)

// Handler handles HTTP requests for pricing
type Handler struct {
	service *Service
}

// NewHandler creates a new pricing handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CalculatePricing returns a full quote breakdown for a booking request
func (h *Handler) CalculatePricing(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	breakdown, err := h.service.CalculateQuote(c.Request.Context(), req)
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to calculate pricing")
		return
	}

	common.SuccessResponse(c, breakdown)
}

// GetTimeBasedRules returns the active time-based rules
func (h *Handler) GetTimeBasedRules(c *gin.Context) {
	rules, err := h.service.GetActiveRules(c.Request.Context())
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to get time-based rules")
		return
	}

	common.SuccessResponse(c, rules)
}

// CreateTimeBasedRule creates a new time-based rule (admin only)
func (h *Handler) CreateTimeBasedRule(c *gin.Context) {
	var req CreateTimeBasedRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	rule, err := h.service.CreateRule(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	common.CreatedResponse(c, rule)
}

// RegisterRoutes registers pricing routes on the given router groups
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/bookings/calculate-pricing", h.CalculatePricing)
	public.GET("/pricing/time-based-rules", h.GetTimeBasedRules)

	admin.POST("/pricing/time-based-rules", h.CreateTimeBasedRule)
}
