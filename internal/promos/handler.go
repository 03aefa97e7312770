package promos

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/drivenjp/charter-pricing/pkg/common"
	"github.com/drivenjp/charter-pricing/pkg/validation"
)

// Handler handles HTTP requests for promotions
type Handler struct {
	service *Service
}

// NewHandler creates a new promos handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ValidateCoupon validates a coupon code against an amount
func (h *Handler) ValidateCoupon(c *gin.Context) {
	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.ValidateCoupon(c.Request.Context(), req.Code, req.Amount)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to validate coupon")
		return
	}

	common.SuccessResponse(c, result)
}

// CreatePromotion creates a new promotion (admin only)
func (h *Handler) CreatePromotion(c *gin.Context) {
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := validation.ValidateStruct(req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	promo, err := h.service.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	common.CreatedResponse(c, promo)
}

// ListPromotions returns promotions with pagination (admin only)
func (h *Handler) ListPromotions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	promotions, total, err := h.service.ListPromotions(c.Request.Context(), limit, offset)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to list promotions")
		return
	}

	common.SuccessResponseWithMeta(c, promotions, &common.Meta{
		Limit:  limit,
		Offset: offset,
		Total:  int64(total),
	})
}

// DeactivatePromotion marks a promotion inactive (admin only)
func (h *Handler) DeactivatePromotion(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		common.ErrorResponse(c, http.StatusBadRequest, "promotion id is required")
		return
	}

	if err := h.service.DeactivatePromotion(c.Request.Context(), id); err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			common.AppErrorResponse(c, appErr)
			return
		}
		common.ErrorResponse(c, http.StatusInternalServerError, "failed to deactivate promotion")
		return
	}

	common.SuccessResponse(c, gin.H{"id": id, "is_active": false})
}

// RegisterRoutes registers promo routes on the given router groups
func (h *Handler) RegisterRoutes(public, admin *gin.RouterGroup) {
	public.POST("/coupons/validate", h.ValidateCoupon)

	admin.POST("/promotions", h.CreatePromotion)
	admin.GET("/promotions", h.ListPromotions)
	admin.DELETE("/promotions/:id", h.DeactivatePromotion)
}
