package promos

import "time"

// Discount types supported by promotions
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Promotion represents a coupon-code promotion
type Promotion struct {
	ID              string     `json:"id" db:"id"`
	Code            string     `json:"code" db:"code"`
	Name            string     `json:"name" db:"name"`
	Description     *string    `json:"description,omitempty" db:"description"`
	DiscountType    string     `json:"discount_type" db:"discount_type"`
	DiscountValue   float64    `json:"discount_value" db:"discount_value"`
	MaximumDiscount *float64   `json:"maximum_discount,omitempty" db:"maximum_discount"`
	MinimumAmount   *float64   `json:"minimum_amount,omitempty" db:"minimum_amount"`
	StartDate       *time.Time `json:"start_date,omitempty" db:"start_date"`
	EndDate         *time.Time `json:"end_date,omitempty" db:"end_date"`
	IsActive        bool       `json:"is_active" db:"is_active"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// CouponValidation is the user-facing result of validating a coupon code
type CouponValidation struct {
	Valid              bool     `json:"valid"`
	Message            string   `json:"message"`
	Code               string   `json:"code,omitempty"`
	DiscountType       string   `json:"discount_type,omitempty"`
	DiscountValue      float64  `json:"discount_value,omitempty"`
	DiscountAmount     float64  `json:"discount_amount"`
	DiscountPercentage float64  `json:"discount_percentage"`
	FinalAmount        *float64 `json:"final_amount,omitempty"`
}

// ValidateCouponRequest is the request body for coupon validation
type ValidateCouponRequest struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePromotionRequest is the admin request body for creating a promotion
type CreatePromotionRequest struct {
	Code            string     `json:"code" validate:"required,min=3,max=40"`
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,max=1000"`
	DiscountType    string     `json:"discount_type" validate:"required,discount_type"`
	DiscountValue   float64    `json:"discount_value" validate:"required,gt=0"`
	MaximumDiscount *float64   `json:"maximum_discount,omitempty" validate:"omitempty,gt=0"`
	MinimumAmount   *float64   `json:"minimum_amount,omitempty" validate:"omitempty,gte=0"`
	StartDate       *time.Time `json:"start_date,omitempty"`
	EndDate         *time.Time `json:"end_date,omitempty"`
}
