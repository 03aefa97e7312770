package pricing

import (
	"time"

	"github.com/drivenjp/charter-pricing/internal/vehicles"
)

// Price sources, in descending order of preference
const (
	PriceSourceExactMatch = "database_exact_match"
	PriceSourceHourlyRate = "database_hourly_rate"
	PriceSourceFallback   = "fallback"
)

// DefaultCategoryName is used when a vehicle has no category assignment
const DefaultCategoryName = "Standard"

// Item represents a pricing table entry for a (service type, vehicle,
// duration) combination
type Item struct {
	ID            string    `json:"id" db:"id"`
	ServiceTypeID string    `json:"service_type_id" db:"service_type_id"`
	VehicleID     string    `json:"vehicle_id" db:"vehicle_id"`
	CategoryID    *string   `json:"category_id,omitempty" db:"category_id"`
	DurationHours float64   `json:"duration_hours" db:"duration_hours"`
	Price         float64   `json:"price" db:"price"`
	Currency      string    `json:"currency" db:"currency"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// TimeBasedRule represents a time-window pricing adjustment rule.
// StartTime/EndTime are "HH:MM" strings; a window whose start is later than
// its end wraps past midnight. An empty DaysOfWeek matches every day.
type TimeBasedRule struct {
	ID                   string    `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Description          *string   `json:"description,omitempty" db:"description"`
	CategoryID           *string   `json:"category_id,omitempty" db:"category_id"`
	ServiceTypeID        *string   `json:"service_type_id,omitempty" db:"service_type_id"`
	DaysOfWeek           []string  `json:"days_of_week" db:"days_of_week"`
	StartTime            *string   `json:"start_time,omitempty" db:"start_time"`
	EndTime              *string   `json:"end_time,omitempty" db:"end_time"`
	AdjustmentPercentage float64   `json:"adjustment_percentage" db:"adjustment_percentage"`
	Priority             int       `json:"priority" db:"priority"`
	IsActive             bool      `json:"is_active" db:"is_active"`
	CreatedAt            time.Time `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time `json:"updated_at" db:"updated_at"`
}

// AppliedRule is the summary of the rule applied to a quote
type AppliedRule struct {
	Name                 string   `json:"name"`
	AdjustmentPercentage float64  `json:"adjustment_percentage"`
	Description          *string  `json:"description"`
	StartTime            *string  `json:"start_time"`
	EndTime              *string  `json:"end_time"`
	DaysOfWeek           []string `json:"days_of_week"`
}

// QuoteRequest is the request body for a pricing calculation
type QuoteRequest struct {
	ServiceTypeID      string   `json:"service_type_id" binding:"required"`
	VehicleID          string   `json:"vehicle_id" binding:"required"`
	DurationHours      float64  `json:"duration_hours" binding:"required,gt=0"`
	ServiceDays        int      `json:"service_days"`
	HoursPerDay        *float64 `json:"hours_per_day"`
	DiscountPercentage float64  `json:"discount_percentage"`
	TaxPercentage      *float64 `json:"tax_percentage"`
	CouponCode         string   `json:"coupon_code"`
	DateTime           *string  `json:"date_time"`
	PickupDate         *string  `json:"pickup_date"`
	PickupTime         *string  `json:"pickup_time"`
}

// QuoteBreakdown is the full pricing breakdown returned to the caller.
// Field names follow the dashboard's response contract.
type QuoteBreakdown struct {
	BaseAmount               float64          `json:"baseAmount"`
	TimeBasedAdjustment      float64          `json:"timeBasedAdjustment"`
	AdjustedBaseAmount       float64          `json:"adjustedBaseAmount"`
	AppliedTimeBasedRule     *AppliedRule     `json:"appliedTimeBasedRule"`
	DiscountAmount           float64          `json:"discountAmount"`
	RegularDiscountAmount    float64          `json:"regularDiscountAmount"`
	CouponDiscountAmount     float64          `json:"couponDiscountAmount"`
	CouponDiscountPercentage float64          `json:"couponDiscountPercentage"`
	TaxAmount                float64          `json:"taxAmount"`
	TotalAmount              float64          `json:"totalAmount"`
	Currency                 string           `json:"currency"`
	PriceSource              string           `json:"priceSource"`
	Category                 string           `json:"category"`
	Vehicle                  vehicles.Summary `json:"vehicle"`
}

// CreateTimeBasedRuleRequest is the admin request body for creating a rule
type CreateTimeBasedRuleRequest struct {
	Name                 string   `json:"name" validate:"required,min=1,max=200"`
	Description          *string  `json:"description,omitempty" validate:"omitempty,max=1000"`
	CategoryID           *string  `json:"category_id,omitempty"`
	ServiceTypeID        *string  `json:"service_type_id,omitempty"`
	DaysOfWeek           []string `json:"days_of_week" validate:"omitempty,dive,day_name"`
	StartTime            *string  `json:"start_time,omitempty" validate:"omitempty,time_of_day"`
	EndTime              *string  `json:"end_time,omitempty" validate:"omitempty,time_of_day"`
	AdjustmentPercentage float64  `json:"adjustment_percentage" validate:"required,gte=-100,lte=500"`
	Priority             int      `json:"priority" validate:"gte=0"`
}
