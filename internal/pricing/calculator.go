package pricing

import (
	"context"

	"go.uber.org/zap"

	"github.com/drivenjp/charter-pricing/internal/promos"
	"github.com/drivenjp/charter-pricing/pkg/config"
	"github.com/drivenjp/charter-pricing/pkg/logger"
)

// ItemSource provides pricing item lookups for base rate resolution
type ItemSource interface {
	GetItem(ctx context.Context, serviceTypeID, vehicleID string, durationHours float64, categoryID *string) (*Item, error)
}

// CouponResolver resolves a coupon code into a discount amount. It must never
// return an error: a coupon that cannot be applied contributes zero.
type CouponResolver interface {
	ResolveCoupon(ctx context.Context, code string, amount float64) (float64, *promos.Promotion)
}

// Calculator computes quote breakdowns. Every calculation is a single pass:
// resolve base, adjust for time, discount, tax.
type Calculator struct {
	items   ItemSource
	coupons CouponResolver
	cfg     config.PricingConfig
}

// NewCalculator creates a new quote calculator
func NewCalculator(items ItemSource, coupons CouponResolver, cfg config.PricingConfig) *Calculator {
	return &Calculator{items: items, coupons: coupons, cfg: cfg}
}

// resolveBase resolves the base amount for a request. Resolution tiers:
// exact item match, hourly rate derivation, configured fallback constant.
// Lookup errors are logged and treated as "no match" so the quote still
// degrades to the next tier instead of failing.
func (calc *Calculator) resolveBase(ctx context.Context, req QuoteRequest, categoryID *string) (float64, string) {
	item, err := calc.items.GetItem(ctx, req.ServiceTypeID, req.VehicleID, req.DurationHours, categoryID)
	if err != nil {
		logger.WarnContext(ctx, "Pricing item lookup failed, falling back",
			zap.String("service_type_id", req.ServiceTypeID),
			zap.String("vehicle_id", req.VehicleID),
			zap.Error(err))
	}
	if item != nil {
		return item.Price, PriceSourceExactMatch
	}

	hourly, err := calc.items.GetItem(ctx, req.ServiceTypeID, req.VehicleID, 1, categoryID)
	if err != nil {
		logger.WarnContext(ctx, "Hourly rate lookup failed, falling back",
			zap.String("service_type_id", req.ServiceTypeID),
			zap.String("vehicle_id", req.VehicleID),
			zap.Error(err))
	}
	if hourly != nil {
		serviceDays := req.ServiceDays
		if serviceDays < 1 {
			serviceDays = 1
		}

		// Multi-day charters price per day; a single trip prices the full
		// requested duration at the hourly rate.
		if serviceDays > 1 || (req.HoursPerDay != nil && *req.HoursPerDay > 1) {
			hoursPerDay := req.DurationHours
			if req.HoursPerDay != nil {
				hoursPerDay = *req.HoursPerDay
			}
			return hourly.Price * hoursPerDay * float64(serviceDays), PriceSourceHourlyRate
		}
		return hourly.Price * req.DurationHours, PriceSourceHourlyRate
	}

	return calc.cfg.FallbackBasePrice, PriceSourceFallback
}

// Calculate computes the full quote breakdown. The caller supplies the
// vehicle's category and the active rule set; vehicle enrichment happens a
// layer up in the service.
func (calc *Calculator) Calculate(ctx context.Context, req QuoteRequest, categoryID *string, rules []*TimeBasedRule) *QuoteBreakdown {
	baseAmount, priceSource := calc.resolveBase(ctx, req, categoryID)

	// Time-based adjustment applies only when the request carries a usable
	// pickup timestamp. The adjustment can be negative.
	var timeAdjustment float64
	var appliedRule *AppliedRule
	if pickup, ok := parsePickupTime(req); ok {
		if rule := selectRule(rules, pickup, categoryID, req.ServiceTypeID); rule != nil {
			timeAdjustment = baseAmount * (rule.AdjustmentPercentage / 100.0)
			appliedRule = rule.Applied()
		}
	}

	adjustedBase := baseAmount + timeAdjustment

	// Both discounts operate on the adjusted amount, not the raw base.
	regularDiscount := adjustedBase * (req.DiscountPercentage / 100.0)

	var couponDiscount float64
	if req.CouponCode != "" {
		couponDiscount, _ = calc.coupons.ResolveCoupon(ctx, req.CouponCode, adjustedBase)
	}

	totalDiscount := regularDiscount + couponDiscount

	var couponPct float64
	if couponDiscount > 0 && adjustedBase > 0 {
		couponPct = couponDiscount / adjustedBase * 100
	}

	afterDiscount := adjustedBase - totalDiscount
	if afterDiscount < 0 {
		afterDiscount = 0
	}

	taxPct := calc.cfg.DefaultTaxPercentage
	if req.TaxPercentage != nil {
		taxPct = *req.TaxPercentage
	}
	taxAmount := afterDiscount * (taxPct / 100.0)

	return &QuoteBreakdown{
		BaseAmount:               baseAmount,
		TimeBasedAdjustment:      timeAdjustment,
		AdjustedBaseAmount:       adjustedBase,
		AppliedTimeBasedRule:     appliedRule,
		DiscountAmount:           totalDiscount,
		RegularDiscountAmount:    regularDiscount,
		CouponDiscountAmount:     couponDiscount,
		CouponDiscountPercentage: couponPct,
		TaxAmount:                taxAmount,
		TotalAmount:              afterDiscount + taxAmount,
		Currency:                 calc.cfg.Currency,
		PriceSource:              priceSource,
	}
}
