package promos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/drivenjp/charter-pricing/pkg/cache"
	"github.com/drivenjp/charter-pricing/pkg/common"
	"github.com/drivenjp/charter-pricing/pkg/logger"
)

// PromosRepository defines the storage operations required by the service.
type PromosRepository interface {
	GetActiveByCode(ctx context.Context, code string) (*Promotion, error)
	Create(ctx context.Context, req CreatePromotionRequest) (*Promotion, error)
	List(ctx context.Context, limit, offset int) ([]*Promotion, int, error)
	Deactivate(ctx context.Context, id string) (code string, err error)
}

// Service handles promotion business logic
type Service struct {
	repo  PromosRepository
	cache *cache.Manager
}

// NewService creates a new promos service
func NewService(repo PromosRepository) *Service {
	return &Service{repo: repo}
}

// NewServiceWithCache creates a promos service backed by a cache manager
func NewServiceWithCache(repo PromosRepository, cacheManager *cache.Manager) *Service {
	return &Service{repo: repo, cache: cacheManager}
}

// getPromotion fetches an active promotion by code, through the cache when
// one is configured. Callers must pass the already-trimmed code.
func (s *Service) getPromotion(ctx context.Context, code string) (*Promotion, error) {
	if s.cache == nil {
		return s.repo.GetActiveByCode(ctx, code)
	}

	promo := &Promotion{}
	err := s.cache.GetOrSet(ctx, cache.Keys.Promotion(code), cache.TTL.Short(), promo, func() (interface{}, error) {
		return s.repo.GetActiveByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	return promo, nil
}

// ValidateCoupon validates a coupon code against an order amount and returns a
// user-facing result. Unlike quote calculation, validation failures come back
// with an explanatory message.
func (s *Service) ValidateCoupon(ctx context.Context, code string, amount float64) (*CouponValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return &CouponValidation{Valid: false, Message: "Coupon code is required"}, nil
	}

	promo, err := s.getPromotion(ctx, code)
	if err != nil {
		// Only a genuine miss means the code is bad; a lookup failure must
		// not tell the user their coupon is invalid
		if errors.Is(err, common.ErrNotFound) {
			return &CouponValidation{Valid: false, Message: "Invalid coupon code"}, nil
		}
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}

	now := time.Now()
	if promo.StartDate != nil && now.Before(*promo.StartDate) {
		return &CouponValidation{Valid: false, Message: "This coupon is not yet valid"}, nil
	}
	if promo.EndDate != nil && now.After(*promo.EndDate) {
		return &CouponValidation{Valid: false, Message: "This coupon has expired"}, nil
	}

	if promo.MinimumAmount != nil && amount < *promo.MinimumAmount {
		return &CouponValidation{
			Valid:   false,
			Message: fmt.Sprintf("Minimum amount of %.0f required to use this coupon", *promo.MinimumAmount),
		}, nil
	}

	discount := calculateDiscount(promo, amount)
	finalAmount := amount - discount

	validation := &CouponValidation{
		Valid:          true,
		Message:        "Coupon applied",
		Code:           promo.Code,
		DiscountType:   promo.DiscountType,
		DiscountValue:  promo.DiscountValue,
		DiscountAmount: discount,
		FinalAmount:    &finalAmount,
	}
	if discount > 0 {
		validation.DiscountPercentage = discount / amount * 100
	}

	return validation, nil
}

// ResolveCoupon returns the discount a coupon code contributes to the given
// amount. Every failure mode is a silent no-op: unknown code, inactive code,
// outside the validity window, below the minimum amount, or a lookup error.
// Quote calculation must never abort because of a coupon.
func (s *Service) ResolveCoupon(ctx context.Context, code string, amount float64) (float64, *Promotion) {
	code = strings.TrimSpace(code)
	if code == "" {
		return 0, nil
	}

	promo, err := s.getPromotion(ctx, code)
	if err != nil {
		logger.WarnContext(ctx, "Coupon lookup failed, skipping coupon",
			zap.String("code", code), zap.Error(err))
		return 0, nil
	}

	now := time.Now()
	if promo.StartDate != nil && now.Before(*promo.StartDate) {
		return 0, nil
	}
	if promo.EndDate != nil && now.After(*promo.EndDate) {
		return 0, nil
	}
	if promo.MinimumAmount != nil && amount < *promo.MinimumAmount {
		return 0, nil
	}

	return calculateDiscount(promo, amount), promo
}

// calculateDiscount computes the discount a promotion grants on an amount.
// Percentage discounts are capped at maximum_discount when set; fixed
// discounts can never exceed the amount itself.
func calculateDiscount(promo *Promotion, amount float64) float64 {
	switch promo.DiscountType {
	case DiscountTypePercentage:
		discount := amount * (promo.DiscountValue / 100.0)
		if promo.MaximumDiscount != nil && discount > *promo.MaximumDiscount {
			discount = *promo.MaximumDiscount
		}
		return discount
	case DiscountTypeFixed:
		if promo.DiscountValue > amount {
			return amount
		}
		return promo.DiscountValue
	default:
		return 0
	}
}

// CreatePromotion creates a new promotion and invalidates its cache entry
func (s *Service) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*Promotion, error) {
	req.Code = strings.TrimSpace(req.Code)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("end_date must not be before start_date")
	}

	promo, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.Keys.Promotion(promo.Code))
	}

	return promo, nil
}

// ListPromotions returns promotions with pagination
func (s *Service) ListPromotions(ctx context.Context, limit, offset int) ([]*Promotion, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// DeactivatePromotion marks a promotion inactive and drops its cache entry,
// so a killed coupon stops discounting immediately instead of riding out the
// cache TTL
func (s *Service) DeactivatePromotion(ctx context.Context, id string) error {
	code, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.Keys.Promotion(code))
	}

	return nil
}
