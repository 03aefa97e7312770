package pricing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/drivenjp/charter-pricing/internal/vehicles"
	"github.com/drivenjp/charter-pricing/pkg/cache"
	"github.com/drivenjp/charter-pricing/pkg/config"
	"github.com/drivenjp/charter-pricing/pkg/logger"
	"github.com/drivenjp/charter-pricing/pkg/validation"
)

// RepositoryInterface defines the storage operations required by the service
type RepositoryInterface interface {
	ItemSource
	GetActiveRules(ctx context.Context) ([]*TimeBasedRule, error)
	CreateRule(ctx context.Context, req CreateTimeBasedRuleRequest) (*TimeBasedRule, error)
}

// VehicleSource provides vehicle lookups for quote enrichment
type VehicleSource interface {
	GetByID(ctx context.Context, id string) (*vehicles.Vehicle, error)
}

// Service handles pricing business logic
type Service struct {
	repo       RepositoryInterface
	vehicles   VehicleSource
	calculator *Calculator
	cache      *cache.Manager
	cfg        config.PricingConfig
}

// NewService creates a new pricing service. cacheManager may be nil, in which
// case rule lookups always hit the database.
func NewService(repo RepositoryInterface, vehicleRepo VehicleSource, coupons CouponResolver, cacheManager *cache.Manager, cfg config.PricingConfig) *Service {
	return &Service{
		repo:       repo,
		vehicles:   vehicleRepo,
		calculator: NewCalculator(repo, coupons, cfg),
		cache:      cacheManager,
		cfg:        cfg,
	}
}

// CalculateQuote computes a full pricing breakdown for a booking request.
// Only the vehicle lookup is fatal; every enrichment lookup degrades to a
// neutral value so a quote always comes back.
func (s *Service) CalculateQuote(ctx context.Context, req QuoteRequest) (*QuoteBreakdown, error) {
	start := time.Now()

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}

	rules := s.activeRules(ctx)

	breakdown := s.calculator.Calculate(ctx, req, vehicle.CategoryID, rules)

	breakdown.Vehicle = vehicle.Summary()
	breakdown.Category = DefaultCategoryName
	if vehicle.CategoryName != nil && *vehicle.CategoryName != "" {
		breakdown.Category = *vehicle.CategoryName
	}

	quotesTotal.WithLabelValues(breakdown.PriceSource).Inc()
	quoteDuration.Observe(time.Since(start).Seconds())
	if breakdown.AppliedTimeBasedRule != nil {
		timeRulesApplied.Inc()
	}
	if breakdown.CouponDiscountAmount > 0 {
		couponsApplied.Inc()
	}

	return breakdown, nil
}

// activeRules returns the active rule set, through the cache when one is
// configured. A failed fetch is logged and yields no rules; rule application
// is best-effort and must not break quoting.
func (s *Service) activeRules(ctx context.Context) []*TimeBasedRule {
	if s.cache == nil {
		rules, err := s.repo.GetActiveRules(ctx)
		if err != nil {
			logger.WarnContext(ctx, "Time-based rule fetch failed, skipping adjustment", zap.Error(err))
			return nil
		}
		return rules
	}

	ttl := time.Duration(s.cfg.RuleCacheSeconds) * time.Second
	rules := make([]*TimeBasedRule, 0)
	err := s.cache.GetOrSet(ctx, cache.Keys.TimeBasedRules(), ttl, &rules, func() (interface{}, error) {
		return s.repo.GetActiveRules(ctx)
	})
	if err != nil {
		logger.WarnContext(ctx, "Time-based rule fetch failed, skipping adjustment", zap.Error(err))
		return nil
	}
	return rules
}

// GetActiveRules returns the active time-based rules for display
func (s *Service) GetActiveRules(ctx context.Context) ([]*TimeBasedRule, error) {
	return s.repo.GetActiveRules(ctx)
}

// CreateRule creates a new time-based rule and invalidates the rule cache
func (s *Service) CreateRule(ctx context.Context, req CreateTimeBasedRuleRequest) (*TimeBasedRule, error) {
	req.DaysOfWeek = validation.NormalizeDayNames(req.DaysOfWeek)
	if req.DaysOfWeek == nil {
		req.DaysOfWeek = []string{}
	}
	if err := validation.ValidateDayNames(req.DaysOfWeek); err != nil {
		return nil, err
	}
	if (req.StartTime == nil) != (req.EndTime == nil) {
		return nil, errors.New("start_time and end_time must be set together")
	}
	if req.StartTime != nil && req.EndTime != nil {
		if err := validation.ValidateTimeWindow(*req.StartTime, *req.EndTime); err != nil {
			return nil, err
		}
	}

	rule, err := s.repo.CreateRule(ctx, req)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.Keys.TimeBasedRules())
	}

	return rule, nil
}
