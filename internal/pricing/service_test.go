package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/drivenjp/charter-pricing/internal/promos"
	"github.com/drivenjp/charter-pricing/internal/vehicles"
	"github.com/drivenjp/charter-pricing/pkg/common"
)

type mockRepository struct {
	mockItemSource
}

func (m *mockRepository) GetActiveRules(ctx context.Context) ([]*TimeBasedRule, error) {
	args := m.Called(ctx)
	rules, _ := args.Get(0).([]*TimeBasedRule)
	return rules, args.Error(1)
}

func (m *mockRepository) CreateRule(ctx context.Context, req CreateTimeBasedRuleRequest) (*TimeBasedRule, error) {
	args := m.Called(ctx, req)
	rule, _ := args.Get(0).(*TimeBasedRule)
	return rule, args.Error(1)
}

type mockVehicleSource struct {
	mock.Mock
}

func (m *mockVehicleSource) GetByID(ctx context.Context, id string) (*vehicles.Vehicle, error) {
	args := m.Called(ctx, id)
	vehicle, _ := args.Get(0).(*vehicles.Vehicle)
	return vehicle, args.Error(1)
}

type noopCouponResolver struct{}

func (noopCouponResolver) ResolveCoupon(ctx context.Context, code string, amount float64) (float64, *promos.Promotion) {
	return 0, nil
}

func testVehicle() *vehicles.Vehicle {
	return &vehicles.Vehicle{
		ID:                "veh-1",
		Brand:             "Toyota",
		Model:             "Alphard",
		PassengerCapacity: 6,
		LuggageCapacity:   4,
		IsActive:          true,
	}
}

func TestCalculateQuoteVehicleNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	vehicleRepo := new(mockVehicleSource)
	service := NewService(repo, vehicleRepo, noopCouponResolver{}, nil, testPricingConfig())

	vehicleRepo.On("GetByID", ctx, "missing").
		Return(nil, common.NewNotFoundError("vehicle not found")).Once()

	breakdown, err := service.CalculateQuote(ctx, QuoteRequest{
		ServiceTypeID: "svc-1", VehicleID: "missing", DurationHours: 4,
	})
	assert.Nil(t, breakdown)
	require.Error(t, err)

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
	vehicleRepo.AssertExpectations(t)
}

func TestCalculateQuoteDefaultsCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	vehicleRepo := new(mockVehicleSource)
	service := NewService(repo, vehicleRepo, noopCouponResolver{}, nil, testPricingConfig())

	vehicleRepo.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	repo.On("GetActiveRules", ctx).Return([]*TimeBasedRule{}, nil).Once()
	repo.On("GetItem", mock.Anything, "svc-1", "veh-1", 4.0, (*string)(nil)).
		Return(&Item{Price: 50000}, nil).Once()

	breakdown, err := service.CalculateQuote(ctx, QuoteRequest{
		ServiceTypeID: "svc-1", VehicleID: "veh-1", DurationHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultCategoryName, breakdown.Category)
	assert.Equal(t, "Toyota", breakdown.Vehicle.Brand)
	assert.Equal(t, "Alphard", breakdown.Vehicle.Model)
	assert.Equal(t, 6, breakdown.Vehicle.PassengerCapacity)
	repo.AssertExpectations(t)
	vehicleRepo.AssertExpectations(t)
}

func TestCalculateQuoteUsesVehicleCategory(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	vehicleRepo := new(mockVehicleSource)
	service := NewService(repo, vehicleRepo, noopCouponResolver{}, nil, testPricingConfig())

	categoryID := "cat-luxury"
	categoryName := "Luxury"
	vehicle := testVehicle()
	vehicle.CategoryID = &categoryID
	vehicle.CategoryName = &categoryName

	vehicleRepo.On("GetByID", ctx, "veh-1").Return(vehicle, nil).Once()
	repo.On("GetActiveRules", ctx).Return([]*TimeBasedRule{}, nil).Once()
	repo.On("GetItem", mock.Anything, "svc-1", "veh-1", 4.0, &categoryID).
		Return(&Item{Price: 80000}, nil).Once()

	breakdown, err := service.CalculateQuote(ctx, QuoteRequest{
		ServiceTypeID: "svc-1", VehicleID: "veh-1", DurationHours: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Luxury", breakdown.Category)
	assert.InDelta(t, 80000, breakdown.BaseAmount, 0.0001)
	repo.AssertExpectations(t)
}

func TestCalculateQuoteRuleFetchFailureDegrades(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	vehicleRepo := new(mockVehicleSource)
	service := NewService(repo, vehicleRepo, noopCouponResolver{}, nil, testPricingConfig())

	vehicleRepo.On("GetByID", ctx, "veh-1").Return(testVehicle(), nil).Once()
	repo.On("GetActiveRules", ctx).Return(nil, errors.New("connection refused")).Once()
	repo.On("GetItem", mock.Anything, "svc-1", "veh-1", 4.0, (*string)(nil)).
		Return(&Item{Price: 50000}, nil).Once()

	breakdown, err := service.CalculateQuote(ctx, QuoteRequest{
		ServiceTypeID: "svc-1",
		VehicleID:     "veh-1",
		DurationHours: 4,
		PickupDate:    strPtr("2026-08-28"),
		PickupTime:    strPtr("23:00"),
	})
	require.NoError(t, err)
	assert.Zero(t, breakdown.TimeBasedAdjustment)
	assert.Nil(t, breakdown.AppliedTimeBasedRule)
	repo.AssertExpectations(t)
}

func TestCreateRuleRejectsBadDayName(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	service := NewService(repo, new(mockVehicleSource), noopCouponResolver{}, nil, testPricingConfig())

	_, err := service.CreateRule(ctx, CreateTimeBasedRuleRequest{
		Name:                 "Bad rule",
		DaysOfWeek:           []string{"funday"},
		AdjustmentPercentage: 10,
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateRule", mock.Anything, mock.Anything)
}

func TestCreateRuleRejectsHalfWindow(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	service := NewService(repo, new(mockVehicleSource), noopCouponResolver{}, nil, testPricingConfig())

	_, err := service.CreateRule(ctx, CreateTimeBasedRuleRequest{
		Name:                 "Half window",
		StartTime:            strPtr("22:00"),
		AdjustmentPercentage: 10,
	})
	assert.Error(t, err)
	repo.AssertNotCalled(t, "CreateRule", mock.Anything, mock.Anything)
}

func TestCreateRuleNormalizesDays(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	service := NewService(repo, new(mockVehicleSource), noopCouponResolver{}, nil, testPricingConfig())

	repo.On("CreateRule", ctx, mock.MatchedBy(func(req CreateTimeBasedRuleRequest) bool {
		return len(req.DaysOfWeek) == 2 &&
			req.DaysOfWeek[0] == "saturday" &&
			req.DaysOfWeek[1] == "sunday"
	})).Return(&TimeBasedRule{Name: "Weekend"}, nil).Once()

	rule, err := service.CreateRule(ctx, CreateTimeBasedRuleRequest{
		Name:                 "Weekend",
		DaysOfWeek:           []string{" Saturday", "SUNDAY "},
		StartTime:            strPtr("08:00"),
		EndTime:              strPtr("20:00"),
		AdjustmentPercentage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, "Weekend", rule.Name)
	repo.AssertExpectations(t)
}
