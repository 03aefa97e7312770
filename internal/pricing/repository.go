package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles database operations for pricing
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new pricing repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetItem returns the active pricing item matching the exact combination of
// service type, vehicle and duration. The category filter only applies when
// the vehicle belongs to a category. Returns nil when no item matches.
func (r *Repository) GetItem(ctx context.Context, serviceTypeID, vehicleID string, durationHours float64, categoryID *string) (*Item, error) {
	query := `
		SELECT id, service_type_id, vehicle_id, category_id, duration_hours,
		       price, currency, is_active, created_at, updated_at
		FROM pricing_items
		WHERE service_type_id = $1
		  AND vehicle_id = $2
		  AND duration_hours = $3
		  AND is_active = true
		  AND ($4::text IS NULL OR category_id = $4)
		ORDER BY created_at, id
		LIMIT 1
	`

	item := &Item{}
	err := r.db.QueryRow(ctx, query, serviceTypeID, vehicleID, durationHours, categoryID).Scan(
		&item.ID, &item.ServiceTypeID, &item.VehicleID, &item.CategoryID,
		&item.DurationHours, &item.Price, &item.Currency,
		&item.IsActive, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pricing item: %w", err)
	}

	return item, nil
}

// GetActiveRules returns all active time-based rules, highest priority first.
// Ties break on creation order so rule selection stays deterministic.
func (r *Repository) GetActiveRules(ctx context.Context) ([]*TimeBasedRule, error) {
	query := `
		SELECT id, name, description, category_id, service_type_id,
		       days_of_week, start_time, end_time, adjustment_percentage,
		       priority, is_active, created_at, updated_at
		FROM pricing_time_based_rules
		WHERE is_active = true
		ORDER BY priority DESC, created_at, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get time-based rules: %w", err)
	}
	defer rows.Close()

	rules := make([]*TimeBasedRule, 0)
	for rows.Next() {
		rule := &TimeBasedRule{}
		err := rows.Scan(
			&rule.ID, &rule.Name, &rule.Description,
			&rule.CategoryID, &rule.ServiceTypeID,
			&rule.DaysOfWeek, &rule.StartTime, &rule.EndTime,
			&rule.AdjustmentPercentage, &rule.Priority,
			&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan time-based rule: %w", err)
		}
		rules = append(rules, rule)
	}

	return rules, nil
}

// CreateRule inserts a new time-based rule
func (r *Repository) CreateRule(ctx context.Context, req CreateTimeBasedRuleRequest) (*TimeBasedRule, error) {
	query := `
		INSERT INTO pricing_time_based_rules (
			id, name, description, category_id, service_type_id,
			days_of_week, start_time, end_time, adjustment_percentage,
			priority, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, $11, $11)
		RETURNING id, name, description, category_id, service_type_id,
		          days_of_week, start_time, end_time, adjustment_percentage,
		          priority, is_active, created_at, updated_at
	`

	now := time.Now().UTC()
	rule := &TimeBasedRule{}
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(), req.Name, req.Description,
		req.CategoryID, req.ServiceTypeID,
		req.DaysOfWeek, req.StartTime, req.EndTime,
		req.AdjustmentPercentage, req.Priority, now,
	).Scan(
		&rule.ID, &rule.Name, &rule.Description,
		&rule.CategoryID, &rule.ServiceTypeID,
		&rule.DaysOfWeek, &rule.StartTime, &rule.EndTime,
		&rule.AdjustmentPercentage, &rule.Priority,
		&rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create time-based rule: %w", err)
	}

	return rule, nil
}
