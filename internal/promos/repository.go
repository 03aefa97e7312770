package promos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drivenjp/charter-pricing/pkg/common"
)

// Repository handles database operations for promotions
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new promos repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetActiveByCode returns the active promotion with the given code
func (r *Repository) GetActiveByCode(ctx context.Context, code string) (*Promotion, error) {
	query := `
		SELECT id, code, name, description, discount_type, discount_value,
		       maximum_discount, minimum_amount, start_date, end_date,
		       is_active, created_at, updated_at
		FROM pricing_promotions
		WHERE code = $1 AND is_active = true
		LIMIT 1
	`

	promo := &Promotion{}
	err := r.db.QueryRow(ctx, query, code).Scan(
		&promo.ID, &promo.Code, &promo.Name, &promo.Description,
		&promo.DiscountType, &promo.DiscountValue,
		&promo.MaximumDiscount, &promo.MinimumAmount,
		&promo.StartDate, &promo.EndDate,
		&promo.IsActive, &promo.CreatedAt, &promo.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("promotion not found")
		}
		return nil, fmt.Errorf("failed to get promotion: %w", err)
	}

	return promo, nil
}

// Create inserts a new promotion
func (r *Repository) Create(ctx context.Context, req CreatePromotionRequest) (*Promotion, error) {
	query := `
		INSERT INTO pricing_promotions (
			id, code, name, description, discount_type, discount_value,
			maximum_discount, minimum_amount, start_date, end_date,
			is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, true, $11, $11)
		RETURNING id, code, name, description, discount_type, discount_value,
		          maximum_discount, minimum_amount, start_date, end_date,
		          is_active, created_at, updated_at
	`

	now := time.Now().UTC()
	promo := &Promotion{}
	err := r.db.QueryRow(ctx, query,
		uuid.New().String(), req.Code, req.Name, req.Description,
		req.DiscountType, req.DiscountValue,
		req.MaximumDiscount, req.MinimumAmount,
		req.StartDate, req.EndDate, now,
	).Scan(
		&promo.ID, &promo.Code, &promo.Name, &promo.Description,
		&promo.DiscountType, &promo.DiscountValue,
		&promo.MaximumDiscount, &promo.MinimumAmount,
		&promo.StartDate, &promo.EndDate,
		&promo.IsActive, &promo.CreatedAt, &promo.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create promotion: %w", err)
	}

	return promo, nil
}

// List returns promotions with pagination, newest first
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*Promotion, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pricing_promotions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count promotions: %w", err)
	}

	query := `
		SELECT id, code, name, description, discount_type, discount_value,
		       maximum_discount, minimum_amount, start_date, end_date,
		       is_active, created_at, updated_at
		FROM pricing_promotions
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list promotions: %w", err)
	}
	defer rows.Close()

	promotions := make([]*Promotion, 0)
	for rows.Next() {
		promo := &Promotion{}
		err := rows.Scan(
			&promo.ID, &promo.Code, &promo.Name, &promo.Description,
			&promo.DiscountType, &promo.DiscountValue,
			&promo.MaximumDiscount, &promo.MinimumAmount,
			&promo.StartDate, &promo.EndDate,
			&promo.IsActive, &promo.CreatedAt, &promo.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan promotion: %w", err)
		}
		promotions = append(promotions, promo)
	}

	return promotions, total, nil
}

// Deactivate marks a promotion inactive and returns its code so callers can
// invalidate the per-code cache entry
func (r *Repository) Deactivate(ctx context.Context, id string) (string, error) {
	var code string
	err := r.db.QueryRow(ctx,
		`UPDATE pricing_promotions SET is_active = false, updated_at = NOW() WHERE id = $1 RETURNING code`, id,
	).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", common.NewNotFoundError("promotion not found")
		}
		return "", fmt.Errorf("failed to deactivate promotion: %w", err)
	}
	return code, nil
}
