package vehicles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/drivenjp/charter-pricing/pkg/common"
)

// Repository handles database operations for vehicles
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new vehicles repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetByID returns a vehicle together with its pricing category, when assigned.
// A vehicle can belong to at most one category.
func (r *Repository) GetByID(ctx context.Context, id string) (*Vehicle, error) {
	query := `
		SELECT v.id, v.brand, v.model, v.image_url,
		       v.passenger_capacity, v.luggage_capacity,
		       v.is_active, v.created_at, v.updated_at,
		       pc.id AS category_id, pc.name AS category_name
		FROM vehicles v
		LEFT JOIN pricing_category_vehicles pcv ON pcv.vehicle_id = v.id
		LEFT JOIN pricing_categories pc ON pc.id = pcv.category_id
		WHERE v.id = $1
		LIMIT 1
	`

	vehicle := &Vehicle{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&vehicle.ID, &vehicle.Brand, &vehicle.Model, &vehicle.ImageURL,
		&vehicle.PassengerCapacity, &vehicle.LuggageCapacity,
		&vehicle.IsActive, &vehicle.CreatedAt, &vehicle.UpdatedAt,
		&vehicle.CategoryID, &vehicle.CategoryName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFoundError("vehicle not found")
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	return vehicle, nil
}
