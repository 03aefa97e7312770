package vehicles

import "time"

// Vehicle represents a charter vehicle
type Vehicle struct {
	ID                string    `json:"id" db:"id"`
	Brand             string    `json:"brand" db:"brand"`
	Model             string    `json:"model" db:"model"`
	ImageURL          *string   `json:"image_url,omitempty" db:"image_url"`
	PassengerCapacity int       `json:"passenger_capacity" db:"passenger_capacity"`
	LuggageCapacity   int       `json:"luggage_capacity" db:"luggage_capacity"`
	IsActive          bool      `json:"is_active" db:"is_active"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`

	// Category assignment, resolved through pricing_category_vehicles
	CategoryID   *string `json:"category_id,omitempty" db:"category_id"`
	CategoryName *string `json:"category_name,omitempty" db:"category_name"`
}

// Summary is the vehicle shape embedded in quote responses
type Summary struct {
	Brand             string  `json:"brand"`
	Model             string  `json:"model"`
	ImageURL          *string `json:"image_url"`
	PassengerCapacity int     `json:"passenger_capacity"`
	LuggageCapacity   int     `json:"luggage_capacity"`
}

// Summary returns the response-facing projection of the vehicle
func (v *Vehicle) Summary() Summary {
	return Summary{
		Brand:             v.Brand,
		Model:             v.Model,
		ImageURL:          v.ImageURL,
		PassengerCapacity: v.PassengerCapacity,
		LuggageCapacity:   v.LuggageCapacity,
	}
}
