package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RentalView is the denormalized read model for one rental, keyed by rental
// id. It combines the rental with a copy of the customer and car attributes
// captured at projection time. Derived state only: it is never the source of
// truth and can always be rebuilt from the event stream plus a point-in-time
// read of the write-side aggregates.
type RentalView struct {
	RentalID string `json:"rental_id"`

	// Denormalized customer data
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`

	// Denormalized car data
	CarID           string `json:"car_id"`
	CarMake         string `json:"car_make"`
	CarModel        string `json:"car_model"`
	CarYear         int32  `json:"car_year"`
	CarCategory     string `json:"car_category"`
	CarLicensePlate string `json:"car_license_plate"`

	// Rental details
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	DurationDays int       `json:"duration_days"`

	// Pricing
	TotalCostAmount    decimal.Decimal `json:"total_cost_amount"`
	TotalCostCurrency  string          `json:"total_cost_currency"`
	FormattedTotalCost string          `json:"formatted_total_cost"`

	Status string `json:"status"`

	CreatedAt   time.Time  `json:"created_at"`
	PickedUpAt  *time.Time `json:"picked_up_at,omitempty"`
	ReturnedAt  *time.Time `json:"returned_at,omitempty"`
	LastUpdated time.Time  `json:"last_updated"`

	StartOdometer   *int32 `json:"start_odometer,omitempty"`
	EndOdometer     *int32 `json:"end_odometer,omitempty"`
	TotalKilometers *int32 `json:"total_kilometers,omitempty"`

	CancellationReason string `json:"cancellation_reason,omitempty"`
}
