package domain

import (
	"time"

	"github.com/google/uuid"
)

type AvailabilityStatus string

const (
	CarStatusAvailable    AvailabilityStatus = "AVAILABLE"
	CarStatusRented       AvailabilityStatus = "RENTED"
	CarStatusMaintenance  AvailabilityStatus = "MAINTENANCE"
	CarStatusOutOfService AvailabilityStatus = "OUT_OF_SERVICE"
)

type VehicleCategory string

const (
	CategoryEconomy VehicleCategory = "ECONOMY"
	CategoryCompact VehicleCategory = "COMPACT"
	CategoryMidsize VehicleCategory = "MIDSIZE"
	CategorySUV     VehicleCategory = "SUV"
	CategoryLuxury  VehicleCategory = "LUXURY"
	CategoryVan     VehicleCategory = "VAN"
)

type VehicleSpecification struct {
	Make     string          `json:"make"`
	Model    string          `json:"model"`
	Year     int32           `json:"year"`
	Category VehicleCategory `json:"category"`
}

func NewVehicleSpecification(make, model string, year int32, category VehicleCategory) (VehicleSpecification, error) {
	if make == "" {
		return VehicleSpecification{}, NewValidationError("vehicle make cannot be empty")
	}
	if model == "" {
		return VehicleSpecification{}, NewValidationError("vehicle model cannot be empty")
	}
	currentYear := int32(time.Now().UTC().Year())
	if year < 1900 || year > currentYear+1 {
		return VehicleSpecification{}, NewValidationError("invalid vehicle year: %d", year)
	}
	if category == "" {
		return VehicleSpecification{}, NewValidationError("vehicle category cannot be empty")
	}
	return VehicleSpecification{Make: make, Model: model, Year: year, Category: category}, nil
}

// Car is the fleet aggregate root. Version backs the optimistic-lock check in
// the store: concurrent writers racing on one car serialize through it, so a
// car can never be double-booked.
type Car struct {
	CarID         string               `json:"car_id"`
	VIN           string               `json:"vin"`
	LicensePlate  string               `json:"license_plate"`
	Specification VehicleSpecification `json:"specification"`
	DailyRate     Money                `json:"daily_rate"`
	Status        AvailabilityStatus   `json:"status"`
	Odometer      int32                `json:"odometer"`
	Version       int64                `json:"version"`
}

func NewCar(vin, licensePlate string, spec VehicleSpecification, dailyRate Money) (*Car, error) {
	if len(vin) != 17 {
		return nil, NewValidationError("VIN must be 17 characters, got %d", len(vin))
	}
	if licensePlate == "" {
		return nil, NewValidationError("license plate cannot be empty")
	}
	return &Car{
		CarID:         uuid.New().String(),
		VIN:           vin,
		LicensePlate:  licensePlate,
		Specification: spec,
		DailyRate:     dailyRate,
		Status:        CarStatusAvailable,
		Odometer:      0,
	}, nil
}

func (c *Car) MarkRented() error {
	if c.Status != CarStatusAvailable {
		return &InvalidStateTransitionError{Aggregate: "Car", Current: string(c.Status), Requested: "rent"}
	}
	c.Status = CarStatusRented
	return nil
}

func (c *Car) MarkAvailable() error {
	if c.Status == CarStatusOutOfService {
		return &InvalidStateTransitionError{Aggregate: "Car", Current: string(c.Status), Requested: "make available"}
	}
	c.Status = CarStatusAvailable
	return nil
}

func (c *Car) SendToMaintenance() error {
	if c.Status == CarStatusRented {
		return &InvalidStateTransitionError{Aggregate: "Car", Current: string(c.Status), Requested: "send to maintenance"}
	}
	c.Status = CarStatusMaintenance
	return nil
}

// UpdateOdometer rejects readings below the current one.
func (c *Car) UpdateOdometer(reading int32) error {
	if reading < c.Odometer {
		return NewValidationError("odometer reading %d cannot be less than current %d", reading, c.Odometer)
	}
	c.Odometer = reading
	return nil
}

func (c *Car) IsAvailable() bool {
	return c.Status == CarStatusAvailable
}
