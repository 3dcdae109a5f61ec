package http

import (
	"time"

	"github.com/shopspring/decimal"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/pricing"
	"rentalcar-backend/internal/projection"
)

const dateLayout = "2006-01-02"

type createRentalRequest struct {
	CustomerID string `json:"customer_id"`
	CarID      string `json:"car_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

type startRentalRequest struct {
	StartOdometer int32 `json:"start_odometer"`
}

type completeRentalRequest struct {
	EndOdometer int32 `json:"end_odometer"`
}

type cancelRentalRequest struct {
	Reason string `json:"reason"`
}

type rentalResponse struct {
	RentalID      string     `json:"rental_id"`
	CustomerID    string     `json:"customer_id"`
	CarID         string     `json:"car_id"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	DurationDays  int        `json:"duration_days"`
	TotalCost     string     `json:"total_cost"`
	Discount      int        `json:"discount_percentage"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	PickedUpAt    *time.Time `json:"picked_up_at,omitempty"`
	ReturnedAt    *time.Time `json:"returned_at,omitempty"`
	StartOdometer *int32     `json:"start_odometer,omitempty"`
	EndOdometer   *int32     `json:"end_odometer,omitempty"`
}

func toRentalResponse(r *domain.Rental) rentalResponse {
	return rentalResponse{
		RentalID:      r.RentalID,
		CustomerID:    r.CustomerID,
		CarID:         r.CarID,
		StartDate:     r.Period.StartDate.Format(dateLayout),
		EndDate:       r.Period.EndDate.Format(dateLayout),
		DurationDays:  r.Period.DurationDays(),
		TotalCost:     r.TotalCost.String(),
		Discount:      pricing.DiscountPercentage(r.Period.DurationDays()),
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
		PickedUpAt:    r.PickedUpAt,
		ReturnedAt:    r.ReturnedAt,
		StartOdometer: r.StartOdometer,
		EndOdometer:   r.EndOdometer,
	}
}

type addCarRequest struct {
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int32  `json:"year"`
	Category     string `json:"category"`
	DailyRate    string `json:"daily_rate"`
	Currency     string `json:"currency"`
}

type carResponse struct {
	CarID        string `json:"car_id"`
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int32  `json:"year"`
	Category     string `json:"category"`
	DailyRate    string `json:"daily_rate"`
	Status       string `json:"status"`
	Odometer     int32  `json:"odometer"`
}

func toCarResponse(c *domain.Car) carResponse {
	return carResponse{
		CarID:        c.CarID,
		VIN:          c.VIN,
		LicensePlate: c.LicensePlate,
		Make:         c.Specification.Make,
		Model:        c.Specification.Model,
		Year:         c.Specification.Year,
		Category:     string(c.Specification.Category),
		DailyRate:    c.DailyRate.String(),
		Status:       string(c.Status),
		Odometer:     c.Odometer,
	}
}

type rentalViewResponse struct {
	*domain.RentalView
	CostPerDay string `json:"cost_per_day,omitempty"`
}

func toRentalViewResponse(view *domain.RentalView) rentalViewResponse {
	out := rentalViewResponse{RentalView: view}
	if view.TotalCostCurrency != "" {
		if perDay, err := projection.CostPerDay(view); err == nil {
			out.CostPerDay = perDay.String()
		}
	}
	return out
}

func toRentalViewResponses(views []domain.RentalView) []rentalViewResponse {
	out := make([]rentalViewResponse, len(views))
	for i := range views {
		out[i] = toRentalViewResponse(&views[i])
	}
	return out
}

type registerCustomerRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `json:"date_of_birth"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	LicenseNumber     string `json:"license_number"`
	LicenseCountry    string `json:"license_country"`
	LicenseExpiration string `json:"license_expiration"`
}

type updateContactRequest struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type updateLicenseRequest struct {
	LicenseNumber     string `json:"license_number"`
	LicenseCountry    string `json:"license_country"`
	LicenseExpiration string `json:"license_expiration"`
}

type customerResponse struct {
	CustomerID  string `json:"customer_id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Verified    bool   `json:"verified"`
	Eligible    bool   `json:"eligible_to_rent"`
}

func toCustomerResponse(c *domain.Customer) customerResponse {
	return customerResponse{
		CustomerID:  c.CustomerID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DateOfBirth: c.DateOfBirth.Format(dateLayout),
		Email:       c.Contact.Email,
		Phone:       c.Contact.Phone,
		Verified:    c.Verified,
		Eligible:    c.IsEligibleToRent(),
	}
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidationError("%s must be in YYYY-MM-DD format", field)
	}
	return t, nil
}

func parseMoney(amount, currency string) (domain.Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.Money{}, domain.NewValidationError("invalid amount %q", amount)
	}
	return domain.NewMoney(d, currency)
}
