package domain

import (
	"time"

	"github.com/google/uuid"
)

const minRentalAge = 21

type ContactInfo struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func NewContactInfo(email, phone string) (ContactInfo, error) {
	if email == "" {
		return ContactInfo{}, NewValidationError("email cannot be empty")
	}
	return ContactInfo{Email: email, Phone: phone}, nil
}

type LicenseInfo struct {
	Number         string    `json:"number"`
	IssuingCountry string    `json:"issuing_country"`
	ExpirationDate time.Time `json:"expiration_date"`
}

func NewLicenseInfo(number, issuingCountry string, expirationDate time.Time) (LicenseInfo, error) {
	if number == "" {
		return LicenseInfo{}, NewValidationError("license number cannot be empty")
	}
	if issuingCountry == "" {
		return LicenseInfo{}, NewValidationError("license issuing country cannot be empty")
	}
	if expirationDate.Before(time.Now().UTC()) {
		return LicenseInfo{}, NewValidationError("license is expired")
	}
	return LicenseInfo{Number: number, IssuingCountry: issuingCountry, ExpirationDate: expirationDate}, nil
}

func (l LicenseInfo) IsValid() bool {
	return time.Now().UTC().Before(l.ExpirationDate)
}

// Customer is the aggregate root for renters. Customers start unverified and
// become eligible to rent only after verification with a valid license.
type Customer struct {
	CustomerID  string      `json:"customer_id"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	DateOfBirth time.Time   `json:"date_of_birth"`
	Contact     ContactInfo `json:"contact"`
	License     LicenseInfo `json:"license"`
	Verified    bool        `json:"verified"`
}

func NewCustomer(firstName, lastName string, dateOfBirth time.Time, contact ContactInfo, license LicenseInfo) (*Customer, error) {
	if err := validateName(firstName, "first name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "last name"); err != nil {
		return nil, err
	}
	if err := validateDateOfBirth(dateOfBirth); err != nil {
		return nil, err
	}
	return &Customer{
		CustomerID:  uuid.New().String(),
		FirstName:   firstName,
		LastName:    lastName,
		DateOfBirth: dateOfBirth,
		Contact:     contact,
		License:     license,
		Verified:    false,
	}, nil
}

func (c *Customer) Verify() error {
	if !c.License.IsValid() {
		return &InvalidStateTransitionError{Aggregate: "Customer", Current: "license expired", Requested: "verify"}
	}
	c.Verified = true
	return nil
}

func (c *Customer) UpdateContactInfo(contact ContactInfo) {
	c.Contact = contact
}

// UpdateLicenseInfo revokes verification when the new license is invalid.
func (c *Customer) UpdateLicenseInfo(license LicenseInfo) {
	c.License = license
	if c.Verified && !license.IsValid() {
		c.Verified = false
	}
}

func (c *Customer) IsEligibleToRent() bool {
	return c.Verified && c.License.IsValid() && c.Age() >= minRentalAge
}

func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

func (c *Customer) Age() int {
	now := time.Now().UTC()
	age := now.Year() - c.DateOfBirth.Year()
	if now.YearDay() < c.DateOfBirth.YearDay() {
		age--
	}
	return age
}

func validateName(name, field string) error {
	if name == "" {
		return NewValidationError("%s cannot be empty", field)
	}
	if len(name) < 2 {
		return NewValidationError("%s must be at least 2 characters", field)
	}
	return nil
}

func validateDateOfBirth(dob time.Time) error {
	if dob.IsZero() {
		return NewValidationError("date of birth cannot be empty")
	}
	now := time.Now().UTC()
	if dob.After(now.AddDate(-minRentalAge, 0, 0)) {
		return NewValidationError("customer must be at least %d years old", minRentalAge)
	}
	if dob.Before(now.AddDate(-100, 0, 0)) {
		return NewValidationError("invalid date of birth")
	}
	return nil
}
