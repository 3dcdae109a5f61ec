package postgres

import (
	"context"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (customer_id, first_name, last_name, date_of_birth,
	            email, phone, license_number, license_country, license_expiration, verified)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, query,
		c.CustomerID, c.FirstName, c.LastName, c.DateOfBirth,
		c.Contact.Email, c.Contact.Phone,
		c.License.Number, c.License.IssuingCountry, c.License.ExpirationDate, c.Verified)
	if err != nil {
		return fmt.Errorf("insert customer: %w", translateErr(err))
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT customer_id, first_name, last_name, date_of_birth,
	            email, phone, license_number, license_country, license_expiration, verified
	          FROM customers WHERE customer_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.CustomerID, &c.FirstName, &c.LastName, &c.DateOfBirth,
		&c.Contact.Email, &c.Contact.Phone,
		&c.License.Number, &c.License.IssuingCountry, &c.License.ExpirationDate, &c.Verified)
	if err != nil {
		return nil, translateErr(err)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET email=$1, phone=$2, license_number=$3, license_country=$4,
	            license_expiration=$5, verified=$6
	          WHERE customer_id=$7`
	res, err := r.db.ExecContext(ctx, query,
		c.Contact.Email, c.Contact.Phone,
		c.License.Number, c.License.IssuingCountry, c.License.ExpirationDate, c.Verified,
		c.CustomerID)
	if err != nil {
		return fmt.Errorf("update customer: %w", translateErr(err))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
