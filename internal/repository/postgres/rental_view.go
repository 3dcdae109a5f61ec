package postgres

import (
	"context"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

type rentalViewRepository struct {
	db DBTX
}

func NewRentalViewRepository(db DBTX) repository.RentalViewRepository {
	return &rentalViewRepository{db: db}
}

const viewColumns = `rental_id, customer_id, customer_name, customer_email, customer_phone,
	car_id, car_make, car_model, car_year, car_category, car_license_plate,
	start_date, end_date, duration_days,
	total_cost_amount, total_cost_currency, formatted_total_cost,
	status, created_at, picked_up_at, returned_at, last_updated,
	start_odometer, end_odometer, total_kilometers, cancellation_reason`

// Upsert writes the whole document; replaying the same event converges on
// the same row.
func (r *rentalViewRepository) Upsert(ctx context.Context, v *domain.RentalView) error {
	query := `INSERT INTO rental_views (` + viewColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
	                  $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	          ON CONFLICT (rental_id) DO UPDATE SET
	            customer_name = EXCLUDED.customer_name,
	            customer_email = EXCLUDED.customer_email,
	            customer_phone = EXCLUDED.customer_phone,
	            car_make = EXCLUDED.car_make,
	            car_model = EXCLUDED.car_model,
	            car_year = EXCLUDED.car_year,
	            car_category = EXCLUDED.car_category,
	            car_license_plate = EXCLUDED.car_license_plate,
	            start_date = EXCLUDED.start_date,
	            end_date = EXCLUDED.end_date,
	            duration_days = EXCLUDED.duration_days,
	            total_cost_amount = EXCLUDED.total_cost_amount,
	            total_cost_currency = EXCLUDED.total_cost_currency,
	            formatted_total_cost = EXCLUDED.formatted_total_cost,
	            status = EXCLUDED.status,
	            created_at = EXCLUDED.created_at,
	            picked_up_at = EXCLUDED.picked_up_at,
	            returned_at = EXCLUDED.returned_at,
	            last_updated = EXCLUDED.last_updated,
	            start_odometer = EXCLUDED.start_odometer,
	            end_odometer = EXCLUDED.end_odometer,
	            total_kilometers = EXCLUDED.total_kilometers,
	            cancellation_reason = EXCLUDED.cancellation_reason`
	_, err := r.db.ExecContext(ctx, query,
		v.RentalID, v.CustomerID, v.CustomerName, v.CustomerEmail, v.CustomerPhone,
		v.CarID, v.CarMake, v.CarModel, v.CarYear, v.CarCategory, v.CarLicensePlate,
		v.StartDate, v.EndDate, v.DurationDays,
		v.TotalCostAmount, v.TotalCostCurrency, v.FormattedTotalCost,
		v.Status, v.CreatedAt, v.PickedUpAt, v.ReturnedAt, v.LastUpdated,
		v.StartOdometer, v.EndOdometer, v.TotalKilometers, v.CancellationReason)
	if err != nil {
		return fmt.Errorf("upsert rental view: %w", translateErr(err))
	}
	return nil
}

func (r *rentalViewRepository) GetByID(ctx context.Context, rentalID string) (*domain.RentalView, error) {
	query := `SELECT ` + viewColumns + ` FROM rental_views WHERE rental_id = $1`
	v := &domain.RentalView{}
	err := r.scanView(r.db.QueryRowContext(ctx, query, rentalID), v)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *rentalViewRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.RentalView, error) {
	query := `SELECT ` + viewColumns + ` FROM rental_views WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.queryViews(ctx, query, customerID)
}

func (r *rentalViewRepository) ListByStatus(ctx context.Context, status string) ([]domain.RentalView, error) {
	query := `SELECT ` + viewColumns + ` FROM rental_views WHERE status = $1 ORDER BY created_at DESC`
	return r.queryViews(ctx, query, status)
}

func (r *rentalViewRepository) ListByCar(ctx context.Context, carID string) ([]domain.RentalView, error) {
	query := `SELECT ` + viewColumns + ` FROM rental_views WHERE car_id = $1 ORDER BY created_at DESC`
	return r.queryViews(ctx, query, carID)
}

func (r *rentalViewRepository) queryViews(ctx context.Context, query string, arg any) ([]domain.RentalView, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var views []domain.RentalView
	for rows.Next() {
		var v domain.RentalView
		if err := r.scanView(rows, &v); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func (r *rentalViewRepository) scanView(row rowScanner, v *domain.RentalView) error {
	err := row.Scan(
		&v.RentalID, &v.CustomerID, &v.CustomerName, &v.CustomerEmail, &v.CustomerPhone,
		&v.CarID, &v.CarMake, &v.CarModel, &v.CarYear, &v.CarCategory, &v.CarLicensePlate,
		&v.StartDate, &v.EndDate, &v.DurationDays,
		&v.TotalCostAmount, &v.TotalCostCurrency, &v.FormattedTotalCost,
		&v.Status, &v.CreatedAt, &v.PickedUpAt, &v.ReturnedAt, &v.LastUpdated,
		&v.StartOdometer, &v.EndOdometer, &v.TotalKilometers, &v.CancellationReason)
	return translateErr(err)
}
