package postgres

import (
	"context"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

type rentalRepository struct {
	db DBTX
}

func NewRentalRepository(db DBTX) repository.RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) Create(ctx context.Context, rt *domain.Rental) error {
	query := `INSERT INTO rentals (rental_id, customer_id, car_id, start_date, end_date,
	            total_cost_amount, total_cost_currency, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		rt.RentalID, rt.CustomerID, rt.CarID, rt.Period.StartDate, rt.Period.EndDate,
		rt.TotalCost.Amount, rt.TotalCost.Currency, rt.Status, rt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert rental: %w", translateErr(err))
	}
	return nil
}

func (r *rentalRepository) GetByID(ctx context.Context, id string) (*domain.Rental, error) {
	rt := &domain.Rental{}
	query := `SELECT rental_id, customer_id, car_id, start_date, end_date,
	            total_cost_amount, total_cost_currency, status, created_at,
	            picked_up_at, returned_at, start_odometer, end_odometer
	          FROM rentals WHERE rental_id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rt.RentalID, &rt.CustomerID, &rt.CarID, &rt.Period.StartDate, &rt.Period.EndDate,
		&rt.TotalCost.Amount, &rt.TotalCost.Currency, &rt.Status, &rt.CreatedAt,
		&rt.PickedUpAt, &rt.ReturnedAt, &rt.StartOdometer, &rt.EndOdometer)
	if err != nil {
		return nil, translateErr(err)
	}
	return rt, nil
}

func (r *rentalRepository) Update(ctx context.Context, rt *domain.Rental) error {
	query := `UPDATE rentals SET status=$1, picked_up_at=$2, returned_at=$3,
	            start_odometer=$4, end_odometer=$5
	          WHERE rental_id=$6`
	res, err := r.db.ExecContext(ctx, query,
		rt.Status, rt.PickedUpAt, rt.ReturnedAt, rt.StartOdometer, rt.EndOdometer, rt.RentalID)
	if err != nil {
		return fmt.Errorf("update rental: %w", translateErr(err))
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
