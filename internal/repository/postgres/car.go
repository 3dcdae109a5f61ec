package postgres

import (
	"context"
	"fmt"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/repository"
)

type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `car_id, vin, license_plate, make, model, year, category,
	daily_rate_amount, daily_rate_currency, availability_status, odometer, version`

func (r *carRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `INSERT INTO cars (car_id, vin, license_plate, make, model, year, category,
	            daily_rate_amount, daily_rate_currency, availability_status, odometer, version)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 1)`
	_, err := r.db.ExecContext(ctx, query,
		car.CarID, car.VIN, car.LicensePlate,
		car.Specification.Make, car.Specification.Model, car.Specification.Year, car.Specification.Category,
		car.DailyRate.Amount, car.DailyRate.Currency, car.Status, car.Odometer)
	if err != nil {
		return fmt.Errorf("insert car: %w", translateErr(err))
	}
	car.Version = 1
	return nil
}

func (r *carRepository) GetByID(ctx context.Context, id string) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE car_id = $1`
	return r.scanCar(r.db.QueryRowContext(ctx, query, id))
}

// Update is version-checked: a row that was written by someone else since our
// read leaves zero rows affected, which surfaces as ErrConcurrencyConflict.
// This is what makes double-booking a car impossible.
func (r *carRepository) Update(ctx context.Context, car *domain.Car) error {
	query := `UPDATE cars SET license_plate=$1, daily_rate_amount=$2, daily_rate_currency=$3,
	            availability_status=$4, odometer=$5, version=version+1
	          WHERE car_id=$6 AND version=$7`
	res, err := r.db.ExecContext(ctx, query,
		car.LicensePlate, car.DailyRate.Amount, car.DailyRate.Currency,
		car.Status, car.Odometer, car.CarID, car.Version)
	if err != nil {
		return fmt.Errorf("update car: %w", translateErr(err))
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrConcurrencyConflict
	}
	car.Version++
	return nil
}

func (r *carRepository) ListAvailable(ctx context.Context) ([]domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE availability_status = $1 ORDER BY make, model`
	rows, err := r.db.QueryContext(ctx, query, domain.CarStatusAvailable)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var car domain.Car
		if err := rows.Scan(
			&car.CarID, &car.VIN, &car.LicensePlate,
			&car.Specification.Make, &car.Specification.Model, &car.Specification.Year, &car.Specification.Category,
			&car.DailyRate.Amount, &car.DailyRate.Currency, &car.Status, &car.Odometer, &car.Version); err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *carRepository) scanCar(row rowScanner) (*domain.Car, error) {
	car := &domain.Car{}
	err := row.Scan(
		&car.CarID, &car.VIN, &car.LicensePlate,
		&car.Specification.Make, &car.Specification.Model, &car.Specification.Year, &car.Specification.Category,
		&car.DailyRate.Amount, &car.DailyRate.Currency, &car.Status, &car.Odometer, &car.Version)
	if err != nil {
		return nil, translateErr(err)
	}
	return car, nil
}
