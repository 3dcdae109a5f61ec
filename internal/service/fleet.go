package service

import (
	"context"
	"fmt"
	"log/slog"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/repository"
)

type fleetService struct {
	tx  repository.TxRunner
	log *slog.Logger
}

func NewFleetService(tx repository.TxRunner) FleetService {
	return &fleetService{
		tx:  tx,
		log: logger.WithService("fleet"),
	}
}

func (s *fleetService) AddCar(ctx context.Context, vin, licensePlate, make, model string, year int32, category string, dailyRate domain.Money) (*domain.Car, error) {
	spec, err := domain.NewVehicleSpecification(make, model, year, domain.VehicleCategory(category))
	if err != nil {
		return nil, err
	}
	car, err := domain.NewCar(vin, licensePlate, spec, dailyRate)
	if err != nil {
		return nil, err
	}

	err = s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		return r.Cars.Create(ctx, car)
	})
	if err != nil {
		return nil, fmt.Errorf("persist car: %w", err)
	}

	s.log.InfoContext(ctx, "car added to fleet",
		"car_id", car.CarID, "vin", vin, "category", category, "daily_rate", dailyRate.String())
	return car, nil
}

func (s *fleetService) GetCar(ctx context.Context, carID string) (*domain.Car, error) {
	var car *domain.Car
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		car, err = r.Cars.GetByID(ctx, carID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (s *fleetService) ListAvailableCars(ctx context.Context) ([]domain.Car, error) {
	var cars []domain.Car
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		cars, err = r.Cars.ListAvailable(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (s *fleetService) SendToMaintenance(ctx context.Context, carID string) (*domain.Car, error) {
	return s.transitionCar(ctx, carID, "maintenance", (*domain.Car).SendToMaintenance)
}

func (s *fleetService) ReturnFromMaintenance(ctx context.Context, carID string) (*domain.Car, error) {
	return s.transitionCar(ctx, carID, "available", (*domain.Car).MarkAvailable)
}

func (s *fleetService) transitionCar(ctx context.Context, carID, target string, apply func(*domain.Car) error) (*domain.Car, error) {
	var car *domain.Car
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		car, err = r.Cars.GetByID(ctx, carID)
		if err != nil {
			return fmt.Errorf("load car %s: %w", carID, err)
		}
		if err := apply(car); err != nil {
			return err
		}
		return r.Cars.Update(ctx, car)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "car status changed", "car_id", carID, "status", car.Status, "target", target)
	return car, nil
}
