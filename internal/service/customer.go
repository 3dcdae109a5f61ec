package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/logger"
	"rentalcar-backend/internal/repository"
)

type customerService struct {
	tx  repository.TxRunner
	log *slog.Logger
}

func NewCustomerService(tx repository.TxRunner) CustomerService {
	return &customerService{
		tx:  tx,
		log: logger.WithService("customers"),
	}
}

func (s *customerService) RegisterCustomer(ctx context.Context, firstName, lastName string, dateOfBirth time.Time, contact domain.ContactInfo, license domain.LicenseInfo) (*domain.Customer, error) {
	customer, err := domain.NewCustomer(firstName, lastName, dateOfBirth, contact, license)
	if err != nil {
		return nil, err
	}

	err = s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		return r.Customers.Create(ctx, customer)
	})
	if err != nil {
		return nil, fmt.Errorf("persist customer: %w", err)
	}

	s.log.InfoContext(ctx, "customer registered", "customer_id", customer.CustomerID)
	return customer, nil
}

func (s *customerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var customer *domain.Customer
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		customer, err = r.Customers.GetByID(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) VerifyCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.mutate(ctx, customerID, func(c *domain.Customer) error {
		return c.Verify()
	})
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "customer verified", "customer_id", customerID)
	return customer, nil
}

func (s *customerService) UpdateContactInfo(ctx context.Context, customerID string, contact domain.ContactInfo) (*domain.Customer, error) {
	return s.mutate(ctx, customerID, func(c *domain.Customer) error {
		c.UpdateContactInfo(contact)
		return nil
	})
}

func (s *customerService) UpdateLicenseInfo(ctx context.Context, customerID string, license domain.LicenseInfo) (*domain.Customer, error) {
	customer, err := s.mutate(ctx, customerID, func(c *domain.Customer) error {
		c.UpdateLicenseInfo(license)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !customer.Verified {
		s.log.WarnContext(ctx, "customer verification revoked", "customer_id", customerID)
	}
	return customer, nil
}

func (s *customerService) mutate(ctx context.Context, customerID string, apply func(*domain.Customer) error) (*domain.Customer, error) {
	var customer *domain.Customer
	err := s.tx.ExecTx(ctx, func(r *repository.Repositories) error {
		var err error
		customer, err = r.Customers.GetByID(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load customer %s: %w", customerID, err)
		}
		if err := apply(customer); err != nil {
			return err
		}
		return r.Customers.Update(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	return customer, nil
}
