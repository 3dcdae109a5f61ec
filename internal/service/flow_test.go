package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentalcar-backend/internal/domain"
	"rentalcar-backend/internal/projection"
	"rentalcar-backend/internal/repository/memory"
)

// Full write-to-read walkthrough: register and verify a customer, add a car,
// reserve it for a week, pick it up and return it, projecting the staged
// events after each command.
func TestRentalFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	commands := NewRentalCommandService(store)
	queries := NewRentalQueryService(store.Views(), nil)
	updater := projection.NewUpdater(store.Rentals(), store.Customers(), store.Cars(), store.Views(), nil)

	project := func() {
		events, err := store.Outbox().ListUnpublished(ctx, 100)
		require.NoError(t, err)
		for _, evt := range events {
			value, err := json.Marshal(evt.Envelope)
			require.NoError(t, err)
			require.NoError(t, updater.HandleEvent(ctx, evt.PartitionKey, value))
			require.NoError(t, store.Outbox().MarkPublished(ctx, evt.ID))
		}
	}

	contact, err := domain.NewContactInfo("alice@example.com", "+1-555-0101")
	require.NoError(t, err)
	license, err := domain.NewLicenseInfo("D1234567", "US", time.Now().UTC().AddDate(2, 0, 0))
	require.NoError(t, err)
	customerSvc := NewCustomerService(store)
	customer, err := customerSvc.RegisterCustomer(ctx, "Alice", "Smith",
		time.Now().UTC().AddDate(-30, 0, -1), contact, license)
	require.NoError(t, err)
	customer, err = customerSvc.VerifyCustomer(ctx, customer.CustomerID)
	require.NoError(t, err)
	require.True(t, customer.IsEligibleToRent())

	rate, err := domain.NewMoney(decimal.NewFromInt(50), "USD")
	require.NoError(t, err)
	car, err := NewFleetService(store).AddCar(ctx, "1HGBH41JXMN109186", "ABC-1234",
		"Toyota", "Corolla", 2023, "COMPACT", rate)
	require.NoError(t, err)

	// Reserve for 7 days: the weekly discount applies.
	start := domain.Today()
	rental, err := commands.CreateRental(ctx, customer.CustomerID, car.CarID, start, start.AddDate(0, 0, 6))
	require.NoError(t, err)
	assert.Equal(t, domain.RentalStatusReserved, rental.Status)
	assert.Equal(t, "315.00 USD", rental.TotalCost.String())

	rentedCar, err := store.Cars().GetByID(ctx, car.CarID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusRented, rentedCar.Status)

	project()
	view, err := queries.GetRentalView(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusReserved), view.Status)
	assert.Equal(t, "Alice Smith", view.CustomerName)
	assert.Equal(t, "Toyota", view.CarMake)
	assert.Equal(t, "Corolla", view.CarModel)
	assert.Equal(t, 7, view.DurationDays)
	assert.Equal(t, "315.00 USD", view.FormattedTotalCost)

	_, err = commands.StartRental(ctx, rental.RentalID, 1000)
	require.NoError(t, err)
	project()
	view, err = queries.GetRentalView(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusActive), view.Status)

	_, err = commands.CompleteRental(ctx, rental.RentalID, 1200)
	require.NoError(t, err)
	project()

	returnedCar, err := store.Cars().GetByID(ctx, car.CarID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusAvailable, returnedCar.Status)
	assert.Equal(t, int32(1200), returnedCar.Odometer)

	view, err = queries.GetRentalView(ctx, rental.RentalID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.RentalStatusCompleted), view.Status)
	require.NotNil(t, view.TotalKilometers)
	assert.Equal(t, int32(200), *view.TotalKilometers)
}

// Two commands racing for one car: exactly one reservation wins, the other
// surfaces the availability failure or a concurrency conflict.
func TestConcurrentCreateRentalSameCar(t *testing.T) {
	f := newCommandFixture(t)
	ctx := context.Background()
	start := domain.Today()

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.commands.CreateRental(ctx, f.customer.CustomerID, f.car.CarID, start, start.AddDate(0, 0, 2))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		failedRight := errors.Is(err, domain.ErrCarUnavailable) || errors.Is(err, domain.ErrConcurrencyConflict)
		assert.True(t, failedRight, "unexpected failure: %v", err)
	}
	assert.Equal(t, 1, wins)

	car, err := f.store.Cars().GetByID(ctx, f.car.CarID)
	require.NoError(t, err)
	assert.Equal(t, domain.CarStatusRented, car.Status)

	staged, err := f.store.Outbox().ListUnpublished(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, staged, 1, "only the winner stages an event")
}
