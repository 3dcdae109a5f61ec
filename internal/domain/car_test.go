package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCar(t *testing.T) *Car {
	t.Helper()
	spec, err := NewVehicleSpecification("Toyota", "Corolla", 2023, CategoryCompact)
	require.NoError(t, err)
	rate, err := NewMoney(decimal.NewFromInt(50), "USD")
	require.NoError(t, err)
	car, err := NewCar("1HGBH41JXMN109186", "ABC-1234", spec, rate)
	require.NoError(t, err)
	return car
}

func TestNewCar(t *testing.T) {
	car := newTestCar(t)
	assert.Equal(t, CarStatusAvailable, car.Status)
	assert.True(t, car.IsAvailable())
	assert.Equal(t, int32(0), car.Odometer)

	_, err := NewCar("SHORT", "ABC-1234", car.Specification, car.DailyRate)
	assert.True(t, IsValidationError(err))
	_, err = NewCar("1HGBH41JXMN109186", "", car.Specification, car.DailyRate)
	assert.True(t, IsValidationError(err))
}

func TestNewVehicleSpecification(t *testing.T) {
	_, err := NewVehicleSpecification("", "Corolla", 2023, CategoryCompact)
	assert.True(t, IsValidationError(err))
	_, err = NewVehicleSpecification("Toyota", "Corolla", 1899, CategoryCompact)
	assert.True(t, IsValidationError(err))
	_, err = NewVehicleSpecification("Toyota", "Corolla", 2023, "")
	assert.True(t, IsValidationError(err))
}

func TestCarStatusTransitions(t *testing.T) {
	t.Run("RentAndReturn", func(t *testing.T) {
		car := newTestCar(t)
		require.NoError(t, car.MarkRented())
		assert.Equal(t, CarStatusRented, car.Status)
		require.NoError(t, car.MarkAvailable())
		assert.True(t, car.IsAvailable())
	})

	t.Run("RentTwice", func(t *testing.T) {
		car := newTestCar(t)
		require.NoError(t, car.MarkRented())
		assert.True(t, IsInvalidStateTransition(car.MarkRented()))
	})

	t.Run("MaintenanceWhileRented", func(t *testing.T) {
		car := newTestCar(t)
		require.NoError(t, car.MarkRented())
		assert.True(t, IsInvalidStateTransition(car.SendToMaintenance()))
	})

	t.Run("Maintenance", func(t *testing.T) {
		car := newTestCar(t)
		require.NoError(t, car.SendToMaintenance())
		assert.True(t, IsInvalidStateTransition(car.MarkRented()))
		require.NoError(t, car.MarkAvailable())
	})

	t.Run("OutOfService", func(t *testing.T) {
		car := newTestCar(t)
		car.Status = CarStatusOutOfService
		assert.True(t, IsInvalidStateTransition(car.MarkAvailable()))
		assert.True(t, IsInvalidStateTransition(car.MarkRented()))
	})
}

func TestCarOdometer(t *testing.T) {
	car := newTestCar(t)
	require.NoError(t, car.UpdateOdometer(500))
	assert.Equal(t, int32(500), car.Odometer)

	err := car.UpdateOdometer(400)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, int32(500), car.Odometer)

	require.NoError(t, car.UpdateOdometer(500))
}
