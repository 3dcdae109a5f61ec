package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRentalPeriod(t *testing.T) {
	today := Today()

	t.Run("Valid", func(t *testing.T) {
		p, err := NewRentalPeriod(today, today.AddDate(0, 0, 9))
		require.NoError(t, err)
		assert.Equal(t, 10, p.DurationDays())
	})

	t.Run("SingleDay", func(t *testing.T) {
		p, err := NewRentalPeriod(today, today)
		require.NoError(t, err)
		assert.Equal(t, 1, p.DurationDays())
	})

	t.Run("TruncatesTimeOfDay", func(t *testing.T) {
		p, err := NewRentalPeriod(today.Add(14*time.Hour), today.Add(30*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, today, p.StartDate)
		assert.Equal(t, 2, p.DurationDays())
	})

	t.Run("StartAfterEnd", func(t *testing.T) {
		_, err := NewRentalPeriod(today.AddDate(0, 0, 5), today)
		assert.True(t, IsValidationError(err))
	})

	t.Run("StartInPast", func(t *testing.T) {
		_, err := NewRentalPeriod(today.AddDate(0, 0, -1), today)
		assert.True(t, IsValidationError(err))
	})

	t.Run("TooLong", func(t *testing.T) {
		_, err := NewRentalPeriod(today, today.AddDate(0, 0, 366))
		assert.True(t, IsValidationError(err))
	})
}

func TestRentalPeriodOverlap(t *testing.T) {
	today := Today()
	base, err := NewRentalPeriod(today.AddDate(0, 0, 10), today.AddDate(0, 0, 20))
	require.NoError(t, err)

	overlapping, err := NewRentalPeriod(today.AddDate(0, 0, 15), today.AddDate(0, 0, 25))
	require.NoError(t, err)
	assert.True(t, base.OverlapsWith(overlapping))
	assert.True(t, overlapping.OverlapsWith(base))

	touching, err := NewRentalPeriod(today.AddDate(0, 0, 20), today.AddDate(0, 0, 22))
	require.NoError(t, err)
	assert.True(t, base.OverlapsWith(touching))

	disjoint, err := NewRentalPeriod(today.AddDate(0, 0, 21), today.AddDate(0, 0, 25))
	require.NoError(t, err)
	assert.False(t, base.OverlapsWith(disjoint))
}

func TestRentalPeriodClassification(t *testing.T) {
	today := Today()

	current, err := NewRentalPeriod(today, today.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.True(t, current.IsCurrent())
	assert.False(t, current.IsFuture())
	assert.False(t, current.IsPast())

	future, err := NewRentalPeriod(today.AddDate(0, 0, 5), today.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.True(t, future.IsFuture())
}
