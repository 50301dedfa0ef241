package utils

import (
	"testing"
	"time"

	"hoteldesk-panel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseStayTime(s)
	require.NoError(t, err)
	return d
}

func TestParseStayTime(t *testing.T) {
	t.Run("Date only", func(t *testing.T) {
		d, err := ParseStayTime("2024-01-15")
		assert.NoError(t, err)
		assert.Equal(t, 15, d.Day())
	})

	t.Run("Date and time", func(t *testing.T) {
		d, err := ParseStayTime("2024-01-15T14:30")
		assert.NoError(t, err)
		assert.Equal(t, 14, d.Hour())
		assert.Equal(t, 30, d.Minute())
	})

	t.Run("Invalid format", func(t *testing.T) {
		_, err := ParseStayTime("15/01/2024")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid date")
	})
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    int
		expected int
	}{
		{2024, 1, 31},  // January
		{2024, 2, 29},  // February (leap year)
		{2023, 2, 28},  // February (non-leap year)
		{2024, 4, 30},  // April
		{2024, 11, 30}, // November
		{2000, 2, 29},  // divisible by 400
		{1900, 2, 28},  // divisible by 100 but not 400
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInMonth(tt.year, tt.month))
		})
	}
}

func TestCalculateDateDifference(t *testing.T) {
	t.Run("Same day", func(t *testing.T) {
		diff, err := CalculateDateDifference(mustDate(t, "2024-01-15"), mustDate(t, "2024-01-15"))
		assert.NoError(t, err)
		assert.Equal(t, DateDifference{}, diff)
	})

	t.Run("Cross month boundary", func(t *testing.T) {
		diff, err := CalculateDateDifference(mustDate(t, "2024-01-25"), mustDate(t, "2024-02-05"))
		assert.NoError(t, err)
		assert.Equal(t, 0, diff.Months)
		assert.Equal(t, 11, diff.Days)
	})

	t.Run("Exact months", func(t *testing.T) {
		diff, err := CalculateDateDifference(mustDate(t, "2024-01-15"), mustDate(t, "2024-03-15"))
		assert.NoError(t, err)
		assert.Equal(t, 2, diff.Months)
		assert.Equal(t, 0, diff.Days)
	})

	t.Run("Cross year boundary", func(t *testing.T) {
		diff, err := CalculateDateDifference(mustDate(t, "2023-11-15"), mustDate(t, "2024-02-10"))
		assert.NoError(t, err)
		assert.Equal(t, 2, diff.Months)
		assert.Equal(t, 26, diff.Days)
	})

	t.Run("End before start", func(t *testing.T) {
		_, err := CalculateDateDifference(mustDate(t, "2024-01-20"), mustDate(t, "2024-01-15"))
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})
}

func TestRentalDuration(t *testing.T) {
	tests := []struct {
		name       string
		rentalType domain.RentalType
		checkIn    string
		checkOut   string
		expected   int
	}{
		{"Daily three nights", domain.RentalTypeDaily, "2024-03-01", "2024-03-04", 3},
		{"Daily same day bills one night", domain.RentalTypeDaily, "2024-03-01", "2024-03-01", 1},
		{"Daily ignores clock time", domain.RentalTypeDaily, "2024-03-01T22:00", "2024-03-02T08:00", 1},
		{"Hourly rounds up", domain.RentalTypeHourly, "2024-03-01T10:00", "2024-03-01T12:30", 3},
		{"Hourly minimum one", domain.RentalTypeHourly, "2024-03-01T10:00", "2024-03-01T10:00", 1},
		{"Monthly exact", domain.RentalTypeMonthly, "2024-01-15", "2024-03-15", 2},
		{"Monthly partial rounds up", domain.RentalTypeMonthly, "2024-01-15", "2024-03-20", 3},
		{"Missing check-out", domain.RentalTypeDaily, "2024-03-01", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RentalDuration(tt.rentalType, tt.checkIn, tt.checkOut)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	t.Run("Check-out before check-in", func(t *testing.T) {
		_, err := RentalDuration(domain.RentalTypeDaily, "2024-03-04", "2024-03-01")
		assert.ErrorIs(t, err, ErrEndBeforeStart)
	})

	t.Run("Unknown rental type", func(t *testing.T) {
		_, err := RentalDuration("weekly", "2024-03-01", "2024-03-04")
		assert.Error(t, err)
	})
}
