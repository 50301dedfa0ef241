package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hoteldesk-panel/internal/domain"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04"
)

var ErrEndBeforeStart = errors.New("check-out must not be before check-in")

// DateDifference represents the calendar difference between two dates
type DateDifference struct {
	Months int
	Days   int
}

// ParseStayTime accepts yyyy-mm-dd, yyyy-mm-ddThh:mm and RFC 3339 values
func ParseStayTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{DateTimeLayout, time.RFC3339, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd or yyyy-mm-ddThh:mm", s)
}

// DaysInMonth returns the number of days in a given month
func DaysInMonth(year, month int) int {
	if month == 2 {
		if (year%4 == 0 && year%100 != 0) || (year%400 == 0) {
			return 29
		}
		return 28
	}
	if month == 4 || month == 6 || month == 9 || month == 11 {
		return 30
	}
	return 31
}

// CalculateDateDifference computes whole months plus remaining days between
// check-in and check-out. The check-out day itself is not counted.
func CalculateDateDifference(start, end time.Time) (DateDifference, error) {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if end.Before(start) {
		return DateDifference{}, ErrEndBeforeStart
	}

	years := ey - sy
	months := int(em) - int(sm)
	days := ed - sd

	// Borrow from the month preceding the end date
	if days < 0 {
		months--
		prevMonth := int(em) - 1
		prevYear := ey
		if prevMonth < 1 {
			prevMonth = 12
			prevYear--
		}
		days += DaysInMonth(prevYear, prevMonth)
	}

	if months < 0 {
		years--
		months += 12
	}

	return DateDifference{Months: months + 12*years, Days: days}, nil
}

// RentalDuration derives the billable duration of a stay in units of the
// rental type: nights for daily, hours for hourly, months for monthly.
// Partial units round up and every stay bills at least one unit. A missing
// check-in or check-out yields zero.
func RentalDuration(rentalType domain.RentalType, checkIn, checkOut string) (int, error) {
	if strings.TrimSpace(checkIn) == "" || strings.TrimSpace(checkOut) == "" {
		return 0, nil
	}
	start, err := ParseStayTime(checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check-in: %w", err)
	}
	end, err := ParseStayTime(checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check-out: %w", err)
	}
	if end.Before(start) {
		return 0, ErrEndBeforeStart
	}

	switch rentalType {
	case domain.RentalTypeHourly:
		hours := int(math.Ceil(end.Sub(start).Hours()))
		return atLeastOne(hours), nil

	case domain.RentalTypeMonthly:
		diff, err := CalculateDateDifference(start, end)
		if err != nil {
			return 0, err
		}
		months := diff.Months
		if diff.Days > 0 {
			months++
		}
		return atLeastOne(months), nil

	case domain.RentalTypeDaily:
		return atLeastOne(nightsBetween(start, end)), nil

	default:
		return 0, fmt.Errorf("unknown rental type %q", rentalType)
	}
}

func nightsBetween(start, end time.Time) int {
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	s := time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	e := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours() / 24)
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
