package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date represents a calendar date. Pricing works at day granularity only;
// time-of-day never enters the day count.
type Date struct {
	Year  int
	Month int
	Day   int
}

// PriceBreakdown provides a detailed total for presentation.
type PriceBreakdown struct {
	Days         int
	DaysCost     int64
	DepositCents int64
	TotalCents   int64
}

// ParseDate converts a yyyy-mm-dd formatted string into a Date struct
func ParseDate(dateStr string) (Date, error) {
	parts := strings.Split(dateStr, "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("invalid date format, expected yyyy-mm-dd")
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Date{}, fmt.Errorf("invalid year: %v", err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, fmt.Errorf("invalid month: %v", err)
	}

	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, fmt.Errorf("invalid day: %v", err)
	}

	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("month must be between 1 and 12")
	}

	if day < 1 || day > 31 {
		return Date{}, fmt.Errorf("day must be between 1 and 31")
	}

	return Date{Year: year, Month: month, Day: day}, nil
}

// InclusiveDays returns the number of billable days between two dates where
// both the start and the end date count: a same-day rental bills one day.
// Fails when end precedes start.
func InclusiveDays(start, end Date) (int, error) {
	s := time.Date(start.Year, time.Month(start.Month), start.Day, 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year, time.Month(end.Month), end.Day, 0, 0, 0, 0, time.UTC)
	if e.Before(s) {
		return 0, fmt.Errorf("end date must be >= start date")
	}
	return int(e.Sub(s).Hours()/24) + 1, nil
}

// CalculateTotalPriceCents computes the rental total: inclusive day count
// times the daily rate, plus the deposit. Deterministic; callers recompute
// on every rental period change instead of caching.
func CalculateTotalPriceCents(dailyRateCents int64, startDate, endDate string, depositCents int64) (int64, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date: %v", err)
	}

	end, err := ParseDate(endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date: %v", err)
	}

	days, err := InclusiveDays(start, end)
	if err != nil {
		return 0, err
	}

	return int64(days)*dailyRateCents + depositCents, nil
}

// CalculateTotalPriceWithBreakdown returns the itemized total.
func CalculateTotalPriceWithBreakdown(dailyRateCents int64, startDate, endDate string, depositCents int64) (PriceBreakdown, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("invalid start date: %v", err)
	}

	end, err := ParseDate(endDate)
	if err != nil {
		return PriceBreakdown{}, fmt.Errorf("invalid end date: %v", err)
	}

	days, err := InclusiveDays(start, end)
	if err != nil {
		return PriceBreakdown{}, err
	}

	daysCost := int64(days) * dailyRateCents
	return PriceBreakdown{
		Days:         days,
		DaysCost:     daysCost,
		DepositCents: depositCents,
		TotalCents:   daysCost + depositCents,
	}, nil
}
