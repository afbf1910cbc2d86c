// Package calendar derives UTC calendar strings from nanosecond Unix timestamps
// using proleptic Gregorian arithmetic, without the time package.
package calendar

import "fmt"

const (
	nanosPerSecond = 1_000_000_000
	secondsPerDay  = 86_400
	epochYear      = 1970
)

var monthLengths = [12]uint64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// civil is a broken-down UTC timestamp
type civil struct {
	year, month, day     uint64
	hour, minute, second uint64
}

// IsLeapYear applies the Gregorian leap rule
func IsLeapYear(year uint64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysInYear(year uint64) uint64 {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

func daysInMonth(year uint64, month int) uint64 {
	if month == 1 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

func decompose(timestampNs uint64) civil {
	seconds := timestampNs / nanosPerSecond
	days := seconds / secondsPerDay
	secondOfDay := seconds % secondsPerDay

	year := uint64(epochYear)
	for days >= daysInYear(year) {
		days -= daysInYear(year)
		year++
	}

	month := 0
	for month < 11 && days >= daysInMonth(year, month) {
		days -= daysInMonth(year, month)
		month++
	}

	return civil{
		year:   year,
		month:  uint64(month) + 1,
		day:    days + 1,
		hour:   secondOfDay / 3600,
		minute: (secondOfDay % 3600) / 60,
		second: secondOfDay % 60,
	}
}

// ToCalendarString formats the timestamp as "YYYY-MM-DD HH:MM:SS" in UTC
func ToCalendarString(timestampNs uint64) string {
	c := decompose(timestampNs)
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", c.year, c.month, c.day, c.hour, c.minute, c.second)
}

// ToYearMonth returns the "YYYY-MM" bucket the timestamp falls into
func ToYearMonth(timestampNs uint64) string {
	c := decompose(timestampNs)
	return fmt.Sprintf("%04d-%02d", c.year, c.month)
}
