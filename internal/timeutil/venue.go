package timeutil

import (
	"time"
)

// VenueTZ is the local time zone shared by the three venues (UTC-6, no DST)
var VenueTZ *time.Location

func init() {
	var err error
	VenueTZ, err = time.LoadLocation("America/Costa_Rica")
	if err != nil {
		// Fallback: create fixed zone if tzdata not available
		VenueTZ = time.FixedZone("CST", -6*60*60) // UTC-6
	}
}

// Now returns the current time in venue-local time
func Now() time.Time {
	return time.Now().In(VenueTZ)
}

// ToVenue converts any time to venue-local time
func ToVenue(t time.Time) time.Time {
	return t.In(VenueTZ)
}

// Today returns today's date as an ISO yyyy-mm-dd string in venue-local time.
// Price-list validity windows are compared against this value.
func Today() string {
	return Now().Format(DateLayout)
}

// StartOfDay returns the start of day (00:00:00) in venue-local time
func StartOfDay(t time.Time) time.Time {
	lt := t.In(VenueTZ)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, VenueTZ)
}

// EndOfDay returns the end of day (23:59:59) in venue-local time
func EndOfDay(t time.Time) time.Time {
	lt := t.In(VenueTZ)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, 999999999, VenueTZ)
}

// Common layouts
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
