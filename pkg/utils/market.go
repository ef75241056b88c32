package utils

import "time"

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NSE regular session in minutes from midnight IST.
const (
	sessionOpenMinutes  = 9*60 + 15
	sessionCloseMinutes = 15*60 + 30
)

// IsMarketOpen reports whether the NSE regular session is open at t.
func IsMarketOpen(t time.Time) bool {
	ist := t.In(IndiaLocation)
	if ist.Weekday() == time.Saturday || ist.Weekday() == time.Sunday {
		return false
	}
	minutes := ist.Hour()*60 + ist.Minute()
	return minutes >= sessionOpenMinutes && minutes < sessionCloseMinutes
}

// NextSessionOpen returns the next regular session open at or after t.
func NextSessionOpen(t time.Time) time.Time {
	ist := t.In(IndiaLocation)
	open := time.Date(ist.Year(), ist.Month(), ist.Day(), 9, 15, 0, 0, IndiaLocation)
	if !ist.Before(open) {
		open = open.AddDate(0, 0, 1)
	}
	for open.Weekday() == time.Saturday || open.Weekday() == time.Sunday {
		open = open.AddDate(0, 0, 1)
	}
	return open
}
