package model

import "time"

// UserSettings holds the per-weekday capacity ceiling in hours. There
// is exactly one settings row per user ("me").
type UserSettings struct {
	ID       int     `json:"id"`
	HoursMon float64 `json:"hours_mon"`
	HoursTue float64 `json:"hours_tue"`
	HoursWed float64 `json:"hours_wed"`
	HoursThu float64 `json:"hours_thu"`
	HoursFri float64 `json:"hours_fri"`
	HoursSat float64 `json:"hours_sat"`
	HoursSun float64 `json:"hours_sun"`
}

// HoursFor returns the capacity ceiling for the given weekday.
func (s UserSettings) HoursFor(wd time.Weekday) float64 {
	switch wd {
	case time.Monday:
		return s.HoursMon
	case time.Tuesday:
		return s.HoursTue
	case time.Wednesday:
		return s.HoursWed
	case time.Thursday:
		return s.HoursThu
	case time.Friday:
		return s.HoursFri
	case time.Saturday:
		return s.HoursSat
	default:
		return s.HoursSun
	}
}

// SetHoursFor updates the ceiling for the given weekday.
func (s *UserSettings) SetHoursFor(wd time.Weekday, hours float64) {
	if hours < 0 {
		hours = 0
	}
	switch wd {
	case time.Monday:
		s.HoursMon = hours
	case time.Tuesday:
		s.HoursTue = hours
	case time.Wednesday:
		s.HoursWed = hours
	case time.Thursday:
		s.HoursThu = hours
	case time.Friday:
		s.HoursFri = hours
	case time.Saturday:
		s.HoursSat = hours
	default:
		s.HoursSun = hours
	}
}
