package sheetfdw

import (
	"math"
	"time"
)

const secondsPerDay = 86400

// Serial day numbers of 0001-01-01 and 9999-12-31.
const (
	minSerial = -693593
	maxSerial = 2958465
)

// SerialEpoch is day 0 of the spreadsheet serial date system.
var SerialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateToSerial encodes t as a serial day number: whole days since
// SerialEpoch plus the wall-clock time of day as a fraction of 86400s.
// The wall clock of t is used as-is, whatever its location.
func DateToSerial(t time.Time) float64 {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	days := (day.Unix() - SerialEpoch.Unix()) / secondsPerDay

	h, mi, s := t.Clock()
	seconds := h*3600 + mi*60 + s
	return float64(days) + float64(seconds)/secondsPerDay
}

// serialToTime decodes a serial day number into a UTC time. The clock is
// decoded by truncation at each stage, so it never rounds up into the next
// minute or day. Date columns keep only the calendar date of the result.
func serialToTime(serial float64) time.Time {
	days := math.Floor(serial)
	h, m, s := fractionToClock(serial - days)
	return SerialEpoch.AddDate(0, 0, int(days)).
		Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

// SerialToDate decodes only the calendar date of a serial day number.
// The serial must satisfy ValidSerial.
func SerialToDate(serial float64) time.Time {
	t := serialToTime(serial)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fractionToClock(frac float64) (h, m, s int) {
	hours, r := math.Modf(frac * 24)
	minutes, r := math.Modf(r * 60)
	seconds, _ := math.Modf(r * 60)
	return int(hours), int(minutes), int(seconds)
}

// ValidSerial reports whether serial is finite and within 0001-01-01
// through 9999-12-31.
func ValidSerial(serial float64) bool {
	if math.IsNaN(serial) || math.IsInf(serial, 0) {
		return false
	}
	return serial >= minSerial && serial < maxSerial+1
}
