// Package timefmt holds the time layouts shared by the log formatter and the
// crash reporter.
package timefmt

import "time"

const (
	// DateTimeLayout is the process-wide date/time layout.
	DateTimeLayout = "2006.01.02 15:04:05"

	// LogTimeLayout is DateTimeLayout with millisecond precision, used as the
	// timestamp prefix of every log line.
	LogTimeLayout = "2006.01.02 15:04:05.000"

	// ReportTimeLayout is used for crash report lines. It keeps nanoseconds and
	// the zone offset so reports from different hosts can be correlated.
	ReportTimeLayout = "2006-01-02 15:04:05.000000000 -07:00"
)

// now is replaced in tests.
var now = time.Now

// LocalTime returns the current local time formatted with DateTimeLayout.
func LocalTime() string {
	return now().Local().Format(DateTimeLayout)
}

// Format formats t in local time with layout.
func Format(t time.Time, layout string) string {
	return t.Local().Format(layout)
}
