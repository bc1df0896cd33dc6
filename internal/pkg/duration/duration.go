// Package duration converts timestamp pairs into the "Hh Mm" text used by
// attendance records and back into whole minutes.
package duration

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Empty is returned when an interval cannot be computed.
const Empty = "--"

// StandardHours is the default work day length used for overtime.
const StandardHours = 8

var (
	hoursRegex   = regexp.MustCompile(`(\d+)\s*h`)
	minutesRegex = regexp.MustCompile(`(\d+)\s*m`)
)

// ElapsedMinutes returns the whole minutes between start and end, floored.
// Negative intervals yield zero.
func ElapsedMinutes(start, end time.Time) int {
	diff := end.Sub(start)
	if diff <= 0 {
		return 0
	}
	return int(diff / time.Minute)
}

// Between formats the elapsed time from start to end. Either endpoint being
// nil yields Empty.
func Between(start, end *time.Time) string {
	if start == nil || end == nil {
		return Empty
	}
	return FormatMinutes(ElapsedMinutes(*start, *end))
}

// Overtime formats the time worked beyond standardHours, clamped at zero.
func Overtime(start, end *time.Time, standardHours float64) string {
	if start == nil || end == nil {
		return Empty
	}
	return FormatMinutes(OvertimeMinutes(*start, *end, standardHours))
}

// OvertimeMinutes returns the whole minutes beyond standardHours.
func OvertimeMinutes(start, end time.Time, standardHours float64) int {
	threshold := time.Duration(standardHours * float64(time.Hour))
	extra := end.Sub(start) - threshold
	if extra <= 0 {
		return 0
	}
	return int(extra / time.Minute)
}

// ParseMinutes reads "Hh Mm" text. A missing component counts as zero and
// malformed input, including Empty, yields zero.
func ParseMinutes(s string) int {
	total := 0
	if m := hoursRegex.FindStringSubmatch(s); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += h * 60
		}
	}
	if m := minutesRegex.FindStringSubmatch(s); m != nil {
		if mins, err := strconv.Atoi(m[1]); err == nil {
			total += mins
		}
	}
	return total
}

// FormatMinutes is the inverse of ParseMinutes. Non-positive input formats
// as "0h 0m".
func FormatMinutes(n int) string {
	if n <= 0 {
		return "0h 0m"
	}
	return fmt.Sprintf("%dh %dm", n/60, n%60)
}
