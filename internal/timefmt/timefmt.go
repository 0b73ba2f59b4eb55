// Package timefmt parses and validates the textual date and time formats
// used by reservations: MM/DD/YYYY dates and HH:MM + meridiem times.
package timefmt

import "fmt"

// Meridiem is the AM/PM suffix of a 12-hour clock time.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// TimeOfDay is a parsed 12-hour clock time within a single day.
type TimeOfDay struct {
	Hour     int // 1-12
	Minute   int // 0-59
	Meridiem Meridiem
}

// MinutesSinceMidnight converts the time to 24-hour minutes since midnight.
// 12:00AM maps to 0, 12:00PM maps to 720.
func (t TimeOfDay) MinutesSinceMidnight() int {
	minutes := (t.Hour%12)*60 + t.Minute
	if t.Meridiem == PM {
		minutes += 12 * 60
	}
	return minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d%s", t.Hour, t.Minute, t.Meridiem)
}

// Date is a parsed calendar date.
type Date struct {
	Month int
	Day   int
	Year  int
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Month, d.Day, d.Year)
}

// Before reports whether d falls strictly before o.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// daysInMonth holds the maximum day per month. February is always 29:
// the system has never applied a leap-year rule, and stored dates rely
// on that.
var daysInMonth = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the number of days accepted for the given month, or 0
// if the month is out of range.
func DaysIn(month int) int {
	if month < 1 || month > 12 {
		return 0
	}
	return daysInMonth[month-1]
}

// ParseDate parses a date in exactly MM/DD/YYYY form with zero-padded
// fields. Trailing characters, out-of-range months and days invalid for
// the month are all rejected.
func ParseDate(s string) (Date, bool) {
	if len(s) != 10 || s[2] != '/' || s[5] != '/' {
		return Date{}, false
	}
	month, ok := parseDigits(s[0:2])
	if !ok {
		return Date{}, false
	}
	day, ok := parseDigits(s[3:5])
	if !ok {
		return Date{}, false
	}
	year, ok := parseDigits(s[6:10])
	if !ok {
		return Date{}, false
	}
	if month < 1 || month > 12 {
		return Date{}, false
	}
	if day < 1 || day > daysInMonth[month-1] {
		return Date{}, false
	}
	return Date{Month: month, Day: day, Year: year}, true
}

// ValidateDate reports whether s is a well-formed MM/DD/YYYY date.
func ValidateDate(s string) bool {
	_, ok := ParseDate(s)
	return ok
}

// ParseTime parses a time in exactly HH:MM + AM/PM form with no space,
// e.g. "12:00PM". The meridiem must already be upper case; callers
// normalize raw input before validating.
func ParseTime(s string) (TimeOfDay, bool) {
	if len(s) != 7 || s[2] != ':' {
		return TimeOfDay{}, false
	}
	hour, ok := parseDigits(s[0:2])
	if !ok {
		return TimeOfDay{}, false
	}
	minute, ok := parseDigits(s[3:5])
	if !ok {
		return TimeOfDay{}, false
	}
	suffix := Meridiem(s[5:7])
	if suffix != AM && suffix != PM {
		return TimeOfDay{}, false
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return TimeOfDay{}, false
	}
	return TimeOfDay{Hour: hour, Minute: minute, Meridiem: suffix}, true
}

// ValidateTime reports whether s is a well-formed HH:MM + AM/PM time.
func ValidateTime(s string) bool {
	_, ok := ParseTime(s)
	return ok
}

// Ordering is the result of comparing two times of day.
type Ordering int

const (
	Before Ordering = -1
	Equal  Ordering = 0
	After  Ordering = 1
)

// CompareTimes orders two times of day by minutes since midnight.
func CompareTimes(a, b TimeOfDay) Ordering {
	am, bm := a.MinutesSinceMidnight(), b.MinutesSinceMidnight()
	switch {
	case am < bm:
		return Before
	case am > bm:
		return After
	default:
		return Equal
	}
}

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. An interval ending exactly when another
// begins does not overlap.
func Overlaps(startA, endA, startB, endB TimeOfDay) bool {
	return startA.MinutesSinceMidnight() < endB.MinutesSinceMidnight() &&
		startB.MinutesSinceMidnight() < endA.MinutesSinceMidnight()
}

// parseDigits converts a fixed-width decimal field, rejecting any
// non-digit byte.
func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}
