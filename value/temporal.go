package value

import (
	"fmt"
	"time"
)

const (
	nanosPerMicro  = 1000
	microsPerSec   = 1_000_000
	microsPerMin   = 60 * microsPerSec
	microsPerHour  = 60 * microsPerMin
	maxNanosecond  = 999_999_999
	maxClockHour   = 24
	maxClockMinute = 59
	maxClockSecond = 59
)

// Date is a calendar date taken verbatim from the server, without a zone.
// Year follows astronomical numbering (0 is 1 BC).
type Date struct {
	Year  int32
	Month uint8
	Day   uint8
}

// Time is a wall-clock time of day without a zone.
type Time struct {
	Hour       uint8
	Minute     uint8
	Second     uint8
	Nanosecond uint32
}

// Datetime is a calendar date and wall-clock time without a zone.
type Datetime struct {
	Year       int32
	Month      uint8
	Day        uint8
	Hour       uint8
	Minute     uint8
	Second     uint8
	Nanosecond uint32
}

func NewDate(year int32, month, day uint8) Date {
	return Date{Year: year, Month: month, Day: day}
}

func NewTime(hour, minute, second uint8, nanosecond uint32) Time {
	return Time{Hour: hour, Minute: minute, Second: second, Nanosecond: nanosecond}
}

func NewDatetime(year int32, month, day, hour, minute, second uint8, nanosecond uint32) Datetime {
	return Datetime{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Nanosecond: nanosecond,
	}
}

// DateOf returns the calendar components of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: int32(y), Month: uint8(m), Day: uint8(d)}
}

// DatetimeOf returns the calendar and clock components of t in t's own location.
func DatetimeOf(t time.Time) Datetime {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return Datetime{
		Year: int32(y), Month: uint8(mo), Day: uint8(d),
		Hour: uint8(h), Minute: uint8(mi), Second: uint8(s),
		Nanosecond: uint32(t.Nanosecond()),
	}
}

// TimeOfMicroseconds splits microseconds since midnight into clock components.
// 24:00:00 is representable because the server accepts it.
func TimeOfMicroseconds(us int64) (Time, error) {
	if us < 0 || us > maxClockHour*microsPerHour {
		return Time{}, fmt.Errorf("time of day out of range: %d microseconds", us)
	}
	return Time{
		Hour:       uint8(us / microsPerHour),
		Minute:     uint8(us % microsPerHour / microsPerMin),
		Second:     uint8(us % microsPerMin / microsPerSec),
		Nanosecond: uint32(us%microsPerSec) * nanosPerMicro,
	}, nil
}

// Validate checks that the components name a real calendar date.
func (d Date) Validate() error {
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("month %d out of range 1-12", d.Month)
	}
	if d.Day < 1 || int(d.Day) > daysIn(d.Year, d.Month) {
		return fmt.Errorf("day %d out of range for %04d-%02d", d.Day, d.Year, d.Month)
	}
	return nil
}

// Time returns midnight UTC of d. The zone is a carrier only.
func (d Date) Time() time.Time {
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Validate checks clock component ranges. Hour 24 is allowed only as 24:00:00.
func (t Time) Validate() error {
	if t.Hour > maxClockHour || t.Minute > maxClockMinute || t.Second > maxClockSecond {
		return fmt.Errorf("clock %02d:%02d:%02d out of range", t.Hour, t.Minute, t.Second)
	}
	if t.Nanosecond > maxNanosecond {
		return fmt.Errorf("nanosecond %d out of range", t.Nanosecond)
	}
	if t.Hour == maxClockHour && (t.Minute != 0 || t.Second != 0 || t.Nanosecond != 0) {
		return fmt.Errorf("clock %s past 24:00:00", t)
	}
	return nil
}

// MicrosecondAligned reports whether the fractional part is a whole number of
// microseconds, the resolution of the server's time types.
func (t Time) MicrosecondAligned() bool { return t.Nanosecond%nanosPerMicro == 0 }

// Microseconds returns the time of day in microseconds, truncating any
// sub-microsecond remainder. Check MicrosecondAligned first when that matters.
func (t Time) Microseconds() int64 {
	return int64(t.Hour)*microsPerHour +
		int64(t.Minute)*microsPerMin +
		int64(t.Second)*microsPerSec +
		int64(t.Nanosecond)/nanosPerMicro
}

func (t Time) String() string {
	return formatClock(t.Hour, t.Minute, t.Second, t.Nanosecond)
}

// Validate checks both the calendar and the clock components.
func (dt Datetime) Validate() error {
	if err := dt.Date().Validate(); err != nil {
		return err
	}
	if err := dt.Clock().Validate(); err != nil {
		return err
	}
	if dt.Hour == maxClockHour {
		return fmt.Errorf("hour 24 not allowed in a datetime")
	}
	return nil
}

// Date returns the calendar part.
func (dt Datetime) Date() Date {
	return Date{Year: dt.Year, Month: dt.Month, Day: dt.Day}
}

// Clock returns the time-of-day part.
func (dt Datetime) Clock() Time {
	return Time{Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second, Nanosecond: dt.Nanosecond}
}

// MicrosecondAligned reports whether the fractional part is a whole number of microseconds.
func (dt Datetime) MicrosecondAligned() bool { return dt.Clock().MicrosecondAligned() }

// Time returns the components as a UTC instant. The zone is a carrier only.
func (dt Datetime) Time() time.Time {
	return time.Date(int(dt.Year), time.Month(dt.Month), int(dt.Day),
		int(dt.Hour), int(dt.Minute), int(dt.Second), int(dt.Nanosecond), time.UTC)
}

func (dt Datetime) String() string {
	return dt.Date().String() + " " + dt.Clock().String()
}

func formatClock(h, m, s uint8, ns uint32) string {
	base := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if ns == 0 {
		return base
	}
	frac := fmt.Sprintf("%09d", ns)
	for frac[len(frac)-1] == '0' {
		frac = frac[:len(frac)-1]
	}
	return base + "." + frac
}

func daysIn(year int32, month uint8) int {
	// day 0 of the next month is the last day of this one
	return time.Date(int(year), time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
