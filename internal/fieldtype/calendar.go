package fieldtype

import (
	"fmt"
	"time"
)

// Date is a calendar date without time-of-day or zone.
// It is the in-memory representation for the date primitive; the
// store-native form is the text "2006-01-02".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time without a date or zone.
// It is the in-memory representation for the time primitive; the
// store-native form is the text "15:04:05.000000".
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
}

const (
	dateLayout         = "2006-01-02"
	timeLayout         = "15:04:05.000000"
	timeLayoutNoMicros = "15:04:05"
	dateTimeLayout     = "2006-01-02 15:04:05.000000"
)

// dumpDate converts the calendar representation to the store-native text.
// Formatting cannot fail; validity is assumed pre-checked.
func dumpDate(d Date) string {
	return d.String()
}

func dumpTime(t TimeOfDay) string {
	return t.String()
}

// dumpDateTime normalizes to UTC before formatting so round-trips are
// zone-independent.
func dumpDateTime(t time.Time) string {
	return t.UTC().Format(dateTimeLayout)
}

// loadDate parses a store-native date. A malformed value is an error:
// data coming back from the store in the wrong shape indicates corruption
// or schema drift and must fail loudly.
func loadDate(value any) (Date, error) {
	s, ok := textual(value)
	if !ok {
		return Date{}, fmt.Errorf("not a textual date: %T", value)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

func loadTime(value any) (TimeOfDay, error) {
	s, ok := textual(value)
	if !ok {
		return TimeOfDay{}, fmt.Errorf("not a textual time: %T", value)
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, err = time.Parse(timeLayoutNoMicros, s)
	}
	if err != nil {
		return TimeOfDay{}, err
	}
	return TimeOfDay{
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Microsecond: t.Nanosecond() / 1000,
	}, nil
}

func loadDateTime(value any) (time.Time, error) {
	// Some drivers hand back time.Time directly.
	if t, ok := value.(time.Time); ok {
		return t.UTC(), nil
	}
	s, ok := textual(value)
	if !ok {
		return time.Time{}, fmt.Errorf("not a textual datetime: %T", value)
	}
	t, err := time.Parse(dateTimeLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// textual extracts the byte-sequence shape shared by string and []byte.
func textual(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}
