package course

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Day is a weekday of the Iranian academic week. Saturday is the first day.
type Day int

const (
	Saturday Day = iota
	Sunday
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days lists every weekday in week order.
var Days = []Day{Saturday, Sunday, Monday, Tuesday, Wednesday, Thursday, Friday}

var persianDayNames = [...]string{
	"شنبه",
	"یکشنبه",
	"دوشنبه",
	"سه\u200cشنبه",
	"چهارشنبه",
	"پنج\u200cشنبه",
	"جمعه",
}

var englishDayNames = [...]string{
	"Saturday", "Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday",
}

// String returns the Persian name, which is also the on-disk form.
func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return persianDayNames[d]
}

// English returns the English weekday name.
func (d Day) English() string {
	if !d.Valid() {
		return d.String()
	}
	return englishDayNames[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Day) Valid() bool {
	return d >= Saturday && d <= Friday
}

// dayKey reduces a day name to a lookup key: Persian letters normalised,
// spaces and zero-width non-joiners removed, lower-cased.
func dayKey(s string) string {
	s = NormalizePersian(s)
	s = strings.NewReplacer(" ", "", "\u200c", "", "\t", "").Replace(s)
	return strings.ToLower(strings.TrimSpace(s))
}

var dayLookup = func() map[string]Day {
	m := make(map[string]Day)
	for i, name := range persianDayNames {
		m[dayKey(name)] = Day(i)
	}
	for i, name := range englishDayNames {
		m[strings.ToLower(name)] = Day(i)
		m[strings.ToLower(name[:3])] = Day(i)
	}
	return m
}()

// ParseDay accepts Persian day names (with or without ZWNJ, Arabic or
// Persian letters) and English names or three-letter abbreviations.
func ParseDay(s string) (Day, error) {
	if d, ok := dayLookup[dayKey(s)]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// MarshalJSON writes the Persian day name.
func (d Day) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts any name ParseDay understands.
func (d *Day) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
