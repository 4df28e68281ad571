package course

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Parity marks sessions that only meet on even or odd weeks.
type Parity string

const (
	EveryWeek Parity = ""
	EvenWeeks Parity = "ز"
	OddWeeks  Parity = "ف"
)

// ParseParity accepts the portal markers and the English words even, odd and all.
func ParseParity(s string) (Parity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "every", "weekly":
		return EveryWeek, nil
	case "ز", "even", "زوج":
		return EvenWeeks, nil
	case "ف", "odd", "فرد":
		return OddWeeks, nil
	}
	return EveryWeek, fmt.Errorf("%w: %q", ErrInvalidParity, s)
}

// Label is a short English description used in tables.
func (p Parity) Label() string {
	switch p {
	case EvenWeeks:
		return "even"
	case OddWeeks:
		return "odd"
	}
	return "weekly"
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Session is one weekly meeting of a course.
type Session struct {
	Day      Day    `json:"day" validate:"gte=0,lte=6"`
	Start    string `json:"start" validate:"required,clock"`
	End      string `json:"end" validate:"required,clock,endafter=Start"`
	Parity   Parity `json:"parity" validate:"parity"`
	Location string `json:"location,omitempty"`
}

// Minutes returns the start and end of the session in minutes since midnight.
func (s Session) Minutes() (start, end int, err error) {
	if start, err = ParseClock(s.Start); err != nil {
		return 0, 0, err
	}
	if end, err = ParseClock(s.End); err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, fmt.Errorf("%w: %s-%s", ErrEmptySession, s.Start, s.End)
	}
	return start, end, nil
}

// String formats the session like "دوشنبه 08:00-10:00 (ز)".
func (s Session) String() string {
	out := fmt.Sprintf("%s %s-%s", s.Day, s.Start, s.End)
	if s.Parity != EveryWeek {
		out += fmt.Sprintf(" (%s)", string(s.Parity))
	}
	return out
}

// UnmarshalJSON tolerates portal files where parity is missing or spelled out.
func (s *Session) UnmarshalJSON(data []byte) error {
	type raw struct {
		Day      Day    `json:"day"`
		Start    string `json:"start"`
		End      string `json:"end"`
		Parity   string `json:"parity"`
		Location string `json:"location"`
	}
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	p, err := ParseParity(r.Parity)
	if err != nil {
		return err
	}
	*s = Session{Day: r.Day, Start: r.Start, End: r.End, Parity: p, Location: r.Location}
	return nil
}

// ParseSession reads the compact command-line form "DAY HH:MM-HH:MM [even|odd] [@location]".
func ParseSession(s string) (Session, error) {
	var sess Session
	loc := ""
	if i := strings.Index(s, "@"); i >= 0 {
		loc = strings.TrimSpace(s[i+1:])
		s = s[:i]
	}
	fields := strings.Fields(s)
	if len(fields) < 2 || len(fields) > 3 {
		return sess, fmt.Errorf("session %q: expected DAY HH:MM-HH:MM [even|odd]", s)
	}
	day, err := ParseDay(fields[0])
	if err != nil {
		return sess, err
	}
	times := strings.Split(fields[1], "-")
	if len(times) != 2 {
		return sess, fmt.Errorf("%w: %q", ErrInvalidClock, fields[1])
	}
	parity := EveryWeek
	if len(fields) == 3 {
		if parity, err = ParseParity(fields[2]); err != nil {
			return sess, err
		}
	}
	sess = Session{Day: day, Start: times[0], End: times[1], Parity: parity, Location: loc}
	if _, _, err := sess.Minutes(); err != nil {
		return Session{}, err
	}
	return sess, nil
}
