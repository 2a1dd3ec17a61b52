package attendance

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLeave   Status = "leave"
)

const DateLayout = "2006-01-02"

// Date is a calendar day with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Key identifies the single attendance record a user may have on a day.
type Key struct {
	UserID string
	Date   Date
}

// String is the canonical record id, {userId}-{YYYY-MM-DD}.
func (k Key) String() string {
	return k.UserID + "-" + k.Date.String()
}

type Attendance struct {
	ID       string
	UserID   string
	Date     Date
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   Status
	Note     *string
	Version  int
}

func (a Attendance) Key() Key {
	return Key{UserID: a.UserID, Date: a.Date}
}

// State is where a (user, day) pair sits in NoRecord -> CheckedIn -> CheckedOut.
type State int

const (
	StateNoRecord State = iota
	StateCheckedIn
	StateCheckedOut
)

func (s State) String() string {
	switch s {
	case StateCheckedIn:
		return "checked_in"
	case StateCheckedOut:
		return "checked_out"
	default:
		return "no_record"
	}
}

// StateOf derives the state of a stored record. A record without a check-in
// counts as NoRecord: check-in is still allowed on it.
func StateOf(a *Attendance) State {
	switch {
	case a == nil || a.CheckIn == nil:
		return StateNoRecord
	case a.CheckOut == nil:
		return StateCheckedIn
	default:
		return StateCheckedOut
	}
}
