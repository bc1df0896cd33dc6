package attendance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of the work date key.
const DateLayout = "2006-01-02"

type DayStatus string

const (
	StatusPresent DayStatus = "PRESENT"
	StatusOnLeave DayStatus = "ON_LEAVE"
	StatusAbsent  DayStatus = "ABSENT"
)

func (s DayStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusOnLeave, StatusAbsent:
		return true
	}
	return false
}

type Location struct {
	Address     string     `json:"address"`
	Coordinates [2]float64 `json:"coordinates"` // [longitude, latitude]
}

// SessionEvent is one accepted check-in or check-out. Never mutated after it
// is appended to a day.
type SessionEvent struct {
	Time         time.Time        `json:"time"`
	ImageURL     string           `json:"image_url"`
	Location     Location         `json:"location"`
	DepartmentID *string          `json:"department_id,omitempty"`
	HourlyRate   *decimal.Decimal `json:"hourly_rate,omitempty"`
}

// LegacyMirror holds the single-session columns written by old clients.
// Only read as a fallback when the event arrays are empty.
type LegacyMirror struct {
	CheckIn  *SessionEvent
	CheckOut *SessionEvent
}

// AttendanceDay is the ledger record of one employee on one work date.
type AttendanceDay struct {
	ID         string
	EmployeeID string
	WorkDate   string
	CheckIns   []SessionEvent
	CheckOuts  []SessionEvent
	Legacy     LegacyMirror
	Status     DayStatus
	TotalHours string
	Overtime   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasOpenSession reports whether the last check-in has no check-out yet.
func (d *AttendanceDay) HasOpenSession() bool {
	return len(d.CheckIns) > len(d.CheckOuts)
}

// AdoptLegacy moves the single-slot legacy fields into the event arrays of a
// day that has no events yet, so old records read and extend like new ones.
// A legacy check-out without a legacy check-in is ignored.
func (d *AttendanceDay) AdoptLegacy() {
	if len(d.CheckIns) > 0 || len(d.CheckOuts) > 0 || d.Legacy.CheckIn == nil {
		return
	}
	d.CheckIns = []SessionEvent{*d.Legacy.CheckIn}
	if d.Legacy.CheckOut != nil {
		d.CheckOuts = []SessionEvent{*d.Legacy.CheckOut}
	}
}

// BalancedCounts reports whether the alternation invariant holds:
// len(checkOuts) <= len(checkIns) <= len(checkOuts)+1.
func (d *AttendanceDay) BalancedCounts() bool {
	return len(d.CheckOuts) <= len(d.CheckIns) && len(d.CheckIns) <= len(d.CheckOuts)+1
}

// FirstCheckIn is the earliest accepted check-in, falling back to the legacy
// column for records that predate the event arrays.
func (d *AttendanceDay) FirstCheckIn() *SessionEvent {
	if len(d.CheckIns) > 0 {
		ev := d.CheckIns[0]
		return &ev
	}
	return d.Legacy.CheckIn
}

// LastCheckOut is the most recently accepted check-out, with the same legacy
// fallback as FirstCheckIn.
func (d *AttendanceDay) LastCheckOut() *SessionEvent {
	if n := len(d.CheckOuts); n > 0 {
		ev := d.CheckOuts[n-1]
		return &ev
	}
	return d.Legacy.CheckOut
}

// SortedCheckIns returns a copy of the check-ins ordered by Time.
func (d *AttendanceDay) SortedCheckIns() []SessionEvent {
	return sortedEvents(d.CheckIns)
}

// SortedCheckOuts returns a copy of the check-outs ordered by Time.
func (d *AttendanceDay) SortedCheckOuts() []SessionEvent {
	return sortedEvents(d.CheckOuts)
}

func sortedEvents(events []SessionEvent) []SessionEvent {
	out := make([]SessionEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time.Before(out[j].Time)
	})
	return out
}

// Session is a check-in paired with its check-out, if any.
type Session struct {
	Index    int
	CheckIn  SessionEvent
	CheckOut *SessionEvent
}

// PairSessions sorts both lists by time independently and pairs the i-th
// check-in with the i-th check-out. Extra check-ins become open sessions;
// extra check-outs are dropped.
func PairSessions(checkIns, checkOuts []SessionEvent) []Session {
	ins := sortedEvents(checkIns)
	outs := sortedEvents(checkOuts)

	sessions := make([]Session, 0, len(ins))
	for i, in := range ins {
		s := Session{Index: i + 1, CheckIn: in}
		if i < len(outs) {
			out := outs[i]
			s.CheckOut = &out
		}
		sessions = append(sessions, s)
	}
	return sessions
}
