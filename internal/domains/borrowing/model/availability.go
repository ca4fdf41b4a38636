package model

import (
	"time"

	"github.com/google/uuid"
)

// DateRange is a closed range of calendar days. A nil End means the range
// never ends.
type DateRange struct {
	Start time.Time
	End   *time.Time
}

// Valid reports whether End, when set, is not before Start
func (r DateRange) Valid() bool {
	return r.End == nil || !r.End.Before(r.Start)
}

// Contains reports Start <= day <= End
func (r DateRange) Contains(day time.Time) bool {
	if day.Before(r.Start) {
		return false
	}
	return r.End == nil || !day.After(*r.End)
}

// OverlapsInclusive: a.Start <= b.End && b.Start <= a.End, open ends are +inf.
// Used when creating or editing a borrowing; touching ranges conflict.
func OverlapsInclusive(a, b DateRange) bool {
	if b.End != nil && a.Start.After(*b.End) {
		return false
	}
	if a.End != nil && b.Start.After(*a.End) {
		return false
	}
	return true
}

// FirstConflict returns the first existing non-returned borrowing, other than
// excludeID, whose range overlaps candidate inclusively
func FirstConflict(candidate DateRange, existing []*Borrowing, excludeID uuid.UUID) *Borrowing {
	for _, b := range existing {
		if b.ID == excludeID || b.IsReturned() {
			continue
		}
		if OverlapsInclusive(candidate, b.Range()) {
			return b
		}
	}
	return nil
}

// Window is a search window from listing filters. Nil bounds are unbounded.
type Window struct {
	From *time.Time
	To   *time.Time
}

func (w Window) IsZero() bool {
	return w.From == nil && w.To == nil
}

// BlockedBy is the exclusive listing rule: r.Start < To && r.End > From.
// Ranges that only touch the window edge do not block it.
func (w Window) BlockedBy(r DateRange) bool {
	if w.To != nil && !r.Start.Before(*w.To) {
		return false
	}
	if w.From != nil && r.End != nil && !r.End.After(*w.From) {
		return false
	}
	return true
}
