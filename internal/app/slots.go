package app

import (
	"strings"
	"time"
)

const (
	openHour    = 9
	closeHour   = 17 // exclusive
	slotMinutes = 30

	timeLayout = "03:04 PM" // canonical stored form, zero-padded
	dateLayout = "2006-01-02"
)

// TimeSlots returns the bookable times for any business day: every 30
// minutes from 09:00 inclusive to 17:00 exclusive, 16 slots in all.
// The grid is date-independent and ordered by time of day.
func TimeSlots() []string {
	var times []string
	t := time.Date(1, 1, 1, openHour, 0, 0, 0, time.UTC)
	end := time.Date(1, 1, 1, closeHour, 0, 0, 0, time.UTC)
	for ; t.Before(end); t = t.Add(slotMinutes * time.Minute) {
		times = append(times, t.Format(timeLayout))
	}
	return times
}

var slotIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, t := range TimeSlots() {
		idx[t] = i
	}
	return idx
}()

func onGrid(normalized string) bool {
	_, ok := slotIndex[normalized]
	return ok
}

// IsWeekday reports whether a date qualifies for booking at all.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// NormalizeTime canonicalizes a 12-hour clock string so that "9:00 AM"
// and "09:00 AM" compare equal.
func NormalizeTime(s string) (string, error) {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return t.Format(timeLayout), nil
}

func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// occupiedTimes collects the normalized times already taken on date by a
// booking or a blocked slot. A stored time that does not parse is skipped
// with a warning: a malformed record must not disable unrelated slots or
// abort the check.
func (a *App) occupiedTimes(date string, bookings []Booking, blocked []BlockedTime) map[string]struct{} {
	taken := make(map[string]struct{})
	for _, b := range bookings {
		if b.Date != date {
			continue
		}
		norm, err := NormalizeTime(b.Time)
		if err != nil {
			a.Log.Warn("skipping booking with malformed time", "id", b.ID, "time", b.Time)
			continue
		}
		taken[norm] = struct{}{}
	}
	for _, bt := range blocked {
		if bt.Date != date {
			continue
		}
		norm, err := NormalizeTime(bt.Time)
		if err != nil {
			a.Log.Warn("skipping blocked time with malformed time", "id", bt.ID, "time", bt.Time)
			continue
		}
		taken[norm] = struct{}{}
	}
	return taken
}

// IsSlotFree reports whether the (date, time) pair matches neither an
// existing booking nor a blocked time, under normalized comparison.
func (a *App) IsSlotFree(date, timeStr string, bookings []Booking, blocked []BlockedTime) bool {
	norm, err := NormalizeTime(timeStr)
	if err != nil {
		return false
	}
	_, taken := a.occupiedTimes(date, bookings, blocked)[norm]
	return !taken
}

// AvailableTimes returns the grid times still bookable on date: the date
// must be today or later and a weekday, and each time must be unoccupied.
func (a *App) AvailableTimes(date string, bookings []Booking, blocked []BlockedTime, now time.Time) []string {
	d, err := ParseDate(date)
	if err != nil {
		return nil
	}
	if d.Before(startOfDay(now)) || !IsWeekday(d) {
		return nil
	}
	canonical := d.Format(dateLayout)
	taken := a.occupiedTimes(canonical, bookings, blocked)

	var free []string
	for _, t := range TimeSlots() {
		if _, ok := taken[t]; !ok {
			free = append(free, t)
		}
	}
	return free
}
