package app

import (
	"context"
	"errors"
	"sort"
)

// timeRank orders a stored time by its grid position. Off-grid or
// malformed times sort last.
func timeRank(timeStr string) int {
	norm, err := NormalizeTime(timeStr)
	if err != nil {
		return len(slotIndex)
	}
	i, ok := slotIndex[norm]
	if !ok {
		return len(slotIndex)
	}
	return i
}

// ListBookingsSorted returns every booking ordered by date, then time of
// day, for the dashboard.
func (a *App) ListBookingsSorted(ctx context.Context) ([]Booking, error) {
	bookings, err := a.Store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		return timeRank(bookings[i].Time) < timeRank(bookings[j].Time)
	})
	return bookings, nil
}

// BlockSlot closes a (date, time) for booking. Both fields are required;
// blocking an already blocked slot reports a field error rather than
// inserting a redundant record.
func (a *App) BlockSlot(ctx context.Context, date, timeStr string) (*BlockedTime, FieldErrors, error) {
	errs := FieldErrors{}

	var canonicalDate string
	if date == "" {
		errs["date"] = "Please select a date."
	} else if d, err := ParseDate(date); err != nil {
		errs["date"] = "Enter a valid date."
	} else {
		canonicalDate = d.Format(dateLayout)
	}

	var normTime string
	if timeStr == "" {
		errs["time"] = "Please select a time."
	} else if norm, err := NormalizeTime(timeStr); err != nil || !onGrid(norm) {
		errs["time"] = "Please select a valid time."
	} else {
		normTime = norm
	}

	if len(errs) > 0 {
		return nil, errs, nil
	}

	bt := &BlockedTime{Date: canonicalDate, Time: normTime}
	if _, err := a.Store.InsertBlockedTime(ctx, bt); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			return nil, FieldErrors{"time": "This slot is already blocked."}, nil
		}
		return nil, nil, err
	}

	a.Log.Info("time slot blocked", "id", bt.ID, "date", bt.Date, "time", bt.Time)
	return bt, nil, nil
}

// DeleteBooking removes a booking by id. Unknown ids are treated as
// already deleted.
func (a *App) DeleteBooking(ctx context.Context, id string) error {
	return a.Store.DeleteBooking(ctx, id)
}

// UnblockSlot reopens a blocked slot by id, idempotently.
func (a *App) UnblockSlot(ctx context.Context, id string) error {
	return a.Store.DeleteBlockedTime(ctx, id)
}
