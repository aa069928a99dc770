package app

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// BookingRequest is a raw public form submission.
type BookingRequest struct {
	Service string `json:"service"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Notes   string `json:"notes"`
}

// FieldErrors maps form field names to user-facing validation messages.
type FieldErrors map[string]string

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\d+$`)
)

// ValidateBooking collects every violation at once rather than failing on
// the first, so the whole form can be corrected in one pass.
func (a *App) ValidateBooking(req *BookingRequest, bookings []Booking, blocked []BlockedTime, now time.Time) FieldErrors {
	errs := FieldErrors{}

	if req.Service == "" {
		errs["service"] = "Please select a service."
	} else if !KnownService(req.Service) {
		errs["service"] = "Please select a valid service."
	}

	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required."
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs["email"] = "Email is required."
	} else if !emailPattern.MatchString(email) {
		errs["email"] = "Enter a valid email."
	}

	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		errs["phone"] = "Phone number should only contain digits."
	}

	var date time.Time
	if req.Date == "" {
		errs["date"] = "Please select a date."
	} else if d, err := ParseDate(req.Date); err != nil {
		errs["date"] = "Enter a valid date."
	} else if d.Before(startOfDay(now)) {
		errs["date"] = "Date cannot be in the past."
	} else if !IsWeekday(d) {
		errs["date"] = "Appointments are available on weekdays only."
	} else {
		date = d
	}

	if req.Time == "" {
		errs["time"] = "Please select a time."
	} else if norm, err := NormalizeTime(req.Time); err != nil || !onGrid(norm) {
		errs["time"] = "Please select a valid time."
	} else if !date.IsZero() && !a.IsSlotFree(date.Format(dateLayout), norm, bookings, blocked) {
		errs["time"] = "This time slot is no longer available."
	}

	return errs
}

// SubmitBooking runs a public submission end to end: re-check availability
// against the freshest snapshot, persist, then dispatch notifications.
// On a store failure the request is returned to the caller unchanged so the
// form can be resubmitted without re-entering anything.
func (a *App) SubmitBooking(ctx context.Context, req *BookingRequest) (*Booking, FieldErrors, error) {
	now := time.Now()

	bookings, err := a.Store.ListBookings(ctx)
	if err != nil {
		a.Log.Warn("bookings read failed, validating against empty snapshot", "err", err)
		bookings = nil
	}
	blocked, err := a.Store.ListBlockedTimes(ctx)
	if err != nil {
		a.Log.Warn("blocked times read failed, validating against empty snapshot", "err", err)
		blocked = nil
	}

	if errs := a.ValidateBooking(req, bookings, blocked, now); len(errs) > 0 {
		return nil, errs, nil
	}

	normTime, _ := NormalizeTime(req.Time)
	d, _ := ParseDate(req.Date)
	b := &Booking{
		Service:   req.Service,
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Phone:     req.Phone,
		Date:      d.Format(dateLayout),
		Time:      normTime,
		Notes:     req.Notes,
		CreatedAt: now.UTC(),
	}

	if _, err := a.Store.InsertBooking(ctx, b); err != nil {
		if errors.Is(err, ErrSlotTaken) {
			// Lost the race to a concurrent writer. First writer wins;
			// report it like any slot taken before the form loaded.
			return nil, FieldErrors{"time": "This time slot is no longer available."}, nil
		}
		return nil, nil, err
	}

	a.Log.Info("booking created", "id", b.ID, "service", b.Service, "date", b.Date, "time", b.Time)
	a.notifyBooked(b)
	return b, nil, nil
}

// notifyBooked dispatches the post-persist side effects: an operator
// notification, a customer confirmation and the calendar mirror. All are
// fire-and-forget: a failure is logged and never rolls back the booking.
func (a *App) notifyBooked(b *Booking) {
	if a.Notifier != nil {
		params := map[string]string{
			"service": b.Service,
			"name":    b.Name,
			"email":   b.Email,
			"phone":   b.Phone,
			"date":    b.Date,
			"time":    b.Time,
			"notes":   b.Notes,
		}
		go a.send(a.OperatorTemplate, params)
		go a.send(a.CustomerTemplate, params)
	}

	if a.Calendar != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := a.Calendar.MirrorBooking(ctx, b); err != nil {
				a.Log.Warn("calendar mirror failed", "booking", b.ID, "err", err)
			}
		}()
	}
}

func (a *App) send(templateID string, params map[string]string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Notifier.Send(ctx, templateID, params); err != nil {
		a.Log.Warn("notification send failed", "template", templateID, "err", err)
	}
}
