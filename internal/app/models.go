package app

import (
	"fmt"
	"time"
)

// Services offered on the public booking form.
var Services = []string{"web-design", "seo-consulting", "custom-software"}

func KnownService(s string) bool {
	for _, svc := range Services {
		if s == svc {
			return true
		}
	}
	return false
}

// Booking is a confirmed appointment occupying one slot. Records are
// immutable once created; admins may only delete them.
type Booking struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Time      string    `json:"time"` // zero-padded 12-hour clock, e.g. "09:30 AM"
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// BlockedTime is a slot the operator has closed for booking, independent
// of any existing appointment.
type BlockedTime struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Time string `json:"time"`
}

// DecodeError reports a stored record that does not match the expected
// shape. Such records are skipped on read instead of trusted at the point
// of use.
type DecodeError struct {
	Collection string
	ID         string
	Field      string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s record %s: missing or malformed field %q", e.Collection, e.ID, e.Field)
}
