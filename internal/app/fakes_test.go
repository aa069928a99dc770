package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// memStore mimics the Postgres store, including the unique (date, time)
// guard on each collection.
type memStore struct {
	mu       sync.Mutex
	bookings []Booking
	blocked  []BlockedTime
	nextID   int

	insertErr error
	listErr   error
}

func (s *memStore) id() string {
	s.nextID++
	return fmt.Sprintf("id-%d", s.nextID)
}

func (s *memStore) InsertBooking(_ context.Context, b *Booking) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return "", s.insertErr
	}
	for _, existing := range s.bookings {
		if existing.Date == b.Date && existing.Time == b.Time {
			return "", ErrSlotTaken
		}
	}
	b.ID = s.id()
	s.bookings = append(s.bookings, *b)
	return b.ID, nil
}

func (s *memStore) ListBookings(_ context.Context) ([]Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Booking, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

func (s *memStore) DeleteBooking(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memStore) InsertBlockedTime(_ context.Context, bt *BlockedTime) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.insertErr != nil {
		return "", s.insertErr
	}
	for _, existing := range s.blocked {
		if existing.Date == bt.Date && existing.Time == bt.Time {
			return "", ErrSlotTaken
		}
	}
	bt.ID = s.id()
	s.blocked = append(s.blocked, *bt)
	return bt.ID, nil
}

func (s *memStore) ListBlockedTimes(_ context.Context) ([]BlockedTime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]BlockedTime, len(s.blocked))
	copy(out, s.blocked)
	return out, nil
}

func (s *memStore) DeleteBlockedTime(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, bt := range s.blocked {
		if bt.ID == id {
			s.blocked = append(s.blocked[:i], s.blocked[i+1:]...)
			return nil
		}
	}
	return nil
}

// fakeNotifier records template ids and signals each send on done.
type fakeNotifier struct {
	mu    sync.Mutex
	sends []string
	done  chan string
	err   error
}

func (n *fakeNotifier) Send(_ context.Context, templateID string, _ map[string]string) error {
	n.mu.Lock()
	n.sends = append(n.sends, templateID)
	n.mu.Unlock()
	if n.done != nil {
		n.done <- templateID
	}
	return n.err
}

func newTestApp(store Store) *App {
	return &App{
		Store:            store,
		Log:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		OperatorTemplate: "tpl_operator",
		CustomerTemplate: "tpl_customer",
	}
}

// nextMonday returns the first Monday strictly after now, as YYYY-MM-DD.
func nextMonday(now time.Time) string {
	d := now.AddDate(0, 0, 1)
	for d.Weekday() != time.Monday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(dateLayout)
}

// nextSaturday returns the first Saturday strictly after now.
func nextSaturday(now time.Time) string {
	d := now.AddDate(0, 0, 1)
	for d.Weekday() != time.Saturday {
		d = d.AddDate(0, 0, 1)
	}
	return d.Format(dateLayout)
}
