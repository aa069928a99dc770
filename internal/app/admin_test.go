package app

import (
	"context"
	"testing"
)

func TestListBookingsSorted(t *testing.T) {
	store := &memStore{}
	a := newTestApp(store)
	ctx := context.Background()

	seed := []Booking{
		{Service: "web-design", Name: "c", Email: "c@x.com", Date: "2026-09-08", Time: "09:00 AM"},
		{Service: "web-design", Name: "a", Email: "a@x.com", Date: "2026-09-07", Time: "02:00 PM"},
		{Service: "web-design", Name: "b", Email: "b@x.com", Date: "2026-09-07", Time: "9:30 AM"}, // unpadded
	}
	for i := range seed {
		if _, err := store.InsertBooking(ctx, &seed[i]); err != nil {
			t.Fatalf("seed insert failed: %v", err)
		}
	}

	got, err := a.ListBookingsSorted(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(got))
	}
	if got[0].Name != "b" || got[1].Name != "a" || got[2].Name != "c" {
		t.Fatalf("wrong order: %s, %s, %s", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestDeleteBooking_Idempotent(t *testing.T) {
	store := &memStore{}
	a := newTestApp(store)
	ctx := context.Background()

	b := Booking{Service: "web-design", Name: "a", Email: "a@x.com", Date: "2026-09-07", Time: "09:00 AM"}
	if _, err := store.InsertBooking(ctx, &b); err != nil {
		t.Fatalf("seed insert failed: %v", err)
	}

	if err := a.DeleteBooking(ctx, "no-such-id"); err != nil {
		t.Fatalf("deleting unknown id must be a no-op, got %v", err)
	}
	if len(store.bookings) != 1 {
		t.Fatal("unknown-id delete must not alter the collection")
	}

	if err := a.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("repeat delete must be a no-op, got %v", err)
	}
	if len(store.bookings) != 0 {
		t.Fatal("booking should be gone")
	}
}

func TestBlockSlot_RequiresDateAndTime(t *testing.T) {
	a := newTestApp(&memStore{})
	ctx := context.Background()

	_, fieldErrs, err := a.BlockSlot(ctx, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fieldErrs["date"] == "" || fieldErrs["time"] == "" {
		t.Fatalf("expected date and time errors, got %v", fieldErrs)
	}

	_, fieldErrs, err = a.BlockSlot(ctx, "2026-09-07", "")
	if err != nil || fieldErrs["time"] == "" {
		t.Fatalf("expected time error, got %v %v", err, fieldErrs)
	}
}

func TestBlockSlot_NormalizesAndDeduplicates(t *testing.T) {
	store := &memStore{}
	a := newTestApp(store)
	ctx := context.Background()

	bt, fieldErrs, err := a.BlockSlot(ctx, "2026-09-07", "9:00 AM")
	if err != nil || len(fieldErrs) != 0 {
		t.Fatalf("block failed: %v %v", err, fieldErrs)
	}
	if bt.Time != "09:00 AM" {
		t.Fatalf("expected normalized time, got %s", bt.Time)
	}

	_, fieldErrs, err = a.BlockSlot(ctx, "2026-09-07", "09:00 AM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fieldErrs["time"] == "" {
		t.Fatalf("expected duplicate block to report a field error, got %v", fieldErrs)
	}
	if len(store.blocked) != 1 {
		t.Fatalf("expected a single blocked record, got %d", len(store.blocked))
	}
}

func TestUnblockSlot_Idempotent(t *testing.T) {
	store := &memStore{}
	a := newTestApp(store)
	ctx := context.Background()

	bt, _, err := a.BlockSlot(ctx, "2026-09-07", "10:00 AM")
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if err := a.UnblockSlot(ctx, bt.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := a.UnblockSlot(ctx, bt.ID); err != nil {
		t.Fatalf("repeat unblock must be a no-op, got %v", err)
	}
	if len(store.blocked) != 0 {
		t.Fatal("blocked record should be gone")
	}
}
