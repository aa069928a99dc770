package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrSlotTaken is returned by inserts that lose to an existing record for
// the same (date, time). First writer wins.
var ErrSlotTaken = errors.New("slot already taken")

// Store persists the two record collections. Deletes are idempotent:
// removing an unknown id is a no-op, not an error.
type Store interface {
	InsertBooking(ctx context.Context, b *Booking) (string, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error

	InsertBlockedTime(ctx context.Context, bt *BlockedTime) (string, error)
	ListBlockedTimes(ctx context.Context) ([]BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, id string) error
}

// PGStore is the Postgres implementation.
type PGStore struct {
	DB  *pgxpool.Pool
	Log *slog.Logger
}

func NewPGStore(db *pgxpool.Pool, log *slog.Logger) *PGStore {
	return &PGStore{DB: db, Log: log}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS bookings (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    service text NOT NULL,
    name text NOT NULL,
    email text NOT NULL,
    phone text NOT NULL DEFAULT '',
    date text NOT NULL,
    time text NOT NULL,
    notes text NOT NULL DEFAULT '',
    created_at timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS bookings_date_time_idx ON bookings (date, time);

CREATE TABLE IF NOT EXISTS blocked_times (
    id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    date text NOT NULL,
    time text NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS blocked_times_date_time_idx ON blocked_times (date, time);
`

// EnsureSchema creates the collections and the uniqueness guards against
// double-booking a (date, time).
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.Exec(ctx, schemaSQL)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PGStore) InsertBooking(ctx context.Context, b *Booking) (string, error) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	q := `INSERT INTO bookings (service, name, email, phone, date, time, notes, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id`
	err := s.DB.QueryRow(ctx, q,
		b.Service, b.Name, b.Email, b.Phone, b.Date, b.Time, b.Notes, b.CreatedAt,
	).Scan(&b.ID)
	if isUniqueViolation(err) {
		return "", ErrSlotTaken
	}
	if err != nil {
		return "", err
	}
	return b.ID, nil
}

func (s *PGStore) ListBookings(ctx context.Context) ([]Booking, error) {
	q := `SELECT id, service, name, email, phone, date, time, notes, created_at
	      FROM bookings ORDER BY created_at`
	rows, err := s.DB.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.Service, &b.Name, &b.Email, &b.Phone,
			&b.Date, &b.Time, &b.Notes, &b.CreatedAt); err != nil {
			return nil, err
		}
		if err := decodeBooking(&b); err != nil {
			s.Log.Warn("skipping malformed booking record", "err", err)
			continue
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *PGStore) DeleteBooking(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	return err
}

func (s *PGStore) InsertBlockedTime(ctx context.Context, bt *BlockedTime) (string, error) {
	q := `INSERT INTO blocked_times (date, time) VALUES ($1,$2) RETURNING id`
	err := s.DB.QueryRow(ctx, q, bt.Date, bt.Time).Scan(&bt.ID)
	if isUniqueViolation(err) {
		return "", ErrSlotTaken
	}
	if err != nil {
		return "", err
	}
	return bt.ID, nil
}

func (s *PGStore) ListBlockedTimes(ctx context.Context) ([]BlockedTime, error) {
	rows, err := s.DB.Query(ctx, `SELECT id, date, time FROM blocked_times ORDER BY date, time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BlockedTime
	for rows.Next() {
		var bt BlockedTime
		if err := rows.Scan(&bt.ID, &bt.Date, &bt.Time); err != nil {
			return nil, err
		}
		if err := decodeBlockedTime(&bt); err != nil {
			s.Log.Warn("skipping malformed blocked time record", "err", err)
			continue
		}
		out = append(out, bt)
	}
	return out, rows.Err()
}

func (s *PGStore) DeleteBlockedTime(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, `DELETE FROM blocked_times WHERE id=$1`, id)
	return err
}

// decodeBooking checks the required shape of a stored booking. The time
// format itself is left to the availability checker, which skips values it
// cannot parse.
func decodeBooking(b *Booking) error {
	switch {
	case b.Service == "":
		return &DecodeError{Collection: "bookings", ID: b.ID, Field: "service"}
	case b.Name == "":
		return &DecodeError{Collection: "bookings", ID: b.ID, Field: "name"}
	case b.Email == "":
		return &DecodeError{Collection: "bookings", ID: b.ID, Field: "email"}
	case b.Time == "":
		return &DecodeError{Collection: "bookings", ID: b.ID, Field: "time"}
	}
	if _, err := ParseDate(b.Date); err != nil {
		return &DecodeError{Collection: "bookings", ID: b.ID, Field: "date"}
	}
	return nil
}

func decodeBlockedTime(bt *BlockedTime) error {
	if bt.Time == "" {
		return &DecodeError{Collection: "blocked_times", ID: bt.ID, Field: "time"}
	}
	if _, err := ParseDate(bt.Date); err != nil {
		return &DecodeError{Collection: "blocked_times", ID: bt.ID, Field: "date"}
	}
	return nil
}
