package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// CalendarMirror copies confirmed bookings into the operator's Google
// Calendar. The operator connects once through the OAuth2 flow; until the
// exchange completes, mirroring is a no-op.
type CalendarMirror struct {
	config     *oauth2.Config
	calendarID string

	mu    sync.Mutex
	state string
	token *oauth2.Token
}

// NewCalendarMirror returns nil when the Google OAuth2 settings are absent,
// leaving the feature disabled.
func NewCalendarMirror(clientID, clientSecret, redirectURL, calendarID string) *CalendarMirror {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	return &CalendarMirror{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				calendar.CalendarEventsScope,
				calendar.CalendarReadonlyScope,
			},
			Endpoint: google.Endpoint,
		},
		calendarID: calendarID,
	}
}

// AuthURL starts the OAuth2 flow and remembers the state for the callback.
func (m *CalendarMirror) AuthURL() string {
	state := fmt.Sprintf("admin_%d", time.Now().UnixNano())
	m.mu.Lock()
	m.state = state
	m.mu.Unlock()
	return m.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange completes the OAuth2 flow and stores the token for mirroring.
func (m *CalendarMirror) Exchange(ctx context.Context, code, state string) error {
	m.mu.Lock()
	expected := m.state
	m.mu.Unlock()
	if expected == "" || state != expected {
		return fmt.Errorf("unexpected oauth2 state")
	}

	token, err := m.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	m.mu.Lock()
	m.token = token
	m.state = ""
	m.mu.Unlock()
	return nil
}

func (m *CalendarMirror) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token != nil
}

func (m *CalendarMirror) service(ctx context.Context) (*calendar.Service, error) {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()
	if token == nil {
		return nil, fmt.Errorf("google calendar not connected")
	}
	client := m.config.Client(ctx, token)
	return calendar.NewService(ctx, option.WithHTTPClient(client))
}

// MirrorBooking inserts a 30-minute event for the booking. Called
// best-effort after persistence; a disconnected mirror is not an error.
func (m *CalendarMirror) MirrorBooking(ctx context.Context, b *Booking) error {
	if !m.Connected() {
		return nil
	}

	start, err := time.ParseInLocation(dateLayout+" "+timeLayout, b.Date+" "+b.Time, time.Local)
	if err != nil {
		return fmt.Errorf("unparsable booking slot %q %q: %w", b.Date, b.Time, err)
	}
	end := start.Add(slotMinutes * time.Minute)

	srv, err := m.service(ctx)
	if err != nil {
		return err
	}

	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", b.Service, b.Name),
		Description: fmt.Sprintf("Booked by %s (%s)\nNotes: %s", b.Name, b.Email, b.Notes),
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}
	_, err = srv.Events.Insert(m.calendarID, event).Context(ctx).Do()
	return err
}

// CalendarEvent is the dashboard view of a Google Calendar event.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Summary   string    `json:"summary"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"`
}

// UpcomingEvents lists events from now on, soonest first.
func (m *CalendarMirror) UpcomingEvents(ctx context.Context, maxResults int64) ([]CalendarEvent, error) {
	srv, err := m.service(ctx)
	if err != nil {
		return nil, err
	}

	events, err := srv.Events.List(m.calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(time.Now().Format(time.RFC3339)).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve events: %w", err)
	}

	var out []CalendarEvent
	for _, item := range events.Items {
		ev := CalendarEvent{
			ID:      item.Id,
			Summary: item.Summary,
			Status:  item.Status,
		}
		if item.Start != nil {
			if item.Start.DateTime != "" {
				if t, err := time.Parse(time.RFC3339, item.Start.DateTime); err == nil {
					ev.StartTime = t
				}
			} else if item.Start.Date != "" {
				if t, err := time.Parse(dateLayout, item.Start.Date); err == nil {
					ev.StartTime = t
				}
			}
		}
		if item.End != nil {
			if item.End.DateTime != "" {
				if t, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
					ev.EndTime = t
				}
			} else if item.End.Date != "" {
				if t, err := time.Parse(dateLayout, item.End.Date); err == nil {
					ev.EndTime = t
				}
			}
		}
		out = append(out, ev)
	}
	return out, nil
}

// CalendarInfo describes one calendar the operator can mirror into.
type CalendarInfo struct {
	ID         string `json:"id"`
	Summary    string `json:"summary"`
	Primary    bool   `json:"primary"`
	AccessRole string `json:"access_role"`
}

func (m *CalendarMirror) Calendars(ctx context.Context) ([]CalendarInfo, error) {
	srv, err := m.service(ctx)
	if err != nil {
		return nil, err
	}
	list, err := srv.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve calendars: %w", err)
	}

	var out []CalendarInfo
	for _, item := range list.Items {
		out = append(out, CalendarInfo{
			ID:         item.Id,
			Summary:    item.Summary,
			Primary:    item.Primary,
			AccessRole: item.AccessRole,
		})
	}
	return out, nil
}
