package app

import "log/slog"

// App wires the booking domain to its collaborators: the record store,
// the notification sender and the optional calendar mirror.
type App struct {
	Store    Store
	Notifier Notifier
	Calendar *CalendarMirror
	Log      *slog.Logger

	Auth AuthConfig

	// EmailJS template ids for the two booking notifications.
	OperatorTemplate string
	CustomerTemplate string
}
