package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-service/internal/app"
	"booking-service/internal/config"
	"booking-service/internal/server"
)

func newLogger() *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(h).With("service", "booking-service")
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := newLogger()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	store := app.NewPGStore(pool, logger)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	var notifier app.Notifier
	if cfg.EmailJSServiceID != "" && cfg.EmailJSPublicKey != "" {
		notifier = app.NewEmailJSNotifier(cfg.EmailJSServiceID, cfg.EmailJSPublicKey)
	} else {
		logger.Warn("EmailJS not configured, booking notifications disabled")
	}

	mirror := app.NewCalendarMirror(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.GoogleCalendarID)
	if mirror == nil {
		logger.Warn("Google Calendar not configured, booking mirroring disabled")
	}

	appInstance := &app.App{
		Store:    store,
		Notifier: notifier,
		Calendar: mirror,
		Log:      logger,
		Auth: app.AuthConfig{
			AdminEmail:        cfg.AdminEmail,
			AdminPasswordHash: cfg.AdminPasswordHash,
			JWTSecret:         cfg.JWTSecret,
			SessionTTL:        cfg.SessionTTL,
		},
		OperatorTemplate: cfg.EmailJSOperatorTemplate,
		CustomerTemplate: cfg.EmailJSCustomerTemplate,
	}

	router := gin.Default()

	// OAuth2 callback (must be outside the admin group)
	router.GET("/oauth2callback", appInstance.GoogleOAuth2CallbackHandler)

	api := router.Group("/api")
	{
		api.GET("/services", appInstance.ListServicesHandler)
		api.GET("/slots", appInstance.GetSlotsHandler)
		api.POST("/bookings", appInstance.CreateBookingHandler)
		api.POST("/auth/login", appInstance.LoginHandler)

		admin := api.Group("/admin", app.AdminAuthMiddleware(appInstance.Auth))
		{
			admin.GET("/bookings", appInstance.ListBookingsHandler)
			admin.DELETE("/bookings/:id", appInstance.DeleteBookingHandler)
			admin.GET("/blocked-times", appInstance.ListBlockedTimesHandler)
			admin.POST("/blocked-times", appInstance.BlockTimeHandler)
			admin.DELETE("/blocked-times/:id", appInstance.UnblockTimeHandler)

			admin.GET("/calendar/auth", appInstance.GoogleAuthHandler)
			admin.GET("/calendar/events", appInstance.GetCalendarEventsHandler)
			admin.GET("/calendar/calendars", appInstance.GetCalendarListHandler)
		}
	}

	server.Run(router, cfg.Port)
}
