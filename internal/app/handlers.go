package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GET /api/services
func (a *App) ListServicesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": Services})
}

// GET /api/slots?date=YYYY-MM-DD
func (a *App) GetSlotsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date required (YYYY-MM-DD)"})
		return
	}
	if _, err := ParseDate(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	ctx := c.Request.Context()
	bookings, err := a.Store.ListBookings(ctx)
	if err != nil {
		a.Log.Warn("bookings read failed, treating as empty", "err", err)
		bookings = nil
	}
	blocked, err := a.Store.ListBlockedTimes(ctx)
	if err != nil {
		a.Log.Warn("blocked times read failed, treating as empty", "err", err)
		blocked = nil
	}

	times := a.AvailableTimes(date, bookings, blocked, time.Now())
	if times == nil {
		times = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "times": times})
}

// POST /api/bookings
func (a *App) CreateBookingHandler(c *gin.Context) {
	var req BookingRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, fieldErrs, err := a.SubmitBooking(c.Request.Context(), &req)
	if err != nil {
		a.Log.Error("booking persist failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again later."})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// GET /api/admin/bookings
func (a *App) ListBookingsHandler(c *gin.Context) {
	bookings, err := a.ListBookingsSorted(c.Request.Context())
	if err != nil {
		// Read failures degrade the list to empty rather than erroring the
		// dashboard.
		a.Log.Warn("bookings read failed, returning empty list", "err", err)
		bookings = nil
	}
	if bookings == nil {
		bookings = []Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// DELETE /api/admin/bookings/:id
func (a *App) DeleteBookingHandler(c *gin.Context) {
	if err := a.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to delete booking"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/admin/blocked-times
func (a *App) ListBlockedTimesHandler(c *gin.Context) {
	blocked, err := a.Store.ListBlockedTimes(c.Request.Context())
	if err != nil {
		a.Log.Warn("blocked times read failed, returning empty list", "err", err)
		blocked = nil
	}
	if blocked == nil {
		blocked = []BlockedTime{}
	}
	c.JSON(http.StatusOK, blocked)
}

type blockTimeRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// POST /api/admin/blocked-times
func (a *App) BlockTimeHandler(c *gin.Context) {
	var req blockTimeRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bt, fieldErrs, err := a.BlockSlot(c.Request.Context(), req.Date, req.Time)
	if err != nil {
		a.Log.Error("block slot persist failed", "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Something went wrong. Please try again later."})
		return
	}
	if len(fieldErrs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": fieldErrs})
		return
	}

	c.JSON(http.StatusCreated, bt)
}

// DELETE /api/admin/blocked-times/:id
func (a *App) UnblockTimeHandler(c *gin.Context) {
	if err := a.UnblockSlot(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to unblock time slot"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/admin/calendar/auth
func (a *App) GoogleAuthHandler(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": a.Calendar.AuthURL()})
}

// GET /oauth2callback
func (a *App) GoogleOAuth2CallbackHandler(c *gin.Context) {
	if a.Calendar == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not configured"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization code required"})
		return
	}
	if err := a.Calendar.Exchange(c.Request.Context(), code, c.Query("state")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Google Calendar connected"})
}

// GET /api/admin/calendar/events
func (a *App) GetCalendarEventsHandler(c *gin.Context) {
	if a.Calendar == nil || !a.Calendar.Connected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not connected"})
		return
	}
	events, err := a.Calendar.UpcomingEvents(c.Request.Context(), 250)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GET /api/admin/calendar/calendars
func (a *App) GetCalendarListHandler(c *gin.Context) {
	if a.Calendar == nil || !a.Calendar.Connected() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google Calendar not connected"})
		return
	}
	calendars, err := a.Calendar.Calendars(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"calendars": calendars, "count": len(calendars)})
}
