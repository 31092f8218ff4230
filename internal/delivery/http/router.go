package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"campuseventhub/internal/delivery/http/controllers"
	"campuseventhub/internal/delivery/http/middleware"
	"campuseventhub/internal/domain"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Events    *controllers.EventController
	Venues    *controllers.VenueController
	Attendees *controllers.AttendeeController
	Admin     *controllers.AdminController

	TokenVerifier domain.TokenVerifier
	RateLimiter   *middleware.RateLimiter
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(d.TokenVerifier)
	adminOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdmin)(h))
	}
	limited := func(h http.HandlerFunc) http.HandlerFunc { return h }
	if d.RateLimiter != nil {
		limited = d.RateLimiter.Wrap
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", limited(d.Auth.SignUp))
	mux.HandleFunc("POST /auth/login", limited(d.Auth.Login))

	// Users
	mux.HandleFunc("GET /users/me", authed(d.Users.GetMe))
	mux.HandleFunc("PATCH /users/me", authed(d.Users.UpdateMe))

	// Venue availability. Registered before /events/{id} so the literal
	// segments win over the wildcard.
	mux.HandleFunc("GET /events/check-availability", d.Venues.CheckAvailability)
	mux.HandleFunc("GET /events/venue-schedule", d.Venues.GetVenueSchedule)

	// Events
	mux.HandleFunc("GET /events", d.Events.List)
	mux.HandleFunc("POST /events", authed(middleware.RequireRole(domain.RoleOrganizer, domain.RoleAdmin)(d.Events.Create)))
	mux.HandleFunc("GET /events/mine", authed(d.Events.ListMine))
	mux.HandleFunc("GET /events/{id}", d.Events.Get)
	mux.HandleFunc("PATCH /events/{id}", authed(d.Events.Update))
	mux.HandleFunc("DELETE /events/{id}", authed(d.Events.Delete))
	mux.HandleFunc("POST /events/{id}/cancel", authed(d.Events.Cancel))

	// Registrations
	mux.HandleFunc("POST /events/{id}/register", authed(d.Attendees.Register))
	mux.HandleFunc("DELETE /events/{id}/register", authed(d.Attendees.CancelRegistration))
	mux.HandleFunc("POST /events/{id}/check-in", authed(d.Attendees.CheckIn))
	mux.HandleFunc("GET /registrations/mine", authed(d.Attendees.ListMine))

	// Admin
	mux.HandleFunc("GET /admin/events", adminOnly(d.Admin.ListEvents))
	mux.HandleFunc("POST /admin/events/{id}/approve", adminOnly(d.Admin.Approve))
	mux.HandleFunc("POST /admin/events/{id}/reject", adminOnly(d.Admin.Reject))
	mux.HandleFunc("GET /admin/dashboard", adminOnly(d.Admin.Dashboard))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
