package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/domain"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
)

// NewRouter wires the full API surface. Role gating happens here, at the
// boundary: handlers behind RequireRole never see a principal of the wrong
// kind.
func NewRouter(app *handlers.App, cfg *infra.Config, countries geoip.CountryResolver) http.Handler {
	r := chi.NewRouter()

	var lookup middleware.CountryLookup
	if countries != nil {
		lookup = countries.CountryCode
	}

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.RateLimit(cfg.RateLimitPerMin, time.Minute),
		middleware.Locale(cfg.DefaultLocale, lookup),
	)

	r.Get("/api/health", app.Health)

	r.Route("/api/donors", func(r chi.Router) {
		r.Post("/register", app.DonorsRegister)
		r.Post("/login", app.DonorsLogin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret), middleware.RequireRole(domain.RoleDonor))
			r.Get("/profile", app.DonorsProfile)
		})
	})

	r.Route("/api/ngos", func(r chi.Router) {
		r.Post("/register", app.NGOsRegister)
		r.Post("/login", app.NGOsLogin)
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(cfg.JWTSecret), middleware.RequireRole(domain.RoleNGO))
			r.Get("/profile", app.NGOsProfile)
			r.Get("/claimed-donations", app.NGOsClaimedDonations)
		})
	})

	r.Route("/api/donations", func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleDonor))
			r.Post("/", app.DonationsCreate)
			r.Get("/my-donations", app.DonationsMine)
		})
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleNGO))
			r.Get("/available", app.DonationsAvailable)
			r.Put("/{id}/assign", app.DonationsClaim)
			r.Put("/{id}/status", app.DonationsUpdateStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"not_found","message":"route not found"}` + "\n"))
	})

	return r
}
