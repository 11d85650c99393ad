package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/service"
)

// App bundles the services and settings the HTTP handlers need.
type App struct {
	Donations *service.DonationService
	Accounts  *service.AccountService
	Logger    zerolog.Logger
	JWTSecret string
	JWTTTL    time.Duration
	JWTIssuer string
}

func NewApp(donations *service.DonationService, accounts *service.AccountService, logger zerolog.Logger, jwtSecret string, jwtTTL time.Duration) *App {
	return &App{
		Donations: donations,
		Accounts:  accounts,
		Logger:    logger,
		JWTSecret: jwtSecret,
		JWTTTL:    jwtTTL,
		JWTIssuer: "foodshare-api",
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) ok(w http.ResponseWriter, code int, message string, data any) {
	body := map[string]any{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	a.json(w, code, body)
}

func (a *App) error(w http.ResponseWriter, code int, kind, message string) {
	a.errorWith(w, code, kind, message, nil)
}

func (a *App) errorWith(w http.ResponseWriter, code int, kind, message string, extra map[string]any) {
	body := map[string]any{"success": false, "error": kind, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	a.json(w, code, body)
}

// domainError translates service errors into the API's error envelope.
// Unexpected failures are logged and reported generically.
func (a *App) domainError(w http.ResponseWriter, r *http.Request, err error) {
	var transition *domain.TransitionError
	switch {
	case errors.As(err, &transition):
		a.errorWith(w, http.StatusBadRequest, "conflict", transition.Error(), map[string]any{
			"currentStatus": string(transition.Current),
		})
	case errors.Is(err, domain.ErrAlreadyClaimed):
		a.error(w, http.StatusBadRequest, "conflict", "this donation has already been claimed by another NGO")
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusBadRequest, "bad_request", "an account with this email already exists")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "access denied, you can only update your own claimed donations")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}
