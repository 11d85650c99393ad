package handlers

import (
	"encoding/json"
	"net/http"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type registerNGORequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Password           string `json:"password"`
	Phone              string `json:"phone"`
	Address            string `json:"address"`
	RegistrationNumber string `json:"registrationNumber"`
}

// NGOsRegister handles POST /api/ngos/register.
func (a *App) NGOsRegister(w http.ResponseWriter, r *http.Request) {
	var req registerNGORequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	ngo, err := a.Accounts.RegisterNGO(r.Context(), service.RegisterNGOInput{
		Name:               req.Name,
		Email:              req.Email,
		Password:           req.Password,
		Phone:              req.Phone,
		Address:            req.Address,
		RegistrationNumber: req.RegistrationNumber,
		Country:            middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	token, err := a.issueToken(ngo.ID, domain.RoleNGO)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.ok(w, http.StatusCreated, "NGO registered successfully", map[string]any{
		"ngo":   toNGO(ngo),
		"token": token,
	})
}

// NGOsLogin handles POST /api/ngos/login.
func (a *App) NGOsLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	ngo, err := a.Accounts.LoginNGO(r.Context(), req.Email, req.Password)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	token, err := a.issueToken(ngo.ID, domain.RoleNGO)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.ok(w, http.StatusOK, "login successful", map[string]any{
		"ngo":   toNGO(ngo),
		"token": token,
	})
}

// NGOsProfile handles GET /api/ngos/profile (NGO only).
func (a *App) NGOsProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	ngo, err := a.Accounts.NGOProfile(r.Context(), principal.UserID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "", map[string]any{"ngo": toNGO(ngo)})
}

// NGOsClaimedDonations handles GET /api/ngos/claimed-donations (NGO only).
func (a *App) NGOsClaimedDonations(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	views, err := a.Donations.ClaimedBy(r.Context(), principal.UserID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	items := toDonationList(views)
	a.json(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(items),
		"data":    map[string]any{"donations": items},
	})
}
