package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type registerDonorRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// DonorsRegister handles POST /api/donors/register.
func (a *App) DonorsRegister(w http.ResponseWriter, r *http.Request) {
	var req registerDonorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	donor, err := a.Accounts.RegisterDonor(r.Context(), service.RegisterDonorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Role:     domain.DonorRole(req.Role),
		Country:  middleware.CountryFromContext(r.Context()),
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	token, err := a.issueToken(donor.ID, domain.RoleDonor)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.ok(w, http.StatusCreated, "donor registered successfully", map[string]any{
		"donor": toDonor(donor),
		"token": token,
	})
}

// DonorsLogin handles POST /api/donors/login.
func (a *App) DonorsLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email and password are required")
		return
	}

	donor, err := a.Accounts.LoginDonor(r.Context(), req.Email, req.Password)
	if err != nil {
		a.domainError(w, r, err)
		return
	}

	token, err := a.issueToken(donor.ID, domain.RoleDonor)
	if err != nil {
		a.Logger.Error().Err(err).Msg("sign jwt failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to sign token")
		return
	}
	a.ok(w, http.StatusOK, "login successful", map[string]any{
		"donor": toDonor(donor),
		"token": token,
	})
}

// DonorsProfile handles GET /api/donors/profile (donor only).
func (a *App) DonorsProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donor, err := a.Accounts.DonorProfile(r.Context(), principal.UserID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "", map[string]any{"donor": toDonor(donor)})
}

func (a *App) issueToken(userID, role string) (string, error) {
	return middleware.SignJWT(a.JWTSecret, middleware.TokenClaims{
		Sub:      userID,
		Role:     role,
		Exp:      time.Now().Add(a.JWTTTL).Unix(),
		Issuer:   a.JWTIssuer,
		Audience: "foodshare-clients",
	})
}
