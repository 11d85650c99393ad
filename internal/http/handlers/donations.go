package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/service"
)

type createDonationRequest struct {
	FoodType      string `json:"foodType"`
	Quantity      string `json:"quantity"`
	Description   string `json:"description"`
	PickupAddress string `json:"pickupAddress"`
	PickupDate    string `json:"pickupDate"`
	ContactPhone  string `json:"contactPhone"`
	Notes         string `json:"notes"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// DonationsCreate handles POST /api/donations (donor only).
func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}

	var req createDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	var pickupDate time.Time
	if req.PickupDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.PickupDate)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", "pickupDate must be a valid RFC 3339 timestamp")
			return
		}
		pickupDate = parsed
	}

	donation, err := a.Donations.Create(r.Context(), principal.UserID, service.DonationInput{
		FoodType:      req.FoodType,
		Quantity:      req.Quantity,
		Description:   req.Description,
		PickupAddress: req.PickupAddress,
		PickupDate:    pickupDate,
		ContactPhone:  req.ContactPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.ok(w, http.StatusCreated, "donation created successfully", map[string]any{
		"donation": toDonation(donation),
	})
}

// DonationsAvailable handles GET /api/donations/available (NGO only).
func (a *App) DonationsAvailable(w http.ResponseWriter, r *http.Request) {
	views, err := a.Donations.Available(r.Context())
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

// DonationsMine handles GET /api/donations/my-donations (donor only).
func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	views, err := a.Donations.MyDonations(r.Context(), principal.UserID)
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

// DonationsClaim handles PUT /api/donations/{id}/assign (NGO only). A
// successful claim is the one moment donor contact details are disclosed.
func (a *App) DonationsClaim(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donationID, ok := a.donationID(w, r)
	if !ok {
		return
	}

	result, err := a.Donations.Claim(r.Context(), donationID, principal.UserID)
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "donation claimed successfully", map[string]any{
		"donation":     toDonationView(&result.Donation),
		"donorContact": toContact(result.DonorContact),
		"claimedAt":    result.ClaimedAt,
	})
}

// DonationsUpdateStatus handles PUT /api/donations/{id}/status (owning NGO only).
func (a *App) DonationsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		a.error(w, http.StatusUnauthorized, "unauthorized", "missing user context")
		return
	}
	donationID, ok := a.donationID(w, r)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	donation, err := a.Donations.UpdateStatus(r.Context(), donationID, principal.UserID, domain.DonationStatus(req.Status))
	if err != nil {
		a.domainError(w, r, err)
		return
	}
	a.ok(w, http.StatusOK, "donation marked as "+req.Status, map[string]any{
		"donation": toDonation(donation),
	})
}

// donationID validates the {id} path parameter. A malformed id is a 400, not
// a 404, mirroring the store's id format constraints.
func (a *App) donationID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	if _, err := uuid.Parse(raw); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid donation ID")
		return "", false
	}
	return raw, true
}
