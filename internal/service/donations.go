package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// DonationInput carries the donor-supplied fields for a new listing.
// Description and Notes are optional; everything else is required.
type DonationInput struct {
	FoodType      string
	Quantity      string
	Description   string
	PickupAddress string
	PickupDate    time.Time
	ContactPhone  string
	Notes         string
}

// DonationService owns the donation lifecycle: creation, claim arbitration
// and status transitions. All writes go through conditional updates in the
// repository, so the service never holds locks of its own.
type DonationService struct {
	donations domain.DonationRepository
	donors    domain.DonorRepository
	logger    zerolog.Logger
	now       func() time.Time
}

func NewDonationService(donations domain.DonationRepository, donors domain.DonorRepository, logger zerolog.Logger) *DonationService {
	return &DonationService{
		donations: donations,
		donors:    donors,
		logger:    logger,
		now:       time.Now,
	}
}

// Create validates the input and persists a new pending donation owned by
// donorID. The pickup date must be strictly in the future.
func (s *DonationService) Create(ctx context.Context, donorID string, in DonationInput) (*domain.Donation, error) {
	in.FoodType = strings.TrimSpace(in.FoodType)
	in.Quantity = strings.TrimSpace(in.Quantity)
	in.PickupAddress = strings.TrimSpace(in.PickupAddress)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Description = strings.TrimSpace(in.Description)
	in.Notes = strings.TrimSpace(in.Notes)

	switch {
	case in.FoodType == "":
		return nil, domain.ValidationError("food type is required")
	case in.Quantity == "":
		return nil, domain.ValidationError("quantity is required")
	case in.PickupAddress == "":
		return nil, domain.ValidationError("pickup address is required")
	case in.ContactPhone == "":
		return nil, domain.ValidationError("contact phone is required")
	case in.PickupDate.IsZero():
		return nil, domain.ValidationError("pickup date is required")
	case !in.PickupDate.After(s.now()):
		return nil, domain.ValidationError("pickup date must be in the future")
	}

	d := &domain.Donation{
		DonorID:       donorID,
		Status:        domain.StatusPending,
		FoodType:      in.FoodType,
		Quantity:      in.Quantity,
		Description:   in.Description,
		PickupAddress: in.PickupAddress,
		PickupDate:    in.PickupDate,
		ContactPhone:  in.ContactPhone,
		Notes:         in.Notes,
	}
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("donation_id", d.ID).Str("donor_id", donorID).Msg("donation created")
	return d, nil
}

// Claim assigns a pending donation to ngoID. The repository performs the
// conditional update; when it misses, the record is re-read once to tell a
// missing donation from one that changed state under a concurrent claimer.
// Success discloses the donor's contact details to the claiming NGO.
func (s *DonationService) Claim(ctx context.Context, donationID, ngoID string) (*domain.ClaimResult, error) {
	claimed, err := s.donations.Claim(ctx, donationID, ngoID)
	if err == nil {
		return s.claimResult(ctx, claimed)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	current, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if current.Status != domain.StatusPending {
		s.logger.Info().
			Str("donation_id", donationID).
			Str("ngo_id", ngoID).
			Str("current_status", string(current.Status)).
			Msg("claim rejected: donation no longer pending")
		return nil, &domain.TransitionError{Current: current.Status}
	}
	// Pending but held by someone else. The status guard above already
	// covers the common race; this second check keeps the claim exclusive
	// even if a row ends up pending with an NGO attached.
	if current.NGOID != nil && *current.NGOID != ngoID {
		return nil, domain.ErrAlreadyClaimed
	}
	// The re-read says the row is still pending and claimable, so the first
	// miss was transient. Retry the conditional update once; a second miss
	// means a concurrent claim landed in between.
	claimed, err = s.donations.Claim(ctx, donationID, ngoID)
	if err == nil {
		return s.claimResult(ctx, claimed)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return nil, domain.ErrAlreadyClaimed
}

func (s *DonationService) claimResult(ctx context.Context, d *domain.Donation) (*domain.ClaimResult, error) {
	donor, err := s.donors.GetByID(ctx, d.DonorID)
	if err != nil {
		return nil, err
	}
	claimedAt := s.now()
	if d.ClaimedAt != nil {
		claimedAt = *d.ClaimedAt
	}
	s.logger.Info().Str("donation_id", d.ID).Str("ngo_id", derefStr(d.NGOID)).Msg("donation claimed")
	return &domain.ClaimResult{
		Donation:     domain.DonationView{Donation: *d, Donor: donor.Summary()},
		DonorContact: domain.ContactFor(d, donor),
		ClaimedAt:    claimedAt,
	}, nil
}

// UpdateStatus moves a claimed donation to target on behalf of the owning
// NGO. Targets outside {assigned, collected, delivered} are rejected; within
// the set no forward-only order is enforced, and re-applying a status leaves
// its timestamp untouched.
func (s *DonationService) UpdateStatus(ctx context.Context, donationID, ngoID string, target domain.DonationStatus) (*domain.Donation, error) {
	if !domain.ValidUpdateTarget(target) {
		return nil, domain.ValidationError("invalid status %q, allowed values: assigned, collected, delivered", target)
	}

	current, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if current.NGOID == nil || *current.NGOID != ngoID {
		return nil, domain.ErrForbidden
	}

	updated, err := s.donations.UpdateStatus(ctx, donationID, ngoID, target)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("donation_id", donationID).
		Str("ngo_id", ngoID).
		Str("status", string(target)).
		Msg("donation status updated")
	return updated, nil
}

// Available lists pending donations, newest first.
func (s *DonationService) Available(ctx context.Context) ([]domain.DonationView, error) {
	return s.donations.ListAvailable(ctx)
}

// MyDonations lists a donor's own donations regardless of status, newest first.
func (s *DonationService) MyDonations(ctx context.Context, donorID string) ([]domain.DonationView, error) {
	return s.donations.ListByDonor(ctx, donorID)
}

// ClaimedBy lists the donations an NGO holds, most recently claimed first.
func (s *DonationService) ClaimedBy(ctx context.Context, ngoID string) ([]domain.DonationView, error) {
	return s.donations.ListClaimedBy(ctx, ngoID)
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
