package domain

import "context"

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	// Claim performs the atomic assign: it succeeds only when the row is
	// still pending and unclaimed (or claimed by the same NGO). A miss
	// returns ErrNotFound regardless of the reason; callers re-read the
	// record to classify the failure.
	Claim(ctx context.Context, id, ngoID string) (*Donation, error)
	// UpdateStatus applies target for the owning NGO, stamping
	// collected_at/completed_at only the first time each is reached.
	UpdateStatus(ctx context.Context, id, ngoID string, target DonationStatus) (*Donation, error)
	ListAvailable(ctx context.Context) ([]DonationView, error)
	ListByDonor(ctx context.Context, donorID string) ([]DonationView, error)
	ListClaimedBy(ctx context.Context, ngoID string) ([]DonationView, error)
}

// DonorRepository defines access methods for donor accounts.
type DonorRepository interface {
	Create(ctx context.Context, donor *Donor) error
	GetByID(ctx context.Context, id string) (*Donor, error)
	GetByEmail(ctx context.Context, email string) (*Donor, error)
}

// NGORepository defines access methods for NGO accounts.
type NGORepository interface {
	Create(ctx context.Context, ngo *NGO) error
	GetByID(ctx context.Context, id string) (*NGO, error)
	GetByEmail(ctx context.Context, email string) (*NGO, error)
}
