package domain

import "time"

// DonationStatus enumerates the lifecycle states of a donation.
type DonationStatus string

const (
	StatusPending   DonationStatus = "pending"
	StatusAssigned  DonationStatus = "assigned"
	StatusCollected DonationStatus = "collected"
	StatusDelivered DonationStatus = "delivered"
	StatusCancelled DonationStatus = "cancelled"
)

// updateTargets is the set of statuses an owning NGO may apply through
// UpdateStatus. Transitions inside the set are not forced forward; re-applying
// a status only leaves already-set timestamps untouched.
var updateTargets = map[DonationStatus]struct{}{
	StatusAssigned:  {},
	StatusCollected: {},
	StatusDelivered: {},
}

// ActiveStatuses are the states in which a donation is held by an NGO.
var ActiveStatuses = []DonationStatus{StatusAssigned, StatusCollected, StatusDelivered}

// ValidUpdateTarget reports whether s is an acceptable UpdateStatus target.
func ValidUpdateTarget(s DonationStatus) bool {
	_, ok := updateTargets[s]
	return ok
}

// IsTerminal reports whether no further transition leaves s.
func (s DonationStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Donation is a surplus food listing moving through the claim lifecycle.
// NGOID is set exactly once, by a successful claim.
type Donation struct {
	ID            string
	DonorID       string
	NGOID         *string
	Status        DonationStatus
	FoodType      string
	Quantity      string
	Description   string
	PickupAddress string
	PickupDate    time.Time
	ContactPhone  string
	Notes         string
	ClaimedAt     *time.Time
	CollectedAt   *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PartySummary is the read-time projection of a donor or NGO attached to a
// donation listing. Donations reference parties by ID only; summaries are
// resolved by the store when a view is queried.
type PartySummary struct {
	ID      string
	Name    string
	Email   string
	Phone   string
	Address string
}

// DonationView pairs a donation with the parties resolved at read time.
type DonationView struct {
	Donation
	Donor *PartySummary
	NGO   *PartySummary
}

// DonorContact is the contact-disclosure payload revealed to an NGO at the
// moment its claim succeeds, never before.
type DonorContact struct {
	Name          string
	Phone         string
	Email         string
	Address       string
	ContactPhone  string
	PickupAddress string
}

// ContactFor builds the disclosure view for a claimed donation. The donor's
// own phone wins; the donation's contact phone is the fallback.
func ContactFor(d *Donation, donor *Donor) DonorContact {
	phone := donor.Phone
	if phone == "" {
		phone = d.ContactPhone
	}
	return DonorContact{
		Name:          donor.Name,
		Phone:         phone,
		Email:         donor.Email,
		Address:       donor.Address,
		ContactPhone:  d.ContactPhone,
		PickupAddress: d.PickupAddress,
	}
}

// ClaimResult is what a successful claim returns to the caller.
type ClaimResult struct {
	Donation     DonationView
	DonorContact DonorContact
	ClaimedAt    time.Time
}
