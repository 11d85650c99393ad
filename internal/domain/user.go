package domain

import "time"

// Principal roles carried in auth tokens.
const (
	RoleDonor = "donor"
	RoleNGO   = "ngo"
)

// DonorRole classifies the kind of donor account.
type DonorRole string

const (
	DonorIndividual   DonorRole = "individual"
	DonorRestaurant   DonorRole = "restaurant"
	DonorOrganization DonorRole = "organization"
)

// ValidDonorRole reports whether r is a known donor classification.
func ValidDonorRole(r DonorRole) bool {
	switch r {
	case DonorIndividual, DonorRestaurant, DonorOrganization:
		return true
	}
	return false
}

// Donor is a principal offering surplus food.
type Donor struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	Role         DonorRole
	Country      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NGO is a principal claiming and fulfilling donations.
type NGO struct {
	ID                 string
	Name               string
	Email              string
	PasswordHash       string
	Phone              string
	Address            string
	RegistrationNumber string
	IsVerified         bool
	Country            string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (d *Donor) Summary() *PartySummary {
	return &PartySummary{ID: d.ID, Name: d.Name, Email: d.Email, Phone: d.Phone, Address: d.Address}
}

func (n *NGO) Summary() *PartySummary {
	return &PartySummary{ID: n.ID, Name: n.Name, Email: n.Email, Phone: n.Phone, Address: n.Address}
}
