package handlers

import (
	"time"

	"server/internal/domain"
)

type partyDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type donationDTO struct {
	ID            string     `json:"id"`
	DonorID       string     `json:"donorId"`
	NGOID         *string    `json:"ngoId"`
	Status        string     `json:"status"`
	FoodType      string     `json:"foodType"`
	Quantity      string     `json:"quantity"`
	Description   string     `json:"description,omitempty"`
	PickupAddress string     `json:"pickupAddress"`
	PickupDate    time.Time  `json:"pickupDate"`
	ContactPhone  string     `json:"contactPhone"`
	Notes         string     `json:"notes,omitempty"`
	ClaimedAt     *time.Time `json:"claimedAt,omitempty"`
	CollectedAt   *time.Time `json:"collectedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Donor         *partyDTO  `json:"donor,omitempty"`
	NGO           *partyDTO  `json:"ngo,omitempty"`
}

type donorContactDTO struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	ContactPhone  string `json:"contactPhone"`
	PickupAddress string `json:"pickupAddress"`
}

type donorDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type ngoDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	RegistrationNumber string    `json:"registrationNumber,omitempty"`
	IsVerified         bool      `json:"isVerified"`
	Country            string    `json:"country,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
}

func toParty(p *domain.PartySummary) *partyDTO {
	if p == nil {
		return nil
	}
	return &partyDTO{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
}

func toDonation(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:            d.ID,
		DonorID:       d.DonorID,
		NGOID:         d.NGOID,
		Status:        string(d.Status),
		FoodType:      d.FoodType,
		Quantity:      d.Quantity,
		Description:   d.Description,
		PickupAddress: d.PickupAddress,
		PickupDate:    d.PickupDate,
		ContactPhone:  d.ContactPhone,
		Notes:         d.Notes,
		ClaimedAt:     d.ClaimedAt,
		CollectedAt:   d.CollectedAt,
		CompletedAt:   d.CompletedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDonationView(v *domain.DonationView) donationDTO {
	dto := toDonation(&v.Donation)
	dto.Donor = toParty(v.Donor)
	dto.NGO = toParty(v.NGO)
	return dto
}

func toDonationList(views []domain.DonationView) []donationDTO {
	items := make([]donationDTO, 0, len(views))
	for i := range views {
		items = append(items, toDonationView(&views[i]))
	}
	return items
}

func toContact(c domain.DonorContact) donorContactDTO {
	return donorContactDTO{
		Name:          c.Name,
		Phone:         c.Phone,
		Email:         c.Email,
		Address:       c.Address,
		ContactPhone:  c.ContactPhone,
		PickupAddress: c.PickupAddress,
	}
}

func toDonor(d *domain.Donor) donorDTO {
	return donorDTO{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Address:   d.Address,
		Role:      string(d.Role),
		Country:   d.Country,
		CreatedAt: d.CreatedAt,
	}
}

func toNGO(n *domain.NGO) ngoDTO {
	return ngoDTO{
		ID:                 n.ID,
		Name:               n.Name,
		Email:              n.Email,
		Phone:              n.Phone,
		Address:            n.Address,
		RegistrationNumber: n.RegistrationNumber,
		IsVerified:         n.IsVerified,
		Country:            n.Country,
		CreatedAt:          n.CreatedAt,
	}
}
