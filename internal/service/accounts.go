package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// RegisterDonorInput carries a donor registration request.
type RegisterDonorInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Role     domain.DonorRole
	Country  string
}

// RegisterNGOInput carries an NGO registration request.
type RegisterNGOInput struct {
	Name               string
	Email              string
	Password           string
	Phone              string
	Address            string
	RegistrationNumber string
	Country            string
}

// AccountService handles donor and NGO registration, login and profiles.
// Password hashing happens here, as an explicit step before persistence.
type AccountService struct {
	donors     domain.DonorRepository
	ngos       domain.NGORepository
	logger     zerolog.Logger
	bcryptCost int
}

func NewAccountService(donors domain.DonorRepository, ngos domain.NGORepository, logger zerolog.Logger, bcryptCost int) *AccountService {
	return &AccountService{donors: donors, ngos: ngos, logger: logger, bcryptCost: bcryptCost}
}

// RegisterDonor creates a donor account with a freshly hashed credential.
func (s *AccountService) RegisterDonor(ctx context.Context, in RegisterDonorInput) (*domain.Donor, error) {
	if err := validateAccountBasics(in.Name, in.Email, in.Password, in.Phone, in.Address); err != nil {
		return nil, err
	}
	if in.Role == "" {
		in.Role = domain.DonorIndividual
	}
	if !domain.ValidDonorRole(in.Role) {
		return nil, domain.ValidationError("invalid donor role %q", in.Role)
	}
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	donor := &domain.Donor{
		Name:         strings.TrimSpace(in.Name),
		Email:        normalizeEmail(in.Email),
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Role:         in.Role,
		Country:      in.Country,
	}
	if err := s.donors.Create(ctx, donor); err != nil {
		return nil, err
	}
	s.logger.Info().Str("donor_id", donor.ID).Msg("donor registered")
	return donor, nil
}

// RegisterNGO creates an NGO account with a freshly hashed credential.
func (s *AccountService) RegisterNGO(ctx context.Context, in RegisterNGOInput) (*domain.NGO, error) {
	if err := validateAccountBasics(in.Name, in.Email, in.Password, in.Phone, in.Address); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, in.Email); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}
	ngo := &domain.NGO{
		Name:               strings.TrimSpace(in.Name),
		Email:              normalizeEmail(in.Email),
		PasswordHash:       string(hash),
		Phone:              strings.TrimSpace(in.Phone),
		Address:            strings.TrimSpace(in.Address),
		RegistrationNumber: strings.TrimSpace(in.RegistrationNumber),
		Country:            in.Country,
	}
	if err := s.ngos.Create(ctx, ngo); err != nil {
		return nil, err
	}
	s.logger.Info().Str("ngo_id", ngo.ID).Msg("ngo registered")
	return ngo, nil
}

// LoginDonor verifies a donor credential. Unknown email and bad password
// both surface as ErrUnauthorized; callers must not tell the two apart.
func (s *AccountService) LoginDonor(ctx context.Context, email, password string) (*domain.Donor, error) {
	donor, err := s.donors.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(donor.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return donor, nil
}

// LoginNGO verifies an NGO credential.
func (s *AccountService) LoginNGO(ctx context.Context, email, password string) (*domain.NGO, error) {
	ngo, err := s.ngos.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(ngo.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return ngo, nil
}

// DonorProfile fetches a donor by ID.
func (s *AccountService) DonorProfile(ctx context.Context, id string) (*domain.Donor, error) {
	return s.donors.GetByID(ctx, id)
}

// NGOProfile fetches an NGO by ID.
func (s *AccountService) NGOProfile(ctx context.Context, id string) (*domain.NGO, error) {
	return s.ngos.GetByID(ctx, id)
}

// ensureEmailFree rejects an email already used by either account kind.
func (s *AccountService) ensureEmailFree(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if _, err := s.donors.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if _, err := s.ngos.GetByEmail(ctx, email); err == nil {
		return domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func validateAccountBasics(name, email, password, phone, address string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return domain.ValidationError("name is required")
	case !emailRegexp.MatchString(strings.TrimSpace(email)):
		return domain.ValidationError("a valid email is required")
	case len(password) < 6:
		return domain.ValidationError("password must be at least 6 characters")
	case strings.TrimSpace(phone) == "":
		return domain.ValidationError("phone number is required")
	case strings.TrimSpace(address) == "":
		return domain.ValidationError("address is required")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
