package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// DonorRepositoryPG implements domain.DonorRepository using PostgreSQL.
type DonorRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonorRepository creates a new donor repo.
func NewDonorRepository(sql infra.SQLExecutor) *DonorRepositoryPG {
	return &DonorRepositoryPG{sql: sql}
}

// Create inserts a donor account and fills the generated fields.
func (r *DonorRepositoryPG) Create(ctx context.Context, d *domain.Donor) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonor,
		d.Name, d.Email, d.PasswordHash, d.Phone, d.Address, string(d.Role), d.Country)
	return scanDonor(row, d)
}

// GetByID loads a donor. Returns domain.ErrNotFound when absent.
func (r *DonorRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donor, error) {
	return r.one(ctx, sqlinline.QSelectDonorByID, id)
}

// GetByEmail loads a donor by email. Returns domain.ErrNotFound when absent.
func (r *DonorRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.Donor, error) {
	return r.one(ctx, sqlinline.QSelectDonorByEmail, email)
}

func (r *DonorRepositoryPG) one(ctx context.Context, query string, arg any) (*domain.Donor, error) {
	row := r.sql.QueryRow(ctx, query, arg)
	var d domain.Donor
	if err := scanDonor(row, &d); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDonor(row pgx.Row, d *domain.Donor) error {
	return row.Scan(&d.ID, &d.Name, &d.Email, &d.PasswordHash, &d.Phone, &d.Address,
		&d.Role, &d.Country, &d.CreatedAt, &d.UpdatedAt)
}

var _ domain.DonorRepository = (*DonorRepositoryPG)(nil)
