package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// NGORepositoryPG implements domain.NGORepository using PostgreSQL.
type NGORepositoryPG struct {
	sql infra.SQLExecutor
}

// NewNGORepository creates a new NGO repo.
func NewNGORepository(sql infra.SQLExecutor) *NGORepositoryPG {
	return &NGORepositoryPG{sql: sql}
}

// Create inserts an NGO account and fills the generated fields.
func (r *NGORepositoryPG) Create(ctx context.Context, n *domain.NGO) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertNGO,
		n.Name, n.Email, n.PasswordHash, n.Phone, n.Address, n.RegistrationNumber, n.Country)
	return scanNGO(row, n)
}

// GetByID loads an NGO. Returns domain.ErrNotFound when absent.
func (r *NGORepositoryPG) GetByID(ctx context.Context, id string) (*domain.NGO, error) {
	return r.one(ctx, sqlinline.QSelectNGOByID, id)
}

// GetByEmail loads an NGO by email. Returns domain.ErrNotFound when absent.
func (r *NGORepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.NGO, error) {
	return r.one(ctx, sqlinline.QSelectNGOByEmail, email)
}

func (r *NGORepositoryPG) one(ctx context.Context, query string, arg any) (*domain.NGO, error) {
	row := r.sql.QueryRow(ctx, query, arg)
	var n domain.NGO
	if err := scanNGO(row, &n); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func scanNGO(row pgx.Row, n *domain.NGO) error {
	return row.Scan(&n.ID, &n.Name, &n.Email, &n.PasswordHash, &n.Phone, &n.Address,
		&n.RegistrationNumber, &n.IsVerified, &n.Country, &n.CreatedAt, &n.UpdatedAt)
}

var _ domain.NGORepository = (*NGORepositoryPG)(nil)
