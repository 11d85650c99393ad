package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Create inserts a new pending donation and fills the generated fields.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.Donation) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonation,
		d.DonorID, d.FoodType, d.Quantity, d.Description,
		d.PickupAddress, d.PickupDate, d.ContactPhone, d.Notes)
	return scanDonation(row, d)
}

// GetByID loads a single donation. Returns domain.ErrNotFound when absent.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectDonationByID, id)
	var d domain.Donation
	if err := scanDonation(row, &d); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Claim runs the conditional assign update. The WHERE clause is the
// compare-and-swap: only a still-pending, unclaimed row (or one already held
// by the same NGO) matches, so concurrent claimers serialize on the row and
// at most one succeeds. A miss surfaces as domain.ErrNotFound; the service
// re-reads to tell "gone" from "lost the race".
func (r *DonationRepositoryPG) Claim(ctx context.Context, id, ngoID string) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QClaimDonation, id, ngoID)
	var d domain.Donation
	if err := scanDonation(row, &d); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// UpdateStatus applies target for the owning NGO. Timestamp stamping is done
// in SQL so re-applying a status never overwrites collected_at/completed_at.
func (r *DonationRepositoryPG) UpdateStatus(ctx context.Context, id, ngoID string, target domain.DonationStatus) (*domain.Donation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateDonationStatus, id, ngoID, string(target))
	var d domain.Donation
	if err := scanDonation(row, &d); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// ListAvailable returns pending donations with their donors, newest first.
func (r *DonationRepositoryPG) ListAvailable(ctx context.Context) ([]domain.DonationView, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListAvailableDonations)
	if err != nil {
		return nil, err
	}
	return collectViews(rows, partyDonor)
}

// ListByDonor returns a donor's own donations, newest first, with the
// claiming NGO attached where one exists.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, donorID string) ([]domain.DonationView, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListDonationsByDonor, donorID)
	if err != nil {
		return nil, err
	}
	return collectViews(rows, partyNGO)
}

// ListClaimedBy returns the donations an NGO currently holds, most recently
// claimed first.
func (r *DonationRepositoryPG) ListClaimedBy(ctx context.Context, ngoID string) ([]domain.DonationView, error) {
	statuses := make([]string, 0, len(domain.ActiveStatuses))
	for _, s := range domain.ActiveStatuses {
		statuses = append(statuses, string(s))
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListClaimedDonations, ngoID, statuses)
	if err != nil {
		return nil, err
	}
	return collectViews(rows, partyDonor)
}

type partyKind int

const (
	partyDonor partyKind = iota
	partyNGO
)

func scanDonation(row pgx.Row, d *domain.Donation) error {
	return row.Scan(
		&d.ID, &d.DonorID, &d.NGOID, &d.Status, &d.FoodType, &d.Quantity, &d.Description,
		&d.PickupAddress, &d.PickupDate, &d.ContactPhone, &d.Notes,
		&d.ClaimedAt, &d.CollectedAt, &d.CompletedAt, &d.CreatedAt, &d.UpdatedAt)
}

func collectViews(rows pgx.Rows, kind partyKind) ([]domain.DonationView, error) {
	defer rows.Close()

	var items []domain.DonationView
	for rows.Next() {
		var v domain.DonationView
		var pID, pName, pEmail, pPhone, pAddress *string
		if err := rows.Scan(
			&v.ID, &v.DonorID, &v.NGOID, &v.Status, &v.FoodType, &v.Quantity, &v.Description,
			&v.PickupAddress, &v.PickupDate, &v.ContactPhone, &v.Notes,
			&v.ClaimedAt, &v.CollectedAt, &v.CompletedAt, &v.CreatedAt, &v.UpdatedAt,
			&pID, &pName, &pEmail, &pPhone, &pAddress,
		); err != nil {
			return nil, err
		}
		if pID != nil {
			summary := &domain.PartySummary{
				ID:      *pID,
				Name:    deref(pName),
				Email:   deref(pEmail),
				Phone:   deref(pPhone),
				Address: deref(pAddress),
			}
			switch kind {
			case partyDonor:
				v.Donor = summary
			case partyNGO:
				v.NGO = summary
			}
		}
		items = append(items, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
