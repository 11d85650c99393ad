package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"server/internal/domain"
)

// memDonationRepo is an in-memory stand-in whose Claim mirrors the SQL
// conditional update: the whole check-and-set happens under one lock, so
// concurrent claimers serialize exactly as they do on a database row.
type memDonationRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Donation
}

func newMemDonationRepo() *memDonationRepo {
	return &memDonationRepo{items: make(map[string]*domain.Donation)}
}

func (m *memDonationRepo) Create(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d.ID = uuid.NewString()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memDonationRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDonationRepo) Claim(_ context.Context, id, ngoID string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok || d.Status != domain.StatusPending || (d.NGOID != nil && *d.NGOID != ngoID) {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	d.NGOID = &ngoID
	d.Status = domain.StatusAssigned
	d.ClaimedAt = &now
	d.UpdatedAt = now
	cp := *d
	return &cp, nil
}

func (m *memDonationRepo) UpdateStatus(_ context.Context, id, ngoID string, target domain.DonationStatus) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok || d.NGOID == nil || *d.NGOID != ngoID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	d.Status = target
	if target == domain.StatusCollected && d.CollectedAt == nil {
		d.CollectedAt = &now
	}
	if target == domain.StatusDelivered && d.CompletedAt == nil {
		d.CompletedAt = &now
	}
	d.UpdatedAt = now
	cp := *d
	return &cp, nil
}

func (m *memDonationRepo) ListAvailable(context.Context) ([]domain.DonationView, error) {
	return m.list(func(d *domain.Donation) bool { return d.Status == domain.StatusPending }, byCreatedDesc), nil
}

func (m *memDonationRepo) ListByDonor(_ context.Context, donorID string) ([]domain.DonationView, error) {
	return m.list(func(d *domain.Donation) bool { return d.DonorID == donorID }, byCreatedDesc), nil
}

func (m *memDonationRepo) ListClaimedBy(_ context.Context, ngoID string) ([]domain.DonationView, error) {
	active := map[domain.DonationStatus]bool{
		domain.StatusAssigned:  true,
		domain.StatusCollected: true,
		domain.StatusDelivered: true,
	}
	return m.list(func(d *domain.Donation) bool {
		return d.NGOID != nil && *d.NGOID == ngoID && active[d.Status]
	}, byClaimedDesc), nil
}

func byCreatedDesc(a, b *domain.Donation) bool { return a.CreatedAt.After(b.CreatedAt) }

func byClaimedDesc(a, b *domain.Donation) bool {
	if a.ClaimedAt == nil || b.ClaimedAt == nil {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ClaimedAt.After(*b.ClaimedAt)
}

func (m *memDonationRepo) list(keep func(*domain.Donation) bool, less func(a, b *domain.Donation) bool) []domain.DonationView {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Donation
	for _, d := range m.items {
		if keep(d) {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	views := make([]domain.DonationView, 0, len(out))
	for _, d := range out {
		views = append(views, domain.DonationView{Donation: *d})
	}
	return views
}

type memDonorRepo struct {
	mu    sync.Mutex
	items map[string]*domain.Donor
}

func newMemDonorRepo() *memDonorRepo {
	return &memDonorRepo{items: make(map[string]*domain.Donor)}
}

func (m *memDonorRepo) Create(_ context.Context, d *domain.Donor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	d.CreatedAt = time.Now()
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memDonorRepo) GetByID(_ context.Context, id string) (*domain.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memDonorRepo) GetByEmail(_ context.Context, email string) (*domain.Donor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.items {
		if d.Email == email {
			cp := *d
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func testDonationService(t *testing.T) (*DonationService, *memDonationRepo, *memDonorRepo) {
	t.Helper()
	donations := newMemDonationRepo()
	donors := newMemDonorRepo()
	return NewDonationService(donations, donors, zerolog.Nop()), donations, donors
}

func seedDonor(t *testing.T, donors *memDonorRepo, phone string) *domain.Donor {
	t.Helper()
	donor := &domain.Donor{
		Name:    "Asha Patel",
		Email:   "asha@example.com",
		Phone:   phone,
		Address: "4 Hill Street",
		Role:    domain.DonorIndividual,
	}
	if err := donors.Create(context.Background(), donor); err != nil {
		t.Fatalf("seed donor: %v", err)
	}
	return donor
}

func validInput() DonationInput {
	return DonationInput{
		FoodType:      "cooked rice",
		Quantity:      "5 kg",
		PickupAddress: "12 Mill Road",
		PickupDate:    time.Now().Add(24 * time.Hour),
		ContactPhone:  "555-0100",
	}
}

func TestCreateRejectsPastPickupDate(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	in := validInput()
	in.PickupDate = time.Now().Add(-time.Hour)
	if _, err := svc.Create(context.Background(), donor.ID, in); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("Create() error = %v, want ErrValidation", err)
	}
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	for name, mutate := range map[string]func(*DonationInput){
		"food type":      func(in *DonationInput) { in.FoodType = "  " },
		"quantity":       func(in *DonationInput) { in.Quantity = "" },
		"pickup address": func(in *DonationInput) { in.PickupAddress = "" },
		"contact phone":  func(in *DonationInput) { in.ContactPhone = "" },
		"pickup date":    func(in *DonationInput) { in.PickupDate = time.Time{} },
	} {
		in := validInput()
		mutate(&in)
		if _, err := svc.Create(context.Background(), donor.ID, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("Create() with missing %s: error = %v, want ErrValidation", name, err)
		}
	}
}

func TestCreateYieldsPendingDonation(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if d.Status != domain.StatusPending {
		t.Fatalf("Status = %q, want pending", d.Status)
	}
	if d.NGOID != nil {
		t.Fatalf("NGOID = %v, want nil", *d.NGOID)
	}
	if d.ClaimedAt != nil || d.CollectedAt != nil || d.CompletedAt != nil {
		t.Fatalf("lifecycle timestamps should start unset")
	}
	if d.ID == "" || d.CreatedAt.IsZero() {
		t.Fatalf("record identity not filled: %+v", d)
	}
}

func TestClaimDisclosesDonorContact(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	result, err := svc.Claim(context.Background(), d.ID, "ngo-1")
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if result.Donation.Status != domain.StatusAssigned {
		t.Fatalf("Status = %q, want assigned", result.Donation.Status)
	}
	if result.Donation.NGOID == nil || *result.Donation.NGOID != "ngo-1" {
		t.Fatalf("NGOID = %v, want ngo-1", result.Donation.NGOID)
	}
	if result.Donation.ClaimedAt == nil {
		t.Fatalf("ClaimedAt should be set")
	}
	// Donor has no phone of their own, so the donation's contact phone
	// must be disclosed instead.
	if result.DonorContact.Phone != "555-0100" {
		t.Fatalf("contact phone = %q, want donation fallback", result.DonorContact.Phone)
	}
	if result.DonorContact.Email != donor.Email || result.DonorContact.Name != donor.Name {
		t.Fatalf("contact = %+v, want donor identity", result.DonorContact)
	}
}

func TestClaimOnMissingDonation(t *testing.T) {
	svc, _, _ := testDonationService(t)
	if _, err := svc.Claim(context.Background(), uuid.NewString(), "ngo-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Claim() error = %v, want ErrNotFound", err)
	}
}

func TestSecondClaimReportsCurrentStatus(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Claim(context.Background(), d.ID, "ngo-b"); err != nil {
		t.Fatalf("first Claim() error: %v", err)
	}

	_, err = svc.Claim(context.Background(), d.ID, "ngo-c")
	var transition *domain.TransitionError
	if !errors.As(err, &transition) {
		t.Fatalf("second Claim() error = %v, want TransitionError", err)
	}
	if transition.Current != domain.StatusAssigned {
		t.Fatalf("Current = %q, want assigned", transition.Current)
	}
}

func TestClaimHeldPendingRowByOtherNGO(t *testing.T) {
	svc, donations, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	// Force the defended-against shape: still pending but already holding
	// an NGO reference.
	other := "ngo-x"
	donations.mu.Lock()
	donations.items[d.ID].NGOID = &other
	donations.mu.Unlock()

	if _, err := svc.Claim(context.Background(), d.ID, "ngo-y"); !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("Claim() error = %v, want ErrAlreadyClaimed", err)
	}
}

func TestConcurrentClaimsExactlyOneWins(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	for i := 0; i < 50; i++ {
		d, err := svc.Create(context.Background(), donor.ID, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}

		errs := make(chan error, 2)
		start := make(chan struct{})
		for _, ngo := range []string{"ngo-b", "ngo-c"} {
			go func(ngo string) {
				<-start
				_, err := svc.Claim(context.Background(), d.ID, ngo)
				errs <- err
			}(ngo)
		}
		close(start)

		var wins, conflicts int
		for j := 0; j < 2; j++ {
			err := <-errs
			var transition *domain.TransitionError
			switch {
			case err == nil:
				wins++
			case errors.As(err, &transition):
				if transition.Current != domain.StatusAssigned {
					t.Fatalf("loser saw status %q, want assigned", transition.Current)
				}
				conflicts++
			case errors.Is(err, domain.ErrAlreadyClaimed):
				conflicts++
			default:
				t.Fatalf("unexpected claim error: %v", err)
			}
		}
		if wins != 1 || conflicts != 1 {
			t.Fatalf("round %d: wins=%d conflicts=%d, want exactly one of each", i, wins, conflicts)
		}
	}
}

// flakyClaimRepo drops the first misses Claim attempts with a spurious miss
// while leaving the row untouched, so the caller's re-read still sees a
// pending, claimable donation.
type flakyClaimRepo struct {
	*memDonationRepo
	misses int
}

func (f *flakyClaimRepo) Claim(ctx context.Context, id, ngoID string) (*domain.Donation, error) {
	if f.misses > 0 {
		f.misses--
		return nil, domain.ErrNotFound
	}
	return f.memDonationRepo.Claim(ctx, id, ngoID)
}

func TestClaimRetriesTransientMiss(t *testing.T) {
	donations := &flakyClaimRepo{memDonationRepo: newMemDonationRepo(), misses: 1}
	donors := newMemDonorRepo()
	svc := NewDonationService(donations, donors, zerolog.Nop())
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	result, err := svc.Claim(context.Background(), d.ID, "ngo-b")
	if err != nil {
		t.Fatalf("Claim() after transient miss: error = %v, want success", err)
	}
	if result.Donation.Status != domain.StatusAssigned {
		t.Fatalf("Status = %q, want assigned", result.Donation.Status)
	}
}

func TestClaimLostOnRetryIsConflictNotMissing(t *testing.T) {
	donations := &flakyClaimRepo{memDonationRepo: newMemDonationRepo(), misses: 2}
	donors := newMemDonorRepo()
	svc := NewDonationService(donations, donors, zerolog.Nop())
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	// The donation exists throughout, so the caller must never see a
	// not-found even when both conditional updates miss.
	_, err = svc.Claim(context.Background(), d.ID, "ngo-b")
	if errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Claim() = ErrNotFound for an existing donation")
	}
	if !errors.Is(err, domain.ErrAlreadyClaimed) {
		t.Fatalf("Claim() error = %v, want ErrAlreadyClaimed", err)
	}
}

func TestUpdateStatusByNonOwnerIsForbidden(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Claim(context.Background(), d.ID, "ngo-b"); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}

	for _, target := range []domain.DonationStatus{domain.StatusCollected, domain.StatusDelivered} {
		if _, err := svc.UpdateStatus(context.Background(), d.ID, "ngo-c", target); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("UpdateStatus(%q) error = %v, want ErrForbidden", target, err)
		}
	}
}

func TestUpdateStatusRejectsUnknownTarget(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Claim(context.Background(), d.ID, "ngo-b"); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}

	for _, target := range []domain.DonationStatus{domain.StatusPending, domain.StatusCancelled, "picked-up"} {
		if _, err := svc.UpdateStatus(context.Background(), d.ID, "ngo-b", target); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("UpdateStatus(%q) error = %v, want ErrValidation", target, err)
		}
	}
}

func TestUpdateStatusStampsCollectedOnce(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Claim(context.Background(), d.ID, "ngo-b"); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}

	first, err := svc.UpdateStatus(context.Background(), d.ID, "ngo-b", domain.StatusCollected)
	if err != nil {
		t.Fatalf("UpdateStatus() error: %v", err)
	}
	if first.CollectedAt == nil {
		t.Fatalf("CollectedAt should be set on first collect")
	}

	time.Sleep(5 * time.Millisecond)
	second, err := svc.UpdateStatus(context.Background(), d.ID, "ngo-b", domain.StatusCollected)
	if err != nil {
		t.Fatalf("repeat UpdateStatus() error: %v", err)
	}
	if !second.CollectedAt.Equal(*first.CollectedAt) {
		t.Fatalf("CollectedAt moved from %v to %v on re-apply", first.CollectedAt, second.CollectedAt)
	}
}

func TestLifecycleScenario(t *testing.T) {
	svc, donations, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	// Donor lists a pickup for tomorrow.
	d, err := svc.Create(context.Background(), donor.ID, validInput())
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if d.Status != domain.StatusPending {
		t.Fatalf("Status = %q, want pending", d.Status)
	}

	// NGO B claims it and receives the donor's contact details.
	result, err := svc.Claim(context.Background(), d.ID, "ngo-b")
	if err != nil {
		t.Fatalf("Claim() error: %v", err)
	}
	if result.DonorContact.Name == "" {
		t.Fatalf("donor contact should be disclosed on claim")
	}

	// NGO C is turned away with the current status.
	_, err = svc.Claim(context.Background(), d.ID, "ngo-c")
	var transition *domain.TransitionError
	if !errors.As(err, &transition) || transition.Current != domain.StatusAssigned {
		t.Fatalf("competing claim: err = %v, want TransitionError{assigned}", err)
	}

	// B jumps straight to delivered; no forward-only rule blocks the skip.
	final, err := svc.UpdateStatus(context.Background(), d.ID, "ngo-b", domain.StatusDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus(delivered) error: %v", err)
	}
	if final.Status != domain.StatusDelivered {
		t.Fatalf("Status = %q, want delivered", final.Status)
	}
	if final.CompletedAt == nil {
		t.Fatalf("CompletedAt should be set on delivery")
	}
	if final.CollectedAt != nil {
		t.Fatalf("CollectedAt should stay unset when the collected step was skipped")
	}

	// The claim invariant holds at every step recorded in the store.
	donations.mu.Lock()
	defer donations.mu.Unlock()
	for _, rec := range donations.items {
		active := rec.Status == domain.StatusAssigned ||
			rec.Status == domain.StatusCollected ||
			rec.Status == domain.StatusDelivered
		if active != (rec.NGOID != nil) {
			t.Fatalf("invariant broken: status=%q ngoID=%v", rec.Status, rec.NGOID)
		}
	}
}

func TestQueryViews(t *testing.T) {
	svc, _, donors := testDonationService(t)
	donor := seedDonor(t, donors, "555-0199")

	var ids []string
	for i := 0; i < 3; i++ {
		d, err := svc.Create(context.Background(), donor.ID, validInput())
		if err != nil {
			t.Fatalf("Create() error: %v", err)
		}
		ids = append(ids, d.ID)
		time.Sleep(2 * time.Millisecond)
	}

	if _, err := svc.Claim(context.Background(), ids[1], "ngo-b"); err != nil {
		t.Fatalf("Claim() error: %v", err)
	}

	available, err := svc.Available(context.Background())
	if err != nil {
		t.Fatalf("Available() error: %v", err)
	}
	if len(available) != 2 {
		t.Fatalf("Available() len = %d, want 2", len(available))
	}
	if available[0].ID != ids[2] {
		t.Fatalf("Available() should be newest first, got %q", available[0].ID)
	}

	mine, err := svc.MyDonations(context.Background(), donor.ID)
	if err != nil {
		t.Fatalf("MyDonations() error: %v", err)
	}
	if len(mine) != 3 {
		t.Fatalf("MyDonations() len = %d, want all statuses included", len(mine))
	}

	claimed, err := svc.ClaimedBy(context.Background(), "ngo-b")
	if err != nil {
		t.Fatalf("ClaimedBy() error: %v", err)
	}
	if len(claimed) != 1 || claimed[0].ID != ids[1] {
		t.Fatalf("ClaimedBy() = %+v, want just the claimed record", claimed)
	}
}
