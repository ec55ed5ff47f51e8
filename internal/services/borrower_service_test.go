package services

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjperalta/lendtrack-api/internal/models"
	"github.com/sjperalta/lendtrack-api/internal/statemachine"
	"github.com/sjperalta/lendtrack-api/internal/storage"
	"github.com/sjperalta/lendtrack-api/pkg/logger"
)

// unavailableStore simulates a database whose connection is down: every
// operation fails with ErrUnavailable
type unavailableStore struct{}

func (s *unavailableStore) ListAll(ctx context.Context) ([]models.Borrower, error) {
	return nil, fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) FindByID(ctx context.Context, id string) (*models.Borrower, error) {
	return nil, fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) Insert(ctx context.Context, b *models.Borrower) error {
	return fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) UpdateFields(ctx context.Context, id string, patch storage.FieldPatch) error {
	return fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) AppendHistory(ctx context.Context, id string, kind storage.HistoryKind, record any, patch storage.FieldPatch) error {
	return fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) Remove(ctx context.Context, id string) error {
	return fmt.Errorf("%w: connection refused", storage.ErrUnavailable)
}
func (s *unavailableStore) Name() string { return "database" }

func newFileBackedService(t *testing.T) *BorrowerService {
	t.Helper()
	logger.Setup("test")

	fileStore, err := storage.NewFileStore(filepath.Join(t.TempDir(), "borrowers.json"))
	require.NoError(t, err)

	selector := statemachine.NewBackendSelector(nil, fileStore)
	return NewBorrowerService(selector)
}

func createBorrower(t *testing.T, svc *BorrowerService) *models.Borrower {
	t.Helper()
	b, err := svc.Create(context.Background(), &models.Borrower{
		Name:         "Ana Morales",
		Contact:      "555-0100",
		Address:      "12 Main St",
		LoanAmount:   1000,
		Term:         10,
		InterestRate: 12,
		InterestType: models.InterestTypeMonthly,
	})
	require.NoError(t, err)
	return b
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		borrower models.Borrower
	}{
		{"Missing name", models.Borrower{Contact: "555", Address: "addr"}},
		{"Missing contact", models.Borrower{Name: "Ana", Address: "addr"}},
		{"Missing address", models.Borrower{Name: "Ana", Contact: "555"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.borrower
			_, err := svc.Create(ctx, &b)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateComputesInitialBalance(t *testing.T) {
	svc := newFileBackedService(t)

	b := createBorrower(t, svc)

	// 1000 + (1000 * 12% per period * 10 periods)
	assert.InDelta(t, 2200, b.RemainingBalance, 1e-9)
	assert.NotEmpty(t, b.ID)
	assert.False(t, b.CreatedAt.IsZero())
	assert.NotNil(t, b.Payments)
	assert.NotNil(t, b.Penalties)
	assert.Zero(t, b.TotalPenalties)
}

func TestCreateDefaultsInterestType(t *testing.T) {
	svc := newFileBackedService(t)

	b, err := svc.Create(context.Background(), &models.Borrower{
		Name:    "Ana",
		Contact: "555",
		Address: "addr",
	})
	require.NoError(t, err)
	assert.Equal(t, models.InterestTypeMonthly, b.InterestType)
	// Empty loan accrues nothing
	assert.Zero(t, b.RemainingBalance)
}

func TestApplyPaymentReducesBalance(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)

	updated, err := svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: 500})
	require.NoError(t, err)
	assert.InDelta(t, 1700, updated.RemainingBalance, 1e-9)
	require.Len(t, updated.Payments, 1)
	assert.False(t, updated.Payments[0].Date.IsZero())

	// Stored state matches the returned record
	stored, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.InDelta(t, 1700, stored.RemainingBalance, 1e-9)
}

func TestApplyPaymentFloorsAtZero(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)

	updated, err := svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: 5000})
	require.NoError(t, err)
	assert.Zero(t, updated.RemainingBalance)
}

func TestApplyPaymentValidation(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)

	_, err := svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: 0})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: -10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ApplyPayment(ctx, "", models.Payment{Amount: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ApplyPayment(ctx, "missing-id", models.Payment{Amount: 10})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestApplyPenaltyIncreasesBalance(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)

	updated, err := svc.ApplyPenalty(ctx, b.ID, models.Penalty{Amount: 50})
	require.NoError(t, err)
	assert.InDelta(t, 50, updated.TotalPenalties, 1e-9)
	assert.InDelta(t, 2250, updated.RemainingBalance, 1e-9)
	require.Len(t, updated.Penalties, 1)
	assert.Equal(t, models.DefaultPenaltyReason, updated.Penalties[0].Reason)
	assert.Equal(t, models.PenaltyTypeLabel, updated.Penalties[0].Type)
	assert.False(t, updated.Penalties[0].Date.IsZero())
}

func TestApplyPenaltyDoesNotFloor(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	// An empty loan: overpaying floors the cached balance at zero, but a
	// later penalty recomputes without the floor and exposes the surplus
	b, err := svc.Create(context.Background(), &models.Borrower{
		Name:    "Ana",
		Contact: "555",
		Address: "addr",
	})
	require.NoError(t, err)

	paid, err := svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: 100})
	require.NoError(t, err)
	assert.Zero(t, paid.RemainingBalance)

	penalized, err := svc.ApplyPenalty(ctx, b.ID, models.Penalty{Amount: 50, Reason: "late fee"})
	require.NoError(t, err)
	assert.InDelta(t, -50, penalized.RemainingBalance, 1e-9)
	assert.InDelta(t, 50, penalized.TotalPenalties, 1e-9)
}

func TestDeleteBorrower(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), storage.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, "never-existed"), storage.ErrNotFound)
}

func TestListIsStableAcrossReads(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	createBorrower(t, svc)
	createBorrower(t, svc)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestReadPathFailoverIsTransparent(t *testing.T) {
	logger.Setup("test")
	ctx := context.Background()

	fileStore, err := storage.NewFileStore(filepath.Join(t.TempDir(), "borrowers.json"))
	require.NoError(t, err)

	selector := statemachine.NewBackendSelector(&unavailableStore{}, fileStore)
	svc := NewBorrowerService(selector)

	// The read degrades to the file store without surfacing the failure
	borrowers, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, borrowers)
	assert.Equal(t, statemachine.StateFileActive, selector.State())

	// Subsequent operations run against the file backend
	b := createBorrower(t, svc)
	borrowers, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, borrowers, 1)
	assert.Equal(t, b.ID, borrowers[0].ID)
}

func TestWritePathFailureSurfacesButFailsOver(t *testing.T) {
	logger.Setup("test")
	ctx := context.Background()

	fileStore, err := storage.NewFileStore(filepath.Join(t.TempDir(), "borrowers.json"))
	require.NoError(t, err)

	selector := statemachine.NewBackendSelector(&unavailableStore{}, fileStore)
	svc := NewBorrowerService(selector)

	// The failed write is reported, never silently retried elsewhere
	_, err = svc.Create(ctx, &models.Borrower{Name: "Ana", Contact: "555", Address: "addr"})
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	// But the selector has failed over for everything that follows
	assert.Equal(t, statemachine.StateFileActive, selector.State())
	_, err = svc.Create(ctx, &models.Borrower{Name: "Ana", Contact: "555", Address: "addr"})
	assert.NoError(t, err)
}

func TestAuditBalancesDetectsDrift(t *testing.T) {
	svc := newFileBackedService(t)
	ctx := context.Background()

	b := createBorrower(t, svc)
	_, err := svc.ApplyPayment(ctx, b.ID, models.Payment{Amount: 300})
	require.NoError(t, err)

	drifted, err := svc.AuditBalances(ctx)
	require.NoError(t, err)
	assert.Zero(t, drifted)

	// Corrupt the cache out of band
	bad := 9999.0
	store := svc.selector.Active()
	require.NoError(t, store.UpdateFields(ctx, b.ID, storage.FieldPatch{RemainingBalance: &bad}))

	drifted, err = svc.AuditBalances(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, drifted)
}
