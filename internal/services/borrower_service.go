package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sjperalta/lendtrack-api/internal/ledger"
	"github.com/sjperalta/lendtrack-api/internal/models"
	"github.com/sjperalta/lendtrack-api/internal/statemachine"
	"github.com/sjperalta/lendtrack-api/internal/storage"
	"github.com/sjperalta/lendtrack-api/pkg/logger"
)

// BorrowerService orchestrates all borrower operations. It is
// backend-agnostic: every operation resolves the active backend through the
// selector, and both backends reproduce identical balance arithmetic.
type BorrowerService struct {
	selector *statemachine.BackendSelector
}

// NewBorrowerService creates the borrower service
func NewBorrowerService(selector *statemachine.BackendSelector) *BorrowerService {
	return &BorrowerService{selector: selector}
}

// List returns every borrower, newest first. Database failures on this read
// path degrade transparently to the file store.
func (s *BorrowerService) List(ctx context.Context) ([]models.Borrower, error) {
	store := s.selector.Active()
	borrowers, err := store.ListAll(ctx)
	if errors.Is(err, storage.ErrUnavailable) {
		store = s.selector.Fallback(ctx, err)
		borrowers, err = store.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowers: %w", err)
	}
	return borrowers, nil
}

// Get returns one borrower by id
func (s *BorrowerService) Get(ctx context.Context, id string) (*models.Borrower, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: borrower id is required", ErrValidation)
	}

	store := s.selector.Active()
	b, err := store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrUnavailable) {
		store = s.selector.Fallback(ctx, err)
		b, err = store.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Create validates and persists a new borrower with its initial balance
// computed from the loan terms and zero prior history
func (s *BorrowerService) Create(ctx context.Context, b *models.Borrower) (*models.Borrower, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if b.Contact == "" {
		return nil, fmt.Errorf("%w: contact is required", ErrValidation)
	}
	if b.Address == "" {
		return nil, fmt.Errorf("%w: address is required", ErrValidation)
	}

	b.Normalize()
	b.ID = ""
	b.CreatedAt = time.Now()
	b.TotalPenalties = 0

	totalInterest := ledger.TotalInterest(b.LoanAmount, b.InterestRate, b.Term, b.InterestType)
	b.RemainingBalance = ledger.RemainingBalance(b.LoanAmount, totalInterest, 0, 0, false)

	store := s.selector.Active()
	if err := store.Insert(ctx, b); err != nil {
		return nil, s.failWrite(ctx, fmt.Errorf("failed to create borrower: %w", err))
	}
	return b, nil
}

// ApplyPayment appends a payment to a borrower's history and recomputes the
// cached remaining balance, floored at zero. The append and the balance
// update land in the same backend write.
func (s *BorrowerService) ApplyPayment(ctx context.Context, id string, payment models.Payment) (*models.Borrower, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: borrower id is required", ErrValidation)
	}
	if payment.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be greater than zero", ErrValidation)
	}
	if payment.Date.IsZero() {
		payment.Date = time.Now()
	}

	store := s.selector.Active()
	b, err := store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrUnavailable) {
		store = s.selector.Fallback(ctx, err)
		b, err = store.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	totalInterest := ledger.TotalInterest(b.LoanAmount, b.InterestRate, b.Term, b.InterestType)
	totalPayments := ledger.SumPayments(b.Payments) + payment.Amount
	remaining := ledger.RemainingBalance(b.LoanAmount, totalInterest, b.TotalPenalties, totalPayments, true)

	patch := storage.FieldPatch{RemainingBalance: &remaining}
	if err := store.AppendHistory(ctx, id, storage.HistoryPayments, payment, patch); err != nil {
		return nil, s.failWrite(ctx, fmt.Errorf("failed to apply payment: %w", err))
	}

	b.Payments = append(b.Payments, payment)
	b.RemainingBalance = remaining
	return b, nil
}

// ApplyPenalty appends a penalty to a borrower's history and recomputes the
// cached totals. Unlike payments the amount is unrestricted (a negative
// penalty is a credit) and the resulting balance is not floored: a penalty
// can legitimately push an overpaid balance back above zero.
func (s *BorrowerService) ApplyPenalty(ctx context.Context, id string, penalty models.Penalty) (*models.Borrower, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: borrower id is required", ErrValidation)
	}
	if penalty.Reason == "" {
		penalty.Reason = models.DefaultPenaltyReason
	}
	penalty.Date = time.Now()
	penalty.Type = models.PenaltyTypeLabel

	store := s.selector.Active()
	b, err := store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrUnavailable) {
		store = s.selector.Fallback(ctx, err)
		b, err = store.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	totalInterest := ledger.TotalInterest(b.LoanAmount, b.InterestRate, b.Term, b.InterestType)
	totalPenalties := ledger.SumPenalties(b.Penalties) + penalty.Amount
	totalPayments := ledger.SumPayments(b.Payments)
	remaining := ledger.RemainingBalance(b.LoanAmount, totalInterest, totalPenalties, totalPayments, false)

	patch := storage.FieldPatch{
		RemainingBalance: &remaining,
		TotalPenalties:   &totalPenalties,
	}
	if err := store.AppendHistory(ctx, id, storage.HistoryPenalties, penalty, patch); err != nil {
		return nil, s.failWrite(ctx, fmt.Errorf("failed to apply penalty: %w", err))
	}

	b.Penalties = append(b.Penalties, penalty)
	b.TotalPenalties = totalPenalties
	b.RemainingBalance = remaining
	return b, nil
}

// Delete removes a borrower permanently
func (s *BorrowerService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: borrower id is required", ErrValidation)
	}

	store := s.selector.Active()
	if err := store.Remove(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrMalformedID) {
			return err
		}
		return s.failWrite(ctx, fmt.Errorf("failed to delete borrower: %w", err))
	}
	return nil
}

// AuditBalances recomputes every cached balance and reports drift. Run
// periodically by the background worker; the caches are derived values, so
// any drift means a bug or an out-of-band edit of the store.
func (s *BorrowerService) AuditBalances(ctx context.Context) (int, error) {
	borrowers, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	drifted := 0
	for _, b := range borrowers {
		totalInterest := ledger.TotalInterest(b.LoanAmount, b.InterestRate, b.Term, b.InterestType)
		totalPenalties := ledger.SumPenalties(b.Penalties)
		totalPayments := ledger.SumPayments(b.Payments)

		floored := ledger.RemainingBalance(b.LoanAmount, totalInterest, totalPenalties, totalPayments, true)
		unfloored := ledger.RemainingBalance(b.LoanAmount, totalInterest, totalPenalties, totalPayments, false)

		balanceOK := nearlyEqual(b.RemainingBalance, floored) || nearlyEqual(b.RemainingBalance, unfloored)
		penaltiesOK := nearlyEqual(b.TotalPenalties, totalPenalties)

		if !balanceOK || !penaltiesOK {
			drifted++
			logger.Warn("Cached balance drifted from history",
				"borrower_id", b.ID,
				"cached_balance", b.RemainingBalance,
				"recomputed_balance", floored,
				"cached_penalties", b.TotalPenalties,
				"recomputed_penalties", totalPenalties,
			)
		}
	}

	if drifted > 0 {
		logger.Error("Balance audit found drifted records", "count", drifted, "total", len(borrowers))
	} else {
		logger.Debug("Balance audit clean", "total", len(borrowers))
	}
	return drifted, nil
}

// failWrite records a database failure for subsequent calls but still
// surfaces the error: a write must never silently succeed against stale
// state
func (s *BorrowerService) failWrite(ctx context.Context, err error) error {
	if errors.Is(err, storage.ErrUnavailable) {
		s.selector.Fallback(ctx, err)
	}
	return err
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
