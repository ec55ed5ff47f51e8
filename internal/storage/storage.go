package storage

import (
	"context"
	"errors"

	"github.com/sjperalta/lendtrack-api/internal/models"
)

// Storage errors shared by both backends
var (
	ErrNotFound    = errors.New("borrower not found")
	ErrMalformedID = errors.New("malformed borrower id")
	ErrUnavailable = errors.New("storage backend unavailable")
)

// HistoryKind selects which append-only history an AppendHistory call targets
type HistoryKind string

const (
	HistoryPayments  HistoryKind = "payments"
	HistoryPenalties HistoryKind = "penalties"
)

// FieldPatch is a partial update of a borrower's cached fields. Nil fields
// are left untouched. Both backends apply the patch and the history append
// as a single write from the caller's perspective.
type FieldPatch struct {
	RemainingBalance *float64
	TotalPenalties   *float64
	NextDueDate      *string
	MonthlyPayment   *float64
}

// BorrowerStore is the capability set every persistence backend must
// provide. The service layer is backend-agnostic: it talks to whichever
// implementation the selector resolves per operation.
type BorrowerStore interface {
	// ListAll returns every borrower, newest first.
	ListAll(ctx context.Context) ([]models.Borrower, error)
	// FindByID returns one borrower or ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Borrower, error)
	// Insert assigns an identifier and persists the borrower.
	Insert(ctx context.Context, b *models.Borrower) error
	// UpdateFields applies a partial update to a borrower's cached fields.
	UpdateFields(ctx context.Context, id string, patch FieldPatch) error
	// AppendHistory appends a Payment or Penalty record and applies the
	// field patch in the same write.
	AppendHistory(ctx context.Context, id string, kind HistoryKind, record any, patch FieldPatch) error
	// Remove deletes a borrower permanently. No tombstone is kept.
	Remove(ctx context.Context, id string) error
	// Name identifies the backend in logs and health output.
	Name() string
}
