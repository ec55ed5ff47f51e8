package models

import "time"

// Interest type constants
const (
	InterestTypeMonthly  = "monthly"
	InterestTypeAnnually = "annually"
)

// Penalty constants
const (
	PenaltyTypeLabel     = "penalty"
	DefaultPenaltyReason = "Penalty charge"
)

// Payment represents a single payment applied to a borrower's loan.
// Payments are append-only: once recorded they are never modified or removed.
type Payment struct {
	Amount float64   `json:"amount" bson:"amount"`
	Date   time.Time `json:"date" bson:"date"`
	Note   string    `json:"note,omitempty" bson:"note,omitempty"`
}

// Penalty represents a penalty (or credit) applied to a borrower's loan.
// Like payments, penalties are append-only history.
type Penalty struct {
	Amount float64   `json:"amount" bson:"amount"`
	Reason string    `json:"reason" bson:"reason"`
	Date   time.Time `json:"date" bson:"date"`
	Type   string    `json:"type" bson:"type"`
}

// Borrower is a loan account with its full payment and penalty history.
//
// TotalPenalties and RemainingBalance are caches: they are always
// recomputable from the loan terms and the two history sequences, and are
// kept consistent by the service on every mutation.
type Borrower struct {
	ID               string    `json:"id" bson:"-"`
	Name             string    `json:"name" bson:"name"`
	Contact          string    `json:"contact" bson:"contact"`
	Address          string    `json:"address" bson:"address"`
	LoanAmount       float64   `json:"loanAmount" bson:"loanAmount"`
	Term             int       `json:"term" bson:"term"`
	InterestRate     float64   `json:"interestRate" bson:"interestRate"`
	InterestType     string    `json:"interestType" bson:"interestType"`
	NextDueDate      string    `json:"nextDueDate,omitempty" bson:"nextDueDate,omitempty"`
	MonthlyPayment   float64   `json:"monthlyPayment" bson:"monthlyPayment"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
	Payments         []Payment `json:"payments" bson:"payments"`
	Penalties        []Penalty `json:"penalties" bson:"penalties"`
	TotalPenalties   float64   `json:"totalPenalties" bson:"totalPenalties"`
	RemainingBalance float64   `json:"remainingBalance" bson:"remainingBalance"`
}

// Normalize fills defaults on a freshly built borrower so every persisted
// record carries the same shape regardless of what the client sent.
func (b *Borrower) Normalize() {
	if b.InterestType != InterestTypeAnnually {
		b.InterestType = InterestTypeMonthly
	}
	if b.Payments == nil {
		b.Payments = []Payment{}
	}
	if b.Penalties == nil {
		b.Penalties = []Penalty{}
	}
}
