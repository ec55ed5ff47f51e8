// Package ledger holds the balance arithmetic shared by every storage
// backend. Both the database and the file store persist the same cached
// figures, so the math lives here and nowhere else.
package ledger

import "github.com/sjperalta/lendtrack-api/internal/models"

// TotalInterest computes the simple (non-compounding) interest accrued over
// the fixed term of a loan. The rate is a percentage per period; annual
// rates are normalized to a monthly rate first.
//
// Empty or invalid loans (non-positive amount or term) accrue nothing and
// the loan amount is returned unchanged.
func TotalInterest(loanAmount, interestRate float64, term int, interestType string) float64 {
	if loanAmount <= 0 || term <= 0 {
		return loanAmount
	}

	periodRate := interestRate
	if interestType == models.InterestTypeAnnually {
		periodRate = interestRate / 12
	}

	perPeriod := loanAmount * (periodRate / 100)
	return perPeriod * float64(term)
}

// RemainingBalance computes the net balance of a loan from its components.
// Payment application floors the result at zero; penalty application does
// not, since a penalty can legitimately push an overpaid balance back above
// zero. Callers choose via floor.
func RemainingBalance(loanAmount, totalInterest, totalPenalties, totalPayments float64, floor bool) float64 {
	balance := loanAmount + totalInterest + totalPenalties - totalPayments
	if floor && balance < 0 {
		return 0
	}
	return balance
}

// SumPayments returns the total of all payment amounts.
func SumPayments(payments []models.Payment) float64 {
	var total float64
	for _, p := range payments {
		total += p.Amount
	}
	return total
}

// SumPenalties returns the total of all penalty amounts.
func SumPenalties(penalties []models.Penalty) float64 {
	var total float64
	for _, p := range penalties {
		total += p.Amount
	}
	return total
}
