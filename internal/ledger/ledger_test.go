package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sjperalta/lendtrack-api/internal/models"
)

func TestTotalInterest(t *testing.T) {
	tests := []struct {
		name         string
		loanAmount   float64
		interestRate float64
		term         int
		interestType string
		expected     float64
	}{
		{
			name:         "Monthly simple interest over fixed term",
			loanAmount:   1000,
			interestRate: 12,
			term:         10,
			interestType: models.InterestTypeMonthly,
			expected:     1200,
		},
		{
			name:         "Annual rate normalized to monthly",
			loanAmount:   1000,
			interestRate: 12,
			term:         10,
			interestType: models.InterestTypeAnnually,
			expected:     100,
		},
		{
			name:         "Zero amount accrues nothing",
			loanAmount:   0,
			interestRate: 12,
			term:         10,
			interestType: models.InterestTypeMonthly,
			expected:     0,
		},
		{
			name:         "Zero term returns amount unchanged",
			loanAmount:   500,
			interestRate: 12,
			term:         0,
			interestType: models.InterestTypeMonthly,
			expected:     500,
		},
		{
			name:         "Negative amount returned unchanged",
			loanAmount:   -50,
			interestRate: 12,
			term:         10,
			interestType: models.InterestTypeMonthly,
			expected:     -50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TotalInterest(tt.loanAmount, tt.interestRate, tt.term, tt.interestType)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestTotalInterestAnnualEqualsMonthlyDividedBy12(t *testing.T) {
	params := []struct {
		amount float64
		rate   float64
		term   int
	}{
		{1000, 12, 10},
		{2500, 7.5, 24},
		{100000, 18, 36},
		{999.99, 1, 1},
	}

	for _, p := range params {
		annual := TotalInterest(p.amount, p.rate, p.term, models.InterestTypeAnnually)
		monthly := TotalInterest(p.amount, p.rate/12, p.term, models.InterestTypeMonthly)
		assert.InDelta(t, monthly, annual, 1e-9)
	}
}

func TestRemainingBalance(t *testing.T) {
	// loan + interest + penalties - payments
	assert.InDelta(t, 2200, RemainingBalance(1000, 1200, 0, 0, false), 1e-9)
	assert.InDelta(t, 1700, RemainingBalance(1000, 1200, 0, 500, true), 1e-9)
	assert.InDelta(t, 2250, RemainingBalance(1000, 1200, 50, 0, false), 1e-9)

	// Payment application floors at zero
	assert.InDelta(t, 0, RemainingBalance(1000, 1200, 0, 5000, true), 1e-9)

	// Penalty application does not floor: a penalty can move an overpaid
	// balance without clamping
	assert.InDelta(t, -2750, RemainingBalance(1000, 1200, 50, 5000, false), 1e-9)
}

func TestSumHelpers(t *testing.T) {
	payments := []models.Payment{{Amount: 100}, {Amount: 250.5}, {Amount: 0.5}}
	assert.InDelta(t, 351, SumPayments(payments), 1e-9)
	assert.InDelta(t, 0, SumPayments(nil), 1e-9)

	penalties := []models.Penalty{{Amount: 50}, {Amount: -25}}
	assert.InDelta(t, 25, SumPenalties(penalties), 1e-9)
	assert.InDelta(t, 0, SumPenalties(nil), 1e-9)
}
