package services

import (
	"github.com/sjperalta/lendtrack-api/internal/statemachine"
)

// Services holds all service instances
type Services struct {
	Borrower *BorrowerService
	Export   *ExportService
}

// NewServices creates all service instances
func NewServices(selector *statemachine.BackendSelector) *Services {
	borrowerSvc := NewBorrowerService(selector)

	return &Services{
		Borrower: borrowerSvc,
		Export:   NewExportService(borrowerSvc),
	}
}
