package handlers

import (
	"github.com/sjperalta/lendtrack-api/internal/services"
	"github.com/sjperalta/lendtrack-api/internal/statemachine"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Borrower *BorrowerHandler
	Report   *ReportHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, selector *statemachine.BackendSelector) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(selector),
		Borrower: NewBorrowerHandler(svcs.Borrower),
		Report:   NewReportHandler(svcs.Export),
	}
}
