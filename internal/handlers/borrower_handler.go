package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/sjperalta/lendtrack-api/internal/models"
	"github.com/sjperalta/lendtrack-api/internal/services"
	"github.com/sjperalta/lendtrack-api/internal/storage"
)

type BorrowerHandler struct {
	borrowerService *services.BorrowerService
}

func NewBorrowerHandler(borrowerService *services.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowerService: borrowerService}
}

// CreateBorrowerRequest is the payload for creating a borrower
type CreateBorrowerRequest struct {
	Name           string  `json:"name"`
	Contact        string  `json:"contact"`
	Address        string  `json:"address"`
	LoanAmount     float64 `json:"loanAmount"`
	Term           int     `json:"term"`
	InterestRate   float64 `json:"interestRate"`
	InterestType   string  `json:"interestType"`
	NextDueDate    string  `json:"nextDueDate"`
	MonthlyPayment float64 `json:"monthlyPayment"`
}

// MutationRequest carries exactly one of a payment or a penalty
type MutationRequest struct {
	Payment *PaymentRequest `json:"payment"`
	Penalty *PenaltyRequest `json:"penalty"`
}

// PaymentRequest is the payload for applying a payment
type PaymentRequest struct {
	Amount float64    `json:"amount"`
	Date   *time.Time `json:"date"`
	Note   string     `json:"note"`
}

// PenaltyRequest is the payload for applying a penalty
type PenaltyRequest struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// @Summary List Borrowers
// @Description Get all borrowers, newest first
// @Tags Borrowers
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /borrowers [get]
func (h *BorrowerHandler) Index(c *gin.Context) {
	borrowers, err := h.borrowerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrowers": borrowers})
}

// @Summary Create Borrower
// @Description Create a borrower with its initial computed balance
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param request body CreateBorrowerRequest true "Borrower fields (flat or wrapped in a borrower key)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /borrowers [post]
func (h *BorrowerHandler) Create(c *gin.Context) {
	var req CreateBorrowerRequest
	if err := BindNestedOrFlat(c, "borrower", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	borrower := &models.Borrower{
		Name:           req.Name,
		Contact:        req.Contact,
		Address:        req.Address,
		LoanAmount:     req.LoanAmount,
		Term:           req.Term,
		InterestRate:   req.InterestRate,
		InterestType:   req.InterestType,
		NextDueDate:    req.NextDueDate,
		MonthlyPayment: req.MonthlyPayment,
	}

	created, err := h.borrowerService.Create(c.Request.Context(), borrower)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   "created",
		"borrower": created,
	})
}

// @Summary Get Borrower
// @Description Get a borrower by id
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrower_id path string true "Borrower ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /borrowers/{borrower_id} [get]
func (h *BorrowerHandler) Show(c *gin.Context) {
	borrower, err := h.borrowerService.Get(c.Request.Context(), c.Param("borrower_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrower": borrower})
}

// @Summary Apply Mutation
// @Description Apply a payment or a penalty to a borrower
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrower_id path string true "Borrower ID"
// @Param request body MutationRequest true "Exactly one of payment or penalty"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /borrowers/{borrower_id} [put]
func (h *BorrowerHandler) Update(c *gin.Context) {
	id := c.Param("borrower_id")

	var req MutationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if (req.Payment == nil) == (req.Penalty == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request must carry exactly one of payment or penalty"})
		return
	}

	var (
		borrower *models.Borrower
		err      error
	)
	if req.Payment != nil {
		payment := models.Payment{Amount: req.Payment.Amount, Note: req.Payment.Note}
		if req.Payment.Date != nil {
			payment.Date = *req.Payment.Date
		}
		borrower, err = h.borrowerService.ApplyPayment(c.Request.Context(), id, payment)
	} else {
		penalty := models.Penalty{Amount: req.Penalty.Amount, Reason: req.Penalty.Reason}
		borrower, err = h.borrowerService.ApplyPenalty(c.Request.Context(), id, penalty)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"borrower":         borrower,
		"remainingBalance": borrower.RemainingBalance,
		"totalPenalties":   borrower.TotalPenalties,
	})
}

// @Summary Delete Borrower
// @Description Remove a borrower permanently
// @Tags Borrowers
// @Accept json
// @Produce json
// @Param borrower_id path string true "Borrower ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /borrowers/{borrower_id} [delete]
func (h *BorrowerHandler) Delete(c *gin.Context) {
	if err := h.borrowerService.Delete(c.Request.Context(), c.Param("borrower_id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// respondError maps service and storage errors to HTTP outcomes. Unknown
// errors are reported to Sentry and come back as a generic server error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrMalformedID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed borrower id"})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
	default:
		sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
