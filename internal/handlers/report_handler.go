package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sjperalta/lendtrack-api/internal/services"
)

type ReportHandler struct {
	exportService *services.ExportService
}

func NewReportHandler(exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{exportService: exportService}
}

// @Summary Borrowers CSV
// @Description Download the whole portfolio as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /reports/borrowers_csv [get]
func (h *ReportHandler) BorrowersCSV(c *gin.Context) {
	data, filename, err := h.exportService.BorrowersCSV(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", data)
}

// @Summary Borrowers XLSX
// @Description Download the whole portfolio as a spreadsheet
// @Tags Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /reports/borrowers_xlsx [get]
func (h *ReportHandler) BorrowersXLSX(c *gin.Context) {
	data, filename, err := h.exportService.BorrowersXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// @Summary Borrower Statement PDF
// @Description Download a borrower's loan statement
// @Tags Reports
// @Produce application/pdf
// @Param borrower_id path string true "Borrower ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /borrowers/{borrower_id}/statement_pdf [get]
func (h *ReportHandler) StatementPDF(c *gin.Context) {
	data, filename, err := h.exportService.StatementPDF(c.Request.Context(), c.Param("borrower_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}
