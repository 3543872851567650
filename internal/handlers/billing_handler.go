package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
	reportService  *services.ReportService
}

func NewBillingHandler(billingService *services.BillingService, reportService *services.ReportService) *BillingHandler {
	return &BillingHandler{billingService: billingService, reportService: reportService}
}

// @Summary Billing Summary
// @Description Computes the customer's bill from the start date (or customer start) to the end date (or today)
// @Tags Billing
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD"
// @Success 200 {object} models.BillingSummaryResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id}/billing [get]
func (h *BillingHandler) Show(c *gin.Context) {
	start, err := optionalDate(c, "start")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	end, err := optionalDate(c, "end")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	summary, err := h.billingService.CalculateBill(c.Request.Context(), actor(c).VendorID, c.Param("customer_id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary.ToResponse())
}

// @Summary All Billing Summaries
// @Description One summary per customer, each up to today
// @Tags Billing
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /billing/summaries [get]
func (h *BillingHandler) Index(c *gin.Context) {
	summaries, err := h.billingService.AllSummaries(c.Request.Context(), actor(c).VendorID)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.BillingSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		responses = append(responses, s.ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"summaries": responses})
}

// @Summary Export Billing Summaries
// @Tags Billing
// @Produce application/octet-stream
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Security BearerAuth
// @Router /billing/export [get]
func (h *BillingHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", services.FormatCSV)

	data, filename, err := h.reportService.ExportSummaries(c.Request.Context(), actor(c).VendorID, format)
	if err != nil {
		respondError(c, err)
		return
	}

	contentType := "text/csv"
	if format == services.FormatXLSX {
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
