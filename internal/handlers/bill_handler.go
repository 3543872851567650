package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type BillHandler struct {
	billService *services.BillService
}

func NewBillHandler(billService *services.BillService) *BillHandler {
	return &BillHandler{billService: billService}
}

type GenerateBillRequest struct {
	Month string `json:"month" binding:"required"`
}

// @Summary Generate Monthly Bill
// @Description Computes the month's bill, replacing an existing one, and renders its PDF
// @Tags Bills
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body GenerateBillRequest true "Month as YYYY-MM"
// @Success 200 {object} models.BillResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id}/bills [post]
func (h *BillHandler) Generate(c *gin.Context) {
	var req GenerateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	bill, err := h.billService.GenerateMonthly(c.Request.Context(), actor(c), c.Param("customer_id"), req.Month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill.ToResponse())
}

// @Summary List Bills
// @Tags Bills
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param customer_id query string false "Filter by customer"
// @Param status query string false "draft, sent, paid or partial"
// @Param month query string false "YYYY-MM"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /bills [get]
func (h *BillHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["customer_id"] = c.Query("customer_id")
	query.Filters["status"] = c.Query("status")
	query.Filters["month"] = c.Query("month")

	bills, total, err := h.billService.List(c.Request.Context(), actor(c).VendorID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.BillResponse, 0, len(bills))
	for i := range bills {
		responses = append(responses, bills[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"bills":      responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Get Bill
// @Tags Bills
// @Produce json
// @Param bill_id path string true "Bill ID"
// @Success 200 {object} models.BillResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /bills/{bill_id} [get]
func (h *BillHandler) Show(c *gin.Context) {
	bill, err := h.billService.Get(c.Request.Context(), actor(c).VendorID, c.Param("bill_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill.ToResponse())
}

// @Summary Download Bill PDF
// @Description Accepts the access token as the token query parameter for direct links
// @Tags Bills
// @Produce application/pdf
// @Param bill_id path string true "Bill ID"
// @Success 200 {file} file
// @Security BearerAuth
// @Router /bills/{bill_id}/download [get]
func (h *BillHandler) Download(c *gin.Context) {
	data, filename, err := h.billService.Download(c.Request.Context(), actor(c).VendorID, c.Param("bill_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// @Summary Mark Bill Sent
// @Description Records that the bill was shared over WhatsApp
// @Tags Bills
// @Produce json
// @Param bill_id path string true "Bill ID"
// @Success 200 {object} models.BillResponse
// @Security BearerAuth
// @Router /bills/{bill_id}/mark_sent [post]
func (h *BillHandler) MarkSent(c *gin.Context) {
	bill, err := h.billService.MarkSent(c.Request.Context(), actor(c), c.Param("bill_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bill.ToResponse())
}
