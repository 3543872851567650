package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// @Summary List Payments
// @Description A paginated list of the vendor's payments, latest first
// @Tags Payments
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param customer_id query string false "Filter by customer"
// @Param payment_method query string false "cash, upi, card or bank"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /payments [get]
func (h *PaymentHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["customer_id"] = c.Query("customer_id")
	query.Filters["payment_method"] = c.Query("payment_method")
	query.Filters["start_date"] = c.Query("start_date")
	query.Filters["end_date"] = c.Query("end_date")

	payments, total, err := h.paymentService.List(c.Request.Context(), actor(c).VendorID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Get Payment
// @Tags Payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} models.PaymentResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [get]
func (h *PaymentHandler) Show(c *gin.Context) {
	payment, err := h.paymentService.Get(c.Request.Context(), actor(c).VendorID, c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment.ToResponse())
}

// @Summary Record Payment
// @Description Stores the payment and reduces the customer's outstanding amount
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body services.PaymentInput true "Payment"
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /payments [post]
func (h *PaymentHandler) Create(c *gin.Context) {
	var in services.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.paymentService.Record(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"payment":  result.Payment.ToResponse(),
		"customer": result.Customer.ToResponse(),
	})
}

// @Summary Delete Payment
// @Description Removes the payment and restores the customer's outstanding amount
// @Tags Payments
// @Produce json
// @Param payment_id path string true "Payment ID"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /payments/{payment_id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	customer, err := h.paymentService.Delete(c.Request.Context(), actor(c), c.Param("payment_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer.ToResponse()})
}
