package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type CustomerHandler struct {
	customerService *services.CustomerService
}

func NewCustomerHandler(customerService *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

type OutstandingRequest struct {
	OutstandingAmount *decimal.Decimal `json:"outstanding_amount" binding:"required"`
}

// @Summary List Customers
// @Description The vendor's customers, newest first
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param search query string false "Name or phone contains"
// @Param payment_status query string false "paid or unpaid"
// @Param milk_type query string false "cow or buffalo"
// @Param sort query string false "field-direction, e.g. name-asc"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers [get]
func (h *CustomerHandler) Index(c *gin.Context) {
	query := listQuery(c)
	query.Filters["payment_status"] = c.Query("payment_status")
	query.Filters["milk_type"] = c.Query("milk_type")

	customers, total, err := h.customerService.List(c.Request.Context(), actor(c).VendorID, query)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.CustomerResponse, 0, len(customers))
	for i := range customers {
		responses = append(responses, customers[i].ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":  responses,
		"pagination": pagination(query, total),
	})
}

// @Summary Get Customer
// @Tags Customers
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *CustomerHandler) Show(c *gin.Context) {
	customer, err := h.customerService.Get(c.Request.Context(), actor(c).VendorID, c.Param("customer_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer.ToResponse())
}

// @Summary Create Customer
// @Description Accepts the customer object bare or wrapped in "customer"
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body services.CustomerInput true "Customer"
// @Success 201 {object} models.CustomerResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var in services.CustomerInput
	if err := BindNestedOrFlat(c, "customer", &in); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), actor(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer.ToResponse())
}

// @Summary Update Customer
// @Description Only the fields present are changed
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body services.CustomerInput true "Customer fields"
// @Success 200 {object} models.CustomerResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [patch]
func (h *CustomerHandler) Update(c *gin.Context) {
	var in services.CustomerInput
	if err := BindNestedOrFlat(c, "customer", &in); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), actor(c), c.Param("customer_id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer.ToResponse())
}

// @Summary Set Outstanding Amount
// @Tags Customers
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body OutstandingRequest true "Amount"
// @Success 200 {object} models.CustomerResponse
// @Security BearerAuth
// @Router /customers/{customer_id}/outstanding [put]
func (h *CustomerHandler) UpdateOutstanding(c *gin.Context) {
	var req OutstandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	customer, err := h.customerService.UpdateOutstanding(c.Request.Context(), actor(c), c.Param("customer_id"), *req.OutstandingAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer.ToResponse())
}

// @Summary Delete Customer
// @Description Fails with 409 while delivery records exist unless purge_ledger=true
// @Tags Customers
// @Param customer_id path string true "Customer ID"
// @Param purge_ledger query bool false "Also delete the customer's delivery records"
// @Success 204
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	purge := c.Query("purge_ledger") == "true"
	if err := h.customerService.Delete(c.Request.Context(), actor(c), c.Param("customer_id"), purge); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
