package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/calendar"
	"github.com/sjperalta/dairydash-api/internal/models"
	"github.com/sjperalta/dairydash-api/internal/services"
)

type DeliveryHandler struct {
	deliveryService *services.DeliveryService
	billingService  *services.BillingService
}

func NewDeliveryHandler(deliveryService *services.DeliveryService, billingService *services.BillingService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService, billingService: billingService}
}

type BulkDeliveryRequest struct {
	Entries []services.DeliveryEntry `json:"entries" binding:"required,dive"`
}

// @Summary List Delivery Records
// @Description Explicit records within [start, end], oldest first. Days without a record count as delivered. Defaults to the current month.
// @Tags Deliveries
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param start query string false "YYYY-MM-DD"
// @Param end query string false "YYYY-MM-DD"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /customers/{customer_id}/deliveries [get]
func (h *DeliveryHandler) Index(c *gin.Context) {
	start, end := calendar.MonthBounds(h.billingService.Today())
	var err error
	if s := c.Query("start"); s != "" {
		if start, err = calendar.Parse(s); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}
	if e := c.Query("end"); e != "" {
		if end, err = calendar.Parse(e); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	}

	records, err := h.deliveryService.GetRange(c.Request.Context(), actor(c).VendorID, c.Param("customer_id"), start, end)
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]models.DeliveryRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{
		"start":      start.Format(models.DateLayout),
		"end":        end.Format(models.DateLayout),
		"deliveries": responses,
	})
}

// @Summary Set Delivery Status
// @Description Creates or replaces the record for one customer and date
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body services.DeliveryEntry true "Entry"
// @Success 200 {object} models.DeliveryRecordResponse
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /customers/{customer_id}/deliveries [put]
func (h *DeliveryHandler) Upsert(c *gin.Context) {
	var entry services.DeliveryEntry
	if err := c.ShouldBindJSON(&entry); err != nil {
		badRequest(c, err)
		return
	}

	record, err := h.deliveryService.UpsertStatus(c.Request.Context(), actor(c), c.Param("customer_id"), entry)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record.ToResponse())
}

// @Summary Bulk Set Delivery Status
// @Description Writes many dates in one statement; a repeated date keeps its last entry
// @Tags Deliveries
// @Accept json
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param request body BulkDeliveryRequest true "Entries"
// @Success 200 {object} map[string]int
// @Security BearerAuth
// @Router /customers/{customer_id}/deliveries/bulk [post]
func (h *DeliveryHandler) Bulk(c *gin.Context) {
	var req BulkDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.deliveryService.BulkUpsert(c.Request.Context(), actor(c), c.Param("customer_id"), req.Entries)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// @Summary Toggle Delivery
// @Description Flips a day between delivered and skipped
// @Tags Deliveries
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} models.DeliveryRecordResponse
// @Security BearerAuth
// @Router /customers/{customer_id}/deliveries/{date}/toggle [post]
func (h *DeliveryHandler) Toggle(c *gin.Context) {
	record, err := h.deliveryService.Toggle(c.Request.Context(), actor(c), c.Param("customer_id"), c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record.ToResponse())
}

// @Summary Delivery Calendar
// @Description Every day of the month classified as future, before_start, recorded or default_delivered
// @Tags Deliveries
// @Produce json
// @Param customer_id path string true "Customer ID"
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} services.CalendarView
// @Security BearerAuth
// @Router /customers/{customer_id}/calendar [get]
func (h *DeliveryHandler) Calendar(c *gin.Context) {
	month := c.DefaultQuery("month", h.billingService.Today().Format(models.MonthLayout))

	view, err := h.deliveryService.Calendar(c.Request.Context(), actor(c).VendorID, c.Param("customer_id"), month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Delete Delivery Record
// @Description The day returns to its implicit delivered state
// @Tags Deliveries
// @Param record_id path string true "Record ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /deliveries/{record_id} [delete]
func (h *DeliveryHandler) Delete(c *gin.Context) {
	if err := h.deliveryService.DeleteRecord(c.Request.Context(), actor(c), c.Param("record_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// optionalDate parses a query date; an empty value yields nil
func optionalDate(c *gin.Context, key string) (*time.Time, error) {
	s := c.Query(key)
	if s == "" {
		return nil, nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
