package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dairydash-api/internal/middleware"
	"github.com/sjperalta/dairydash-api/internal/repository"
	"github.com/sjperalta/dairydash-api/internal/services"
	"github.com/sjperalta/dairydash-api/pkg/logger"
)

// Handlers holds all handler instances
type Handlers struct {
	Health   *HealthHandler
	Auth     *AuthHandler
	Customer *CustomerHandler
	Delivery *DeliveryHandler
	Billing  *BillingHandler
	Payment  *PaymentHandler
	Bill     *BillHandler
	Voice    *VoiceHandler
	Audit    *AuditHandler
	Job      *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(),
		Auth:     NewAuthHandler(svcs.Auth),
		Customer: NewCustomerHandler(svcs.Customer),
		Delivery: NewDeliveryHandler(svcs.Delivery, svcs.Billing),
		Billing:  NewBillingHandler(svcs.Billing, svcs.Report),
		Payment:  NewPaymentHandler(svcs.Payment),
		Bill:     NewBillHandler(svcs.Bill),
		Voice:    NewVoiceHandler(svcs.Voice),
		Audit:    NewAuditHandler(svcs.Audit),
		Job:      NewJobHandler(svcs.Job),
	}
}

// Register mounts every route under v1. protected must already carry the
// Auth middleware.
func (h *Handlers) Register(v1, protected *gin.RouterGroup) {
	v1.GET("/health", h.Health.Index)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	protected.GET("/auth/me", h.Auth.Me)

	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.Index)
		customers.POST("", h.Customer.Create)
		customers.GET("/:customer_id", h.Customer.Show)
		customers.PATCH("/:customer_id", h.Customer.Update)
		customers.PUT("/:customer_id/outstanding", h.Customer.UpdateOutstanding)
		customers.DELETE("/:customer_id", h.Customer.Delete)

		customers.GET("/:customer_id/deliveries", h.Delivery.Index)
		customers.PUT("/:customer_id/deliveries", h.Delivery.Upsert)
		customers.POST("/:customer_id/deliveries/bulk", h.Delivery.Bulk)
		customers.POST("/:customer_id/deliveries/:date/toggle", h.Delivery.Toggle)
		customers.GET("/:customer_id/calendar", h.Delivery.Calendar)

		customers.GET("/:customer_id/billing", h.Billing.Show)
		customers.POST("/:customer_id/bills", h.Bill.Generate)
	}

	protected.DELETE("/deliveries/:record_id", h.Delivery.Delete)

	protected.GET("/billing/summaries", h.Billing.Index)
	protected.GET("/billing/export", h.Billing.Export)

	payments := protected.Group("/payments")
	{
		payments.GET("", h.Payment.Index)
		payments.POST("", h.Payment.Create)
		payments.GET("/:payment_id", h.Payment.Show)
		payments.DELETE("/:payment_id", h.Payment.Delete)
	}

	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.Index)
		bills.GET("/:bill_id", h.Bill.Show)
		bills.GET("/:bill_id/download", h.Bill.Download)
		bills.POST("/:bill_id/mark_sent", h.Bill.MarkSent)
	}

	protected.POST("/voice/commands", h.Voice.Execute)
	protected.GET("/audits", h.Audit.Index)
	protected.GET("/jobs/status", h.Job.Status)
}

// respondError writes err with the status its service error maps to
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrConstraint), errors.Is(err, services.ErrDuplicate), errors.Is(err, services.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, services.ErrExternalService):
		status = http.StatusBadGateway
	case errors.Is(err, services.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		logger.FromContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	if status == http.StatusBadGateway {
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// badRequest reports a body that could not be bound
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}

// actor builds the session value passed to mutating service calls
func actor(c *gin.Context) services.Actor {
	return services.Actor{
		VendorID:  middleware.GetVendorID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// listQuery reads page, per_page, search and sort ("field-direction")
func listQuery(c *gin.Context) *repository.ListQuery {
	query := repository.NewListQuery()
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		query.Page = page
	}
	if perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20")); err == nil && perPage > 0 && perPage <= 200 {
		query.PerPage = perPage
	}
	query.Search = strings.TrimSpace(c.Query("search"))

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}
	return query
}

func pagination(query *repository.ListQuery, total int64) gin.H {
	return gin.H{
		"page":        query.Page,
		"per_page":    query.PerPage,
		"total":       total,
		"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
	}
}
