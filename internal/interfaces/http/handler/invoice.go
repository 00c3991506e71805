package handler

import (
	tradeapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice lifecycle endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *tradeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// RegisterRoutes mounts the invoice routes. Mutations accept an Idempotency-Key header.
func (h *InvoiceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	invoices := rg.Group("/invoices")
	invoices.GET("", h.List)
	invoices.GET("/number/:number", h.GetByNumber)
	invoices.GET("/:id", h.GetByID)

	mutating := invoices.Group("", middleware.IdempotencyKey())
	mutating.POST("", h.Create)
	mutating.PUT("/:id", h.Update)
	mutating.DELETE("/:id", h.Delete)
	mutating.POST("/:id/payments", h.RecordPayment)
}

func (h *InvoiceHandler) commandMeta(c *gin.Context) (tradeapp.CommandMeta, bool) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return tradeapp.CommandMeta{}, false
	}
	return tradeapp.CommandMeta{
		TenantID:       tenantID,
		ActorID:        getUserID(c),
		IdempotencyKey: middleware.GetIdempotencyKey(c),
	}, true
}

// Create godoc
// @Summary      Create an invoice
// @Description  Create an invoice, pricing its lines, allocating the next YYYYMM-NNN number and taking stock for every line
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Key that deduplicates retried requests"
// @Param        request body tradeapp.CreateInvoiceRequest true "Invoice creation request"
// @Success      201 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	meta, ok := h.commandMeta(c)
	if !ok {
		return
	}

	var req tradeapp.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), meta, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Update godoc
// @Summary      Update an invoice
// @Description  Replace the items and terms of an invoice. Old quantities are restored to stock before the new ones are taken
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Key that deduplicates retried requests"
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body tradeapp.UpdateInvoiceRequest true "Invoice update request"
// @Success      200 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	meta, ok := h.commandMeta(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), meta, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// Delete godoc
// @Summary      Delete an invoice
// @Description  Delete an invoice and return the quantities of its lines to stock
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Key that deduplicates retried requests"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	meta, ok := h.commandMeta(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), meta, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RecordPayment godoc
// @Summary      Record a payment
// @Description  Add a payment to an invoice and recompute its paid and pending amounts
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        Idempotency-Key header string false "Key that deduplicates retried requests"
// @Param        id path string true "Invoice ID" format(uuid)
// @Param        request body tradeapp.RecordPaymentRequest true "Payment request"
// @Success      200 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	meta, ok := h.commandMeta(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), meta, invoiceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByID godoc
// @Summary      Get invoice by ID
// @Description  Retrieve an invoice with its items and payments
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Invoice ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	invoiceID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// GetByNumber godoc
// @Summary      Get invoice by number
// @Description  Retrieve an invoice by its YYYYMM-NNN number
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        number path string true "Invoice number"
// @Success      200 {object} dto.Response{data=tradeapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/number/{number} [get]
func (h *InvoiceHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	invoice, err := h.invoiceService.GetByNumber(c.Request.Context(), tenantID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List godoc
// @Summary      List invoices
// @Description  Retrieve a paginated list of invoices with optional filtering
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (invoice number, customer name)"
// @Param        payment_status query string false "Payment status" Enums(unpaid, partial, paid)
// @Param        customer_id query string false "Customer ID" format(uuid)
// @Param        from query string false "Created on or after (YYYY-MM-DD)" format(date)
// @Param        to query string false "Created on or before (YYYY-MM-DD)" format(date)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" Enums(created_at, invoice_number, grand_total, pending_amount) default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]tradeapp.InvoiceListItemResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter tradeapp.InvoiceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.invoiceService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
