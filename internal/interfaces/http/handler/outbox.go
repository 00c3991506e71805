package handler

import (
	eventapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/event"
	"github.com/gin-gonic/gin"
)

// OutboxHandler exposes a tenant's undeliverable invoice notifications
type OutboxHandler struct {
	BaseHandler
	outboxService *eventapp.OutboxService
}

// NewOutboxHandler creates a new OutboxHandler
func NewOutboxHandler(outboxService *eventapp.OutboxService) *OutboxHandler {
	return &OutboxHandler{outboxService: outboxService}
}

// RegisterRoutes mounts the outbox routes
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	outbox := rg.Group("/outbox")
	outbox.GET("/stats", h.Stats)
	outbox.GET("/dead", h.ListDead)
	outbox.GET("/:id", h.GetEntry)
	outbox.POST("/:id/retry", h.Retry)
}

// ListDead godoc
// @Summary      List dead outbox entries
// @Description  Retrieve a paginated list of outbox entries that exhausted their retries
// @Tags         outbox
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]eventapp.OutboxEntryDTO,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /outbox/dead [get]
func (h *OutboxHandler) ListDead(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter eventapp.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.outboxService.ListDead(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetEntry godoc
// @Summary      Get outbox entry
// @Description  Retrieve one outbox entry
// @Tags         outbox
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=eventapp.OutboxEntryDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /outbox/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.outboxService.GetEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Retry godoc
// @Summary      Retry a dead entry
// @Description  Queue a dead outbox entry for delivery again
// @Tags         outbox
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Outbox entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=eventapp.OutboxEntryDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /outbox/{id}/retry [post]
func (h *OutboxHandler) Retry(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	entry, err := h.outboxService.RetryDeadEntry(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Stats godoc
// @Summary      Outbox statistics
// @Description  Count outbox entries per status
// @Tags         outbox
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} dto.Response{data=eventapp.OutboxStatsDTO}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /outbox/stats [get]
func (h *OutboxHandler) Stats(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	stats, err := h.outboxService.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
