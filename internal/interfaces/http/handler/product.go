package handler

import (
	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles product and stock endpoints
type ProductHandler struct {
	BaseHandler
	productService *inventoryapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *inventoryapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterRoutes mounts the product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.GET("", h.List)
	products.GET("/:id", h.GetByID)
	products.POST("/:id/purchases", h.ReceivePurchase)
	products.POST("/:id/adjustments", h.Adjust)
	products.GET("/:id/history", h.History)
	products.GET("/:id/reconcile", h.Reconcile)
}

// Create godoc
// @Summary      Create a product
// @Description  Create a product. Opening stock is written to the ledger as an adjustment
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body inventoryapp.CreateProductRequest true "Product creation request"
// @Success      201 {object} dto.Response{data=inventoryapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req inventoryapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @Summary      Get product by ID
// @Description  Retrieve a product with its current stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  Retrieve a paginated list of products with optional filtering
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (name, SKU)"
// @Param        category query string false "Category"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" Enums(name, sku, stock, created_at, updated_at) default(created_at)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} dto.Response{data=[]inventoryapp.ProductResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var filter inventoryapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// ReceivePurchase godoc
// @Summary      Receive a purchase
// @Description  Add received goods to a product's stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.ReceivePurchaseRequest true "Purchase receipt request"
// @Success      200 {object} dto.Response{data=inventoryapp.StockChangeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/purchases [post]
func (h *ProductHandler) ReceivePurchase(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.ReceivePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	change, err := h.productService.ReceivePurchase(c.Request.Context(), tenantID, productID, getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, change)
}

// Adjust godoc
// @Summary      Adjust stock
// @Description  Apply a manual stock correction. Stock may not go below zero
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body inventoryapp.AdjustStockRequest true "Stock adjustment request"
// @Success      200 {object} dto.Response{data=inventoryapp.StockChangeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/adjustments [post]
func (h *ProductHandler) Adjust(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	change, err := h.productService.Adjust(c.Request.Context(), tenantID, productID, getUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, change)
}

// History godoc
// @Summary      List stock history
// @Description  Retrieve a product's stock movements, newest first
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Param        type query string false "Movement type" Enums(sale, sale_update, sale_deletion, purchase, adjustment)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]inventoryapp.HistoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/history [get]
func (h *ProductHandler) History(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var filter inventoryapp.HistoryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.productService.History(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Reconcile godoc
// @Summary      Reconcile stock
// @Description  Compare a product's stock against the sum of its history
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ReconciliationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /products/{id}/reconcile [get]
func (h *ProductHandler) Reconcile(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	productID, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	report, err := h.productService.Reconcile(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}
