package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portssvc "github.com/tokokita/ecommerce_backend/internal/core/ports/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/middleware"
)

// catalogHandler handles store category, product category and product requests.
type catalogHandler struct {
	catalogService portssvc.CatalogSvcFacade
}

func newCatalogHandler(catalogService portssvc.CatalogSvcFacade) *catalogHandler {
	return &catalogHandler{catalogService: catalogService}
}

// registerCatalogRoutes registers catalog routes. Reads are public; writes need a role.
func registerCatalogRoutes(rg *gin.RouterGroup, catalogService portssvc.CatalogSvcFacade, authenticated gin.HandlerFunc) {
	h := newCatalogHandler(catalogService)
	adminOnly := middleware.RequireRoles(domain.RoleSuperAdmin)
	sellers := middleware.RequireRoles(domain.RoleSeller, domain.RoleSuperAdmin)

	categories := rg.Group("/store-categories")
	{
		categories.GET("", h.listStoreCategories)
		categories.GET("/all", authenticated, adminOnly, h.listAllStoreCategories)
		categories.GET("/:categoryID", h.getStoreCategory)
		categories.POST("", authenticated, adminOnly, h.createStoreCategory)
		categories.PATCH("/:categoryID", authenticated, adminOnly, h.updateStoreCategory)
		categories.DELETE("/:categoryID", authenticated, adminOnly, h.deleteStoreCategory)
	}

	productCategories := rg.Group("/product-categories")
	{
		productCategories.GET("", h.listProductCategories)
		productCategories.GET("/all", authenticated, adminOnly, h.listAllProductCategories)
		productCategories.GET("/:categoryID", h.getProductCategory)
		productCategories.POST("", authenticated, adminOnly, h.createProductCategory)
		productCategories.PATCH("/:categoryID", authenticated, adminOnly, h.updateProductCategory)
		productCategories.DELETE("/:categoryID", authenticated, adminOnly, h.deleteProductCategory)
	}

	products := rg.Group("/products")
	{
		products.GET("", h.listProducts)
		products.GET("/:productID", h.getProduct)
		products.POST("", authenticated, sellers, h.createProduct)
		products.PATCH("/:productID", authenticated, sellers, h.updateProduct)
		products.DELETE("/:productID", authenticated, sellers, h.deleteProduct)
	}
}

// createStoreCategory godoc
// @Summary Create a store category
// @Description The slug is derived from the name.
// @Tags store-categories
// @Accept json
// @Produce json
// @Param category body dto.CreateStoreCategoryRequest true "Category details"
// @Success 201 {object} dto.Response{data=dto.StoreCategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /store-categories [post]
func (h *catalogHandler) createStoreCategory(c *gin.Context) {
	var req dto.CreateStoreCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.CreateStoreCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Store category created", slog.Int64("store_category_id", category.ID))
	respond(c, http.StatusCreated, dto.CodeCreated, dto.ToStoreCategoryResponse(category))
}

// listStoreCategories godoc
// @Summary List active store categories
// @Tags store-categories
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.StoreCategoryResponse}
// @Router /store-categories [get]
func (h *catalogHandler) listStoreCategories(c *gin.Context) {
	h.list(c, false)
}

// listAllStoreCategories godoc
// @Summary List all store categories, including inactive ones
// @Tags store-categories
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.StoreCategoryResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /store-categories/all [get]
func (h *catalogHandler) listAllStoreCategories(c *gin.Context) {
	h.list(c, true)
}

func (h *catalogHandler) list(c *gin.Context, includeInactive bool) {
	categories, err := h.catalogService.ListStoreCategories(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToListStoreCategoryResponse(categories))
}

// getStoreCategory godoc
// @Summary Get a store category
// @Tags store-categories
// @Produce json
// @Param categoryID path int true "Store category ID"
// @Success 200 {object} dto.Response{data=dto.StoreCategoryResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /store-categories/{categoryID} [get]
func (h *catalogHandler) getStoreCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}

	category, err := h.catalogService.GetStoreCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToStoreCategoryResponse(category))
}

// updateStoreCategory godoc
// @Summary Update a store category
// @Description Renaming regenerates the slug.
// @Tags store-categories
// @Accept json
// @Produce json
// @Param categoryID path int true "Store category ID"
// @Param category body dto.UpdateStoreCategoryRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.StoreCategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /store-categories/{categoryID} [patch]
func (h *catalogHandler) updateStoreCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}
	var req dto.UpdateStoreCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.UpdateStoreCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeUpdated, dto.ToStoreCategoryResponse(category))
}

// deleteStoreCategory godoc
// @Summary Delete a store category
// @Description Fails with 400 while stores still use the category.
// @Tags store-categories
// @Produce json
// @Param categoryID path int true "Store category ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /store-categories/{categoryID} [delete]
func (h *catalogHandler) deleteStoreCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteStoreCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeDeleted, nil)
}

// createProductCategory godoc
// @Summary Create a product category
// @Tags product-categories
// @Accept json
// @Produce json
// @Param category body dto.CreateProductCategoryRequest true "Category details"
// @Success 201 {object} dto.Response{data=dto.ProductCategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /product-categories [post]
func (h *catalogHandler) createProductCategory(c *gin.Context) {
	var req dto.CreateProductCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.CreateProductCategory(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, dto.CodeCreated, dto.ToProductCategoryResponse(category))
}

// listProductCategories godoc
// @Summary List active product categories
// @Tags product-categories
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.ProductCategoryResponse}
// @Router /product-categories [get]
func (h *catalogHandler) listProductCategories(c *gin.Context) {
	h.listProductCategoriesFiltered(c, false)
}

// listAllProductCategories godoc
// @Summary List all product categories, including inactive ones
// @Tags product-categories
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.ProductCategoryResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /product-categories/all [get]
func (h *catalogHandler) listAllProductCategories(c *gin.Context) {
	h.listProductCategoriesFiltered(c, true)
}

func (h *catalogHandler) listProductCategoriesFiltered(c *gin.Context, includeInactive bool) {
	categories, err := h.catalogService.ListProductCategories(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToListProductCategoryResponse(categories))
}

// getProductCategory godoc
// @Summary Get a product category
// @Tags product-categories
// @Produce json
// @Param categoryID path int true "Product category ID"
// @Success 200 {object} dto.Response{data=dto.ProductCategoryResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /product-categories/{categoryID} [get]
func (h *catalogHandler) getProductCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}

	category, err := h.catalogService.GetProductCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToProductCategoryResponse(category))
}

// updateProductCategory godoc
// @Summary Update a product category
// @Tags product-categories
// @Accept json
// @Produce json
// @Param categoryID path int true "Product category ID"
// @Param category body dto.UpdateProductCategoryRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.ProductCategoryResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /product-categories/{categoryID} [patch]
func (h *catalogHandler) updateProductCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}
	var req dto.UpdateProductCategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.catalogService.UpdateProductCategory(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeUpdated, dto.ToProductCategoryResponse(category))
}

// deleteProductCategory godoc
// @Summary Delete a product category
// @Description Fails with 400 while products still reference the category.
// @Tags product-categories
// @Produce json
// @Param categoryID path int true "Product category ID"
// @Success 200 {object} dto.Response
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /product-categories/{categoryID} [delete]
func (h *catalogHandler) deleteProductCategory(c *gin.Context) {
	id, ok := pathID(c, "categoryID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProductCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeDeleted, nil)
}

// createProduct godoc
// @Summary Create a product
// @Description The caller must own the target store unless they are a SUPER_ADMIN.
// @Tags products
// @Accept json
// @Produce json
// @Param product body dto.CreateProductRequest true "Product details"
// @Success 201 {object} dto.Response{data=dto.ProductResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /products [post]
func (h *catalogHandler) createProduct(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.CreateProduct(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Product created", slog.Int64("product_id", product.ID))
	respond(c, http.StatusCreated, dto.CodeCreated, dto.ToProductResponse(product))
}

// listProducts godoc
// @Summary List products
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags products
// @Produce json
// @Param storeId query int false "Filter by store"
// @Param categoryId query int false "Filter by product category"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.Response{data=dto.ListProductsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /products [get]
func (h *catalogHandler) listProducts(c *gin.Context) {
	var params dto.ListProductsParams
	if !bindQuery(c, &params) {
		return
	}

	page, err := h.catalogService.ListProducts(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, page)
}

// getProduct godoc
// @Summary Get a product
// @Tags products
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {object} dto.Response{data=dto.ProductResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /products/{productID} [get]
func (h *catalogHandler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "productID")
	if !ok {
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToProductResponse(product))
}

// updateProduct godoc
// @Summary Update a product
// @Tags products
// @Accept json
// @Produce json
// @Param productID path int true "Product ID"
// @Param product body dto.UpdateProductRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.ProductResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /products/{productID} [patch]
func (h *catalogHandler) updateProduct(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "productID")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.catalogService.UpdateProduct(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeUpdated, dto.ToProductResponse(product))
}

// deleteProduct godoc
// @Summary Delete a product
// @Tags products
// @Produce json
// @Param productID path int true "Product ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /products/{productID} [delete]
func (h *catalogHandler) deleteProduct(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "productID")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeDeleted, nil)
}
