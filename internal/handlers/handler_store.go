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

type storeHandler struct {
	stores portssvc.StoreSvc
}

// registerStoreRoutes registers /stores. Opening a store promotes a BUYER to SELLER, so later
// requests with the same token already pass the seller checks.
func registerStoreRoutes(rg *gin.RouterGroup, stores portssvc.StoreSvc, authenticated gin.HandlerFunc) {
	h := &storeHandler{stores: stores}
	openers := middleware.RequireRoles(domain.RoleBuyer, domain.RoleSuperAdmin)
	sellers := middleware.RequireRoles(domain.RoleSeller, domain.RoleSuperAdmin)

	group := rg.Group("/stores")
	{
		group.GET("", h.listStores)
		group.GET("/:storeID", h.getStore)
		group.GET("/:storeID/products", h.listStoreProducts)
		group.POST("", authenticated, openers, h.createStore)
		group.PATCH("/:storeID", authenticated, sellers, h.updateStore)
		group.DELETE("/:storeID", authenticated, sellers, h.deleteStore)
	}
}

// createStore godoc
// @Summary Open a store
// @Description The caller becomes the owner and is promoted to SELLER. A SUPER_ADMIN may pass userId to open a store for someone else.
// @Tags stores
// @Accept json
// @Produce json
// @Param store body dto.CreateStoreRequest true "Store details"
// @Success 201 {object} dto.Response{data=dto.StoreResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stores [post]
func (h *storeHandler) createStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	var req dto.CreateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.stores.CreateStore(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Store opened",
		slog.Int64("store_id", store.ID), slog.Int64("owner_id", store.UserID))
	respond(c, http.StatusCreated, dto.CodeCreated, dto.ToStoreResponse(store))
}

// listStores godoc
// @Summary List stores
// @Tags stores
// @Produce json
// @Success 200 {object} dto.Response{data=[]dto.StoreResponse}
// @Router /stores [get]
func (h *storeHandler) listStores(c *gin.Context) {
	stores, err := h.stores.ListStores(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToListStoreResponse(stores))
}

// getStore godoc
// @Summary Get a store
// @Tags stores
// @Produce json
// @Param storeID path int true "Store ID"
// @Success 200 {object} dto.Response{data=dto.StoreResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /stores/{storeID} [get]
func (h *storeHandler) getStore(c *gin.Context) {
	id, ok := pathID(c, "storeID")
	if !ok {
		return
	}

	store, err := h.stores.GetStore(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, dto.ToStoreResponse(store))
}

// updateStore godoc
// @Summary Update a store
// @Description Renaming regenerates the slug. categoryIds and operationalHours replace the current sets when present.
// @Tags stores
// @Accept json
// @Produce json
// @Param storeID path int true "Store ID"
// @Param store body dto.UpdateStoreRequest true "Fields to change"
// @Success 200 {object} dto.Response{data=dto.StoreResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stores/{storeID} [patch]
func (h *storeHandler) updateStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "storeID")
	if !ok {
		return
	}
	var req dto.UpdateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, err := h.stores.UpdateStore(c.Request.Context(), actor, id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeUpdated, dto.ToStoreResponse(store))
}

// deleteStore godoc
// @Summary Close a store
// @Description Deletes the store with its products and returns a SELLER owner to BUYER.
// @Tags stores
// @Produce json
// @Param storeID path int true "Store ID"
// @Success 200 {object} dto.Response
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /stores/{storeID} [delete]
func (h *storeHandler) deleteStore(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "storeID")
	if !ok {
		return
	}

	if err := h.stores.DeleteStore(c.Request.Context(), actor, id); err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeDeleted, nil)
}

// listStoreProducts godoc
// @Summary List a store's products
// @Description Newest first. Pass nextToken from the previous page to continue.
// @Tags stores
// @Produce json
// @Param storeID path int true "Store ID"
// @Param categoryId query int false "Filter by product category"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.Response{data=dto.ListProductsResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /stores/{storeID}/products [get]
func (h *storeHandler) listStoreProducts(c *gin.Context) {
	id, ok := pathID(c, "storeID")
	if !ok {
		return
	}
	var params dto.ListProductsParams
	if !bindQuery(c, &params) {
		return
	}

	page, err := h.stores.ListStoreProducts(c.Request.Context(), id, params)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.CodeSuccess, page)
}
