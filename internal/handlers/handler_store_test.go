package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/dto"
)

func (suite *CatalogFlowTestSuite) currentRole(token string) domain.Role {
	w, env := suite.do(http.MethodGet, "/api/v1/auth/me", nil, token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var me struct {
		Role domain.Role `json:"role"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &me))
	return me.Role
}

func (suite *CatalogFlowTestSuite) TestStore_OpenPromotesBuyerToSeller() {
	food := suite.createCategory("Food")
	suite.Equal(domain.RoleBuyer, suite.currentRole(suite.buyerToken))

	body := storeBody("Warung Kita", food.ID, food.ID)
	body["operationalHours"] = []gin.H{
		{"day": "MONDAY", "openTime": "08:00", "closeTime": "17:00"},
		{"day": "SATURDAY", "openTime": "22:00", "closeTime": "02:00"},
	}
	w, env := suite.do(http.MethodPost, "/api/v1/stores", body, suite.buyerToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var store dto.StoreResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &store))
	suite.Equal("warung-kita", store.Slug)
	suite.True(store.IsOpen)
	suite.Require().Len(store.Categories, 1)
	suite.Equal(food.ID, store.Categories[0].ID)
	suite.Len(store.OperationalHours, 2)

	suite.Equal(domain.RoleSeller, suite.currentRole(suite.buyerToken))

	w, env = suite.do(http.MethodPost, "/api/v1/stores", storeBody("Second Shop", food.ID), suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code, "sellers cannot open another store")
	suite.Equal(apperrors.CodeForbidden, env.Code)

	w, env = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/stores/%d", store.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	var fetched dto.StoreResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &fetched))
	suite.Equal(store.UserID, fetched.UserID)
	suite.Equal("SATURDAY", fetched.OperationalHours[1].Day)
}

func (suite *CatalogFlowTestSuite) TestStore_Validation() {
	food := suite.createCategory("Food")

	w, env := suite.do(http.MethodPost, "/api/v1/stores", storeBody("Warung"), suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)

	body := storeBody("Warung", food.ID)
	body["operationalHours"] = []gin.H{{"day": "FUNDAY", "openTime": "8am", "closeTime": "17:00"}}
	w, env = suite.do(http.MethodPost, "/api/v1/stores", body, suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)

	body = storeBody("Warung", food.ID)
	body["postalCode"] = "ABCDE"
	w, _ = suite.do(http.MethodPost, "/api/v1/stores", body, suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)

	path := fmt.Sprintf("/api/v1/store-categories/%d", food.ID)
	w, _ = suite.do(http.MethodPatch, path, gin.H{"isActive": false}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	w, env = suite.do(http.MethodPost, "/api/v1/stores", storeBody("Warung", food.ID), suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)

	suite.Equal(domain.RoleBuyer, suite.currentRole(suite.buyerToken))
}

func (suite *CatalogFlowTestSuite) TestStore_UpdateRenameAndOwnership() {
	food := suite.createCategory("Food")
	drinks := suite.createCategory("Drinks")
	first := suite.openStore(suite.buyerToken, "Kopi Kita", food.ID)

	rivalToken := suite.registerBuyer("rival")
	rival := suite.openStore(rivalToken, "Teh Kita", food.ID)

	path := fmt.Sprintf("/api/v1/stores/%d", rival.ID)
	w, env := suite.do(http.MethodPatch, path, gin.H{"storeName": "Kopi Kita"}, suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apperrors.CodeForbidden, env.Code)

	w, env = suite.do(http.MethodPatch, path, gin.H{"storeName": "Kopi Kita", "categoryIds": []int64{drinks.ID}, "isOpen": false}, rivalToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var renamed dto.StoreResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &renamed))
	suite.NotEqual(first.Slug, renamed.Slug)
	suite.Regexp(`^kopi-kita-[0-9a-z]{4}$`, renamed.Slug)
	suite.False(renamed.IsOpen)
	suite.Require().Len(renamed.Categories, 1)
	suite.Equal(drinks.ID, renamed.Categories[0].ID)

	w, env = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/store-categories/%d", food.ID), nil, suite.adminToken)
	suite.Equal(http.StatusBadRequest, w.Code, "category still used by the first store")
	suite.Equal(apperrors.CodeValidationError, env.Code)
}

func (suite *CatalogFlowTestSuite) TestStore_AdminOpensForAnotherUser() {
	food := suite.createCategory("Food")
	w, env := suite.do(http.MethodGet, "/api/v1/auth/me", nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me struct {
		ID int64 `json:"id"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &me))

	body := storeBody("Managed Shop", food.ID)
	body["userId"] = me.ID
	w, env = suite.do(http.MethodPost, "/api/v1/stores", body, suite.adminToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var store dto.StoreResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &store))
	suite.Equal(me.ID, store.UserID)
	suite.Equal(domain.RoleSeller, suite.currentRole(suite.buyerToken))

	w, env = suite.do(http.MethodPost, "/api/v1/stores", body, suite.adminToken)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeConflict, env.Code)
}

func (suite *CatalogFlowTestSuite) TestStore_ProductsAndDelete() {
	store := suite.openStore(suite.buyerToken, "Gadget Hub", suite.createCategory("Electronics").ID)
	category := suite.createProductCategory("Cables")
	product := suite.createProduct(suite.buyerToken, store.ID, category.ID, "USB Cable", "5.00")

	productsPath := fmt.Sprintf("/api/v1/stores/%d/products", store.ID)
	w, env := suite.do(http.MethodGet, productsPath, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListProductsResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &page))
	suite.Require().Len(page.Products, 1)
	suite.Equal(product.ID, page.Products[0].ID)

	w, env = suite.do(http.MethodGet, "/api/v1/stores/9999/products", nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, env.Code)

	w, _ = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/stores/%d", store.ID), nil, suite.buyerToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(domain.RoleBuyer, suite.currentRole(suite.buyerToken))

	w, _ = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", product.ID), nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	w, _ = suite.do(http.MethodGet, productsPath, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}
