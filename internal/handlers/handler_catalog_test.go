package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/services"
	"github.com/tokokita/ecommerce_backend/internal/dto"
	"github.com/tokokita/ecommerce_backend/internal/handlers"
	"github.com/tokokita/ecommerce_backend/internal/utils"
)

const adminPassword = "Adm1n!Secret"

type CatalogFlowTestSuite struct {
	apiSuite
	adminToken string
	buyerToken string
}

func TestCatalogFlowTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogFlowTestSuite))
}

func (suite *CatalogFlowTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = testConfig()
	suite.cfg.DirectRegistrationEnabled = true
	suite.buildRouter(handlers.RouterOptions{Logger: quietLogger()})

	_, created, err := services.SeedSuperAdmin(context.Background(), suite.repos.UserRepo, utils.NewBcryptHasher(), "admin@example.com", adminPassword)
	suite.Require().NoError(err)
	suite.Require().True(created)

	w, env := suite.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "admin@example.com", "password": adminPassword}, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.adminToken = suite.authData(env).AccessToken

	w, env = suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody("buyer@example.com", "buyer", strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.buyerToken = suite.authData(env).AccessToken
}

func (suite *CatalogFlowTestSuite) createCategory(name string) dto.StoreCategoryResponse {
	w, env := suite.do(http.MethodPost, "/api/v1/store-categories", gin.H{"name": name}, suite.adminToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal(dto.CodeCreated, env.Code)
	var category dto.StoreCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &category))
	return category
}

func (suite *CatalogFlowTestSuite) createProductCategory(name string) dto.ProductCategoryResponse {
	w, env := suite.do(http.MethodPost, "/api/v1/product-categories", gin.H{"name": name}, suite.adminToken)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var category dto.ProductCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &category))
	return category
}

func storeBody(name string, storeCategoryIDs ...int64) gin.H {
	return gin.H{
		"storeName":   name,
		"address":     "Jl. Merdeka 1",
		"province":    "Jawa Barat",
		"city":        "Bandung",
		"postalCode":  "40111",
		"phoneNumber": "081234567890",
		"categoryIds": storeCategoryIDs,
	}
}

// openStore opens a store with token and returns it.
func (suite *CatalogFlowTestSuite) openStore(token, name string, storeCategoryID int64) dto.StoreResponse {
	w, env := suite.do(http.MethodPost, "/api/v1/stores", storeBody(name, storeCategoryID), token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var store dto.StoreResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &store))
	return store
}

func (suite *CatalogFlowTestSuite) createProduct(token string, storeID, categoryID int64, name, price string) dto.ProductResponse {
	body := gin.H{"storeId": storeID, "categoryId": categoryID, "name": name, "price": price, "stock": 3}
	w, env := suite.do(http.MethodPost, "/api/v1/products", body, token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var product dto.ProductResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &product))
	return product
}

// registerBuyer registers another buyer and returns their access token.
func (suite *CatalogFlowTestSuite) registerBuyer(username string) string {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/register/direct", registerBody(username+"@example.com", username, strongPassword), "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return suite.authData(env).AccessToken
}

func (suite *CatalogFlowTestSuite) TestStoreCategoryWrites_RequireSuperAdmin() {
	w, env := suite.do(http.MethodPost, "/api/v1/store-categories", gin.H{"name": "Fashion"}, suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apperrors.CodeForbidden, env.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/store-categories", gin.H{"name": "Fashion"}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apperrors.CodeUnauthorized, env.Code)

	w, _ = suite.do(http.MethodGet, "/api/v1/store-categories/all", nil, suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *CatalogFlowTestSuite) TestStoreCategoryLifecycle() {
	category := suite.createCategory("Home & Living")
	suite.Equal("home-living", category.Slug)
	suite.True(category.IsActive)

	w, env := suite.do(http.MethodPost, "/api/v1/store-categories", gin.H{"name": "Home & Living"}, suite.adminToken)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal(apperrors.CodeConflict, env.Code)

	path := fmt.Sprintf("/api/v1/store-categories/%d", category.ID)
	w, env = suite.do(http.MethodPatch, path, gin.H{"isActive": false}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(dto.CodeUpdated, env.Code)

	w, env = suite.do(http.MethodGet, "/api/v1/store-categories", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	var public []dto.StoreCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &public))
	suite.Empty(public)

	w, env = suite.do(http.MethodGet, "/api/v1/store-categories/all", nil, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all []dto.StoreCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &all))
	suite.Len(all, 1)

	w, env = suite.do(http.MethodDelete, path, nil, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(dto.CodeDeleted, env.Code)

	w, env = suite.do(http.MethodGet, path, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, env.Code)
}

func (suite *CatalogFlowTestSuite) TestStoreCategory_InvalidID() {
	w, env := suite.do(http.MethodGet, "/api/v1/store-categories/abc", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)
}

func (suite *CatalogFlowTestSuite) TestProductCategoryLifecycle() {
	w, _ := suite.do(http.MethodPost, "/api/v1/product-categories", gin.H{"name": "Mugs"}, suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code)

	category := suite.createProductCategory("Mugs & Cups")
	suite.Equal("mugs-cups", category.Slug)
	suite.True(category.IsActive)

	path := fmt.Sprintf("/api/v1/product-categories/%d", category.ID)
	w, _ = suite.do(http.MethodPatch, path, gin.H{"isActive": false}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w, env := suite.do(http.MethodGet, "/api/v1/product-categories", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)
	var public []dto.ProductCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &public))
	suite.Empty(public)

	w, env = suite.do(http.MethodGet, "/api/v1/product-categories/all", nil, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code)
	var all []dto.ProductCategoryResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &all))
	suite.Require().Len(all, 1)
	suite.False(all[0].IsActive)

	w, _ = suite.do(http.MethodDelete, path, nil, suite.adminToken)
	suite.Equal(http.StatusOK, w.Code)
	w, _ = suite.do(http.MethodGet, path, nil, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *CatalogFlowTestSuite) TestProducts_CreateListPaginate() {
	store := suite.openStore(suite.buyerToken, "Phone Corner", suite.createCategory("Electronics").ID)
	category := suite.createProductCategory("Phones")
	for i := 1; i <= 3; i++ {
		product := suite.createProduct(suite.buyerToken, store.ID, category.ID, fmt.Sprintf("Phone %d", i), "199.90")
		suite.Equal(store.ID, product.StoreID)
		suite.Equal(category.ID, product.CategoryID)
	}

	w, env := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/products?storeId=%d&categoryId=%d&limit=2", store.ID, category.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var page dto.ListProductsResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &page))
	suite.Len(page.Products, 2)
	suite.Require().NotNil(page.NextToken)
	suite.True(decimal.RequireFromString("199.90").Equal(page.Products[0].Price))

	w, env = suite.do(http.MethodGet, "/api/v1/products?limit=2&nextToken="+*page.NextToken, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var second dto.ListProductsResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &second))
	suite.Len(second.Products, 1)
	suite.Nil(second.NextToken)
	suite.NotEqual(page.Products[0].ID, second.Products[0].ID)
	suite.NotEqual(page.Products[1].ID, second.Products[0].ID)

	w, env = suite.do(http.MethodGet, "/api/v1/products?nextToken=garbage", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)
}

func (suite *CatalogFlowTestSuite) TestProducts_Validation() {
	category := suite.createProductCategory("Books")

	w, _ := suite.do(http.MethodPost, "/api/v1/products",
		gin.H{"storeId": 1, "categoryId": category.ID, "name": "Novel", "price": "10"}, suite.buyerToken)
	suite.Equal(http.StatusForbidden, w.Code)

	store := suite.openStore(suite.buyerToken, "Book Nook", suite.createCategory("Reading").ID)

	w, env := suite.do(http.MethodPost, "/api/v1/products",
		gin.H{"storeId": store.ID, "categoryId": category.ID, "name": "Novel", "price": "-1", "stock": 1}, suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal(apperrors.CodeValidationError, env.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/products",
		gin.H{"categoryId": category.ID, "name": "Novel", "price": "10"}, suite.buyerToken)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("required", env.Details["fields"].(map[string]any)["storeID"])

	w, env = suite.do(http.MethodPost, "/api/v1/products",
		gin.H{"storeId": store.ID, "categoryId": 999, "name": "Novel", "price": "10"}, suite.buyerToken)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal(apperrors.CodeNotFound, env.Code)
}

func (suite *CatalogFlowTestSuite) TestProducts_OnlyOwnerOrAdminWrites() {
	storeCategory := suite.createCategory("Toys")
	category := suite.createProductCategory("Robots")
	store := suite.openStore(suite.buyerToken, "Toy Box", storeCategory.ID)
	product := suite.createProduct(suite.buyerToken, store.ID, category.ID, "Robot", "49.50")

	rivalToken := suite.registerBuyer("rival")
	suite.openStore(rivalToken, "Rival Toys", storeCategory.ID)

	w, env := suite.do(http.MethodPost, "/api/v1/products",
		gin.H{"storeId": store.ID, "categoryId": category.ID, "name": "Knockoff", "price": "1"}, rivalToken)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apperrors.CodeForbidden, env.Code)

	path := fmt.Sprintf("/api/v1/products/%d", product.ID)
	w, _ = suite.do(http.MethodPatch, path, gin.H{"stock": 0}, rivalToken)
	suite.Equal(http.StatusForbidden, w.Code)
	w, _ = suite.do(http.MethodDelete, path, nil, rivalToken)
	suite.Equal(http.StatusForbidden, w.Code)

	w, env = suite.do(http.MethodPatch, path, gin.H{"stock": 10, "price": "45"}, suite.adminToken)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated dto.ProductResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &updated))
	suite.Equal(10, updated.Stock)
	suite.True(decimal.NewFromInt(45).Equal(updated.Price))

	w, env = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/product-categories/%d", category.ID), nil, suite.adminToken)
	suite.Equal(http.StatusBadRequest, w.Code, w.Body.String())
	suite.Equal(apperrors.CodeValidationError, env.Code)

	w, _ = suite.do(http.MethodDelete, path, nil, suite.buyerToken)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/product-categories/%d", category.ID), nil, suite.adminToken)
	suite.Equal(http.StatusOK, w.Code)
}
