package services_test

import (
	"net/http"

	"github.com/stretchr/testify/mock"
	"github.com/tokokita/ecommerce_backend/internal/apperrors"
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	portsrepo "github.com/tokokita/ecommerce_backend/internal/core/ports/repositories"
	"github.com/tokokita/ecommerce_backend/internal/dto"
)

func newStoreRequest(categoryIDs ...int64) dto.CreateStoreRequest {
	return dto.CreateStoreRequest{
		StoreName:   "Kopi Kita",
		Address:     "Jl. Merdeka 1",
		Province:    "Jawa Barat",
		City:        "Bandung",
		PostalCode:  "40111",
		PhoneNumber: "081234567890",
		CategoryIDs: categoryIDs,
	}
}

func (suite *CatalogServiceTestSuite) activeCategories(ids []int64, found ...domain.StoreCategory) {
	suite.mockCategoryRepo.On("FindStoreCategoriesByIDs", suite.ctx, ids).Return(found, nil).Once()
}

func (suite *CatalogServiceTestSuite) TestCreateStore_OwnedByActorAndOpenByDefault() {
	suite.activeCategories([]int64{1, 3},
		domain.StoreCategory{ID: 3, Name: "Drinks", IsActive: true},
		domain.StoreCategory{ID: 1, Name: "Food", IsActive: true})
	suite.mockStoreRepo.On("CreateStore", suite.ctx, mock.MatchedBy(func(s *domain.Store) bool {
		return s.UserID == 42 && s.Slug == "kopi-kita" && s.IsOpen && len(s.CategoryIDs) == 2 && s.CategoryIDs[0] == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Store).ID = 10
	}).Return(nil).Once()

	req := newStoreRequest(3, 1, 3)
	req.OperationalHours = []dto.OperationalHourRequest{{Day: "MONDAY", OpenTime: "22:00", CloseTime: "02:00"}}
	store, err := suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleBuyer}, req)

	suite.Require().NoError(err)
	suite.Equal(int64(10), store.ID)
	suite.Require().Len(store.Categories, 2)
	suite.Equal("Food", store.Categories[0].Name)
	suite.Require().Len(store.OperationalHours, 1)
	suite.Equal(domain.Monday, store.OperationalHours[0].Day)
}

func (suite *CatalogServiceTestSuite) TestCreateStore_InactiveOrUnknownCategory() {
	suite.activeCategories([]int64{1, 2},
		domain.StoreCategory{ID: 1, IsActive: true},
		domain.StoreCategory{ID: 2, IsActive: false})

	_, err := suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleBuyer}, newStoreRequest(1, 2))

	suite.requireStatus(err, http.StatusBadRequest, apperrors.CodeValidationError)

	suite.activeCategories([]int64{1, 9}, domain.StoreCategory{ID: 1, IsActive: true})

	_, err = suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleBuyer}, newStoreRequest(1, 9))

	suite.requireStatus(err, http.StatusBadRequest, apperrors.CodeValidationError)
}

func (suite *CatalogServiceTestSuite) TestCreateStore_DuplicateDayRejected() {
	suite.activeCategories([]int64{1}, domain.StoreCategory{ID: 1, IsActive: true})

	req := newStoreRequest(1)
	req.OperationalHours = []dto.OperationalHourRequest{
		{Day: "FRIDAY", OpenTime: "08:00", CloseTime: "12:00"},
		{Day: "FRIDAY", OpenTime: "13:00", CloseTime: "17:00"},
	}
	_, err := suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleBuyer}, req)

	suite.requireStatus(err, http.StatusBadRequest, apperrors.CodeValidationError)
}

func (suite *CatalogServiceTestSuite) TestCreateStore_SecondStoreConflicts() {
	suite.activeCategories([]int64{1}, domain.StoreCategory{ID: 1, IsActive: true})
	suite.mockStoreRepo.On("CreateStore", suite.ctx, mock.Anything).Return(&apperrors.DuplicateError{Field: "user_id"}).Once()

	_, err := suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleSeller}, newStoreRequest(1))

	suite.requireStatus(err, http.StatusConflict, apperrors.CodeConflict)
}

func (suite *CatalogServiceTestSuite) TestCreateStore_OnBehalfOfAnotherUser() {
	other := int64(77)
	req := newStoreRequest(1)
	req.UserID = &other

	_, err := suite.catalogService.CreateStore(suite.ctx, domain.Actor{UserID: 42, Role: domain.RoleBuyer}, req)
	suite.requireStatus(err, http.StatusForbidden, apperrors.CodeForbidden)

	suite.activeCategories([]int64{1}, domain.StoreCategory{ID: 1, IsActive: true})
	suite.mockStoreRepo.On("CreateStore", suite.ctx, mock.MatchedBy(func(s *domain.Store) bool {
		return s.UserID == other
	})).Return(nil).Once()

	store, err := suite.catalogService.CreateStore(suite.ctx, adminActor, req)
	suite.Require().NoError(err)
	suite.Equal(other, store.UserID)
}

func (suite *CatalogServiceTestSuite) TestUpdateStore_RenameCollisionGetsSuffix() {
	existing := &domain.Store{
		ID: 2, UserID: sellerActor.UserID, StoreName: "Kopi Kita", Slug: "kopi-kita", IsOpen: true,
		Categories: []domain.StoreCategory{{ID: 1, IsActive: true}},
	}
	suite.mockStoreRepo.On("FindStoreByID", suite.ctx, int64(2)).Return(existing, nil).Once()
	var attempts []string
	suite.mockStoreRepo.On("UpdateStore", suite.ctx, mock.Anything).Run(func(args mock.Arguments) {
		attempts = append(attempts, args.Get(1).(*domain.Store).Slug)
	}).Return(&apperrors.DuplicateError{Field: "slug"}).Once()
	suite.mockStoreRepo.On("UpdateStore", suite.ctx, mock.MatchedBy(func(s *domain.Store) bool {
		return len(s.CategoryIDs) == 1 && s.CategoryIDs[0] == 1 && !s.IsOpen
	})).Run(func(args mock.Arguments) {
		attempts = append(attempts, args.Get(1).(*domain.Store).Slug)
	}).Return(nil).Once()

	name, closed := "Toko Roti", false
	store, err := suite.catalogService.UpdateStore(suite.ctx, sellerActor, 2, dto.UpdateStoreRequest{StoreName: &name, IsOpen: &closed})

	suite.Require().NoError(err)
	suite.Require().Len(attempts, 2)
	suite.Equal("toko-roti", attempts[0])
	suite.Regexp(`^toko-roti-[0-9a-z]{4}$`, attempts[1])
	suite.Equal(attempts[1], store.Slug)
}

func (suite *CatalogServiceTestSuite) TestUpdateStore_ReplacesCategoriesAndHours() {
	suite.ownStore()
	suite.activeCategories([]int64{4}, domain.StoreCategory{ID: 4, IsActive: true})
	suite.mockStoreRepo.On("UpdateStore", suite.ctx, mock.MatchedBy(func(s *domain.Store) bool {
		return len(s.CategoryIDs) == 1 && s.CategoryIDs[0] == 4 && len(s.OperationalHours) == 1
	})).Return(nil).Once()

	_, err := suite.catalogService.UpdateStore(suite.ctx, sellerActor, 2, dto.UpdateStoreRequest{
		CategoryIDs:      []int64{4},
		OperationalHours: []dto.OperationalHourRequest{{Day: "SUNDAY", OpenTime: "00:00", CloseTime: "00:00", IsClosed: true}},
	})

	suite.Require().NoError(err)
}

func (suite *CatalogServiceTestSuite) TestUpdateStore_NonOwnerForbidden() {
	suite.ownStore()

	city := "Jakarta"
	_, err := suite.catalogService.UpdateStore(suite.ctx, domain.Actor{UserID: 99, Role: domain.RoleSeller}, 2, dto.UpdateStoreRequest{City: &city})

	suite.requireStatus(err, http.StatusForbidden, apperrors.CodeForbidden)
}

func (suite *CatalogServiceTestSuite) TestDeleteStore() {
	suite.mockStoreRepo.On("FindStoreByID", suite.ctx, int64(3)).Return(nil, apperrors.ErrNotFound).Once()
	err := suite.catalogService.DeleteStore(suite.ctx, sellerActor, 3)
	suite.requireStatus(err, http.StatusNotFound, apperrors.CodeNotFound)

	suite.ownStore()
	suite.mockStoreRepo.On("DeleteStore", suite.ctx, int64(2)).Return(nil).Once()
	suite.Require().NoError(suite.catalogService.DeleteStore(suite.ctx, sellerActor, 2))
}

func (suite *CatalogServiceTestSuite) TestListStoreProducts() {
	suite.mockStoreRepo.On("FindStoreByID", suite.ctx, int64(3)).Return(nil, apperrors.ErrNotFound).Once()
	_, err := suite.catalogService.ListStoreProducts(suite.ctx, 3, dto.ListProductsParams{})
	suite.requireStatus(err, http.StatusNotFound, apperrors.CodeNotFound)

	suite.ownStore()
	storeID := int64(2)
	suite.mockProductRepo.On("ListProducts", suite.ctx, portsrepo.ProductFilter{StoreID: &storeID, Limit: 21}).
		Return([]domain.Product{{ID: 5, StoreID: 2}}, nil).Once()

	page, err := suite.catalogService.ListStoreProducts(suite.ctx, 2, dto.ListProductsParams{})

	suite.Require().NoError(err)
	suite.Len(page.Products, 1)
	suite.Nil(page.NextToken)
}
