package dto

import (
	"time"

	"github.com/tokokita/ecommerce_backend/internal/core/domain"
)

// OperationalHourRequest is one day of a store schedule.
type OperationalHourRequest struct {
	Day       string `json:"day" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	OpenTime  string `json:"openTime" binding:"required,datetime=15:04"`
	CloseTime string `json:"closeTime" binding:"required,datetime=15:04"`
	IsClosed  bool   `json:"isClosed"`
}

// CreateStoreRequest defines the data needed to open a store.
// UserID is honored only for a SUPER_ADMIN creating a store on behalf of another user.
type CreateStoreRequest struct {
	UserID           *int64                   `json:"userId" binding:"omitempty,gt=0"`
	StoreName        string                   `json:"storeName" binding:"required,min=2,max=100"`
	Description      *string                  `json:"description" binding:"omitempty,max=1000"`
	Address          string                   `json:"address" binding:"required,max=255"`
	Province         string                   `json:"province" binding:"required,max=100"`
	City             string                   `json:"city" binding:"required,max=100"`
	PostalCode       string                   `json:"postalCode" binding:"required,numeric,min=4,max=10"`
	PhoneNumber      string                   `json:"phoneNumber" binding:"required,min=8,max=20"`
	Email            *string                  `json:"email" binding:"omitempty,email"`
	IsOpen           *bool                    `json:"isOpen"`
	ReturnPolicy     *string                  `json:"returnPolicy" binding:"omitempty,max=2000"`
	ShippingPolicy   *string                  `json:"shippingPolicy" binding:"omitempty,max=2000"`
	CategoryIDs      []int64                  `json:"categoryIds" binding:"required,min=1,dive,gt=0"`
	OperationalHours []OperationalHourRequest `json:"operationalHours" binding:"omitempty,max=7,dive"`
}

// UpdateStoreRequest uses pointers to distinguish omitted fields from zero values.
// A non-nil CategoryIDs or OperationalHours replaces the stored set.
type UpdateStoreRequest struct {
	StoreName        *string                  `json:"storeName" binding:"omitempty,min=2,max=100"`
	Description      *string                  `json:"description" binding:"omitempty,max=1000"`
	Address          *string                  `json:"address" binding:"omitempty,min=1,max=255"`
	Province         *string                  `json:"province" binding:"omitempty,min=1,max=100"`
	City             *string                  `json:"city" binding:"omitempty,min=1,max=100"`
	PostalCode       *string                  `json:"postalCode" binding:"omitempty,numeric,min=4,max=10"`
	PhoneNumber      *string                  `json:"phoneNumber" binding:"omitempty,min=8,max=20"`
	Email            *string                  `json:"email" binding:"omitempty,email"`
	IsOpen           *bool                    `json:"isOpen"`
	ReturnPolicy     *string                  `json:"returnPolicy" binding:"omitempty,max=2000"`
	ShippingPolicy   *string                  `json:"shippingPolicy" binding:"omitempty,max=2000"`
	CategoryIDs      []int64                  `json:"categoryIds" binding:"omitempty,min=1,dive,gt=0"`
	OperationalHours []OperationalHourRequest `json:"operationalHours" binding:"omitempty,max=7,dive"`
}

// OperationalHourResponse is one day of a store schedule.
type OperationalHourResponse struct {
	Day       string `json:"day"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	IsClosed  bool   `json:"isClosed"`
}

// StoreResponse defines the data returned for a store.
type StoreResponse struct {
	ID               int64                     `json:"id"`
	UserID           int64                     `json:"userId"`
	StoreName        string                    `json:"storeName"`
	Slug             string                    `json:"slug"`
	Description      *string                   `json:"description,omitempty"`
	Address          string                    `json:"address"`
	Province         string                    `json:"province"`
	City             string                    `json:"city"`
	PostalCode       string                    `json:"postalCode"`
	PhoneNumber      string                    `json:"phoneNumber"`
	Email            *string                   `json:"email,omitempty"`
	IsOpen           bool                      `json:"isOpen"`
	ReturnPolicy     *string                   `json:"returnPolicy,omitempty"`
	ShippingPolicy   *string                   `json:"shippingPolicy,omitempty"`
	Categories       []StoreCategoryResponse   `json:"categories"`
	OperationalHours []OperationalHourResponse `json:"operationalHours"`
	CreatedAt        time.Time                 `json:"createdAt"`
	UpdatedAt        time.Time                 `json:"updatedAt"`
}

// ToOperationalHours converts schedule requests to domain values.
func ToOperationalHours(reqs []OperationalHourRequest) []domain.OperationalHour {
	hours := make([]domain.OperationalHour, len(reqs))
	for i, r := range reqs {
		hours[i] = domain.OperationalHour{
			Day:       domain.Weekday(r.Day),
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
			IsClosed:  r.IsClosed,
		}
	}
	return hours
}

// ToStoreResponse converts a domain.Store to StoreResponse DTO
func ToStoreResponse(s *domain.Store) StoreResponse {
	hours := make([]OperationalHourResponse, len(s.OperationalHours))
	for i, h := range s.OperationalHours {
		hours[i] = OperationalHourResponse{
			Day:       string(h.Day),
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
			IsClosed:  h.IsClosed,
		}
	}
	return StoreResponse{
		ID:               s.ID,
		UserID:           s.UserID,
		StoreName:        s.StoreName,
		Slug:             s.Slug,
		Description:      s.Description,
		Address:          s.Address,
		Province:         s.Province,
		City:             s.City,
		PostalCode:       s.PostalCode,
		PhoneNumber:      s.PhoneNumber,
		Email:            s.Email,
		IsOpen:           s.IsOpen,
		ReturnPolicy:     s.ReturnPolicy,
		ShippingPolicy:   s.ShippingPolicy,
		Categories:       ToListStoreCategoryResponse(s.Categories),
		OperationalHours: hours,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
}

// ToListStoreResponse converts a slice of domain.Store to response DTOs
func ToListStoreResponse(stores []domain.Store) []StoreResponse {
	res := make([]StoreResponse, len(stores))
	for i := range stores {
		res[i] = ToStoreResponse(&stores[i])
	}
	return res
}
