package mapping

import (
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/models"
)

// ToModelStore maps the store row only; relations and hours are written separately.
func ToModelStore(d domain.Store) models.Store {
	return models.Store{
		ID:             d.ID,
		UserID:         d.UserID,
		StoreName:      d.StoreName,
		Slug:           d.Slug,
		Description:    ToNullString(d.Description),
		Address:        d.Address,
		Province:       d.Province,
		City:           d.City,
		PostalCode:     d.PostalCode,
		PhoneNumber:    d.PhoneNumber,
		Email:          ToNullString(d.Email),
		IsOpen:         d.IsOpen,
		ReturnPolicy:   ToNullString(d.ReturnPolicy),
		ShippingPolicy: ToNullString(d.ShippingPolicy),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

func ToDomainStore(m models.Store) domain.Store {
	return domain.Store{
		ID:               m.ID,
		UserID:           m.UserID,
		StoreName:        m.StoreName,
		Slug:             m.Slug,
		Description:      FromNullString(m.Description),
		Address:          m.Address,
		Province:         m.Province,
		City:             m.City,
		PostalCode:       m.PostalCode,
		PhoneNumber:      m.PhoneNumber,
		Email:            FromNullString(m.Email),
		IsOpen:           m.IsOpen,
		ReturnPolicy:     FromNullString(m.ReturnPolicy),
		ShippingPolicy:   FromNullString(m.ShippingPolicy),
		Categories:       []domain.StoreCategory{},
		OperationalHours: []domain.OperationalHour{},
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

func ToModelOperationalHours(storeID int64, hours []domain.OperationalHour) []models.OperationalHour {
	ms := make([]models.OperationalHour, len(hours))
	for i, h := range hours {
		ms[i] = models.OperationalHour{
			StoreID:   storeID,
			Day:       string(h.Day),
			OpenTime:  h.OpenTime,
			CloseTime: h.CloseTime,
			IsClosed:  h.IsClosed,
		}
	}
	return ms
}

func ToDomainOperationalHour(m models.OperationalHour) domain.OperationalHour {
	return domain.OperationalHour{
		Day:       domain.Weekday(m.Day),
		OpenTime:  m.OpenTime,
		CloseTime: m.CloseTime,
		IsClosed:  m.IsClosed,
	}
}
