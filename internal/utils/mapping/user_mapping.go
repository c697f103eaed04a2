package mapping

import (
	"github.com/tokokita/ecommerce_backend/internal/core/domain"
	"github.com/tokokita/ecommerce_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	return models.User{
		ID:                  d.ID,
		Email:               d.Email,
		Username:            d.Username,
		PasswordHash:        d.PasswordHash,
		Role:                string(d.Role),
		IsVerified:          d.IsVerified,
		VerificationCode:    ToNullString(d.VerificationCode),
		VerificationExpires: ToNullTime(d.VerificationExpires),
		RefreshToken:        ToNullString(d.RefreshToken),
		GoogleID:            ToNullString(d.GoogleID),
		Picture:             ToNullString(d.Picture),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	return domain.User{
		ID:                  m.ID,
		Email:               m.Email,
		Username:            m.Username,
		PasswordHash:        m.PasswordHash,
		Role:                domain.Role(m.Role),
		IsVerified:          m.IsVerified,
		VerificationCode:    FromNullString(m.VerificationCode),
		VerificationExpires: FromNullTime(m.VerificationExpires),
		RefreshToken:        FromNullString(m.RefreshToken),
		GoogleID:            FromNullString(m.GoogleID),
		Picture:             FromNullString(m.Picture),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
