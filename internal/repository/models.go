package repository

import (
	"time"

	"github.com/naphat-v/visawatch/internal/domain"
)

// PassportModel is the persistence model for the passports table. Column
// names follow the agency's original sheet import (visa expiry lives in
// expiry_date, recipient address in line_user_id).
type PassportModel struct {
	ID             string    `gorm:"type:uuid;primaryKey"`
	LineUserID     *string   `gorm:"type:varchar(64)"`
	FirstName      string    `gorm:"type:varchar(120);not null"`
	LastName       string    `gorm:"type:varchar(120);not null"`
	PassportNumber string    `gorm:"type:varchar(32);not null"`
	ExpiryDate     time.Time `gorm:"type:date;not null"`
	Agency         *string   `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PassportModel) TableName() string {
	return "passports"
}

func passportModelToDomain(m *PassportModel) *domain.Passport {
	if m == nil {
		return nil
	}

	p := &domain.Passport{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		PassportNumber: m.PassportNumber,
		ExpiryDate:     m.ExpiryDate.UTC(),
	}
	if m.LineUserID != nil {
		p.LineUserID = *m.LineUserID
	}
	if m.Agency != nil {
		p.Agency = *m.Agency
	}
	return p
}
