package repository

import (
	"context"

	"github.com/naphat-v/visawatch/internal/domain"
	"gorm.io/gorm"
)

// PassportRepository is the read-only store port the reminder pipeline needs:
// a date-filtered, limit-bounded selection over tracked passports.
type PassportRepository interface {
	ListDue(ctx context.Context, window domain.ReminderWindow, limit int) ([]domain.Passport, error)
}

type GormPassportRepo struct {
	db *gorm.DB
}

func NewGormPassportRepo(db *gorm.DB) *GormPassportRepo {
	return &GormPassportRepo{db: db}
}

// ListDue selects passports whose expiry falls inside the rolling window or
// on the milestone calendar day, soonest expiry first, capped at limit.
func (r *GormPassportRepo) ListDue(ctx context.Context, window domain.ReminderWindow, limit int) ([]domain.Passport, error) {
	milestoneStart, milestoneEnd := window.MilestoneDay()

	var models []PassportModel
	err := r.db.WithContext(ctx).
		Where(
			"(expiry_date >= ? AND expiry_date < ?) OR (expiry_date >= ? AND expiry_date < ?)",
			window.LowerBound, window.UpperBound, milestoneStart, milestoneEnd,
		).
		Order("expiry_date ASC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	passports := make([]domain.Passport, 0, len(models))
	for i := range models {
		passports = append(passports, *passportModelToDomain(&models[i]))
	}

	return passports, nil
}
