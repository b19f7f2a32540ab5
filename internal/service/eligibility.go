package service

import (
	"context"
	"fmt"
	"time"

	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/repository"
	"go.uber.org/zap"
)

const (
	defaultHorizonDays   = 45
	defaultMilestoneDays = 30
	defaultPageLimit     = 20
)

// Eligibility derives the reminder window from wall clock and selects the
// due records, capped at the page limit.
type Eligibility struct {
	passports     repository.PassportRepository
	horizonDays   int
	milestoneDays int
	pageLimit     int
	logger        *zap.Logger
	now           func() time.Time
}

func NewEligibility(
	passports repository.PassportRepository,
	horizonDays int,
	milestoneDays int,
	pageLimit int,
	logger *zap.Logger,
) (*Eligibility, error) {
	if passports == nil {
		return nil, fmt.Errorf("passport repository is required")
	}
	if horizonDays <= 0 {
		horizonDays = defaultHorizonDays
	}
	if milestoneDays <= 0 {
		milestoneDays = defaultMilestoneDays
	}
	if pageLimit <= 0 {
		pageLimit = defaultPageLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Eligibility{
		passports:     passports,
		horizonDays:   horizonDays,
		milestoneDays: milestoneDays,
		pageLimit:     pageLimit,
		logger:        logger,
		now:           time.Now,
	}, nil
}

// SelectDue returns the records whose expiry falls inside the current window.
// A store failure returns an empty selection wrapped in ErrQueryFailed; the
// caller degrades the run instead of aborting it.
func (e *Eligibility) SelectDue(ctx context.Context) ([]domain.Passport, domain.ReminderWindow, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	window := domain.NewReminderWindow(e.now(), e.horizonDays, e.milestoneDays)

	records, err := e.passports.ListDue(ctx, window, e.pageLimit)
	if err != nil {
		e.logger.Warn("due-record query failed",
			zap.Time("windowLower", window.LowerBound),
			zap.Time("windowUpper", window.UpperBound),
			zap.Error(err),
		)
		return nil, window, fmt.Errorf("%w: %v", domain.ErrQueryFailed, err)
	}

	if len(records) > e.pageLimit {
		records = records[:e.pageLimit]
	}

	return records, window, nil
}
