package domain

import (
	"fmt"
	"strings"
	"time"
)

// Passport is one tracked document. Rows are owned entirely by the external
// store; the reminder pipeline reads them fresh on every run and never writes.
type Passport struct {
	ID             string
	LineUserID     string // durable push address; empty when unknown
	FirstName      string
	LastName       string
	PassportNumber string
	ExpiryDate     time.Time // calendar date, normalized to UTC midnight
	Agency         string    // free text, optional
}

func (p *Passport) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("%w: passport id is required", ErrValidation)
	}
	if p.ExpiryDate.IsZero() {
		return fmt.Errorf("%w: expiry date is required", ErrValidation)
	}
	return nil
}

func (p *Passport) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}
