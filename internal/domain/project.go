package domain

import (
	"fmt"
	"regexp"
	"time"
)

var shortIDPattern = regexp.MustCompile(`^[A-Z]{2,6}[0-9]{1,4}$`)

type Project struct {
	ID          string
	ShortID     string
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
	Status      ProjectStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ValidateShortID checks that ShortID is non-empty and matches the required
// format: 2-6 uppercase letters followed by 1-4 digits (e.g. WEB1, ROAD2024).
func (p *Project) ValidateShortID() error {
	if p.ShortID == "" {
		return fmt.Errorf("short ID is required (use --id flag)")
	}
	if !shortIDPattern.MatchString(p.ShortID) {
		return fmt.Errorf("short ID %q must be 2-6 uppercase letters followed by 1-4 digits (e.g. WEB1)", p.ShortID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers ShortID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.ShortID != "" {
		return p.ShortID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
