package contract

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
)

const (
	// DefaultUtilizationDays is the window used when a request gives no end.
	DefaultUtilizationDays = 28
	// MaxUtilizationDays bounds one request's series, about five years.
	MaxUtilizationDays = 5*366 + 1
)

type UtilizationRequest struct {
	ResourceID string
	From       time.Time
	To         time.Time
}

// NewUtilizationRequest builds a request over [from, to]. A zero to means
// DefaultUtilizationDays days starting at from.
func NewUtilizationRequest(resourceID string, from, to time.Time) UtilizationRequest {
	from = domain.DateOnly(from)
	if to.IsZero() {
		to = from.AddDate(0, 0, DefaultUtilizationDays-1)
	}
	return UtilizationRequest{ResourceID: resourceID, From: from, To: domain.DateOnly(to)}
}

func (r UtilizationRequest) Validate() error {
	if r.From.IsZero() {
		return &RequestError{Code: ErrInvalidRange, Message: "window start is required"}
	}
	if days := gantt.DaysBetween(r.From, r.To) + 1; days > MaxUtilizationDays {
		return &RequestError{
			Code:    ErrInvalidRange,
			Message: fmt.Sprintf("window spans %d days, at most %d allowed", days, MaxUtilizationDays),
		}
	}
	return nil
}

type UtilizationResponse struct {
	Resource *domain.Resource         `json:"resource"`
	From     time.Time                `json:"from"`
	To       time.Time                `json:"to"`
	Days     []gantt.DailyUtilization `json:"days"`
	Summary  gantt.Summary            `json:"summary"`
}
