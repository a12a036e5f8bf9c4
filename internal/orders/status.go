package orders

import (
	"fmt"
	"time"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type Status string

const (
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

var validNext = map[Status]map[Status]bool{
	StatusProcessing: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:    {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// CanTransition allows forward moves only. Writing the current status
// again is a permitted no-op.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	return validNext[from][to]
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", apperr.Invalid("status", fmt.Sprintf("unknown status %q", s))
}

// resolveStatusDates picks the shipped/delivered timestamps to persist
// with a status change. Explicit values win; moving to Shipped or
// Delivered stamps now when the column is still unset; set columns are
// never cleared.
func resolveStatusDates(status Status, curShipped, curDelivered, explicitShipped, explicitDelivered *time.Time, now time.Time) (shipped, delivered *time.Time) {
	shipped, delivered = curShipped, curDelivered
	if explicitShipped != nil {
		shipped = explicitShipped
	} else if status == StatusShipped && shipped == nil {
		shipped = &now
	}
	if explicitDelivered != nil {
		delivered = explicitDelivered
	} else if status == StatusDelivered && delivered == nil {
		delivered = &now
	}
	return shipped, delivered
}
