package enums

import "fmt"

// ComplaintStatus tracks an order complaint ticket. Values keep the
// capitalization the storefront persists.
type ComplaintStatus string

const (
	ComplaintStatusPending    ComplaintStatus = "Pending"
	ComplaintStatusProcessing ComplaintStatus = "Processing"
	ComplaintStatusResolved   ComplaintStatus = "Resolved"
	ComplaintStatusRejected   ComplaintStatus = "Rejected"
)

var validComplaintStatuses = []ComplaintStatus{
	ComplaintStatusPending,
	ComplaintStatusProcessing,
	ComplaintStatusResolved,
	ComplaintStatusRejected,
}

// String implements fmt.Stringer.
func (c ComplaintStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ComplaintStatus.
func (c ComplaintStatus) IsValid() bool {
	for _, candidate := range validComplaintStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the ticket can no longer change state.
func (c ComplaintStatus) IsTerminal() bool {
	return c == ComplaintStatusResolved || c == ComplaintStatusRejected
}

// ParseComplaintStatus converts raw input into a ComplaintStatus.
func ParseComplaintStatus(value string) (ComplaintStatus, error) {
	for _, candidate := range validComplaintStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid complaint status %q", value)
}
