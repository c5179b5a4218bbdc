package enums

import "fmt"

// OrderShippingStatus tracks logistics progress on the order itself,
// independent of the commercial OrderStatus.
type OrderShippingStatus string

const (
	OrderShippingStatusProcessing     OrderShippingStatus = "processing"
	OrderShippingStatusInTransit      OrderShippingStatus = "in_transit"
	OrderShippingStatusOutForDelivery OrderShippingStatus = "out_for_delivery"
	OrderShippingStatusDelivered      OrderShippingStatus = "delivered"
)

var validOrderShippingStatuses = []OrderShippingStatus{
	OrderShippingStatusProcessing,
	OrderShippingStatusInTransit,
	OrderShippingStatusOutForDelivery,
	OrderShippingStatusDelivered,
}

// String implements fmt.Stringer.
func (o OrderShippingStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderShippingStatus.
func (o OrderShippingStatus) IsValid() bool {
	for _, candidate := range validOrderShippingStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderShippingStatus converts raw input into an OrderShippingStatus.
func ParseOrderShippingStatus(value string) (OrderShippingStatus, error) {
	for _, candidate := range validOrderShippingStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order shipping status %q", value)
}
