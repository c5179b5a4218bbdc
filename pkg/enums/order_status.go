package enums

import "fmt"

// OrderStatus tracks the commercial lifecycle of an order. Values are the
// storefront's Indonesian labels and are persisted verbatim.
type OrderStatus string

const (
	OrderStatusAwaitingPayment      OrderStatus = "Menunggu Pembayaran"
	OrderStatusAwaitingConfirmation OrderStatus = "Menunggu Konfirmasi"
	OrderStatusProcessing           OrderStatus = "Diproses"
	OrderStatusShipped              OrderStatus = "Dikirim"
	OrderStatusCompleted            OrderStatus = "Selesai"
	OrderStatusCanceled             OrderStatus = "Dibatalkan"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusAwaitingPayment,
	OrderStatusAwaitingConfirmation,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusCompleted,
	OrderStatusCanceled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsAwaiting reports whether the order still waits on payment or confirmation.
func (o OrderStatus) IsAwaiting() bool {
	return o == OrderStatusAwaitingPayment || o == OrderStatusAwaitingConfirmation
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
