package shipments

import "github.com/dimasprakoso/lokalive-backend/pkg/enums"

// OrderProjection describes the fields a shipment transition writes back onto
// the owning order. Nil pointers mean the field is left alone.
type OrderProjection struct {
	OrderStatus      *enums.OrderStatus
	ShippingStatus   *enums.OrderShippingStatus
	StampDeliveredAt bool
}

// ProjectOrder maps a shipment status onto the order-level effects. This is
// the single place the shipment and order state machines are tied together.
func ProjectOrder(status enums.ShipmentStatus) OrderProjection {
	switch status {
	case enums.ShipmentStatusInTransit:
		orderStatus := enums.OrderStatusShipped
		shippingStatus := enums.OrderShippingStatusInTransit
		return OrderProjection{OrderStatus: &orderStatus, ShippingStatus: &shippingStatus}
	case enums.ShipmentStatusOutForDelivery:
		shippingStatus := enums.OrderShippingStatusOutForDelivery
		return OrderProjection{ShippingStatus: &shippingStatus}
	case enums.ShipmentStatusDelivered:
		shippingStatus := enums.OrderShippingStatusDelivered
		return OrderProjection{ShippingStatus: &shippingStatus, StampDeliveredAt: true}
	default:
		return OrderProjection{}
	}
}

// Empty reports whether the projection changes anything on the order.
func (p OrderProjection) Empty() bool {
	return p.OrderStatus == nil && p.ShippingStatus == nil && !p.StampDeliveredAt
}
