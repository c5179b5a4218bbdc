package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateOrder        OutboxAggregateType = "order"
	AggregateShipment     OutboxAggregateType = "shipment"
	AggregatePayment      OutboxAggregateType = "payment"
	AggregatePaymentProof OutboxAggregateType = "payment_proof"
	AggregateComplaint    OutboxAggregateType = "complaint"
	AggregateLiveStream   OutboxAggregateType = "live_stream"
	AggregateLiveOrder    OutboxAggregateType = "live_order"
	AggregateLiveComment  OutboxAggregateType = "live_comment"
	AggregateAdmin        OutboxAggregateType = "admin"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateOrder,
	AggregateShipment,
	AggregatePayment,
	AggregatePaymentProof,
	AggregateComplaint,
	AggregateLiveStream,
	AggregateLiveOrder,
	AggregateLiveComment,
	AggregateAdmin,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventOrderStatusChanged         OutboxEventType = "order_status_changed"
	EventOrderShippingStatusChanged OutboxEventType = "order_shipping_status_changed"
	EventOrderCompleted             OutboxEventType = "order_completed"
	EventOrderCanceled              OutboxEventType = "order_canceled"
	EventShipmentStatusChanged      OutboxEventType = "shipment_status_changed"
	EventPaymentVerified            OutboxEventType = "payment_verified"
	EventPaymentRejected            OutboxEventType = "payment_rejected"
	EventPaymentProofVerified       OutboxEventType = "payment_proof_verified"
	EventPaymentProofRejected       OutboxEventType = "payment_proof_rejected"
	EventComplaintStatusChanged     OutboxEventType = "complaint_status_changed"
	EventLiveStreamStarted          OutboxEventType = "live_stream_started"
	EventLiveStreamEnded            OutboxEventType = "live_stream_ended"
	EventLiveOrderCreated           OutboxEventType = "live_order_created"
	EventLiveOrderConfirmed         OutboxEventType = "live_order_confirmed"
	EventLiveCommentPosted          OutboxEventType = "live_comment_posted"
	EventAdminStatusToggled         OutboxEventType = "admin_status_toggled"
	EventAdminMutated               OutboxEventType = "admin_mutated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventOrderStatusChanged,
	EventOrderShippingStatusChanged,
	EventOrderCompleted,
	EventOrderCanceled,
	EventShipmentStatusChanged,
	EventPaymentVerified,
	EventPaymentRejected,
	EventPaymentProofVerified,
	EventPaymentProofRejected,
	EventComplaintStatusChanged,
	EventLiveStreamStarted,
	EventLiveStreamEnded,
	EventLiveOrderCreated,
	EventLiveOrderConfirmed,
	EventLiveCommentPosted,
	EventAdminStatusToggled,
	EventAdminMutated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// OutboxDLQErrorReason explains why an outbox row was parked.
type OutboxDLQErrorReason string

const (
	OutboxDLQReasonMaxAttempts  OutboxDLQErrorReason = "max_attempts"
	OutboxDLQReasonNonRetryable OutboxDLQErrorReason = "non_retryable"
)

var validOutboxDLQErrorReasons = []OutboxDLQErrorReason{
	OutboxDLQReasonMaxAttempts,
	OutboxDLQReasonNonRetryable,
}

// IsValid reports whether the value is a known OutboxDLQErrorReason.
func (r OutboxDLQErrorReason) IsValid() bool {
	for _, candidate := range validOutboxDLQErrorReasons {
		if candidate == r {
			return true
		}
	}
	return false
}
