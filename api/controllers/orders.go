package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/orders"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type updateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type updateShippingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type updateShippingInfoRequest struct {
	ShippingCourier *string `json:"shipping_courier" validate:"omitempty,max=120"`
	TrackingNumber  *string `json:"tracking_number" validate:"omitempty,max=120"`
}

// ListOrders returns the paginated admin order list with optional filters.
func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := orders.Filters{
			Query: validators.SanitizeString(r.URL.Query().Get("q"), 120),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status filter"))
				return
			}
			filters.Status = &status
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("shipping_status")); raw != "" {
			status := enums.OrderShippingStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status filter"))
				return
			}
			filters.ShippingStatus = &status
		}
		if filters.DateFrom, err = validators.ParseQueryDate(r, "date_from"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if filters.DateTo, err = validators.ParseQueryDate(r, "date_to"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// GetOrder returns one order with its items, payments and complaints.
func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderStatus overwrites the order lifecycle status.
func UpdateOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		order, err := svc.UpdateStatus(r.Context(), orders.UpdateStatusInput{
			OrderID: orderID,
			Status:  enums.OrderStatus(body.Status),
			Reason:  validators.SanitizeString(body.Reason, 500),
			ActorInput: orders.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderShippingStatus changes the coarse shipping indicator.
func UpdateOrderShippingStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShippingStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		order, err := svc.UpdateShippingStatus(r.Context(), orders.UpdateShippingStatusInput{
			OrderID: orderID,
			Status:  enums.OrderShippingStatus(body.Status),
			ActorInput: orders.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateOrderShippingInfo sets courier and tracking metadata on the order.
func UpdateOrderShippingInfo(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShippingInfoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		order, err := svc.UpdateShippingInfo(r.Context(), orders.UpdateShippingInfoInput{
			OrderID:         orderID,
			ShippingCourier: body.ShippingCourier,
			TrackingNumber:  body.TrackingNumber,
			ActorInput: orders.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CompleteOrder marks a delivered order as settled.
func CompleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		order, err := svc.Complete(r.Context(), orders.CompleteInput{
			OrderID: orderID,
			ActorInput: orders.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// DeleteOrder removes an order together with its dependent rows.
func DeleteOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		if err := svc.Delete(r.Context(), orders.DeleteInput{
			OrderID: orderID,
			ActorInput: orders.ActorInput{
				ActorAdminID:   actor.AdminID,
				ActorRole:      actor.Role,
				ActorIP:        actor.IP,
				ActorUserAgent: actor.UserAgent,
			},
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
