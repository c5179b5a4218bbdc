package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/shipments"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
)

type createShipmentItemRequest struct {
	Name     string          `json:"name" validate:"required,max=255"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Weight   decimal.Decimal `json:"weight"`
}

type createShipmentRequest struct {
	OrderID        string                      `json:"order_id" validate:"required,uuid"`
	AddressLine    string                      `json:"address_line" validate:"required,max=500"`
	City           string                      `json:"city" validate:"required,max=120"`
	PostalCode     *string                     `json:"postal_code" validate:"omitempty,max=20"`
	Courier        string                      `json:"courier" validate:"required,max=120"`
	CourierService *string                     `json:"courier_service" validate:"omitempty,max=120"`
	TrackingNumber *string                     `json:"tracking_number" validate:"omitempty,max=120"`
	Items          []createShipmentItemRequest `json:"items" validate:"omitempty,dive"`
}

type updateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateShipment registers a shipment for a paid order.
func CreateShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createShipmentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.PathUUID(body.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]shipments.CreateItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			items = append(items, shipments.CreateItemInput{
				Name:     validators.SanitizeString(item.Name, 255),
				Quantity: item.Quantity,
				Weight:   item.Weight,
			})
		}

		actor := actorFrom(r)
		shipment, err := svc.Create(r.Context(), shipments.CreateInput{
			OrderID:        orderID,
			AddressLine:    validators.SanitizeString(body.AddressLine, 500),
			City:           validators.SanitizeString(body.City, 120),
			PostalCode:     body.PostalCode,
			Courier:        validators.SanitizeString(body.Courier, 120),
			CourierService: body.CourierService,
			TrackingNumber: body.TrackingNumber,
			Items:          items,
			ActorInput: shipments.ActorInput{
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
		responses.WriteSuccessStatus(w, http.StatusCreated, shipment)
	}
}

// GetShipment returns one shipment with its items.
func GetShipment(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shipmentID, err := validators.PathUUID(chi.URLParam(r, "shipmentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		shipment, err := svc.Get(r.Context(), shipmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, shipment)
	}
}

// ListOrderShipments returns the shipments attached to an order.
func ListOrderShipments(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.PathUUID(chi.URLParam(r, "orderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateShipmentStatus advances a shipment through its delivery stages.
func UpdateShipmentStatus(svc shipments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shipmentID, err := validators.PathUUID(chi.URLParam(r, "shipmentID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateShipmentStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		actor := actorFrom(r)
		shipment, err := svc.UpdateStatus(r.Context(), shipments.UpdateStatusInput{
			ShipmentID: shipmentID,
			Status:     enums.ShipmentStatus(body.Status),
			ActorInput: shipments.ActorInput{
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
		responses.WriteSuccess(w, shipment)
	}
}
