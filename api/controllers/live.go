package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dimasprakoso/lokalive-backend/api/responses"
	"github.com/dimasprakoso/lokalive-backend/api/validators"
	"github.com/dimasprakoso/lokalive-backend/internal/live"
	"github.com/dimasprakoso/lokalive-backend/pkg/enums"
	pkgerrors "github.com/dimasprakoso/lokalive-backend/pkg/errors"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/pagination"
)

type createStreamRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

type pinProductRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Position  int    `json:"position" validate:"omitempty,min=0"`
}

type voucherRequest struct {
	Code      string           `json:"code" validate:"required,max=40"`
	Type      string           `json:"type" validate:"required"`
	Value     *decimal.Decimal `json:"value"`
	StartTime *time.Time       `json:"start_time"`
	EndTime   *time.Time       `json:"end_time"`
	IsActive  *bool            `json:"is_active"`
}

type liveOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Name      string          `json:"name" validate:"required,max=255"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type createLiveOrderRequest struct {
	BuyerName       string                 `json:"buyer_name" validate:"required,max=120"`
	BuyerPhone      string                 `json:"buyer_phone" validate:"required,max=32"`
	ShippingAddress string                 `json:"shipping_address" validate:"required,max=500"`
	PaymentMethod   string                 `json:"payment_method" validate:"required,max=60"`
	VoucherCode     string                 `json:"voucher_code" validate:"omitempty,max=40"`
	Items           []liveOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type liveOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type postCommentRequest struct {
	AuthorName string `json:"author_name" validate:"required,max=120"`
	Body       string `json:"body" validate:"required,max=500"`
	IsPinned   bool   `json:"is_pinned"`
}

type viewerTokenRequest struct {
	Identity string `json:"identity" validate:"required,max=120"`
}

func liveActor(r *http.Request) live.ActorInput {
	actor := actorFrom(r)
	return live.ActorInput{
		ActorAdminID:   actor.AdminID,
		ActorRole:      actor.Role,
		ActorIP:        actor.IP,
		ActorUserAgent: actor.UserAgent,
	}
}

// CreateStream schedules a live shopping session.
func CreateStream(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createStreamRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stream, err := svc.CreateStream(r.Context(), live.CreateStreamInput{
			Title:       validators.SanitizeString(body.Title, 255),
			Description: body.Description,
			ScheduledAt: body.ScheduledAt,
			ActorInput:  liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, stream)
	}
}

// GetStream returns one stream with its pins and vouchers.
func GetStream(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stream, err := svc.GetStream(r.Context(), streamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stream)
	}
}

// ListStreams returns a paginated stream page with optional filters.
func ListStreams(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filters := live.StreamFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.LiveStreamStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid stream status filter"))
				return
			}
			filters.Status = &status
		}
		if filters.HostAdminID, err = validators.ParseQueryUUID(r, "host_admin_id"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListStreams(r.Context(), pagination.Params{
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

// StartStream moves a scheduled stream live and returns the host room token.
func StartStream(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.StartStream(r.Context(), live.StreamLifecycleInput{
			StreamID:   streamID,
			ActorInput: liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// EndStream closes a live stream and folds the viewer peak into the row.
func EndStream(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stream, err := svc.EndStream(r.Context(), live.StreamLifecycleInput{
			StreamID:   streamID,
			ActorInput: liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stream)
	}
}

// PinStreamProduct pins a product on a stream.
func PinStreamProduct(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body pinProductRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.PathUUID(body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.PinProduct(r.Context(), live.PinInput{
			StreamID:   streamID,
			ProductID:  productID,
			Position:   body.Position,
			ActorInput: liveActor(r),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "pinned"})
	}
}

// UnpinStreamProduct removes a product pin from a stream.
func UnpinStreamProduct(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.PathUUID(chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UnpinProduct(r.Context(), live.PinInput{
			StreamID:   streamID,
			ProductID:  productID,
			ActorInput: liveActor(r),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unpinned"})
	}
}

// IssueViewerToken joins the viewer counter and returns a subscribe-only
// room token.
func IssueViewerToken(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body viewerTokenRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.IssueViewerToken(r.Context(), live.ViewerTokenInput{
			StreamID: streamID,
			Identity: validators.SanitizeString(body.Identity, 120),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, session)
	}
}

// CreateVoucher adds a voucher scoped to a stream.
func CreateVoucher(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body voucherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		voucher, err := svc.CreateVoucher(r.Context(), live.VoucherInput{
			StreamID:   streamID,
			Code:       body.Code,
			Type:       enums.VoucherType(body.Type),
			Value:      body.Value,
			StartTime:  body.StartTime,
			EndTime:    body.EndTime,
			IsActive:   body.IsActive,
			ActorInput: liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, voucher)
	}
}

// ListVouchers returns the vouchers attached to a stream.
func ListVouchers(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListVouchers(r.Context(), streamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// UpdateVoucher mutates a voucher that has not been redeemed yet.
func UpdateVoucher(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voucherID, err := validators.PathUUID(chi.URLParam(r, "voucherID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body voucherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		voucher, err := svc.UpdateVoucher(r.Context(), voucherID, live.VoucherInput{
			Code:       body.Code,
			Type:       enums.VoucherType(body.Type),
			Value:      body.Value,
			StartTime:  body.StartTime,
			EndTime:    body.EndTime,
			IsActive:   body.IsActive,
			ActorInput: liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, voucher)
	}
}

// DeleteVoucher removes an unredeemed voucher.
func DeleteVoucher(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		voucherID, err := validators.PathUUID(chi.URLParam(r, "voucherID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteVoucher(r.Context(), voucherID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// CreateLiveOrder places an order for a live viewer. The Idempotency-Key
// header guards against double submission.
func CreateLiveOrder(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createLiveOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]live.LiveOrderItemInput, 0, len(body.Items))
		for _, item := range body.Items {
			productID, err := validators.PathUUID(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			items = append(items, live.LiveOrderItemInput{
				ProductID: productID,
				Name:      validators.SanitizeString(item.Name, 255),
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}

		order, err := svc.CreateLiveOrder(r.Context(), live.CreateLiveOrderInput{
			StreamID:        streamID,
			BuyerName:       validators.SanitizeString(body.BuyerName, 120),
			BuyerPhone:      validators.SanitizeString(body.BuyerPhone, 32),
			ShippingAddress: validators.SanitizeString(body.ShippingAddress, 500),
			PaymentMethod:   validators.SanitizeString(body.PaymentMethod, 60),
			VoucherCode:     body.VoucherCode,
			Items:           items,
			IdempotencyKey:  strings.TrimSpace(r.Header.Get("Idempotency-Key")),
			ActorInput:      liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// ConfirmLiveOrder moves an unconfirmed live order into the regular flow.
func ConfirmLiveOrder(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liveOrderID, err := validators.PathUUID(chi.URLParam(r, "liveOrderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.ConfirmLiveOrder(r.Context(), live.LiveOrderDecisionInput{
			LiveOrderID: liveOrderID,
			ActorInput:  liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// UpdateLiveOrderStatus forwards a lifecycle change to the backing order.
func UpdateLiveOrderStatus(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liveOrderID, err := validators.PathUUID(chi.URLParam(r, "liveOrderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body liveOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateLiveOrderStatus(r.Context(), live.LiveOrderStatusInput{
			LiveOrderID: liveOrderID,
			Status:      enums.OrderStatus(body.Status),
			ActorInput:  liveActor(r),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// GetLiveOrder returns one live order with the projected order status.
func GetLiveOrder(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		liveOrderID, err := validators.PathUUID(chi.URLParam(r, "liveOrderID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetLiveOrder(r.Context(), liveOrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// ListLiveOrders returns the live orders placed during a stream.
func ListLiveOrders(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListLiveOrders(r.Context(), streamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// PostStreamComment appends a comment to a live stream.
func PostStreamComment(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body postCommentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := live.CommentInput{
			StreamID:   streamID,
			AuthorName: validators.SanitizeString(body.AuthorName, 120),
			Body:       body.Body,
			IsPinned:   body.IsPinned,
			ActorInput: liveActor(r),
		}
		if input.ActorAdminID != uuid.Nil {
			adminID := input.ActorAdminID
			input.AdminID = &adminID
		}

		comment, err := svc.PostComment(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, comment)
	}
}

// ListStreamComments returns a comment page in reverse chronological order.
func ListStreamComments(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comments, nextCursor, err := svc.ListComments(r.Context(), streamID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"comments":    comments,
			"next_cursor": nextCursor,
		})
	}
}

// RecordStreamSnapshot captures the current analytics counters for a stream.
func RecordStreamSnapshot(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.RecordSnapshot(r.Context(), streamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

// ListStreamSnapshots returns the analytics history for a stream.
func ListStreamSnapshots(svc live.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		streamID, err := validators.PathUUID(chi.URLParam(r, "streamID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListSnapshots(r.Context(), streamID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
