package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/dimasprakoso/lokalive-backend/api/controllers"
	"github.com/dimasprakoso/lokalive-backend/api/handlers"
	"github.com/dimasprakoso/lokalive-backend/api/middleware"
	adminssvc "github.com/dimasprakoso/lokalive-backend/internal/admins"
	"github.com/dimasprakoso/lokalive-backend/internal/audit"
	"github.com/dimasprakoso/lokalive-backend/internal/catalog"
	"github.com/dimasprakoso/lokalive-backend/internal/complaints"
	"github.com/dimasprakoso/lokalive-backend/internal/live"
	"github.com/dimasprakoso/lokalive-backend/internal/orders"
	"github.com/dimasprakoso/lokalive-backend/internal/payments"
	"github.com/dimasprakoso/lokalive-backend/internal/shipments"
	"github.com/dimasprakoso/lokalive-backend/internal/templates"
	"github.com/dimasprakoso/lokalive-backend/pkg/auth/session"
	"github.com/dimasprakoso/lokalive-backend/pkg/config"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	redisclient "github.com/dimasprakoso/lokalive-backend/pkg/redis"
)

// Services bundles everything the HTTP layer depends on.
type Services struct {
	Admins     adminssvc.Service
	Orders     orders.Service
	Payments   payments.Service
	Shipments  shipments.Service
	Complaints complaints.Service
	Catalog    catalog.Service
	Templates  templates.Service
	Live       live.Service
	Audit      audit.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	db *gorm.DB,
	redisClient *redisclient.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", handlers.HealthLive())
		r.Get("/ready", handlers.HealthReady(db, redisClient, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Viewer-facing surface: no admin session required.
	r.Route("/api/public/v1", func(r chi.Router) {
		r.Post("/live-streams/{streamID}/viewer-token", controllers.IssueViewerToken(svcs.Live, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.Login(svcs.Admins, logg))
			r.Post("/refresh", controllers.Refresh(svcs.Admins, logg))
			r.Post("/logout", controllers.Logout(svcs.Admins, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermOrdersManage, logg))
				r.Get("/orders", controllers.ListOrders(svcs.Orders, logg))
				r.Get("/orders/{orderID}", controllers.GetOrder(svcs.Orders, logg))
				r.Patch("/orders/{orderID}/status", controllers.UpdateOrderStatus(svcs.Orders, logg))
				r.Patch("/orders/{orderID}/shipping", controllers.UpdateOrderShippingInfo(svcs.Orders, logg))
				r.Patch("/orders/{orderID}/shipping-status", controllers.UpdateOrderShippingStatus(svcs.Orders, logg))
				r.Post("/orders/{orderID}/complete", controllers.CompleteOrder(svcs.Orders, logg))
				r.Delete("/orders/{orderID}", controllers.DeleteOrder(svcs.Orders, logg))
				r.Get("/orders/{orderID}/shipments", controllers.ListOrderShipments(svcs.Shipments, logg))
				r.Get("/orders/{orderID}/complaints", controllers.ListOrderComplaints(svcs.Complaints, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermPaymentsVerify, logg))
				r.Post("/payment-proofs/{proofID}/verify", controllers.VerifyPaymentProof(svcs.Payments, logg))
				r.Post("/payment-proofs/{proofID}/reject", controllers.RejectPaymentProof(svcs.Payments, logg))
				r.Post("/payments/{paymentID}/verify", controllers.VerifyPayment(svcs.Payments, logg))
				r.Post("/payments/{paymentID}/reject", controllers.RejectPayment(svcs.Payments, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermShipmentsManage, logg))
				r.Post("/shipments", controllers.CreateShipment(svcs.Shipments, logg))
				r.Get("/shipments/{shipmentID}", controllers.GetShipment(svcs.Shipments, logg))
				r.Patch("/shipments/{shipmentID}/status", controllers.UpdateShipmentStatus(svcs.Shipments, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermComplaintsHandle, logg))
				r.Get("/order-complaints/{complaintID}", controllers.GetComplaint(svcs.Complaints, logg))
				r.Post("/order-complaints/{complaintID}/process", controllers.ProcessComplaint(svcs.Complaints, logg))
				r.Post("/order-complaints/{complaintID}/resolve", controllers.ResolveComplaint(svcs.Complaints, logg))
				r.Post("/order-complaints/{complaintID}/reject", controllers.RejectComplaint(svcs.Complaints, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermCatalogManage, logg))
				r.Post("/categories", controllers.CreateCategory(svcs.Catalog, logg))
				r.Get("/categories", controllers.ListCategories(svcs.Catalog, logg))
				r.Put("/categories/{categoryID}", controllers.UpdateCategory(svcs.Catalog, logg))
				r.Delete("/categories/{categoryID}", controllers.DeleteCategory(svcs.Catalog, logg))
				r.Post("/products", controllers.CreateProduct(svcs.Catalog, logg))
				r.Get("/products", controllers.ListProducts(svcs.Catalog, logg))
				r.Get("/products/{productID}", controllers.GetProduct(svcs.Catalog, logg))
				r.Put("/products/{productID}", controllers.UpdateProduct(svcs.Catalog, logg))
				r.Delete("/products/{productID}", controllers.DeleteProduct(svcs.Catalog, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermTemplatesManage, logg))
				r.Post("/whatsapp-templates", controllers.CreateTemplate(svcs.Templates, logg))
				r.Get("/whatsapp-templates", controllers.ListTemplates(svcs.Templates, logg))
				r.Get("/whatsapp-templates/{templateID}", controllers.GetTemplate(svcs.Templates, logg))
				r.Put("/whatsapp-templates/{templateID}", controllers.UpdateTemplate(svcs.Templates, logg))
				r.Delete("/whatsapp-templates/{templateID}", controllers.DeleteTemplate(svcs.Templates, logg))
				r.Post("/whatsapp-templates/{templateID}/render", controllers.RenderTemplate(svcs.Templates, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermAdminsManage, logg))
				r.Post("/admins", controllers.CreateAdmin(svcs.Admins, logg))
				r.Get("/admins", controllers.ListAdmins(svcs.Admins, logg))
				r.Get("/admins/{adminID}", controllers.GetAdmin(svcs.Admins, logg))
				r.Put("/admins/{adminID}", controllers.UpdateAdmin(svcs.Admins, logg))
				r.Delete("/admins/{adminID}", controllers.DeleteAdmin(svcs.Admins, logg))
				r.Post("/admins/{adminID}/toggle-status", controllers.ToggleAdminStatus(svcs.Admins, logg))
				r.Put("/admins/{adminID}/permissions", controllers.SetAdminPermissions(svcs.Admins, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermLiveManage, logg))
				r.Post("/live-streams", controllers.CreateStream(svcs.Live, logg))
				r.Get("/live-streams", controllers.ListStreams(svcs.Live, logg))
				r.Get("/live-streams/{streamID}", controllers.GetStream(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/start", controllers.StartStream(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/end", controllers.EndStream(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/pins", controllers.PinStreamProduct(svcs.Live, logg))
				r.Delete("/live-streams/{streamID}/pins/{productID}", controllers.UnpinStreamProduct(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/vouchers", controllers.CreateVoucher(svcs.Live, logg))
				r.Get("/live-streams/{streamID}/vouchers", controllers.ListVouchers(svcs.Live, logg))
				r.Put("/live-vouchers/{voucherID}", controllers.UpdateVoucher(svcs.Live, logg))
				r.Delete("/live-vouchers/{voucherID}", controllers.DeleteVoucher(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/orders", controllers.CreateLiveOrder(svcs.Live, logg))
				r.Get("/live-streams/{streamID}/orders", controllers.ListLiveOrders(svcs.Live, logg))
				r.Post("/live-orders/{liveOrderID}/confirm", controllers.ConfirmLiveOrder(svcs.Live, logg))
				r.Patch("/live-orders/{liveOrderID}/status", controllers.UpdateLiveOrderStatus(svcs.Live, logg))
				r.Get("/live-orders/{liveOrderID}", controllers.GetLiveOrder(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/comments", controllers.PostStreamComment(svcs.Live, logg))
				r.Get("/live-streams/{streamID}/comments", controllers.ListStreamComments(svcs.Live, logg))
				r.Post("/live-streams/{streamID}/analytics", controllers.RecordStreamSnapshot(svcs.Live, logg))
				r.Get("/live-streams/{streamID}/analytics", controllers.ListStreamSnapshots(svcs.Live, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(adminssvc.PermActivitiesView, logg))
				r.Get("/activities", controllers.ListActivities(svcs.Audit, logg))
			})
		})
	})

	return r
}
