package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/dimasprakoso/lokalive-backend/api/routes"
	"github.com/dimasprakoso/lokalive-backend/internal/admins"
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
	"github.com/dimasprakoso/lokalive-backend/pkg/db"
	"github.com/dimasprakoso/lokalive-backend/pkg/logger"
	"github.com/dimasprakoso/lokalive-backend/pkg/migrate"
	"github.com/dimasprakoso/lokalive-backend/pkg/outbox"
	"github.com/dimasprakoso/lokalive-backend/pkg/push"
	"github.com/dimasprakoso/lokalive-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	pushClient, err := push.NewClient(cfg.Push)
	if err != nil {
		logg.Warn(context.Background(), "push client disabled: "+err.Error())
		pushClient = nil
	}

	ordersService, err := orders.NewService(orders.NewRepository(dbClient.DB()), dbClient, outboxService, pushClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	shipmentsService, err := shipments.NewService(shipments.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipments service", err)
		os.Exit(1)
	}

	complaintsService, err := complaints.NewService(complaints.NewRepository(dbClient.DB()), dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create complaints service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	templatesService, err := templates.NewService(templates.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create templates service", err)
		os.Exit(1)
	}

	adminsService, err := admins.NewService(
		admins.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		sessionManager,
		redisClient,
		cfg.JWT,
		cfg.Password,
		cfg.AuthRateLimit,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create admins service", err)
		os.Exit(1)
	}

	liveService, err := live.NewService(live.NewRepository(dbClient.DB()), dbClient, outboxService, redisClient, cfg.Video, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create live service", err)
		os.Exit(1)
	}

	auditService, err := audit.NewService(audit.NewRepository(dbClient.DB()), nil, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create audit service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient.DB(), redisClient, sessionManager, routes.Services{
			Admins:     adminsService,
			Orders:     ordersService,
			Payments:   paymentsService,
			Shipments:  shipmentsService,
			Complaints: complaintsService,
			Catalog:    catalogService,
			Templates:  templatesService,
			Live:       liveService,
			Audit:      auditService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
