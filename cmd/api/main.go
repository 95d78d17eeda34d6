package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/growwithgreen/growwithgreen-backend/api/routes"
	"github.com/growwithgreen/growwithgreen-backend/internal/cart"
	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/internal/loyalty"
	"github.com/growwithgreen/growwithgreen-backend/internal/mailer"
	"github.com/growwithgreen/growwithgreen-backend/internal/notifications"
	"github.com/growwithgreen/growwithgreen-backend/internal/orders"
	"github.com/growwithgreen/growwithgreen-backend/internal/production"
	"github.com/growwithgreen/growwithgreen-backend/internal/promo"
	"github.com/growwithgreen/growwithgreen-backend/internal/reviews"
	"github.com/growwithgreen/growwithgreen-backend/internal/stock"
	"github.com/growwithgreen/growwithgreen-backend/internal/wishlist"
	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/db"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
	"github.com/growwithgreen/growwithgreen-backend/pkg/migrate"
	"github.com/growwithgreen/growwithgreen-backend/pkg/redis"
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

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	catalogRepo := catalog.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)
	loyaltyRepo := loyalty.NewRepository(gormDB)
	ordersRepo := orders.NewRepository(gormDB)
	reviewsRepo := reviews.NewRepository(gormDB)
	wishlistRepo := wishlist.NewRepository(gormDB)
	notificationsRepo := notifications.NewRepository(gormDB)
	productionRepo := production.NewRepository(gormDB)

	catalogSvc, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	stockSvc, err := stock.NewService(stockRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stock service", err)
		os.Exit(1)
	}
	cartSvc, err := cart.NewService(cartRepo, catalogRepo, stockSvc)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}
	promoSvc, err := promo.NewService(promo.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create promo service", err)
		os.Exit(1)
	}
	loyaltySvc, err := loyalty.NewService(loyaltyRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}
	notificationsSvc, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}
	mailSender, err := mailer.New(cfg.SMTP, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create mailer", err)
		os.Exit(1)
	}
	ordersSvc, err := orders.NewService(ordersRepo, dbClient, cartRepo, catalogRepo,
		promoSvc, stockSvc, loyaltySvc, notificationsSvc, mailSender, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}
	reviewsSvc, err := reviews.NewService(reviewsRepo, catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}
	wishlistSvc, err := wishlist.NewService(wishlistRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}
	productionSvc, err := production.NewService(productionRepo, catalogRepo, stockSvc, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create production service", err)
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
		Handler: routes.NewRouter(routes.Deps{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			RedisPinger:   redisClient,
			Idempotency:   redisClient,
			Catalog:       catalogSvc,
			Cart:          cartSvc,
			Orders:        ordersSvc,
			Promo:         promoSvc,
			Loyalty:       loyaltySvc,
			Reviews:       reviewsSvc,
			Wishlist:      wishlistSvc,
			Notifications: notificationsSvc,
			Production:    productionSvc,
			Stock:         stockSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
