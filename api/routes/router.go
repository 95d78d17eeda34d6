package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/growwithgreen/growwithgreen-backend/api/controllers"
	"github.com/growwithgreen/growwithgreen-backend/api/middleware"
	"github.com/growwithgreen/growwithgreen-backend/internal/cart"
	"github.com/growwithgreen/growwithgreen-backend/internal/catalog"
	"github.com/growwithgreen/growwithgreen-backend/internal/loyalty"
	"github.com/growwithgreen/growwithgreen-backend/internal/notifications"
	"github.com/growwithgreen/growwithgreen-backend/internal/orders"
	"github.com/growwithgreen/growwithgreen-backend/internal/production"
	"github.com/growwithgreen/growwithgreen-backend/internal/promo"
	"github.com/growwithgreen/growwithgreen-backend/internal/reviews"
	"github.com/growwithgreen/growwithgreen-backend/internal/stock"
	"github.com/growwithgreen/growwithgreen-backend/internal/wishlist"
	"github.com/growwithgreen/growwithgreen-backend/pkg/config"
	"github.com/growwithgreen/growwithgreen-backend/pkg/logger"
	pkgredis "github.com/growwithgreen/growwithgreen-backend/pkg/redis"
)

// Deps carries everything the router needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB          controllers.Pinger
	RedisPinger controllers.Pinger
	Idempotency pkgredis.IdempotencyStore

	Catalog       catalog.Service
	Cart          cart.Service
	Orders        orders.Service
	Promo         promo.Service
	Loyalty       loyalty.Service
	Reviews       reviews.Service
	Wishlist      wishlist.Service
	Notifications notifications.Service
	Production    production.Service
	Stock         stock.Service
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.RedisPinger,
		}, logg))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogListProducts(deps.Catalog, logg))
			r.Get("/products/{productID}", controllers.CatalogGetProduct(deps.Catalog, logg))
			r.Get("/products/{productID}/reviews", controllers.ReviewsList(deps.Reviews, logg))
			r.Get("/search", controllers.CatalogSearch(deps.Catalog, logg))
		})
		r.Get("/zones", controllers.ZonesList(deps.Catalog, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, logg))
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{productID}", controllers.CartSetItemQuantity(deps.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
		r.Post("/promo/validate", controllers.PromoValidate(deps.Promo, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderNumber}", controllers.OrderGetByNumber(deps.Orders, logg))
		})

		r.Route("/loyalty", func(r chi.Router) {
			r.Get("/", controllers.LoyaltyAccount(deps.Loyalty, logg))
			r.Get("/history", controllers.LoyaltyHistory(deps.Loyalty, logg))
			r.Post("/redeem", controllers.LoyaltyRedeem(deps.Loyalty, logg))
		})

		r.Post("/products/{productID}/reviews", controllers.ReviewCreate(deps.Reviews, logg))
		r.Post("/reviews/{reviewID}/helpful", controllers.ReviewToggleHelpful(deps.Reviews, logg))
		r.Delete("/reviews/{reviewID}", controllers.ReviewDelete(deps.Reviews, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Put("/{productID}", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productID}", controllers.WishlistRemove(deps.Wishlist, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.NotificationsList(deps.Notifications, logg))
			r.Post("/{notificationID}/read", controllers.NotificationMarkRead(deps.Notifications, logg))
			r.Post("/read-all", controllers.NotificationsMarkAllRead(deps.Notifications, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.Config.JWT, logg))
		r.Use(middleware.RequireAdmin(logg))
		r.Use(middleware.Idempotency(deps.Idempotency, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Post("/{orderID}/mark-paid", controllers.AdminOrderMarkPaid(deps.Orders, logg))
			r.Post("/{orderID}/confirm", controllers.AdminOrderConfirm(deps.Orders, logg))
			r.Post("/{orderID}/prepare", controllers.AdminOrderPrepare(deps.Orders, logg))
			r.Post("/{orderID}/ship", controllers.AdminOrderShip(deps.Orders, logg))
			r.Post("/{orderID}/deliver", controllers.AdminOrderDeliver(deps.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.AdminOrderCancel(deps.Orders, logg))
		})

		r.Route("/plantings", func(r chi.Router) {
			r.Get("/", controllers.PlantingsList(deps.Production, logg))
			r.Post("/", controllers.PlantingCreate(deps.Production, logg))
			r.Post("/{plantingID}/harvest", controllers.HarvestRecord(deps.Production, logg))
		})
		r.Get("/harvests", controllers.HarvestsList(deps.Production, logg))

		r.Route("/stock", func(r chi.Router) {
			r.Get("/", controllers.StockOverview(deps.Stock, logg))
			r.Get("/alerts", controllers.StockAlerts(deps.Stock, logg))
			r.Put("/{vegetableID}/threshold", controllers.StockSetThreshold(deps.Stock, logg))
		})

		r.Post("/products", controllers.ProductCreate(deps.Catalog, logg))
		r.Patch("/products/{productID}", controllers.ProductUpdate(deps.Catalog, logg))
		r.Post("/vegetables", controllers.VegetableCreate(deps.Catalog, logg))

		r.Route("/promos", func(r chi.Router) {
			r.Get("/", controllers.PromoList(deps.Promo, logg))
			r.Post("/", controllers.PromoCreate(deps.Promo, logg))
		})
	})

	return r
}
