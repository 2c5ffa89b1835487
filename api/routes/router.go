package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/warungkita/warung-pos-backend/api/controllers"
	"github.com/warungkita/warung-pos-backend/api/middleware"
	"github.com/warungkita/warung-pos-backend/internal/auth"
	cartsvc "github.com/warungkita/warung-pos-backend/internal/cart"
	checkoutsvc "github.com/warungkita/warung-pos-backend/internal/checkout"
	productsvc "github.com/warungkita/warung-pos-backend/internal/products"
	storesvc "github.com/warungkita/warung-pos-backend/internal/stores"
	transactionsvc "github.com/warungkita/warung-pos-backend/internal/transactions"
	"github.com/warungkita/warung-pos-backend/pkg/auth/session"
	"github.com/warungkita/warung-pos-backend/pkg/config"
	"github.com/warungkita/warung-pos-backend/pkg/db"
	"github.com/warungkita/warung-pos-backend/pkg/logger"
	"github.com/warungkita/warung-pos-backend/pkg/redis"
)

// Services bundles everything the router mounts.
type Services struct {
	Auth         auth.Service
	Register     auth.RegisterService
	Stores       storesvc.Service
	Products     productsvc.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Transactions transactionsvc.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	sessions session.AccessSessionChecker,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(nil),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		}, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.AuthLogin(svcs.Auth, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, redisClient, logg),
			middleware.Idempotency(redisClient, logg),
		).Post("/register", controllers.AuthRegister(svcs.Register, svcs.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(svcs.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, sessions, logg)).
			Post("/logout", controllers.AuthLogout(svcs.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessions, logg))
		r.Use(middleware.StoreContext(logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(svcs.Products, logg))
			r.Get("/usages", controllers.ListProductUsages(svcs.Products, logg))
			r.Post("/", controllers.CreateProduct(svcs.Products, logg))
			r.Patch("/{productID}", controllers.UpdateProduct(svcs.Products, logg))
			r.Delete("/{productID}", controllers.DeleteProduct(svcs.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(svcs.Cart, logg))
			r.Post("/lines", controllers.AddCartLine(svcs.Cart, logg))
			r.Put("/lines/{productID}", controllers.SetCartQuantity(svcs.Cart, logg))
			r.Delete("/lines/{productID}", controllers.RemoveCartLine(svcs.Cart, logg))
			r.Delete("/", controllers.ClearCart(svcs.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(svcs.Checkout, svcs.Cart, logg))

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(svcs.Transactions, logg))
			r.Get("/{transactionID}", controllers.GetTransaction(svcs.Transactions, logg))
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(svcs.Transactions, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/me", controllers.GetMyStore(svcs.Stores, logg))
			r.Put("/me", controllers.UpdateMyStore(svcs.Stores, logg))
		})
	})

	return r
}
