package httpserver

import (
	"context"
	"encoding/json"
	"log"

	"shopcart-api/internal/domain"
	"shopcart-api/internal/metrics"
	"shopcart-api/internal/service/checkout"
	usersvc "shopcart-api/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the router hands requests to. Fields are
// interfaces so handler tests can substitute stubs.
type Deps struct {
	CatalogSvc  catalogService
	CartSvc     cartService
	UserSvc     userService
	CheckoutSvc checkoutService
}

type catalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
}

type cartService interface {
	AddItem(ctx context.Context, cartCode string, productID int64) (*domain.CartItem, error)
	ContainsProduct(ctx context.Context, cartCode string, productID int64) (bool, error)
	Get(ctx context.Context, cartCode string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, itemID int64) error
}

type userService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	AccessTTLSeconds() int
}

type checkoutService interface {
	InitiateCardPayment(ctx context.Context, cartCode string, user domain.User) (json.RawMessage, error)
	InitiateWalletPayment(ctx context.Context, cartCode string, user domain.User) (string, error)
	ConfirmCardPayment(ctx context.Context, cb checkout.CardCallback) (checkout.Outcome, error)
	ConfirmWalletPayment(ctx context.Context, cb checkout.WalletCallback) (checkout.Outcome, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.CatalogSvc))
		api.GET("/products/:slug", productDetailHandler(deps.CatalogSvc))

		api.POST("/cart/add-item", addItemHandler(deps.CartSvc))
		api.GET("/cart/product-in-cart", productInCartHandler(deps.CartSvc))
		api.GET("/cart/summary", cartSummaryHandler(deps.CartSvc))
		api.GET("/cart", getCartHandler(deps.CartSvc))
		api.PATCH("/cart/update-quantity", updateQuantityHandler(deps.CartSvc))
		api.POST("/cart/delete-item", deleteItemHandler(deps.CartSvc))

		api.POST("/auth/register", registerHandler(deps.UserSvc))
		api.POST("/auth/login", loginHandler(deps.UserSvc))
		api.GET("/auth/username", authRequired(deps.UserSvc), usernameHandler())
		api.GET("/auth/user-info", authRequired(deps.UserSvc), userInfoHandler())

		api.POST("/payments/initiate", authRequired(deps.UserSvc), initiatePaymentHandler(deps.CheckoutSvc))
		api.POST("/payments/callback", paymentCallbackHandler(deps.CheckoutSvc))
		api.POST("/payments/paypal/initiate", authRequired(deps.UserSvc), initiatePayPalHandler(deps.CheckoutSvc))
		api.POST("/payments/paypal/callback", paypalCallbackHandler(deps.CheckoutSvc))
	}

	return router
}
