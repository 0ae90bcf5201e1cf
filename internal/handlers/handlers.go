package handlers

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/service"
	"golang.org/x/text/currency"
)

type CartService interface {
	ResolveOpenOrder(ctx context.Context, ownerID string) (domain.Order, error)
	AddOrMerge(ctx context.Context, ownerID string, req service.AddItemRequest) (domain.Order, error)
	Increase(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error)
	Decrease(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error)
	Remove(ctx context.Context, ownerID string, itemID uuid.UUID) (domain.Order, error)
	GetOrder(ctx context.Context, ownerID string, orderID uuid.UUID) (domain.Order, error)
	ListProducts(ctx context.Context, category string) ([]domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (domain.Product, error)
}

type CheckoutService interface {
	SavedAddresses(ctx context.Context, ownerID string, addressType domain.AddressType) ([]domain.Address, error)
	SetAddresses(ctx context.Context, ownerID string, shipping, billing service.AddressChoice) (domain.Order, error)
}

type PaymentService interface {
	BeginIntent(ctx context.Context, ownerID string) (domain.Intent, error)
	ConfirmWithSavedMethod(ctx context.Context, ownerID, methodID string) (domain.Intent, error)
	ListSavedMethods(ctx context.Context, ownerID string) ([]domain.SavedPaymentMethod, error)
}

type Reconciler interface {
	ConfirmSynchronous(ctx context.Context, ownerID string, rawBody []byte) error
	HandleEvent(ctx context.Context, event domain.Event) error
}

type Handler struct {
	cart     CartService
	checkout CheckoutService
	payments PaymentService
	rec      Reconciler
	verifier port.EventVerifier
	currency currency.Unit
	logger   *slog.Logger
}

type Deps struct {
	Cart       CartService
	Checkout   CheckoutService
	Payments   PaymentService
	Reconciler Reconciler
	Verifier   port.EventVerifier
	Currency   currency.Unit
	Logger     *slog.Logger
}

func NewHandler(deps Deps) *Handler {
	return &Handler{
		cart:     deps.Cart,
		checkout: deps.Checkout,
		payments: deps.Payments,
		rec:      deps.Reconciler,
		verifier: deps.Verifier,
		currency: deps.Currency,
		logger:   deps.Logger,
	}
}

type Options struct {
	Release        bool
	EndpointPrefix string
	JWTSecret      []byte
	RateLimit      float64
	RateBurst      int
}

// API wires every route. The processor webhook is the only unauthenticated write route and,
// like the health check, is not rate limited per IP.
func API(h *Handler, opts Options) *gin.Engine {
	if opts.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(TraceID(), Logger(h.logger), gin.Recovery())

	r.GET("/ping", HealthCheck)
	r.POST("/webhooks/stripe", h.StripeWebhook)

	v1 := r.Group(opts.EndpointPrefix)
	if opts.RateLimit > 0 {
		v1.Use(RateLimit(opts.RateLimit, opts.RateBurst))
	}
	{
		v1.GET("/products", h.ListProducts)
		v1.GET("/products/:slug", h.GetProduct)

		authed := v1.Group("")
		authed.Use(Authentication(opts.JWTSecret, h.logger))

		authed.GET("/cart", h.GetCart)
		authed.POST("/cart/items", h.AddItem)
		authed.POST("/cart/items/:id/increase", h.IncreaseItem)
		authed.POST("/cart/items/:id/decrease", h.DecreaseItem)
		authed.DELETE("/cart/items/:id", h.RemoveItem)

		authed.GET("/checkout/addresses", h.ListAddresses)
		authed.POST("/checkout/addresses", h.SetAddresses)

		authed.POST("/payments/stripe/intent", h.BeginIntent)
		authed.GET("/payments/stripe/methods", h.ListSavedMethods)
		authed.POST("/payments/stripe/confirm", h.ConfirmWithSavedMethod)
		authed.POST("/payments/paypal/confirm", h.ConfirmPayPal)

		authed.GET("/orders/:id", h.GetOrder)
	}

	return r
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"message": "pong",
	})
}
