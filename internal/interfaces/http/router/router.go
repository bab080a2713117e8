package router

import (
	"net/http"

	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/eightysix/analytics/internal/interfaces/http/handler"
	"github.com/eightysix/analytics/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MetricsExporter observes requests and serves the scrape endpoint
type MetricsExporter interface {
	middleware.RequestObserver
	Handler() http.Handler
}

// Handlers are the endpoint implementations mounted by the router
type Handlers struct {
	Base     handler.BaseHandler
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Admin    *handler.AdminHandler
	Supplier *handler.SupplierHandler
	Export   *handler.ExportHandler
	Contact  *handler.ContactHandler
}

// Config wires everything the engine needs
type Config struct {
	Service string
	Mode    string
	HTTP    config.HTTPConfig
	Logger  *zap.Logger
	// Tracer is nil when tracing is disabled
	Tracer  trace.TracerProvider
	Metrics MetricsExporter
	Policy  *access.Policy
	// Auth.Respond is filled in from Handlers.Base
	Auth        middleware.AuthConfig
	AuthLimiter *middleware.RateLimiter
	Handlers    Handlers
}

// Router owns the gin engine and the route table behind it
type Router struct {
	engine *gin.Engine
	groups []*Group
}

// New builds the engine with the global middleware chain and every API route
func New(cfg Config) *Router {
	if cfg.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := cfg.Handlers
	respond := h.Base.HandleError

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Ignoring trusted proxies", zap.Error(err))
		}
	}
	engine.NoRoute(h.Base.NoRoute)

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Service, cfg.Tracer),
		logger.AccessLog(log, "/health", "/metrics"),
		logger.Recovery(log, h.Base.Panic),
	)
	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}
	engine.Use(
		middleware.CORS(cfg.HTTP),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize, respond),
		middleware.Timeout(cfg.HTTP.RequestTimeout),
	)

	if h.System != nil {
		engine.GET("/health", h.System.Health)
	}
	if cfg.Metrics != nil {
		engine.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	authCfg := cfg.Auth
	authCfg.Respond = respond
	if authCfg.Logger == nil {
		authCfg.Logger = log
	}
	authn := []gin.HandlerFunc{middleware.Authenticate(authCfg), middleware.SpanAttributes()}
	guard := func(perm access.Permission, resource access.Resource) gin.HandlerFunc {
		return middleware.RequirePermission(cfg.Policy, perm, resource, respond)
	}

	r := &Router{engine: engine, groups: routeGroups(h, cfg.AuthLimiter, respond)}
	api := engine.Group("/api")
	for _, g := range r.groups {
		g.Attach(api, authn, guard)
	}
	return r
}

// Engine returns the configured gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Routes lists every API route with its required permission
func (r *Router) Routes() []Route {
	var out []Route
	for _, g := range r.groups {
		out = append(out, g.Routes()...)
	}
	return out
}

func routeGroups(h Handlers, limiter *middleware.RateLimiter, respond middleware.ErrorResponder) []*Group {
	var groups []*Group

	if h.Auth != nil {
		public := NewGroup("/auth")
		if limiter != nil {
			public.Use(middleware.RateLimit(limiter, respond))
		}
		public.
			Open(http.MethodPost, "/sign-up", h.Auth.SignUp).
			Open(http.MethodPost, "/sign-up-verification", h.Auth.SignUpVerification).
			Open(http.MethodPost, "/sign-in", h.Auth.SignIn).
			Open(http.MethodPost, "/password-reset", h.Auth.PasswordReset).
			Open(http.MethodPost, "/password-confirm", h.Auth.PasswordConfirm)

		session := NewGroup("/auth").
			Authed(http.MethodPost, "/sign-out", h.Auth.SignOut)
		groups = append(groups, public, session)
	}

	if h.Admin != nil {
		a := h.Admin
		groups = append(groups,
			NewGroup("/auth").
				POST("/set-user-supplier", access.CreateAny, access.ResourceSupplierUser, a.SetUserSupplier).
				POST("/drop-user-supplier", access.DeleteAny, access.ResourceSupplierUser, a.DropUserSupplier),
			NewGroup("/admin").
				GET("/supplier-users", access.ReadAny, access.ResourceSupplierUser, a.ListSupplierUsers).
				POST("/supplier-user", access.CreateAny, access.ResourceSupplierUser, a.CreateSupplierUser).
				POST("/supplier-user/:supplierUserId", access.UpdateAny, access.ResourceSupplierUser, a.UpdateSupplierUser).
				GET("/customers", access.ReadAny, access.ResourceCustomer, a.ListCustomers).
				POST("/customer", access.CreateAny, access.ResourceCustomer, a.CreateCustomer).
				POST("/customer/:customerId", access.UpdateAny, access.ResourceCustomer, a.UpdateCustomer).
				GET("/suppliers", access.ReadAny, access.ResourceSupplier, a.ListSuppliers).
				POST("/supplier", access.CreateAny, access.ResourceSupplier, a.CreateSupplier).
				POST("/supplier/:supplierId", access.UpdateAny, access.ResourceSupplier, a.UpdateSupplier).
				GET("/products", access.ReadAny, access.ResourceProduct, a.ListProducts).
				POST("/product", access.CreateAny, access.ResourceProduct, a.CreateProduct).
				POST("/product/:productId", access.UpdateAny, access.ResourceProduct, a.UpdateProduct).
				GET("/customer-products", access.ReadAny, access.ResourceCustomerProduct, a.ListCustomerProducts).
				POST("/customer-product", access.CreateAny, access.ResourceCustomerProduct, a.CreateCustomerProduct).
				POST("/customer-product/:customerProductId", access.UpdateAny, access.ResourceCustomerProduct, a.UpdateCustomerProduct).
				GET("/transactions", access.ReadAny, access.ResourceTransaction, a.ListTransactions).
				POST("/transaction", access.CreateAny, access.ResourceTransaction, a.CreateTransaction).
				POST("/transaction/:transactionId", access.UpdateAny, access.ResourceTransaction, a.UpdateTransaction),
		)
	}

	if h.Supplier != nil {
		s := h.Supplier
		sup := NewGroup("/supplier").
			GET("/customers", access.ReadOwn, access.ResourceCustomer, s.ListCustomers).
			GET("/customer/:customerId", access.ReadOwn, access.ResourceCustomer, s.GetCustomer).
			GET("/customer/:customerId/notes", access.ReadOwn, access.ResourceCustomerNote, s.ListNotes).
			POST("/customer/:customerId/note", access.CreateOwn, access.ResourceCustomerNote, s.CreateNote).
			POST("/note/:id", access.UpdateOwn, access.ResourceCustomerNote, s.UpdateNote).
			DELETE("/note/:id", access.DeleteOwn, access.ResourceCustomerNote, s.DeleteNote).
			GET("/customer/:customerId/products", access.ReadOwn, access.ResourceCustomerProduct, s.ListProducts).
			POST("/customer-product/:customerProductId", access.UpdateOwn, access.ResourceCustomerProduct, s.SetProductActive).
			GET("/customer/:customerId/transactions", access.ReadOwn, access.ResourceCustomerTransaction, s.ListTransactions).
			GET("/customer/:customerId/orders", access.ReadOwn, access.ResourceCustomerTransaction, s.ListOrders).
			POST("/transaction/:transactionId", access.UpdateOwn, access.ResourceCustomerTransaction, s.SetTransactionStopped).
			GET("/customer-users", access.ReadOwn, access.ResourceCustomerUser, s.ListSubscribed).
			POST("/customer-user/:customerId/subscribe", access.UpdateOwn, access.ResourceCustomerUser, s.Subscribe).
			POST("/customer-user/:customerId/unsubscribe", access.UpdateOwn, access.ResourceCustomerUser, s.Unsubscribe)
		if h.Export != nil {
			sup.
				POST("/customers/export", access.CreateOwn, access.ResourceDownload, h.Export.ExportCustomers).
				GET("/download/:key", access.ReadOwn, access.ResourceDownload, h.Export.Download).
				DELETE("/download/:key", access.DeleteOwn, access.ResourceDownload, h.Export.Delete)
		}
		if h.Admin != nil {
			sup.DELETE("/:id", access.DeleteAny, access.ResourceSupplierUser, h.Admin.DeleteSupplierUser)
		}
		groups = append(groups, sup)
	}

	if h.Contact != nil {
		groups = append(groups, NewGroup("/contact").Open(http.MethodPost, "/form", h.Contact.Submit))
	}
	return groups
}
