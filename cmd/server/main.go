package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/eightysix/analytics/internal/application/analytics"
	catalogapp "github.com/eightysix/analytics/internal/application/catalog"
	contactapp "github.com/eightysix/analytics/internal/application/contact"
	exportapp "github.com/eightysix/analytics/internal/application/export"
	identityapp "github.com/eightysix/analytics/internal/application/identity"
	partnerapp "github.com/eightysix/analytics/internal/application/partner"
	tradeapp "github.com/eightysix/analytics/internal/application/trade"
	"github.com/eightysix/analytics/internal/domain/access"
	"github.com/eightysix/analytics/internal/domain/contact"
	"github.com/eightysix/analytics/internal/domain/identity"
	"github.com/eightysix/analytics/internal/infrastructure/auth"
	"github.com/eightysix/analytics/internal/infrastructure/cache"
	"github.com/eightysix/analytics/internal/infrastructure/config"
	"github.com/eightysix/analytics/internal/infrastructure/identity/cognito"
	"github.com/eightysix/analytics/internal/infrastructure/identity/local"
	"github.com/eightysix/analytics/internal/infrastructure/logger"
	"github.com/eightysix/analytics/internal/infrastructure/mail"
	"github.com/eightysix/analytics/internal/infrastructure/persistence"
	"github.com/eightysix/analytics/internal/infrastructure/storage"
	"github.com/eightysix/analytics/internal/infrastructure/telemetry"
	"github.com/eightysix/analytics/internal/interfaces/http/handler"
	"github.com/eightysix/analytics/internal/interfaces/http/middleware"
	"github.com/eightysix/analytics/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// revoker is satisfied by the memory and Redis revocation stores
type revoker interface {
	middleware.Revocations
	identityapp.TokenRevoker
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log, cfg.App.Name)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting EightySix Analytics",
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, version, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("Error flushing traces", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh)
	db, err := persistence.Open(ctx, &cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	log.Info("Database connected")

	metrics := telemetry.NewMetrics("eightysix")
	if err := metrics.RegisterDB(db.SQL(), cfg.Database.DBName); err != nil {
		log.Warn("Database pool metrics unavailable", zap.Error(err))
	}

	checks := map[string]handler.HealthCheck{
		"database": db.Ping,
	}

	// Redis carries the token blacklist and the projection lock when enabled
	var (
		blacklist revoker             = auth.NewMemoryRevocations()
		locker    analyticsapp.Locker = analyticsapp.NoopLocker{}
		rdb       *redis.Client
	)
	if cfg.Redis.Enabled {
		rdb, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		blacklist = auth.NewRedisRevocations(rdb)
		locker = cache.NewRedisLocker(rdb, cfg.Projection.LockTTL, log)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled; token revocation is per process")
	}

	var mailer contact.Mailer
	if cfg.Mail.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.Mail, log)
	} else {
		log.Warn("No SMTP host configured; mail is logged only")
		mailer = mail.NewLogMailer(log)
	}

	var (
		provider identity.Provider
		verifier identity.TokenVerifier
	)
	switch cfg.Identity.Provider {
	case "local":
		jwtService := auth.NewJWTService(cfg.JWT)
		provider = local.NewProvider(db.DB, jwtService, mailer, log)
		verifier = jwtService
	default:
		p, err := cognito.NewProvider(ctx, cfg.Identity, log)
		if err != nil {
			log.Fatal("Failed to initialize cognito", zap.Error(err))
		}
		provider = p
		verifier, err = cognito.NewVerifier(ctx, cfg.Identity, log)
		if err != nil {
			log.Fatal("Failed to load cognito signing keys", zap.Error(err))
		}
	}
	log.Info("Identity provider ready", zap.String("provider", cfg.Identity.Provider))

	objects, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	if err := objects.EnsureBucket(ctx); err != nil {
		log.Warn("Export bucket unavailable", zap.String("bucket", objects.Bucket()), zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	customerUserRepo := persistence.NewGormCustomerUserRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	supplierUserRepo := persistence.NewGormSupplierUserRepository(db.DB)
	noteRepo := persistence.NewGormNoteRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	customerProductRepo := persistence.NewGormCustomerProductRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	projectionRepo := persistence.NewGormProjectionRepository(db.DB)
	applicationRepo := persistence.NewGormApplicationRepository(db.DB)
	downloadKeyRepo := persistence.NewGormDownloadKeyRepository(db.DB)

	// Services
	projector := analyticsapp.NewProjectionService(projectionRepo, analyticsapp.Config{
		Retries:    cfg.Projection.Retries,
		RetryDelay: cfg.Projection.RetryDelay,
	}, log,
		analyticsapp.WithClock(analyticsapp.UTCNow),
		analyticsapp.WithLocker(locker),
		analyticsapp.WithObserver(metrics),
	)
	customerService := partnerapp.NewCustomerService(customerRepo, customerUserRepo)
	supplierService := partnerapp.NewSupplierService(supplierRepo)
	supplierUserService := partnerapp.NewSupplierUserService(supplierRepo, supplierUserRepo, userRepo, provider, log)
	noteService := partnerapp.NewNoteService(noteRepo, customerRepo)
	productService := catalogapp.NewProductService(productRepo)
	customerProductService := catalogapp.NewCustomerProductService(customerProductRepo, projector)
	transactionService := tradeapp.NewTransactionService(transactionRepo)
	authService := identityapp.NewAuthService(provider, userRepo, blacklist, identityapp.AuthServiceConfig{
		RevocationTTL: cfg.JWT.RefreshTokenExpiration,
	}, log)
	contactService := contactapp.NewContactService(applicationRepo, mailer, cfg.Mail.ContactEmail, cfg.Mail.Timeout, log)
	exportService := exportapp.NewExportService(customerRepo, downloadKeyRepo, objects, cfg.Storage.PresignExpiry, log)

	// Handlers
	base := handler.NewBaseHandler(log)
	handlers := router.Handlers{
		Base:   base,
		System: handler.NewSystemHandler(base, version, checks),
		Auth:   handler.NewAuthHandler(base, authService),
		Admin: handler.NewAdminHandler(base, handler.AdminServices{
			Customers:        customerService,
			Suppliers:        supplierService,
			SupplierUsers:    supplierUserService,
			Products:         productService,
			CustomerProducts: customerProductService,
			Transactions:     transactionService,
		}),
		Supplier: handler.NewSupplierHandler(base, handler.SupplierServices{
			Customers:        customerService,
			Notes:            noteService,
			CustomerProducts: customerProductService,
			Transactions:     transactionService,
		}),
		Export:  handler.NewExportHandler(base, exportService),
		Contact: handler.NewContactHandler(base, contactService),
	}

	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimit, cfg.HTTP.AuthRateWindow)
	defer authLimiter.Stop()

	service := cfg.Telemetry.ServiceName
	if service == "" {
		service = cfg.App.Name
	}
	r := router.New(router.Config{
		Service: service,
		Mode:    cfg.App.Env,
		HTTP:    cfg.HTTP,
		Logger:  log,
		Tracer:  tp.Provider(),
		Metrics: metrics,
		Policy:  access.DefaultPolicy(),
		Auth: middleware.AuthConfig{
			Verifier:    verifier,
			Revocations: blacklist,
			Users:       userRepo,
			Logger:      log,
		},
		AuthLimiter: authLimiter,
		Handlers:    handlers,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        r.Engine(),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}
