package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	_ "feiraja/docs"
	"feiraja/internal/config"
	"feiraja/internal/handlers"
	"feiraja/internal/jobs"
	"feiraja/internal/logger"
	"feiraja/internal/messaging"
	"feiraja/internal/middleware"
	"feiraja/internal/repositories"
	"feiraja/internal/routes"
	"feiraja/internal/services"
)

// Run поднимает API и планировщик, блокируется до SIGINT/SIGTERM.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	zl, err := logger.New(cfg.Log.Env)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	// === DB ===
	if cfg.Database.DSN == "" {
		log.Warn("[app] DATABASE_URL is empty, falling back to PG* environment defaults")
	}
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Warnw("[app] close db", "err", err)
		}
	}()
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		log.Warnw("[app] database not reachable yet", "err", err)
	}
	cancel()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, verification := buildRouter(cfg, db, zl)

	janitor := jobs.NewJanitor(verification, log)
	if err := janitor.Start(cfg.Verification.JanitorSchedule); err != nil {
		return err
	}
	defer janitor.Stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("[app] server started", "addr", srv.Addr, "env", cfg.Log.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("[app] shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

func buildRouter(cfg *config.Config, db *sql.DB, zl *zap.Logger) (*gin.Engine, *services.VerificationService) {
	log := zl.Sugar()

	// === Repos ===
	verificationRepo := repositories.NewWhatsAppVerificationRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	boxPriceRepo := repositories.NewBoxPriceRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	producerRepo := repositories.NewProducerRepository(db)
	productRepo := repositories.NewProductRepository(db)

	// === Messaging ===
	httpClient := &http.Client{Timeout: messaging.DefaultTimeout}
	providers := messaging.FromConfig(cfg.WhatsApp, cfg.Twilio, httpClient)
	notifier := services.NewNotificationService(providers, log)
	if notifier.Simulated() {
		log.Warn("[app] no WhatsApp provider configured, messages are simulated")
	}
	if cfg.Twilio.Configured() && cfg.Twilio.IsSandbox() {
		log.Info("[app] twilio sandbox sender in use, recipients must join the sandbox first")
	}

	var mailer services.WelcomeMailer
	if cfg.Email.Configured() {
		mailer = services.NewEmailService(cfg.Email)
	}
	var alerter services.RegistrationAlerter
	if tg, err := services.NewTelegramOpsNotifier(cfg.Telegram, httpClient); err != nil {
		log.Infow("[app] telegram ops alerts disabled", "reason", err)
	} else {
		alerter = tg
	}

	var images services.ImageStore = services.DataURLStore{}
	if cfg.Cloudinary.Configured() {
		cld, err := services.NewCloudinaryStore(cfg.Cloudinary)
		if err != nil {
			log.Warnw("[app] cloudinary init failed, product images stored inline", "err", err)
		} else {
			images = cld
		}
	} else {
		log.Info("[app] cloudinary not configured, product images stored inline")
	}

	// === Services ===
	verification := services.NewVerificationService(verificationRepo, notifier, cfg.Verification, log)
	onboarding := services.NewWhatsAppAuthService(customerRepo, addressRepo, verification, notifier, mailer, alerter, log)
	customers := services.NewCustomerService(customerRepo, addressRepo, log)
	addresses := services.NewAddressService(addressRepo)
	boxPrices := services.NewBoxPriceService(boxPriceRepo)
	categories := services.NewCategoryService(categoryRepo)
	producers := services.NewProducerService(producerRepo)
	products := services.NewProductService(productRepo, categoryRepo, producerRepo, images, log)
	auth := services.NewAuthService(adminRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	webhook := services.NewWebhookService(cfg.WhatsApp.VerifyToken, cfg.WhatsApp.AppSecret, customers, notifier, log)

	// === Gin ===
	if cfg.Log.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.AccessLog(zl))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	routes.SetupRoutes(
		router,
		middleware.AdminAuth(auth),
		handlers.NewWhatsAppAuthHandler(onboarding, log),
		handlers.NewUserHandler(customers, log),
		handlers.NewAddressHandler(addresses, log),
		handlers.NewBoxPriceHandler(boxPrices, log),
		handlers.NewCategoryHandler(categories, log),
		handlers.NewProducerHandler(producers, log),
		handlers.NewProductHandler(products, log),
		handlers.NewAuthHandler(auth, log),
		handlers.NewWebhookHandler(webhook, log),
		handlers.NewWhatsAppToolsHandler(notifier, log),
		handlers.NewHealthHandler(cfg.Database.DSN != ""),
	)
	return router, verification
}
