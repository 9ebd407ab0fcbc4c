package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"suryaghar-backend/internal/auth"
	"suryaghar-backend/internal/cache"
	"suryaghar-backend/internal/config"
	"suryaghar-backend/internal/database"
	"suryaghar-backend/internal/db"
	"suryaghar-backend/internal/handlers"
	"suryaghar-backend/internal/health"
	h "suryaghar-backend/internal/http"
	"suryaghar-backend/internal/leadscore"
	"suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/middleware"
	"suryaghar-backend/internal/monitoring"
	"suryaghar-backend/internal/notify"
	"suryaghar-backend/internal/repositories"
	"suryaghar-backend/internal/services"
	"suryaghar-backend/internal/storage"
	"suryaghar-backend/migrations"

	"go.uber.org/zap"
)

func main() {
	port := flag.Int("port", 0, "override server.port")
	migrateOnly := flag.Bool("migrate-only", false, "apply migrations and exit")
	flag.Parse()

	cfg := config.Load()
	if *port > 0 {
		cfg.Server.Port = *port
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *migrateOnly); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, migrateOnly bool) error {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("connected to postgres", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))

	migrator := database.NewMigratorWithFS(pool, migrations.FS, ".", log)
	if err := migrator.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if migrateOnly {
		log.Info("migrations applied, exiting")
		return nil
	}

	// Dashboards fall back to uncached reads without redis
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Warn("redis unavailable, caching and locks disabled", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	defer cache.Close()

	var objects services.ObjectStore
	var storagePinger health.Pinger
	s3Store, err := storage.NewS3Store(ctx, storage.Config{
		Bucket:          cfg.S3.Bucket,
		Region:          cfg.S3.Region,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	switch {
	case errors.Is(err, storage.ErrNotConfigured):
		log.Warn("S3 bucket not set, document uploads disabled")
	case err != nil:
		return fmt.Errorf("document storage: %w", err)
	default:
		objects = s3Store
		storagePinger = s3Store
	}

	hub := notify.NewHub(log)
	go hub.Run(ctx)

	var mailer services.Mailer
	if cfg.Notify.EmailEnable {
		m, err := notify.NewSESMailer(ctx, cfg.Notify.Region, cfg.Notify.EmailFrom)
		if err != nil {
			log.Warn("SES mailer disabled", zap.Error(err))
		} else {
			mailer = m
		}
	}
	var texter services.Texter
	if cfg.Notify.SMSEnable {
		t, err := notify.NewSNSTexter(ctx, cfg.Notify.Region, cfg.Notify.SMSSenderID)
		if err != nil {
			log.Warn("SNS texter disabled", zap.Error(err))
		} else {
			texter = t
		}
	}

	var model leadscore.Model
	if cfg.OpenAI.APIKey != "" {
		client, err := leadscore.NewClient(leadscore.ClientConfig{
			BaseURL: cfg.OpenAI.BaseURL,
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			Timeout: cfg.LLMTimeout(),
		})
		if err != nil {
			return fmt.Errorf("lead scoring client: %w", err)
		}
		model = client
	} else {
		log.Info("OPENAI_API_KEY not set, lead scores use the heuristic")
	}
	scorer := leadscore.NewScorer(model, log.Named("leadscore"))

	// Repositories
	userRepo := repositories.NewUserRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	milestoneRepo := repositories.NewMilestoneRepository(pool)
	vendorRepo := repositories.NewVendorRepository(pool)
	assignmentRepo := repositories.NewAssignmentRepository(pool)
	commissionRepo := repositories.NewCommissionRepository(pool)
	documentRepo := repositories.NewDocumentRepository(pool)
	feedbackRepo := repositories.NewFeedbackRepository(pool)
	notificationRepo := repositories.NewNotificationRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	paymentRepo := repositories.NewPaymentRepository(pool)
	referralRepo := repositories.NewReferralRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, hub, mailer, texter, log.Named("notify"))
	userService := services.NewUserService(userRepo, jwtManager, log.Named("users"))
	customerService := services.NewCustomerService(customerRepo, userRepo, scorer, notificationService, log.Named("customers"))
	journeyService := services.NewJourneyService(milestoneRepo, vendorRepo, assignmentRepo, customerRepo, userRepo, notificationService, log.Named("journey"))
	vendorService := services.NewVendorService(vendorRepo, assignmentRepo, customerRepo, userRepo)
	commissionService := services.NewCommissionService(commissionRepo, notificationService)
	documentService := services.NewDocumentService(documentRepo, objects, customerRepo, userRepo, notificationService, log.Named("documents"))
	feedbackService := services.NewFeedbackService(feedbackRepo)
	referralService := services.NewReferralService(referralRepo, userRepo, customerRepo, notificationService)
	orderService := services.NewOrderService(orderRepo, customerRepo, userRepo)
	paymentService := services.NewPaymentService(
		orderRepo,
		paymentRepo,
		customerRepo,
		services.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret),
		cfg.Razorpay.KeyID,
		cfg.Razorpay.KeySecret,
		cfg.Razorpay.WebhookSecret,
		log.Named("payments"),
	)
	dashboardService := services.NewDashboardService(customerRepo, commissionRepo, userRepo, referralRepo, feedbackRepo, documentRepo, notificationRepo)

	healthChecker := health.NewHealthChecker(pool, storagePinger, cache.IsHealthy)

	router := h.NewRouter(h.Handlers{
		Auth:         handlers.NewAuthHandler(userService),
		Partner:      handlers.NewPartnerHandler(userService),
		Customer:     handlers.NewCustomerHandler(customerService),
		Journey:      handlers.NewJourneyHandler(journeyService),
		Vendor:       handlers.NewVendorHandler(vendorService),
		Commission:   handlers.NewCommissionHandler(commissionService),
		Calculator:   handlers.NewCalculatorHandler(),
		Document:     handlers.NewDocumentHandler(documentService),
		Feedback:     handlers.NewFeedbackHandler(feedbackService),
		Notification: handlers.NewNotificationHandler(notificationService, hub),
		Referral:     handlers.NewReferralHandler(referralService),
		Order:        handlers.NewOrderHandler(orderService),
		Payment:      handlers.NewPaymentHandler(paymentService),
		Dashboard:    handlers.NewDashboardHandler(dashboardService),
		Health:       handlers.NewHealthHandler(healthChecker),
	}, middleware.NewAuthMiddleware(jwtManager, userRepo))

	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(log)(middleware.RequestLogger(log.Named("http"))(corsMiddleware(router)))

	if cfg.Server.MetricsPort > 0 {
		ms := monitoring.NewMonitoringServer(healthChecker, pool, cfg.Server.MetricsPort, log)
		go func() {
			if err := ms.Run(ctx); err != nil {
				log.Error("monitoring listener failed", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// no read/write timeouts, /ws/notifications is long-lived
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	notificationService.Wait()
	return err
}
