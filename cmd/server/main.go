package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"poaudit/internal/auth/google"
	"poaudit/internal/config"
	"poaudit/internal/email/noop"
	"poaudit/internal/email/ses"
	"poaudit/internal/extractor"
	"poaudit/internal/extractor/claude"
	"poaudit/internal/extractor/gemini"
	"poaudit/internal/extractor/openai"
	"poaudit/internal/handler"
	"poaudit/internal/port"
	"poaudit/internal/repository/postgres"
	"poaudit/internal/router"
	"poaudit/internal/service"
	s3storage "poaudit/internal/storage/s3"
	"poaudit/internal/validator"
	"poaudit/internal/validator/order"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() { _ = db.Close() }()

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	fileRepo := postgres.NewFileMetaRepo(db)
	batchRepo := postgres.NewBatchRepo(db)
	batchFileRepo := postgres.NewBatchFileRepo(db)
	permRepo := postgres.NewBatchPermissionRepo(db)
	orderRepo := postgres.NewOrderRepo(db)
	summaryRepo := postgres.NewOrderSummaryRepo(db)
	tagRepo := postgres.NewOrderTagRepo(db)
	eventRepo := postgres.NewOrderEventRepo(db)
	ruleRepo := postgres.NewValidationRuleRepo(db)
	resultRepo := postgres.NewValidationResultRepo(db)
	catalogRepo := postgres.NewCatalogRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	statsRepo := postgres.NewStatsRepo(db)
	dupFinder := postgres.NewDuplicateFinderRepo(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize email delivery
	emailSender := buildEmailSender(&cfg.Email)

	// Initialize LLM extraction
	orderExtractor, err := buildExtractor(&cfg.Extractor)
	if err != nil {
		return fmt.Errorf("failed to initialize extractor: %w", err)
	}

	// Initialize validation engine
	auditCfg := cfg.Audit.Core()
	registry := validator.NewRegistry()
	for _, v := range order.AllBuiltinValidators(auditCfg) {
		registry.Register(v)
	}
	for _, v := range order.CatalogValidators(catalogRepo) {
		registry.Register(v)
	}
	registry.Register(order.DuplicateOrderValidator(dupFinder))
	validationEngine := validator.NewEngine(registry, ruleRepo, resultRepo, orderRepo)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	fileSvc := service.NewFileService(fileRepo, s3Client, &cfg.S3)
	tenantSvc := service.NewTenantService(tenantRepo)
	userSvc := service.NewUserService(userRepo, cfg.FreeTier)
	batchSvc := service.NewBatchService(batchRepo, permRepo, batchFileRepo, fileSvc, userRepo)
	orderSvc := service.NewOrderService(
		orderRepo, fileRepo, userRepo, batchRepo, permRepo,
		tagRepo, eventRepo, summaryRepo, dupFinder,
		orderExtractor, s3Client, validationEngine, emailSender, auditCfg,
	)
	reportSvc := service.NewReportService(reportRepo, orderRepo, auditCfg)
	statsSvc := service.NewStatsService(statsRepo)
	registrationSvc := service.NewRegistrationService(
		tenantRepo, userRepo, batchRepo, permRepo,
		authSvc, emailSender, cfg.JWT, cfg.FreeTier,
	)
	passwordResetSvc := service.NewPasswordResetService(tenantRepo, userRepo, emailSender, cfg.JWT)
	verifiers := map[string]port.SocialTokenVerifier{
		"google": google.NewVerifier(cfg.Social.GoogleClientID),
	}
	socialAuthSvc := service.NewSocialAuthService(
		verifiers, tenantRepo, userRepo, batchRepo, permRepo, authSvc, cfg.FreeTier,
	)

	// Initialize handlers
	h := router.Handlers{
		Auth:   handler.NewAuthHandler(authSvc, registrationSvc, passwordResetSvc, socialAuthSvc),
		Batch:  handler.NewBatchHandler(batchSvc, orderSvc, auditCfg),
		Order:  handler.NewOrderHandler(orderSvc),
		File:   handler.NewFileHandler(fileSvc, batchSvc),
		Report: handler.NewReportHandler(reportSvc),
		Stats:  handler.NewStatsHandler(statsSvc),
		Tenant: handler.NewTenantHandler(tenantSvc),
		User:   handler.NewUserHandler(userSvc),
		Health: handler.NewHealthHandler(db),
	}

	r := router.Setup(authSvc, userRepo, cfg.CORS.AllowedOrigins, h)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background extraction queue worker
	worker := service.NewExtractQueueWorker(orderRepo, orderSvc, service.ExtractQueueConfig{
		PollInterval: time.Duration(cfg.Queue.PollIntervalSecs) * time.Second,
		MaxRetries:   cfg.Queue.MaxRetries,
		Concurrency:  cfg.Queue.Concurrency,
		ThrottleMin:  time.Duration(cfg.Queue.ThrottleMinMs) * time.Millisecond,
		ThrottleMax:  time.Duration(cfg.Queue.ThrottleMaxMs) * time.Millisecond,
	})
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	// Background sweep for uploads that never became orders
	fileSvc.StartCleanupLoop(ctx,
		time.Duration(cfg.Queue.CleanupIntervalSecs)*time.Second,
		cfg.Queue.StaleUploadHours,
	)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	// Wait for in-flight extractions to finish
	<-workerDone

	return nil
}

// buildEmailSender selects the email delivery backend. Anything other than
// "ses" logs instead of sending.
func buildEmailSender(cfg *config.EmailConfig) port.EmailSender {
	if cfg.Provider == "ses" {
		sender, err := ses.NewSESSender(cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
		if err == nil {
			return sender
		}
		log.Printf("WARNING: SES sender init failed (%v), falling back to noop", err)
	}
	return noop.NewNoopSender(cfg.FrontendURL)
}

// buildExtractor assembles the extraction pipeline from configuration.
// A single configured provider is used directly. With multiple providers,
// "merge" runs the first two in parallel and reconciles the results;
// otherwise they form a fallback chain ordered primary, secondary, tertiary.
func buildExtractor(cfg *config.ExtractorConfig) (port.OrderExtractor, error) {
	extractor.RegisterProvider("gemini", func(c *config.ExtractorProviderConfig) (port.OrderExtractor, error) {
		return gemini.NewExtractor(c), nil
	})
	extractor.RegisterProvider("claude", func(c *config.ExtractorProviderConfig) (port.OrderExtractor, error) {
		return claude.NewExtractor(c), nil
	})
	extractor.RegisterProvider("openai", func(c *config.ExtractorProviderConfig) (port.OrderExtractor, error) {
		return openai.NewExtractor(c), nil
	})

	providerCfgs := []*config.ExtractorProviderConfig{cfg.PrimaryConfig()}
	if sec := cfg.SecondaryConfig(); sec != nil {
		providerCfgs = append(providerCfgs, sec)
	}
	if ter := cfg.TertiaryConfig(); ter != nil {
		providerCfgs = append(providerCfgs, ter)
	}

	extractors := make([]port.OrderExtractor, 0, len(providerCfgs))
	names := make([]string, 0, len(providerCfgs))
	for _, pc := range providerCfgs {
		e, err := extractor.NewExtractor(pc)
		if err != nil {
			return nil, err
		}
		extractors = append(extractors, e)
		names = append(names, pc.Provider)
	}

	if len(extractors) == 1 {
		return extractors[0], nil
	}

	if cfg.Provider == "merge" && len(extractors) >= 2 {
		merged := extractor.NewMergeExtractor(extractors[0], extractors[1])
		if len(extractors) == 2 {
			return merged, nil
		}
		chain := append([]port.OrderExtractor{merged}, extractors[2:]...)
		chainNames := append([]string{"merge"}, names[2:]...)
		return extractor.NewFallbackExtractor(chain, chainNames), nil
	}

	return extractor.NewFallbackExtractor(extractors, names), nil
}
