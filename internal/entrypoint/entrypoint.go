package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookwise/library/internal/audit"
	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/borrowing"
	"github.com/bookwise/library/internal/config"
	"github.com/bookwise/library/internal/database"
	auditrepo "github.com/bookwise/library/internal/database/audit"
	"github.com/bookwise/library/internal/database/books"
	"github.com/bookwise/library/internal/database/borrows"
	"github.com/bookwise/library/internal/database/users"
	http_controllers "github.com/bookwise/library/internal/http"
	"github.com/bookwise/library/internal/mail"
	"github.com/bookwise/library/internal/scheduler"
	"github.com/bookwise/library/internal/services"
	"github.com/bookwise/library/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(handler http.Handler, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop accepting requests before the workers they enqueue into go away
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server Shutdown: %v", err)
	}

	if onShutdown != nil {
		onShutdown(ctx)
	}

	log.Println("Server exiting")
}

// csrfSecret decodes a hex AUTH_SESSION_SECRET, falls back to the raw bytes,
// and generates a fresh secret when none is configured.
func csrfSecret(configured string) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	return hex.DecodeString(secret)
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting library service v%s", version)

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	userRepo := users.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)
	loanRepo := borrows.NewRepository(db.DB)
	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	defer auditService.Wait()

	borrower := borrowing.NewService(database.NewAccounts(userRepo), bookRepo, loanRepo, borrowing.Policy{
		DueAfter:    cfg.Loans.DueAfter,
		ReturnAfter: cfg.Loans.ReturnAfter,
	})
	borrower.SetTransactor(database.NewTransactor(db.DB))
	borrower.SetEventRecorder(auditService)

	// Authentication
	authService := auth.NewService(db.DB, cfg.Auth)

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatalf("Failed to get SQL DB for sessions: %v", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Database.Driver, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to initialize session manager: %v", err)
	}
	authMiddleware := auth.NewMiddleware(authService, sessionManager)

	secret, err := csrfSecret(cfg.Auth.SessionSecret)
	if err != nil {
		log.Fatalf("Failed to generate CSRF secret: %v", err)
	}

	if hasUsers, err := authService.HasUsers(context.Background()); err == nil && !hasUsers {
		log.Printf("No users found. Run '%s create-admin' to create an administrator account.", os.Args[0])
	}

	// Task queue and scheduler
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sched *scheduler.Scheduler
	if cfg.Tasks.Enabled {
		taskClient, err = tasks.NewClient(cfg.Database.Path, tasks.FromAppConfig(cfg.Tasks))
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		taskClient.Register(
			tasks.NewSendEmailQueue(mail.NewLogMailer(cfg.Mail.From)),
			tasks.NewOnboardingWelcomeQueue(taskClient),
			tasks.NewOnboardingCheckQueue(userRepo, taskClient),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)
		authService.SetOnboarder(taskClient)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Scheduler.Enabled {
			sched = scheduler.NewScheduler(loanRepo, taskClient, cfg.Scheduler, cfg.Audit.RetentionDays)
			if err := sched.Start(taskCtx); err != nil {
				log.Fatalf("Failed to start scheduler: %v", err)
			}
		}
	} else {
		log.Printf("Task queue disabled: onboarding emails, reminders and audit cleanup will not run")
	}

	var queueChecker http_controllers.TaskQueueChecker
	if taskClient != nil {
		queueChecker = taskClient
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		BookReader:     bookRepo,
		Catalog:        services.NewCatalogService(bookRepo),
		Loans:          loanRepo,
		Borrower:       borrower,
		Accounts:       authService,
		AuditLog:       auditService,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		SessionManager: sessionManager,
		AuthConfig:     cfg.Auth,
		CSRFSecret:     secret,
		TaskQueue:      queueChecker,
		Version:        version,
	})

	onShutdown := func(ctx context.Context) {
		router.Close()
		if sched != nil {
			sched.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
