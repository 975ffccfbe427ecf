package http

import (
	"github.com/gin-gonic/gin"

	"github.com/bookwise/library/internal/auth"
	"github.com/bookwise/library/internal/entities"
)

// Router bundles the gin engine with the auth controller whose rate limiter
// must be stopped on shutdown.
type Router struct {
	*gin.Engine
	authController *auth.AuthController
}

// Close releases background resources held by the router.
func (r *Router) Close() {
	if r.authController != nil {
		r.authController.Stop()
	}
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *Router {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.AuthConfig.SecureCookies {
		router.Use(auth.StrictTransportSecurityMiddleware(auth.DefaultHSTSMaxAge))
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.AuthConfig.SecureCookies, cfg.AuthService))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	router.Use(cfg.AuthMiddleware.Handler())

	health := NewHealthController(cfg.Database, cfg.TaskQueue, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthMiddleware, cfg.AuthConfig)
	if events, ok := cfg.AuditLog.(auth.EventLogger); ok {
		authController.SetEventLogger(events)
	}
	authController.RegisterRoutes(api.Group("/auth"))

	booksController := NewBooksController(cfg.BookReader, cfg.Borrower)
	api.GET("/books", booksController.ListBooks)
	api.GET("/books/latest", booksController.LatestBooks)
	api.GET("/books/:id", booksController.GetBook)

	member := api.Group("", cfg.AuthMiddleware.RequireAuth())
	member.GET("/books/:id/eligibility", booksController.Eligibility)
	member.POST("/books/:id/borrow", booksController.Borrow)

	borrowsController := NewBorrowsController(cfg.Loans, cfg.Borrower)
	member.GET("/borrows", borrowsController.List)
	member.POST("/borrows/:id/return", borrowsController.Return)

	adminController := NewAdminController(cfg.Catalog, cfg.Accounts, cfg.AuditLog)
	admin := api.Group("/admin", cfg.AuthMiddleware.RequireRole(entities.UserRoleAdmin))
	admin.POST("/books", adminController.CreateBook)
	admin.GET("/users", adminController.ListUsers)
	admin.POST("/users/:id/approve", adminController.ApproveUser)
	admin.POST("/users/:id/reject", adminController.RejectUser)
	admin.GET("/audit", adminController.AuditEvents)

	return &Router{Engine: router, authController: authController}
}
