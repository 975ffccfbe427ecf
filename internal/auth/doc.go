// Package auth provides authentication and authorization for the library API.
//
// Callers are identified either by a session cookie (browsers) or by an
// "Authorization: Bearer <token>" header (scripts and other services).
// Cookie-authenticated requests that change state must echo the CSRF token
// from GET /api/auth/csrf in the X-CSRF-Token header.
//
// # Configuration
//
//	AUTH_SESSION_SECRET=<hex-32-bytes>  # Auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h           # Session duration
//	AUTH_TOKEN_EXPIRY=720h              # API token expiry (30 days default)
//	AUTH_BCRYPT_COST=12                 # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true            # HTTPS-only cookies
//	AUTH_RATE_LIMIT_ATTEMPTS=5          # sign-in/sign-up requests per window per IP
//	AUTH_RATE_LIMIT_WINDOW=1m
//
// # Accounts
//
// New accounts are PENDING. Only APPROVED accounts may borrow; administrators
// approve or reject accounts through the admin API.
//
// # Usage
//
//	authService := auth.NewService(db.DB, cfg.Auth)
//	authMiddleware := auth.NewMiddleware(authService, sessionManager)
//	router.Use(authMiddleware.Handler())
//
// Extract the caller in handlers:
//
//	userID := auth.GetUserID(c)  // "" for anonymous requests
package auth
