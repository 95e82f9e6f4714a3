package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hirewire/hirewire-backend/internal/domain"
	"github.com/hirewire/hirewire-backend/internal/health"
	"github.com/hirewire/hirewire-backend/internal/http/handler"
	"github.com/hirewire/hirewire-backend/internal/http/middleware"
	"github.com/hirewire/hirewire-backend/internal/http/response"
	"github.com/hirewire/hirewire-backend/internal/security"
)

type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	EmployerHandler *handler.EmployerHandler
	AdminHandler    *handler.AdminHandler
	JWTManager      *security.JWTManager

	CORSOrigins         []string
	AuthRateLimitPerMin int
	APIRateLimitPerMin  int

	// Optional overrides, wired when the redis-backed limiter is enabled.
	GlobalRateLimiter GlobalRateLimiterFunc
	AuthRateLimiter   AuthRateLimiterFunc

	Readiness      *health.ProbeRunner
	EnableOTelHTTP bool
}

type GlobalRateLimiterFunc func(http.Handler) http.Handler
type AuthRateLimiterFunc func(http.Handler) http.Handler

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.StructuredRequestLogger)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	globalLimiter := dep.GlobalRateLimiter
	if globalLimiter == nil {
		globalLimiter = middleware.NewRateLimiter(dep.APIRateLimitPerMin, time.Minute, "api").Middleware()
	}
	r.Use(globalLimiter)

	authLimiter := dep.AuthRateLimiter
	if authLimiter == nil {
		authLimiter = middleware.NewRateLimiter(dep.AuthRateLimitPerMin, time.Minute, "auth").Middleware()
	}

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	authed := middleware.AuthMiddleware(dep.JWTManager)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter)
			r.Post("/register", dep.AuthHandler.Register)
			r.Post("/verify-email", dep.AuthHandler.VerifyEmail)
			r.Post("/resend-otp", dep.AuthHandler.ResendOTP)
			r.Post("/login", dep.AuthHandler.Login)
			r.Post("/password/forgot", dep.AuthHandler.PasswordForgot)
			r.Post("/password/reset", dep.AuthHandler.PasswordReset)
		})

		r.Route("/employer/profile", func(r chi.Router) {
			r.Use(authed)
			r.Use(middleware.RequireRole(string(domain.RoleEmployer)))
			r.Get("/", dep.EmployerHandler.Profile)
			r.Post("/complete", dep.EmployerHandler.CompleteProfile)
			r.Get("/edits", dep.EmployerHandler.PendingEdits)
			r.Post("/edits", dep.EmployerHandler.StageEdits)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authed)
			r.Use(middleware.RequireRole(string(domain.RoleAdmin)))
			r.Get("/accounts", dep.AdminHandler.ListAccounts)
			r.Get("/accounts/{id}", dep.AdminHandler.GetAccount)
			r.Post("/accounts/{id}/ban", dep.AdminHandler.BanAccount)
			r.Post("/accounts/{id}/unban", dep.AdminHandler.UnbanAccount)
			r.Post("/employers/{id}/approve", dep.AdminHandler.ApproveEmployer)
			r.Post("/employers/{id}/reject", dep.AdminHandler.RejectEmployer)
			r.Get("/employers/{id}/edits", dep.AdminHandler.EmployerPendingEdits)
			r.Post("/employers/{id}/edits/approve", dep.AdminHandler.ApproveEdits)
			r.Post("/employers/{id}/edits/reject", dep.AdminHandler.RejectEdits)
			r.Get("/employers/{id}/approval-log", dep.AdminHandler.ApprovalLog)
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
