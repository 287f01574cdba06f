package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hugh/cardhub/internal/api/handlers"
	"github.com/hugh/cardhub/internal/api/middleware"
	"github.com/hugh/cardhub/internal/auth"
	"github.com/hugh/cardhub/internal/cards"
	"github.com/hugh/cardhub/internal/database/models"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	CardService    *cards.Service
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow all in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		// Default to localhost for development - configure in production
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	cardHandler := handlers.NewBusinessCardHandler(cfg.CardService)
	publicHandler := handlers.NewPublicHandler(cfg.CardService)
	dashboardHandler := handlers.NewDashboardHandler(cfg.CardService)
	companyHandler := handlers.NewCompanyHandler(cfg.DB, cfg.Logger)
	departmentHandler := handlers.NewDepartmentHandler(cfg.DB, cfg.Logger)
	designationHandler := handlers.NewDesignationHandler(cfg.DB, cfg.Logger)
	userHandler := handlers.NewUserHandler(cfg.DB, cfg.Logger)

	// Health endpoints (no auth required)
	r.Get("/health-check", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// The public face of the product: anyone with a card link can open it.
	r.Get("/cards/{slug}", publicHandler.ShowCard)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    "cardhub",
			"message": "Digital business cards for teams",
		})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})

			r.Get("/dashboard", dashboardHandler.Stats)

			// Business card endpoints
			r.Route("/business-cards", func(r chi.Router) {
				r.Get("/", cardHandler.List)
				r.Post("/", cardHandler.Create)
				r.Get("/options", cardHandler.Options)
				r.Get("/{id}", cardHandler.Get)
				r.Put("/{id}", cardHandler.Update)
				r.Delete("/{id}", cardHandler.Delete)
			})

			// Company roster - platform administration only
			r.Route("/companies", func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleSuperAdmin))
				r.Get("/", companyHandler.List)
				r.Post("/", companyHandler.Create)
				r.Get("/{id}", companyHandler.Get)
				r.Put("/{id}", companyHandler.Update)
				r.Delete("/{id}", companyHandler.Delete)
			})

			// Departments and designations - reads for everyone in the
			// company, writes for directory managers.
			r.Route("/departments", func(r chi.Router) {
				r.Get("/", departmentHandler.List)
				r.Get("/{id}", departmentHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleManager))
					r.Post("/", departmentHandler.Create)
					r.Put("/{id}", departmentHandler.Update)
					r.Delete("/{id}", departmentHandler.Delete)
				})
			})

			r.Route("/designations", func(r chi.Router) {
				r.Get("/", designationHandler.List)
				r.Get("/{id}", designationHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleManager))
					r.Post("/", designationHandler.Create)
					r.Put("/{id}", designationHandler.Update)
					r.Delete("/{id}", designationHandler.Delete)
				})
			})

			// Member accounts - admins only
			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(models.RoleSuperAdmin, models.RoleCompanyAdmin))
					r.Post("/", userHandler.Create)
					r.Put("/{id}", userHandler.Update)
					r.Delete("/{id}", userHandler.Delete)
				})
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
