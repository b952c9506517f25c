package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vinhtqfx07044/laptop/internal/auth"
	"github.com/vinhtqfx07044/laptop/internal/config"
	"github.com/vinhtqfx07044/laptop/internal/database"
	"github.com/vinhtqfx07044/laptop/internal/http/handler"
	"github.com/vinhtqfx07044/laptop/internal/http/middleware"

	_ "github.com/vinhtqfx07044/laptop/docs"
)

// Router holds all dependencies for HTTP routing
type Router struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *gorm.DB

	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter

	authHandler        *handler.AuthHandler
	requestHandler     *handler.RequestHandler
	serviceItemHandler *handler.ServiceItemHandler
	publicHandler      *handler.PublicHandler
}

// NewRouter creates a new router with all dependencies
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	requestHandler *handler.RequestHandler,
	serviceItemHandler *handler.ServiceItemHandler,
	publicHandler *handler.PublicHandler,
) *Router {
	return &Router{
		cfg:                cfg,
		logger:             logger,
		db:                 db,
		authMiddleware:     authMiddleware,
		rateLimiter:        rateLimiter,
		authHandler:        authHandler,
		requestHandler:     requestHandler,
		serviceItemHandler: serviceItemHandler,
		publicHandler:      publicHandler,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "healthy",
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if allHealthy {
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "healthy",
				"checks": checks,
			})
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status": "unhealthy",
				"checks": checks,
			})
		}
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		r.Route("/public", func(r chi.Router) {
			r.Post("/requests", rt.publicHandler.Create)
			r.Get("/requests/{id}", rt.publicHandler.GetByID)
			r.Post("/recover", rt.publicHandler.Recover)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.Limit)

			// Repair requests
			r.Route("/requests", func(r chi.Router) {
				r.Get("/", rt.requestHandler.List)
				r.Post("/", rt.requestHandler.Create)
				r.Get("/{id}", rt.requestHandler.GetByID)
				r.Put("/{id}", rt.requestHandler.Update)
				r.Get("/{id}/images/{filename}", rt.requestHandler.DownloadImage)
			})

			// Service catalog
			r.Route("/service-items", func(r chi.Router) {
				r.Get("/", rt.serviceItemHandler.List)
				r.Post("/", rt.serviceItemHandler.Create)
				r.Get("/{id}", rt.serviceItemHandler.GetByID)
				r.Put("/{id}", rt.serviceItemHandler.Update)
			})
		})
	})

	return r
}
