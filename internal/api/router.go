package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/erazemk/popis/internal/model"
)

// Options configures NewRouter.
type Options struct {
	Inventory Inventory
	Users     UserStore
	Health    Pinger
	Logger    *zap.SugaredLogger

	JWTSecret    string
	AuthRequired bool // inventory routes need a token and writes need role manager
	Development  bool // expose internal error detail
	CORSOrigins  []string
	Version      string
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	errs := &errorWriter{log: log, dev: opts.Development}
	authHandler := &AuthHandler{Users: opts.Users, JWTSecret: opts.JWTSecret, Log: log}
	usersHandler := &UsersHandler{Users: opts.Users, Log: log}
	itemsHandler := &ItemsHandler{Inventory: opts.Inventory, errs: errs}
	inventoryHandler := &InventoryHandler{Inventory: opts.Inventory, errs: errs}
	systemHandler := &SystemHandler{DB: opts.Health, Version: opts.Version, Log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/", systemHandler.Index)
	r.Get("/health", systemHandler.Health)

	optionalAuth := Authenticate(opts.JWTSecret, opts.Users, false)
	requiredAuth := Authenticate(opts.JWTSecret, opts.Users, true)

	// writes wraps inventory mutations with the manager role check when
	// authentication is enforced.
	writes := func(h http.HandlerFunc) http.Handler {
		if opts.AuthRequired {
			return RequireRole(model.RoleManager)(h)
		}
		return h
	}

	r.Route("/api", func(r chi.Router) {
		// Public: login.
		r.Post("/auth/login", authHandler.Login)

		// Authenticated account routes.
		r.Group(func(r chi.Router) {
			r.Use(requiredAuth)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/profile", authHandler.Profile)
			r.Get("/auth/verify", authHandler.Verify)
			r.Put("/auth/password", authHandler.ChangePassword)

			// Users (admin only).
			r.Group(func(r chi.Router) {
				r.Use(RequireRole(model.RoleAdmin))
				r.Post("/auth/register", authHandler.Register)
				r.Get("/users", usersHandler.List)
				r.Delete("/users/{id}", usersHandler.Delete)
			})
		})

		// Inventory: reads are open unless auth is required, writes need manager+.
		r.Group(func(r chi.Router) {
			if opts.AuthRequired {
				r.Use(requiredAuth)
			} else {
				r.Use(optionalAuth)
			}

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/items", itemsHandler.List)
				r.Method(http.MethodPost, "/items", writes(itemsHandler.Create))
				r.Get("/items/{id}", itemsHandler.Get)
				r.Method(http.MethodPut, "/items/{id}", writes(itemsHandler.Update))
				r.Method(http.MethodDelete, "/items/{id}", writes(itemsHandler.Delete))
				r.Method(http.MethodPost, "/items/{id}/checkout", writes(itemsHandler.Checkout()))
				r.Method(http.MethodPost, "/items/{id}/checkin", writes(itemsHandler.Checkin()))
				r.Method(http.MethodPut, "/items/{id}/dispose", writes(itemsHandler.Dispose()))
				r.Method(http.MethodPost, "/items/{id}/maintenance", writes(itemsHandler.Maintenance()))
				r.Method(http.MethodPost, "/items/{id}/release", writes(itemsHandler.Release()))
				r.Get("/items/{id}/history", itemsHandler.History)
				r.Method(http.MethodPut, "/items/{id}/photo", writes(itemsHandler.UploadPhoto))
				r.Get("/items/{id}/photo", itemsHandler.GetPhoto)

				r.Get("/categories", inventoryHandler.Categories)
				r.Method(http.MethodPost, "/categories", writes(inventoryHandler.CreateCategory))
				r.Get("/stats", inventoryHandler.Stats)
				r.Get("/activity", inventoryHandler.Activity)
			})

			r.Get("/dashboard/stats", inventoryHandler.Stats)
		})
	})

	return r
}
