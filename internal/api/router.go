package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/fastcm/shophub-be/internal/api/handlers"
	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/cart"
	"github.com/fastcm/shophub-be/internal/services"
	"github.com/fastcm/shophub-be/internal/websocket"
)

// Deps bundles everything the route tree needs.
type Deps struct {
	Tokens        *auth.TokenManager
	Hub           *websocket.Hub
	UserService   services.UserServiceProvider
	PostService   services.PostServiceProvider
	ProductSvc    services.ProductServiceProvider
	EventService  services.EventServiceProvider
	ScheduleSvc   services.ScheduleServiceProvider
	CartStore     cart.Store
	AllowedOrigin string
}

// NewRouter creates and configures a new Chi router.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for the storefront frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(deps.UserService, deps.Tokens, deps.EventService)
	postHandler := handlers.NewPostHandler(deps.PostService)
	productHandler := handlers.NewProductHandler(deps.ProductSvc)
	cartHandler := handlers.NewCartHandler(deps.CartStore, deps.ProductSvc)
	eventHandler := handlers.NewEventHandler(deps.EventService)
	scheduleHandler := handlers.NewScheduleHandler(deps.ScheduleSvc)
	wsHandler := handlers.NewWebSocketHandler(deps.Hub)

	requireAuth := deps.Tokens.Middleware()

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket notification endpoints
		r.Get("/ws", wsHandler.Serve)
		r.Get("/ws/posts/{id}", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", userHandler.Logout)
				r.Get("/me", userHandler.GetMe)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", userHandler.List)
			r.Get("/{id}", userHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Put("/{id}", userHandler.Update)
				r.Delete("/{id}", userHandler.Deactivate)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postHandler.List)
			r.Get("/{id}", postHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", postHandler.Create)
				r.Put("/{id}", postHandler.Update)
				r.Delete("/{id}", postHandler.Delete)
				r.Post("/{id}/like", postHandler.ToggleLike)
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/{id}", productHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(auth.RequireAdmin)
				r.Post("/", productHandler.Create)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.Get)
			r.Post("/items", cartHandler.AddItem)
			r.Delete("/items/{productId}", cartHandler.RemoveItem)
			r.Delete("/", cartHandler.Clear)
		})

		// Admin surfaces
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(auth.RequireAdmin)

			r.Get("/events", eventHandler.GetRecent)

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", scheduleHandler.List)
				r.Post("/", scheduleHandler.Create)
				r.Get("/{id}", scheduleHandler.Get)
				r.Put("/{id}", scheduleHandler.Update)
				r.Delete("/{id}", scheduleHandler.Delete)
			})
		})
	})

	return r
}
