package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fastcm/shophub-be/internal/api"
	"github.com/fastcm/shophub-be/internal/auth"
	"github.com/fastcm/shophub-be/internal/cart"
	"github.com/fastcm/shophub-be/internal/config"
	"github.com/fastcm/shophub-be/internal/database"
	"github.com/fastcm/shophub-be/internal/logger"
	"github.com/fastcm/shophub-be/internal/monitoring"
	"github.com/fastcm/shophub-be/internal/services"
	"github.com/fastcm/shophub-be/internal/websocket"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up auth primitives
	hasher := auth.NewHasher(cfg.PasswordSecret)
	tokens := auth.NewTokenManager(cfg.JWTSecret)

	// Set up cart session store. Redis carts expire by TTL; in-memory
	// carts are swept by the maintenance scheduler.
	var cartStore cart.Store
	var cartSweeper monitoring.CartSweeper
	if cfg.RedisAddr != "" {
		redisStore, err := cart.NewRedisStore(cfg.RedisAddr)
		if err != nil {
			log.Fatalf("Failed to connect cart store to Redis: %v", err)
		}
		cartStore = redisStore
	} else {
		memStore := cart.NewMemoryStore()
		cartStore = memStore
		cartSweeper = memStore
	}

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db, hasher)
	postService := services.NewPostService(db, userService, eventService, hub)
	productService := services.NewProductService(db)
	scheduleService := services.NewScheduleService(db)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(db, hub, eventService)
	go statUpdater.Run()

	// Set up and run the background scheduler
	scheduler := monitoring.NewScheduler(scheduleService, userService, eventService, cartSweeper)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(api.Deps{
		Tokens:        tokens,
		Hub:           hub,
		UserService:   userService,
		PostService:   postService,
		ProductSvc:    productService,
		EventService:  eventService,
		ScheduleSvc:   scheduleService,
		CartStore:     cartStore,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	statUpdater.Stop() // Stop the monitoring service
	scheduler.Stop()   // Stop the scheduler

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
