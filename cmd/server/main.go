package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"munera-backend/internal/auth"
	"munera-backend/internal/cache"
	"munera-backend/internal/events"
	"munera-backend/internal/handlers"
	"munera-backend/internal/middleware"
	"munera-backend/internal/service"
	"munera-backend/internal/session"
	"munera-backend/internal/storage"
)

func main() {
	if os.Getenv("JWT_SECRET") == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// Database connection (with retries)
	var db *sqlx.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", buildDSN())
		if err == nil {
			break
		}
		log.Printf("DB connection attempt %d failed: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Redis (sessions + rate limiting)
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Event bus (optional)
	var publisher service.EventPublisher
	natsPublisher, err := events.Connect()
	if err != nil {
		log.Printf("WARN activity events disabled: %v", err)
	} else {
		publisher = natsPublisher
		defer natsPublisher.Close()
	}

	store := storage.NewStorage(db)
	svc := service.New(store, publisher)
	sessions := session.NewStore(redisClient.RDB(), auth.TokenLifetime)

	authHandler := auth.NewHandler(svc, sessions)
	h := handlers.New(svc)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// public
	r.Post("/v1/users", h.Signup)
	r.With(middleware.RateLimitLogin(redisClient)).Post("/v1/auth/login", authHandler.Login)

	// authenticated
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(sessions))
		r.Post("/v1/auth/logout", authHandler.Logout)
		r.Get("/v1/auth/me", authHandler.Me)
		h.RegisterRoutes(r)
	})

	server := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Println("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Println("Server starting on :8080")
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}

func buildDSN() string {
	return "host=" + getEnv("DB_HOST", "localhost") +
		" user=" + getEnv("DB_USER", "munera_user") +
		" password=" + getEnv("DB_PASSWORD", "munera_pass") +
		" dbname=" + getEnv("DB_NAME", "munera") +
		" sslmode=disable"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
