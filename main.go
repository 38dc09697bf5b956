package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"keyword-shortener/auth"
	"keyword-shortener/config"
	"keyword-shortener/email"
	"keyword-shortener/handler"
	appLogger "keyword-shortener/logger"
	"keyword-shortener/middleware"
	"keyword-shortener/session"
	"keyword-shortener/shortener"
	"keyword-shortener/store"
)

func main() {
	// Load configuration
	cfg := config.MustLoadConfig()

	// Initialize logger
	appLogger.Initialize(cfg.Logging.Level)
	log.Info().Msg("Configuration loaded successfully")

	// Initialize storage backend
	var db store.Store
	switch cfg.Storage.Backend {
	case "redis":
		rdb, err := store.NewRedisStore(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis store")
		}
		db = rdb
	case "file":
		fs, err := store.NewFileStore(cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize file store")
		}
		db = fs
	default:
		log.Fatal().Str("backend", cfg.Storage.Backend).Msg("Unknown storage backend")
	}

	// Initialize services
	registry := shortener.NewRegistry(db)
	authService := auth.NewService(db)
	emailService := email.NewService(cfg.SMTP)
	sessions := session.NewManager(cfg.Session)

	// Create handler with dependency injection
	h, err := handler.New(registry, authService, sessions, emailService, db, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	// Set up router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger)

	sessionAuth := middleware.NewSessionAuth(sessions)

	// Register routes
	r.HandleFunc("/", h.Index).Methods("GET")
	r.Handle("/shorten", sessionAuth.Protect(http.HandlerFunc(h.Shorten))).Methods("POST")
	r.HandleFunc("/contact", h.ContactForm).Methods("GET")
	r.HandleFunc("/contact", h.SubmitContact).Methods("POST")
	r.HandleFunc("/register", h.RegisterForm).Methods("GET")
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.LoginForm).Methods("GET")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.Handle("/dashboard", sessionAuth.Protect(http.HandlerFunc(h.Dashboard))).Methods("GET")
	r.HandleFunc("/logout", h.Logout).Methods("GET")
	r.HandleFunc("/qr/{keyword}", h.QRCode).Methods("GET")

	// Redirect route (must be last to avoid conflicts)
	r.HandleFunc("/{keyword}", h.Redirect).Methods("GET")

	// Configure HTTP server
	serverAddress := fmt.Sprintf("%s:%s", cfg.WebServer.IP, cfg.WebServer.Port)
	server := &http.Server{
		Addr:         serverAddress,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.WebServer.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WebServer.WriteTimeout) * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("address", serverAddress).
			Str("backend", cfg.Storage.Backend).
			Msg("Starting server")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.WebServer.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}

	log.Info().Msg("Server stopped gracefully")
}
