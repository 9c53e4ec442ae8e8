package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/lnboard/backend/src/config"
	"github.com/username/lnboard/backend/src/database"
	"github.com/username/lnboard/backend/src/handlers"
	"github.com/username/lnboard/backend/src/lnmarkets"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/processors"
	"github.com/username/lnboard/backend/src/security"
	"github.com/username/lnboard/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == config.Cfg.FrontendBaseURL {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("LNBoard backend server starting...")

	location, err := time.LoadLocation(config.Cfg.Timezone)
	if err != nil {
		stdlog.Fatalf("invalid DASHBOARD_TIMEZONE %q: %v", config.Cfg.Timezone, err)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	batchCache := cache.New(cache.NoExpiration, 0)

	authService := security.NewAuthService(config.Cfg.JWTSecret, config.Cfg.DashboardSecret, config.Cfg.AccessTokenExpiry)

	lnmClient := lnmarkets.NewClient(
		config.Cfg.LNMBaseURL,
		config.Cfg.LNMAPIKey,
		config.Cfg.LNMAPISecret,
		config.Cfg.LNMPassphrase,
		config.Cfg.HTTPClientTimeout,
	)

	positionProcessor := processors.NewPositionProcessor(location)
	positionService := services.NewPositionService(lnmClient, positionProcessor, batchCache)
	analyticsService := services.NewAnalyticsService(location)
	ledgerService := services.NewLedgerService(database.DB)

	authHandler := handlers.NewAuthHandler(authService)
	positionHandler := handlers.NewPositionHandler(positionService, analyticsService, location)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, positionService, analyticsService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "LNBoard Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		// Rotas Públicas
		r.Post("/auth/login", authHandler.HandleLogin)

		// Rotas Protegidas (Requerem Autenticação)
		r.Group(func(r chi.Router) {
			r.Use(handlers.AuthMiddleware(authService))

			r.Post("/positions/refresh", positionHandler.HandleRefreshPositions)
			r.Get("/positions", positionHandler.HandleGetPositions)
			r.Get("/positions/summary", positionHandler.HandleGetSummary)
			r.Get("/charts/monthly", positionHandler.HandleMonthlyChart)
			r.Get("/charts/daily", positionHandler.HandleDailyChart)
			r.Get("/charts/cumulative", positionHandler.HandleCumulativeChart)

			r.Post("/transactions", ledgerHandler.HandleAddTransaction)
			r.Get("/transactions", ledgerHandler.HandleListTransactions)
			r.Delete("/transactions/{id}", ledgerHandler.HandleDeleteTransaction)
			r.Get("/transactions/export", ledgerHandler.HandleExportTransactions)

			r.Get("/balance", ledgerHandler.HandleGetBalance)
			r.Get("/balance/history", ledgerHandler.HandleBalanceHistory)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}
		http.NotFound(w, r)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
