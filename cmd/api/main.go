package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/clearspend/finance-service/internal/config"
	"github.com/clearspend/finance-service/internal/handler"
	"github.com/clearspend/finance-service/internal/integrations/ecb"
	"github.com/clearspend/finance-service/internal/middleware"
	"github.com/clearspend/finance-service/internal/repository"
	"github.com/clearspend/finance-service/internal/scheduler"
	"github.com/clearspend/finance-service/internal/service"
	"github.com/clearspend/finance-service/internal/utils/email"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize layers
	repo := repository.NewRepository(db)
	cache := repository.NewRedisCache(cfg.RedisAddr)
	svc := service.NewService(repo, cache, logger, cfg)
	h := handler.NewHandler(svc)
	ecbClient := ecb.NewClient(cfg, logger)

	// Start the bill-reminder scheduler
	sender := email.NewSender(cfg, logger)
	sched := scheduler.NewScheduler(repo, sender, logger)
	if err := sched.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Setup router
	r := mux.NewRouter()
	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))
	authRouter.HandleFunc("/profile", h.GetProfile).Methods("GET")
	authRouter.HandleFunc("/profile", h.UpdateProfile).Methods("PATCH")
	authRouter.HandleFunc("/expenses", h.ListExpenses).Methods("GET")
	authRouter.HandleFunc("/expenses", h.CreateExpense).Methods("POST")
	authRouter.HandleFunc("/expenses/{id}", h.DeleteExpense).Methods("DELETE")
	authRouter.HandleFunc("/summary", h.Summary).Methods("GET")
	// Simulation is the expensive endpoint; rate-limit it per client
	limiter := middleware.NewRateLimiter(30, time.Minute)
	defer limiter.Stop()
	simRouter := authRouter.PathPrefix("/prediction").Subrouter()
	simRouter.Use(middleware.RateLimitMiddleware(limiter))
	simRouter.HandleFunc("/simulate", h.Simulate).Methods("POST")
	// ECB reference-rate endpoint
	r.HandleFunc("/fx-rate", func(w http.ResponseWriter, r *http.Request) {
		currency := r.URL.Query().Get("currency")
		if currency == "" {
			currency = "USD"
		}
		rate, err := ecbClient.GetRate(currency)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to get reference rate: %v", err), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]float64{"rate": rate})
	}).Methods("GET")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
