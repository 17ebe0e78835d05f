package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"database/sql"

	"github.com/Dan9191/bank-cards/internal/config"
	"github.com/Dan9191/bank-cards/internal/handler"
	"github.com/Dan9191/bank-cards/internal/integrations/cbr"
	"github.com/Dan9191/bank-cards/internal/middleware"
	"github.com/Dan9191/bank-cards/internal/models"
	"github.com/Dan9191/bank-cards/internal/repository"
	"github.com/Dan9191/bank-cards/internal/scheduler"
	"github.com/Dan9191/bank-cards/internal/service"
	"github.com/Dan9191/bank-cards/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
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
	notifier := email.NewSender(cfg, logger)
	authSvc := service.NewAuthService(repo, logger, cfg)
	adminUsers := service.NewAdminUserService(repo, logger)
	adminCards := service.NewAdminCardService(repo, repo, logger)
	userCards := service.NewUserCardService(repo, repo, notifier, logger)
	transactions := service.NewTransactionService(repo, logger)
	ratesClient := cbr.NewClient(cfg, logger)
	h := handler.NewHandler(authSvc, adminUsers, adminCards, userCards, transactions, ratesClient, logger)

	// Start maintenance jobs
	jobs := scheduler.NewScheduler(repo, notifier, logger)
	if err := jobs.Start(); err != nil {
		logger.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.RequestLogging(logger))

	// Public routes
	r.HandleFunc("/api/auth/login", h.Login).Methods("POST")
	r.HandleFunc("/api/rates", h.GetRates).Methods("GET")

	// Administrative routes
	adminRouter := r.PathPrefix("/api/admin").Subrouter()
	adminRouter.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleAdmin))
	adminRouter.HandleFunc("/cards/create", h.CreateCard).Methods("POST")
	adminRouter.HandleFunc("/cards/get-all", h.GetAllCards).Methods("GET")
	adminRouter.HandleFunc("/cards/{id}/activate", h.ActivateCard).Methods("POST")
	adminRouter.HandleFunc("/cards/{cardId}/block", h.BlockCard).Methods("POST")
	adminRouter.HandleFunc("/cards/{cardId}/delete", h.DeleteCard).Methods("DELETE")
	adminRouter.HandleFunc("/users/create", h.CreateUser).Methods("POST")
	adminRouter.HandleFunc("/users/get-all", h.GetAllUsers).Methods("GET")
	adminRouter.HandleFunc("/users/{userId}/roles/update", h.UpdateRoles).Methods("PUT")
	adminRouter.HandleFunc("/users/{userId}/roles/add", h.AddRole).Methods("POST")
	adminRouter.HandleFunc("/users/{userId}/roles/remove", h.RemoveRole).Methods("POST")
	adminRouter.HandleFunc("/users/{id}/delete", h.DeleteUser).Methods("DELETE")

	// User routes
	userRouter := r.PathPrefix("/api/user").Subrouter()
	userRouter.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(models.RoleUser))
	userRouter.HandleFunc("/cards/get", h.GetUserCards).Methods("GET")
	userRouter.HandleFunc("/cards/get-decrypted", h.GetDecryptedUserCards).Methods("GET")
	userRouter.HandleFunc("/cards/{cardId}/get-decrypted", h.GetDecryptedUserCard).Methods("GET")
	userRouter.HandleFunc("/cards/transfer", h.TransferBetweenCards).Methods("POST")
	userRouter.HandleFunc("/cards/{cardId}/balance", h.GetBalance).Methods("GET")
	userRouter.HandleFunc("/cards/{cardId}/request-block", h.RequestBlock).Methods("POST")
	userRouter.HandleFunc("/transactions/{cardId}/get", h.GetTransactions).Methods("GET")

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
