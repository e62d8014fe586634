package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lendworks-web/internal/api"
	"lendworks-web/internal/config"
	"lendworks-web/internal/domain"
	"lendworks-web/internal/handler"
	"lendworks-web/internal/middleware"
	"lendworks-web/internal/observability"
	"lendworks-web/internal/routegate"
	"lendworks-web/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting lendworks web client",
		slog.String("backend", cfg.APIBaseURL))

	sessionPath := cfg.SessionFile
	if sessionPath == "" {
		sessionPath = session.DefaultPath()
	}
	store := session.NewFileStore(sessionPath)
	mgr := session.NewManager(store, nil)

	// Hydrate before the router starts serving: no protected page may
	// render against an empty session that storage could have filled.
	mgr.Hydrate()
	if mgr.Snapshot().Authenticated() {
		slog.Info("restored previous session from storage")
	}

	client := api.NewClient(cfg.APIBaseURL, mgr)
	renderer := handler.NewRenderer(client)

	authHandler := handler.NewAuthHandler(client, renderer)
	loanHandler := handler.NewLoanHandler(client, renderer)
	lenderHandler := handler.NewLenderHandler(client, renderer)
	adminHandler := handler.NewAdminHandler(client, renderer)
	notificationHandler := handler.NewNotificationHandler(client, renderer)

	anyAuth := middleware.Gate(mgr, client.Me, routegate.AnyAuthenticated)
	borrowerOnly := middleware.Gate(mgr, client.Me, routegate.Roles(domain.RoleBorrower))
	lenderOnly := middleware.Gate(mgr, client.Me, routegate.Roles(domain.RoleLender))
	lenderOrAdmin := middleware.Gate(mgr, client.Me, routegate.Roles(domain.RoleLender, domain.RoleAdmin))
	adminOnly := middleware.Gate(mgr, client.Me, routegate.Roles(domain.RoleAdmin))

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Metrics())

	r.Get("/health", handler.Health)
	r.Get("/health/ready", handler.Ready(client.Ping))
	r.Handle("/metrics", promhttp.Handler())

	// Public pages. The landing page shows the open marketplace read-only.
	r.Get("/", loanHandler.OpenLoans)
	r.Get("/login", authHandler.LoginForm)
	r.Get("/register", authHandler.RegisterForm)
	r.Post("/logout", authHandler.Logout)

	authLimiter := middleware.NewRateLimiter(1, 5)
	defer authLimiter.Stop()
	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware())
		r.Post("/login", authHandler.Login)
		r.Post("/register", authHandler.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(anyAuth)
		r.Get("/me", authHandler.Me)
		r.Get("/notifications", notificationHandler.List)
		r.Post("/notifications/{notificationID}/read", notificationHandler.MarkRead)
	})

	r.Group(func(r chi.Router) {
		r.Use(borrowerOnly)
		r.Get("/borrower", loanHandler.BorrowerDashboard)
		r.Get("/borrower/risk", loanHandler.RiskSummary)
		r.Get("/loans/apply", loanHandler.ApplyForm)
		r.Post("/loans/apply", loanHandler.Apply)
		r.Get("/loans/{loanID}/repayments", loanHandler.Repayments)
		r.Post("/repayments/{repaymentID}/pay", loanHandler.PayRepayment)
	})

	r.Group(func(r chi.Router) {
		r.Use(lenderOrAdmin)
		r.Get("/loans/open", loanHandler.OpenLoans)
	})

	r.Group(func(r chi.Router) {
		r.Use(lenderOnly)
		r.Get("/lender", lenderHandler.Dashboard)
		r.Get("/lender/portfolio", lenderHandler.Portfolio)
		r.Get("/lender/transactions", lenderHandler.Transactions)
		r.Post("/fundings/{loanID}", loanHandler.Fund)
	})

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Get("/admin/users", adminHandler.Users)
		r.Post("/admin/users/{userID}/status", adminHandler.SetUserStatus)
		r.Get("/admin/loans", adminHandler.Loans)
		r.Post("/admin/loans/{loanID}/approve", adminHandler.ApproveLoan)
		r.Post("/admin/loans/{loanID}/reject", adminHandler.RejectLoan)
		r.Post("/admin/loans/{loanID}/disburse", adminHandler.DisburseLoan)
		r.Get("/admin/maintenance", adminHandler.Maintenance)
		r.Post("/admin/maintenance/check-overdue", adminHandler.CheckOverdue)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("web client listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("stopped")
}
