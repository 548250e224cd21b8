package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/brooder/internal/config"
	"github.com/mamadbah2/brooder/internal/repository/mongodb"
	"github.com/mamadbah2/brooder/internal/repository/sheets"
	"github.com/mamadbah2/brooder/internal/scheduler"
	"github.com/mamadbah2/brooder/internal/server/handlers"
	"github.com/mamadbah2/brooder/internal/server/router"
	authsvc "github.com/mamadbah2/brooder/internal/service/auth"
	callssvc "github.com/mamadbah2/brooder/internal/service/calls"
	intakesvc "github.com/mamadbah2/brooder/internal/service/intake"
	lifecyclesvc "github.com/mamadbah2/brooder/internal/service/lifecycle"
	reportingsvc "github.com/mamadbah2/brooder/internal/service/reporting"
	stocksvc "github.com/mamadbah2/brooder/internal/service/stock"
	whatsappclient "github.com/mamadbah2/brooder/pkg/clients/whatsapp"
	"github.com/mamadbah2/brooder/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.OpTimeout, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	var notifier whatsappclient.Client
	if cfg.WhatsApp.Enabled() {
		notifier = whatsappclient.NewClient(cfg.WhatsApp)
		baseLogger.Info("whatsapp notifications enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, notifications disabled")
	}

	stockSvc := stocksvc.NewService(repo, baseLogger.Named("svc.stock"))
	lifecycleSvc := lifecyclesvc.NewService(repo, stockSvc, notifier, baseLogger.Named("svc.lifecycle"))
	intakeSvc := intakesvc.NewService(repo, baseLogger.Named("svc.intake"))
	reportingSvc := reportingsvc.NewService(repo, baseLogger.Named("svc.reporting"))
	authSvc := authsvc.NewService(repo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, baseLogger.Named("svc.auth"))
	callsSvc := callssvc.NewService(repo, baseLogger.Named("svc.calls"))

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authSvc, baseLogger.Named("handlers.auth")),
		Requests:  handlers.NewRequestHandler(intakeSvc, lifecycleSvc, reportingSvc, baseLogger.Named("handlers.requests")),
		Stock:     handlers.NewStockHandler(stockSvc, baseLogger.Named("handlers.stock")),
		Dashboard: handlers.NewDashboardHandler(reportingSvc, baseLogger.Named("handlers.dashboard")),
		Calls:     handlers.NewCallHandler(callsSvc, baseLogger.Named("handlers.calls")),
	}, authSvc, baseLogger.Named("router"))

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		sheetsRepo, err = sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
	} else {
		baseLogger.Warn("sheets credentials missing, report export disabled")
	}

	sched := scheduler.NewScheduler(*cfg, reportingSvc, repo, repo, sheetsRepo, notifier, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
