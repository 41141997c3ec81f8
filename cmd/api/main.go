package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "p2plend-backend/internal/adapter/http"
	idem "p2plend-backend/internal/adapter/middleware"
	"p2plend-backend/internal/adapter/repository/mysql"
	"p2plend-backend/internal/config"
	"p2plend-backend/internal/infrastructure/cache"
	"p2plend-backend/internal/infrastructure/db"
	"p2plend-backend/internal/jobs"
	"p2plend-backend/internal/logger"
	loanuc "p2plend-backend/internal/usecase/loan"
	negotiationuc "p2plend-backend/internal/usecase/negotiation"
	"p2plend-backend/internal/usecase/recommendation"
	"p2plend-backend/internal/usecase/simulation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.WithError(err).Fatal("load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("invalid config")
	}
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Log.WithError(err).Fatal("open mysql")
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		logger.Log.WithError(err).Fatal("migrate")
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Log.WithError(err).Fatal("open redis")
	}
	defer rdb.Close()

	// repositories
	negs := mysql.NewNegotiationRepository(gdb)
	props := mysql.NewProposalRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	profiles := mysql.NewProfileRepository(gdb)

	// use cases
	negUC := negotiationuc.NewUsecase(mysql.NewGormUoW(gdb), negs, props, profiles,
		negotiationuc.WithFeePercent(cfg.FeePercent))
	loanUC := loanuc.NewUsecase(loans)
	simUC := simulation.NewUsecase(cfg.FeePercent)
	recUC := recommendation.NewUsecase(profiles, rdb, cfg.RecommendationTTL(), cfg.FeePercent)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper, err := jobs.NewExpirySweeper(cfg.ExpirySweepCron, negUC)
	if err != nil {
		logger.Log.WithError(err).Fatal("expiry sweeper")
	}
	go sweeper.Start(ctx)

	h := httpadp.NewHandler()
	nh := httpadp.NewNegotiationHandler(negUC)
	lh := httpadp.NewLoanHandler(loanUC)
	sh := httpadp.NewSimulationHandler(simUC, recUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	idempotent := idem.IdempotencyMiddleware(rdb, cfg.IdempotencyTTL())

	// routes
	e.GET("/health", h.Health)
	e.POST("/offers", nh.Publish, idempotent)
	e.POST("/negotiations", nh.Open, idempotent)
	e.GET("/negotiations/:negotiation_id", nh.Get)
	e.GET("/negotiations/:negotiation_id/proposals", nh.ListProposals)
	e.POST("/negotiations/:negotiation_id/proposals", nh.Submit, idempotent)
	e.POST("/negotiations/:negotiation_id/accept", nh.Accept, idempotent)
	e.POST("/negotiations/:negotiation_id/reject", nh.Reject, idempotent)
	e.POST("/negotiations/:negotiation_id/cancel", nh.Cancel, idempotent)
	e.GET("/negotiations/:negotiation_id/loan", lh.GetNegotiationLoan)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.POST("/simulations", sh.Simulate)
	e.GET("/recommendations", sh.Recommend)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("shutdown")
	}
}
