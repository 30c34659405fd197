package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "loanflow-backend/internal/adapter/http"
	"loanflow-backend/internal/adapter/middleware"
	"loanflow-backend/internal/adapter/repository/mysql"
	"loanflow-backend/internal/client/analysis"
	"loanflow-backend/internal/client/scoring"
	"loanflow-backend/internal/config"
	"loanflow-backend/internal/infrastructure/cache"
	"loanflow-backend/internal/infrastructure/db"
	"loanflow-backend/internal/infrastructure/filestore"
	"loanflow-backend/internal/infrastructure/queue"
	"loanflow-backend/internal/usecase/document"
	"loanflow-backend/internal/usecase/profile"
	"loanflow-backend/internal/usecase/review"
	"loanflow-backend/internal/usecase/wizard"
	"loanflow-backend/pkg/logging"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql connect", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}

	files, err := filestore.New(cfg.UploadDir)
	if err != nil {
		logger.Fatal("filestore init", zap.Error(err))
	}

	producer := queue.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic, logger)
	defer producer.Close()

	users := mysql.NewUserRepository(gdb)
	apps := mysql.NewApplicationRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	scorer := scoring.New(cfg.ScoringURL, cfg.ScoringTimeout)
	var analyser httpadp.Analyser
	if cfg.AnalysisURL != "" {
		analyser = analysis.New(cfg.AnalysisURL, cfg.AnalysisTimeout)
	}

	docsUC := document.NewUsecase(users, files)
	wizardUC := wizard.NewUsecase(users, apps, tx, scorer)
	reviewUC := review.NewUsecase(users, apps, tx, docsUC, producer)
	profileUC := profile.NewUsecase(users, files)

	h := httpadp.NewHandler()
	wizardH := httpadp.NewWizardHandler(wizardUC, analyser)
	docsH := httpadp.NewDocumentHandler(docsUC)
	profileH := httpadp.NewProfileHandler(profileUC)
	adminH := httpadp.NewAdminHandler(reviewUC)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, cfg.IdempTTL()))

	e.GET("/health", h.Health)

	userGroup := e.Group("/user", middleware.RequireUser(users))
	userGroup.GET("/loan-application", wizardH.Get)
	userGroup.PUT("/loan-application", wizardH.Save)
	userGroup.POST("/loan-application/submit", wizardH.Submit)
	userGroup.GET("/documents", docsH.List)
	userGroup.POST("/documents/upload", docsH.Upload)
	userGroup.PUT("/profile", profileH.Update)
	userGroup.DELETE("/account", profileH.DeleteAccount)

	adminGroup := e.Group("/admin", middleware.RequireUser(users), middleware.RequireAdmin())
	adminGroup.GET("/applications", adminH.List)
	adminGroup.PUT("/applications/:id/documents", adminH.ReviewDocument)
	adminGroup.PUT("/applications/:id/status", adminH.Decide)
	adminGroup.PUT("/applications/:id/assign", adminH.Assign)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
