package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/config"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/attendance"
	appHTTP "github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/employee"
	importService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/importer"
	reportService "github.com/cmlabs-hris/timeclock-backend-go/internal/service/report"
)

const (
	appName    = "timeclock-backend"
	appVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logLevel, _ := config.ParseLogLevel(cfg.App.LogLevel)
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		log.Fatal("Error connecting to database: ", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Error applying database schema: ", err)
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	dayRepo := postgresql.NewDailyAttendanceRepository(db)
	rollupRepo := postgresql.NewMonthlyRollupRepository(db)
	importRepo := postgresql.NewImportRepository(db)
	rawPunchRepo := postgresql.NewRawPunchRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
	if err != nil {
		log.Fatal("Failed to initialize local storage: ", err)
	}

	aggregator := attendanceService.NewAggregator(dayRepo, rollupRepo)
	attendanceSvc := attendanceService.NewAttendanceService(dayRepo, rollupRepo, employeeRepo, rawPunchRepo)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	importSvc := importService.NewImportService(
		importRepo,
		rawPunchRepo,
		employeeRepo,
		txRunner,
		aggregator,
		cfg.Import.Workers,
		attendance.CalculationMode(cfg.Import.DefaultMode),
	)
	reportSvc := reportService.NewReportService(reportRepo, employeeRepo, dayRepo, fileStorage)

	var jwtService jwt.Service
	if cfg.JWT.Secret != "" {
		jwtService = jwt.NewJWTService(cfg.JWT.Secret)
	} else {
		slog.Warn("JWT_SECRET_KEY not set, API routes are unauthenticated")
	}

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        appName,
			Version:        appVersion,
			Env:            cfg.App.Env,
			AllowedOrigins: cfg.App.AllowedOrigins,
			LogLevel:       logLevel,
			FilesDir:       fileStorage.BasePath(),
			JWTService:     jwtService,
		},
		appHTTP.NewImportHandler(importSvc),
		appHTTP.NewAttendanceHandler(attendanceSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	scheduler := cron.NewScheduler(ctx)
	if cfg.Import.InboxDir != "" {
		cron.NewInboxJobs(importSvc, cfg.Import.InboxDir, cfg.Import.DefaultMode).
			RegisterJobs(scheduler, cfg.Import.InboxInterval)
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server running", "addr", "http://localhost"+server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
	}
}
