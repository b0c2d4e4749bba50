package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anpk/attendance-backend-go/internal/config"
	appHTTP "github.com/anpk/attendance-backend-go/internal/handler/http"
	"github.com/anpk/attendance-backend-go/internal/pkg/clock"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/anpk/attendance-backend-go/internal/pkg/jwt"
	"github.com/anpk/attendance-backend-go/internal/pkg/storage"
	"github.com/anpk/attendance-backend-go/internal/repository/postgresql"
	accessService "github.com/anpk/attendance-backend-go/internal/service/access"
	attendanceService "github.com/anpk/attendance-backend-go/internal/service/attendance"
	serviceAuth "github.com/anpk/attendance-backend-go/internal/service/auth"
	correctionService "github.com/anpk/attendance-backend-go/internal/service/correction"
	employeeService "github.com/anpk/attendance-backend-go/internal/service/employee"
	"github.com/anpk/attendance-backend-go/internal/service/file"
	siteService "github.com/anpk/attendance-backend-go/internal/service/site"
	"github.com/go-chi/httplog/v3"
)

const version = "v1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env == "development")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-backend"),
		slog.String("version", version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.App.RunMigrations {
		if err := database.RunMigrations(db); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	employeeRepo := postgresql.NewEmployeeRepository(db)
	siteRepo := postgresql.NewSiteRepository(db)
	assignmentRepo := postgresql.NewAssignmentRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	correctionRepo := postgresql.NewCorrectionRequestRepository(db)
	transactor := postgresql.NewTransactor(db)

	clk := clock.NewSystemClock(cfg.Location())
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	fileStorage, err := storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.BaseURL)
	if err != nil {
		slog.Error("Failed to initialize local storage", "error", err)
		os.Exit(1)
	}
	fileService := file.NewFileService(fileStorage)

	policy := accessService.NewPolicy(employeeRepo, assignmentRepo)
	final := correctionService.NewFinalSynthesizer(correctionRepo)

	attendanceSvc := attendanceService.NewAttendanceService(
		transactor,
		clk,
		policy,
		final,
		fileService,
		cfg.Storage.MaxPhotoBytes,
		attendanceRepo,
		correctionRepo,
		employeeRepo,
		siteRepo,
	)
	correctionSvc := correctionService.NewCorrectionService(
		transactor,
		clk,
		policy,
		final,
		attendanceRepo,
		correctionRepo,
		employeeRepo,
		assignmentRepo,
	)
	employeeSvc := employeeService.NewEmployeeService(policy, employeeRepo, siteRepo, assignmentRepo)
	siteSvc := siteService.NewSiteService(policy, siteRepo, assignmentRepo, employeeRepo)
	authSvc := serviceAuth.NewAuthService(employeeRepo, JWTService)

	router := appHTTP.NewRouter(logger, cfg.App.AllowedOrigins, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc, employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc, cfg.Storage.MaxPhotoBytes),
		Correction: appHTTP.NewCorrectionHandler(correctionSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Site:       appHTTP.NewSiteHandler(siteSvc),
		Report:     appHTTP.NewReportHandler(attendanceSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.App.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}
	slog.Info("Server stopped")
}
