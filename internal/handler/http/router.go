package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	AllowedOrigins []string
	LogLevel       slog.Level

	// FilesDir is served read-only under /files, behind the same guard as /api/v1.
	// Empty disables it.
	FilesDir string

	// JWTService guards /api/v1 and /files when set.
	JWTService jwt.Service
}

func NewRouter(
	cfg RouterConfig,
	importHandler ImportHandler,
	attendanceHandler AttendanceHandler,
	employeeHandler EmployeeHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Report-ID", "X-Report-URL"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  cfg.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Group(func(r chi.Router) {
		if cfg.JWTService != nil {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.JWTService.JWTAuth()))
		}

		// Reports carry employee hours, so they share the API guard.
		if cfg.FilesDir != "" {
			r.Handle("/files/*", http.StripPrefix("/files/", http.FileServer(http.Dir(cfg.FilesDir))))
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/imports", func(r chi.Router) {
				r.Get("/", importHandler.List)
				r.Post("/", importHandler.Import)
				r.Post("/dual", importHandler.ImportDual)
			})

			r.Get("/employees", employeeHandler.List)

			r.Get("/attendances", attendanceHandler.List)
			r.Get("/summaries", attendanceHandler.ListSummaries)
			r.Get("/stats", attendanceHandler.Stats)

			r.With(chiMiddleware.AllowContentType("application/json")).Post("/reports", reportHandler.Generate)
		})
	})
	return r
}
