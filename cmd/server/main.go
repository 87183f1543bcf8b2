package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"lorehub/internal/account"
	"lorehub/internal/auth"
	"lorehub/internal/backend"
	"lorehub/internal/config"
	"lorehub/internal/handler"
	"lorehub/internal/listing"
	"lorehub/internal/middleware"
	"lorehub/internal/repository/postgres"
	"lorehub/internal/service/browse"
	"lorehub/internal/service/markdown"
	"lorehub/internal/service/preferences"
	"lorehub/internal/service/session"
	"lorehub/web"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"backend", cfg.BackendBaseURL,
	)

	ctx := context.Background()

	inspector, err := auth.NewInspector(ctx, cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create token inspector: %v", err)
	}

	// Preferences persist in Postgres when a database is configured,
	// otherwise in memory for the process lifetime.
	var prefStore preferences.Store = preferences.NewMemoryStore()
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()
		prefStore = postgres.NewPreferencesStore(pool, logger)
		logger.Info("database connected")
	}

	// Backend clients
	caller := backend.NewCaller(cfg.BackendBaseURL, logger)
	files := listing.NewClient(caller, cfg.ListingRoot, logger)
	accounts := account.NewClient(caller, logger)

	// Services
	prefs := preferences.NewService(prefStore, logger)
	sessions := session.NewStore(accounts, cfg.StaticBaseURL, logger)
	notes := browse.NewManager(files, cfg.NotesRoot, browse.ModeReplace, cfg.NotesPageSize, logger)
	gallery := browse.NewManager(files, cfg.GalleryRoot, browse.ModeAppend, cfg.GalleryPageSize, logger)
	renderer := markdown.NewRenderer()
	converter := markdown.NewConverter()

	logger.Info("services initialized")

	tmpl, err := web.Templates()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}
	static, err := web.Static()
	if err != nil {
		log.Fatalf("Failed to load static assets: %v", err)
	}

	// Handlers
	pages := handler.NewPageHandler(cfg, tmpl, notes, gallery, files, renderer, converter, prefs, sessions, logger)
	browseHandler := handler.NewBrowseHandler(notes, gallery, logger)
	accountHandler := handler.NewAccountHandler(accounts, sessions, logger)
	themeHandler := handler.NewThemeHandler(prefs, logger)
	tocHandler := handler.NewTOCHandler(logger)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Pages
	mux.HandleFunc("GET /", pages.Home)
	mux.HandleFunc("GET /login", pages.Login)
	mux.HandleFunc("GET /notes", pages.Notes)
	mux.HandleFunc("GET /notes/read", pages.Note)
	mux.HandleFunc("GET /gallery", pages.Gallery)
	mux.HandleFunc("GET /blog", pages.Blog)
	mux.HandleFunc("GET /workspace", pages.Workspace)
	mux.HandleFunc("GET /settings", pages.Settings)
	mux.HandleFunc("GET /user", pages.UserCenter)

	// Static assets
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Browse API
	mux.HandleFunc("POST /api/browse/{view}", browseHandler.Act)

	// Account API
	mux.HandleFunc("GET /api/captcha", accountHandler.Captcha)
	mux.HandleFunc("POST /api/login", accountHandler.Login)
	mux.HandleFunc("POST /api/logout", accountHandler.Logout)
	mux.HandleFunc("GET /api/user/info", accountHandler.UserInfo)
	mux.HandleFunc("PUT /api/user/update", accountHandler.UpdateUser)
	mux.HandleFunc("POST /api/upload/single", accountHandler.Upload)

	// Theme API
	mux.HandleFunc("GET /api/theme", themeHandler.Get)
	mux.HandleFunc("PUT /api/theme", themeHandler.Set)
	mux.HandleFunc("POST /api/theme/toggle", themeHandler.Toggle)

	// Outline API
	mux.HandleFunc("POST /api/toc/active", tocHandler.Active)

	// Build middleware chain (applied in reverse order, they wrap each other)
	var h http.Handler = mux
	h = middleware.Guard(inspector)(h)
	h = middleware.Session()(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID()(h)

	// CORS - must be outermost to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
