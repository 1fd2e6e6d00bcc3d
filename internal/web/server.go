package web

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hpungsan/jot/internal/config"
	"github.com/hpungsan/jot/internal/logger"
	"github.com/hpungsan/jot/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// NewServer creates and configures the HTTP server for the Jot web UI.
// A nil recorder gets a fresh one; a nil logger discards output.
func NewServer(db *sql.DB, cfg *config.Config, rec *metrics.Recorder, log *logger.Logger, version, bind string, port int) *http.Server {
	if rec == nil {
		rec = metrics.New(metrics.DefaultConfig())
	}
	if log == nil {
		log = logger.Discard()
	}

	// Create sub-FS for templates (strip "templates/" prefix)
	templateSub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		log.Fatal("failed to create template sub-FS", "error", err)
	}

	// Create sub-FS for static files (strip "static/" prefix)
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		log.Fatal("failed to create static sub-FS", "error", err)
	}

	h := &Handlers{
		db:       db,
		cfg:      cfg,
		renderer: NewRenderer(templateSub, version, log),
	}

	mux := http.NewServeMux()

	// Each route is instrumented under its pattern so label cardinality stays bounded
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, rec.Middleware(pattern, fn))
	}

	// Routes using Go 1.22+ pattern syntax
	handle("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/memos", http.StatusFound)
	})
	handle("GET /memos", h.HandleList)
	handle("GET /memos/search", h.HandleSearch)
	handle("POST /memos/search/recent/remove", h.HandleRecentRemove)
	handle("POST /memos/search/recent/clear", h.HandleRecentClear)
	handle("POST /memos/purge", h.HandlePurge)
	handle("GET /memos/{id}", h.HandleDetail)
	handle("DELETE /memos/{id}", h.HandleDelete)
	handle("POST /memos/{id}/delete", h.HandleDelete)
	handle("POST /memos/{id}/bookmark", h.HandleBookmark)
	handle("POST /memos/{id}/checklist/{item}", h.HandleCheck)
	handle("GET /folders", h.HandleFolders)
	handle("POST /folders", h.HandleFolderAdd)
	handle("POST /folders/{id}/delete", h.HandleFolderDelete)
	handle("GET /stats", h.HandleStats)

	mux.Handle("GET /metrics", rec.Handler())

	// Static file server
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticSub)))

	// Wrap with security headers
	handler := securityHeaders(mux)

	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; style-src 'self'")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server, log *logger.Logger) error {
	if log == nil {
		log = logger.Discard()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.ServerStarted("http://" + srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		log.Warn("server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
