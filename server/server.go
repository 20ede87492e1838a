// Package server exposes the menu cache, matcher and user store to the chat
// command dispatcher as a JSON API. All user-facing text formatting and
// message chunking happens on the dispatcher side, never here.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/scrounge/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store
//go:generate moq -out mocks/refresher.go -pkg mocks -skip-ensure -fmt goimports . Refresher
//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher

// Store is the persistent state the handlers read and write.
type Store interface {
	ReadHall(ctx context.Context, hall string) (*domain.Menu, error)
	ReadAllHalls(ctx context.Context, halls []string) (map[string]*domain.Menu, error)
	GetLastRefresh(ctx context.Context) (time.Time, error)
	GetDefaultHall(ctx context.Context, userID string) (string, error)
	SetDefaultHall(ctx context.Context, userID, hall string) error
	GetTrackedItems(ctx context.Context, userID string) ([]string, error)
	AddTrackedItem(ctx context.Context, userID, name string) error
	RemoveTrackedItem(ctx context.Context, userID, name string) error
}

// Refresher keeps the cache fresh before reads.
type Refresher interface {
	EnsureFresh(ctx context.Context, now time.Time) error
	ForceRefresh(ctx context.Context) error
}

// Fetcher serves date-specific menu requests that bypass the cache.
type Fetcher interface {
	Fetch(ctx context.Context, hall, date string) (*domain.Menu, error)
}

// Registry resolves hall aliases and lists halls.
type Registry interface {
	Resolve(text string) (string, error)
	Halls() []string
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	store     Store
	refresher Refresher
	fetcher   Fetcher
	registry  Registry
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance
func New(cfg ConfigProvider, st Store, rf Refresher, f Fetcher, reg Registry, version string, debug bool) *Server {
	s := &Server{
		config:    cfg,
		store:     st,
		refresher: rf,
		fetcher:   f,
		registry:  reg,
		version:   version,
		debug:     debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("scrounge", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // 64K, requests here are tiny
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
		r.HandleFunc("GET /halls", s.hallsHandler)
		r.HandleFunc("GET /menus", s.menusHandler)
		r.HandleFunc("GET /menus/{hall}", s.hallMenuHandler)
		r.HandleFunc("POST /refresh", s.refreshHandler)

		r.HandleFunc("GET /users/{id}", s.userHandler)
		r.HandleFunc("PUT /users/{id}/hall", s.setUserHallHandler)
		r.HandleFunc("POST /users/{id}/items", s.addUserItemHandler)
		r.HandleFunc("DELETE /users/{id}/items/{name}", s.removeUserItemHandler)
		r.HandleFunc("GET /users/{id}/matches", s.userMatchesHandler)
	})
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
