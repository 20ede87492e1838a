package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/scrounge/pkg/menu"
	"github.com/umputun/scrounge/pkg/registry"
	"github.com/umputun/scrounge/pkg/store"
)

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"halls":   len(s.registry.Halls()),
		"time":    time.Now().UTC(),
	}

	if last, err := s.store.GetLastRefresh(r.Context()); err == nil && !last.IsZero() {
		status["last_refresh"] = last
	}

	RenderJSON(w, r, http.StatusOK, status)
}

// hallsHandler lists hall slugs in registry order
func (s *Server) hallsHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, map[string]interface{}{"halls": s.registry.Halls()})
}

// menusHandler ensures the cache is fresh and returns every hall's menu
func (s *Server) menusHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.refresher.EnsureFresh(ctx, time.Now().UTC()); err != nil {
		s.renderFailure(w, r, err)
		return
	}

	menus, err := s.store.ReadAllHalls(ctx, s.registry.Halls())
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]interface{}{"menus": menus})
}

// hallMenuHandler returns one hall's menu. A date query parameter bypasses
// the cache and fetches that day directly from upstream.
func (s *Server) hallMenuHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	hall, err := s.registry.Resolve(r.PathValue("hall"))
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	if date := r.URL.Query().Get("date"); date != "" {
		if _, perr := time.Parse("2006-01-02", date); perr != nil {
			RenderError(w, r, fmt.Errorf("date must be YYYY-MM-DD: %w", perr), http.StatusBadRequest)
			return
		}
		m, err := s.fetcher.Fetch(ctx, hall, date)
		if err != nil {
			s.renderFailure(w, r, err)
			return
		}
		RenderJSON(w, r, http.StatusOK, m)
		return
	}

	if err := s.refresher.EnsureFresh(ctx, time.Now().UTC()); err != nil {
		s.renderFailure(w, r, err)
		return
	}

	m, err := s.store.ReadHall(ctx, hall)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusOK, m)
}

// refreshHandler forces a full refresh regardless of freshness
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.refresher.ForceRefresh(r.Context()); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]string{"status": "refreshed"})
}

// userHandler returns the user's default hall and tracked items
func (s *Server) userHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	hall, err := s.store.GetDefaultHall(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		s.renderFailure(w, r, err)
		return
	}

	items, err := s.store.GetTrackedItems(ctx, userID)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{
		"user_id":       userID,
		"hall":          hall, // empty when the user has no account yet
		"tracked_items": items,
	})
}

// setUserHallHandler sets the user's default hall, resolving aliases
func (s *Server) setUserHallHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Hall string `json:"hall"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	hall, err := s.registry.Resolve(req.Hall)
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	if err := s.store.SetDefaultHall(r.Context(), r.PathValue("id"), hall); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]string{"hall": hall})
}

// addUserItemHandler adds a food name to the user's tracked list
func (s *Server) addUserItemHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Item string `json:"item"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Item == "" {
		RenderError(w, r, errors.New("item is required"), http.StatusBadRequest)
		return
	}

	if err := s.store.AddTrackedItem(r.Context(), r.PathValue("id"), req.Item); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusCreated, map[string]string{"item": req.Item})
}

// removeUserItemHandler drops a food name from the user's tracked list
func (s *Server) removeUserItemHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveTrackedItem(r.Context(), r.PathValue("id"), r.PathValue("name")); err != nil {
		s.renderFailure(w, r, err)
		return
	}
	RenderJSON(w, r, http.StatusOK, map[string]string{"status": "removed"})
}

// userMatchesHandler runs the scrounge flow: ensure fresh, read the user's
// tracked list and intersect it with every hall's cached menu
func (s *Server) userMatchesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tracked, err := s.store.GetTrackedItems(ctx, r.PathValue("id"))
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	if len(tracked) == 0 {
		RenderJSON(w, r, http.StatusOK, map[string]interface{}{"matches": map[string]interface{}{}})
		return
	}

	if err := s.refresher.EnsureFresh(ctx, time.Now().UTC()); err != nil {
		s.renderFailure(w, r, err)
		return
	}

	menus, err := s.store.ReadAllHalls(ctx, s.registry.Halls())
	if err != nil {
		s.renderFailure(w, r, err)
		return
	}

	RenderJSON(w, r, http.StatusOK, map[string]interface{}{"matches": menu.FindMatches(tracked, menus)})
}

// renderFailure maps core errors to HTTP statuses: bad hall input is the
// caller's fault, upstream fetch trouble is a bad gateway, anything else is
// a server-side store failure.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, err error) {
	var fetchErr *menu.FetchError

	switch {
	case errors.Is(err, registry.ErrHallNotFound):
		RenderError(w, r, err, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		RenderError(w, r, err, http.StatusNotFound)
	case errors.As(err, &fetchErr):
		lgr.Printf("[WARN] upstream fetch failed: %v", err)
		RenderError(w, r, err, http.StatusBadGateway)
	default:
		lgr.Printf("[ERROR] request failed: %v", err)
		RenderError(w, r, err, http.StatusInternalServerError)
	}
}
