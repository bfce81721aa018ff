// Package devserver serves a repository.Backend over the REST API the HTTP
// client speaks, for local development and end-to-end tests.
package devserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
)

// NewRouter mounts the API under /api. A non-empty token turns on bearer
// authentication for every /api route.
func NewRouter(backend repository.Backend, token string, logger logging.Logger) http.Handler {
	if backend == nil {
		panic("devserver: backend must not be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	h := &handler{backend: backend, logger: logger.With("component", "devserver")}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeRaw(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(bearerAuth(token))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Post("/", h.createUser)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
			r.Post("/{id}/restore", h.restoreUser)
		})
		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Post("/", h.sendNotification)
			r.Put("/{id}/read", h.markRead)
			r.Post("/{id}/star", h.toggleStar)
			r.Delete("/{id}", h.trash)
			r.Post("/{id}/restore", h.restoreNotification)
			r.Delete("/{id}/permanent", h.purge)
		})
		r.Get("/rosters", h.listRosters)
		r.Get("/activities/recent", h.recentActivities)
		r.Get("/activities/statistics", h.activityStatistics)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	return r
}

// Serve runs the handler on addr until ctx is cancelled, then shuts down
// gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger logging.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("dev server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("dev server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
