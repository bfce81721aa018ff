package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cristianoliveira/rosterdesk/internal/config"
	"github.com/cristianoliveira/rosterdesk/internal/logging"
	"github.com/cristianoliveira/rosterdesk/internal/repository"
	"github.com/cristianoliveira/rosterdesk/internal/repository/httpapi"
	"github.com/cristianoliveira/rosterdesk/internal/repository/sqlite"
	"github.com/cristianoliveira/rosterdesk/internal/session"
)

// connector hands commands a logged-in, loaded session.
type connector interface {
	Connect(ctx context.Context) (*session.Session, error)
	Close() error
}

// configConnector builds the session from the global configuration on first
// use and reuses it afterwards.
type configConnector struct {
	mu     sync.Mutex
	sess   *session.Session
	closer func() error
}

func newConfigConnector() *configConnector {
	return &configConnector{}
}

func (c *configConnector) Connect(ctx context.Context) (*session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		return c.sess, nil
	}

	logger := logging.GetGlobal()
	backend, closer, err := openBackend(logger)
	if err != nil {
		return nil, err
	}
	s, err := login(ctx, backend, logger)
	if err != nil {
		if closer != nil {
			_ = closer()
		}
		return nil, err
	}
	c.sess, c.closer = s, closer
	return s, nil
}

func (c *configConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess != nil {
		c.sess.Logout()
		c.sess = nil
	}
	if c.closer == nil {
		return nil
	}
	err := c.closer()
	c.closer = nil
	return err
}

// login starts a session over backend and waits until every domain has
// loaded.
func login(ctx context.Context, backend repository.Backend, logger logging.Logger) (*session.Session, error) {
	s := session.New(session.FromBackend(backend),
		session.WithLogger(logger),
		session.WithRecentActivityLimit(config.GetInt("recent_activity_limit", session.DefaultRecentActivityLimit)),
	)
	s.Login(ctx)
	if err := s.WaitReady(ctx); err != nil {
		s.Logout()
		return nil, fmt.Errorf("load session: %w", err)
	}
	return s, nil
}

func openBackend(logger logging.Logger) (repository.Backend, func() error, error) {
	switch kind := config.Get("backend", "sqlite"); kind {
	case "http":
		timeout := config.GetDuration("request_timeout", 10*time.Second)
		client := httpapi.New(config.Get("api_url", ""), config.Get("api_token", ""),
			httpapi.WithHTTPClient(&http.Client{Timeout: timeout}),
			httpapi.WithRetries(config.GetInt("http_retries", 3)),
			httpapi.WithLogger(logger),
		)
		return client, nil, nil
	case "sqlite", "":
		b, err := sqliteOpener{}.Open()
		if err != nil {
			return nil, nil, err
		}
		return b, b.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", kind)
	}
}

// backendOpener opens the local database for serve and seed.
type backendOpener interface {
	Open() (*sqlite.Backend, error)
}

type sqliteOpener struct{}

func (sqliteOpener) Open() (*sqlite.Backend, error) {
	path := config.Get("db_path", "")
	if path == "" {
		return nil, errors.New("db_path is not configured")
	}
	return sqlite.Open(path, int64(config.GetInt("viewer_id", 1)), sqlite.WithLogger(logging.GetGlobal()))
}
