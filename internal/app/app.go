package app

import (
	"fmt"

	"github.com/ndgm-hq/ndgm-rfid-client/internal/config"
	"github.com/ndgm-hq/ndgm-rfid-client/internal/logger"
	"github.com/ndgm-hq/ndgm-rfid-client/internal/storage"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/api"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/httpclient"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/session"
)

// App wires configuration, the credential store and the API client together.
// It owns the storage backend and must be closed.
type App struct {
	store   storage.Store
	session *session.Session
	client  *api.Client
	log     logger.Logger
}

// New builds the client runtime from config.
func New(cfg *config.Config, log logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.DebugObj("storage initialized", "storage_config", map[string]any{
		"type": cfg.StorageType,
		"path": cfg.BBoltPath,
	})

	sess := session.New(store,
		session.WithDefaultBaseURL(cfg.APIBaseURL),
		session.WithLogger(log),
	)

	httpOpts := httpclient.Options{
		Timeout:   cfg.HTTPTimeout,
		UserAgent: cfg.UserAgent,
	}
	if logger.S != nil {
		httpOpts.Logger = logger.S
	}

	client, err := api.New(sess,
		api.WithHTTPClient(httpclient.NewRestyClient(httpOpts)),
		api.WithLogger(log),
	)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}

	return &App{
		store:   store,
		session: sess,
		client:  client,
		log:     log,
	}, nil
}

// Session returns the credential store backing the client.
func (a *App) Session() *session.Session { return a.session }

// Client returns the API client.
func (a *App) Client() *api.Client { return a.client }

// Close safely closes the storage backend, logging any errors encountered.
func (a *App) Close() error {
	if a == nil || a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.log.ErrorObj("storage close failed", "error", err)
		return err
	}
	return nil
}
