// Package app wires configuration, storage and the domain services into a
// running application.
package app

import (
	"context"
	"fmt"

	"github.com/xelth-com/zapstock/internal/ai"
	"github.com/xelth-com/zapstock/internal/blobstore"
	"github.com/xelth-com/zapstock/internal/config"
	"github.com/xelth-com/zapstock/internal/customers"
	"github.com/xelth-com/zapstock/internal/database"
	"github.com/xelth-com/zapstock/internal/events"
	"github.com/xelth-com/zapstock/internal/handlers"
	"github.com/xelth-com/zapstock/internal/inventory"
	"github.com/xelth-com/zapstock/internal/logger"
	"github.com/xelth-com/zapstock/internal/metrics"
	"github.com/xelth-com/zapstock/internal/orders"
	"github.com/xelth-com/zapstock/internal/smartfill"
	"github.com/xelth-com/zapstock/internal/store"
	"github.com/xelth-com/zapstock/internal/websocket"
)

type oracle interface {
	smartfill.Oracle
	Close() error
}

// App holds every long-lived component
type App struct {
	Config *config.Config
	Store  *store.Store
	Hub    *websocket.Hub
	Router *handlers.Router

	blobs   blobstore.Store
	closeDB func() error
	events  events.Publisher
	oracle  oracle
}

// OpenBlobs connects the snapshot backend selected by cfg. The returned
// func releases what the store itself does not own, such as the
// database handle and embedded PostgreSQL.
func OpenBlobs(cfg *config.Config) (blobstore.Store, func() error, error) {
	switch cfg.Store.Backend {
	case "memory":
		logger.Logger.Warn().Msg("Memory store: records are lost on restart")
		return blobstore.NewMemory(), func() error { return nil }, nil
	case "redis":
		r, err := blobstore.NewRedis(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return r, func() error { return nil }, nil
	default:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		pg, err := blobstore.NewPostgres(db.DB)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return pg, db.Close, nil
	}
}

// New loads the store and builds the services and the router
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	blobs, closeDB, err := OpenBlobs(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store.Backend, err)
	}
	a := &App{Config: cfg, blobs: blobs, closeDB: closeDB, Hub: websocket.NewHub(cfg.CORS.AllowedOrigins...)}

	a.Store = store.New(blobs)
	if err := a.Store.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	pubs := events.Multi{a.Hub}
	if len(cfg.Kafka.Brokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			// Events are advisory; the shop keeps running without Kafka.
			logger.Logger.Error().Err(err).Strs("brokers", cfg.Kafka.Brokers).Msg("Kafka unavailable, events go to browsers only")
		} else {
			pubs = append(pubs, kp)
			logger.Logger.Info().Str("topic", cfg.Kafka.Topic).Msg("Publishing domain events to Kafka")
		}
	}
	a.events = pubs

	a.oracle = ai.Disabled{}
	if cfg.Gemini.APIKey != "" {
		gc, err := ai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			logger.Logger.Error().Err(err).Msg("Gemini unavailable, smart-fill disabled")
		} else {
			a.oracle = gc
		}
	} else {
		logger.Logger.Warn().Msg("GEMINI_API_KEY not set, smart-fill disabled")
	}

	a.Store.OnChange(a.Hub.NotifyStoreChange)
	a.Store.OnChange(func(store.Change) { metrics.UpdateStock(a.Store.Products()) })
	metrics.UpdateStock(a.Store.Products())

	directory := customers.NewDirectory(a.Store, a.events)
	workflow := orders.NewWorkflow(a.Store, a.events)
	adapter := smartfill.NewAdapter(a.oracle, a.Store, directory, cfg.Gemini.Timeout)

	a.Router = handlers.NewRouter(cfg, handlers.Services{
		Ledger:    inventory.NewLedger(a.Store, a.events),
		Directory: directory,
		Workflow:  workflow,
		Board:     smartfill.NewBoard(adapter, workflow),
		Hub:       a.Hub,
	})
	return a, nil
}

// Close releases the oracle, the event publisher and the blob store
func (a *App) Close() error {
	if a.oracle != nil {
		a.oracle.Close()
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Event publisher close error")
		}
	}
	if err := a.blobs.Close(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Blob store close error")
	}
	return a.closeDB()
}
