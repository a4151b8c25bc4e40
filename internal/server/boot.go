package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/controllers"
	appgraphql "github.com/shashiranjanraj/catalog/app/graphql"
	"github.com/shashiranjanraj/catalog/app/listeners"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/app"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/router"
	"github.com/shashiranjanraj/catalog/pkg/ws"
)

const logCollection = "logs"

// Options tune Boot.
type Options struct {
	// Migrate runs pending migrations before the gorm store is used.
	Migrate bool
	// LogOutput receives the console log. Defaults to os.Stdout.
	LogOutput io.Writer
}

// Catalog is the wired application: store, service, events and feed.
type Catalog struct {
	DB      *gorm.DB // nil for the memory store
	Store   repositories.ProductStore
	Service *services.ProductService
	Events  *event.Dispatcher
	Hub     *ws.Hub

	closers []func() error
}

// Boot loads config and wires every component the configuration selects.
// The caller must Close the returned Catalog.
func Boot(ctx context.Context, opts Options) (*Catalog, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	c := &Catalog{}
	c.setupLogger(opts.LogOutput)

	store, err := c.openStore(ctx, opts.Migrate)
	if err != nil {
		c.Close()
		return nil, err
	}
	store, err = c.wrapCache(ctx, store)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	c.Events = event.New()
	c.Hub = ws.NewHub(middleware.OriginAllowed(config.CORSOrigins()))
	listeners.Register(c.Events, c.Hub)
	c.Service = services.NewProductService(store, c.Events)

	logger.Info("catalog booted",
		"env", config.AppEnv(),
		"store", config.ProductStore(),
		"cache", config.CacheDriver(),
	)
	return c, nil
}

func (c *Catalog) setupLogger(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	uri := config.LogMongoURI()
	if uri == "" {
		logger.Setup(config.AppEnv(), w)
		return
	}

	h, err := logger.NewMongoHandler(uri, config.LogMongoDB(), logCollection, slog.LevelInfo)
	if err != nil {
		logger.Setup(config.AppEnv(), w)
		logger.Warn("mongo log sink disabled", "error", err)
		return
	}
	logger.Setup(config.AppEnv(), w, h)
	c.closers = append(c.closers, h.Close)
}

func (c *Catalog) openStore(ctx context.Context, migrate bool) (repositories.ProductStore, error) {
	if config.ProductStore() == "memory" {
		store := repositories.NewMemoryProductStore()
		if config.SeedDemoData() {
			if err := seeders.RunAll(ctx, store); err != nil {
				return nil, fmt.Errorf("seed memory store: %w", err)
			}
		}
		return store, nil
	}

	db, err := database.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return nil, err
	}
	c.DB = db
	c.closers = append(c.closers, func() error { return database.Close(db) })

	if migrate {
		if err := migration.New(db, io.Discard).Run(); err != nil && !errors.Is(err, migration.ErrNoMigrations) {
			return nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return repositories.NewGormProductStore(db), nil
}

func (c *Catalog) wrapCache(ctx context.Context, store repositories.ProductStore) (repositories.ProductStore, error) {
	switch config.CacheDriver() {
	case "memory":
		return repositories.NewCachedProductStore(store, cache.NewMemoryStore(), config.CacheTTL()), nil
	case "redis":
		rs, err := cache.Connect(ctx, config.RedisAddr(), config.RedisPassword())
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, rs.Close)
		return repositories.NewCachedProductStore(store, rs, config.CacheTTL()), nil
	default:
		return store, nil
	}
}

// Routes mounts the catalog on r.
func (c *Catalog) Routes(r *router.Router) {
	api := routes.API{
		Products: controllers.NewProductController(c.Service, config.MaxBodyBytes()),
		Health:   controllers.NewHealthController(c.Service),
		Feed:     c.Hub,
		Timeout:  config.RequestTimeout(),
	}
	if schema, err := appgraphql.NewSchema(c.Service); err != nil {
		logger.Error("graphql schema disabled", "error", err)
	} else {
		api.GraphQL = graphql.Handler(schema)
	}
	routes.Register(r, api)
}

// Application is the HTTP application with the configured middleware.
func (c *Catalog) Application() *app.Application {
	return app.New(app.Options{
		CORSOrigins: config.CORSOrigins(),
		RateLimit:   config.RateLimitPerMinute(),
		RateWindow:  time.Minute,
	}).Routes(c.Routes)
}

// Close releases everything Boot opened, newest first.
func (c *Catalog) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
