package app

import (
	"context"
	"fmt"
	"net/http"

	"vigat-bahee/internal/auth"
	"vigat-bahee/internal/config"
	"vigat-bahee/internal/db"
	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	userdomain "vigat-bahee/internal/domain/user"
	"vigat-bahee/internal/repository/inmemory"
	mongobahee "vigat-bahee/internal/repository/mongo/bahee"
	mongouser "vigat-bahee/internal/repository/mongo/user"
	pgbahee "vigat-bahee/internal/repository/postgres/bahee"
	pguser "vigat-bahee/internal/repository/postgres/user"
	"vigat-bahee/internal/transport/httpserver"
	"vigat-bahee/internal/transport/httpserver/handler"
	"vigat-bahee/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	closers    []func() error
}

type stores struct {
	bahee  baheedomain.Repository
	users  userdomain.Repository
	closer func() error
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: loading tithi table", "extra_path", cfg.Tithi.TablePath)
	table, err := tithi.LoadTable(cfg.Tithi.TablePath)
	if err != nil {
		return nil, err
	}
	log.Info("app: tithi table ready", "version", table.Version, "days", table.Len())

	log.Info("app: initializing storage", "driver", cfg.DB.Driver)
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	resolver := tithi.NewResolver(table)
	baheeService := baheedomain.NewService(st.bahee, resolver)
	userService := userdomain.NewService(st.users).
		WithCache(inmemory.NewInMemoryUserCache(), cfg.Auth.UserCacheTTL)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL)

	log.Info("app: initializing router")
	handlers := handler.New(baheeService, userService, resolver, issuer, log)
	router := httpserver.NewRouter(cfg, handlers, issuer, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		closers:    []func() error{st.closer},
	}, nil
}

func openStores(ctx context.Context, cfg config.Config, log logger.Logger) (stores, error) {
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		if cfg.DB.AutoMigrate {
			if err := db.MigratePostgres(cfg.DB.GetDSN(), log); err != nil {
				return stores{}, err
			}
		}
		gormDB, err := db.NewPostgres(cfg.DB, log)
		if err != nil {
			return stores{}, err
		}
		return stores{
			bahee:  pgbahee.NewPostgres(gormDB),
			users:  pguser.NewPostgres(gormDB),
			closer: func() error { return db.Close(gormDB) },
		}, nil

	case config.DriverSQLite:
		gormDB, err := db.NewSQLite(cfg.DB, log)
		if err != nil {
			return stores{}, err
		}
		if err := db.AutoMigrate(gormDB); err != nil {
			_ = db.Close(gormDB)
			return stores{}, err
		}
		return stores{
			bahee:  pgbahee.NewPostgres(gormDB),
			users:  pguser.NewPostgres(gormDB),
			closer: func() error { return db.Close(gormDB) },
		}, nil

	case config.DriverMongo:
		client, err := db.NewMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return stores{}, err
		}
		database := client.Database(cfg.Mongo.Database)
		if err := db.EnsureMongoIndexes(ctx, database); err != nil {
			_ = client.Disconnect(context.Background())
			return stores{}, err
		}
		if !cfg.Mongo.UseTransactions {
			log.Warn("db: mongo transactions disabled, multi-document writes are compensated")
		}
		return stores{
			bahee:  mongobahee.NewMongo(client, database, cfg.Mongo.UseTransactions),
			users:  mongouser.NewMongo(database),
			closer: func() error { return client.Disconnect(context.Background()) },
		}, nil

	case config.DriverMemory:
		log.Warn("db: using in-memory storage, data is lost on restart")
		return stores{
			bahee:  inmemory.NewBaheeRepository(inmemory.NewBaheeStore()),
			users:  inmemory.NewUserRepository(),
			closer: func() error { return nil },
		}, nil
	}
	return stores{}, fmt.Errorf("app: unsupported db driver %q", cfg.DB.Driver)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var firstErr error
	for _, closeFn := range a.closers {
		if closeFn == nil {
			continue
		}
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
