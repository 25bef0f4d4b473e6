// Package app wires configuration, the store backend, services and the
// HTTP stack. Both binaries build on it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/farm-market/internal/config"
	"github.com/iliyamo/farm-market/internal/database"
	"github.com/iliyamo/farm-market/internal/handler"
	"github.com/iliyamo/farm-market/internal/market"
	"github.com/iliyamo/farm-market/internal/middleware"
	"github.com/iliyamo/farm-market/internal/model"
	"github.com/iliyamo/farm-market/internal/queue"
	"github.com/iliyamo/farm-market/internal/repository"
	"github.com/iliyamo/farm-market/internal/router"
	"github.com/iliyamo/farm-market/internal/service"
	"github.com/iliyamo/farm-market/internal/store"
)

// Backend is an opened store plus the connections behind it.
type Backend struct {
	KV    store.KV
	Name  string
	Redis *redis.Client // also used by the rate limiter and cache; may be nil
	DB    *sql.DB
}

// Close releases the connections.
func (b *Backend) Close() error {
	var errs []error
	if b.Redis != nil {
		errs = append(errs, b.Redis.Close())
	}
	if b.DB != nil {
		errs = append(errs, b.DB.Close())
	}
	return errors.Join(errs...)
}

// OpenBackend opens the configured store. Redis is also dialled when the
// rate limiter or cache want it; for those it is optional.
func OpenBackend(ctx context.Context, cfg config.Config) (*Backend, error) {
	b := &Backend{Name: cfg.StoreBackend}

	if cfg.UsesRedis() {
		rdb, err := config.NewRedisClient(cfg.Redis)
		switch {
		case err == nil:
			b.Redis = rdb
		case cfg.StoreBackend == config.BackendRedis:
			return nil, err
		default:
			slog.Warn("redis unavailable, rate limiting and caching disabled", "err", err)
		}
	}

	switch cfg.StoreBackend {
	case config.BackendRedis:
		b.KV = store.NewRedisKV(b.Redis, cfg.StorePrefix)
	case config.BackendMySQL:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		b.DB = db
		mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := database.Migrate(mctx, db); err != nil {
			_ = b.Close()
			return nil, err
		}
		b.KV = store.NewMySQLKV(db, cfg.StorePrefix)
	default:
		b.KV = store.NewMemoryKV()
	}
	return b, nil
}

// Services are the marketplace operations over one store.
type Services struct {
	Identity   *service.IdentityService
	Listings   *service.ListingService
	Orders     *service.OrderService
	Messaging  *service.MessagingService
	Moderation *service.ModerationService
	Dashboards *service.DashboardService
}

// NewServices builds the repositories and services on kv.
func NewServices(kv store.KV, cfg config.Config, events queue.Publisher) Services {
	users := repository.NewUserRepo(kv)
	crops := repository.NewCropRepo(kv)
	orders := repository.NewOrderRepo(kv)
	messages := repository.NewMessageRepo(kv)

	var check service.CredentialCheck = service.StubCredentialCheck{}
	if cfg.VerifyPasswords {
		check = service.BcryptCredentialCheck{}
	}
	session := store.NewDocument[model.User](kv, store.KeyCurrentUser)

	return Services{
		Identity:   service.NewIdentityService(users, session, check, service.AdminCredential{Email: cfg.AdminEmail, Password: cfg.AdminPassword}, cfg.BcryptCost),
		Listings:   service.NewListingService(crops),
		Orders:     service.NewOrderService(orders, crops, events),
		Messaging:  service.NewMessagingService(messages, users),
		Moderation: service.NewModerationService(users, crops, orders),
		Dashboards: service.NewDashboardService(users, crops, orders),
	}
}

// Publisher returns the order event publisher for cfg.
func Publisher(cfg config.Config) queue.Publisher {
	if cfg.AMQPEnabled {
		return queue.NewAMQPPublisher(cfg.RabbitMQURL)
	}
	return queue.NopPublisher{}
}

// NewEcho builds the HTTP API.
func NewEcho(cfg config.Config, b *Backend, svc Services, prices *market.Board, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.RateLimit(cfg.RateLimit, b.Redis, cfg.JWTSecret))

	router.Register(e, router.Handlers{
		Health:  &handler.HealthHandler{KV: b.KV, Backend: b.Name},
		Auth:    &handler.AuthHandler{Identity: svc.Identity, JWTSecret: cfg.JWTSecret, AccessTTLMin: cfg.AccessTTLMin},
		Catalog: &handler.CatalogHandler{Dashboards: svc.Dashboards, Prices: prices},
		Farmer:  &handler.FarmerHandler{Listings: svc.Listings, Orders: svc.Orders, Dashboards: svc.Dashboards},
		Buyer:   &handler.BuyerHandler{Orders: svc.Orders, Dashboards: svc.Dashboards},
		Chat:    &handler.ChatHandler{Messaging: svc.Messaging},
		Admin:   &handler.AdminHandler{Moderation: svc.Moderation},
	}, router.Options{
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.ResponseCache(cfg.Cache, b.Redis),
	})
	return e
}
