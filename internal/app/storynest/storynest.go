// Package storynest собирает приложение: хранилище, кэш, платёжный шлюз,
// сервисы и HTTP-сервер с маршрутами.
package storynest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/cache"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/config"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/lib/jwt"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/migrations"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/paymentprovider"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/rabbitmq"
	adminservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/admin"
	authservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/auth"
	catalogservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/catalog"
	coinsservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/coins"
	paymentservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/payment"
	storyservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/story"
	subservice "github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/services/subscription"
	"github.com/mhdrasalamminikkad-max/story-nest-sub000/internal/storage/repository"
)

// App держит HTTP-сервер и ресурсы, закрываемые при остановке.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// Services — собранные сервисы приложения, передаваемые в маршруты.
type Services struct {
	Auth         *authservice.Service
	Subscription *subservice.Service
	Coins        *coinsservice.Service
	Payment      *paymentservice.Service
	Story        *storyservice.Service
	Catalog      *catalogservice.Service
	Admin        *adminservice.Service
	JWTMaker     jwt.Maker
	Storage      *repository.Storage
}

// New инициализирует приложение: подключает базу, прогоняет миграции,
// поднимает кэш и шину событий, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var events coinsservice.Publisher = rabbitmq.NewNopPublisher(logger)
	if cfg.RabbitConnection.Enabled {
		conn, err := rabbitmq.Connect(cfg.RabbitConnection.URL, cfg.RabbitConnection.Retries, cfg.RabbitConnection.RetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn)
		if err != nil {
			return nil, err
		}
		events = rabbitmq.NewPublisher(ch, logger)
	}

	// Без ключей шлюза операции покупки отвечают 503, остальное работает.
	var gateway paymentservice.Gateway
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" {
		gateway = paymentprovider.NewClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.RequestTimeout)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	coinsService := coinsservice.New(db, events, logger, cfg.Billing.DefaultCoinsPerStory)
	services := &Services{
		Auth:         authservice.New(db, jwtMaker, logger, cfg.Billing.TrialDays),
		Subscription: subservice.New(db, logger, cfg.Billing.TrialDays),
		Coins:        coinsService,
		Payment:      paymentservice.New(gateway, db, coinsService, cfg.Razorpay.KeySecret, logger),
		Story:        storyservice.New(db, coinsService, logger),
		Catalog:      catalogservice.New(db, cacheRedis, logger),
		Admin:        adminservice.New(db, logger, cfg.Billing.DefaultCoinsPerStory),
		JWTMaker:     jwtMaker,
		Storage:      db,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
