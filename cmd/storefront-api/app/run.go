package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/year-3-projects-cti/baskIT/configs"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/cache"
	apphttp "github.com/year-3-projects-cti/baskIT/internal/adapter/http"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/http/middleware"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/kafka"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/payment"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/queue"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/repo"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
	"github.com/year-3-projects-cti/baskIT/internal/pricing"
	"github.com/year-3-projects-cti/baskIT/internal/recommend"
	"github.com/year-3-projects-cti/baskIT/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logging.Init("storefront-api", cfg.App.LogFile)
	log := logging.New("app")

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("mysql ping: %w", err)
	}

	log.Info("storefront-api starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	// init rabbitmq publisher
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	publisher, err := queue.NewRabbitPublisher(ch, cfg.Rabbit.OrderPaidQueue)
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq publisher: %w", err)
	}

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	catalogRepo := repo.NewMySQLCatalogRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	payments := payment.NewFakeGateway()

	vatRate, err := cfg.VATRate()
	if err != nil {
		return nil, nil, err
	}
	engine := pricing.NewEngine(catalogRepo, vatRate)

	checkoutUC := usecase.NewCheckout(engine, orderRepo, payments, idem, cfg.Pricing.Currency, cfg.Payment.Timeout)
	ordersUC := usecase.NewOrders(orderRepo, publisher)

	// carrier tracking feed (optional in local runs)
	if len(cfg.Kafka.Brokers) > 0 {
		if err := startTrackingListener(cfg, ordersUC); err != nil {
			return nil, nil, err
		}
	}

	chain := recommend.NewChain(
		recommend.Curated{Cat: catalogRepo},
		recommend.Seasonal{Cat: catalogRepo},
		recommend.Newest{Cat: catalogRepo},
	)

	// handlers + router + middleware
	checkoutHandler := apphttp.NewCheckoutHandler(checkoutUC)
	orderHandler := apphttp.NewOrderHandler(ordersUC)
	webhookHandler := apphttp.NewWebhookHandler(payments, ordersUC)
	recommendHandler := apphttp.NewRecommendHandler(chain)
	tokenHandler := apphttp.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)

	router := apphttp.NewRouter(checkoutHandler, orderHandler, webhookHandler, recommendHandler, tokenHandler, authz)

	cleanup := func() {
		_ = ch.Close()
		_ = conn.Close()
		_ = rdb.Close()
		_ = db.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func startTrackingListener(cfg configs.Config, orders *usecase.Orders) error {
	grp, err := kafka.NewGroup(cfg.Kafka.Brokers, cfg.Kafka.GroupID)
	if err != nil {
		return fmt.Errorf("kafka group: %w", err)
	}

	h := kafka.NewTrackingHandler(orders)
	consumer := kafka.NewConsumer(grp, []string{cfg.Kafka.TrackingTopic}, h.Handle)

	go func() {
		if err := consumer.Start(context.Background()); err != nil {
			logging.New("app").Error("tracking consumer stopped", "error", err)
		}
	}()
	return nil
}
