package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/year-3-projects-cti/baskIT/configs"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/queue"
	"github.com/year-3-projects-cti/baskIT/internal/adapter/repo"
	"github.com/year-3-projects-cti/baskIT/internal/domain"
	"github.com/year-3-projects-cti/baskIT/internal/inventory"
	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

// The inventory worker drains the order-paid queue and adjusts stock.
// It runs separately from the storefront API so a backlog of events
// never slows checkout traffic.
func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	logging.Init("inventory-worker", cfg.App.LogFile)
	l := logging.New("worker")

	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		log.Fatal(err)
	}
	cancel()

	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()
	ch, err := conn.Channel()
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	// the declare is idempotent; whoever starts first creates the queue
	if _, err := ch.QueueDeclare(cfg.Rabbit.OrderPaidQueue, true, false, false, false, nil); err != nil {
		log.Fatal(err)
	}

	svc := inventory.NewService(repo.NewMySQLInventoryRepo(db))

	router := queue.NewRouter(ch, queue.WithPrefetch(50))
	router.Register(cfg.Rabbit.OrderPaidQueue, queue.JSONHandler[domain.OrderPaid]{
		HandleFunc: svc.HandleOrderPaid,
	})
	if err := router.Start(); err != nil {
		log.Fatal(err)
	}
	l.Info("consuming order paid events", "queue", cfg.Rabbit.OrderPaidQueue)

	// small HTTP surface: health, metrics, ledger debug view
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/inventory/processed", func(c *gin.Context) {
		processed, err := svc.ListProcessed(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"processed": processed})
	})

	addr := os.Getenv("WORKER_HTTP_ADDR")
	if addr == "" {
		addr = ":8081"
	}
	log.Printf("inventory-worker (%s) listening on %s", env, addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
