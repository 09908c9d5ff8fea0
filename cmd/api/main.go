package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-shop-api.git/internal/auth"
	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	"github.com/ariefcatur/go-shop-api.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/postgres"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per lifecycle topic
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	cancelledProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCancelled, 1024)
	cancelledProd.Start(ctx)

	// Services
	authSvc := &auth.Service{
		Users:      &auth.Repo{DB: db},
		Tokens:     &auth.RedisTokens{Redis: rdb, TTL: cfg.TokenTTL},
		BcryptCost: cfg.BcryptCost,
	}
	catalogSvc := &catalog.Service{
		Store: &catalog.Repo{DB: db},
		Cache: &catalog.Cache{Redis: rdb},
	}
	orderSvc := &orders.Service{
		Store: &orders.Repo{DB: db},
		Events: &orders.Publisher{
			Created:   createdProd,
			Cancelled: cancelledProd,
			Service:   cfg.ServiceName,
		},
	}

	// Router & handlers
	router := httpx.NewRouter()
	httpx.Mount(router, authSvc,
		&httpx.AuthHandler{Svc: authSvc},
		&httpx.ProductsHandler{Svc: catalogSvc},
		&httpx.OrdersHandler{Svc: orderSvc},
	)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	createdProd.Close() // close inboxes -> flush & close writers
	cancelledProd.Close()
	cancel() // stop producer loops
	createdProd.WaitClosed()
	cancelledProd.WaitClosed()
}
