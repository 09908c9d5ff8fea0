package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-shop-api.git/internal/catalog"
	"github.com/ariefcatur/go-shop-api.git/internal/config"
	kafkax "github.com/ariefcatur/go-shop-api.git/internal/kafka"
	"github.com/ariefcatur/go-shop-api.git/internal/orders"
	"github.com/ariefcatur/go-shop-api.git/internal/redisx"
	"github.com/ariefcatur/go-shop-api.git/internal/worker"
)

func workers() int {
	if v := os.Getenv("CONSUMER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 4
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &worker.Service{
		Redis:       rdb,
		Cache:       &catalog.Cache{Redis: rdb},
		ServiceName: cfg.ServiceName,
	}

	created := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName, orders.TopicOrderCreated, workers())
	cancelled := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ServiceName, orders.TopicOrderCancelled, workers())

	errCh := make(chan error, 2)
	go func() { errCh <- created.Start(ctx, svc.HandleOrderCreated) }()
	go func() { errCh <- cancelled.Start(ctx, svc.HandleOrderCancelled) }()
	log.Printf("worker consuming %s, %s", orders.TopicOrderCreated, orders.TopicOrderCancelled)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("signal %v, shutting down...", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Printf("consumer stopped: %v", err)
		}
		cancel()
	}
	<-errCh
}
