package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"

	"github.com/davseby/adgateway/internal/ad"
	"github.com/davseby/adgateway/internal/broadcast"
	"github.com/davseby/adgateway/internal/broker"
	"github.com/davseby/adgateway/internal/config"
	"github.com/davseby/adgateway/internal/metrics"
	"github.com/davseby/adgateway/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slog"
)

func main() {
	var level slog.LevelVar

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: &level,
	}))
	defer logger.Info("application shutdown")

	cfg, err := config.LoadAdvertising()
	if err != nil {
		logger.Error("loading configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	lvl, _ := config.ParseLevel(cfg.LogLevel)
	level.Set(lvl)

	stop, err := startServices(logger, cfg)
	if err != nil {
		logger.Error("starting services", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer stop()

	trapInstance(logger)
}

// startServices connects to the broker, starts answering ad requests and
// starts serving the status endpoints.
func startServices(logger *slog.Logger, cfg config.Advertising) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())

	collector := metrics.NewCollector(prometheus.NewRegistry())

	b := broker.New(logger, cfg.Rabbit, cfg.Broker, broker.DialAMQP)
	b.OnStateChange(collector.SetBrokerState)

	pub := broadcast.NewPublisher(logger, b, collector)
	sub := broadcast.NewSubscriber(logger, ad.NewResponder(logger, pub, cfg.AdMessage), collector, cfg.Broadcast)

	b.OnSetup(func(ctx context.Context, ch broker.Channel) error {
		return sub.Setup(ctx, ch)
	})

	if err := b.Connect(ctx); err != nil {
		cancel()
		return nil, err
	}

	handler := collector.Instrument("status", server.NewStatusHandler(logger, b, collector.Handler()))

	srv := server.NewServer(logger, ":"+strconv.Itoa(cfg.Port), handler, collector)
	if err := srv.Listen(); err != nil {
		cancel()
		closeBroker(logger, b)

		return nil, err
	}

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		srv.ListenAndServe(ctx)
	}()

	return func() {
		cancel()
		wg.Wait()

		closeBroker(logger, b)
		sub.Wait()
	}, nil
}

// closeBroker closes the broker connection.
func closeBroker(logger *slog.Logger, b *broker.Broker) {
	if err := b.Close(); err != nil {
		logger.Error("closing broker", slog.String("error", err.Error()))
	}
}

// trapInstance blocks until a termination signal is received.
func trapInstance(logger *slog.Logger) {
	terminationCh := make(chan os.Signal, 1)

	signal.Notify(terminationCh, syscall.SIGINT, syscall.SIGTERM)

	<-terminationCh

	logger.Info("initiating shutdown")
}
