// sharedbucketd serves the Customers and CustomerGroups services over the
// wire protocol, backed by Redis, with optional etcd registration for
// discovery.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"sharedbucket/bucket"
	"sharedbucket/customers"
	"sharedbucket/internal/config"
	"sharedbucket/keyvalue"
	"sharedbucket/middleware"
	"sharedbucket/pkg/logger"
	"sharedbucket/registry"
	"sharedbucket/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	defer zapLogger.Sync()

	kv, err := keyvalue.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	defer kv.Close()

	svc := customers.New(kv, zapLogger)

	svr := server.New(zapLogger)
	if err := svr.Register(bucket.NewCustomersReceiver(svc)); err != nil {
		zapLogger.Fatal("registering customers handler", zap.Error(err))
	}
	if err := svr.Register(bucket.NewCustomerGroupsReceiver(svc)); err != nil {
		zapLogger.Fatal("registering customer groups handler", zap.Error(err))
	}

	svr.Use(middleware.LoggingMiddleware(zapLogger))
	if cfg.Limits.RatePerSecond > 0 {
		svr.Use(middleware.RateLimitMiddleware(cfg.Limits.RatePerSecond, cfg.Limits.RateBurst))
	}
	if cfg.Limits.RequestTimeout > 0 {
		svr.Use(middleware.TimeoutMiddleware(cfg.Limits.RequestTimeout))
	}

	var reg registry.Registry
	if cfg.Etcd.Enabled {
		etcdReg, err := registry.NewEtcdRegistry(cfg.Etcd.Endpoints)
		if err != nil {
			zapLogger.Fatal("etcd connection failed", zap.Error(err))
		}
		reg = etcdReg
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- svr.Serve("tcp", cfg.Address(), cfg.Server.AdvertiseAddr, reg)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		zapLogger.Info("shutting down", zap.String("signal", sig.String()))
		if err := svr.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
			zapLogger.Error("shutdown incomplete", zap.Error(err))
		}
	case err := <-serveErr:
		if err != nil {
			zapLogger.Fatal("serve failed", zap.Error(err))
		}
	}
}
