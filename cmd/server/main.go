package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/linemk/maizy-store/internal/app"
	"github.com/linemk/maizy-store/internal/config"
	"github.com/linemk/maizy-store/internal/lib/logger"
	"github.com/linemk/maizy-store/internal/service"
	"github.com/linemk/maizy-store/internal/storage"
	"github.com/pkg/errors"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// пул соединений и издатель событий живут всё время работы процесса
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Error("failed to close app", slog.Any("error", err))
		}
	}()

	// слои по работе с БД
	cartRepo := storage.NewCartRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	orderItemRepo := storage.NewOrderItemRepository(application.DB)

	checkoutService := service.NewCheckoutService(
		application.Logger,
		application.DB,
		cartRepo,
		productRepo,
		orderRepo,
		orderItemRepo,
		application.Publisher,
		service.WithOrderNumberAttempts(cfg.Checkout.OrderNumberAttempts),
	)
	orderService := service.NewOrderService(application.Logger, orderRepo, orderItemRepo, application.Publisher)

	router := newRouter(application.Logger, cfg.JWT.Secret, checkoutService, orderService, application.DB)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
