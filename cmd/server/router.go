package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/linemk/maizy-store/internal/app/handlers"
	"github.com/linemk/maizy-store/internal/domain/models"
	"github.com/linemk/maizy-store/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/maizy-store/internal/lib/logger/handlers/urllog"
	"github.com/linemk/maizy-store/internal/service"
)

// orderNumberPattern ограничивает параметр форматом номера заказа, поэтому
// /create и /my-orders никогда не считаются номером (GET /create — 405).
const orderNumberPattern = "{orderNumber:ORD-[0-9A-Za-z-]+}"

func newRouter(
	log *slog.Logger,
	jwtSecret string,
	checkoutService service.CheckoutService,
	orderService service.OrderService,
	db handlers.Pinger,
) http.Handler {
	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)
	router.Use(middleware.URLFormat)

	router.Get("/health", handlers.HealthHandler(log, db))

	router.Route("/api/orders", func(r chi.Router) {
		r.Use(jwtmiddleware.NewJWTMiddleware(jwtSecret))

		// оформление заказа из корзины
		r.Post("/create", handlers.CreateOrderHandler(log, checkoutService))
		r.Get("/my-orders", handlers.MyOrdersHandler(log, orderService))

		r.Group(func(r chi.Router) {
			r.Use(jwtmiddleware.RequireRole(models.RoleAdmin))
			r.Get("/admin/all", handlers.AdminListOrdersHandler(log, orderService))
			r.Put("/admin/{id}/status", handlers.UpdateOrderStatusHandler(log, orderService))
		})

		r.Get("/"+orderNumberPattern, handlers.OrderDetailsHandler(log, orderService))
	})

	return router
}
