package tarobot

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/darinsight/tarobot/internal/http/handlers/payment/callback"
	"github.com/darinsight/tarobot/internal/http/response"
	services "github.com/darinsight/tarobot/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты callback-сервера.
func RegisterRoutes(r chi.Router, logger *slog.Logger, subs *services.SubscriptionService, notifier callback.Notifier) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Post("/callback", callback.New(logger, subs, notifier).ServeHTTP)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, response.OK())
	})
	r.Handle("/metrics", promhttp.Handler())
}
