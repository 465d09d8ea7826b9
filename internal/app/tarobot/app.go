// Package tarobot собирает приложение: хранилища, сервисы, телеграм-бота
// и HTTP-сервер платёжных callback-ов.
package tarobot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/bot"
	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/content"
	"github.com/darinsight/tarobot/internal/payment"
	services "github.com/darinsight/tarobot/internal/services/subscription"
	"github.com/darinsight/tarobot/internal/storage"
)

// App объединяет долгоживущие компоненты приложения.
type App struct {
	server  *http.Server
	bot     *bot.Bot
	fetcher *content.Fetcher
	logger  *slog.Logger
}

// New собирает приложение из конфигурации.
func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	users, err := storage.NewUserStore(cfg.Storage.UsersFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	messages, err := storage.NewMessageStore(cfg.Storage.MessagesFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	paymentLog, err := storage.NewPaymentLog(cfg.Storage.PaymentsFile)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subs := services.New(users, paymentLog, cfg.Plans, cfg.TrialDays, logger)
	fetcher := content.New(cfg.Content, logger)
	ckassa := payment.NewClient(cfg.Payment)

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("telegram bot authorized", slog.String("username", api.Self.UserName))

	tgBot := bot.New(api, cfg.Bot, subs, messages, fetcher, ckassa, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, subs, tgBot)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	return &App{
		server:  srv,
		bot:     tgBot,
		fetcher: fetcher,
		logger:  logger,
	}, nil
}

// Run запускает бота и HTTP-сервер, блокируется до отмены контекста либо
// фатальной ошибки одного из компонентов.
func (a *App) Run(ctx context.Context) error {
	go a.fetcher.Selfcheck(ctx)

	errCh := make(chan error, 2)

	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	go func() {
		err := a.bot.Run(ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		return a.server.Shutdown(timeoutCtx)
	}
}
