// Package bot реализует телеграм-бота: длинный опрос getUpdates,
// распознавание кнопок меню, проверку подписки на каналы и выдачу
// контента с учётом статуса подписки пользователя.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/content"
	"github.com/darinsight/tarobot/internal/lib/retry"
	"github.com/darinsight/tarobot/internal/lib/sl"
	"github.com/darinsight/tarobot/internal/payment"
	services "github.com/darinsight/tarobot/internal/services/subscription"
)

// pollTimeout таймаут длинного опроса getUpdates в секундах.
const pollTimeout = 30

// API минимальный срез Telegram Bot API, который использует бот.
// Ему удовлетворяет *tgbotapi.BotAPI; в тестах подставляется мок.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdates(config tgbotapi.UpdateConfig) ([]tgbotapi.Update, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
}

// ContentProvider отдаёт гороскопы и карту дня. Методы не возвращают
// ошибок: при сбоях источника отдаётся текст-заглушка.
type ContentProvider interface {
	FetchHoroscope(ctx context.Context, signKey string) string
	FetchTarotCard(ctx context.Context) content.Card
}

// PaymentCreator регистрирует платёж в кассе и возвращает ссылку на оплату.
type PaymentCreator interface {
	CreatePayment(ctx context.Context, plan config.Plan, userID int64) (*payment.CreatePaymentResponse, error)
}

// Templates хранилище редактируемых текстов бота.
type Templates interface {
	Get(k, def string) string
	Set(k, v string) error
}

// Bot связывает Telegram API с подписками, контентом и платежами.
type Bot struct {
	api      API
	cfg      config.Bot
	subs     *services.SubscriptionService
	tmpl     Templates
	content  ContentProvider
	payments PaymentCreator
	log      *slog.Logger
	states   *stateStore
}

// New создаёт бота поверх готовых сервисов.
func New(
	api API,
	cfg config.Bot,
	subs *services.SubscriptionService,
	tmpl Templates,
	provider ContentProvider,
	payments PaymentCreator,
	log *slog.Logger,
) *Bot {
	return &Bot{
		api:      api,
		cfg:      cfg,
		subs:     subs,
		tmpl:     tmpl,
		content:  provider,
		payments: payments,
		log:      log,
		states:   newStateStore(),
	}
}

// Run запускает цикл длинного опроса и блокируется до отмены контекста.
// Каждое обновление обрабатывается в своей горутине, паника в обработчике
// не роняет цикл. Сбои getUpdates повторяются с экспоненциальной паузой;
// если повторы исчерпаны, Run возвращает ошибку.
func (b *Bot) Run(ctx context.Context) error {
	const op = "bot.Run"

	// снимаем вебхук, иначе getUpdates вернёт 409
	if _, err := b.api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	b.log.Info("bot polling started")

	offset := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var updates []tgbotapi.Update
		err := retry.Do(ctx, retry.Exponential(3, time.Second), func() error {
			var err error
			updates, err = b.api.GetUpdates(tgbotapi.UpdateConfig{
				Offset:  offset,
				Timeout: pollTimeout,
			})
			return err
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			go b.safeHandle(ctx, upd)
		}
	}
}

// safeHandle обрабатывает обновление с защитой от паники: пользователь
// получает извинение, бот продолжает работать.
func (b *Bot) safeHandle(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.log.Error("panic in update handler", slog.Any("panic", r))
		if from := upd.SentFrom(); from != nil {
			b.sendText(from.ID, "Что-то пошло не так, попробуйте ещё раз чуть позже 🙏")
		}
	}()

	b.HandleUpdate(ctx, upd)
}

// sendText отправляет простое текстовое сообщение, ошибку только логирует.
func (b *Bot) sendText(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	b.send(msg)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.log.Error("failed to send message", sl.Err(err))
	}
}
