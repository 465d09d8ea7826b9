package bot

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/darinsight/tarobot/internal/lib/sl"
	"github.com/darinsight/tarobot/internal/metrics"
)

const (
	// broadcastRate темп рассылки с запасом до лимита Telegram (30 msg/s).
	broadcastRate = rate.Limit(20)
	// broadcastProgressEvery период обновления сообщения с прогрессом.
	broadcastProgressEvery = 10
	// broadcastMaxLen лимит длины текста одного сообщения Telegram.
	broadcastMaxLen = 4000
)

// handleBroadcastInput принимает текст рассылки в модальном режиме и
// запускает саму рассылку в фоне, не блокируя цикл обновлений.
func (b *Bot) handleBroadcastInput(ctx context.Context, chatID, userID int64, text string) {
	if text == btnCancel || b.Parse(text).Cmd == CmdCancel {
		b.states.reset(chatID)
		b.sendWithKeyboard(chatID, "Рассылка отменена.", b.mainKeyboard(userID))
		return
	}

	b.states.reset(chatID)
	go b.broadcast(ctx, chatID, userID, text)
}

// broadcast отправляет текст всем пользователям с ограничением темпа.
// Администратор видит прогресс в редактируемом сообщении. Остановка
// сервиса прерывает рассылку, итог по отправленному всё равно приходит.
func (b *Bot) broadcast(ctx context.Context, adminChatID, adminID int64, text string) {
	const op = "bot.broadcast"

	runID := uuid.NewString()
	text = truncateRunes(text, broadcastMaxLen)
	users := b.subs.Users()

	log := b.log.With(sl.Op(op),
		slog.String("run_id", runID),
		slog.Int("total", len(users)))
	log.Info("broadcast started")

	progress, err := b.api.Send(tgbotapi.NewMessage(adminChatID,
		fmt.Sprintf("📢 Рассылка запущена: 0/%d", len(users))))
	if err != nil {
		log.Error("failed to send broadcast progress message", sl.Err(err))
	}

	limiter := rate.NewLimiter(broadcastRate, 1)
	sent, failed := 0, 0
	for i, u := range users {
		if err := limiter.Wait(ctx); err != nil {
			log.Warn("broadcast interrupted", sl.Err(err))
			break
		}

		if _, err := b.api.Send(tgbotapi.NewMessage(u.UserID, text)); err != nil {
			failed++
			metrics.BroadcastMessages.WithLabelValues("failed").Inc()
			log.Warn("broadcast message failed", sl.Err(err), sl.UserID(u.UserID))
		} else {
			sent++
			metrics.BroadcastMessages.WithLabelValues("ok").Inc()
		}

		if progress.MessageID != 0 && (i+1)%broadcastProgressEvery == 0 {
			edit := tgbotapi.NewEditMessageText(adminChatID, progress.MessageID,
				fmt.Sprintf("📢 Рассылка: %d/%d", i+1, len(users)))
			if _, err := b.api.Send(edit); err != nil {
				log.Warn("failed to update broadcast progress", sl.Err(err))
			}
		}
	}

	final := fmt.Sprintf("📢 Рассылка завершена\nОтправлено: %d\nОшибок: %d", sent, failed)
	if progress.MessageID != 0 {
		edit := tgbotapi.NewEditMessageText(adminChatID, progress.MessageID, final)
		if _, err := b.api.Send(edit); err != nil {
			b.sendText(adminChatID, final)
		}
	} else {
		b.sendText(adminChatID, final)
	}
	b.sendWithKeyboard(adminChatID, "Главное меню 👇", b.mainKeyboard(adminID))

	log.Info("broadcast finished", slog.Int("sent", sent), slog.Int("failed", failed))
}

// truncateRunes обрезает строку до limit рун, не разрывая символы.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
