package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/lib/retry"
	"github.com/darinsight/tarobot/internal/lib/sl"
)

// adminPageSize количество пользователей в одном сообщении списка.
const adminPageSize = 15

// handleAdminPanel открывает меню администратора по команде /admin.
// Обычный пользователь получает короткий отказ без подробностей.
func (b *Bot) handleAdminPanel(chatID, userID int64) {
	if !b.cfg.IsAdmin(userID) {
		b.sendText(chatID, "Команда недоступна.")
		return
	}
	b.sendWithKeyboard(chatID, "⚙️ Панель администратора 👇", adminKeyboard())
}

func (b *Bot) handleAdminCommand(chatID int64, parsed ParsedCommand) {
	switch parsed.Cmd {
	case CmdAdminUsers:
		b.handleAdminUsers(chatID)
	case CmdAdminStats:
		b.handleAdminStats(chatID)
	case CmdAdminBroadcast:
		b.states.set(chatID, chatSession{state: stateAwaitingBroadcast})
		b.sendWithKeyboard(chatID,
			"Отправь текст рассылки. Он уйдёт всем пользователям бота.",
			cancelKeyboard())
	case CmdAdminMessages:
		b.sendWithKeyboard(chatID, "Какое сообщение отредактировать?", editMessagesKeyboard())
	case CmdEditTarget:
		b.states.set(chatID, chatSession{state: stateAwaitingEditValue, editKey: parsed.Payload})
		cur := b.tmpl.Get(parsed.Payload, defaultText(parsed.Payload))
		b.sendWithKeyboard(chatID,
			"Текущий текст:\n\n"+cur+"\n\nОтправь новый текст или нажми «"+btnCancel+"»",
			cancelKeyboard())
	}
}

// handleAdminUsers показывает платных подписчиков постранично,
// чтобы не упереться в лимит длины сообщения Telegram.
func (b *Bot) handleAdminUsers(chatID int64) {
	paying := b.subs.PayingUsers()
	if len(paying) == 0 {
		b.sendText(chatID, "Платных подписчиков пока нет.")
		return
	}

	for page := 0; page < len(paying); page += adminPageSize {
		end := page + adminPageSize
		if end > len(paying) {
			end = len(paying)
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("💎 Платные подписчики (%d–%d из %d):\n\n", page+1, end, len(paying)))
		for i, u := range paying[page:end] {
			name := u.Account.Username
			if name == "" {
				name = "—"
			}
			sb.WriteString(fmt.Sprintf("%d. @%s (id %d)\n   с %s до %s\n",
				page+i+1, name, u.Account.UserID,
				u.Start.Format("02.01.2006"), u.Expires.Format("02.01.2006")))
		}
		page := truncateRunes(sb.String(), broadcastMaxLen)
		// длинный список уходит несколькими сообщениями, временный
		// сбой Telegram не должен дырявить его посередине
		err := retry.Do(context.Background(), retry.Constant(3, time.Second), func() error {
			_, err := b.api.Send(tgbotapi.NewMessage(chatID, page))
			return err
		})
		if err != nil {
			b.log.Error("failed to send paying users page", sl.Err(err))
		}
	}
}

func (b *Bot) handleAdminStats(chatID int64) {
	st := b.subs.Stats()
	b.sendText(chatID, fmt.Sprintf("📊 Статистика\n\n👥 Всего пользователей: %d\n🟢 Активны сегодня: %d",
		st.TotalUsers, st.ActiveToday))
}

// handleEditInput принимает новый текст шаблона в модальном режиме.
func (b *Bot) handleEditInput(chatID, userID int64, key, text string) {
	if text == btnCancel || b.Parse(text).Cmd == CmdCancel {
		b.states.reset(chatID)
		b.sendWithKeyboard(chatID, "Действие отменено.", b.mainKeyboard(userID))
		return
	}

	if err := b.tmpl.Set(key, text); err != nil {
		b.log.Error("failed to save message template", sl.Err(err))
		b.sendText(chatID, "Не удалось сохранить текст, попробуй ещё раз 🙏")
		return
	}

	b.states.reset(chatID)
	b.sendWithKeyboard(chatID, "Сообщение обновлено ✅", b.mainKeyboard(userID))
}

func defaultText(key string) string {
	switch key {
	case msgKeyStart:
		return defaultStartMessage
	case msgKeySelectSpread:
		return defaultSelectSpread
	case msgKeyHowSpread:
		return defaultHowSpread
	}
	return ""
}
