package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/config"
)

// ConfirmPayment отправляет пользователю подтверждение оплаты.
// Вызывается обработчиком платёжных callback-ов после активации подписки.
func (b *Bot) ConfirmPayment(userID int64, plan config.Plan) error {
	const op = "bot.ConfirmPayment"

	text := fmt.Sprintf("✅ Оплата получена!\n\nПодписка «%s» активна", plan.Name)
	if expires, ok := b.subs.Expiry(userID); ok {
		text += " до " + expires.Format("02.01.2006 15:04")
	}
	text += ".\n\nТеперь тебе доступны гороскоп и карта Таро дня."

	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = b.mainKeyboard(userID)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
