package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/content"
)

const btnSubscription = "💎 Подписка"

// checkSubCallback данные callback-кнопки проверки подписки на каналы.
const checkSubCallback = "check_sub"

// mainKeyboard основное меню пользователя.
func (b *Bot) mainKeyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSpreads)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnPsychology)),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHoroscope),
			tgbotapi.NewKeyboardButton(btnTarot),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSubscription)),
	}
	if b.cfg.IsAdmin(userID) {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminUsers),
			tgbotapi.NewKeyboardButton(btnAdminStats),
		), tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminBroadcast),
			tgbotapi.NewKeyboardButton(btnAdminMessages),
		))
	}

	return tgbotapi.NewReplyKeyboard(rows...)
}

// signsKeyboard клавиатура выбора знака зодиака, по два знака в ряд.
func signsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(content.Signs); i += 2 {
		row := []tgbotapi.KeyboardButton{
			tgbotapi.NewKeyboardButton(content.Signs[i].ButtonLabel()),
		}
		if i+1 < len(content.Signs) {
			row = append(row, tgbotapi.NewKeyboardButton(content.Signs[i+1].ButtonLabel()))
		}
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)))

	return tgbotapi.NewReplyKeyboard(rows...)
}

// subscriptionKeyboard меню подписки: пробный период, если он ещё
// доступен, затем кнопки тарифов.
func (b *Bot) subscriptionKeyboard(userID int64) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	if ok, err := b.subs.CanUseTrial(userID); err == nil && ok {
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(b.trialButtonLabel()),
		))
	}
	for _, plan := range b.subs.Plans() {
		label := planButtonPrefix(plan)
		if plan.PerDay != "" {
			label += " (" + plan.PerDay + ")"
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(label)))
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)))

	return tgbotapi.NewReplyKeyboard(rows...)
}

func (b *Bot) trialButtonLabel() string {
	return fmt.Sprintf("🎁 Попробовать бесплатно (%d дня)", b.subs.TrialDays())
}

// contactKeyboard inline-кнопки записи на расклад и вопроса мастеру.
func (b *Bot) contactKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("✍️ "+btnBook, b.cfg.ContactURL),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("💬 "+btnAsk, b.cfg.ContactURL),
		),
	)
}

// channelsKeyboard ссылки на обязательные каналы и кнопка повторной
// проверки подписки.
func (b *Bot) channelsKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, ch := range b.cfg.Channels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(fmt.Sprintf("📣 Канал %d", i+1), ch.URL),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ Проверить подписку", checkSubCallback),
	))

	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// adminKeyboard меню администратора.
func adminKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminUsers),
			tgbotapi.NewKeyboardButton(btnAdminStats),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnAdminBroadcast),
			tgbotapi.NewKeyboardButton(btnAdminMessages),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
}

// editMessagesKeyboard меню выбора редактируемого шаблона.
func editMessagesKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnEditStart)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnEditSpread)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnEditPsychology)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBack)),
	)
}

// cancelKeyboard единственная кнопка выхода из модального режима.
func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
}
