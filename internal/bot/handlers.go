package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/darinsight/tarobot/internal/content"
	"github.com/darinsight/tarobot/internal/lib/sl"
	services "github.com/darinsight/tarobot/internal/services/subscription"
)

// HandleUpdate маршрутизирует одно обновление Telegram.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.CallbackQuery != nil:
		b.handleCallbackQuery(upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		b.handleMessage(ctx, upd.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	const op = "bot.handleMessage"

	userID := msg.From.ID
	chatID := msg.Chat.ID
	log := b.log.With(sl.Op(op), sl.UserID(userID))

	if err := b.subs.EnsureUser(userID, msg.From.UserName); err != nil {
		log.Error("failed to register user", sl.Err(err))
	}

	if msg.IsCommand() {
		b.states.reset(chatID)
		switch msg.Command() {
		case "start":
			b.handleStart(chatID, userID)
		case "admin":
			b.handleAdminPanel(chatID, userID)
		default:
			b.sendWithKeyboard(chatID, "Не понимаю эту команду, выбери пункт меню 👇", b.mainKeyboard(userID))
		}
		return
	}

	// в модальном режиме текст — это ввод, а не команда меню
	session := b.states.get(chatID)
	switch session.state {
	case stateAwaitingBroadcast:
		b.handleBroadcastInput(ctx, chatID, userID, msg.Text)
		return
	case stateAwaitingEditValue:
		b.handleEditInput(chatID, userID, session.editKey, msg.Text)
		return
	}

	parsed := b.Parse(msg.Text)

	switch parsed.Cmd {
	case CmdBack, CmdCancel:
		b.states.reset(chatID)
		b.sendWithKeyboard(chatID, "Главное меню 👇", b.mainKeyboard(userID))
	case CmdSpreads:
		b.sendWithKeyboard(chatID, b.tmpl.Get(msgKeySelectSpread, defaultSelectSpread), b.contactKeyboard())
	case CmdPsychology:
		b.sendWithKeyboard(chatID, b.tmpl.Get(msgKeyHowSpread, defaultHowSpread), b.contactKeyboard())
	case CmdContact:
		b.sendWithKeyboard(chatID, "Напиши мастеру напрямую 👇", b.contactKeyboard())
	case CmdHoroscopeMenu:
		if !b.requireSubscription(chatID, userID) {
			return
		}
		b.sendWithKeyboard(chatID, "Выбери свой знак зодиака 👇", signsKeyboard())
	case CmdZodiacSign:
		b.handleZodiacSign(ctx, chatID, userID, parsed.Payload)
	case CmdTarot:
		b.handleTarot(ctx, chatID, userID)
	case CmdSubscribeMenu:
		b.handleSubscriptionMenu(chatID, userID)
	case CmdTrial:
		b.handleTrial(chatID, userID)
	case CmdBuyPlan:
		b.handleBuyPlan(ctx, chatID, userID, parsed.Payload)
	case CmdAdminUsers, CmdAdminStats, CmdAdminBroadcast, CmdAdminMessages, CmdEditTarget:
		if !b.cfg.IsAdmin(userID) {
			b.sendWithKeyboard(chatID, "Не понимаю эту команду, выбери пункт меню 👇", b.mainKeyboard(userID))
			return
		}
		b.handleAdminCommand(chatID, parsed)
	default:
		b.sendWithKeyboard(chatID, "Не понимаю эту команду, выбери пункт меню 👇", b.mainKeyboard(userID))
	}
}

// handleStart показывает приветствие либо, если пользователь не подписан
// на обязательные каналы, просит сначала подписаться.
func (b *Bot) handleStart(chatID, userID int64) {
	if !b.cfg.IsAdmin(userID) && !b.memberOfChannels(userID) {
		b.sendWithKeyboard(chatID,
			"Чтобы пользоваться ботом, подпишись на наши каналы и нажми «Проверить подписку» 👇",
			b.channelsKeyboard())
		return
	}

	b.sendWithKeyboard(chatID, b.tmpl.Get(msgKeyStart, defaultStartMessage), b.mainKeyboard(userID))
}

// handleCallbackQuery обрабатывает inline-кнопки. Единственная из них —
// повторная проверка подписки на каналы.
func (b *Bot) handleCallbackQuery(q *tgbotapi.CallbackQuery) {
	if q.Data != checkSubCallback {
		b.answerCallback(q.ID, "")
		return
	}

	userID := q.From.ID
	chatID := userID
	if q.Message != nil {
		chatID = q.Message.Chat.ID
	}

	if !b.memberOfChannels(userID) {
		b.answerCallback(q.ID, "Подписка на все каналы пока не видна 🙏")
		return
	}

	b.answerCallback(q.ID, "")
	b.sendWithKeyboard(chatID, b.tmpl.Get(msgKeyStart, defaultStartMessage), b.mainKeyboard(userID))
}

func (b *Bot) handleZodiacSign(ctx context.Context, chatID, userID int64, signKey string) {
	if !b.requireSubscription(chatID, userID) {
		return
	}

	sign, ok := content.SignByKey(signKey)
	if !ok {
		b.sendWithKeyboard(chatID, "Выбери свой знак зодиака 👇", signsKeyboard())
		return
	}

	text := b.content.FetchHoroscope(ctx, signKey)
	b.sendWithKeyboard(chatID, sign.ButtonLabel()+"\n\n"+text, signsKeyboard())
}

func (b *Bot) handleTarot(ctx context.Context, chatID, userID int64) {
	if !b.requireSubscription(chatID, userID) {
		return
	}

	card := b.content.FetchTarotCard(ctx)
	if card.ImagePath != "" {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(card.ImagePath))
		photo.Caption = card.Body
		b.send(photo)
		return
	}
	b.sendText(chatID, card.Body)
}

// handleSubscriptionMenu показывает статус подписки либо варианты покупки.
func (b *Bot) handleSubscriptionMenu(chatID, userID int64) {
	active, err := b.subs.IsActive(userID)
	if err != nil {
		b.log.Error("failed to check subscription", sl.Err(err), sl.UserID(userID))
	}
	if active {
		expires, _ := b.subs.Expiry(userID)
		text := fmt.Sprintf("💎 Подписка активна до %s\nОсталось: %s",
			expires.Format("02.01.2006 15:04"), services.FormatRemaining(expires))
		b.sendWithKeyboard(chatID, text, b.mainKeyboard(userID))
		return
	}

	b.sendWithKeyboard(chatID, b.subscriptionPitch(), b.subscriptionKeyboard(userID))
}

func (b *Bot) subscriptionPitch() string {
	var sb strings.Builder
	sb.WriteString("💎 Подписка открывает ежедневный гороскоп и карту Таро дня.\n\n")
	for _, plan := range b.subs.Plans() {
		sb.WriteString(fmt.Sprintf("• %s — %dр", plan.Name, plan.Price))
		if plan.PerDay != "" {
			sb.WriteString(" (" + plan.PerDay + ")")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nВыбери вариант 👇")
	return sb.String()
}

func (b *Bot) handleTrial(chatID, userID int64) {
	err := b.subs.ActivateTrial(userID)
	switch {
	case errors.Is(err, services.ErrTrialUsed):
		b.sendWithKeyboard(chatID, "Пробный период уже использован 😔\nВыбери подписку 👇", b.subscriptionKeyboard(userID))
		return
	case err != nil:
		b.log.Error("failed to activate trial", sl.Err(err), sl.UserID(userID))
		b.sendText(chatID, "Не получилось включить пробный период, попробуй позже 🙏")
		return
	}

	expires, _ := b.subs.Expiry(userID)
	text := fmt.Sprintf("🎁 Пробный период активирован до %s!\n\nТеперь тебе доступны гороскоп и карта Таро дня.",
		expires.Format("02.01.2006 15:04"))
	b.sendWithKeyboard(chatID, text, b.mainKeyboard(userID))
}

// handleBuyPlan регистрирует платёж в кассе и отдаёт ссылку на оплату.
func (b *Bot) handleBuyPlan(ctx context.Context, chatID, userID int64, planID string) {
	const op = "bot.handleBuyPlan"

	plan, ok := b.subs.PlanByID(planID)
	if !ok {
		b.sendWithKeyboard(chatID, "Такого тарифа больше нет, выбери из списка 👇", b.subscriptionKeyboard(userID))
		return
	}

	resp, err := b.payments.CreatePayment(ctx, plan, userID)
	if err != nil {
		b.log.Error("failed to create payment", sl.Op(op), sl.Err(err), sl.UserID(userID))
		b.sendText(chatID, "Не удалось создать ссылку на оплату, попробуй чуть позже 🙏")
		return
	}

	msg := tgbotapi.NewMessage(chatID, fmt.Sprintf(
		"💳 Подписка «%s» на %d дней — %dр.\n\nОплати по кнопке ниже, доступ включится автоматически после оплаты.",
		plan.Name, plan.Days, plan.Price))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("Оплатить "+strconv.Itoa(plan.Price)+"р", resp.PaymentURL),
		),
	)
	b.send(msg)
}

// requireSubscription пропускает дальше администраторов и пользователей
// с действующей подпиской, остальным показывает варианты её оформления.
func (b *Bot) requireSubscription(chatID, userID int64) bool {
	if b.cfg.IsAdmin(userID) {
		return true
	}

	active, err := b.subs.IsActive(userID)
	if err != nil {
		b.log.Error("failed to check subscription", sl.Err(err), sl.UserID(userID))
	}
	if active {
		return true
	}

	b.sendWithKeyboard(chatID, "🔒 Этот раздел доступен по подписке.\n\n"+b.subscriptionPitch(), b.subscriptionKeyboard(userID))
	return false
}

// memberOfChannels проверяет подписку пользователя на все обязательные
// каналы. Сбой Telegram API трактуется как отсутствие подписки.
func (b *Bot) memberOfChannels(userID int64) bool {
	for _, ch := range b.cfg.Channels {
		member, err := b.api.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: channelRef(ch.ID, userID),
		})
		if err != nil {
			b.log.Warn("failed to check channel membership",
				sl.Err(err), sl.UserID(userID))
			return false
		}
		switch member.Status {
		case "creator", "administrator", "member":
		case "restricted":
			if !member.IsMember {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// channelRef собирает ссылку на канал для getChatMember: числовой
// идентификатор передаётся как ChatID, имя канала — как @username.
func channelRef(id string, userID int64) tgbotapi.ChatConfigWithUser {
	if chatID, err := strconv.ParseInt(id, 10, 64); err == nil {
		return tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID}
	}
	username := id
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return tgbotapi.ChatConfigWithUser{SuperGroupUsername: username, UserID: userID}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Error("failed to answer callback query", sl.Err(err))
	}
}
