package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/content"
	"github.com/darinsight/tarobot/internal/payment"
	services "github.com/darinsight/tarobot/internal/services/subscription"
	"github.com/darinsight/tarobot/internal/storage"
)

// fakeAPI записывает отправленные сообщения вместо обращения к Telegram.
type fakeAPI struct {
	sent         []tgbotapi.Chattable
	memberStatus string
	memberErr    error
	updates      []tgbotapi.Update
	updatesErr   error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdates(tgbotapi.UpdateConfig) ([]tgbotapi.Update, error) {
	return f.updates, f.updatesErr
}

func (f *fakeAPI) GetChatMember(tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	if f.memberErr != nil {
		return tgbotapi.ChatMember{}, f.memberErr
	}
	return tgbotapi.ChatMember{Status: f.memberStatus}, nil
}

// sentTexts возвращает тексты всех отправленных сообщений.
func (f *fakeAPI) sentTexts() []string {
	var out []string
	for _, c := range f.sent {
		if msg, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, msg.Text)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	texts := f.sentTexts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

type fakeTemplates struct {
	values map[string]string
}

func (t *fakeTemplates) Get(k, def string) string {
	if v, ok := t.values[k]; ok {
		return v
	}
	return def
}

func (t *fakeTemplates) Set(k, v string) error {
	t.values[k] = v
	return nil
}

type fakeContent struct{}

func (fakeContent) FetchHoroscope(_ context.Context, _ string) string {
	return "Сегодня звёзды на твоей стороне."
}

func (fakeContent) FetchTarotCard(_ context.Context) content.Card {
	return content.Card{Title: "Солнце", Body: "✨ Солнце✨\n\nДень будет ясным."}
}

type fakePayments struct {
	resp *payment.CreatePaymentResponse
	err  error
}

func (p *fakePayments) CreatePayment(_ context.Context, _ config.Plan, _ int64) (*payment.CreatePaymentResponse, error) {
	return p.resp, p.err
}

var testPlans = []config.Plan{
	{ID: "week", Name: "Неделя", Price: 159, Days: 7, PerDay: "23р/день"},
	{ID: "month", Name: "Месяц", Price: 359, Days: 30, PerDay: "12р/день"},
}

func newTestBot(t *testing.T, api *fakeAPI, cfg config.Bot) *Bot {
	t.Helper()

	dir := t.TempDir()
	users, err := storage.NewUserStore(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	payments, err := storage.NewPaymentLog(filepath.Join(dir, "payments.json"))
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	subs := services.New(users, payments, testPlans, 3, log)

	return New(api, cfg, subs,
		&fakeTemplates{values: map[string]string{}},
		fakeContent{},
		&fakePayments{resp: &payment.CreatePaymentResponse{PaymentURL: "https://pay.example/1"}},
		log)
}

func textMessage(userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: userID, UserName: "tester"},
			Chat: &tgbotapi.Chat{ID: userID},
			Text: text,
		},
	}
}

func botCommand(userID int64, cmd string) tgbotapi.Update {
	upd := textMessage(userID, cmd)
	upd.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return upd
}

func startCommand(userID int64) tgbotapi.Update {
	return botCommand(userID, "/start")
}

func TestParse(t *testing.T) {
	b := newTestBot(t, &fakeAPI{}, config.Bot{})

	tests := []struct {
		name    string
		text    string
		cmd     Command
		payload string
	}{
		{name: "кнопка назад", text: btnBack, cmd: CmdBack},
		{name: "кнопка отмены", text: btnCancel, cmd: CmdCancel},
		{name: "меню раскладов", text: btnSpreads, cmd: CmdSpreads},
		{name: "гороскоп", text: btnHoroscope, cmd: CmdHoroscopeMenu},
		{name: "карта дня", text: btnTarot, cmd: CmdTarot},
		{name: "знак зодиака", text: "♈️ Овен", cmd: CmdZodiacSign, payload: "овен"},
		{name: "запись на расклад", text: "✍️ ЗАПИСАТЬСЯ", cmd: CmdContact},
		{name: "пробный период", text: "🎁 Попробовать бесплатно (3 дня)", cmd: CmdTrial},
		{name: "покупка недельного тарифа", text: "💎 Неделя за 159р (23р/день)", cmd: CmdBuyPlan, payload: "week"},
		{name: "покупка месячного тарифа", text: "💎 Месяц за 359р (12р/день)", cmd: CmdBuyPlan, payload: "month"},
		{name: "меню подписки", text: btnSubscription, cmd: CmdSubscribeMenu},
		{name: "админская статистика", text: btnAdminStats, cmd: CmdAdminStats},
		{name: "редактирование приветствия", text: btnEditStart, cmd: CmdEditTarget, payload: "start_message"},
		{name: "произвольный текст", text: "привет", cmd: CmdUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := b.Parse(tt.text)
			assert.Equal(t, tt.cmd, parsed.Cmd)
			assert.Equal(t, tt.payload, parsed.Payload)
		})
	}
}

func TestHandleStart(t *testing.T) {
	t.Run("без обязательных каналов сразу приветствие", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})

		b.HandleUpdate(context.Background(), startCommand(100))

		require.NotEmpty(t, api.sentTexts())
		assert.Contains(t, api.lastText(), "Привет")
	})

	t.Run("не подписан на канал — просим подписаться", func(t *testing.T) {
		api := &fakeAPI{memberStatus: "left"}
		b := newTestBot(t, api, config.Bot{
			Channels: []config.Channel{{ID: "@tarot_channel", URL: "https://t.me/tarot_channel"}},
		})

		b.HandleUpdate(context.Background(), startCommand(100))

		assert.Contains(t, api.lastText(), "подпишись")
	})

	t.Run("сбой проверки канала закрывает доступ", func(t *testing.T) {
		api := &fakeAPI{memberErr: errors.New("telegram is down")}
		b := newTestBot(t, api, config.Bot{
			Channels: []config.Channel{{ID: "@tarot_channel", URL: "https://t.me/tarot_channel"}},
		})

		b.HandleUpdate(context.Background(), startCommand(100))

		assert.Contains(t, api.lastText(), "подпишись")
	})

	t.Run("администратор проходит без проверки каналов", func(t *testing.T) {
		api := &fakeAPI{memberErr: errors.New("telegram is down")}
		b := newTestBot(t, api, config.Bot{
			AdminIDs: []int64{100},
			Channels: []config.Channel{{ID: "@tarot_channel", URL: "https://t.me/tarot_channel"}},
		})

		b.HandleUpdate(context.Background(), startCommand(100))

		assert.Contains(t, api.lastText(), "Привет")
	})

	t.Run("участник канала получает приветствие", func(t *testing.T) {
		api := &fakeAPI{memberStatus: "member"}
		b := newTestBot(t, api, config.Bot{
			Channels: []config.Channel{{ID: "-1001234567890", URL: "https://t.me/tarot_channel"}},
		})

		b.HandleUpdate(context.Background(), startCommand(100))

		assert.Contains(t, api.lastText(), "Привет")
	})
}

func TestContentRequiresSubscription(t *testing.T) {
	t.Run("гороскоп без подписки предлагает оформить её", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})

		b.HandleUpdate(context.Background(), textMessage(100, btnHoroscope))

		assert.Contains(t, api.lastText(), "🔒")
	})

	t.Run("после пробного периода контент доступен", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})

		b.HandleUpdate(context.Background(), textMessage(100, "🎁 Попробовать бесплатно (3 дня)"))
		require.Contains(t, api.lastText(), "Пробный период активирован")

		b.HandleUpdate(context.Background(), textMessage(100, "♈️ Овен"))
		assert.Contains(t, api.lastText(), "звёзды на твоей стороне")
	})

	t.Run("повторный пробный период не выдаётся", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})

		b.HandleUpdate(context.Background(), textMessage(100, "🎁 Попробовать бесплатно (3 дня)"))
		b.HandleUpdate(context.Background(), textMessage(100, "🎁 Попробовать бесплатно (3 дня)"))

		assert.Contains(t, api.lastText(), "уже использован")
	})
}

func TestHandleBuyPlan(t *testing.T) {
	t.Run("ссылка на оплату приходит с кнопкой", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})

		b.HandleUpdate(context.Background(), textMessage(100, "💎 Неделя за 159р (23р/день)"))

		require.NotEmpty(t, api.sent)
		msg, ok := api.sent[len(api.sent)-1].(tgbotapi.MessageConfig)
		require.True(t, ok)
		assert.Contains(t, msg.Text, "Неделя")

		markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
		require.True(t, ok)
		require.Len(t, markup.InlineKeyboard, 1)
		require.NotNil(t, markup.InlineKeyboard[0][0].URL)
		assert.Equal(t, "https://pay.example/1", *markup.InlineKeyboard[0][0].URL)
	})

	t.Run("сбой кассы не роняет обработчик", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, config.Bot{})
		b.payments = &fakePayments{err: errors.New("ckassa unavailable")}

		b.HandleUpdate(context.Background(), textMessage(100, "💎 Неделя за 159р (23р/день)"))

		assert.Contains(t, api.lastText(), "Не удалось создать ссылку")
	})
}

func TestAdminFlows(t *testing.T) {
	adminCfg := config.Bot{AdminIDs: []int64{1}}

	t.Run("статистика доступна только администратору", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, adminCfg)

		b.HandleUpdate(context.Background(), textMessage(2, btnAdminStats))
		assert.Contains(t, api.lastText(), "Не понимаю")

		b.HandleUpdate(context.Background(), textMessage(1, btnAdminStats))
		assert.Contains(t, api.lastText(), "Всего пользователей")
	})

	t.Run("команда /admin открывает панель администратора", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, adminCfg)

		b.HandleUpdate(context.Background(), botCommand(1, "/admin"))

		assert.Contains(t, api.lastText(), "Панель администратора")
	})

	t.Run("команда /admin недоступна обычному пользователю", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, adminCfg)

		b.HandleUpdate(context.Background(), botCommand(2, "/admin"))

		assert.Contains(t, api.lastText(), "недоступна")
		assert.NotContains(t, api.lastText(), "Панель администратора")
	})

	t.Run("редактирование шаблона меняет приветствие", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, adminCfg)

		b.HandleUpdate(context.Background(), textMessage(1, btnEditStart))
		require.Contains(t, api.lastText(), "Текущий текст")

		b.HandleUpdate(context.Background(), textMessage(1, "Новое приветствие!"))
		require.Contains(t, api.lastText(), "обновлено")

		b.HandleUpdate(context.Background(), startCommand(1))
		assert.Contains(t, api.lastText(), "Новое приветствие!")
	})

	t.Run("отмена выходит из модального режима без изменений", func(t *testing.T) {
		api := &fakeAPI{}
		b := newTestBot(t, api, adminCfg)

		b.HandleUpdate(context.Background(), textMessage(1, btnEditStart))
		b.HandleUpdate(context.Background(), textMessage(1, btnCancel))
		require.Contains(t, api.lastText(), "отменено")

		b.HandleUpdate(context.Background(), startCommand(1))
		assert.Contains(t, api.lastText(), "Привет")
	})
}

func TestBroadcast(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, config.Bot{AdminIDs: []int64{1}})

	// регистрируем получателей
	require.NoError(t, b.subs.EnsureUser(10, "a"))
	require.NoError(t, b.subs.EnsureUser(20, "b"))

	b.broadcast(context.Background(), 1, 1, "Всем привет!")

	var delivered int
	for _, text := range api.sentTexts() {
		if text == "Всем привет!" {
			delivered++
		}
	}
	assert.Equal(t, 2, delivered)
}

func TestConfirmPayment(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(t, api, config.Bot{})

	_, err := b.subs.ActivatePaid(100, 15900, "PAY-1")
	require.NoError(t, err)

	require.NoError(t, b.ConfirmPayment(100, testPlans[0]))
	assert.Contains(t, api.lastText(), "Оплата получена")
	assert.Contains(t, api.lastText(), "Неделя")
}

func TestCheckSubscriptionCallback(t *testing.T) {
	api := &fakeAPI{memberStatus: "member"}
	b := newTestBot(t, api, config.Bot{
		Channels: []config.Channel{{ID: "@tarot_channel", URL: "https://t.me/tarot_channel"}},
	})

	upd := tgbotapi.Update{
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:      "cb1",
			Data:    checkSubCallback,
			From:    &tgbotapi.User{ID: 100},
			Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 100}},
		},
	}
	b.HandleUpdate(context.Background(), upd)

	assert.Contains(t, api.lastText(), "Привет")
}

func TestBroadcastTruncatesLongText(t *testing.T) {
	long := strings.Repeat("я", broadcastMaxLen+100)
	assert.Len(t, []rune(truncateRunes(long, broadcastMaxLen)), broadcastMaxLen)
	assert.Equal(t, "короткий", truncateRunes("короткий", broadcastMaxLen))
}
