package bot

import (
	"strconv"
	"strings"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/content"
)

// Надписи кнопок меню. Входящий текст сопоставляется с ними один раз
// в Parse, дальше обработчики работают с тегированной командой.
const (
	btnBack       = "◶ Назад"
	btnSpreads    = "✨ Выбрать расклад/узнать прайс"
	btnPsychology = "Психология: как проходит/прайс💜"
	btnHoroscope  = "🌟 Гороскоп на сегодня"
	btnTarot      = "🎴 Карта Таро дня"
	btnBook       = "ЗАПИСАТЬСЯ"
	btnAsk        = "СПРОСИТЬ"
	btnCancel     = "❌ Отменить"

	btnAdminUsers     = "👥 Список пользователей"
	btnAdminStats     = "📊 Статистика"
	btnAdminBroadcast = "📢 Рассылка"
	btnAdminMessages  = "📝 Редактировать сообщения"

	btnEditStart      = "📝 Приветственное сообщение"
	btnEditSpread     = "📝 Текст расклада"
	btnEditPsychology = "📝 Текст психологии"
)

// Command тегированная команда, распознанная из входящего текста.
type Command int

// Команды бота.
const (
	CmdUnknown Command = iota
	CmdBack
	CmdSpreads
	CmdPsychology
	CmdHoroscopeMenu
	CmdTarot
	CmdZodiacSign
	CmdContact
	CmdTrial
	CmdBuyPlan
	CmdSubscribeMenu
	CmdCancel
	CmdAdminUsers
	CmdAdminStats
	CmdAdminBroadcast
	CmdAdminMessages
	CmdEditTarget
)

// ParsedCommand команда с полезной нагрузкой: ключ знака зодиака,
// идентификатор тарифа или ключ редактируемого шаблона.
type ParsedCommand struct {
	Cmd     Command
	Payload string
}

// editTargets сопоставление кнопок редактирования с ключами шаблонов.
var editTargets = map[string]string{
	btnEditStart:      "start_message",
	btnEditSpread:     "select_spread",
	btnEditPsychology: "how_spread_works",
}

// exactCommands кнопки, распознаваемые по точному совпадению.
var exactCommands = map[string]Command{
	btnBack:           CmdBack,
	btnCancel:         CmdCancel,
	btnSpreads:        CmdSpreads,
	btnPsychology:     CmdPsychology,
	btnHoroscope:      CmdHoroscopeMenu,
	btnTarot:          CmdTarot,
	btnAdminUsers:     CmdAdminUsers,
	btnAdminStats:     CmdAdminStats,
	btnAdminBroadcast: CmdAdminBroadcast,
	btnAdminMessages:  CmdAdminMessages,
}

// Parse распознаёт команду из текста кнопки. Порядок проверок фиксирован:
// точные совпадения, кнопки редактирования, знаки зодиака, пробный период,
// покупка тарифа, затем общее меню подписки по префиксу "💎".
func (b *Bot) Parse(text string) ParsedCommand {
	if cmd, ok := exactCommands[text]; ok {
		return ParsedCommand{Cmd: cmd}
	}
	if key, ok := editTargets[text]; ok {
		return ParsedCommand{Cmd: CmdEditTarget, Payload: key}
	}
	for _, sign := range content.Signs {
		if strings.Contains(text, sign.ButtonLabel()) {
			return ParsedCommand{Cmd: CmdZodiacSign, Payload: sign.Key}
		}
	}
	if strings.Contains(text, btnBook) || strings.Contains(text, btnAsk) {
		return ParsedCommand{Cmd: CmdContact}
	}
	if text == b.trialButtonLabel() {
		return ParsedCommand{Cmd: CmdTrial}
	}
	for _, plan := range b.subs.Plans() {
		if strings.HasPrefix(text, planButtonPrefix(plan)) {
			return ParsedCommand{Cmd: CmdBuyPlan, Payload: plan.ID}
		}
	}
	if strings.Contains(text, "💎") || strings.Contains(text, "Подписка") {
		return ParsedCommand{Cmd: CmdSubscribeMenu}
	}
	return ParsedCommand{Cmd: CmdUnknown}
}

// planButtonPrefix устойчивая часть надписи кнопки тарифа.
func planButtonPrefix(plan config.Plan) string {
	return "💎 " + plan.Name + " за " + strconv.Itoa(plan.Price) + "р"
}
