package bot

// Ключи редактируемых шаблонов в хранилище сообщений.
const (
	msgKeyStart        = "start_message"
	msgKeySelectSpread = "select_spread"
	msgKeyHowSpread    = "how_spread_works"
)

// Тексты по умолчанию: используются, пока администратор не задал свои.
const (
	defaultStartMessage = "Привет! Я твой помощник по Таро и психологии. ✨\n\n" +
		"Здесь ты можешь каждый день получать гороскоп и карту Таро, " +
		"записаться на личный расклад или задать вопрос мастеру.\n\n" +
		"Выбери, что тебя интересует 👇"

	defaultSelectSpread = "✨ Расклады Таро ✨\n\n" +
		"🔮 Расклад на отношения — 1500р\n" +
		"🔮 Расклад на ситуацию — 1200р\n" +
		"🔮 Расклад на год — 2000р\n\n" +
		"Каждый расклад делается вручную, ответ приходит в течение дня."

	defaultHowSpread = "💜 Психологическая консультация 💜\n\n" +
		"Разбираем запрос вместе: отношения, самооценка, тревога, выбор.\n" +
		"Первая встреча — знакомство и план работы.\n\n" +
		"Стоимость: 2500р за встречу (60 минут)."
)
