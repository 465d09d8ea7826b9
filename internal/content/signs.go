package content

// Sign знак зодиака: ключ меню на русском, слаг для URL и эмодзи кнопки.
type Sign struct {
	Key   string
	Title string
	Slug  string
	Emoji string
}

// Signs двенадцать знаков зодиака в порядке вывода клавиатуры.
var Signs = []Sign{
	{Key: "овен", Title: "Овен", Slug: "aries", Emoji: "♈️"},
	{Key: "телец", Title: "Телец", Slug: "taurus", Emoji: "♉️"},
	{Key: "близнецы", Title: "Близнецы", Slug: "gemini", Emoji: "♊️"},
	{Key: "рак", Title: "Рак", Slug: "cancer", Emoji: "♋️"},
	{Key: "лев", Title: "Лев", Slug: "leo", Emoji: "♌️"},
	{Key: "дева", Title: "Дева", Slug: "virgo", Emoji: "♍️"},
	{Key: "весы", Title: "Весы", Slug: "libra", Emoji: "♎️"},
	{Key: "скорпион", Title: "Скорпион", Slug: "scorpio", Emoji: "♏️"},
	{Key: "стрелец", Title: "Стрелец", Slug: "sagittarius", Emoji: "♐️"},
	{Key: "козерог", Title: "Козерог", Slug: "capricorn", Emoji: "♑️"},
	{Key: "водолей", Title: "Водолей", Slug: "aquarius", Emoji: "♒️"},
	{Key: "рыбы", Title: "Рыбы", Slug: "pisces", Emoji: "♓️"},
}

// SignByKey ищет знак по русскому названию.
func SignByKey(key string) (Sign, bool) {
	for _, s := range Signs {
		if s.Key == key {
			return s, true
		}
	}
	return Sign{}, false
}

// ButtonLabel текст кнопки выбора знака.
func (s Sign) ButtonLabel() string {
	return s.Emoji + " " + s.Title
}
