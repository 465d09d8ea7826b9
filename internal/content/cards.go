package content

// cardFileNames таблица точных соответствий "имя карты — файл изображения"
// для всех 78 карт Таро. Имена на сайте непоследовательны, поэтому таблица
// правится данными, а не ветками в коде; для имени без записи работает
// общий слаг-трансформ (см. imageFileName).
var cardFileNames = map[string]string{
	"туз кубков":          "туз_кубков.png",
	"двойка кубков":       "двойка_кубков.png",
	"тройка кубков":       "тройка_кубков.png",
	"четверка кубков":     "четверка_кубков.png",
	"пятерка кубков":      "пятерка_кубков.png",
	"шестерка кубков":     "шестерка_кубков.png",
	"семерка кубков":      "семерка_кубков.png",
	"восьмерка кубков":    "восьмерка_кубков.png",
	"девятка кубков":      "девятка_кубков.png",
	"десятка кубков":      "десятка_кубков.png",
	"паж кубков":          "паж_кубков.png",
	"рыцарь кубков":       "рыцарь_кубков.png",
	"королева кубков":     "королева_кубков.png",
	"король кубков":       "король_кубков.png",
	"туз мечей":           "туз_мечей.png",
	"двойка мечей":        "двойка_мечей.png",
	"тройка мечей":        "тройка_мечей.png",
	"четверка мечей":      "четверка_мечей.png",
	"пятерка мечей":       "пятерка_мечей.png",
	"шестерка мечей":      "шестерка_мечей.png",
	"семерка мечей":       "семерка_мечей.png",
	"восьмерка мечей":     "восьмерка_мечей.png",
	"девятка мечей":       "девятка_мечей.png",
	"десятка мечей":       "десятка_мечей.png",
	"паж мечей":           "паж_мечей.png",
	"рыцарь мечей":        "рыцарь_мечей.png",
	"королева мечей":      "королева_мечей.png",
	"король мечей":        "король_мечей.png",
	"туз посохов":         "туз_посохов.png",
	"двойка посохов":      "двойка_посохов.png",
	"тройка посохов":      "тройка_посохов.png",
	"четверка посохов":    "четверка_посохов.png",
	"пятерка посохов":     "пятерка_посохов.png",
	"шестерка посохов":    "шестерка_посохов.png",
	"семерка посохов":     "семерка_посохов.png",
	"восьмерка посохов":   "восьмерка_посохов.png",
	"девятка посохов":     "девятка_посохов.png",
	"десятка посохов":     "десятка_посохов.png",
	"паж посохов":         "паж_посохов.png",
	"рыцарь посохов":      "рыцарь_посохов.png",
	"королева посохов":    "королева_посохов.png",
	"король посохов":      "король_посохов.png",
	"туз пентаклей":       "туз_пентаклей.png",
	"двойка пентаклей":    "двойка_пентаклей.png",
	"тройка пентаклей":    "тройка_пентаклей.png",
	"четверка пентаклей":  "четверка_пентаклей.png",
	"пятерка пентаклей":   "пятерка_пентаклей.png",
	"шестерка пентаклей":  "шестерка_пентаклей.png",
	"семерка пентаклей":   "семерка_пентаклей.png",
	"восьмерка пентаклей": "восьмерка_пентаклей.png",
	"девятка пентаклей":   "девятка_пентаклей.png",
	"десятка пентаклей":   "десятка_пентаклей.png",
	"паж пентаклей":       "паж_пентаклей.png",
	"рыцарь пентаклей":    "рыцарь_пентаклей.png",
	"королева пентаклей":  "королева_пентаклей.png",
	"король пентаклей":    "король_пентаклей.png",
	"шут":                 "шут.png",
	"маг":                 "маг.png",
	"жрица":               "жрица.png",
	"императрица":         "императрица.png",
	"император":           "император.png",
	"иерофант":            "иерофант.png",
	"влюбленные":          "влюбленные.png",
	"колесница":           "колесница.png",
	"сила":                "сила.png",
	"отшельник":           "отшельник.png",
	"колесо фортуны":      "колесо_фортуны.png",
	"справедливость":      "справедливость.png",
	"повешенный":          "повешенный.png",
	"смерть":              "смерть.png",
	"умеренность":         "умеренность.png",
	"дьявол":              "дьявол.png",
	"башня":               "башня.png",
	"звезда":              "звезда.png",
	"луна":                "луна.png",
	"солнце":              "солнце.png",
	"суд":                 "суд.png",
	"мир":                 "мир.png",
}
