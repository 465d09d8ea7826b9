// Package content получает дневной контент с внешнего HTML-источника:
// гороскопы по знакам зодиака и карту Таро дня. Источник ненадёжен,
// поэтому парсер работает по списку запасных селекторов, повторяет
// сетевые запросы и на исчерпании попыток возвращает текст-заглушку,
// а не ошибку.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/darinsight/tarobot/internal/config"
	"github.com/darinsight/tarobot/internal/lib/retry"
	"github.com/darinsight/tarobot/internal/lib/sl"
	"github.com/darinsight/tarobot/internal/metrics"
)

// Тексты-заглушки, возвращаемые вместо контента при сбоях.
// Вызывающий отличает их от настоящего контента и строит мягкий ответ.
const (
	MsgNetworkUnavailable = "Извините, не удалось подключиться к сайту. Проверьте DNS или доступность сайта."
	MsgHoroscopeNotFound  = "Извините, не удалось получить гороскоп. Попробуйте позже."
	MsgInvalidSign        = "Неверный знак зодиака"

	fallbackCardTitle = "Карта дня"
	fallbackCardBody  = "Описание недоступно"
)

// minTextLen порог длины текста: абзацы короче этого — реклама и навигация.
const minTextLen = 50

const fetchAttempts = 3

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultSelectors список запасных селекторов абзаца гороскопа,
// от специфичных к общим. Классы на сайте генерируются и периодически
// меняются, список правится конфигом без изменения кода.
var DefaultSelectors = []string{
	`p[class*="_5yHoW"]`,
	`p[class*="AjIPq"]`,
	`p[class*="horoscope-text"]`,
	`p[class*="article-text"]`,
	`div[class*="content"] p`,
	`article p`,
	`div[class*="text-block"] p`,
	`p`,
}

// Селекторы страницы карты Таро.
var (
	tarotTitleSelector = "h2.h7yAL.xAIf2"
	tarotBodySelector  = `div[itemprop="articleBody"]`
)

// Card карта Таро дня. ImagePath пуст, если локального изображения нет —
// вызывающий шлёт текстовое сообщение вместо фото.
type Card struct {
	Title     string
	Body      string
	ImagePath string
}

// Fetcher парсер внешнего источника контента.
type Fetcher struct {
	client    *http.Client
	cfg       config.Content
	selectors []string
	log       *slog.Logger
}

// New создаёт Fetcher с настройками из конфига.
func New(cfg config.Content, log *slog.Logger) *Fetcher {
	selectors := cfg.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.RequestTimeout},
		cfg:       cfg,
		selectors: selectors,
		log:       log,
	}
}

// fetchDoc выполняет GET с повторами и парсит тело в goquery-документ.
// Повторяются только сетевые сбои и не-2xx ответы; "селектор ничего
// не нашёл" повтором не лечится и происходит уже после этой функции.
func (f *Fetcher) fetchDoc(ctx context.Context, url string) (*goquery.Document, error) {
	const op = "content.fetchDoc"

	var doc *goquery.Document
	err := retry.Do(ctx, retry.Constant(fetchAttempts, f.cfg.RetryDelay), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			f.log.Warn("content request failed, retrying", slog.String("url", url), sl.Err(err))
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			f.log.Warn("content request returned bad status",
				slog.String("url", url), slog.Int("status", resp.StatusCode))
			return fmt.Errorf("unexpected status: %s", resp.Status)
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, url, err)
	}
	return doc, nil
}

// FetchHoroscope возвращает текст гороскопа для знака по русскому ключу.
// Ошибки не покидают эту границу: при любом сбое возвращается заглушка.
func (f *Fetcher) FetchHoroscope(ctx context.Context, signKey string) string {
	const op = "content.FetchHoroscope"
	log := f.log.With(sl.Op(op), slog.String("sign", signKey))

	sign, ok := SignByKey(strings.ToLower(signKey))
	if !ok {
		log.Error("unknown zodiac sign")
		return MsgInvalidSign
	}

	url := fmt.Sprintf(f.cfg.HoroscopeURL, sign.Slug)
	doc, err := f.fetchDoc(ctx, url)
	if err != nil {
		log.Error("horoscope fetch failed after retries", sl.Err(err))
		metrics.ContentFallbacks.WithLabelValues("horoscope").Inc()
		return MsgNetworkUnavailable
	}

	for _, selector := range f.selectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if len([]rune(text)) > minTextLen {
			log.Info("horoscope fetched", slog.String("selector", selector))
			return text
		}
	}

	log.Error("no horoscope text matched any selector")
	metrics.ContentFallbacks.WithLabelValues("horoscope").Inc()
	return MsgHoroscopeNotFound
}

// FetchTarotCard возвращает карту Таро дня. При сбое возвращается карта
// с текстом-заглушкой вместо описания, ошибка наружу не поднимается.
func (f *Fetcher) FetchTarotCard(ctx context.Context) Card {
	const op = "content.FetchTarotCard"
	log := f.log.With(sl.Op(op))

	doc, err := f.fetchDoc(ctx, f.cfg.TarotURL)
	if err != nil {
		log.Error("tarot fetch failed after retries", sl.Err(err))
		metrics.ContentFallbacks.WithLabelValues("tarot").Inc()
		return Card{Title: fallbackCardTitle, Body: MsgNetworkUnavailable}
	}

	title := strings.TrimSpace(doc.Find(tarotTitleSelector).First().Text())
	if title == "" {
		title = fallbackCardTitle
	}
	name := cardName(title)

	var paragraphs []string
	doc.Find(tarotBodySelector).First().Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	body := fallbackCardBody
	if len(paragraphs) > 0 {
		body = strings.Join(paragraphs, "\n\n")
	}

	card := Card{
		Title:     title,
		Body:      fmt.Sprintf("✨ %s✨\n\n📬 %s", name, body),
		ImagePath: f.imagePath(name),
	}
	log.Info("tarot card fetched", slog.String("card", name),
		slog.Bool("has_image", card.ImagePath != ""))
	return card
}

// cardName выделяет чистое имя карты из заголовка страницы.
func cardName(title string) string {
	name := title
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[i+1:]
	} else {
		name = strings.ReplaceAll(name, "Карта Таро сегодня", "")
	}
	name = strings.ReplaceAll(name, "ё", "е")
	return strings.TrimSpace(name)
}

// imageFileName выбирает имя файла изображения: сначала точная запись
// в таблице соответствий, иначе общий слаг-трансформ.
func imageFileName(name string) string {
	base := strings.ReplaceAll(strings.ToLower(name), "ё", "е")
	base = strings.TrimSpace(base)
	if file, ok := cardFileNames[base]; ok {
		return file
	}
	return strings.ReplaceAll(base, " ", "_") + ".png"
}

// imagePath возвращает путь к локальному изображению карты либо пустую
// строку, если файла нет на диске.
func (f *Fetcher) imagePath(name string) string {
	path := filepath.Join(f.cfg.ImagesDir, imageFileName(name))
	if _, err := os.Stat(path); err != nil {
		f.log.Warn("tarot image not found", slog.String("path", path))
		return ""
	}
	return path
}

// Selfcheck пробует получить гороскопы всех знаков и пишет сводку в лог.
// Чисто диагностический прогон при старте: сломавшиеся селекторы видны
// сразу, а не после жалоб пользователей.
func (f *Fetcher) Selfcheck(ctx context.Context) {
	var ok, failed []string
	for _, sign := range Signs {
		text := f.FetchHoroscope(ctx, sign.Key)
		if text == MsgNetworkUnavailable || text == MsgHoroscopeNotFound || text == MsgInvalidSign {
			failed = append(failed, sign.Key)
			continue
		}
		ok = append(ok, sign.Key)
	}
	f.log.Info("horoscope selfcheck finished",
		slog.Int("ok", len(ok)),
		slog.Int("failed", len(failed)),
		slog.String("failed_signs", strings.Join(failed, ",")))
}
