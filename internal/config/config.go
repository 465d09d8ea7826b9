// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек бота
type Config struct {
	Env        string `yaml:"env" env-default:"local"`
	Bot        `yaml:"bot"`
	Storage    `yaml:"storage"`
	Content    `yaml:"content"`
	Payment    `yaml:"payment"`
	HTTPServer `yaml:"http_server"`
	Plans      []Plan `yaml:"plans"`
	TrialDays  int    `yaml:"trial_days" env-default:"3"`
}

// Bot структура для настройки телеграм-клиента
type Bot struct {
	Token      string    `yaml:"token" env:"BOT_TOKEN"`
	AdminIDs   []int64   `yaml:"admin_ids" env:"ADMIN_IDS"`
	Channels   []Channel `yaml:"channels"`
	ContactURL string    `yaml:"contact_url"`
}

// Channel обязательный для подписки канал
type Channel struct {
	ID  string `yaml:"id"`
	URL string `yaml:"url"`
}

// Storage пути к файлам-снапшотам хранилища
type Storage struct {
	UsersFile    string `yaml:"users_file" env-default:"data/users_db.json"`
	MessagesFile string `yaml:"messages_file" env-default:"data/messages.json"`
	PaymentsFile string `yaml:"payments_file" env-default:"data/payments.json"`
}

// Content структура для настройки парсера контента
type Content struct {
	HoroscopeURL   string        `yaml:"horoscope_url" env-default:"https://horoscopes.rambler.ru/%s/today/"`
	TarotURL       string        `yaml:"tarot_url" env-default:"https://horoscopes.rambler.ru/taro/"`
	ImagesDir      string        `yaml:"images_dir" env-default:"tarot_images"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"10s"`
	RetryDelay     time.Duration `yaml:"retry_delay" env-default:"5s"`
	Selectors      []string      `yaml:"selectors"`
}

// Payment структура для настройки клиента CKassa
type Payment struct {
	APIURL      string `yaml:"api_url" env-default:"https://api.ckassa.ru/api/ver3"`
	ServiceCode string `yaml:"service_code" env:"CKASSA_SERVICE_CODE"`
	APIToken    string `yaml:"api_token" env:"CKASSA_API_TOKEN"`
}

// HTTPServer структура для настройки сервера callback-ов
type HTTPServer struct {
	Address     string        `yaml:"address" env-default:"0.0.0.0:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// Plan тарифный план подписки, каталог задаётся конфигом
type Plan struct {
	ID     string `yaml:"id"`
	Name   string `yaml:"name"`
	Price  int    `yaml:"price"`
	Days   int    `yaml:"days"`
	PerDay string `yaml:"per_day"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH, падает при ошибке
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if cfg.Bot.Token == "" {
		log.Fatal("bot token is not set")
	}
	if len(cfg.Plans) == 0 {
		log.Fatal("subscription plans are not configured")
	}
	return &cfg
}

// IsAdmin проверяет вхождение пользователя в список администраторов
func (b Bot) IsAdmin(userID int64) bool {
	for _, id := range b.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
