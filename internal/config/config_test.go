package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "test_config_*.yaml")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())

	t.Setenv("CONFIG_PATH", tmpFile.Name())
}

func TestMustLoad_ValidConfig(t *testing.T) {
	configContent := `
env: test
bot:
  token: "123456:test-token"
  admin_ids: [100, 200]
  channels:
    - id: "@taro_channel"
      url: "https://t.me/taro_channel"
  contact_url: "https://t.me/taro_darinsight"
storage:
  users_file: "testdata/users.json"
  messages_file: "testdata/messages.json"
content:
  horoscope_url: "https://horoscopes.rambler.ru/%s/today/"
  tarot_url: "https://horoscopes.rambler.ru/taro/"
  images_dir: "tarot_images"
  request_timeout: 10s
  retry_delay: 5s
http_server:
  address: "0.0.0.0:8080"
  timeout: 10s
  idle_timeout: 60s
plans:
  - id: week
    name: "7 дней"
    price: 159
    days: 7
    per_day: "22р в день"
  - id: month
    name: "30 дней"
    price: 359
    days: 30
    per_day: "11р в день"
trial_days: 3
`
	writeTempConfig(t, configContent)

	cfg := MustLoad()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "123456:test-token", cfg.Bot.Token)
	assert.Equal(t, []int64{100, 200}, cfg.Bot.AdminIDs)
	require.Len(t, cfg.Bot.Channels, 1)
	assert.Equal(t, "@taro_channel", cfg.Bot.Channels[0].ID)
	assert.Equal(t, "testdata/users.json", cfg.UsersFile)
	assert.Equal(t, 10*time.Second, cfg.Content.RequestTimeout)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 3, cfg.TrialDays)
	require.Len(t, cfg.Plans, 2)
	assert.Equal(t, 159, cfg.Plans[0].Price)
	assert.Equal(t, 30, cfg.Plans[1].Days)
}

func TestIsAdmin(t *testing.T) {
	bot := Bot{AdminIDs: []int64{42, 777}}

	assert.True(t, bot.IsAdmin(42))
	assert.True(t, bot.IsAdmin(777))
	assert.False(t, bot.IsAdmin(1))
	assert.False(t, Bot{}.IsAdmin(42))
}
