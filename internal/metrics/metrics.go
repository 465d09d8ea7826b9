// Package metrics регистрирует счётчики Prometheus для ключевых потоков
// бота: платёжные уведомления, рассылки и сбои парсера контента.
// Экспортируются через /metrics на callback-сервере.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PaymentCallbacks счётчик обработанных callback-ов по результату:
// activated, not_paid, rejected, duplicate, error.
var PaymentCallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tarobot_payment_callbacks_total",
	Help: "Payment gateway callbacks by processing result.",
}, []string{"result"})

// BroadcastMessages счётчик сообщений рассылки по результату: ok, failed.
var BroadcastMessages = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tarobot_broadcast_messages_total",
	Help: "Broadcast messages by delivery result.",
}, []string{"result"})

// ContentFallbacks счётчик ответов-заглушек вместо контента: horoscope, tarot.
var ContentFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "tarobot_content_fallbacks_total",
	Help: "Content requests answered with a fallback message.",
}, []string{"kind"})
