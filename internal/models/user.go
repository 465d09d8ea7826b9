// Package models содержит доменную модель пользователя бота:
// учётную запись с телеграм-идентификатором и состояние подписки.
// Структуры используются в бизнес-логике и при работе с хранилищем.
package models

import "time"

// Тип подписки пользователя.
const (
	SubscriptionNone  = ""
	SubscriptionTrial = "trial"
	SubscriptionPaid  = "paid"
)

// Subscription представляет состояние подписки пользователя.
// Поле TrialUsed монотонно: однажды став true, оно не сбрасывается,
// даже если позже пользователь оплачивает подписку.
type Subscription struct {
	Active    bool       `json:"active"`
	Type      string     `json:"type,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	Expires   *time.Time `json:"expires,omitempty"`
	TrialUsed bool       `json:"trial_used"`
}

// UserAccount представляет зарегистрированного пользователя бота.
// Seq — порядковый номер первой регистрации, задаёт порядок обхода
// пользователей при рассылке и выгрузке списков.
type UserAccount struct {
	UserID       int64        `json:"user_id"`
	Username     string       `json:"username,omitempty"`
	Subscription Subscription `json:"subscription"`
	LastActive   time.Time    `json:"last_active"`
	Seq          int64        `json:"seq"`
}
