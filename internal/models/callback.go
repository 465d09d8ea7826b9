// Package models содержит также типы для приёма данных внешних источников.
package models

// CallbackPayload используется для приёма уведомления об оплате от CKassa.
// Сумма приходит строкой в копейках, идентификатор пользователя — внутри
// словаря property под ключом "ИДЕНТИФИКАТОР" (формат задаёт платёжный шлюз).
type CallbackPayload struct {
	Property  CallbackProperty `json:"property" validate:"required"`
	State     string           `json:"state" validate:"required"`
	Amount    string           `json:"amount" validate:"required,numeric"`
	RegPayNum string           `json:"regPayNum"`
}

// CallbackProperty словарь свойств платежа из уведомления CKassa.
type CallbackProperty struct {
	UserID string `json:"ИДЕНТИФИКАТОР" validate:"required,numeric"`
}
