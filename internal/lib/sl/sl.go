// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразные структурированные поля в логах:
// ошибки, идентификаторы пользователей и имена операций.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to fetch horoscope", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// UserID возвращает slog.Attr с телеграм-идентификатором пользователя.
func UserID(id int64) slog.Attr {
	return slog.Int64("user_id", id)
}

// Op возвращает slog.Attr с именем операции в формате "pkg.Func".
func Op(op string) slog.Attr {
	return slog.String("op", op)
}
