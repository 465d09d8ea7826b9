// Package retry реализует повтор операций с ограниченным числом попыток.
// Политика задаёт количество попыток, паузу между ними и предикат,
// определяющий, какие ошибки имеет смысл повторять.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy описывает политику повторов операции.
type Policy struct {
	// Attempts максимальное число попыток, включая первую.
	Attempts uint64
	// Delay пауза между попытками. Для экспоненциальной политики —
	// стартовый интервал.
	Delay time.Duration
	// Exponential включает экспоненциальный рост паузы вместо фиксированной.
	Exponential bool
	// Retryable решает, повторять ли операцию после данной ошибки.
	// Нулевое значение — повторяются все ошибки.
	Retryable func(error) bool
}

// Constant возвращает политику с фиксированной паузой между попытками.
func Constant(attempts uint64, delay time.Duration) Policy {
	return Policy{Attempts: attempts, Delay: delay}
}

// Exponential возвращает политику с экспоненциально растущей паузой.
func Exponential(attempts uint64, initial time.Duration) Policy {
	return Policy{Attempts: attempts, Delay: initial, Exponential: true}
}

// WithRetryable возвращает копию политики с заданным предикатом повторов.
func (p Policy) WithRetryable(fn func(error) bool) Policy {
	p.Retryable = fn
	return p
}

// Do выполняет fn согласно политике. Возвращает nil после первой удачной
// попытки, последнюю ошибку после исчерпания попыток либо первую ошибку,
// которую предикат счёл неповторяемой. Отмена контекста прерывает ожидание.
func Do(ctx context.Context, p Policy, fn func() error) error {
	var b backoff.BackOff
	if p.Exponential {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = p.Delay
		b = eb
	} else {
		b = backoff.NewConstantBackOff(p.Delay)
	}
	if p.Attempts > 0 {
		b = backoff.WithMaxRetries(b, p.Attempts-1)
	}
	b = backoff.WithContext(b, ctx)

	return backoff.Retry(func() error {
		err := fn()
		if err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}
