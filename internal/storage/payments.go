package storage

import (
	"fmt"
	"time"

	"github.com/darinsight/tarobot/internal/storage/snapshot"
)

// PaymentLog журнал обработанных платежей. CKassa может доставить одно и
// то же уведомление повторно, поэтому номер платежа фиксируется на диске
// и повторная активация по нему не выполняется.
type PaymentLog struct {
	tbl *snapshot.Table[time.Time]
	now func() time.Time
}

// NewPaymentLog открывает журнал платежей по пути к файлу-снапшоту.
func NewPaymentLog(path string) (*PaymentLog, error) {
	const op = "storage.NewPaymentLog"

	tbl, err := snapshot.Open[time.Time](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &PaymentLog{tbl: tbl, now: time.Now}, nil
}

// Processed сообщает, обрабатывался ли уже платёж с этим номером.
// Пустой номер не учитывается.
func (p *PaymentLog) Processed(regPayNum string) bool {
	if regPayNum == "" {
		return false
	}
	_, ok := p.tbl.Get(regPayNum)
	return ok
}

// MarkProcessed фиксирует номер платежа и время его обработки.
func (p *PaymentLog) MarkProcessed(regPayNum string) error {
	const op = "storage.MarkProcessed"

	if regPayNum == "" {
		return nil
	}
	err := p.tbl.Update(func(data map[string]time.Time) error {
		data[regPayNum] = p.now()
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
