package storage

import (
	"fmt"

	"github.com/darinsight/tarobot/internal/storage/snapshot"
)

// MessageStore хранилище редактируемых администратором текстов бота.
type MessageStore struct {
	tbl *snapshot.Table[string]
}

// NewMessageStore открывает хранилище шаблонов по пути к файлу-снапшоту.
func NewMessageStore(path string) (*MessageStore, error) {
	const op = "storage.NewMessageStore"

	tbl, err := snapshot.Open[string](path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &MessageStore{tbl: tbl}, nil
}

// Get возвращает текст по ключу либо def, если ключ не задан.
func (s *MessageStore) Get(k, def string) string {
	v, ok := s.tbl.Get(k)
	if !ok || v == "" {
		return def
	}
	return v
}

// Set сохраняет текст по ключу.
func (s *MessageStore) Set(k, v string) error {
	const op = "storage.MessageStore.Set"

	err := s.tbl.Update(func(data map[string]string) error {
		data[k] = v
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
