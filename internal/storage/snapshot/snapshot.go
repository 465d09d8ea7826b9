// Package snapshot реализует таблицу "ключ — значение" поверх JSON-файла.
// Вся таблица держится в памяти, каждая мутация атомарно переписывает файл
// целиком (запись во временный файл + rename). Мутации сериализуются
// мьютексом: при двух источниках записи (бот и callback-сервер) это
// исключает потерянные обновления.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Table таблица значений типа T с JSON-снапшотом на диске.
type Table[T any] struct {
	mu   sync.Mutex
	path string
	data map[string]T
}

// Open загружает таблицу из файла. Отсутствующий файл — пустая таблица,
// каталог при необходимости создаётся при первой записи.
func Open[T any](path string) (*Table[T], error) {
	const op = "snapshot.Open"

	t := &Table[T]{
		path: path,
		data: make(map[string]T),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(raw, &t.data); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, path, err)
	}
	return t, nil
}

// Get возвращает значение по ключу.
func (t *Table[T]) Get(key string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	v, ok := t.data[key]
	return v, ok
}

// Len возвращает количество записей.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.data)
}

// Snapshot возвращает копию всей таблицы.
func (t *Table[T]) Snapshot() map[string]T {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make(map[string]T, len(t.data))
	for k, v := range t.data {
		out[k] = v
	}
	return out
}

// Update выполняет мутацию таблицы под мьютексом и сохраняет снапшот.
// Ошибка fn отменяет сохранение, ошибка записи на диск возвращается
// вызывающему: молча терять мутацию нельзя. Откат данных в памяти при
// ошибке записи не выполняется — при падении процесс просто перечитает
// последний удачный снапшот.
func (t *Table[T]) Update(fn func(data map[string]T) error) error {
	const op = "snapshot.Update"

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := fn(t.data); err != nil {
		return err
	}
	if err := t.save(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// save записывает снапшот атомарно: temp-файл в том же каталоге + rename.
// Вызывается только под мьютексом.
func (t *Table[T]) save() error {
	raw, err := json.MarshalIndent(t.data, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), t.path)
}
