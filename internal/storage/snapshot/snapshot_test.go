package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MissingFileGivesEmptyTable(t *testing.T) {
	tbl, err := Open[string](filepath.Join(t.TempDir(), "nope", "users.json"))

	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Len())
}

func TestOpen_CorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open[string](path)
	assert.Error(t, err)
}

func TestUpdate_PersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "table.json")

	tbl, err := Open[int](path)
	require.NoError(t, err)

	err = tbl.Update(func(data map[string]int) error {
		data["42"] = 7
		return nil
	})
	require.NoError(t, err)

	reloaded, err := Open[int](path)
	require.NoError(t, err)

	v, ok := reloaded.Get("42")
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestUpdate_FnErrorSkipsSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	tbl, err := Open[int](path)
	require.NoError(t, err)

	wantErr := errors.New("business rule violated")
	err = tbl.Update(func(data map[string]int) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "файл не должен быть создан")
}

func TestUpdate_ConcurrentWritersDoNotLoseUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.json")
	tbl, err := Open[int](path)
	require.NoError(t, err)

	const writers = 20
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_ = tbl.Update(func(data map[string]int) error {
				data["counter"]++
				return nil
			})
		}()
	}
	wg.Wait()

	v, ok := tbl.Get("counter")
	require.True(t, ok)
	assert.Equal(t, writers, v)
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	tbl, err := Open[int](filepath.Join(t.TempDir(), "table.json"))
	require.NoError(t, err)

	require.NoError(t, tbl.Update(func(data map[string]int) error {
		data["a"] = 1
		return nil
	}))

	snap := tbl.Snapshot()
	snap["a"] = 99

	v, _ := tbl.Get("a")
	assert.Equal(t, 1, v)
}
