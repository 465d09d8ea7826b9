package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/darinsight/tarobot/internal/lib/sl"
)

func TestErr_ReturnsCorrectAttr(t *testing.T) {
	err := errors.New("something went wrong")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("something went wrong"), attr.Value)
}

func TestErr_NilError(t *testing.T) {
	assert.Panics(t, func() {
		_ = sl.Err(nil)
	})
}

func TestUserID(t *testing.T) {
	attr := sl.UserID(42)

	assert.Equal(t, "user_id", attr.Key)
	assert.Equal(t, int64(42), attr.Value.Int64())
}

func TestOp(t *testing.T) {
	attr := sl.Op("storage.Activate")

	assert.Equal(t, "op", attr.Key)
	assert.Equal(t, "storage.Activate", attr.Value.String())
}
