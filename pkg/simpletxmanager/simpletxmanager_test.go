package simpletxmanager

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

// run() оборачивает ошибки begin/commit в ErrTxFailed через %w;
// конфликт сериализации должен оставаться различимым сквозь обёртку
func TestIsSerializationFailure_ThroughTxWraps(t *testing.T) {
	conflict := &pq.Error{Code: pq.ErrorCode(serializationFailure), Message: "could not serialize access"}

	commitWrap := fmt.Errorf("%w: commit: %w", ErrTxFailed, conflict)
	assert.True(t, isSerializationFailure(commitWrap))
	assert.ErrorIs(t, commitWrap, ErrTxFailed)

	beginWrap := fmt.Errorf("%w: begin: %w", ErrTxFailed, conflict)
	assert.True(t, isSerializationFailure(beginWrap))

	repoWrap := fmt.Errorf("storage: execute query: %w", conflict)
	assert.True(t, isSerializationFailure(repoWrap))
}

func TestIsSerializationFailure_OtherErrors(t *testing.T) {
	assert.False(t, isSerializationFailure(nil))
	assert.False(t, isSerializationFailure(errors.New("plain error")))
	assert.False(t, isSerializationFailure(&pq.Error{Code: "23505"}))
	assert.False(t, isSerializationFailure(fmt.Errorf("%w: commit: %v", ErrTxFailed, errors.New("io timeout"))))
}
