package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdmitr/salon-booking-service/pkg/dbmetrics"
)

type fakeTx struct {
	commitErr   error
	committed   int
	rolledBack  int
	rollbackErr error
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) Commit() error {
	t.committed++
	return t.commitErr
}

func (t *fakeTx) Rollback() error {
	t.rolledBack++
	return t.rollbackErr
}

// fakeBeginner выдает транзакции по очереди, после исчерпания — последнюю
type fakeBeginner struct {
	txs      []*fakeTx
	begun    int
	beginErr error
}

func (b *fakeBeginner) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	b.begun++
	if b.begun <= len(b.txs) {
		return b.txs[b.begun-1], nil
	}
	return b.txs[len(b.txs)-1], nil
}

func serializationErr() *pq.Error {
	return &pq.Error{Code: pq.ErrorCode(serializationFailure), Message: "could not serialize access"}
}

func TestDoSerializable_RetriesOnCommitConflict(t *testing.T) {
	conflictTx := &fakeTx{commitErr: serializationErr()}
	beginner := &fakeBeginner{txs: []*fakeTx{conflictTx}}
	m := &TransactionManager{db: beginner}

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, maxSerializableRetries, calls)
	assert.Equal(t, maxSerializableRetries, beginner.begun)
	assert.ErrorIs(t, err, ErrTxFailed)
	assert.True(t, IsSerializationFailure(err))
}

func TestDoSerializable_SucceedsAfterConflict(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{
		{commitErr: serializationErr()},
		{},
	}}
	m := &TransactionManager{db: beginner}

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, beginner.txs[1].committed)
}

func TestDoSerializable_StatementConflictRetries(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{}, {}}}
	m := &TransactionManager{db: beginner}

	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			// Конфликт на этапе выполнения запроса приходит обёрнутым репозиторием
			return fmt.Errorf("exec query: %w", serializationErr())
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, beginner.txs[0].rolledBack)
	assert.Equal(t, 1, beginner.txs[1].committed)
}

func TestDoSerializable_NonConflictErrorNotRetried(t *testing.T) {
	beginner := &fakeBeginner{txs: []*fakeTx{{}}}
	m := &TransactionManager{db: beginner}

	boom := errors.New("boom")
	calls := 0
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, beginner.txs[0].rolledBack)
}

func TestDo_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	m := &TransactionManager{db: &fakeBeginner{txs: []*fakeTx{tx}}}

	err := m.Do(context.Background(), func(ctx context.Context) error {
		assert.True(t, dbmetrics.IsInTransaction(ctx))
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, tx.committed)
	assert.Equal(t, 0, tx.rolledBack)
}

func TestIsSerializationFailure(t *testing.T) {
	conflict := serializationErr()

	assert.True(t, IsSerializationFailure(conflict))
	assert.True(t, IsSerializationFailure(fmt.Errorf("%w: commit: %w", ErrTxFailed, conflict)))
	assert.True(t, IsSerializationFailure(fmt.Errorf("wrapped twice: %w", fmt.Errorf("exec: %w", conflict))))

	assert.False(t, IsSerializationFailure(nil))
	assert.False(t, IsSerializationFailure(errors.New("plain error")))
	assert.False(t, IsSerializationFailure(&pq.Error{Code: "23505"}))
}
