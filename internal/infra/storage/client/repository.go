package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/dbmetrics"
	"github.com/avdmitr/salon-booking-service/pkg/psqlbuilder"
)

var clientColumns = []string{
	"id",
	"name",
	"phone",
	"email",
	"telegram_id",
	"telegram_username",
	"notes",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с клиентами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория клиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// UpsertByPhone атомарно находит или создает клиента по каноничному телефону.
// Телефон уникален на уровне БД, поэтому конкурирующие первые бронирования
// с одним номером не создают дублей: проигравший INSERT превращается в UPDATE.
// Имя обновляется, email дополняется, если раньше отсутствовал
func (r *Repository) UpsertByPhone(ctx context.Context, c *domain.Client) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("clients").
		Columns("name", "phone", "email", "telegram_id", "telegram_username").
		Values(c.Name, c.Phone, c.Email, c.TelegramID, c.TelegramUsername).
		Suffix(`ON CONFLICT (phone) DO UPDATE SET
			name = EXCLUDED.name,
			email = COALESCE(EXCLUDED.email, clients.email),
			telegram_id = COALESCE(EXCLUDED.telegram_id, clients.telegram_id),
			telegram_username = COALESCE(EXCLUDED.telegram_username, clients.telegram_username),
			updated_at = NOW()
		RETURNING ` + columnList()).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - build upsert query: %v", ErrBuildQuery, err)
	}

	result, err := r.scanClient(executor.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertByPhone - execute upsert: %w", ErrExecQuery, err)
	}

	return result, nil
}

// GetByPhone получает клиента по каноничному телефону
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"phone": phone}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByPhone - build select query: %v", ErrBuildQuery, err)
	}

	result, err := r.scanClient(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPhone - scan client: %w", ErrScanRow, err)
	}

	return result, nil
}

// GetByID получает клиента по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Client, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(clientColumns...).
		From("clients").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	result, err := r.scanClient(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan client: %w", ErrScanRow, err)
	}

	return result, nil
}

func columnList() string {
	return strings.Join(clientColumns, ", ")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanClient(row rowScanner) (*domain.Client, error) {
	var c domain.Client
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Email,
		&c.TelegramID,
		&c.TelegramUsername,
		&c.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.CreatedAt = createdAt.Time
	c.UpdatedAt = updatedAt.Time

	return &c, nil
}
