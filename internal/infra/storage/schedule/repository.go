package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/avdmitr/salon-booking-service/internal/domain"
	"github.com/avdmitr/salon-booking-service/pkg/dbmetrics"
	"github.com/avdmitr/salon-booking-service/pkg/psqlbuilder"
)

const (
	salonTable  = "work_schedule"
	masterTable = "master_availability"

	// Код ошибки PostgreSQL: нарушение уникального ограничения
	uniqueViolation = "23505"
)

var scheduleColumns = []string{
	"id",
	"day_of_week",
	"start_time",
	"end_time",
	"is_working",
	"updated_at",
}

var blockedColumns = []string{
	"id",
	"slot_date",
	"slot_time",
	"duration_minutes",
	"reason",
	"created_at",
}

// Repository репозиторий для работы с недельными шаблонами расписания
// и административными блокировками слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSalonDay получает строку шаблона расписания салона на день недели
func (r *Repository) GetSalonDay(ctx context.Context, dayOfWeek int) (*domain.ScheduleEntry, error) {
	return r.getDay(ctx, salonTable, dayOfWeek)
}

// GetMasterDay получает строку персональной доступности мастера на день недели
func (r *Repository) GetMasterDay(ctx context.Context, dayOfWeek int) (*domain.ScheduleEntry, error) {
	return r.getDay(ctx, masterTable, dayOfWeek)
}

// GetSalonWeek получает все строки шаблона расписания салона
func (r *Repository) GetSalonWeek(ctx context.Context) ([]*domain.ScheduleEntry, error) {
	return r.getWeek(ctx, salonTable)
}

// GetMasterWeek получает все строки персональной доступности мастера
func (r *Repository) GetMasterWeek(ctx context.Context) ([]*domain.ScheduleEntry, error) {
	return r.getWeek(ctx, masterTable)
}

// UpsertSalonDay создает или обновляет строку шаблона расписания салона
func (r *Repository) UpsertSalonDay(ctx context.Context, entry *domain.ScheduleEntry) (*domain.ScheduleEntry, error) {
	return r.upsertDay(ctx, salonTable, entry)
}

// UpsertMasterDay создает или обновляет строку персональной доступности мастера
func (r *Repository) UpsertMasterDay(ctx context.Context, entry *domain.ScheduleEntry) (*domain.ScheduleEntry, error) {
	return r.upsertDay(ctx, masterTable, entry)
}

func (r *Repository) getDay(ctx context.Context, table string, dayOfWeek int) (*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From(table).
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getDay - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := r.scanEntry(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getDay - scan entry: %w", ErrScanRow, err)
	}

	return entry, nil
}

func (r *Repository) getWeek(ctx context.Context, table string) ([]*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From(table).
		OrderBy("day_of_week ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: getWeek - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getWeek - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.ScheduleEntry, 0, 7)
	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: getWeek - scan row: %w", ErrScanRow, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: getWeek - rows error: %w", ErrScanRow, err)
	}

	return entries, nil
}

func (r *Repository) upsertDay(ctx context.Context, table string, entry *domain.ScheduleEntry) (*domain.ScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("day_of_week", "start_time", "end_time", "is_working").
		Values(entry.DayOfWeek, entry.StartTime, entry.EndTime, entry.IsWorking).
		Suffix(`ON CONFLICT (day_of_week) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			is_working = EXCLUDED.is_working,
			updated_at = NOW()
			RETURNING id, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: upsertDay - build upsert query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: upsertDay - execute upsert: %w", ErrExecQuery, err)
	}

	entry.UpdatedAt = updatedAt.Time

	return entry, nil
}

// GetBlockedByDate получает блокировки слотов на дату,
// отсортированные по времени начала
func (r *Repository) GetBlockedByDate(ctx context.Context, date time.Time) ([]*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(blockedColumns...).
		From("blocked_slots").
		Where(squirrel.Eq{"slot_date": date}).
		OrderBy("slot_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBlockedByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	blocked := make([]*domain.BlockedSlot, 0)
	for rows.Next() {
		slot, err := r.scanBlockedSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBlockedByDate - scan row: %w", ErrScanRow, err)
		}
		blocked = append(blocked, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBlockedByDate - rows error: %w", ErrScanRow, err)
	}

	return blocked, nil
}

// CreateBlocked создает блокировку слота
// Повторная блокировка той же пары (дата, время) возвращает ErrSlotAlreadyBlocked —
// уникальность обеспечивает ограничение БД, а не проверка перед вставкой
func (r *Repository) CreateBlocked(ctx context.Context, slot *domain.BlockedSlot) (*domain.BlockedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("blocked_slots").
		Columns("slot_date", "slot_time", "duration_minutes", "reason").
		Values(slot.Date, slot.StartTime, slot.DurationMinutes, slot.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateBlocked - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlotAlreadyBlocked
		}
		return nil, fmt.Errorf("%w: CreateBlocked - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time

	return slot, nil
}

// DeleteBlocked удаляет блокировку по точной паре (дата, время)
func (r *Repository) DeleteBlocked(ctx context.Context, date time.Time, slotTime string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("blocked_slots").
		Where(squirrel.Eq{"slot_date": date}).
		Where(squirrel.Eq{"slot_time": slotTime}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteBlocked - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBlockedSlotNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanEntry(row rowScanner) (*domain.ScheduleEntry, error) {
	var entry domain.ScheduleEntry
	var updatedAt sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.DayOfWeek,
		&entry.StartTime,
		&entry.EndTime,
		&entry.IsWorking,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.UpdatedAt = updatedAt.Time

	return &entry, nil
}

func (r *Repository) scanBlockedSlot(row rowScanner) (*domain.BlockedSlot, error) {
	var slot domain.BlockedSlot
	var createdAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.Date,
		&slot.StartTime,
		&slot.DurationMinutes,
		&slot.Reason,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	slot.CreatedAt = createdAt.Time

	return &slot, nil
}
