package schedule

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись расписания не найдена
	ErrEntryNotFound = errors.New("schedule.repository: schedule entry not found")

	// ErrBlockedSlotNotFound возвращается, когда блокировка слота не найдена
	ErrBlockedSlotNotFound = errors.New("schedule.repository: blocked slot not found")

	// ErrSlotAlreadyBlocked возвращается при попытке повторно заблокировать слот
	ErrSlotAlreadyBlocked = errors.New("schedule.repository: slot already blocked")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("schedule.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("schedule.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("schedule.repository: failed to scan row")
)
