package block_slot

import "errors"

var (
	// ErrSlotAlreadyBlocked возвращается при повторной блокировке того же слота
	ErrSlotAlreadyBlocked = errors.New("block_slot: slot is already blocked")

	// ErrSlotOccupied возвращается при блокировке интервала, занятого активной записью
	ErrSlotOccupied = errors.New("block_slot: slot is occupied by an appointment")

	// ErrBlockedSlotNotFound возвращается, когда блокировка не найдена
	ErrBlockedSlotNotFound = errors.New("block_slot: blocked slot not found")

	// ErrInvalidDate возвращается при дате блокировки в прошлом
	ErrInvalidDate = errors.New("block_slot: invalid date")

	// ErrDayClosed возвращается при блокировке целого дня, когда салон не работает
	ErrDayClosed = errors.New("block_slot: salon is closed on this date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("block_slot: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("block_slot: internal error")
)
