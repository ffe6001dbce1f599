package modify_booking

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// или телефон не совпадает с владельцем записи
	ErrAppointmentNotFound = errors.New("modify_booking: appointment not found")

	// ErrNotModifiable возвращается, когда запись в терминальном статусе
	ErrNotModifiable = errors.New("modify_booking: appointment can not be modified")

	// ErrTooLateToModify возвращается при нарушении отсечки на изменение
	ErrTooLateToModify = errors.New("modify_booking: too late to modify this appointment")

	// ErrInvalidDate возвращается при дате переноса в прошлом
	ErrInvalidDate = errors.New("modify_booking: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата переноса превышает горизонт
	ErrDateTooFarInFuture = errors.New("modify_booking: date is too far in the future")

	// ErrDayClosed возвращается, когда салон не работает в дату переноса
	ErrDayClosed = errors.New("modify_booking: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов
	ErrInvalidTimeSlot = errors.New("modify_booking: invalid time slot")

	// ErrSlotNotAvailable возвращается, когда новый слот занят
	ErrSlotNotAvailable = errors.New("modify_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("modify_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("modify_booking: internal error")
)
