package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrInvalidDate возвращается при дате записи в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid appointment date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает горизонт бронирования
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrDayClosed возвращается, когда салон или мастер не работают в указанную дату
	ErrDayClosed = errors.New("create_booking: salon is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов
	// или услуга не помещается в рабочее окно
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается при нарушении минимального уведомления
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotNotAvailable возвращается, когда слот занят другой записью или блокировкой
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrDuplicateBooking возвращается, когда у клиента уже есть активная запись,
	// пересекающаяся с запрошенным интервалом
	ErrDuplicateBooking = errors.New("create_booking: client already has an appointment at this time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
