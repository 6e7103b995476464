package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotAlreadyReferenced возвращается, когда слот уже привязан к другому живому бронированию
	ErrSlotAlreadyReferenced = errors.New("booking.repository: slot already referenced by another booking")

	// ErrBookingHasSlot возвращается, когда бронирование уже привязано к другому слоту
	ErrBookingHasSlot = errors.New("booking.repository: booking already holds another slot")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
