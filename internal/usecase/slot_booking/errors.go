package slot_booking

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot not found")

	// ErrBookingNotFound возвращается, когда бронирование не найдено или уже отменено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrConflict возвращается, когда слот уже занят (проигрыш в гонке за слот)
	ErrConflict = errors.New("slot is already booked")

	// ErrBookingHasSlot возвращается, когда бронирование уже держит другой слот
	// Оборачивается вместе с ErrConflict
	ErrBookingHasSlot = errors.New("booking already holds another slot")

	// ErrTooLate возвращается при попытке занять слот внутри окна отсечки
	ErrTooLate = errors.New("slot is too close to start time")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrStorageFailure возвращается при ошибках хранилища
	ErrStorageFailure = errors.New("usecase: storage failure")
)
