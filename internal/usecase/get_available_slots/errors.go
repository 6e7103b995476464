package get_available_slots

import "errors"

var (
	// ErrQuestNotFound возвращается, когда квест не найден
	ErrQuestNotFound = errors.New("quest not found")

	// ErrInvalidRange возвращается при некорректном или перевернутом диапазоне дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
