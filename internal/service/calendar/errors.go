package calendar

import "errors"

var (
	// ErrDayNotFound возвращается, когда дата отсутствует в календаре
	ErrDayNotFound = errors.New("calendar day not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidRange возвращается при некорректном диапазоне дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
