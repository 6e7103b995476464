package schedule

import "errors"

var (
	// ErrQuestNotFound возвращается, когда квест не найден
	ErrQuestNotFound = errors.New("quest not found")

	// ErrOverrideNotFound возвращается, когда исключение на дату не найдено
	ErrOverrideNotFound = errors.New("date override not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
