package generate_schedule

import "errors"

var (
	// ErrInvalidRange возвращается при некорректном или перевернутом диапазоне дат
	ErrInvalidRange = errors.New("invalid date range")

	// ErrQuestNotFound возвращается, когда квест не найден
	ErrQuestNotFound = errors.New("quest not found")

	// ErrStorageFailure возвращается при ошибках хранилища
	ErrStorageFailure = errors.New("usecase: storage failure")
)
