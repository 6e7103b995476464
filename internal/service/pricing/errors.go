package pricing

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило не найдено
	ErrRuleNotFound = errors.New("pricing rule not found")

	// ErrQuestNotFound возвращается, когда квест из набора правила не найден
	ErrQuestNotFound = errors.New("quest not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
