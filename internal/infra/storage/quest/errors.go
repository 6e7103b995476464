package quest

import "errors"

var (
	// ErrQuestNotFound возвращается, когда квест не найден
	ErrQuestNotFound = errors.New("quest.repository: quest not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("quest.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("quest.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("quest.repository: failed to scan row")
)
