package quest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/psqlbuilder"
)

// Repository репозиторий квестов (только чтение, квестами владеет слой контента)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория квестов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает квест по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Quest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "is_active").
		From("quests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var q domain.Quest
	err = executor.QueryRowContext(ctx, query, args...).Scan(&q.ID, &q.Name, &q.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan quest: %v", ErrScanRow, err)
	}

	return &q, nil
}

// ListActive получает все активные квесты
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Quest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "is_active").
		From("quests").
		Where(squirrel.Eq{"is_active": true}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	quests := make([]*domain.Quest, 0)
	for rows.Next() {
		var q domain.Quest
		if err := rows.Scan(&q.ID, &q.Name, &q.IsActive); err != nil {
			return nil, fmt.Errorf("%w: ListActive - scan quest: %v", ErrScanRow, err)
		}
		quests = append(quests, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActive - iterate rows: %v", ErrScanRow, err)
	}

	return quests, nil
}
