package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/psqlbuilder"
)

const templatesTable = "weekly_slot_templates"

// Repository репозиторий еженедельных шаблонов и исключений по датам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetWeeklyTemplate получает все записи шаблона квеста, упорядоченные по дню недели и времени
func (r *Repository) GetWeeklyTemplate(ctx context.Context, questID int64) ([]*domain.WeeklySlotTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"quest_id",
		"weekday",
		"start_time",
		"price",
		"holiday_price",
	).
		From(templatesTable).
		Where(squirrel.Eq{"quest_id": questID}).
		OrderBy("weekday ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyTemplate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyTemplate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.WeeklySlotTemplate, 0)
	for rows.Next() {
		var e domain.WeeklySlotTemplate
		var weekday int
		var holidayPrice sql.NullInt64

		if err := rows.Scan(&e.QuestID, &weekday, &e.StartTime, &e.Price, &holidayPrice); err != nil {
			return nil, fmt.Errorf("%w: GetWeeklyTemplate - scan entry: %v", ErrScanRow, err)
		}

		e.Weekday = time.Weekday(weekday)
		if holidayPrice.Valid {
			e.HolidayPrice = &holidayPrice.Int64
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetWeeklyTemplate - iterate rows: %v", ErrScanRow, err)
	}

	return entries, nil
}

// ReplaceWeeklyTemplate полностью заменяет шаблон квеста
// Должен вызываться внутри транзакции, иначе генерация может увидеть пустой шаблон
func (r *Repository) ReplaceWeeklyTemplate(ctx context.Context, questID int64, entries []domain.WeeklySlotTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(templatesTable).
		Where(squirrel.Eq{"quest_id": questID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyTemplate - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyTemplate - execute delete: %v", ErrExecQuery, err)
	}

	if len(entries) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert(templatesTable).
		Columns("quest_id", "weekday", "start_time", "price", "holiday_price")
	for _, e := range entries {
		insertBuilder = insertBuilder.Values(questID, int(e.Weekday), e.StartTime, e.Price, e.HolidayPrice)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyTemplate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceWeeklyTemplate - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}
