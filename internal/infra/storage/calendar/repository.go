package calendar

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

const tableName = "production_calendar"

// Repository репозиторий производственного календаря
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория календаря
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ListRange получает размеченные дни за диапазон [from, to]
func (r *Repository) ListRange(ctx context.Context, from, to time.Time) ([]*domain.CalendarDay, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("calendar_date", "is_holiday", "title", "source").
		From(tableName).
		Where(squirrel.GtOrEq{"calendar_date": domain.FormatDate(from)}).
		Where(squirrel.LtOrEq{"calendar_date": domain.FormatDate(to)}).
		OrderBy("calendar_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	days := make([]*domain.CalendarDay, 0)
	for rows.Next() {
		var d domain.CalendarDay
		var title sql.NullString

		if err := rows.Scan(&d.Date, &d.IsHoliday, &title, &d.Source); err != nil {
			return nil, fmt.Errorf("%w: ListRange - scan day: %v", ErrScanRow, err)
		}

		d.Date = domain.DateOnly(d.Date)
		d.Title = title.String
		days = append(days, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRange - iterate rows: %v", ErrScanRow, err)
	}

	return days, nil
}

// Upsert создает или обновляет разметку дат одним запросом
func (r *Repository) Upsert(ctx context.Context, days []*domain.CalendarDay) error {
	if len(days) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(tableName).
		Columns("calendar_date", "is_holiday", "title", "source").
		Suffix("ON CONFLICT (calendar_date) DO UPDATE SET is_holiday = EXCLUDED.is_holiday, title = EXCLUDED.title, source = EXCLUDED.source, updated_at = NOW()")
	for _, d := range days {
		insertBuilder = insertBuilder.Values(domain.FormatDate(d.Date), d.IsHoliday, d.Title, d.Source)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// Delete удаляет разметку даты, после чего дата считается не заданной
func (r *Repository) Delete(ctx context.Context, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"calendar_date": domain.FormatDate(date)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrDayNotFound
	}

	return nil
}
