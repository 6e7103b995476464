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

const (
	overridesTable     = "date_overrides"
	overrideSlotsTable = "date_override_slots"
)

var overrideColumns = []string{
	"id",
	"quest_id",
	"override_date",
	"is_closed",
	"created_at",
	"updated_at",
}

// GetOverride получает исключение квеста на дату вместе со слотами
func (r *Repository) GetOverride(ctx context.Context, questID int64, date time.Time) (*domain.DateOverride, error) {
	overrides, err := r.ListOverrides(ctx, questID, date, date)
	if err != nil {
		return nil, err
	}
	if len(overrides) == 0 {
		return nil, ErrOverrideNotFound
	}
	return overrides[0], nil
}

// ListOverrides получает исключения квеста за диапазон дат [from, to] вместе со слотами
func (r *Repository) ListOverrides(ctx context.Context, questID int64, from, to time.Time) ([]*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(overrideColumns...).
		From(overridesTable).
		Where(squirrel.Eq{"quest_id": questID}).
		Where(squirrel.GtOrEq{"override_date": domain.FormatDate(from)}).
		Where(squirrel.LtOrEq{"override_date": domain.FormatDate(to)}).
		OrderBy("override_date ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	overrides := make([]*domain.DateOverride, 0)
	byID := make(map[int64]*domain.DateOverride)
	for rows.Next() {
		var o domain.DateOverride
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&o.ID, &o.QuestID, &o.Date, &o.IsClosed, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListOverrides - scan override: %v", ErrScanRow, err)
		}

		o.Date = domain.DateOnly(o.Date)
		o.CreatedAt = createdAt.Time
		o.UpdatedAt = updatedAt.Time
		o.Slots = make([]domain.OverrideSlot, 0)

		overrides = append(overrides, &o)
		byID[o.ID] = &o
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOverrides - iterate rows: %v", ErrScanRow, err)
	}

	if len(overrides) == 0 {
		return overrides, nil
	}

	if err := r.loadOverrideSlots(ctx, executor, byID); err != nil {
		return nil, err
	}

	return overrides, nil
}

// loadOverrideSlots загружает слоты исключений одним запросом
func (r *Repository) loadOverrideSlots(ctx context.Context, executor DBExecutor, byID map[int64]*domain.DateOverride) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("override_id", "start_time", "price").
		From(overrideSlotsTable).
		Where(squirrel.Eq{"override_id": ids}).
		OrderBy("override_id ASC", "start_time ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadOverrideSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadOverrideSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var overrideID int64
		var s domain.OverrideSlot

		if err := rows.Scan(&overrideID, &s.StartTime, &s.Price); err != nil {
			return fmt.Errorf("%w: loadOverrideSlots - scan slot: %v", ErrScanRow, err)
		}

		if o, ok := byID[overrideID]; ok {
			o.Slots = append(o.Slots, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadOverrideSlots - iterate rows: %v", ErrScanRow, err)
	}

	return nil
}

// UpsertOverride создает или заменяет исключение на дату
// Список слотов заменяется целиком. Должен вызываться внутри транзакции.
func (r *Repository) UpsertOverride(ctx context.Context, o *domain.DateOverride) (*domain.DateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(overridesTable).
		Columns("quest_id", "override_date", "is_closed").
		Values(o.QuestID, domain.FormatDate(o.Date), o.IsClosed).
		Suffix("ON CONFLICT (quest_id, override_date) DO UPDATE SET is_closed = EXCLUDED.is_closed, updated_at = NOW() RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - execute insert: %v", ErrExecQuery, err)
	}
	o.CreatedAt = createdAt.Time
	o.UpdatedAt = updatedAt.Time

	query, args, err = psqlbuilder.Delete(overrideSlotsTable).
		Where(squirrel.Eq{"override_id": o.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build delete slots query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - delete slots: %v", ErrExecQuery, err)
	}

	// У закрытого дня слотов нет
	if o.IsClosed || len(o.Slots) == 0 {
		o.Slots = []domain.OverrideSlot{}
		return o, nil
	}

	insertBuilder := psqlbuilder.Insert(overrideSlotsTable).
		Columns("override_id", "start_time", "price")
	for _, s := range o.Slots {
		insertBuilder = insertBuilder.Values(o.ID, s.StartTime, s.Price)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - build insert slots query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: UpsertOverride - insert slots: %v", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteOverride удаляет исключение на дату (слоты удаляются каскадно)
func (r *Repository) DeleteOverride(ctx context.Context, questID int64, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(overridesTable).
		Where(squirrel.Eq{"quest_id": questID, "override_date": domain.FormatDate(date)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteOverride - rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrOverrideNotFound
	}

	return nil
}
