package slot

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

const tableName = "slots"

var slotColumns = []string{
	"id",
	"quest_id",
	"slot_date",
	"start_time",
	"price",
	"is_booked",
	"booking_id",
	"created_at",
	"updated_at",
}

// Repository репозиторий материализованных слотов
//
// Все изменения занятости слота выполняются одним условным UPDATE по строке слота,
// поэтому конкурентные вызовы для разных слотов не блокируют друг друга.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает слот по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	s, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return s, nil
}

// List получает слоты квеста за диапазон дат [FromDate, ToDate], упорядоченные по дате и времени
func (r *Repository) List(ctx context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From(tableName).
		Where(squirrel.Eq{"quest_id": filter.QuestID}).
		Where(squirrel.GtOrEq{"slot_date": domain.FormatDate(filter.FromDate)}).
		Where(squirrel.LtOrEq{"slot_date": domain.FormatDate(filter.ToDate)}).
		OrderBy("slot_date ASC", "start_time ASC")

	if filter.OnlyFree {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_booked": false})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return slots, nil
}

// InsertIfAbsent создает свободный слот, если слота с ключом (quest, date, time) еще нет
// Возвращает false, если слот уже существует (в том числе созданный конкурентной генерацией)
func (r *Repository) InsertIfAbsent(ctx context.Context, s domain.GeneratedSlot) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("quest_id", "slot_date", "start_time", "price", "is_booked").
		Values(s.QuestID, domain.FormatDate(s.Date), s.StartTime, s.Price, false).
		Suffix("ON CONFLICT (quest_id, slot_date, start_time) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: InsertIfAbsent - execute insert: %v", ErrExecQuery, err)
	}

	return affected(result, "InsertIfAbsent")
}

// UpdatePriceIfFree обновляет цену слота, только если он не забронирован
// Возвращает false, если слот успели забронировать или удалить
func (r *Repository) UpdatePriceIfFree(ctx context.Context, id int64, price int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("price", price).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: UpdatePriceIfFree - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: UpdatePriceIfFree - execute update: %v", ErrExecQuery, err)
	}

	return affected(result, "UpdatePriceIfFree")
}

// DeleteFree удаляет указанные слоты, пропуская забронированные
// Возвращает количество удаленных слотов
func (r *Repository) DeleteFree(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": ids, "is_booked": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFree - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFree - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteFree - rows affected: %v", ErrExecQuery, err)
	}

	return n, nil
}

// Reserve атомарно переводит свободный слот в занятый и проставляет ссылку на бронирование
// Проверка и установка флага выполняются одним UPDATE ... WHERE is_booked = false:
// из конкурентных вызовов для одного слота строку изменит ровно один.
// Возвращает false, если слот уже занят или не существует.
func (r *Repository) Reserve(ctx context.Context, slotID, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_booked", true).
		Set("booking_id", bookingID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "is_booked": false}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: Reserve - execute update: %v", ErrExecQuery, err)
	}

	return affected(result, "Reserve")
}

// Release освобождает слот независимо от текущего бронирования
// Повторное освобождение свободного слота не является ошибкой
func (r *Repository) Release(ctx context.Context, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_booked", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Release - execute update: %v", ErrExecQuery, err)
	}

	ok, err := affected(result, "Release")
	if err != nil {
		return err
	}
	if !ok {
		return ErrSlotNotFound
	}

	return nil
}

// ReleaseForBooking освобождает слот, только если он все еще привязан к bookingID
// Возвращает false, если слот уже освобожден или занят другим бронированием
func (r *Repository) ReleaseForBooking(ctx context.Context, slotID, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_booked", false).
		Set("booking_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": slotID, "booking_id": bookingID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseForBooking - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: ReleaseForBooking - execute update: %v", ErrExecQuery, err)
	}

	return affected(result, "ReleaseForBooking")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var s domain.Slot
	var bookingID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&s.ID,
		&s.QuestID,
		&s.Date,
		&s.StartTime,
		&s.Price,
		&s.IsBooked,
		&bookingID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Date = domain.DateOnly(s.Date)
	if bookingID.Valid {
		s.BookingID = &bookingID.Int64
	}
	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

func affected(result sql.Result, op string) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	return n > 0, nil
}
