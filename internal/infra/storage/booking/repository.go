package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// uniqueViolation код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolation = "23505"

// Repository репозиторий бронирований
// Бронированиями владеет внешний слой, здесь только статус и ссылка на слот
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"b.id",
		"b.quest_id",
		"b.slot_id",
		"b.status",
		"b.created_at",
		"b.updated_at",
		"s.slot_date",
		"s.start_time",
	).
		From("bookings b").
		LeftJoin("slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	b, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return b, nil
}

// AttachSlot проставляет бронированию ссылку на слот
// Бронирование, уже привязанное к другому слоту, не перепривязывается (ErrBookingHasSlot).
// Частичный уникальный индекс по slot_id (для неотмененных бронирований)
// гарантирует, что слот не будет привязан к двум живым бронированиям.
func (r *Repository) AttachSlot(ctx context.Context, bookingID, slotID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", slotID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": bookingID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		Where(squirrel.Or{squirrel.Eq{"slot_id": nil}, squirrel.Eq{"slot_id": slotID}}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrSlotAlreadyReferenced
		}
		return fmt.Errorf("%w: AttachSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: AttachSlot - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return r.attachFailureReason(ctx, bookingID)
	}

	return nil
}

// attachFailureReason различает отсутствующее бронирование и бронирование с другим слотом
func (r *Repository) attachFailureReason(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("slot_id").
		From("bookings").
		Where(squirrel.Eq{"id": bookingID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: AttachSlot - build select query: %v", ErrBuildQuery, err)
	}

	var slotID sql.NullInt64
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slotID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: AttachSlot - scan booking: %v", ErrScanRow, err)
	}

	return ErrBookingHasSlot
}

// DetachSlot снимает ссылку на слот с живых бронирований
// Отмененные бронирования сохраняют ссылку для истории
func (r *Repository) DetachSlot(ctx context.Context, slotID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("slot_id", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"slot_id": slotID}).
		Where(squirrel.NotEq{"status": string(domain.StatusCancelled)}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DetachSlot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DetachSlot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DetachSlot - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

// ListExpiredAwaiting получает неподтвержденные бронирования, созданные не позже createdBefore
func (r *Repository) ListExpiredAwaiting(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"b.id",
		"b.quest_id",
		"b.slot_id",
		"b.status",
		"b.created_at",
		"b.updated_at",
		"s.slot_date",
		"s.start_time",
	).
		From("bookings b").
		LeftJoin("slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.status": statusStrings(domain.AwaitingConfirmationStatuses)}).
		Where(squirrel.LtOrEq{"b.created_at": createdBefore}).
		OrderBy("b.created_at ASC", "b.id ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredAwaiting - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListExpiredAwaiting - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// ListConfirmedUntil получает подтвержденные бронирования со слотом на дату не позже date
// Окончательная проверка завершения игры выполняется по времени слота на стороне вызывающего
func (r *Repository) ListConfirmedUntil(ctx context.Context, date time.Time, limit int) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"b.id",
		"b.quest_id",
		"b.slot_id",
		"b.status",
		"b.created_at",
		"b.updated_at",
		"s.slot_date",
		"s.start_time",
	).
		From("bookings b").
		Join("slots s ON s.id = b.slot_id").
		Where(squirrel.Eq{"b.status": string(domain.StatusConfirmed)}).
		Where(squirrel.LtOrEq{"s.slot_date": domain.FormatDate(date)}).
		OrderBy("s.slot_date ASC", "s.start_time ASC", "b.id ASC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedUntil - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListConfirmedUntil - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// TransitionStatus переводит бронирование в статус to, только если текущий статус входит в from
// Возвращает false, если статус уже изменился (например, бронирование подтвердили параллельно)
func (r *Repository) TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", string(to)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": statusStrings(from)}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TransitionStatus - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var b domain.Booking
	var slotID sql.NullInt64
	var status string
	var createdAt, updatedAt, slotDate sql.NullTime
	var startTime types.TimeString

	err := row.Scan(
		&b.ID,
		&b.QuestID,
		&slotID,
		&status,
		&createdAt,
		&updatedAt,
		&slotDate,
		&startTime,
	)
	if err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatus(status)
	if slotID.Valid {
		b.SlotID = &slotID.Int64
	}
	if slotDate.Valid {
		d := domain.DateOnly(slotDate.Time)
		b.SlotDate = &d
	}
	if !startTime.IsZero() {
		b.SlotStartTime = &startTime
	}
	b.CreatedAt = createdAt.Time
	b.UpdatedAt = updatedAt.Time

	return &b, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
