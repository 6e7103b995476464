package domain

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	StatusCreated   BookingStatus = "created"
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// AwaitingConfirmationStatuses статусы неподтвержденных бронирований
var AwaitingConfirmationStatuses = []BookingStatus{
	StatusCreated,
	StatusPending,
}

// Booking бронирование (внешняя сущность, движок управляет только статусом и слотом)
type Booking struct {
	ID      int64
	QuestID int64
	SlotID  *int64
	Status  BookingStatus

	// Денормализованные данные слота (заполняются при выборке с JOIN)
	SlotDate      *time.Time
	SlotStartTime *types.TimeString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAwaitingConfirmation возвращает true для created/pending
func (b *Booking) IsAwaitingConfirmation() bool {
	return b.Status == StatusCreated || b.Status == StatusPending
}

// IsCancelled возвращает true, если бронирование отменено
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsExpired возвращает true, если неподтвержденное бронирование старше timeout
func (b *Booking) IsExpired(now time.Time, timeout time.Duration) bool {
	return b.IsAwaitingConfirmation() && !b.CreatedAt.Add(timeout).After(now)
}

// HasElapsed возвращает true, если подтвержденная игра полностью прошла
func (b *Booking) HasElapsed(now time.Time, loc *time.Location, session time.Duration) bool {
	if b.Status != StatusConfirmed || b.SlotDate == nil || b.SlotStartTime == nil {
		return false
	}
	d := *b.SlotDate
	start := b.SlotStartTime.On(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc))
	return !start.Add(session).After(now)
}
