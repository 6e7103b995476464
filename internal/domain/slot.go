package domain

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Slot материализованный слот расписания (квест, дата, время) с ценой и признаком занятости
type Slot struct {
	ID        int64
	QuestID   int64
	Date      time.Time // календарная дата в часовом поясе площадки (см. DateOnly)
	StartTime types.TimeString
	Price     int64
	IsBooked  bool
	BookingID *int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree возвращает true, если слот не привязан к бронированию
func (s *Slot) IsFree() bool {
	return !s.IsBooked
}

// StartsAt возвращает момент начала слота в часовом поясе площадки
func (s *Slot) StartsAt(loc *time.Location) time.Time {
	return s.StartTime.On(time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, loc))
}

// GeneratedSlot результат генерации расписания для одной ячейки
// Заблокированная правилом ячейка (Blocked) не материализуется в слот
type GeneratedSlot struct {
	QuestID   int64
	Date      time.Time
	StartTime types.TimeString
	Price     int64
	Source    PriceSource
	Blocked   bool
	RuleID    *int64 // правило, определившее цену или блокировку
}

// PriceSource откуда взята итоговая цена слота
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceRule     PriceSource = "rule"
	PriceSourceHoliday  PriceSource = "holiday"
	PriceSourceTemplate PriceSource = "template"
)

// SlotKey уникальный ключ слота (quest, date, time)
type SlotKey struct {
	QuestID   int64
	Date      string
	StartTime types.TimeString
}

// Key возвращает ключ слота
func (s GeneratedSlot) Key() SlotKey {
	return SlotKey{QuestID: s.QuestID, Date: FormatDate(s.Date), StartTime: s.StartTime}
}

// Key возвращает ключ слота
func (s *Slot) Key() SlotKey {
	return SlotKey{QuestID: s.QuestID, Date: FormatDate(s.Date), StartTime: s.StartTime}
}

// SlotFilter фильтр выборки слотов
type SlotFilter struct {
	QuestID  int64
	FromDate time.Time
	ToDate   time.Time
	OnlyFree bool
}
