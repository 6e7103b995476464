package generate_schedule

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// Действия генерации над слотами (метки метрики)
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionRemoved       = "removed"
	ActionSkippedBooked = "skipped_booked"
)

// Request модель запроса на генерацию расписания
type Request struct {
	QuestID *int64     // nil - все активные квесты
	From    *time.Time // nil - сегодня
	To      *time.Time // nil - сегодня + BookingDaysAhead
}

// Stats счетчики изменений слотов
type Stats struct {
	Created       int // создано новых слотов
	Updated       int // обновлена цена свободного слота
	Unchanged     int // слот уже существует с той же ценой
	Removed       int // удалено свободных слотов, которые больше не генерируются
	SkippedBooked int // забронированные слоты, оставленные без изменений
	Blocked       int // ячейки, заблокированные правилами
}

func (s *Stats) add(other Stats) {
	s.Created += other.Created
	s.Updated += other.Updated
	s.Unchanged += other.Unchanged
	s.Removed += other.Removed
	s.SkippedBooked += other.SkippedBooked
	s.Blocked += other.Blocked
}

// QuestResult результат генерации для одного квеста
type QuestResult struct {
	QuestID int64
	Stats
}

// Response модель ответа генерации
type Response struct {
	From   time.Time
	To     time.Time
	Quests []QuestResult
	Total  Stats
}

// PreviewResponse ячейки расписания без сохранения
type PreviewResponse struct {
	QuestID int64
	From    time.Time
	To      time.Time
	Cells   []domain.GeneratedSlot
}
