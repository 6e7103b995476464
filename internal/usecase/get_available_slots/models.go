package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Request модель запроса на получение свободных слотов
type Request struct {
	QuestID int64      // ID квеста
	From    *time.Time // Начало диапазона (nil - сегодня)
	To      *time.Time // Конец диапазона включительно (nil - сегодня + BookingDaysAhead)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	QuestID int64
	From    time.Time
	To      time.Time
	Slots   []Slot
}

// Slot модель свободного слота
type Slot struct {
	ID        int64
	Date      time.Time        // Дата слота
	StartTime types.TimeString // Время начала (например, "10:00")
	Price     int64            // Итоговая цена
}
