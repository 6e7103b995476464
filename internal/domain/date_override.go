package domain

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// DateOverride исключение расписания квеста на конкретную дату
// Полностью заменяет еженедельный шаблон на эту дату (без слияния)
type DateOverride struct {
	ID       int64
	QuestID  int64
	Date     time.Time
	IsClosed bool
	Slots    []OverrideSlot // упорядочены по времени

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OverrideSlot явный слот исключения
type OverrideSlot struct {
	StartTime types.TimeString
	Price     int64
}
