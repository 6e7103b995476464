package domain

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// WeeklySlotTemplate повторяющийся еженедельный слот квеста
// Уникален по (QuestID, Weekday, StartTime)
type WeeklySlotTemplate struct {
	QuestID      int64
	Weekday      time.Weekday // 0 = воскресенье ... 6 = суббота
	StartTime    types.TimeString
	Price        int64
	HolidayPrice *int64
}

// ResolvePrice возвращает цену шаблона с учетом праздничного дня
// Праздничная цена применяется, только если она задана
func (t *WeeklySlotTemplate) ResolvePrice(isHoliday bool) (int64, PriceSource) {
	if isHoliday && t.HolidayPrice != nil {
		return *t.HolidayPrice, PriceSourceHoliday
	}
	return t.Price, PriceSourceTemplate
}
