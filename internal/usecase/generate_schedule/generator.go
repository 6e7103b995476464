package generate_schedule

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/internal/pricing"
)

// Input исходные данные генерации расписания одного квеста
type Input struct {
	QuestID   int64
	From      time.Time
	To        time.Time
	Templates []*domain.WeeklySlotTemplate
	Overrides []*domain.DateOverride
	Rules     *pricing.RuleSet
	Calendar  *domain.ProductionCalendar
}

// Generate строит ячейки расписания квеста для каждой даты диапазона [From, To]
//
// Для каждой даты:
//  1. Если есть исключение на дату, оно полностью заменяет шаблон:
//     закрытый день не дает слотов, иначе слоты исключения выдаются как есть (правила к ним не применяются)
//  2. Иначе берутся записи шаблона на день недели, цена - праздничная (если день праздничный и она задана) или базовая
//  3. К каждой ячейке шаблона применяется правило-победитель: блокировка помечает ячейку Blocked,
//     цена правила заменяет цену шаблона
//
// Функция чистая: одинаковые входные данные дают одинаковый результат
func Generate(in Input) []domain.GeneratedSlot {
	days := domain.DaysInRange(in.From, in.To)
	if len(days) == 0 {
		return []domain.GeneratedSlot{}
	}

	overrides := make(map[string]*domain.DateOverride, len(in.Overrides))
	for _, o := range in.Overrides {
		if o == nil || o.QuestID != in.QuestID {
			continue
		}
		overrides[domain.FormatDate(o.Date)] = o
	}

	byWeekday := groupByWeekday(in.QuestID, in.Templates)

	result := make([]domain.GeneratedSlot, 0)
	for _, day := range days {
		if o, ok := overrides[domain.FormatDate(day)]; ok {
			result = append(result, fromOverride(in.QuestID, day, o)...)
			continue
		}

		isHoliday := in.Calendar.IsHoliday(day)
		for _, tpl := range byWeekday[day.Weekday()] {
			result = append(result, fromTemplate(in.QuestID, day, tpl, isHoliday, in.Rules))
		}
	}

	return result
}

// Bookable отбирает ячейки, которые должны существовать как слоты
func Bookable(cells []domain.GeneratedSlot) []domain.GeneratedSlot {
	out := make([]domain.GeneratedSlot, 0, len(cells))
	for _, c := range cells {
		if !c.Blocked {
			out = append(out, c)
		}
	}
	return out
}

func fromOverride(questID int64, day time.Time, o *domain.DateOverride) []domain.GeneratedSlot {
	if o.IsClosed {
		return nil
	}

	slots := make([]domain.OverrideSlot, len(o.Slots))
	copy(slots, o.Slots)
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].StartTime.IsBefore(slots[j].StartTime)
	})

	out := make([]domain.GeneratedSlot, 0, len(slots))
	for _, s := range slots {
		out = append(out, domain.GeneratedSlot{
			QuestID:   questID,
			Date:      day,
			StartTime: s.StartTime,
			Price:     s.Price,
			Source:    domain.PriceSourceOverride,
		})
	}
	return out
}

func fromTemplate(questID int64, day time.Time, tpl *domain.WeeklySlotTemplate, isHoliday bool, rules *pricing.RuleSet) domain.GeneratedSlot {
	price, source := tpl.ResolvePrice(isHoliday)
	cell := domain.GeneratedSlot{
		QuestID:   questID,
		Date:      day,
		StartTime: tpl.StartTime,
		Price:     price,
		Source:    source,
	}

	decision := rules.Evaluate(day, tpl.StartTime)
	if !decision.Matched() {
		return cell
	}

	ruleID := decision.Rule.ID
	cell.RuleID = &ruleID

	switch {
	case decision.Blocked:
		cell.Blocked = true
	case decision.Price != nil:
		cell.Price = *decision.Price
		cell.Source = domain.PriceSourceRule
	}

	return cell
}

func groupByWeekday(questID int64, templates []*domain.WeeklySlotTemplate) map[time.Weekday][]*domain.WeeklySlotTemplate {
	out := make(map[time.Weekday][]*domain.WeeklySlotTemplate, 7)
	for _, t := range templates {
		if t == nil || t.QuestID != questID {
			continue
		}
		out[t.Weekday] = append(out[t.Weekday], t)
	}
	for wd := range out {
		entries := out[wd]
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].StartTime.IsBefore(entries[j].StartTime)
		})
	}
	return out
}
